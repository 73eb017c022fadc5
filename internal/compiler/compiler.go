// Package compiler orchestrates the full SPL pipeline: lex, extract
// declarations, resolve reachability, hoist string literals, generate
// code, and emit assembly — in that order, stopping at the first
// error.
package compiler

import (
	"fmt"
	"os"
	"time"

	"github.com/tomcircuit/spl-6809/internal/cerrors"
	"github.com/tomcircuit/spl-6809/internal/codegen"
	"github.com/tomcircuit/spl-6809/internal/decl"
	"github.com/tomcircuit/spl-6809/internal/emit"
	"github.com/tomcircuit/spl-6809/internal/hoist"
	"github.com/tomcircuit/spl-6809/internal/reach"
	"github.com/tomcircuit/spl-6809/internal/symtab"
	"github.com/tomcircuit/spl-6809/internal/token"
)

// Options holds every compiler setting the CLI exposes.
type Options struct {
	Output      string // -o
	Target      string // -t, only "asm" is supported
	Org         *uint64 // -org, overrides any `org` statement in the source
	VarTop      uint64 // -var, top-of-variables address
	StackSize   uint64 // -stack
	Sys         bool   // -sys, forces origin to 0x2000
	Warn        int    // -warn, library-closure-size advisory threshold; 0 disables it
	Verbose     bool   // -verbose
	Debug       bool   // -debug
	LwasmPath   string
	LibPath     string
	IncludePath string
}

// DefaultOptions returns the compiler's baked-in defaults, overridable
// by environment variables the way the original's os.getenv(...,
// default=...) calls worked.
func DefaultOptions() Options {
	return Options{
		Target:    "asm",
		VarTop:    0xF000,
		StackSize: 0x0100,
		LwasmPath: envOr("SPL_LWASM_PATH", "lwasm"),
		LibPath:   envOr("SPL_LIB_PATH", "./lib"),
		IncludePath: envOr("SPL_INCLUDE_PATH", "./include"),
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// Session runs the pipeline with a fixed set of Options. Clock is
// injectable so the emitted header banner is deterministic in tests;
// it defaults to time.Now.
type Session struct {
	Opts  Options
	Clock func() time.Time
}

// NewSession returns a Session bound to opts.
func NewSession(opts Options) *Session {
	return &Session{Opts: opts}
}

// Compile runs every pipeline stage over source in order, producing
// the final assembler text. It halts and returns the first error any
// stage produces.
func (s *Session) Compile(source string) (string, error) {
	if s.Opts.Target != "asm" {
		return "", cerrors.New("compiler", "unsupported target %q: only \"asm\" is implemented; other values are reserved for post-assembly stages out of scope here", s.Opts.Target)
	}

	toks, err := token.New(source).Tokenize()
	if err != nil {
		return "", cerrors.New("lexer", "%v", err)
	}

	tbl := symtab.New()
	if err := decl.SeedBuiltins(tbl); err != nil {
		return "", cerrors.New("decl", "%v", err)
	}
	for word := range reach.LibraryMap {
		if err := tbl.SeedLibraryWord(word); err != nil {
			return "", cerrors.New("decl", "%v", err)
		}
	}

	declRes, err := decl.Extract(toks, tbl)
	if err != nil {
		return "", cerrors.New("decl", "%v", err)
	}

	origin := declRes.Origin
	if s.Opts.Org != nil {
		origin = *s.Opts.Org
	}
	if s.Opts.Sys {
		origin = 0x2000
	}

	reachRes, err := reach.Resolve(tbl)
	if err != nil {
		return "", cerrors.New("reach", "%v", err)
	}

	if s.Opts.Warn > 0 && len(reachRes.Libraries) > s.Opts.Warn {
		fmt.Fprintf(os.Stderr, "warning: library dependency closure pulled in %d routines (over the -warn threshold of %d)\n",
			len(reachRes.Libraries), s.Opts.Warn)
	}

	h := hoist.New(tbl)
	if err := h.Hoist(reachRes.Functions); err != nil {
		return "", cerrors.New("hoist", "%v", err)
	}

	gen := codegen.New(tbl, reach.LibraryMap, s.Opts.Verbose)
	functions := make(map[string][]codegen.Instruction, len(reachRes.Functions))
	for _, name := range reachRes.Functions {
		instrs, err := gen.Generate(name)
		if err != nil {
			return "", err
		}
		functions[name] = instrs
	}

	clock := s.Clock
	if clock == nil {
		clock = time.Now
	}

	out, err := emit.Emit(emit.Options{
		Origin:    origin,
		VarTop:    s.Opts.VarTop,
		StackSize: s.Opts.StackSize,
		LibPath:   s.Opts.LibPath,
		Verbose:   s.Opts.Verbose,
		Clock:     clock,
	}, emit.Input{
		Table:     tbl,
		Reach:     reachRes,
		Functions: functions,
	})
	if err != nil {
		return "", cerrors.New("emit", "%v", err)
	}

	if s.Opts.Debug {
		fmt.Fprintf(os.Stderr, "debug: origin=$%04X functions=%d libraries=%d\n",
			origin, len(reachRes.Functions), len(reachRes.Libraries))
	}

	return out, nil
}
