// Package emit implements the Assembly Emitter: the final stage that
// composes every prior stage's output into a single lwasm-compatible
// HD6309 assembler source text, in a fixed, deterministic order.
package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomcircuit/spl-6809/internal/codegen"
	"github.com/tomcircuit/spl-6809/internal/literal"
	"github.com/tomcircuit/spl-6809/internal/reach"
	"github.com/tomcircuit/spl-6809/internal/symtab"
)

// Options configures emission: the resolved link addresses, the
// library source directory, verbosity, and an injectable clock so the
// header banner is deterministic under test.
type Options struct {
	Origin    uint64 // code origin (ORG)
	VarTop    uint64 // top-of-variables address; variables are allocated descending from here
	StackSize uint64
	LibPath   string
	Verbose   bool
	Clock     func() time.Time
}

// Input bundles everything the emitter needs from the earlier stages.
type Input struct {
	Table     *symtab.Table
	Reach     *reach.Result
	Functions map[string][]codegen.Instruction // compiled bodies, keyed by function name
}

const version = "spl-6809 1.0"

// Emit composes the final assembler source in twelve ordered steps:
// header, pragma, equates, variable region, stack equate, origin and
// entry stub, data blocks, code blocks, string pool, library routine
// concatenation, compiled function bodies, and the end label.
func Emit(opts Options, in Input) (string, error) {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	var b strings.Builder

	// 1. header banner
	fmt.Fprintf(&b, "; %s\n", version)
	fmt.Fprintf(&b, "; generated %s\n", clock().Format(time.RFC1123))
	b.WriteString("\n")

	// 2. pragma
	b.WriteString(pp("", "PRAGMA", "6809conv", ""))

	// 3. equates: the intrinsic scratch-pad workspace (stack base,
	// op1/op2/res/rem/tmp/sign, dreg/wreg/xreg/yreg/ureg, outbuf/inbuf),
	// allocated immediately below the user stack.
	scratchTop := opts.VarTop - opts.StackSize
	b.WriteString(pp(codegen.ScratchStack, "EQU", fmt.Sprintf("$%04X", opts.VarTop), ""))
	cell := scratchTop
	for _, name := range codegen.ScratchPadOrder {
		cell -= uint64(codegen.ScratchPadSizes[name])
		b.WriteString(pp(name, "EQU", fmt.Sprintf("$%04X", cell), ""))
	}
	b.WriteString("\n")

	// 4 & 5. variable region: RMB is a location-counter reservation, so
	// (per spl.py:2602-2608) the total size is summed first to find the
	// region's low address, an ORG places the assembler there, and each
	// variable is then reserved in turn ascending back up to the
	// scratch-pad floor.
	varNames := in.Table.OfKind(symtab.Var)
	var varTotal uint64
	for _, name := range varNames {
		varTotal += uint64(in.Table.Lookup(name).Variable.Size)
	}
	lowAddr := cell - varTotal
	b.WriteString(pp("", "ORG", fmt.Sprintf("$%04X", lowAddr), ""))
	for _, name := range varNames {
		v := in.Table.Lookup(name).Variable
		b.WriteString(pp(name, "RMB", fmt.Sprintf("%d", v.Size), ""))
	}
	b.WriteString(pp("STACKSZ", "EQU", fmt.Sprintf("$%04X", opts.StackSize), ""))
	b.WriteString("\n")

	if opts.Origin < opts.VarTop && opts.Origin+codeFootprint(in) > lowAddr {
		return "", fmt.Errorf("code region [$%04X,...) overlaps variable region [$%04X,$%04X)", opts.Origin, lowAddr, opts.VarTop)
	}

	// 6. origin and entry stub: load the user-stack pointer with the
	// stack base before branching to main.
	b.WriteString(pp("", "ORG", fmt.Sprintf("$%04X", opts.Origin), ""))
	b.WriteString(pp("START", "LDU", "#"+codegen.ScratchStack, ""))
	b.WriteString(pp("", "JMP", "main", ""))
	b.WriteString("\n")

	// 7. data blocks, in reachability order: one directive per element,
	// decoded and bounds-checked, with the pseudo-op width-selected by
	// each element's own storage qualifier.
	for _, name := range in.Reach.DataBlocks {
		d := in.Table.Lookup(name).DataBlk
		b.WriteString(pp(name, "", "", ""))
		for _, tok := range d.Tokens {
			n, err := literal.Parse(tok)
			if err != nil {
				return "", fmt.Errorf("data block %q: element %q: %w", name, tok, err)
			}
			if !n.Bound {
				return "", fmt.Errorf("data block %q: element %q out of bounds", name, tok)
			}
			op, operand := dataDirective(n)
			b.WriteString(pp("", op, operand, ""))
		}
	}
	b.WriteString("\n")

	// 8. code blocks, in reachability order (verbatim token text)
	for _, name := range in.Reach.CodeBlocks {
		c := in.Table.Lookup(name).CodeBlk
		b.WriteString(pp(name, "", "", ""))
		for _, tok := range c.Tokens {
			b.WriteString(pp("", tok, "", ""))
		}
	}
	b.WriteString("\n")

	// 9. string pool: a leading length byte precedes each literal body.
	for _, name := range in.Table.OfKind(symtab.Str) {
		s := in.Table.Lookup(name).String
		b.WriteString(pp(name, "FCB", fmt.Sprintf("%d", len(s.Value)), ""))
		b.WriteString(pp("", "FCN", fmt.Sprintf("%q", s.Value), ""))
	}
	b.WriteString("\n")

	// 10. library routine concatenation, dependency-closed order
	for _, label := range in.Reach.Libraries {
		src, err := readLibrary(opts.LibPath, label)
		if err != nil {
			return "", fmt.Errorf("library routine %q: %w", label, err)
		}
		fmt.Fprintf(&b, "; --- library: %s ---\n", label)
		b.WriteString(src)
		if !strings.HasSuffix(src, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	// 11. compiled function bodies, in reachability order
	for _, name := range in.Reach.Functions {
		instrs := in.Functions[name]
		b.WriteString(pp(name, "", "", ""))
		for _, ins := range instrs {
			comment := ""
			if opts.Verbose {
				comment = ins.Comment
			}
			b.WriteString(pp(ins.Label, ins.Op, ins.Operand, comment))
		}
	}

	// 12. end label
	b.WriteString(pp("", "END", "START", ""))

	return b.String(), nil
}

// codeFootprint is an upper bound on the size of the compiled function
// bodies, used only to detect whether code could run into the variable
// region from below. Emission has not happened yet at the point this
// check runs, so the bound is the instruction count times the largest
// single HD6309 instruction encoding (5 bytes) rather than an exact
// size. The entry stub, data blocks, code blocks, string pool and
// library routines are not counted.
func codeFootprint(in Input) uint64 {
	var n uint64
	for _, instrs := range in.Functions {
		n += uint64(len(instrs)) * 5
	}
	return n
}

// dataDirective picks the width-appropriate pseudo-op for one decoded
// data-block element: FCB for a byte, FDB for a word, FQB for a
// double. The operand is the decoded value re-rendered in hex, not
// the original literal text, so the emitted directive is always a
// valid lwasm operand regardless of how the element was written.
func dataDirective(n *literal.Numeric) (op, operand string) {
	switch n.Size {
	case 1:
		return "FCB", fmt.Sprintf("$%02X", uint64(n.Value)&0xFF)
	case 4:
		return "FQB", fmt.Sprintf("$%08X", uint64(n.Value)&0xFFFFFFFF)
	default:
		return "FDB", fmt.Sprintf("$%04X", uint64(n.Value)&0xFFFF)
	}
}

func readLibrary(libPath, label string) (string, error) {
	data, err := os.ReadFile(filepath.Join(libPath, label+".s"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// pp is a tab-column pretty printer for one assembler source line:
// an 8-column label field, a left-justified opcode field, the
// operand, and a trailing comment. A label of 8 or more characters is
// followed by one space before the opcode field. A non-empty label
// with a blank op still emits a bare label line.
func pp(label, op, operand, comment string) string {
	if label == "" && op == "" && operand == "" && comment == "" {
		return "\n"
	}
	var line strings.Builder
	if label != "" {
		line.WriteString(label)
		if line.Len() >= 8 {
			line.WriteByte(' ')
		}
	}
	for line.Len() < 8 {
		line.WriteByte(' ')
	}
	if op != "" {
		line.WriteString(op)
		for line.Len() < 8+8 {
			line.WriteByte(' ')
		}
	} else {
		for line.Len() < 8+8 {
			line.WriteByte(' ')
		}
	}
	if operand != "" {
		line.WriteString(operand)
	}
	if comment != "" {
		for line.Len() < 8+8+16 {
			line.WriteByte(' ')
		}
		line.WriteString("; ")
		line.WriteString(comment)
	}
	line.WriteString("\n")
	return line.String()
}
