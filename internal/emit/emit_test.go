package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/tomcircuit/spl-6809/internal/codegen"
	"github.com/tomcircuit/spl-6809/internal/reach"
	"github.com/tomcircuit/spl-6809/internal/symtab"
)

func fixedClock() time.Time {
	return time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
}

func TestEmitProducesPragmaAfterHeader(t *testing.T) {
	tbl := symtab.New()
	_ = tbl.DeclareFunction(&symtab.Function{Name: "main"})

	libDir := t.TempDir()

	out, err := Emit(Options{
		Origin:    0x2000,
		VarTop:    0x1000,
		StackSize: 0x100,
		LibPath:   libDir,
		Clock:     fixedClock,
	}, Input{
		Table: tbl,
		Reach: &reach.Result{Functions: []string{"main"}},
		Functions: map[string][]codegen.Instruction{
			"main": {{Op: "RTS"}},
		},
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	var firstNonBlankAfterHeader string
	for _, l := range lines[2:] {
		if strings.TrimSpace(l) != "" {
			firstNonBlankAfterHeader = l
			break
		}
	}
	if !strings.Contains(firstNonBlankAfterHeader, "PRAGMA") {
		t.Fatalf("first non-blank line after header = %q, want it to contain PRAGMA", firstNonBlankAfterHeader)
	}
}

func TestEmitConcatenatesLibraryRoutines(t *testing.T) {
	tbl := symtab.New()
	_ = tbl.DeclareFunction(&symtab.Function{Name: "main"})

	libDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(libDir, "print.s"), []byte("print   RTS\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, err := Emit(Options{
		Origin:    0x2000,
		VarTop:    0x1000,
		StackSize: 0x100,
		LibPath:   libDir,
		Clock:     fixedClock,
	}, Input{
		Table: tbl,
		Reach: &reach.Result{Functions: []string{"main"}, Libraries: []string{"print"}},
		Functions: map[string][]codegen.Instruction{
			"main": {{Op: "RTS"}},
		},
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "print   RTS") {
		t.Fatalf("expected library source to be concatenated into output:\n%s", out)
	}
}

func TestEmitRejectsOverlappingRegions(t *testing.T) {
	tbl := symtab.New()
	_ = tbl.DeclareFunction(&symtab.Function{Name: "main"})
	_ = tbl.DeclareVariable(&symtab.Variable{Name: "x", Size: 2})

	libDir := t.TempDir()

	// VarTop sits just above the origin, so once the stack and the
	// scratch-pad cells are carved out below it the variable region's
	// floor ($0ECB) lies below the origin: the code region starting at
	// $1000 falls inside [$0ECB,$1010) and must be rejected.
	var instrs []codegen.Instruction
	for i := 0; i < 1000; i++ {
		instrs = append(instrs, codegen.Instruction{Op: "NOP"})
	}

	_, err := Emit(Options{
		Origin:    0x1000,
		VarTop:    0x1010,
		StackSize: 0x100,
		LibPath:   libDir,
		Clock:     fixedClock,
	}, Input{
		Table: tbl,
		Reach: &reach.Result{Functions: []string{"main"}},
		Functions: map[string][]codegen.Instruction{
			"main": instrs,
		},
	})
	if err == nil {
		t.Fatalf("expected overlap error")
	}
}

func TestEmitEntryStubLoadsUserStackPointer(t *testing.T) {
	tbl := symtab.New()
	_ = tbl.DeclareFunction(&symtab.Function{Name: "main"})

	out, err := Emit(Options{
		Origin:    0x2000,
		VarTop:    0x1000,
		StackSize: 0x100,
		LibPath:   t.TempDir(),
		Clock:     fixedClock,
	}, Input{
		Table: tbl,
		Reach: &reach.Result{Functions: []string{"main"}},
		Functions: map[string][]codegen.Instruction{
			"main": {{Op: "RTS"}},
		},
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "LDU") || !strings.Contains(out, "#"+codegen.ScratchStack) {
		t.Fatalf("expected entry stub to load U with the stack base, got:\n%s", out)
	}
	if !strings.Contains(out, "JMP") || !strings.Contains(out, "main") {
		t.Fatalf("expected entry stub to still jump to main, got:\n%s", out)
	}
}

func TestEmitScratchPadEquatesPrecedeVariables(t *testing.T) {
	tbl := symtab.New()
	_ = tbl.DeclareVariable(&symtab.Variable{Name: "counter", Size: 2})
	_ = tbl.DeclareFunction(&symtab.Function{Name: "main"})

	out, err := Emit(Options{
		Origin:    0x2000,
		VarTop:    0x1000,
		StackSize: 0x100,
		LibPath:   t.TempDir(),
		Clock:     fixedClock,
	}, Input{
		Table: tbl,
		Reach: &reach.Result{Functions: []string{"main"}},
		Functions: map[string][]codegen.Instruction{
			"main": {{Op: "RTS"}},
		},
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	for _, cell := range codegen.ScratchPadOrder {
		if !strings.Contains(out, cell) {
			t.Fatalf("expected scratch-pad cell %q to be equated, got:\n%s", cell, out)
		}
	}
	var counterLine string
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "counter") {
			counterLine = l
			break
		}
	}
	if counterLine == "" {
		t.Fatalf("expected a line reserving variable %q, got:\n%s", "counter", out)
	}
	if !strings.Contains(counterLine, "RMB") {
		t.Fatalf("variable line %q should use RMB, not EQU", counterLine)
	}
}

func TestEmitStringPoolIsLengthPrefixed(t *testing.T) {
	tbl := symtab.New()
	_ = tbl.DeclareString(&symtab.StringConst{Name: "STR_0000", Value: "hi"})
	_ = tbl.DeclareFunction(&symtab.Function{Name: "main"})

	out, err := Emit(Options{
		Origin:    0x2000,
		VarTop:    0x1000,
		StackSize: 0x100,
		LibPath:   t.TempDir(),
		Clock:     fixedClock,
	}, Input{
		Table: tbl,
		Reach: &reach.Result{Functions: []string{"main"}},
		Functions: map[string][]codegen.Instruction{
			"main": {{Op: "RTS"}},
		},
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	idxFCB := strings.Index(out, "STR_0000")
	if idxFCB < 0 {
		t.Fatalf("expected STR_0000 label in output:\n%s", out)
	}
	tail := out[idxFCB:]
	if !strings.Contains(tail, "FCB") || !strings.Contains(tail, "2") {
		t.Fatalf("expected a length byte of 2 before the string body, got:\n%s", tail)
	}
	if !strings.Contains(tail, "FCN") {
		t.Fatalf("expected FCN for the string body, got:\n%s", tail)
	}
}

func TestEmitDataBlockEmitsPerElementDirectives(t *testing.T) {
	tbl := symtab.New()
	_ = tbl.DeclareData(&symtab.DataBlock{Name: "d", Tokens: []string{"b1", "w2", "d3"}})
	_ = tbl.DeclareFunction(&symtab.Function{Name: "main"})

	out, err := Emit(Options{
		Origin:    0x2000,
		VarTop:    0x1000,
		StackSize: 0x100,
		LibPath:   t.TempDir(),
		Clock:     fixedClock,
	}, Input{
		Table: tbl,
		Reach: &reach.Result{Functions: []string{"main"}, DataBlocks: []string{"d"}},
		Functions: map[string][]codegen.Instruction{
			"main": {{Op: "RTS"}},
		},
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "FCB") || !strings.Contains(out, "FDB") || !strings.Contains(out, "FQB") {
		t.Fatalf("expected one width-selected directive per element, got:\n%s", out)
	}
	if strings.Contains(out, "b1,w2,d3") {
		t.Fatalf("expected decoded values, not raw literal text joined into one directive:\n%s", out)
	}
}

func TestEmitSnapshot(t *testing.T) {
	tbl := symtab.New()
	_ = tbl.DeclareConstant(&symtab.Constant{Name: "LIMIT", Value: 10, Size: 2})
	_ = tbl.DeclareVariable(&symtab.Variable{Name: "counter", Size: 2})
	_ = tbl.DeclareString(&symtab.StringConst{Name: "STR_0000", Value: "hi"})
	_ = tbl.DeclareFunction(&symtab.Function{Name: "main"})

	libDir := t.TempDir()

	out, err := Emit(Options{
		Origin:    0x2000,
		VarTop:    0x1000,
		StackSize: 0x100,
		LibPath:   libDir,
		Clock:     fixedClock,
	}, Input{
		Table: tbl,
		Reach: &reach.Result{Functions: []string{"main"}},
		Functions: map[string][]codegen.Instruction{
			"main": {
				{Op: "LDD", Operand: "#$000A"},
				{Op: "PSHU", Operand: "D"},
				{Op: "RTS"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	snaps.MatchSnapshot(t, out)
}
