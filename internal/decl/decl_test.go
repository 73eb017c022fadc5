package decl

import (
	"testing"

	"github.com/tomcircuit/spl-6809/internal/symtab"
	"github.com/tomcircuit/spl-6809/internal/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := token.New(src).Tokenize()
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return toks
}

func newSeededTable(t *testing.T) *symtab.Table {
	t.Helper()
	tbl := symtab.New()
	if err := SeedBuiltins(tbl); err != nil {
		t.Fatalf("SeedBuiltins: %v", err)
	}
	return tbl
}

func TestExtractBasicDeclarations(t *testing.T) {
	src := `org 0x2000
var counter w
const limit 10
str greeting "hello"
def main dup drop end`

	tbl := newSeededTable(t)
	res, err := Extract(tokenize(t, src), tbl)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Origin != 0x2000 {
		t.Fatalf("Origin = %#x, want 0x2000", res.Origin)
	}

	v := tbl.Lookup("counter")
	if v == nil || v.Kind != symtab.Var || v.Variable.Size != 2 {
		t.Fatalf("counter not declared as a 2-byte variable: %+v", v)
	}

	c := tbl.Lookup("limit")
	if c == nil || c.Kind != symtab.Const || c.Constant.Value != 10 {
		t.Fatalf("limit not declared as const 10: %+v", c)
	}

	s := tbl.Lookup("greeting")
	if s == nil || s.Kind != symtab.Str || s.String.Value != "hello" {
		t.Fatalf("greeting not declared as str \"hello\": %+v", s)
	}

	f := tbl.Lookup("main")
	if f == nil || f.Kind != symtab.Func {
		t.Fatalf("main not declared as a function: %+v", f)
	}
	if len(f.Function.Tokens) != 2 || f.Function.Tokens[0] != "dup" || f.Function.Tokens[1] != "drop" {
		t.Fatalf("main body = %v, want [dup drop]", f.Function.Tokens)
	}
}

func TestExtractDataAndCodeBlocks(t *testing.T) {
	src := `data table 1 2 3 end
code helper nop end
def main end`

	tbl := newSeededTable(t)
	if _, err := Extract(tokenize(t, src), tbl); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	d := tbl.Lookup("table")
	if d == nil || d.Kind != symtab.Data || len(d.DataBlk.Tokens) != 3 {
		t.Fatalf("table not declared as a 3-element data block: %+v", d)
	}

	c := tbl.Lookup("helper")
	if c == nil || c.Kind != symtab.Code || len(c.CodeBlk.Tokens) != 1 {
		t.Fatalf("helper not declared as a 1-token code block: %+v", c)
	}
}

func TestExtractRequiresMain(t *testing.T) {
	tbl := newSeededTable(t)
	if _, err := Extract(tokenize(t, "var x w"), tbl); err == nil {
		t.Fatalf("expected error when no main function is declared")
	}
}

func TestExtractRejectsDuplicateOfCoreWord(t *testing.T) {
	tbl := newSeededTable(t)
	_, err := Extract(tokenize(t, "var dup w\ndef main end"), tbl)
	if err == nil {
		t.Fatalf("expected error declaring a variable named after a core word")
	}
}

func TestExtractUnterminatedBlock(t *testing.T) {
	tbl := newSeededTable(t)
	if _, err := Extract(tokenize(t, "def main dup drop"), tbl); err == nil {
		t.Fatalf("expected error for missing terminating end")
	}
}

func TestExtractUnexpectedTopLevelToken(t *testing.T) {
	tbl := newSeededTable(t)
	if _, err := Extract(tokenize(t, "dup"), tbl); err == nil {
		t.Fatalf("expected error for stray top-level token")
	}
}
