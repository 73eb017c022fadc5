package symtab

import "testing"

func TestDeclareAndLookup(t *testing.T) {
	tbl := New()
	if err := tbl.DeclareVariable(&Variable{Name: "counter", Size: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := tbl.Lookup("counter")
	if e == nil {
		t.Fatalf("lookup failed for declared variable")
	}
	if e.Kind != Var {
		t.Fatalf("Kind = %v, want Var", e.Kind)
	}
	if e.Variable.Size != 2 {
		t.Fatalf("Size = %d, want 2", e.Variable.Size)
	}
	if tbl.Lookup("nope") != nil {
		t.Fatalf("expected nil for undeclared name")
	}
}

func TestDeclareDuplicateRejected(t *testing.T) {
	tbl := New()
	if err := tbl.DeclareConstant(&Constant{Name: "limit", Value: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tbl.DeclareVariable(&Variable{Name: "limit", Size: 2}); err == nil {
		t.Fatalf("expected duplicate declaration to be rejected")
	}
}

func TestSeededNamesShareNamespace(t *testing.T) {
	tbl := New()
	if err := tbl.SeedKeyword("if"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tbl.SeedCoreWord("dup"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tbl.DeclareVariable(&Variable{Name: "if", Size: 1}); err == nil {
		t.Fatalf("expected variable named after a keyword to be rejected")
	}
	if err := tbl.DeclareVariable(&Variable{Name: "dup", Size: 1}); err == nil {
		t.Fatalf("expected variable named after a core word to be rejected")
	}
}

func TestOfKindAndNamesOrder(t *testing.T) {
	tbl := New()
	_ = tbl.DeclareVariable(&Variable{Name: "a", Size: 1})
	_ = tbl.DeclareConstant(&Constant{Name: "b", Value: 1})
	_ = tbl.DeclareVariable(&Variable{Name: "c", Size: 2})

	names := tbl.Names()
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if names[i] != w {
			t.Fatalf("Names()[%d] = %q, want %q", i, names[i], w)
		}
	}

	vars := tbl.OfKind(Var)
	if len(vars) != 2 || vars[0] != "a" || vars[1] != "c" {
		t.Fatalf("OfKind(Var) = %v, want [a c]", vars)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{Var, "VAR"}, {Const, "CONST"}, {Str, "STR"}, {Data, "DATA"},
		{Code, "CODE"}, {Func, "FUNC"}, {Lib, "LIB"}, {Kwd, "KWD"}, {Core, "CORE"},
	}
	for i, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Fatalf("test %d: String() = %q, want %q", i, got, tt.want)
		}
	}
}
