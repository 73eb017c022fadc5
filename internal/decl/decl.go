// Package decl implements SPL's Declaration Extractor: a single pass
// over the token stream that classifies every top-level construct
// (org, var, const, str, data, code, def/end, :/;) and populates a symbol
// table. Library words and core words are seeded into the same table
// before extraction runs, so declaration extraction is also where a
// name collision with a built-in is first detected.
package decl

import (
	"fmt"

	"github.com/tomcircuit/spl-6809/internal/literal"
	"github.com/tomcircuit/spl-6809/internal/symtab"
	"github.com/tomcircuit/spl-6809/internal/token"
)

// Result is the output of Extract: the resolved link origin and the
// populated symbol table.
type Result struct {
	Origin uint64
	Table  *symtab.Table
}

var storageSizes = map[string]int{"b": 1, "w": 2, "d": 4}

// Extract walks toks once, left to right, classifying each top-level
// construct and declaring it into tbl. tbl should already have
// keywords and core words seeded (see symtab.Table.SeedKeyword /
// SeedCoreWord) so that a user declaration colliding with a built-in
// name is rejected here.
func Extract(toks []token.Token, tbl *symtab.Table) (*Result, error) {
	res := &Result{Table: tbl}

	i := 0
	for i < len(toks) {
		t := toks[i].Text
		switch t {
		case "org":
			n, end, err := expectNumber(toks, i, "org")
			if err != nil {
				return nil, err
			}
			res.Origin = n
			i = end

		case "var":
			name, end, err := expectName(toks, i, "var")
			if err != nil {
				return nil, err
			}
			size, end2, err := expectStorage(toks, end, "var", name)
			if err != nil {
				return nil, err
			}
			if err := tbl.DeclareVariable(&symtab.Variable{Name: name, Size: size}); err != nil {
				return nil, fmt.Errorf("var %s: %w", name, err)
			}
			i = end2

		case "const":
			name, end, err := expectName(toks, i, "const")
			if err != nil {
				return nil, err
			}
			if end >= len(toks) {
				return nil, fmt.Errorf("const %s: missing value", name)
			}
			lit, err := literal.Parse(toks[end].Text)
			if err != nil {
				return nil, fmt.Errorf("const %s: %w", name, err)
			}
			if err := tbl.DeclareConstant(&symtab.Constant{Name: name, Value: lit.Value, Size: lit.Size}); err != nil {
				return nil, fmt.Errorf("const %s: %w", name, err)
			}
			i = end + 1

		case "str":
			name, end, err := expectName(toks, i, "str")
			if err != nil {
				return nil, err
			}
			if end >= len(toks) || !token.IsQuoted(toks[end].Text) {
				return nil, fmt.Errorf("str %s: expected quoted string literal", name)
			}
			raw := toks[end].Text
			if err := tbl.DeclareString(&symtab.StringConst{Name: name, Value: raw[1 : len(raw)-1]}); err != nil {
				return nil, fmt.Errorf("str %s: %w", name, err)
			}
			i = end + 1

		case "data":
			name, body, end, err := expectBlock(toks, i, "data")
			if err != nil {
				return nil, err
			}
			if err := tbl.DeclareData(&symtab.DataBlock{Name: name, Tokens: body}); err != nil {
				return nil, fmt.Errorf("data %s: %w", name, err)
			}
			i = end

		case "code":
			name, body, end, err := expectBlock(toks, i, "code")
			if err != nil {
				return nil, err
			}
			if err := tbl.DeclareCode(&symtab.CodeBlock{Name: name, Tokens: body}); err != nil {
				return nil, fmt.Errorf("code %s: %w", name, err)
			}
			i = end

		case "def":
			name, body, end, err := expectBlock(toks, i, "def")
			if err != nil {
				return nil, err
			}
			if err := tbl.DeclareFunction(&symtab.Function{Name: name, Tokens: body}); err != nil {
				return nil, fmt.Errorf("def %s: %w", name, err)
			}
			i = end

		case ":":
			if i+1 >= len(toks) {
				return nil, fmt.Errorf(": missing name")
			}
			name := toks[i+1].Text
			var body []string
			j := i + 2
			for j < len(toks) && toks[j].Text != ";" {
				body = append(body, toks[j].Text)
				j++
			}
			if j >= len(toks) {
				return nil, fmt.Errorf(": %s: missing terminating \";\"", name)
			}
			if err := tbl.DeclareFunction(&symtab.Function{Name: name, Tokens: body}); err != nil {
				return nil, fmt.Errorf(": %s: %w", name, err)
			}
			i = j + 1

		default:
			return nil, fmt.Errorf("unexpected token %q at top level", t)
		}
	}

	if !tbl.Has("main") {
		return nil, fmt.Errorf("no function named %q declared", "main")
	}
	return res, nil
}

func expectName(toks []token.Token, i int, kw string) (string, int, error) {
	if i+1 >= len(toks) {
		return "", 0, fmt.Errorf("%s: missing name", kw)
	}
	name := toks[i+1].Text
	if name == "" {
		return "", 0, fmt.Errorf("%s: missing name", kw)
	}
	return name, i + 2, nil
}

func expectNumber(toks []token.Token, i int, kw string) (uint64, int, error) {
	if i+1 >= len(toks) {
		return 0, 0, fmt.Errorf("%s: missing value", kw)
	}
	n, err := literal.ParseSimple(toks[i+1].Text)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", kw, err)
	}
	return n, i + 2, nil
}

func expectStorage(toks []token.Token, i int, kw, name string) (int, int, error) {
	if i >= len(toks) {
		return 0, 0, fmt.Errorf("%s %s: missing storage size", kw, name)
	}
	size, ok := storageSizes[toks[i].Text]
	if !ok {
		return 0, 0, fmt.Errorf("%s %s: invalid storage size %q, want b, w, or d", kw, name, toks[i].Text)
	}
	return size, i + 1, nil
}

// expectBlock parses "<kw> <name> <body...> end" starting at i (where
// toks[i].Text == kw) and returns the block's name, its body tokens,
// and the index just past the terminating "end".
func expectBlock(toks []token.Token, i int, kw string) (name string, body []string, end int, err error) {
	if i+1 >= len(toks) {
		return "", nil, 0, fmt.Errorf("%s: missing name", kw)
	}
	name = toks[i+1].Text
	j := i + 2
	for j < len(toks) && toks[j].Text != "end" {
		body = append(body, toks[j].Text)
		j++
	}
	if j >= len(toks) {
		return "", nil, 0, fmt.Errorf("%s %s: missing terminating \"end\"", kw, name)
	}
	return name, body, j + 1, nil
}
