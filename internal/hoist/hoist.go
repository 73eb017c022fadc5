// Package hoist implements the String-Literal Hoister: it replaces
// every inline string literal appearing in a reachable function body
// with a synthetic STR_XXXX symbol, declaring that symbol into the
// table the same way an explicit `str` declaration would be. Running
// Hoist twice over the same functions is a no-op the second time,
// since a token that has already been replaced by its STR_XXXX name
// is no longer a quoted literal.
package hoist

import (
	"fmt"

	"github.com/tomcircuit/spl-6809/internal/symtab"
	"github.com/tomcircuit/spl-6809/internal/token"
)

// Hoister tracks the hoist counter and the set of literals already
// hoisted, so that the same literal text appearing more than once
// resolves to a single shared STR_XXXX symbol rather than a fresh one
// per occurrence.
type Hoister struct {
	tbl     *symtab.Table
	counter int
	seen    map[string]string // quoted literal text -> generated name
}

// New returns a Hoister bound to tbl.
func New(tbl *symtab.Table) *Hoister {
	return &Hoister{tbl: tbl, seen: make(map[string]string)}
}

// Hoist rewrites, in place, every quoted string literal token found in
// the named functions' bodies into a declared STR_XXXX reference.
func (h *Hoister) Hoist(functionNames []string) error {
	for _, fname := range functionNames {
		entry := h.tbl.Lookup(fname)
		if entry == nil || entry.Kind != symtab.Func {
			return fmt.Errorf("hoist: %q is not a declared function", fname)
		}
		fn := entry.Function
		for i, text := range fn.Tokens {
			if !token.IsQuoted(text) {
				continue
			}
			name, ok := h.seen[text]
			if !ok {
				name = fmt.Sprintf("STR_%04X", h.counter)
				h.counter++
				if err := h.tbl.DeclareString(&symtab.StringConst{Name: name, Value: text[1 : len(text)-1]}); err != nil {
					return fmt.Errorf("hoist %s: %w", text, err)
				}
				h.seen[text] = name
			}
			fn.Tokens[i] = name
		}
	}
	return nil
}
