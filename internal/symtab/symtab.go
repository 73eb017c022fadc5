// Package symtab implements SPL's single global symbol table: one
// flat namespace shared by variables, constants, string literals,
// data blocks, code blocks, user functions, library routines, and the
// pre-seeded keyword/core-word names.
package symtab

import "fmt"

// Kind tags every entry in the symbol table with the declaration that
// produced it.
type Kind int

const (
	Var Kind = iota
	Const
	Str
	Data
	Code
	Func
	Lib
	Kwd
	Core
)

func (k Kind) String() string {
	switch k {
	case Var:
		return "VAR"
	case Const:
		return "CONST"
	case Str:
		return "STR"
	case Data:
		return "DATA"
	case Code:
		return "CODE"
	case Func:
		return "FUNC"
	case Lib:
		return "LIB"
	case Kwd:
		return "KWD"
	case Core:
		return "CORE"
	default:
		return "UNKNOWN"
	}
}

// Variable is a `var` declaration: a named, sized storage cell.
type Variable struct {
	Name string
	Size int // bytes: 1, 2, or 4
}

// Constant is a `const` declaration: a named numeric value.
type Constant struct {
	Name  string
	Value int64
	Size  int
}

// StringConst is a `str` declaration or a hoisted inline literal.
type StringConst struct {
	Name  string
	Value string // with surrounding quotes stripped
}

// DataBlock is a named `data ... end` block of literal bytes/words.
type DataBlock struct {
	Name   string
	Tokens []string // raw literal tokens, decoded later by internal/emit
}

// CodeBlock is a named `code ... end` block of verbatim/compiled
// instructions, distinct from a callable Function.
type CodeBlock struct {
	Name   string
	Tokens []string
}

// Function is a user-defined `def name ... end` (or `: name ... ;`)
// word: a named, callable sequence of tokens.
type Function struct {
	Name   string
	Tokens []string
	Reach  bool // not set by any pipeline stage; reachability is reported by internal/reach's Result.Functions
}

// Entry is one symbol table slot. Exactly one of the typed fields is
// populated, selected by Kind; the library/keyword/core-word kinds
// carry no payload beyond their name.
type Entry struct {
	Kind Kind

	Variable *Variable
	Constant *Constant
	String   *StringConst
	DataBlk  *DataBlock
	CodeBlk  *CodeBlock
	Function *Function
}

// Table is SPL's one global namespace: every name — whether a
// variable, a constant, a user function, a library routine, a
// keyword, or a core word — is looked up here, and a name may be
// declared at most once.
type Table struct {
	entries map[string]*Entry
	order   []string // declaration order, for deterministic emission
}

// New returns an empty table.
func New() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Lookup returns the entry for name, or nil if name is undeclared.
func (t *Table) Lookup(name string) *Entry {
	return t.entries[name]
}

// Has reports whether name is already declared.
func (t *Table) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Declare adds a new entry under name. It fails if name is already
// declared: SPL's single namespace means every kind of name competes
// for the same slot.
func (t *Table) Declare(name string, e *Entry) error {
	if t.Has(name) {
		existing := t.entries[name]
		return fmt.Errorf("name %q already declared as %s", name, existing.Kind)
	}
	t.entries[name] = e
	t.order = append(t.order, name)
	return nil
}

// Names returns every declared name in declaration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// OfKind returns every declared name whose entry has the given kind,
// in declaration order.
func (t *Table) OfKind(k Kind) []string {
	var out []string
	for _, name := range t.order {
		if t.entries[name].Kind == k {
			out = append(out, name)
		}
	}
	return out
}

// DeclareVariable is a convenience wrapper around Declare for `var`.
func (t *Table) DeclareVariable(v *Variable) error {
	return t.Declare(v.Name, &Entry{Kind: Var, Variable: v})
}

// DeclareConstant is a convenience wrapper around Declare for `const`.
func (t *Table) DeclareConstant(c *Constant) error {
	return t.Declare(c.Name, &Entry{Kind: Const, Constant: c})
}

// DeclareString is a convenience wrapper around Declare for `str` and
// for hoisted inline string literals.
func (t *Table) DeclareString(s *StringConst) error {
	return t.Declare(s.Name, &Entry{Kind: Str, String: s})
}

// DeclareData is a convenience wrapper around Declare for `data`.
func (t *Table) DeclareData(d *DataBlock) error {
	return t.Declare(d.Name, &Entry{Kind: Data, DataBlk: d})
}

// DeclareCode is a convenience wrapper around Declare for `code`.
func (t *Table) DeclareCode(c *CodeBlock) error {
	return t.Declare(c.Name, &Entry{Kind: Code, CodeBlk: c})
}

// DeclareFunction is a convenience wrapper around Declare for `def`.
func (t *Table) DeclareFunction(f *Function) error {
	return t.Declare(f.Name, &Entry{Kind: Func, Function: f})
}

// SeedKeyword registers a reserved control-flow keyword (if, else,
// break, ...). Keywords occupy the same namespace as user names, so
// declaring a variable named `if` is rejected the same way a
// duplicate variable is.
func (t *Table) SeedKeyword(name string) error {
	return t.Declare(name, &Entry{Kind: Kwd})
}

// SeedCoreWord registers a core word inlined directly by the code
// generator (stack manipulation, arithmetic, bitwise, memory access,
// register transfer).
func (t *Table) SeedCoreWord(name string) error {
	return t.Declare(name, &Entry{Kind: Core})
}

// SeedLibraryWord registers a library routine name, resolved later by
// internal/reach against the library dependency table.
func (t *Table) SeedLibraryWord(name string) error {
	return t.Declare(name, &Entry{Kind: Lib})
}
