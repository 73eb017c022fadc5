package decl

import "github.com/tomcircuit/spl-6809/internal/symtab"

// Keywords are the reserved control-flow words: block delimiters and
// the loop/conditional/return vocabulary. They share SPL's single
// namespace, so a user declaration using one of these names is
// rejected as a duplicate.
var Keywords = []string{
	"{", "}", "if", "0if", "else", "then",
	"break", "cont", "?break", "?cont", "?0break", "?0cont",
	"&", "return",
}

// CoreWords are inlined directly by the code generator rather than
// compiled as subroutine calls: stack manipulation, bitwise and
// arithmetic operators, memory access, and register transfer.
var CoreWords = []string{
	// stack
	"drop", "2drop", "dup", "2dup", "nip", "over", "rot", "swap", "2swap",
	// bitwise
	"b.and", "b.or", "b.xor", "~",
	// arithmetic
	"+", "-", "1+", "2+", "1-", "2-", "*", "div", "mod",
	// register transfer / call
	">x", "x>", ">y", "y>", ">d", "d>", ">u", "u>",
	// memory access
	"!", "c!", "d!", "@", "c@", "d@", "+!", "++", "c++", "--", "c--",
}

// SeedBuiltins registers every keyword and core word into tbl. Call
// this before Extract so that user declarations colliding with a
// built-in name are caught as ordinary duplicate declarations.
func SeedBuiltins(tbl *symtab.Table) error {
	for _, kw := range Keywords {
		if err := tbl.SeedKeyword(kw); err != nil {
			return err
		}
	}
	for _, cw := range CoreWords {
		if err := tbl.SeedCoreWord(cw); err != nil {
			return err
		}
	}
	return nil
}
