// Package token implements the SPL lexer: a single-pass scanner that
// splits source text into a flat token stream across four lexical
// modes (normal, string, comment, inline-assembly).
package token

// Token is a single lexeme produced by the Lexer. Tokens carry no
// positional metadata beyond their sequence index: SPL diagnostics are
// reported as "function name + offending token text", not line:column,
// so Index is only the token's zero-based position in the stream.
type Token struct {
	Text  string
	Index int
}

// IsQuoted reports whether tok looks like a string literal: its first
// and last byte are the same quote character. Used both to recognize
// a declared string value and, later, to hoist inline string literals
// out of function bodies.
func IsQuoted(text string) bool {
	if len(text) < 2 {
		return false
	}
	first := text[0]
	if first != '"' && first != '\'' {
		return false
	}
	return text[len(text)-1] == first
}

// IsInlineAsm reports whether tok is a verbatim inline-assembly block,
// i.e. delimited by /# and #/.
func IsInlineAsm(text string) bool {
	return len(text) >= 4 && text[:2] == "/#" && text[len(text)-2:] == "#/"
}

// InlineAsmBody strips the /# #/ delimiters from an inline-assembly
// token, returning the verbatim assembly text.
func InlineAsmBody(text string) string {
	if !IsInlineAsm(text) {
		return text
	}
	return text[2 : len(text)-2]
}
