package token

import (
	"fmt"
)

// mode is the lexer's current lexical mode. The zero value is the
// mode the lexer starts and ends each file in.
type mode int

const (
	modeNormal mode = iota
	modeInToken
	modeString
	modeBlockComment
	modeLineComment
	modeInlineAsm
)

// Lexer streams SPL source text into a flat token list. It runs in a
// single pass, switching between four lexical modes as described by
// the transition table in the tokenizer design: normal code, string
// literals, comments (line and block), and verbatim inline-assembly
// blocks.
type Lexer struct {
	input []rune
	pos   int

	mode  mode
	delim rune   // quote character while in modeString
	cur   []rune // accumulator for the token currently being built
	prev  rune   // previous rune, used to detect two-character closers
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

func isSpace(r rune) bool {
	return r <= ' '
}

// Tokenize runs the lexer to completion and returns every token found,
// in order. It fails if a string, block comment, or inline-assembly
// block is left unterminated at end of input.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	emit := func(text string) {
		toks = append(toks, Token{Text: text, Index: len(toks)})
	}

	for _, c := range l.input {
		switch l.mode {
		case modeString:
			l.cur = append(l.cur, c)
			if c == l.delim {
				emit(string(l.cur))
				l.cur = nil
				l.mode = modeNormal
			}

		case modeLineComment:
			if c == '\n' {
				l.mode = modeNormal
			}

		case modeBlockComment:
			if l.prev == '*' && c == '/' {
				l.mode = modeNormal
			}
			l.prev = c

		case modeInlineAsm:
			l.cur = append(l.cur, c)
			if l.prev == '#' && c == '/' {
				emit(string(l.cur))
				l.cur = nil
				l.mode = modeNormal
			}
			l.prev = c

		case modeInToken:
			switch {
			case len(l.cur) == 1 && l.cur[0] == '/' && c == '#':
				l.cur = append(l.cur, c)
				l.mode = modeInlineAsm
				l.prev = '#'
			case len(l.cur) == 1 && l.cur[0] == '/' && c == '*':
				l.cur = nil
				l.mode = modeBlockComment
				l.prev = 0
			case isSpace(c):
				emit(string(l.cur))
				l.cur = nil
				l.mode = modeNormal
			default:
				l.cur = append(l.cur, c)
			}

		default: // modeNormal
			switch {
			case c == '"' || c == '\'':
				l.mode = modeString
				l.delim = c
				l.cur = []rune{c}
			case c == '#':
				l.mode = modeLineComment
			case isSpace(c):
				// skip whitespace between tokens
			default:
				l.cur = []rune{c}
				l.mode = modeInToken
			}
		}
	}

	switch l.mode {
	case modeInToken:
		emit(string(l.cur))
	case modeString:
		return nil, fmt.Errorf("unterminated string literal: %s", string(l.cur))
	case modeBlockComment:
		return nil, fmt.Errorf("unterminated block comment")
	case modeInlineAsm:
		return nil, fmt.Errorf("unterminated inline assembly block: %s", string(l.cur))
	}

	return toks, nil
}
