// Package cerrors implements SPL's single compiler error type. Unlike
// the position-tracking errors of a line/column-oriented compiler,
// SPL tokens carry no positional metadata beyond their sequence index
// (spec §3), so a CompilerError identifies its location by the
// enclosing function name and the offending token's text and index
// instead of a file:line:column triple.
package cerrors

import "fmt"

// CompilerError is the one error type the compiler ever returns. The
// pipeline halts at the first CompilerError it produces (spec §7: no
// error recovery).
type CompilerError struct {
	Stage      string // pipeline stage that raised the error, e.g. "codegen"
	Function   string // enclosing function name, if any
	Token      string // offending token text, if any
	TokenIndex int    // offending token's sequence index, -1 if not applicable
	Message    string
}

func (e *CompilerError) Error() string {
	return e.Format()
}

// Format renders the error the way the teacher's parser/semantic
// errors render a file:line:column header and message, substituted
// for SPL's position-less token model: a stage tag, the enclosing
// function (if any), the offending token (if any), and the message.
func (e *CompilerError) Format() string {
	switch {
	case e.Function != "" && e.Token != "":
		return fmt.Sprintf("%s: in %s, at token %q (#%d): %s", e.Stage, e.Function, e.Token, e.TokenIndex, e.Message)
	case e.Function != "":
		return fmt.Sprintf("%s: in %s: %s", e.Stage, e.Function, e.Message)
	case e.Token != "":
		return fmt.Sprintf("%s: at token %q (#%d): %s", e.Stage, e.Token, e.TokenIndex, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Stage, e.Message)
	}
}

// New creates a stage-only CompilerError, with no function or token
// context.
func New(stage, message string, args ...any) *CompilerError {
	return &CompilerError{Stage: stage, TokenIndex: -1, Message: fmt.Sprintf(message, args...)}
}

// In creates a CompilerError scoped to a function, with no specific
// offending token.
func In(stage, function, message string, args ...any) *CompilerError {
	return &CompilerError{Stage: stage, Function: function, TokenIndex: -1, Message: fmt.Sprintf(message, args...)}
}

// At creates a CompilerError pinpointing a specific token within a
// function.
func At(stage, function, tokenText string, tokenIndex int, message string, args ...any) *CompilerError {
	return &CompilerError{
		Stage:      stage,
		Function:   function,
		Token:      tokenText,
		TokenIndex: tokenIndex,
		Message:    fmt.Sprintf(message, args...),
	}
}
