// Package codegen implements the Code Generator: it walks a
// function's token body and emits a flat instruction record list per
// function. Core words are inlined directly as fixed HD6309
// instruction sequences; user functions and library routines are
// emitted as subroutine calls; control-flow keywords are compiled by
// a loop-stack/compare-stack state machine driven by a monotonically
// increasing label counter.
package codegen

import (
	"fmt"

	"github.com/tomcircuit/spl-6809/internal/cerrors"
	"github.com/tomcircuit/spl-6809/internal/literal"
	"github.com/tomcircuit/spl-6809/internal/symtab"
)

// Instruction is one emitted assembler line: an optional label, an
// opcode (or pseudo-op), an operand, and an optional verbose-mode
// comment.
type Instruction struct {
	Label   string
	Op      string
	Operand string
	Comment string
}

// Generator holds the state shared across every function it compiles:
// the symbol table it resolves references against, the monotonic
// label counter, and whether to emit -verbose commentary.
type Generator struct {
	tbl          *symtab.Table
	libraryMap   map[string]string
	labelCounter int
	verbose      bool
}

// New returns a Generator bound to tbl. libraryMap resolves a library
// word to its assembler label (internal/reach.LibraryMap).
func New(tbl *symtab.Table, libraryMap map[string]string, verbose bool) *Generator {
	return &Generator{tbl: tbl, libraryMap: libraryMap, verbose: verbose}
}

func (g *Generator) nextLabel(prefix string) string {
	g.labelCounter++
	return fmt.Sprintf("%s_%04d", prefix, g.labelCounter)
}

type loopFrame struct {
	start, end string
}

type ifFrame struct {
	label string
}

// Generate compiles the named function's token body into a flat
// instruction list.
func (g *Generator) Generate(funcName string) ([]Instruction, error) {
	entry := g.tbl.Lookup(funcName)
	if entry == nil || entry.Kind != symtab.Func {
		return nil, cerrors.New("codegen", "%q is not a declared function", funcName)
	}

	var out []Instruction
	emit := func(op, operand, comment string) {
		out = append(out, Instruction{Op: op, Operand: operand, Comment: comment})
	}
	emitLabel := func(label string) {
		out = append(out, Instruction{Label: label})
	}

	var loopStack []loopFrame
	var ifStack []ifFrame

	toks := entry.Function.Tokens
	i := 0
	for i < len(toks) {
		text := toks[i]

		if text == "&" {
			i++
			if i >= len(toks) {
				return nil, cerrors.At("codegen", funcName, "&", i-1, "missing name after address-of operator")
			}
			name := toks[i]
			sym := g.tbl.Lookup(name)
			if sym == nil || (sym.Kind != symtab.Func && sym.Kind != symtab.Code) {
				return nil, cerrors.At("codegen", funcName, name, i, "& requires a function or code block name")
			}
			emit("LDD", "#"+name, "& "+name)
			emit("PSHU", "D", "")
			i++
			continue
		}

		switch text {
		case "{":
			start := g.nextLabel("LOOP")
			end := g.nextLabel("LOOPEND")
			emitLabel(start)
			loopStack = append(loopStack, loopFrame{start: start, end: end})
			i++
			continue

		case "}":
			if len(loopStack) == 0 {
				return nil, cerrors.At("codegen", funcName, text, i, "} with no matching {")
			}
			top := loopStack[len(loopStack)-1]
			loopStack = loopStack[:len(loopStack)-1]
			emit("JMP", top.start, "}")
			emitLabel(top.end)
			i++
			continue

		case "if":
			label := g.nextLabel("IF")
			emit("PULU", "D", "if")
			emit("TSTD", "", "")
			emit("BEQ", label, "")
			ifStack = append(ifStack, ifFrame{label: label})
			i++
			continue

		case "0if":
			label := g.nextLabel("IF")
			emit("PULU", "D", "0if")
			emit("TSTD", "", "")
			emit("BNE", label, "")
			ifStack = append(ifStack, ifFrame{label: label})
			i++
			continue

		case "else":
			if len(ifStack) == 0 {
				return nil, cerrors.At("codegen", funcName, text, i, "else with no matching if")
			}
			top := ifStack[len(ifStack)-1]
			ifStack = ifStack[:len(ifStack)-1]
			end := g.nextLabel("ELSE")
			emit("JMP", end, "else")
			emitLabel(top.label)
			ifStack = append(ifStack, ifFrame{label: end})
			i++
			continue

		case "then":
			if len(ifStack) == 0 {
				return nil, cerrors.At("codegen", funcName, text, i, "then with no matching if")
			}
			top := ifStack[len(ifStack)-1]
			ifStack = ifStack[:len(ifStack)-1]
			emitLabel(top.label)
			i++
			continue

		case "break":
			if len(loopStack) == 0 {
				return nil, cerrors.At("codegen", funcName, text, i, "break outside of a loop")
			}
			emit("JMP", loopStack[len(loopStack)-1].end, "break")
			i++
			continue

		case "cont":
			if len(loopStack) == 0 {
				return nil, cerrors.At("codegen", funcName, text, i, "cont outside of a loop")
			}
			emit("JMP", loopStack[len(loopStack)-1].start, "cont")
			i++
			continue

		case "?break", "?cont", "?0break", "?0cont":
			if len(loopStack) == 0 {
				return nil, cerrors.At("codegen", funcName, text, i, "%s outside of a loop", text)
			}
			loop := loopStack[len(loopStack)-1]
			target := loop.end
			if text == "?cont" || text == "?0cont" {
				target = loop.start
			}
			branch := "BNE"
			if text == "?0break" || text == "?0cont" {
				branch = "BEQ"
			}
			emit("PULU", "D", text)
			emit("TSTD", "", "")
			emit(branch, target, "")
			i++
			continue

		case "return":
			emit("RTS", "", "return")
			i++
			continue
		}

		sym := g.tbl.Lookup(text)
		if sym == nil {
			n, err := literal.Parse(text)
			if err != nil {
				return nil, cerrors.At("codegen", funcName, text, i, "undeclared name and not a numeric literal: %v", err)
			}
			g.emitNumber(&out, n)
			i++
			continue
		}

		switch sym.Kind {
		case symtab.Const:
			g.emitNumber(&out, &literal.Numeric{Value: sym.Constant.Value, Size: sym.Constant.Size})
		case symtab.Var, symtab.Str, symtab.Data:
			emit("LDD", "#"+text, text)
			emit("PSHU", "D", "")
		case symtab.Func, symtab.Code:
			emit("JSR", text, "")
		case symtab.Lib:
			label, ok := g.libraryMap[text]
			if !ok {
				return nil, cerrors.At("codegen", funcName, text, i, "library word %q has no assembler label mapping", text)
			}
			emit("JSR", label, text)
		case symtab.Core:
			if err := g.emitCoreWord(&out, text); err != nil {
				return nil, cerrors.At("codegen", funcName, text, i, "%v", err)
			}
		case symtab.Kwd:
			return nil, cerrors.At("codegen", funcName, text, i, "keyword %q used out of context", text)
		default:
			return nil, cerrors.At("codegen", funcName, text, i, "unexpected symbol kind %v", sym.Kind)
		}
		i++
	}

	if len(loopStack) != 0 {
		return nil, cerrors.In("codegen", funcName, "unterminated { (missing })")
	}
	if len(ifStack) != 0 {
		return nil, cerrors.In("codegen", funcName, "unterminated if (missing then)")
	}

	if g.verbose {
		for idx := range out {
			if out[idx].Comment == "" && out[idx].Label == "" {
				out[idx].Comment = out[idx].Op
			}
		}
	}

	return out, nil
}

// emitNumber appends the push sequence for a numeric literal onto the
// user stack U. Values that fit in a byte or a word push a single
// 16-bit cell; a double pushes its low word first, then its high
// word, so the high word ends up on top of stack.
func (g *Generator) emitNumber(out *[]Instruction, n *literal.Numeric) {
	push := func(v uint16) {
		*out = append(*out, Instruction{Op: "LDD", Operand: fmt.Sprintf("#$%04X", v)})
		*out = append(*out, Instruction{Op: "PSHU", Operand: "D"})
	}
	if n.Size <= 2 {
		push(uint16(n.Value))
		return
	}
	lsw := uint16(n.Value & 0xFFFF)
	msw := uint16((n.Value >> 16) & 0xFFFF)
	push(lsw)
	push(msw)
}

// emitCoreWord appends the fixed instruction sequence for a core
// word: stack manipulation, bitwise, arithmetic, register transfer, or
// memory access. Every word operates against the user stack U, which
// holds SPL's argument/data stack; the CPU return stack S is reserved
// for JSR/RTS and never touched here. Core words operate on
// word-sized stack cells uniformly; byte/double storage only affects
// the width of the memory access performed by !, @, c!, c@, d!, d@.
func (g *Generator) emitCoreWord(out *[]Instruction, word string) error {
	emit := func(op, operand string) {
		*out = append(*out, Instruction{Op: op, Operand: operand, Comment: word})
	}
	switch word {
	// stack manipulation
	case "drop":
		emit("LEAU", "2,U")
	case "2drop":
		emit("LEAU", "4,U")
	case "dup":
		emit("LDD", ",U")
		emit("PSHU", "D")
	case "2dup":
		emit("LDD", "2,U")
		emit("PSHU", "D")
		emit("LDD", "2,U")
		emit("PSHU", "D")
	case "nip":
		emit("PULU", "D")
		emit("LEAU", "2,U")
		emit("PSHU", "D")
	case "over":
		emit("LDD", "2,U")
		emit("PSHU", "D")
	case "rot":
		emit("PULU", "D,X,Y")
		emit("PSHU", "D,Y,X")
	case "swap":
		emit("PULU", "D,X")
		emit("PSHU", "D")
		emit("PSHU", "X")
	case "2swap":
		// U cannot appear in its own PULU/PSHU register list, so the
		// two top double-cells are exchanged through the tmp scratch
		// cell one word at a time rather than via a wide register list.
		emit("LDD", ",U")
		emit("STD", ScratchTmp)
		emit("LDD", "4,U")
		emit("STD", ",U")
		emit("LDD", ScratchTmp)
		emit("STD", "4,U")
		emit("LDD", "2,U")
		emit("STD", ScratchTmp)
		emit("LDD", "6,U")
		emit("STD", "2,U")
		emit("LDD", ScratchTmp)
		emit("STD", "6,U")

	// bitwise
	case "b.and":
		emit("PULU", "X")
		emit("PULU", "D")
		emit("ANDA", "1,X")
		emit("ANDB", ",X")
		emit("PSHU", "D")
	case "b.or":
		emit("PULU", "X")
		emit("PULU", "D")
		emit("ORA", "1,X")
		emit("ORB", ",X")
		emit("PSHU", "D")
	case "b.xor":
		emit("PULU", "X")
		emit("PULU", "D")
		emit("EORA", "1,X")
		emit("EORB", ",X")
		emit("PSHU", "D")
	case "~":
		emit("PULU", "D")
		emit("COMA", "")
		emit("COMB", "")
		emit("PSHU", "D")

	// arithmetic
	case "+":
		emit("PULU", "D,X")
		emit("LEAX", "D,X")
		emit("TFR", "X,D")
		emit("PSHU", "D")
	case "-":
		emit("PULU", "X,D")
		emit("PSHU", "D")
		emit("SUBD", ",U")
		emit("LEAU", "2,U")
		emit("STD", ",U")
	case "1+":
		emit("LDD", ",U")
		emit("ADDD", "#1")
		emit("STD", ",U")
	case "2+":
		emit("LDD", ",U")
		emit("ADDD", "#2")
		emit("STD", ",U")
	case "1-":
		emit("LDD", ",U")
		emit("SUBD", "#1")
		emit("STD", ",U")
	case "2-":
		emit("LDD", ",U")
		emit("SUBD", "#2")
		emit("STD", ",U")
	case "*":
		emit("PULU", "D")
		emit("PULU", "X")
		emit("MUL", "")
		emit("PSHU", "D")
	case "div":
		emit("PULU", "X")
		emit("PULU", "D")
		emit("DIVD", "X")
		emit("PSHU", "D")
	case "mod":
		emit("PULU", "X")
		emit("PULU", "D")
		emit("DIVD", "X")
		emit("TFR", "W,D")
		emit("PSHU", "D")

	// register transfer: move TOS to/from the named scratch-pad cell
	// rather than a CPU register, since the core words that follow a
	// transfer expect to find the value still addressable by name.
	case ">x":
		emit("PULU", "D")
		emit("STD", ScratchXreg)
	case "x>":
		emit("LDD", ScratchXreg)
		emit("PSHU", "D")
	case ">y":
		emit("PULU", "D")
		emit("STD", ScratchYreg)
	case "y>":
		emit("LDD", ScratchYreg)
		emit("PSHU", "D")
	case ">d":
		emit("PULU", "D")
		emit("STD", ScratchDreg)
	case "d>":
		emit("LDD", ScratchDreg)
		emit("PSHU", "D")
	case ">u":
		emit("PULU", "D")
		emit("STD", ScratchUreg)
	case "u>":
		emit("LDD", ScratchUreg)
		emit("PSHU", "D")

	// memory access
	case "!":
		emit("PULU", "X,D")
		emit("STD", ",X")
	case "c!":
		emit("PULU", "X,D")
		emit("STB", ",X")
	case "d!":
		emit("PULU", "X,D")
		emit("STD", ",X")
		emit("PULU", "D")
		emit("STD", "2,X")
	case "@":
		emit("PULU", "X")
		emit("LDD", ",X")
		emit("PSHU", "D")
	case "c@":
		emit("PULU", "X")
		emit("LDB", ",X")
		emit("CLRA", "")
		emit("PSHU", "D")
	case "d@":
		emit("PULU", "X")
		emit("LDD", ",X")
		emit("PSHU", "D")
		emit("LDD", "2,X")
		emit("PSHU", "D")
	case "+!":
		emit("PULU", "X,D")
		emit("ADDD", ",X")
		emit("STD", ",X")
	case "++":
		emit("PULU", "X")
		emit("LDD", ",X")
		emit("ADDD", "#1")
		emit("STD", ",X")
	case "c++":
		emit("PULU", "X")
		emit("LDB", ",X")
		emit("ADDB", "#1")
		emit("STB", ",X")
	case "--":
		emit("PULU", "X")
		emit("LDD", ",X")
		emit("SUBD", "#1")
		emit("STD", ",X")
	case "c--":
		emit("PULU", "X")
		emit("LDB", ",X")
		emit("SUBB", "#1")
		emit("STB", ",X")

	default:
		return fmt.Errorf("unimplemented core word %q", word)
	}
	return nil
}
