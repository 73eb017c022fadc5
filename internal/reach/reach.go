// Package reach implements the Reachability & Library Resolver stage:
// a fixpoint closure over the call graph rooted at "main", plus a
// cycle-safe closure over the library routine dependency graph for
// every library word the reachable functions actually use.
package reach

import (
	"fmt"
	"sort"

	"github.com/tomcircuit/spl-6809/internal/symtab"
)

// Result is the set of symbols proven reachable from main, and the
// ordered, dependency-closed list of library assembler labels that
// must be concatenated into the final output.
type Result struct {
	Functions  []string // reachable function names, in discovery order
	DataBlocks []string // reachable data block names, in discovery order
	CodeBlocks []string // reachable code block names, in discovery order
	Libraries  []string // library asm labels, dependency-closed, in resolution order
}

// Resolve computes the transitive closure of everything reachable
// from the function named "main": every function it calls (directly
// or indirectly), every data and code block it references, and every
// library routine it depends on (including each routine's own library
// dependencies).
func Resolve(tbl *symtab.Table) (*Result, error) {
	if !tbl.Has("main") {
		return nil, fmt.Errorf("no function named %q declared", "main")
	}

	reachFuncs := map[string]bool{"main": true}
	funcOrder := []string{"main"}
	dataBlocks := map[string]bool{}
	dataOrder := []string{}
	codeBlocks := map[string]bool{}
	codeOrder := []string{}
	libWords := map[string]bool{}

	queue := []string{"main"}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		entry := tbl.Lookup(name)
		if entry == nil || entry.Kind != symtab.Func {
			return nil, fmt.Errorf("reachability: %q is not a declared function", name)
		}

		for _, text := range entry.Function.Tokens {
			sym := tbl.Lookup(text)
			if sym == nil {
				continue
			}
			switch sym.Kind {
			case symtab.Func:
				if !reachFuncs[text] {
					reachFuncs[text] = true
					funcOrder = append(funcOrder, text)
					queue = append(queue, text)
				}
			case symtab.Lib:
				libWords[text] = true
			case symtab.Data:
				if !dataBlocks[text] {
					dataBlocks[text] = true
					dataOrder = append(dataOrder, text)
				}
			case symtab.Code:
				if !codeBlocks[text] {
					codeBlocks[text] = true
					codeOrder = append(codeOrder, text)
				}
			}
		}
	}

	libs, err := closeLibraries(libWords)
	if err != nil {
		return nil, err
	}

	return &Result{
		Functions:  funcOrder,
		DataBlocks: dataOrder,
		CodeBlocks: codeOrder,
		Libraries:  libs,
	}, nil
}

// closeLibraries resolves every used library word to its assembler
// label and closes the label dependency graph. A visited set makes
// the closure safe against cycles in DependencyTable.
func closeLibraries(used map[string]bool) ([]string, error) {
	words := make([]string, 0, len(used))
	for w := range used {
		words = append(words, w)
	}
	sort.Strings(words)

	visited := map[string]bool{}
	var order []string

	var close func(label string)
	close = func(label string) {
		if visited[label] {
			return
		}
		visited[label] = true
		order = append(order, label)
		for _, dep := range DependencyTable[label] {
			close(dep)
		}
	}

	for _, w := range words {
		label, ok := LibraryMap[w]
		if !ok {
			return nil, fmt.Errorf("undefined library word %q", w)
		}
		close(label)
	}

	return order, nil
}
