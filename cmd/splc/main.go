// Command splc compiles SPL source files into HD6309 assembler source
// consumable by lwasm.
package main

import "github.com/tomcircuit/spl-6809/cmd/splc/cmd"

func main() {
	cmd.Execute()
}
