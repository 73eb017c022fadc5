package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Build-time metadata, overridable via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "splc [files...]",
	Short:   "splc compiles SPL source into HD6309 assembler source",
	Long:    "splc is the SPL-6809 compiler: it turns .spl source files into HD6309 assembler source consumable by lwasm.",
	Version: Version,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runCompile,
}

// Execute runs the root command and exits the process with a nonzero
// status on failure. The multi-letter options are accepted with a
// single dash (-org, -sys, ...) as well as with two.
func Execute() {
	args := append([]string(nil), os.Args[1:]...)
	for i, a := range args {
		name, _, _ := strings.Cut(a, "=")
		switch name {
		case "-org", "-var", "-stack", "-sys", "-warn", "-verbose", "-debug":
			args[i] = "-" + a
		}
	}
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		exitWithError(err)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("splc %s (commit %s, built %s)\n", Version, GitCommit, BuildDate))
	registerCompileFlags(rootCmd)
}
