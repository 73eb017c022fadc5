package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomcircuit/spl-6809/internal/compiler"
	"github.com/tomcircuit/spl-6809/internal/literal"
)

var (
	flagOutput  string
	flagTarget  string
	flagOrg     string
	flagVar     string
	flagStack   string
	flagSys     bool
	flagWarn    int
	flagVerbose bool
	flagDebug   bool
)

func registerCompileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagOutput, "o", "o", "", "output file (only valid with a single source file)")
	cmd.Flags().StringVarP(&flagTarget, "t", "t", "asm", "output target (only \"asm\" is implemented)")
	cmd.Flags().StringVar(&flagOrg, "org", "", "code origin address, overrides any org statement (decimal or 0x hex)")
	cmd.Flags().StringVar(&flagVar, "var", "", "top-of-variables address (decimal or 0x hex)")
	cmd.Flags().StringVar(&flagStack, "stack", "", "stack size in bytes (decimal or 0x hex)")
	cmd.Flags().BoolVar(&flagSys, "sys", false, "force code origin to 0x2000, overriding -org and any org statement")
	cmd.Flags().IntVar(&flagWarn, "warn", 0, "warn if the library dependency closure exceeds this many routines (0 disables)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "emit commentary alongside generated instructions")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "print pipeline debug information to stderr")
}

func runCompile(cmd *cobra.Command, args []string) error {
	opts := compiler.DefaultOptions()
	opts.Target = flagTarget
	opts.Sys = flagSys
	opts.Warn = flagWarn
	opts.Verbose = flagVerbose
	opts.Debug = flagDebug

	if flagOrg != "" {
		n, err := literal.ParseSimple(flagOrg)
		if err != nil {
			return fmt.Errorf("-org: %w", err)
		}
		opts.Org = &n
	}
	if flagVar != "" {
		n, err := literal.ParseSimple(flagVar)
		if err != nil {
			return fmt.Errorf("-var: %w", err)
		}
		opts.VarTop = n
	}
	if flagStack != "" {
		n, err := literal.ParseSimple(flagStack)
		if err != nil {
			return fmt.Errorf("-stack: %w", err)
		}
		opts.StackSize = n
	}

	if flagOutput != "" && len(args) != 1 {
		return fmt.Errorf("-o may only be used with a single source file")
	}

	for _, arg := range args {
		sourcePath := arg
		if !strings.HasSuffix(sourcePath, ".spl") {
			sourcePath += ".spl"
		}

		data, err := os.ReadFile(sourcePath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", sourcePath, err)
		}

		sess := compiler.NewSession(opts)
		out, err := sess.Compile(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", sourcePath, err)
		}

		outPath := flagOutput
		if outPath == "" {
			outPath = strings.TrimSuffix(sourcePath, ".spl") + ".s"
		}

		if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		if flagVerbose {
			fmt.Fprintf(os.Stderr, "compiled %s -> %s\n", sourcePath, outPath)
		}
	}

	return nil
}
