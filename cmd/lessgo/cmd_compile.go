package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/titpetric/lessgo/compiler"
	"github.com/titpetric/lessgo/parser"
)

var compileCmd = &cobra.Command{
	Use:   "compile <input.less> [output.css]",
	Short: "Compile a LESS file to CSS",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCompile,
}

func newConfiguredCompiler() (*compiler.Compiler, error) {
	vars, err := parseVars(flagVars)
	if err != nil {
		return nil, err
	}
	c := compiler.New()
	opts := compiler.Options{
		Formatter:        flagStyle,
		PreserveComments: !flagNoComments,
		ImportDirs:       flagIncludeDirs,
		Variables:        vars,
	}
	if err := c.Apply(opts); err != nil {
		return nil, err
	}
	return c, nil
}

func runCompile(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	outPath := ""
	if len(args) == 2 {
		outPath = args[1]
	}

	c, err := newConfiguredCompiler()
	if err != nil {
		return err
	}

	if flagDebugAST {
		src, err := os.ReadFile(inPath)
		if err == nil {
			idSeq := 0
			if root, perr := parser.New(string(src), inPath, &idSeq).Parse(); perr == nil {
				spew.Fdump(os.Stderr, root)
			}
		}
	}

	css, n, err := c.CompileFile(inPath, outPath)
	if err != nil {
		return fmt.Errorf("compile %s: %w", inPath, err)
	}
	logger.Info("compiled", "input", inPath, "output", outPath, "bytes", n)

	if outPath == "" {
		fmt.Print(css)
	}
	return nil
}
