package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var logger *slog.Logger

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

var (
	flagStyle       string
	flagNoComments  bool
	flagIncludeDirs []string
	flagVars        []string
	flagDebugAST    bool
	flagForce       bool

	rootCmd = &cobra.Command{
		Use:   "lessgo",
		Short: "Compile LESS stylesheets to CSS",
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagStyle, "style", "lessjs", "output style: compressed, classic, lessjs")
	rootCmd.PersistentFlags().BoolVar(&flagNoComments, "no-comments", false, "strip comments from output")
	rootCmd.PersistentFlags().StringSliceVarP(&flagIncludeDirs, "include-path", "I", nil, "directory to search for @import (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&flagVars, "var", nil, "set a variable as name=value (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&flagDebugAST, "debug-ast", false, "spew-dump the parsed tree to stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagForce, "force", "f", false, "ignore cache/mtime and recompile")

	rootCmd.AddCommand(compileCmd, watchCmd, cacheCmd)
}

func parseVars(raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, value, ok := splitVar(kv)
		if !ok {
			return nil, fmt.Errorf("invalid --var %q, want name=value", kv)
		}
		out[name] = value
	}
	return out, nil
}

func splitVar(kv string) (name, value string, ok bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}
