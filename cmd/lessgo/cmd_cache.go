package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache <input.less>",
	Short: "Print the cache_record for a compile, rebuilding if stale",
	Args:  cobra.ExactArgs(1),
	RunE:  runCache,
}

func runCache(cmd *cobra.Command, args []string) error {
	inPath := args[0]

	c, err := newConfiguredCompiler()
	if err != nil {
		return err
	}

	record, err := c.CachedCompile(inPath, flagForce)
	if err != nil {
		return fmt.Errorf("cached compile %s: %w", inPath, err)
	}
	logger.Info("cache record built", "input", inPath, "files", len(record.Files))

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
