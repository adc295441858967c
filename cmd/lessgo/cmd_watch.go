package main

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <input.less> <output.css>",
	Short: "Recompile on change, driven by checked_cached_compile",
	Args:  cobra.ExactArgs(2),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	c, err := newConfiguredCompiler()
	if err != nil {
		return err
	}

	recompile := func(reason string) {
		if _, err := c.CheckedCachedCompile(inPath, outPath, flagForce); err != nil {
			logger.Error("recompile failed", "reason", reason, "input", inPath, "error", err)
			return
		}
		logger.Info("recompiled", "reason", reason, "input", inPath, "output", outPath)
	}
	recompile("initial")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	watchDirs := map[string]bool{filepath.Dir(inPath): true}
	for _, d := range flagIncludeDirs {
		watchDirs[d] = true
	}
	for dir := range watchDirs {
		if err := watcher.Add(dir); err != nil {
			logger.Warn("cannot watch directory", "dir", dir, "error", err)
		}
	}

	logger.Info("watching for changes", "input", inPath)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			for parsed := range c.AllParsedFiles() {
				if filepath.Clean(parsed) == filepath.Clean(ev.Name) {
					recompile(ev.Name)
					break
				}
			}
			if filepath.Clean(ev.Name) == filepath.Clean(inPath) {
				recompile(ev.Name)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", werr)
		}
	}
}
