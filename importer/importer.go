// Package importer resolves `@import` urls against a list of import
// directories (§4.7), the one filesystem-touching collaborator in the
// evaluator core.
package importer

import (
	"os"
	"path/filepath"
)

// Importer resolves import urls against an ordered list of directories.
type Importer struct {
	Dirs []string
}

// New returns an Importer searching dirs in order.
func New(dirs []string) *Importer {
	return &Importer{Dirs: dirs}
}

// Find implements findImport(url) → path? (§4.7): the first directory
// in which `<dir>/<url>.less` or `<dir>/<url>` exists as a regular
// file wins. URLs ending in ".css" are never resolved — the caller is
// expected to leave those as plain CSS @imports.
func (im *Importer) Find(url string) (string, bool) {
	if len(url) >= 4 && url[len(url)-4:] == ".css" {
		return "", false
	}
	for _, dir := range im.Dirs {
		candidates := []string{
			filepath.Join(dir, url+".less"),
			filepath.Join(dir, url),
		}
		for _, c := range candidates {
			if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
				return c, true
			}
		}
	}
	return "", false
}

// Read loads the resolved file's contents.
func (im *Importer) Read(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Canonical returns the absolute, symlink-resolved form of path, used
// to key allParsedFiles for import-cycle breaking (§3.4).
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
