// Package compiler implements the block compiler (§4.5) and the public
// API exposed to hosts/CLI (§6.1): turning a parsed valtree.Block tree
// into an emission-ready valtree.OutputBlock tree and, from there, into
// formatted CSS text.
package compiler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/titpetric/lessgo/env"
	"github.com/titpetric/lessgo/evaluator"
	"github.com/titpetric/lessgo/formatter"
	"github.com/titpetric/lessgo/functions"
	"github.com/titpetric/lessgo/importer"
	"github.com/titpetric/lessgo/parser"
	"github.com/titpetric/lessgo/reducer"
	"github.com/titpetric/lessgo/resolver"
	"github.com/titpetric/lessgo/valtree"
)

// importRecord is what an `@import` prop leaves behind for its paired
// import_mixin placeholder to splice in once reached (§4.5.3).
type importRecord struct {
	bottomProps []valtree.Prop
	srcBlock    *valtree.Block
	importDir   string
}

// CacheRecord is the `cached_compile`/`checked_cached_compile` return
// value (§6.1): the root input, every parsed file's recorded mtime,
// the compiled CSS (omitted from the persisted sidecar), and the time
// the record was produced.
type CacheRecord struct {
	Root     string               `json:"root"`
	Files    map[string]time.Time `json:"files"`
	Compiled string               `json:"compiled,omitempty"`
	Updated  time.Time            `json:"updated"`
}

// Compiler is the single stateful object a compilation runs against
// (§5: one instance per concurrent compilation, no shared state).
type Compiler struct {
	Stack    *env.Stack
	Reducer  *reducer.Reducer
	Resolver *resolver.Resolver
	Funcs    *functions.Registry
	FuncCtx  *functions.Context

	formatterName    string
	formatter        formatter.Formatter
	preserveComments bool

	importDirs []string
	variables  map[string]valtree.Value

	idSeq       int
	importSeq   int
	importByID  map[int]*importRecord
	allParsed   map[string]time.Time
	lastCache   *CacheRecord
}

// Options bundles the set_*/register_* surface of §6.1 so a host (the
// CLI, in particular) can build it once from flags and apply it to a
// fresh Compiler per compilation.
type Options struct {
	Formatter        string
	PreserveComments bool
	ImportDirs       []string
	Variables        map[string]string
	Formulas         map[string]string
}

// Apply configures c per o, returning the first error encountered
// (an unknown formatter name, typically).
func (c *Compiler) Apply(o Options) error {
	if o.Formatter != "" {
		if err := c.SetFormatter(o.Formatter); err != nil {
			return err
		}
	}
	c.SetPreserveComments(o.PreserveComments)
	if len(o.ImportDirs) > 0 {
		c.SetImportDir(o.ImportDirs)
	}
	if len(o.Variables) > 0 {
		vars := make(map[string]valtree.Value, len(o.Variables))
		for k, v := range o.Variables {
			vars[k] = valtree.Keyword{Name: v}
		}
		c.SetVariables(vars)
	}
	for name, formula := range o.Formulas {
		c.RegisterFormula(name, formula)
	}
	return nil
}

// New returns a Compiler configured with the lessjs formatter and no
// import directories or registered variables (§6.1 defaults).
func New() *Compiler {
	funcs := functions.NewRegistry()
	c := &Compiler{
		Funcs:         funcs,
		FuncCtx:       &functions.Context{},
		formatterName: "lessjs",
		formatter:     formatter.NewLessJS(),
		variables:     make(map[string]valtree.Value),
		importByID:    make(map[int]*importRecord),
		allParsed:     make(map[string]time.Time),
	}
	return c
}

// SetFormatter selects one of "compressed", "classic", "lessjs" (§6.1).
func (c *Compiler) SetFormatter(name string) error {
	f, err := formatter.ByName(name)
	if err != nil {
		return err
	}
	c.formatterName = name
	c.formatter = f
	return nil
}

// SetPreserveComments toggles whether comment props survive into the
// compiled output (§6.1).
func (c *Compiler) SetPreserveComments(v bool) {
	c.preserveComments = v
}

// RegisterFunction installs a user-defined function, overriding any
// built-in of the same name (§6.1).
func (c *Compiler) RegisterFunction(name string, fn functions.Func) {
	c.Funcs.Register(name, fn)
}

// UnregisterFunction removes a user-defined function override (§6.1).
func (c *Compiler) UnregisterFunction(name string) {
	c.Funcs.Unregister(name)
}

// RegisterFormula installs a user-defined function whose body is an
// expr-lang formula over its positional arguments (§6.1
// register_function's formula form), rather than a Go callable.
func (c *Compiler) RegisterFormula(name, formula string) {
	c.Funcs.Register(name, evaluator.RegisterFormula(formula))
}

// SetVariables seeds the root frame with externally-supplied variable
// bindings (§6.1), keyed without the leading "@".
func (c *Compiler) SetVariables(vars map[string]valtree.Value) {
	for k, v := range vars {
		c.variables["@"+k] = v
	}
}

// UnsetVariable removes a previously set external variable (§6.1).
func (c *Compiler) UnsetVariable(name string) {
	delete(c.variables, "@"+name)
}

// SetImportDir replaces the configured import directory list (§6.1).
func (c *Compiler) SetImportDir(dirs []string) {
	c.importDirs = append([]string{}, dirs...)
}

// AddImportDir appends a directory to the import search path (§6.1).
func (c *Compiler) AddImportDir(path string) {
	c.importDirs = append(c.importDirs, path)
}

// AllParsedFiles returns every file path parsed during the most recent
// compilation, keyed to its recorded mtime (§6.1).
func (c *Compiler) AllParsedFiles() map[string]time.Time {
	out := make(map[string]time.Time, len(c.allParsed))
	for k, v := range c.allParsed {
		out[k] = v
	}
	return out
}

// resetForCompile clears the per-compilation state a fresh Compile
// call must not carry over from a previous one, while keeping
// configuration (formatter, import dirs, registered functions/vars).
func (c *Compiler) resetForCompile() {
	c.Stack = env.New()
	c.Reducer = reducer.New(c.Stack, c.Funcs, c.FuncCtx)
	c.Resolver = resolver.New(c.Stack, c.Reducer)
	c.FuncCtx.ImportDirs = c.importDirs
	c.idSeq = 0
	c.importSeq = 0
	c.importByID = make(map[int]*importRecord)
	c.allParsed = make(map[string]time.Time)
}

// Compile implements `compile(source, name?) → css_string` (§6.1).
func (c *Compiler) Compile(source, name string) (string, error) {
	c.resetForCompile()
	if name == "" {
		name = "<input>"
	}

	root, err := c.parseSource(source, name)
	if err != nil {
		return "", err
	}
	c.recordParsed(name)

	out, err := c.compileRoot(root)
	if err != nil {
		return "", err
	}
	return c.formatter.Render(out), nil
}

// CompileFile implements `compile_file(in_path, out_path?) →
// css_or_bytes_written` (§6.1): compiles in_path, searching in_path's
// own directory for imports after the configured import dirs, and
// always returns the CSS text. If out_path is non-empty it also writes
// the CSS there and returns the number of bytes written (0 otherwise).
func (c *Compiler) CompileFile(inPath, outPath string) (string, int, error) {
	src, err := os.ReadFile(inPath)
	if err != nil {
		return "", 0, err
	}
	savedDirs := c.importDirs
	c.importDirs = append(append([]string{}, savedDirs...), filepath.Dir(inPath))
	defer func() { c.importDirs = savedDirs }()
	css, err := c.Compile(string(src), inPath)
	if err != nil {
		return "", 0, err
	}
	if outPath == "" {
		return css, 0, nil
	}
	if err := os.WriteFile(outPath, []byte(css), 0o644); err != nil {
		return "", 0, err
	}
	return css, len(css), nil
}

// CheckedCompile implements `checked_compile(in_path, out_path) →
// bool` (§6.1): recompiles only if in_path is newer than out_path (or
// out_path doesn't exist yet), returning whether it recompiled.
func (c *Compiler) CheckedCompile(inPath, outPath string) (bool, error) {
	inInfo, err := os.Stat(inPath)
	if err != nil {
		return false, err
	}
	if outInfo, err := os.Stat(outPath); err == nil {
		if !inInfo.ModTime().After(outInfo.ModTime()) {
			return false, nil
		}
	}
	if _, _, err := c.CompileFile(inPath, outPath); err != nil {
		return false, err
	}
	return true, nil
}

// CachedCompile implements `cached_compile(input, force?) →
// cache_record` (§6.1): rebuilds if force is set, no record is held
// yet, or any file it previously parsed is now newer on disk than its
// recorded mtime.
func (c *Compiler) CachedCompile(inPath string, force bool) (*CacheRecord, error) {
	if !force && c.lastCache != nil && c.lastCache.Root == inPath && !c.cacheStale(c.lastCache) {
		return c.lastCache, nil
	}
	css, _, err := c.CompileFile(inPath, "")
	if err != nil {
		return nil, err
	}
	record := &CacheRecord{
		Root:     inPath,
		Files:    c.AllParsedFiles(),
		Compiled: css,
		Updated:  timeNow(),
	}
	c.lastCache = record
	return record, nil
}

func (c *Compiler) cacheStale(record *CacheRecord) bool {
	if record.Files == nil {
		return true
	}
	for f, mtime := range record.Files {
		fi, err := os.Stat(f)
		if err != nil || fi.ModTime().After(mtime) {
			return true
		}
	}
	return false
}

// CheckedCachedCompile implements `checked_cached_compile(in_path,
// out_path, force?) → css` (§6.1): writes the compiled CSS and a
// sidecar `<out_path>.meta` holding the cache record without its
// `compiled` field (§6.4).
func (c *Compiler) CheckedCachedCompile(inPath, outPath string, force bool) (string, error) {
	metaPath := outPath + ".meta"
	if !force {
		if prior, err := loadCacheRecord(metaPath); err == nil {
			prior.Root = inPath
			if !c.cacheStale(prior) {
				if css, err := os.ReadFile(outPath); err == nil {
					return string(css), nil
				}
			}
		}
	}

	css, _, err := c.CompileFile(inPath, outPath)
	if err != nil {
		return "", err
	}
	record := &CacheRecord{Root: inPath, Files: c.AllParsedFiles(), Updated: timeNow()}
	if err := saveCacheRecord(metaPath, record); err != nil {
		return "", err
	}
	return css, nil
}

func loadCacheRecord(path string) (*CacheRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record CacheRecord
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func saveCacheRecord(path string, record *CacheRecord) error {
	b, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func (c *Compiler) parseSource(source, name string) (*valtree.Block, error) {
	p := parser.New(source, name, &c.idSeq)
	p.Writec = c.preserveComments
	return p.Parse()
}

func (c *Compiler) recordParsed(path string) {
	canon, err := importer.Canonical(path)
	if err != nil {
		canon = path
	}
	if fi, err := os.Stat(path); err == nil {
		c.allParsed[canon] = fi.ModTime()
	} else {
		c.allParsed[canon] = timeNow()
	}
}

func (c *Compiler) alreadyParsed(path string) bool {
	canon, err := importer.Canonical(path)
	if err != nil {
		canon = path
	}
	_, ok := c.allParsed[canon]
	return ok
}

func timeNow() time.Time { return time.Now() }
