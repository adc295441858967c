package lessgo

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/titpetric/lessgo/compiler"
)

// Error types for LESS compilation and serving
var (
	ErrNotFound          = errors.New("not found")
	ErrCompilationFailed = errors.New("compilation failed")
)

// Handler compiles .less files from a filesystem to CSS on request.
type Handler struct {
	pathPrefix  string
	fileSystem  fs.FS
	newCompiler func() *compiler.Compiler
}

// NewHandler creates a new LESS compilation handler. fileSystem is
// where to read .less files from; pathPrefix is the URL path prefix to
// match and strip (e.g., "/assets/css"). newCompiler, if set, lets the
// caller pre-configure each request's Compiler (import dirs,
// variables, formatter); nil uses compiler.New() as-is.
func NewHandler(fileSystem fs.FS, pathPrefix string, newCompiler func() *compiler.Compiler) http.Handler {
	if newCompiler == nil {
		newCompiler = compiler.New
	}
	return &Handler{
		pathPrefix:  pathPrefix,
		fileSystem:  fileSystem,
		newCompiler: newCompiler,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.pathPrefix != "" && !strings.HasPrefix(r.URL.Path, h.pathPrefix) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if !strings.HasSuffix(r.URL.Path, ".less") {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	lessPath := strings.TrimPrefix(r.URL.Path, h.pathPrefix)
	if h.pathPrefix != "/" {
		lessPath = strings.TrimPrefix(lessPath, "/")
	}

	info, err := fs.Stat(h.fileSystem, lessPath)
	if err != nil || info.IsDir() {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	source, err := fs.ReadFile(h.fileSystem, lessPath)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	c := h.newCompiler()
	css, err := c.Compile(string(source), lessPath)
	if err != nil {
		http.Error(w, "Compilation Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if r.Method != http.MethodHead {
		w.Write([]byte(css))
	}
}
