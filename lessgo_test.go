package lessgo

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestHandlerCompilesLESSFile(t *testing.T) {
	fsys := fstest.MapFS{
		"style.less": {Data: []byte("body { color: red; }")},
	}
	h := NewHandler(fsys, "/assets", nil)

	req := httptest.NewRequest(http.MethodGet, "/assets/style.less", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "color: red;")
}

func TestHandlerHeadRequestHasNoBody(t *testing.T) {
	fsys := fstest.MapFS{
		"style.less": {Data: []byte("body { color: red; }")},
	}
	h := NewHandler(fsys, "/assets", nil)

	req := httptest.NewRequest(http.MethodHead, "/assets/style.less", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestHandlerMissingFileIs404(t *testing.T) {
	fsys := fstest.MapFS{}
	h := NewHandler(fsys, "/assets", nil)

	req := httptest.NewRequest(http.MethodGet, "/assets/missing.less", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerWrongPrefixIs404(t *testing.T) {
	fsys := fstest.MapFS{
		"style.less": {Data: []byte("body { color: red; }")},
	}
	h := NewHandler(fsys, "/assets", nil)

	req := httptest.NewRequest(http.MethodGet, "/other/style.less", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerNonLESSSuffixIs404(t *testing.T) {
	fsys := fstest.MapFS{
		"style.css": {Data: []byte("body { color: red; }")},
	}
	h := NewHandler(fsys, "/assets", nil)

	req := httptest.NewRequest(http.MethodGet, "/assets/style.css", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerPostIsMethodNotAllowed(t *testing.T) {
	fsys := fstest.MapFS{
		"style.less": {Data: []byte("body { color: red; }")},
	}
	h := NewHandler(fsys, "/assets", nil)

	req := httptest.NewRequest(http.MethodPost, "/assets/style.less", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerCompilationErrorIs500(t *testing.T) {
	fsys := fstest.MapFS{
		"style.less": {Data: []byte("body { color: @undefined; }")},
	}
	h := NewHandler(fsys, "/assets", nil)

	req := httptest.NewRequest(http.MethodGet, "/assets/style.less", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlerNestedDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"css/components/button.less": {Data: []byte(".btn { color: blue; }")},
	}
	h := NewHandler(fsys, "/assets", nil)

	req := httptest.NewRequest(http.MethodGet, "/assets/css/components/button.less", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), ".btn")
}

func TestHandlerRootPrefix(t *testing.T) {
	fsys := fstest.MapFS{
		"style.less": {Data: []byte("body { color: red; }")},
	}
	h := NewHandler(fsys, "/", nil)

	req := httptest.NewRequest(http.MethodGet, "/style.less", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
