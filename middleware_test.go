package lessgo

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestMiddlewareCompilesMatchingRequest(t *testing.T) {
	fsys := fstest.MapFS{
		"style.less": {Data: []byte("body { color: green; }")},
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run for a matching .less request")
	})
	mw := NewMiddleware("/assets", fsys, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/assets/style.less", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "color: green;")
}

func TestMiddlewarePassesThroughNonLESSPath(t *testing.T) {
	fsys := fstest.MapFS{}
	var calledNext bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calledNext = true
		w.WriteHeader(http.StatusTeapot)
	})
	mw := NewMiddleware("/assets", fsys, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/assets/app.js", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	require.True(t, calledNext)
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMiddlewarePassesThroughWrongPrefix(t *testing.T) {
	fsys := fstest.MapFS{}
	var calledNext bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calledNext = true
	})
	mw := NewMiddleware("/assets", fsys, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/other/style.less", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	require.True(t, calledNext)
}

func TestMiddlewarePassesThroughNonGetPost(t *testing.T) {
	fsys := fstest.MapFS{
		"style.less": {Data: []byte("body { color: red; }")},
	}
	var calledNext bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calledNext = true
	})
	mw := NewMiddleware("/assets", fsys, nil)(next)

	req := httptest.NewRequest(http.MethodPost, "/assets/style.less", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	require.True(t, calledNext)
}
