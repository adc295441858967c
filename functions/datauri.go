package functions

import (
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"

	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

const dataURIMaxBytes = 32 * 1024

func registerDataURI(m map[string]Func) {
	register(m, []string{"data-uri"}, dataURIFn)
}

// dataURIFn implements `data-uri(url)` / `data-uri(mime, url)` (§4.6): if
// the file resolves via the configured import directories and is under
// 32 KiB, it's base64-embedded with the mime type; otherwise a plain
// `url("…")` is emitted.
func dataURIFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	var mimeType, path string
	switch len(args) {
	case 1:
		path = literalArg(args[0])
	case 2:
		mimeType = literalArg(args[0])
		path = literalArg(args[1])
	default:
		return nil, lesserr.Errorf("data-uri: expected 1 or 2 arguments, got %d", len(args))
	}

	if data, ok := readViaImportDirs(ctx, path); ok && len(data) < dataURIMaxBytes {
		if mimeType == "" {
			mimeType = mime.TypeByExtension(filepath.Ext(path))
			if mimeType == "" {
				mimeType = "application/octet-stream"
			}
		}
		encoded := base64.StdEncoding.EncodeToString(data)
		return valtree.PlainString("\"", "data:"+mimeType+";base64,"+encoded), nil
	}
	return valtree.Func{Name: "url", Arg: valtree.PlainString("\"", path)}, nil
}

func literalArg(v valtree.Value) string {
	switch t := v.(type) {
	case valtree.Str:
		return flattenLiteral(t)
	case valtree.Keyword:
		return t.Name
	default:
		return ""
	}
}

func readViaImportDirs(ctx *Context, path string) ([]byte, bool) {
	if ctx == nil {
		return nil, false
	}
	for _, dir := range ctx.ImportDirs {
		full := filepath.Join(dir, path)
		data, err := os.ReadFile(full)
		if err == nil {
			return data, true
		}
	}
	return nil, false
}
