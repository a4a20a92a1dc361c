package md2doc

import (
	"regexp"

	"github.com/alnah/go-md2doc/internal/assetstore"
)

// assetRefPattern matches mdasset:// references in markdown or HTML.
var assetRefPattern = regexp.MustCompile(`mdasset://([^)\s"'<>]+)`)

// rewriteAssetRefs rewrites mdasset:// references to file:// URLs under
// the local asset store so the browser can load them on the pdf path.
// References with unsafe names are left untouched and fail in the
// browser, which renders the alt text.
func rewriteAssetRefs(content, assetRoot string) string {
	if assetRoot == "" {
		return content
	}
	return assetRefPattern.ReplaceAllStringFunc(content, func(ref string) string {
		name := assetRefPattern.FindStringSubmatch(ref)[1]
		path, err := assetstore.Lookup(assetRoot, name)
		if err != nil {
			return ref
		}
		return "file://" + path
	})
}
