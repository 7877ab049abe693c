package appform

import (
	"io/fs"

	"github.com/goliatone/go-appform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the built-in stylesheet for serving over HTTP.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
