package payform

import (
	"io/fs"

	"github.com/goliatone/go-payform/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// and customise them, then pass them back with html.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
