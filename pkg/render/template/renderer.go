package template

import (
	"io"
)

// TemplateRenderer is the slice of the github.com/goliatone/go-template
// engine contract the HTML renderer calls.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
