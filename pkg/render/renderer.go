// Package render defines how view trees produced by a presentation factory are
// turned into bytes for a transport, plus a registry to look renderers up by
// name.
package render

import (
	"context"

	"github.com/goliatone/go-payform/pkg/presentation"
)

// Renderer converts a view tree into a byte representation (HTML, text).
// Renderers only read the tree; events go back through the session by id.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, root *presentation.Element, options RenderOptions) ([]byte, error)
}
