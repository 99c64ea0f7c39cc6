package render

import (
	"github.com/goliatone/go-payform/pkg/presentation"
	"github.com/goliatone/go-payform/pkg/toast"
)

// RenderOptions carry per-request data that is not part of the view tree.
type RenderOptions struct {
	// Title is the document title for renderers that produce whole pages.
	Title string
	// Action is where interactive renderers post events back to.
	Action string
	// DownloadURL, when set, is linked next to the download trigger so the
	// browser can fetch the last saved PDF.
	DownloadURL string
	// Palette supplies the theme tokens published as CSS variables.
	Palette presentation.Palette
	// Toasts are drained notifications to show once.
	Toasts []toast.Toast
	// Hidden fields travel with every posted event.
	Hidden []HiddenField
}
