// Package tui draws view trees as plain text and drives a session from the
// terminal with survey prompts.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-payform/pkg/presentation"
	"github.com/goliatone/go-payform/pkg/render"
)

// Name is the registry name of the text renderer.
const Name = "text"

// Renderer implements render.Renderer with a plain text layout.
type Renderer struct{}

var _ render.Renderer = Renderer{}

func (Renderer) Name() string {
	return Name
}

func (Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (Renderer) Render(ctx context.Context, root *presentation.Element, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("tui: view tree is nil")
	}
	var b strings.Builder
	for _, t := range opts.Toasts {
		fmt.Fprintf(&b, "[%s] %s\n", t.Kind, t.Message)
	}
	if root.Kind == presentation.KindContainer {
		for _, child := range root.Children {
			writeText(&b, child, 0)
		}
	} else {
		writeText(&b, root, 0)
	}
	return []byte(b.String()), nil
}

func writeText(b *strings.Builder, el *presentation.Element, depth int) {
	if el == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	switch el.Kind {
	case presentation.KindContainer:
		for _, child := range el.Children {
			writeText(b, child, depth+1)
		}
		return
	case presentation.KindLabel:
		text := el.Text
		if el.Role == presentation.LabelTitle {
			text = strings.ToUpper(text)
		}
		fmt.Fprintf(b, "%s%s\n", indent, text)
	case presentation.KindLabeledLine:
		marker := ""
		if el.Emphasized {
			marker = "*"
		}
		fmt.Fprintf(b, "%s%s%s %s%s\n", indent, marker, el.Text, el.Value, marker)
	case presentation.KindTextField:
		value := el.Value
		if value == "" {
			value = "<" + el.Placeholder + ">"
		}
		fmt.Fprintf(b, "%s[%s]\n", indent, value)
	case presentation.KindChoiceField:
		label := el.Value
		if opt, ok := el.Selected(); ok {
			label = opt.Label
		}
		fmt.Fprintf(b, "%s[%s v]\n", indent, label)
	case presentation.KindButton:
		if el.Disabled {
			fmt.Fprintf(b, "%s( %s )\n", indent, el.Text)
		} else {
			fmt.Fprintf(b, "%s[ %s ]\n", indent, el.Text)
		}
	case presentation.KindDownloadTrigger:
		fmt.Fprintf(b, "%s[ descargar %s ]\n", indent, el.Text)
	}
}
