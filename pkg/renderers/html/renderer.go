// Package html renders view trees as a self-contained HTML page. Every
// interactive element becomes a form control that posts back its element id:
// buttons submit "activate=<id>" and fields are named "change:<id>".
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-payform/pkg/presentation"
	"github.com/goliatone/go-payform/pkg/render"
	rendertemplate "github.com/goliatone/go-payform/pkg/render/template"
	gotemplate "github.com/goliatone/go-payform/pkg/render/template/gotemplate"
)

// Name is the registry name of this renderer.
const Name = "html"

const pageTemplate = "templates/page.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	icons            map[string]string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithIcons adds or replaces icon markup by name. Markup is sanitised.
func WithIcons(icons map[string]string) Option {
	return func(cfg *config) {
		for name, markup := range icons {
			cfg.icons[name] = markup
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	icons     map[string]string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		icons:      DefaultIcons(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	icons := make(map[string]string, len(cfg.icons))
	for name, markup := range cfg.icons {
		if cleaned := sanitizeIconMarkup(markup); cleaned != "" {
			icons[name] = cleaned
		}
	}

	return &Renderer{templates: renderer, icons: icons}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, root *presentation.Element, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if root == nil {
		return nil, fmt.Errorf("html renderer: view tree is nil")
	}

	result, err := r.templates.RenderTemplate(pageTemplate, r.pageData(root, opts))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) pageData(root *presentation.Element, opts render.RenderOptions) map[string]any {
	title := opts.Title
	if title == "" {
		title = "Pagos"
	}

	toasts := make([]map[string]any, 0, len(opts.Toasts))
	for _, t := range opts.Toasts {
		toasts = append(toasts, map[string]any{"kind": string(t.Kind), "message": t.Message})
	}

	hidden := make([]map[string]any, 0, len(opts.Hidden))
	for _, h := range render.SortedHiddenFields(opts.Hidden) {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	return map[string]any{
		"title":        title,
		"action":       opts.Action,
		"download_url": opts.DownloadURL,
		"variant":      root.Variant,
		"css_vars":     opts.Palette.RendererConfig().CSSVars,
		"toasts":       toasts,
		"hidden":       hidden,
		"nodes":        r.flatten(root),
	}
}

// flatten emits the tree as a flat sequence with explicit open/close markers
// for containers, which keeps the template free of recursion.
func (r *Renderer) flatten(root *presentation.Element) []map[string]any {
	var out []map[string]any
	var visit func(el *presentation.Element)
	visit = func(el *presentation.Element) {
		if el == nil {
			return
		}
		if el.Kind == presentation.KindContainer {
			out = append(out, map[string]any{"open": true, "id": el.ID, "style": el.Style})
			for _, child := range el.Children {
				visit(child)
			}
			out = append(out, map[string]any{"close": true})
			return
		}
		out = append(out, r.node(el))
	}
	visit(root)
	return out
}

func (r *Renderer) node(el *presentation.Element) map[string]any {
	n := map[string]any{
		"id":          el.ID,
		"kind":        string(el.Kind),
		"text":        el.Text,
		"value":       el.Value,
		"placeholder": el.Placeholder,
		"disabled":    el.Disabled,
		"emphasized":  el.Emphasized,
		"role":        string(el.Role),
		"style":       el.Style,
		"field":       render.ChangeFieldName(el.ID),
		"icon":        r.icons[el.Icon],
	}
	if el.Kind == presentation.KindDownloadTrigger && n["icon"] == "" {
		n["icon"] = r.icons["download"]
	}
	if len(el.Options) > 0 {
		options := make([]map[string]any, 0, len(el.Options))
		for _, opt := range el.Options {
			options = append(options, map[string]any{
				"label":    opt.Label,
				"value":    opt.Value,
				"selected": opt.Value == el.Value,
			})
		}
		n["options"] = options
	}
	return n
}
