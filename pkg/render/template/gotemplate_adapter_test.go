package template_test

import (
	"embed"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-payform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-payform/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestGoTemplateEngine_EscapesValues(t *testing.T) {
	engine := newEngine(t)

	result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("escape", map[string]any{
			"amount": "$46.00 USD",
			"note":   "<b>hola</b>",
		}, w)
	})

	path := filepath.Join("testdata", "escape.golden")
	if testsupport.WriteMaybeGolden(t, path, []byte(result)) {
		return
	}
	if want := testsupport.MustReadGoldenString(t, path); result != want {
		t.Fatalf("escape mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_InlineStyle(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("style", map[string]any{
		"style": map[string]string{
			"color":      "#1f2933",
			"background": "#ffffff",
			"border":     "red;}body{",
		},
	})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if want := "background: #ffffff; color: #1f2933;"; strings.TrimSpace(got) != want {
		t.Fatalf("inline style mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestGoTemplateEngine_RequiresFS(t *testing.T) {
	if _, err := gotemplate.New(gotemplate.WithExtension(".tmpl")); err == nil {
		t.Fatalf("expected error without a template fs")
	}
}

func TestGoTemplateEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("nope", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
