package presentation

import (
	"testing"

	theme "github.com/goliatone/go-theme"
)

func TestThemes_Select(t *testing.T) {
	themes := DefaultThemes()

	if _, err := themes.Select(ThemeName, "neon"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
	if _, err := themes.Select("acme", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}

	selection, err := themes.Select(ThemeName, "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	palette := PaletteFrom(selection)
	if palette.Variant != "dark" || palette.Token(TokenAccent) != "#60a5fa" {
		t.Fatalf("unexpected palette: %+v", palette)
	}
	if palette.Token(TokenFont) == "" {
		t.Fatalf("expected base tokens to carry into variant")
	}
}

func TestThemes_RegisterCustomManifest(t *testing.T) {
	themes, err := NewThemes(&theme.Manifest{
		Name:    "acme",
		Version: "0.1.0",
		Tokens:  map[string]string{TokenAccent: "#ff0000"},
	})
	if err != nil {
		t.Fatalf("new themes: %v", err)
	}
	if err := themes.Register(&theme.Manifest{Name: "acme"}); err == nil {
		t.Fatalf("expected duplicate manifest error")
	}

	palette, err := ResolvePalette(themes, "acme", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	f := NewThemed("acme", palette)
	if got := f.Button(Text("Pagar"), nil, false).Style["background"]; got != "#ff0000" {
		t.Fatalf("expected accent background, got %q", got)
	}
}

func TestPalette_RendererConfig(t *testing.T) {
	cfg := Palette{Theme: ThemeName, Variant: "light", Tokens: map[string]string{TokenText: "#000"}}.RendererConfig()
	if cfg.Theme != ThemeName || cfg.Variant != "light" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.CSSVars["--payform-text"] != "#000" {
		t.Fatalf("expected css var, got %+v", cfg.CSSVars)
	}
}
