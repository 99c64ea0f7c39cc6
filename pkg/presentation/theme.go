package presentation

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ThemeName is the manifest every built-in variant is resolved from.
const ThemeName = "payform"

// Token keys understood by the themed factory.
const (
	TokenSurface    = "surface"
	TokenText       = "text"
	TokenMuted      = "muted"
	TokenBorder     = "border"
	TokenAccent     = "accent"
	TokenAccentText = "accent-text"
	TokenEmphasis   = "emphasis"
	TokenDisabled   = "disabled-opacity"
	TokenRadius     = "radius"
	TokenFont       = "font-family"
)

// Manifest returns the built-in go-theme manifest. The base tokens are the
// light palette; the dark variant overrides colours only.
func Manifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			TokenSurface:    "#ffffff",
			TokenText:       "#1f2933",
			TokenMuted:      "#6b7280",
			TokenBorder:     "#d1d5db",
			TokenAccent:     "#2563eb",
			TokenAccentText: "#ffffff",
			TokenEmphasis:   "#111827",
			TokenDisabled:   "0.5",
			TokenRadius:     "6px",
			TokenFont:       "system-ui, sans-serif",
		},
		Assets: theme.Assets{
			Prefix: "/static",
			Files: map[string]string{
				"icons.stylesheet": "fontawesome.css",
			},
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					TokenSurface:    "#1f2937",
					TokenText:       "#f3f4f6",
					TokenMuted:      "#9ca3af",
					TokenBorder:     "#374151",
					TokenAccent:     "#60a5fa",
					TokenAccentText: "#111827",
					TokenEmphasis:   "#ffffff",
				},
			},
		},
	}
}

// Themes resolves palettes from go-theme manifests. It implements
// theme.ThemeSelector so it can be handed to anything expecting one.
type Themes struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers the supplied manifests.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	t := &Themes{manifests: make(map[string]*theme.Manifest)}
	for _, m := range manifests {
		if err := t.Register(m); err != nil {
			return nil, err
		}
	}
	return t, nil
}

var (
	defaultThemesOnce sync.Once
	defaultThemes     *Themes
)

// DefaultThemes returns the shared selector holding the built-in manifest.
func DefaultThemes() *Themes {
	defaultThemesOnce.Do(func() {
		t, err := NewThemes(Manifest())
		if err != nil {
			panic(err)
		}
		defaultThemes = t
	})
	return defaultThemes
}

// Register adds a manifest. Names must be unique.
func (t *Themes) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return fmt.Errorf("presentation: theme manifest is required")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return fmt.Errorf("presentation: theme name is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.manifests[name]; exists {
		return fmt.Errorf("presentation: theme %q already registered", name)
	}
	t.manifests[name] = manifest
	return nil
}

// Select resolves a theme/variant pair. An empty variant selects the base
// tokens.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	t.mu.RLock()
	manifest, ok := t.manifests[name]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("presentation: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("presentation: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Variants lists the variant names of a theme, sorted.
func (t *Themes) Variants(name string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	manifest, ok := t.manifests[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(manifest.Variants))
	for v := range manifest.Variants {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Palette is the flattened token set of a theme selection.
type Palette struct {
	Theme   string
	Variant string
	Tokens  map[string]string
}

// PaletteFrom merges base tokens with the selected variant's overrides.
func PaletteFrom(selection *theme.Selection) Palette {
	palette := Palette{Tokens: map[string]string{}}
	if selection == nil || selection.Manifest == nil {
		return palette
	}
	palette.Theme = selection.Theme
	palette.Variant = selection.Variant
	for k, v := range selection.Manifest.Tokens {
		palette.Tokens[k] = v
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for k, v := range variant.Tokens {
			palette.Tokens[k] = v
		}
	}
	return palette
}

// ResolvePalette selects name/variant from selector and flattens the result.
func ResolvePalette(selector theme.ThemeSelector, name, variant string) (Palette, error) {
	selection, err := selector.Select(name, variant)
	if err != nil {
		return Palette{}, err
	}
	return PaletteFrom(selection), nil
}

// Token returns the value for key or an empty string.
func (p Palette) Token(key string) string {
	return p.Tokens[key]
}

// RendererConfig exposes the palette to renderers that consume go-theme
// configuration. Every token is also published as a --payform-<key> CSS
// variable.
func (p Palette) RendererConfig() *theme.RendererConfig {
	tokens := make(map[string]string, len(p.Tokens))
	vars := make(map[string]string, len(p.Tokens))
	for k, v := range p.Tokens {
		tokens[k] = v
		vars["--payform-"+k] = v
	}
	return &theme.RendererConfig{
		Theme:   p.Theme,
		Variant: p.Variant,
		Tokens:  tokens,
		CSSVars: vars,
	}
}
