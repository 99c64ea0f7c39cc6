// Package light provides the light presentation variant.
package light

import "github.com/goliatone/go-payform/pkg/presentation"

// Name is the registry name of the variant.
const Name = "light"

// New returns the light factory resolved from the built-in theme manifest.
func New() *presentation.Themed {
	palette, err := presentation.ResolvePalette(presentation.DefaultThemes(), presentation.ThemeName, Name)
	if err != nil {
		panic(err)
	}
	return presentation.NewThemed(Name, palette)
}
