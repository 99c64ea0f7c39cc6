// Package dark provides the dark presentation variant.
package dark

import "github.com/goliatone/go-payform/pkg/presentation"

// Name is the registry name of the variant.
const Name = "dark"

// New returns the dark factory resolved from the built-in theme manifest.
func New() *presentation.Themed {
	palette, err := presentation.ResolvePalette(presentation.DefaultThemes(), presentation.ThemeName, Name)
	if err != nil {
		panic(err)
	}
	return presentation.NewThemed(Name, palette)
}
