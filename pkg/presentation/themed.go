package presentation

// Themed is the shared Factory implementation behind the built-in variants.
// It attaches style tokens derived from its palette and nothing else.
type Themed struct {
	name    string
	palette Palette
}

var _ Factory = (*Themed)(nil)

// NewThemed returns a factory named name drawing with palette.
func NewThemed(name string, palette Palette) *Themed {
	return &Themed{name: name, palette: palette}
}

// Name returns the variant name.
func (f *Themed) Name() string {
	return f.name
}

// Palette returns the palette the factory draws with.
func (f *Themed) Palette() Palette {
	return f.palette
}

func (f *Themed) Button(content Content, onActivate func(), disabled bool) *Element {
	style := f.style(map[string]string{
		"background":    TokenAccent,
		"color":         TokenAccentText,
		"border-color":  TokenAccent,
		"border-radius": TokenRadius,
	})
	if disabled {
		style["opacity"] = f.palette.Token(TokenDisabled)
		style["cursor"] = "not-allowed"
	}
	return &Element{
		Kind:       KindButton,
		Variant:    f.name,
		Text:       content.Text,
		Icon:       content.Icon,
		Disabled:   disabled,
		Style:      style,
		onActivate: onActivate,
	}
}

func (f *Themed) TextField(placeholder, value string, onChange func(string)) *Element {
	return &Element{
		Kind:        KindTextField,
		Variant:     f.name,
		Placeholder: placeholder,
		Value:       value,
		Style:       f.inputStyle(),
		onChange:    onChange,
	}
}

func (f *Themed) ChoiceField(options []Option, value string, onChange func(string)) *Element {
	return &Element{
		Kind:     KindChoiceField,
		Variant:  f.name,
		Options:  append([]Option(nil), options...),
		Value:    value,
		Style:    f.inputStyle(),
		onChange: onChange,
	}
}

func (f *Themed) LabeledLine(label, value string, style *LineStyle) *Element {
	tokens := f.style(map[string]string{"color": TokenText})
	emphasized := style != nil && style.Emphasized
	if emphasized {
		tokens["color"] = f.palette.Token(TokenEmphasis)
		tokens["font-weight"] = "bold"
	}
	return &Element{
		Kind:       KindLabeledLine,
		Variant:    f.name,
		Text:       label,
		Value:      value,
		Emphasized: emphasized,
		Style:      tokens,
	}
}

func (f *Themed) Label(text string, style *LabelStyle) *Element {
	role := LabelBody
	if style != nil && style.Role != "" {
		role = style.Role
	}
	tokens := f.style(map[string]string{"color": TokenText})
	switch role {
	case LabelTitle:
		tokens["font-size"] = "1.5rem"
		tokens["font-weight"] = "bold"
	case LabelHeading:
		tokens["font-size"] = "1.125rem"
		tokens["font-weight"] = "600"
	case LabelMuted:
		tokens["color"] = f.palette.Token(TokenMuted)
	}
	return &Element{
		Kind:    KindLabel,
		Variant: f.name,
		Text:    text,
		Role:    role,
		Style:   tokens,
	}
}

func (f *Themed) Container(children ...*Element) *Element {
	kept := make([]*Element, 0, len(children))
	for _, child := range children {
		if child != nil {
			kept = append(kept, child)
		}
	}
	return &Element{
		Kind:    KindContainer,
		Variant: f.name,
		Style: f.style(map[string]string{
			"background":  TokenSurface,
			"color":       TokenText,
			"font-family": TokenFont,
		}),
		Children: kept,
	}
}

func (f *Themed) DownloadTrigger(onActivate func()) *Element {
	return &Element{
		Kind:       KindDownloadTrigger,
		Variant:    f.name,
		Text:       "factura_pago.pdf",
		onActivate: onActivate,
	}
}

func (f *Themed) inputStyle() map[string]string {
	return f.style(map[string]string{
		"background":    TokenSurface,
		"color":         TokenText,
		"border-color":  TokenBorder,
		"border-radius": TokenRadius,
	})
}

// style maps CSS properties to palette tokens.
func (f *Themed) style(props map[string]string) map[string]string {
	out := make(map[string]string, len(props)+2)
	for prop, token := range props {
		if v := f.palette.Token(token); v != "" {
			out[prop] = v
		}
	}
	return out
}
