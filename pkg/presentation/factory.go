package presentation

import "github.com/goliatone/go-payform/pkg/model"

// Option is a label/value pair offered by a choice field.
type Option = model.Option

// Content is the visible payload of a button: text plus an optional icon name.
type Content struct {
	Text string `json:"text"`
	Icon string `json:"icon,omitempty"`
}

// Text builds a Content without icon.
func Text(text string) Content {
	return Content{Text: text}
}

// LineStyle customises a labeled line.
type LineStyle struct {
	Emphasized bool
}

// LabelRole classifies standalone labels.
type LabelRole string

const (
	LabelBody    LabelRole = "body"
	LabelTitle   LabelRole = "title"
	LabelHeading LabelRole = "heading"
	LabelMuted   LabelRole = "muted"
)

// LabelStyle customises a standalone label.
type LabelStyle struct {
	Role LabelRole
}

// Factory constructs the primitive view elements used by every screen. Each
// call returns a fresh element; implementations hold no per-screen state.
type Factory interface {
	Name() string
	Button(content Content, onActivate func(), disabled bool) *Element
	TextField(placeholder, value string, onChange func(string)) *Element
	ChoiceField(options []Option, value string, onChange func(string)) *Element
	LabeledLine(label, value string, style *LineStyle) *Element
	Label(text string, style *LabelStyle) *Element
	Container(children ...*Element) *Element
	DownloadTrigger(onActivate func()) *Element
}
