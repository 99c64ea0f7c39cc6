package presentation

import (
	"strconv"
)

// Kind identifies the primitive an Element was built from.
type Kind string

const (
	KindButton          Kind = "button"
	KindTextField       Kind = "text_field"
	KindChoiceField     Kind = "choice_field"
	KindLabeledLine     Kind = "labeled_line"
	KindLabel           Kind = "label"
	KindContainer       Kind = "container"
	KindDownloadTrigger Kind = "download_trigger"
)

// Element is one node of a view tree. Exported fields describe what to draw;
// callbacks stay private and are reached through Activate and Change so that
// transports dispatch events without touching screen logic.
type Element struct {
	ID          string            `json:"id,omitempty"`
	Kind        Kind              `json:"kind"`
	Variant     string            `json:"variant"`
	Text        string            `json:"text,omitempty"`
	Icon        string            `json:"icon,omitempty"`
	Value       string            `json:"value,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Options     []Option          `json:"options,omitempty"`
	Disabled    bool              `json:"disabled,omitempty"`
	Emphasized  bool              `json:"emphasized,omitempty"`
	Role        LabelRole         `json:"role,omitempty"`
	Style       map[string]string `json:"style,omitempty"`
	Children    []*Element        `json:"children,omitempty"`

	onActivate func()
	onChange   func(string)
}

// Activate runs the activation callback. Disabled elements and elements
// without a callback do nothing. It reports whether a callback ran.
func (e *Element) Activate() bool {
	if e == nil || e.Disabled || e.onActivate == nil {
		return false
	}
	e.onActivate()
	return true
}

// Change forwards value to the change callback, unmodified, on every call. It
// reports whether a callback ran.
func (e *Element) Change(value string) bool {
	if e == nil || e.onChange == nil {
		return false
	}
	e.onChange(value)
	return true
}

// Activatable reports whether the element carries an activation callback.
func (e *Element) Activatable() bool {
	return e != nil && e.onActivate != nil
}

// Changeable reports whether the element carries a change callback.
func (e *Element) Changeable() bool {
	return e != nil && e.onChange != nil
}

// Selected returns the option whose value equals the element value.
func (e *Element) Selected() (Option, bool) {
	if e == nil {
		return Option{}, false
	}
	for _, opt := range e.Options {
		if opt.Value == e.Value {
			return opt, true
		}
	}
	return Option{}, false
}

// Walk visits e and its descendants depth-first. Returning false from fn
// skips the children of the visited element.
func (e *Element) Walk(fn func(*Element) bool) {
	if e == nil {
		return
	}
	if !fn(e) {
		return
	}
	for _, child := range e.Children {
		child.Walk(fn)
	}
}

// Index assigns sequential ids ("e1", "e2", ...) in depth-first order and
// returns the elements keyed by id. Re-indexing a tree reassigns the ids.
func Index(roots ...*Element) map[string]*Element {
	out := make(map[string]*Element)
	next := 0
	for _, root := range roots {
		root.Walk(func(el *Element) bool {
			next++
			el.ID = "e" + strconv.Itoa(next)
			out[el.ID] = el
			return true
		})
	}
	return out
}

// Find returns the first element, depth-first, for which match is true.
func Find(root *Element, match func(*Element) bool) *Element {
	var found *Element
	root.Walk(func(el *Element) bool {
		if found != nil {
			return false
		}
		if match(el) {
			found = el
			return false
		}
		return true
	})
	return found
}

// FindButton returns the first button whose text equals text.
func FindButton(root *Element, text string) *Element {
	return Find(root, func(el *Element) bool {
		return el.Kind == KindButton && el.Text == text
	})
}
