package render

import (
	"fmt"
	"sort"
	"strings"
)

// Field names used by the HTML renderer when posting events back.
const (
	FieldActivate     = "activate"
	FieldChangePrefix = "change:"
	FieldSession      = "session"
)

// HiddenField is a hidden input emitted alongside the visible tree.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// SessionField carries the session id for transports that do not use cookies.
func SessionField(id string) HiddenField {
	return Hidden(FieldSession, id)
}

// CSRFToken constructs a hidden field carrying the provided token.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// ChangeFieldName is the input name used for the control with id.
func ChangeFieldName(id string) string {
	return FieldChangePrefix + id
}

// ParseChangeFieldName returns the element id encoded in an input name.
func ParseChangeFieldName(name string) (string, bool) {
	id, ok := strings.CutPrefix(name, FieldChangePrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields dedupes fields by name, later wins, and sorts them for
// deterministic output.
func SortedHiddenFields(fields []HiddenField) []HiddenField {
	merged := MergeHiddenFields(nil, fields...)
	if len(merged) == 0 {
		return nil
	}
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: merged[name]})
	}
	return result
}
