package model

import (
	"encoding/json"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueText
	ValueList
	ValueBool
)

// Value is the typed union stored per field in a form state: a string, an
// ordered list of strings, or a boolean. The zero Value is "absent".
type Value struct {
	kind ValueKind
	text string
	list []string
	flag bool
}

// TextValue wraps a scalar string.
func TextValue(s string) Value {
	return Value{kind: ValueText, text: s}
}

// ListValue wraps an ordered list. The slice is copied.
func ListValue(items []string) Value {
	return Value{kind: ValueList, list: append([]string{}, items...)}
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value {
	return Value{kind: ValueBool, flag: b}
}

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsZero reports whether v is absent.
func (v Value) IsZero() bool {
	return v.kind == ValueNone
}

// Text returns the scalar string and whether v holds one.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == ValueText
}

// List returns a copy of the list and whether v holds one.
func (v Value) List() ([]string, bool) {
	if v.kind != ValueList {
		return nil, false
	}
	return append([]string{}, v.list...), true
}

// Bool returns the boolean and whether v holds one.
func (v Value) Bool() (bool, bool) {
	return v.flag, v.kind == ValueBool
}

// Interface unwraps v into the plain Go value used in submission payloads:
// string, []string, bool, or nil when absent.
func (v Value) Interface() any {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueList:
		return append([]string{}, v.list...)
	case ValueBool:
		return v.flag
	default:
		return nil
	}
}

// Equal reports whether both values hold the same variant and contents.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueText:
		return v.text == other.text
	case ValueBool:
		return v.flag == other.flag
	case ValueList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueList:
		return strings.Join(v.list, ",")
	case ValueBool:
		if v.flag {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// MarshalJSON encodes the unwrapped value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
