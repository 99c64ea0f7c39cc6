package model

import "strings"

// Channel identifies a notification delivery mechanism. The channel decides
// which fields a notification form collects.
type Channel string

const (
	ChannelEmail    Channel = "EMAIL"
	ChannelSMS      Channel = "SMS"
	ChannelPush     Channel = "PUSH"
	ChannelWhatsApp Channel = "WHATSAPP"
)

// ChannelUnset is the placeholder value of the channel choice before the
// operator picks a channel.
const ChannelUnset Channel = "Seleccionar"

// KnownChannels lists the supported channels in menu order.
func KnownChannels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelPush, ChannelWhatsApp}
}

// ParseChannel trims the raw identifier. It never fails: unrecognized values
// are returned as-is so callers can fall back to the unrecognized-channel view.
func ParseChannel(raw string) Channel {
	return Channel(strings.TrimSpace(raw))
}

// Known reports whether c is one of the supported channels.
func (c Channel) Known() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelWhatsApp:
		return true
	default:
		return false
	}
}

// Selected reports whether the operator picked something other than the
// placeholder.
func (c Channel) Selected() bool {
	return c != "" && c != ChannelUnset
}

func (c Channel) String() string {
	return string(c)
}

// FieldKind enumerates the value transforms a field applies to raw input.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindList     FieldKind = "list"
	FieldKindBoolean  FieldKind = "boolean"
	FieldKindChoice   FieldKind = "choice"
	FieldKindDateTime FieldKind = "datetime"
)

// Valid reports whether k is one of the declared kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldKindText, FieldKindList, FieldKindBoolean, FieldKindChoice, FieldKindDateTime:
		return true
	default:
		return false
	}
}

// UsesChoice reports whether fields of this kind are edited through a choice
// control rather than a text input.
func (k FieldKind) UsesChoice() bool {
	return k == FieldKindChoice || k == FieldKindBoolean
}

// Option is a single label/value pair offered by a choice control. Values are
// matched by exact string equality.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// FieldDescriptor is the static metadata for one input of a channel form.
//
// List fields are edited as a single comma-delimited string. Items containing
// a comma cannot round-trip; no escaping is attempted.
type FieldDescriptor struct {
	Key         string    `json:"key" yaml:"key"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Label       string    `json:"label" yaml:"label"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Choices     []Option  `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Clone returns a copy that shares no slices with d.
func (d FieldDescriptor) Clone() FieldDescriptor {
	out := d
	if len(d.Choices) > 0 {
		out.Choices = append([]Option(nil), d.Choices...)
	}
	return out
}

// CloneDescriptors copies a descriptor slice, including each Choices slice.
func CloneDescriptors(in []FieldDescriptor) []FieldDescriptor {
	if len(in) == 0 {
		return nil
	}
	out := make([]FieldDescriptor, len(in))
	for i, d := range in {
		out[i] = d.Clone()
	}
	return out
}
