package form

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-payform/pkg/model"
	"github.com/goliatone/go-payform/pkg/presentation"
	"github.com/goliatone/go-payform/pkg/schema"
)

// UnrecognizedChannelLabel is rendered in place of fields when the channel
// has no schema.
const UnrecognizedChannelLabel = "Tipo de notificación no reconocido"

// Placeholder is the leading option of every choice control. Selecting it on
// a boolean field clears the value.
const Placeholder = "Seleccionar"

// Payload is the unwrapped submission of a State: strings, []string lists and
// booleans keyed by field key.
type Payload map[string]any

// Option customises an Engine.
type Option func(*Engine)

// WithSource resolves channel schemas through src instead of the built-ins.
func WithSource(src schema.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.source = src
		}
	}
}

// Engine applies schema-driven transforms to form state.
type Engine struct {
	source schema.Source
}

// NewEngine constructs an engine backed by the built-in channel schemas
// unless WithSource is supplied.
func NewEngine(options ...Option) *Engine {
	e := &Engine{source: schema.Builtins}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// SchemaFor returns the ordered descriptors for channel. Unknown channels
// yield an empty slice.
func (e *Engine) SchemaFor(channel model.Channel) []model.FieldDescriptor {
	return e.source.Lookup(channel)
}

// ApplyChange stores raw under key according to the field kind:
//
//   - text, choice and datetime values are stored verbatim;
//   - list values are split on "," with no trimming;
//   - boolean values accept "true" and "false"; anything else clears the key.
//
// Keys the bound channel does not declare return ErrUnknownField.
func (e *Engine) ApplyChange(state State, key, raw string) (State, error) {
	descriptor, ok := e.descriptor(state.Channel(), key)
	if !ok {
		return state, fmt.Errorf("%w: %q on channel %q", ErrUnknownField, key, state.Channel())
	}

	switch descriptor.Kind {
	case model.FieldKindList:
		return state.with(key, model.ListValue(strings.Split(raw, ","))), nil
	case model.FieldKindBoolean:
		switch raw {
		case "true":
			return state.with(key, model.BoolValue(true)), nil
		case "false":
			return state.with(key, model.BoolValue(false)), nil
		default:
			return state.without(key), nil
		}
	default:
		return state.with(key, model.TextValue(raw)), nil
	}
}

// DisplayValue returns the string a control shows for descriptor: scalars
// verbatim, lists joined with ",", booleans as "true"/"false", absent as "".
func (e *Engine) DisplayValue(state State, descriptor model.FieldDescriptor) string {
	v, ok := state.Get(descriptor.Key)
	if !ok {
		return ""
	}
	return v.String()
}

// Submit unwraps state into a payload holding only keys of the bound channel.
func (e *Engine) Submit(state State) Payload {
	payload := Payload{}
	for _, d := range e.SchemaFor(state.Channel()) {
		v, ok := state.Get(d.Key)
		if !ok {
			continue
		}
		payload[d.Key] = v.Interface()
	}
	return payload
}

// Render builds a label and a control for every field of channel. Controls
// report edits through onChange with the field key and the raw value.
func (e *Engine) Render(factory presentation.Factory, channel model.Channel, state State, onChange func(key, raw string)) []*presentation.Element {
	descriptors := e.SchemaFor(channel)
	if len(descriptors) == 0 {
		return []*presentation.Element{factory.Label(UnrecognizedChannelLabel, nil)}
	}

	elements := make([]*presentation.Element, 0, len(descriptors)*2)
	for _, d := range descriptors {
		key := d.Key
		var handler func(string)
		if onChange != nil {
			handler = func(raw string) { onChange(key, raw) }
		}

		elements = append(elements, factory.Label(d.Label, nil))
		value := e.DisplayValue(state, d)
		if d.Kind.UsesChoice() {
			if value == "" {
				value = Placeholder
			}
			options := make([]presentation.Option, 0, len(d.Choices)+1)
			options = append(options, presentation.Option{Label: Placeholder, Value: Placeholder})
			options = append(options, d.Choices...)
			elements = append(elements, factory.ChoiceField(options, value, handler))
			continue
		}
		elements = append(elements, factory.TextField(d.Placeholder, value, handler))
	}
	return elements
}

func (e *Engine) descriptor(channel model.Channel, key string) (model.FieldDescriptor, bool) {
	for _, d := range e.SchemaFor(channel) {
		if d.Key == key {
			return d, true
		}
	}
	return model.FieldDescriptor{}, false
}

const legacyScheduleLayout = "2006-01-02 15:04"

// NormalizeScheduleTime converts a "YYYY-MM-DD HH:mm" schedule into the
// "YYYY-MM-DDTHH:mm" form stored by SMS forms. Values already in that form
// are returned unchanged; empty input stays empty.
func NormalizeScheduleTime(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	if _, err := time.Parse(schema.ScheduleTimeLayout, trimmed); err == nil {
		return trimmed, nil
	}
	parsed, err := time.Parse(legacyScheduleLayout, trimmed)
	if err != nil {
		return "", fmt.Errorf("form: schedule time %q: %w", raw, err)
	}
	return parsed.Format(schema.ScheduleTimeLayout), nil
}
