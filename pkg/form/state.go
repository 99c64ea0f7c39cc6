package form

import (
	"sort"

	"github.com/goliatone/go-payform/pkg/model"
)

// State holds the values of one open notification form. It is immutable:
// ApplyChange returns a new State and leaves the receiver untouched.
type State struct {
	channel model.Channel
	values  map[string]model.Value
}

// NewState returns an empty state bound to channel.
func NewState(channel model.Channel) State {
	return State{channel: channel}
}

// Channel returns the channel the state is bound to.
func (s State) Channel() model.Channel {
	return s.channel
}

// Get returns the value stored for key.
func (s State) Get(key string) (model.Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of stored keys.
func (s State) Len() int {
	return len(s.values)
}

// Keys returns the stored keys sorted alphabetically.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both states are bound to the same channel and hold
// equal values.
func (s State) Equal(other State) bool {
	if s.channel != other.channel || len(s.values) != len(other.values) {
		return false
	}
	for k, v := range s.values {
		ov, ok := other.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (s State) with(key string, v model.Value) State {
	next := State{channel: s.channel, values: make(map[string]model.Value, len(s.values)+1)}
	for k, existing := range s.values {
		next.values[k] = existing
	}
	next.values[key] = v
	return next
}

func (s State) without(key string) State {
	if _, ok := s.values[key]; !ok {
		return s
	}
	next := State{channel: s.channel, values: make(map[string]model.Value, len(s.values))}
	for k, existing := range s.values {
		if k != key {
			next.values[k] = existing
		}
	}
	return next
}
