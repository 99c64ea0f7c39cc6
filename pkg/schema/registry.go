package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-payform/pkg/model"
)

// Source resolves the descriptors of a channel. The form engine depends on this
// seam rather than on the Registry so tests can supply fixed tables.
type Source interface {
	Lookup(channel model.Channel) []model.FieldDescriptor
}

// SourceFunc adapts a function to Source.
type SourceFunc func(channel model.Channel) []model.FieldDescriptor

// Lookup calls fn.
func (fn SourceFunc) Lookup(channel model.Channel) []model.FieldDescriptor {
	return fn(channel)
}

// Builtins is the Source backed by the compiled-in channel tables.
var Builtins Source = SourceFunc(For)

// Option customises a Registry.
type Option func(*Registry)

// WithOverlay applies label/placeholder overrides from store on every lookup.
func WithOverlay(store *Store) Option {
	return func(r *Registry) {
		r.overlay = store
	}
}

// WithoutBuiltins starts the registry empty.
func WithoutBuiltins() Option {
	return func(r *Registry) {
		r.skipBuiltins = true
	}
}

// Registry stores channel schemas by channel id. Lookups return copies so the
// registered descriptors stay immutable.
type Registry struct {
	mu           sync.RWMutex
	schemas      map[model.Channel][]model.FieldDescriptor
	overlay      *Store
	skipBuiltins bool
}

// NewRegistry constructs a registry seeded with the built-in channels.
func NewRegistry(options ...Option) (*Registry, error) {
	r := &Registry{schemas: make(map[model.Channel][]model.FieldDescriptor)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if !r.skipBuiltins {
		for channel, descriptors := range builtins {
			r.schemas[channel] = model.CloneDescriptors(descriptors)
		}
	}
	if err := r.overlay.check(r.schemas); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNewRegistry panics when NewRegistry fails. Useful for init-time wiring.
func MustNewRegistry(options ...Option) *Registry {
	r, err := NewRegistry(options...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds or replaces the schema of a channel after validating it.
func (r *Registry) Register(channel model.Channel, descriptors []model.FieldDescriptor) error {
	if strings.TrimSpace(string(channel)) == "" {
		return fmt.Errorf("schema: channel is required")
	}
	if err := Validate(descriptors); err != nil {
		return fmt.Errorf("schema: channel %q: %w", channel, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemas[channel] = model.CloneDescriptors(descriptors)
	return nil
}

// Lookup returns the descriptors for channel with the overlay applied. Unknown
// channels yield an empty slice.
func (r *Registry) Lookup(channel model.Channel) []model.FieldDescriptor {
	r.mu.RLock()
	descriptors := model.CloneDescriptors(r.schemas[channel])
	r.mu.RUnlock()

	return r.overlay.Apply(channel, descriptors)
}

// Has reports whether a schema is registered for channel.
func (r *Registry) Has(channel model.Channel) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.schemas[channel]
	return ok
}

// Channels returns the registered channel ids sorted alphabetically.
func (r *Registry) Channels() []model.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Channel, 0, len(r.schemas))
	for channel := range r.schemas {
		out = append(out, channel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks a descriptor list: keys must be present and unique, kinds
// declared, and choice fields must offer at least one option.
func Validate(descriptors []model.FieldDescriptor) error {
	seen := make(map[string]struct{}, len(descriptors))
	for idx, d := range descriptors {
		key := strings.TrimSpace(d.Key)
		if key == "" {
			return fmt.Errorf("descriptor %d has an empty key", idx)
		}
		if key != d.Key {
			return fmt.Errorf("descriptor key %q has surrounding whitespace", d.Key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = struct{}{}
		if !d.Kind.Valid() {
			return fmt.Errorf("key %q has unknown kind %q", key, d.Kind)
		}
		if d.Kind == model.FieldKindChoice && len(d.Choices) == 0 {
			return fmt.Errorf("choice key %q declares no options", key)
		}
	}
	return nil
}
