package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-payform/pkg/model"
)

// Store keeps label/placeholder overrides parsed from overlay documents. It is
// safe for concurrent readers when treated as immutable after construction.
type Store struct {
	channels map[model.Channel]map[string]FieldOverride
}

// FieldOverride customises the display strings of one field. Choices maps an
// option value to a replacement label; option values themselves never change.
type FieldOverride struct {
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Choices     map[string]string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Source      string            `json:"-" yaml:"-"`
}

type documentFile struct {
	Channels map[string]channelFile `json:"channels" yaml:"channels"`
}

type channelFile struct {
	Fields map[string]FieldOverride `json:"fields" yaml:"fields"`
}

// LoadFS walks fsys and parses every JSON/YAML overlay document. When fsys is
// nil or holds no documents the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{channels: make(map[model.Channel]map[string]FieldOverride)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isOverlayFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawChannel, channelDoc := range doc.Channels {
			channel := model.ParseChannel(rawChannel)
			if channel == "" {
				return fmt.Errorf("schema: file %s defines an empty channel id", path)
			}
			fields := store.channels[channel]
			if fields == nil {
				fields = make(map[string]FieldOverride, len(channelDoc.Fields))
				store.channels[channel] = fields
			}
			for rawKey, override := range channelDoc.Fields {
				key := strings.TrimSpace(rawKey)
				if key == "" {
					return fmt.Errorf("schema: file %s channel %q has an empty field key", path, channel)
				}
				if prev, exists := fields[key]; exists {
					return fmt.Errorf("schema: channel %q field %q defined in both %s and %s", channel, key, prev.Source, path)
				}
				override.Source = path
				fields[key] = cloneOverride(override)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Empty reports whether the store holds any override.
func (s *Store) Empty() bool {
	return s == nil || len(s.channels) == 0
}

// Override returns the override for a channel field.
func (s *Store) Override(channel model.Channel, key string) (FieldOverride, bool) {
	if s == nil {
		return FieldOverride{}, false
	}
	override, ok := s.channels[channel][key]
	return override, ok
}

// Apply returns descriptors with display overrides applied. Keys, kinds,
// option values and ordering are left untouched.
func (s *Store) Apply(channel model.Channel, descriptors []model.FieldDescriptor) []model.FieldDescriptor {
	if s.Empty() || len(descriptors) == 0 {
		return descriptors
	}
	fields := s.channels[channel]
	if len(fields) == 0 {
		return descriptors
	}
	for idx, d := range descriptors {
		override, ok := fields[d.Key]
		if !ok {
			continue
		}
		if override.Label != "" {
			d.Label = override.Label
		}
		if override.Placeholder != "" {
			d.Placeholder = override.Placeholder
		}
		for i, opt := range d.Choices {
			if label := override.Choices[opt.Value]; label != "" {
				d.Choices[i].Label = label
			}
		}
		descriptors[idx] = d
	}
	return descriptors
}

// check reports overrides that target fields or options absent from schemas.
func (s *Store) check(schemas map[model.Channel][]model.FieldDescriptor) error {
	if s.Empty() {
		return nil
	}
	for channel, fields := range s.channels {
		descriptors, ok := schemas[channel]
		if !ok {
			return fmt.Errorf("schema: overlay targets unknown channel %q", channel)
		}
		for key, override := range fields {
			d, found := findDescriptor(descriptors, key)
			if !found {
				return fmt.Errorf("schema: overlay %s targets unknown field %q on channel %q", override.Source, key, channel)
			}
			for value := range override.Choices {
				if !hasOption(d.Choices, value) {
					return fmt.Errorf("schema: overlay %s targets unknown option %q of %s.%s", override.Source, value, channel, key)
				}
			}
		}
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("schema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML", source)
}

func isOverlayFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func cloneOverride(in FieldOverride) FieldOverride {
	out := in
	if len(in.Choices) > 0 {
		out.Choices = make(map[string]string, len(in.Choices))
		for k, v := range in.Choices {
			out.Choices[k] = v
		}
	}
	return out
}

func findDescriptor(descriptors []model.FieldDescriptor, key string) (model.FieldDescriptor, bool) {
	for _, d := range descriptors {
		if d.Key == key {
			return d, true
		}
	}
	return model.FieldDescriptor{}, false
}

func hasOption(options []model.Option, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
