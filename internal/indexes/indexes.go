// Package indexes holds the static index configuration applied after import.
package indexes

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"
)

//go:embed indexes.yaml
var defaultConfig []byte

var ErrInvalidSpec = errors.New("invalid index spec")

// Field is one key of an index: a direction (1 or -1) or a special index
// type such as "text".
type Field struct {
	Name  string
	Value interface{}
}

// Spec is one index, its fields in declaration order.
type Spec []Field

// UnmarshalYAML reads a mapping node pair by pair so compound indexes keep
// the order they were written in.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: expected a mapping", ErrInvalidSpec, node.Line)
	}
	if len(node.Content) == 0 {
		return fmt.Errorf("%w: line %d: empty index", ErrInvalidSpec, node.Line)
	}

	fields := make(Spec, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		value, err := fieldValue(val)
		if err != nil {
			return fmt.Errorf("%w: field %s: %v", ErrInvalidSpec, key.Value, err)
		}
		fields = append(fields, Field{Name: key.Value, Value: value})
	}
	*s = fields
	return nil
}

var indexTypes = map[string]bool{"text": true, "hashed": true, "2dsphere": true}

func fieldValue(node *yaml.Node) (interface{}, error) {
	var dir int
	if err := node.Decode(&dir); err == nil {
		if dir != 1 && dir != -1 {
			return nil, fmt.Errorf("direction must be 1 or -1, got %d", dir)
		}
		return dir, nil
	}
	var kind string
	if err := node.Decode(&kind); err != nil {
		return nil, err
	}
	if !indexTypes[kind] {
		return nil, fmt.Errorf("unknown index type %q", kind)
	}
	return kind, nil
}

// Keys converts the spec to the ordered document the store expects.
func (s Spec) Keys() bson.D {
	keys := make(bson.D, 0, len(s))
	for _, f := range s {
		keys = append(keys, bson.E{Key: f.Name, Value: f.Value})
	}
	return keys
}

func (s Spec) String() string {
	out := ""
	for i, f := range s {
		if i > 0 {
			out += "_"
		}
		out += fmt.Sprintf("%s_%v", f.Name, f.Value)
	}
	return out
}

// Config maps a collection name to its indexes.
type Config map[string][]Spec

// For returns the indexes declared for collection, nil when there are none.
func (c Config) For(collection string) []Spec {
	return c[collection]
}

// Collections lists the configured collection names, sorted.
func (c Config) Collections() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse index config: %w", err)
	}
	if cfg == nil {
		cfg = Config{}
	}
	return cfg, nil
}

// Default returns the built-in index configuration.
func Default() (Config, error) {
	return Parse(defaultConfig)
}

// Load reads path when set and falls back to the built-in configuration.
func Load(path string) (Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index config: %w", err)
	}
	return Parse(data)
}
