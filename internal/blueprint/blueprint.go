package blueprint

import (
	"encoding/json"
	"fmt"
	"sort"

	"gossipc/internal/schema"
)

const (
	DefaultStandard = "IWU_SAFE_HOUSING_v1"
	DefaultCompiler = "SSL_v1.0"
)

// Metadata identifies how and when a blueprint was produced.
type Metadata struct {
	Standard  string `json:"standard" yaml:"standard"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Compiler  string `json:"compiler" yaml:"compiler"`
}

// Blueprint is a compliant set of components. It is only built by a
// Compiler or decoded from its serialized form, and never changes after
// that; accessors return copies.
type Blueprint struct {
	metadata   Metadata
	components []schema.Component
}

type wireBlueprint struct {
	Metadata   Metadata           `json:"metadata"`
	Components []schema.Component `json:"components"`
}

func (b *Blueprint) Metadata() Metadata { return b.metadata }

// Components returns the components in actor declaration order.
func (b *Blueprint) Components() []schema.Component {
	return schema.CloneAll(b.components)
}

// Len is the number of components.
func (b *Blueprint) Len() int { return len(b.components) }

// Component looks a component up by name.
func (b *Blueprint) Component(name string) (schema.Component, bool) {
	for _, c := range b.components {
		if c.Name == name {
			return c.Clone(), true
		}
	}
	return schema.Component{}, false
}

func (b *Blueprint) MarshalJSON() ([]byte, error) {
	components := b.components
	if components == nil {
		components = []schema.Component{}
	}
	return json.Marshal(wireBlueprint{Metadata: b.metadata, Components: components})
}

// UnmarshalJSON fills an empty Blueprint. A populated one is refused with
// ErrImmutable so that decoding cannot rewrite a compiled blueprint.
func (b *Blueprint) UnmarshalJSON(data []byte) error {
	if b.components != nil || b.metadata != (Metadata{}) {
		return ErrImmutable
	}
	var w wireBlueprint
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	for i, c := range w.Components {
		if err := checkShape(c); err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
	}
	b.metadata = w.Metadata
	b.components = w.Components
	return nil
}

// MarshalYAML renders the same mapping as ToMap.
func (b *Blueprint) MarshalYAML() (interface{}, error) {
	return b.ToMap()
}

// ToMap returns the serialization shape: {"metadata": {...}, "components": [...]}.
func (b *Blueprint) ToMap() (map[string]any, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// FromMap rebuilds a blueprint from its mapping form.
func FromMap(m map[string]any) (*Blueprint, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode blueprint mapping: %w", err)
	}
	return Decode(data)
}

// Decode parses a JSON-encoded blueprint.
func Decode(data []byte) (*Blueprint, error) {
	b := &Blueprint{}
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("failed to decode blueprint: %w", err)
	}
	return b, nil
}

func checkShape(c schema.Component) error {
	switch c.Type {
	case schema.TypeWall:
		if c.Wall == nil || c.Foundation != nil {
			return fmt.Errorf("wall %q has foundation fields or no wall fields", c.Name)
		}
	case schema.TypeFoundation:
		if c.Foundation == nil || c.Wall != nil {
			return fmt.Errorf("foundation %q has wall fields or no foundation fields", c.Name)
		}
	default:
		return fmt.Errorf("unknown component type %q", c.Type)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
