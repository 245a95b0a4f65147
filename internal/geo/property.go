package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// FeatureProperty is the open key/value bag of a feature. Keys keep their insertion
// order, or the document order when parsed with Parse. Values are treated as immutable
// once assigned.
type FeatureProperty struct {
	keys   []string
	values map[string]any
	dirty  bool
}

// FeaturePropertyFromMap returns a bag holding the entries of m in key order.
func FeaturePropertyFromMap(m map[string]any) *FeatureProperty {
	p := &FeatureProperty{
		keys:   make([]string, 0, len(m)),
		values: make(map[string]any, len(m)),
	}
	for k, v := range m {
		p.keys = append(p.keys, k)
		p.values[k] = v
	}
	sort.Strings(p.keys)

	return p
}

// FeaturePropertyFromJSON decodes a JSON object, keeping its key order. A JSON null
// yields an empty bag.
func FeaturePropertyFromJSON(data []byte) (*FeatureProperty, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed properties", ErrInvalidFormat)
	}

	r := gjson.ParseBytes(data)
	if r.Type == gjson.Null {
		return FeaturePropertyFromMap(nil), nil
	}
	if !r.IsObject() {
		return nil, fmt.Errorf("%w: properties must be an object", ErrInvalidFormat)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	p := FeaturePropertyFromMap(m)
	p.reorder(objectKeys(r))

	return p, nil
}

// Get returns the value of key.
func (p *FeatureProperty) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Set assigns key. A new key is appended after the existing ones.
func (p *FeatureProperty) Set(key string, value any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	p.dirty = true
}

// Delete removes key and reports whether it was present.
func (p *FeatureProperty) Delete(key string) bool {
	if _, ok := p.values[key]; !ok {
		return false
	}
	delete(p.values, key)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == key })
	p.dirty = true

	return true
}

// Keys returns the keys in order.
func (p *FeatureProperty) Keys() []string {
	return slices.Clone(p.keys)
}

// Len returns the number of entries.
func (p *FeatureProperty) Len() int {
	if p == nil {
		return 0
	}

	return len(p.keys)
}

// Equal reports whether both bags hold the same keys with equal values. Key order is
// not significant, compound values compare by their canonical JSON encoding.
func (p *FeatureProperty) Equal(other *FeatureProperty) bool {
	if other == nil || p.Len() != other.Len() {
		return false
	}
	for k, v := range p.values {
		w, ok := other.values[k]
		if !ok || !equalValue(v, w) {
			return false
		}
	}

	return true
}

func equalValue(a, b any) bool {
	if x, ok := asNumber(a); ok {
		y, ok := asNumber(b)
		return ok && x == y
	}

	switch a.(type) {
	case nil, string, bool:
		return a == b
	}

	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)

	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}

// Clone returns a shallow copy of the bag.
func (p *FeatureProperty) Clone() *FeatureProperty {
	values := make(map[string]any, len(p.values))
	for k, v := range p.values {
		values[k] = v
	}

	return &FeatureProperty{keys: slices.Clone(p.keys), values: values}
}

// ToMap returns the entries as a plain map.
func (p *FeatureProperty) ToMap() map[string]any {
	m := make(map[string]any, len(p.values))
	for k, v := range p.values {
		m[k] = v
	}

	return m
}

// reorder moves keys to the front in the given order. Unknown and repeated keys are
// skipped. The bag is not marked dirty.
func (p *FeatureProperty) reorder(keys []string) {
	if p == nil || len(keys) == 0 {
		return
	}

	seen := make(map[string]bool, len(p.keys))
	ordered := make([]string, 0, len(p.keys))
	for _, k := range keys {
		if _, ok := p.values[k]; ok && !seen[k] {
			seen[k] = true
			ordered = append(ordered, k)
		}
	}
	for _, k := range p.keys {
		if !seen[k] {
			ordered = append(ordered, k)
		}
	}
	p.keys = ordered
}

// MarshalJSON encodes the bag as an object in key order.
func (p *FeatureProperty) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML encodes the bag as a mapping in key order.
func (p *FeatureProperty) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range p.keys {
		var value yaml.Node
		if err := value.Encode(p.values[k]); err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &value)
	}

	return node, nil
}
