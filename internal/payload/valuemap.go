package payload

import (
	"bytes"

	"github.com/goccy/go-json"
)

// ValueMap is a string-keyed container that preserves insertion order.
// Keys are unique: writing an existing key replaces the value in place,
// so the key keeps its original position.
type ValueMap struct {
	keys   []string
	values map[string]interface{}
}

func NewValueMap() *ValueMap {
	return &ValueMap{values: make(map[string]interface{})}
}

func (m *ValueMap) Put(key string, value interface{}) *ValueMap {
	if m.values == nil {
		m.values = make(map[string]interface{})
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

func (m *ValueMap) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *ValueMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

func (m *ValueMap) Len() int {
	return len(m.keys)
}

func (m *ValueMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// GetString returns the value stored under key as a string, or "" when the
// key is absent or holds a non-string value.
func (m *ValueMap) GetString(key string) string {
	if s, ok := m.values[key].(string); ok {
		return s
	}
	return ""
}

// GetMap returns the nested mapping stored under key. Absent or
// non-mapping values read as an empty mapping, never nil, so callers do
// not null-check.
func (m *ValueMap) GetMap(key string) map[string]interface{} {
	switch v := m.values[key].(type) {
	case map[string]interface{}:
		return v
	case *ValueMap:
		return v.ToMap()
	default:
		return map[string]interface{}{}
	}
}

// ToMap returns a plain map snapshot; insertion order is lost.
func (m *ValueMap) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// MarshalJSON renders the entries in insertion order.
func (m *ValueMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores the entries in the order they appear on the wire.
func (m *ValueMap) UnmarshalJSON(data []byte) error {
	m.keys = nil
	m.values = make(map[string]interface{})

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	// opening brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var value interface{}
		if err := json.Unmarshal(raw, &value); err != nil {
			return err
		}
		m.Put(key, value)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
