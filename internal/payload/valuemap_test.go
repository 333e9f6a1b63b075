package payload

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueMapPreservesInsertionOrder(t *testing.T) {
	m := NewValueMap()
	m.Put("c", 1)
	m.Put("a", 2)
	m.Put("b", 3)

	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())
}

func TestValueMapLastWriteWinsKeepsPosition(t *testing.T) {
	m := NewValueMap()
	m.Put("first", "one")
	m.Put("second", "two")
	m.Put("first", "updated")

	assert.Equal(t, []string{"first", "second"}, m.Keys())
	assert.Equal(t, "updated", m.GetString("first"))
	assert.Equal(t, 2, m.Len())
}

func TestValueMapTypedGetterDefaults(t *testing.T) {
	m := NewValueMap()
	m.Put("number", 42)

	assert.Equal(t, "", m.GetString("absent"))
	assert.Equal(t, "", m.GetString("number"))

	nested := m.GetMap("absent")
	require.NotNil(t, nested)
	assert.Empty(t, nested)
}

func TestValueMapGetMapVariants(t *testing.T) {
	inner := map[string]interface{}{"foo": "bar"}
	m := NewValueMap()
	m.Put("plain", inner)
	m.Put("ordered", NewValueMap().Put("foo", "bar"))

	assert.Equal(t, inner, m.GetMap("plain"))
	assert.Equal(t, inner, m.GetMap("ordered"))
}

func TestValueMapJSONRoundTripKeepsOrder(t *testing.T) {
	m := NewValueMap()
	m.Put("zeta", "z")
	m.Put("alpha", "a")
	m.Put("nested", map[string]interface{}{"foo": "bar"})

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"z","alpha":"a","nested":{"foo":"bar"}}`, string(data))

	var decoded ValueMap
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"zeta", "alpha", "nested"}, decoded.Keys())
	assert.Equal(t, "z", decoded.GetString("zeta"))
	assert.Equal(t, map[string]interface{}{"foo": "bar"}, decoded.GetMap("nested"))
}
