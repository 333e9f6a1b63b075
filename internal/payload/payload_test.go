package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primedata/pkg/errors"
)

func TestTypeAccessor(t *testing.T) {
	tests := []struct {
		name    string
		event   string
		want    Type
		wantErr bool
	}{
		{"track", "track", TypeTrack, false},
		{"screen", "screen", TypeScreen, false},
		{"identify", "identify", TypeIdentify, false},
		{"unknown value", "bogus", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewContextBuilder().WithEvent(tt.event).WithSessionID("s-1").Build()
			require.NoError(t, err)

			got, err := p.Type()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsMalformedPayload(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimestampAccessorEdgeCases(t *testing.T) {
	p, err := NewContextBuilder().WithSessionID("s-1").Build()
	require.NoError(t, err)

	p.PutValue(TimestampKey, "")
	_, ok, err := p.Timestamp()
	require.NoError(t, err)
	assert.False(t, ok)

	p.PutValue(TimestampKey, "not-a-timestamp")
	_, _, err = p.Timestamp()
	require.Error(t, err)
	assert.True(t, errors.IsMalformedPayload(err))
}

func TestNestedAccessorsNeverNil(t *testing.T) {
	p, err := NewContextBuilder().WithSessionID("s-1").Build()
	require.NoError(t, err)

	assert.NotNil(t, p.Integrations())
	assert.NotNil(t, p.Source())
	assert.NotNil(t, p.Target())
	assert.NotNil(t, p.Context())
	assert.Empty(t, p.Integrations())
}

func TestPutValueChains(t *testing.T) {
	p, err := NewContextBuilder().WithSessionID("s-1").Build()
	require.NoError(t, err)

	got := p.PutValue("custom", "value").PutValue("other", 7)
	assert.Same(t, &p.Payload, got)
	assert.Equal(t, "value", p.Fields().GetString("custom"))
}

func TestContextToBuilderRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 45, 123456789, time.UTC)
	original, err := NewContextBuilder().
		WithEvent("track").
		WithSessionID("s-1").
		WithProfileID("user1").
		WithTimestamp(ts).
		WithNanosecondTimestamps(true).
		WithTarget(map[string]interface{}{"kind": "cart"}).
		WithSource(map[string]interface{}{"app": "demo"}).
		WithProperties(map[string]interface{}{"foo": "bar"}).
		WithScope("source-key-1").
		Build()
	require.NoError(t, err)

	rebuilt, err := original.ToBuilder().Build()
	require.NoError(t, err)

	assert.Equal(t, original.ToMap(), rebuilt.ToMap())
}

func TestItemToBuilderRoundTrip(t *testing.T) {
	original, err := NewItemBuilder().
		WithItemType("product").
		WithItemID("abc").
		WithTimestamp(time.Date(2024, 3, 15, 10, 30, 45, 123000000, time.UTC)).
		WithProperties(map[string]interface{}{"foo": "bar"}).
		WithProfileID("user1").
		Build()
	require.NoError(t, err)

	rebuilt, err := original.ToBuilder().Build()
	require.NoError(t, err)

	assert.Equal(t, original.ToMap(), rebuilt.ToMap())
}

func TestToBuilderInfersNanosecondPrecision(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 45, 123456789, time.UTC)
	original, err := NewContextBuilder().
		WithSessionID("s-1").
		WithTimestamp(ts).
		WithNanosecondTimestamps(true).
		Build()
	require.NoError(t, err)

	rebuilt, err := original.ToBuilder().Build()
	require.NoError(t, err)

	got, ok, err := rebuilt.Timestamp()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, ts.Equal(got), "nanosecond precision lost: want %v, got %v", ts, got)
}
