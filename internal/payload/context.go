package payload

import (
	"time"

	"primedata/pkg/errors"
)

// DefaultOpenEvent is the event name attached to the app-open lifecycle
// payload when the caller does not supply one.
const DefaultOpenEvent = "open_app"

// ContextPayload represents the app-open lifecycle event: an event name,
// session-scoped identity traits and a property mapping, tagged with the
// session and profile identity.
type ContextPayload struct {
	Payload
}

func (p *ContextPayload) ToBuilder() *ContextBuilder {
	b := NewContextBuilder()
	b.core.seedFrom(&p.Payload)
	if ev := p.EventType(); ev != "" {
		b.event = ev
	}
	return b
}

// ContextBuilder assembles a ContextPayload. The zero builder carries the
// "open_app" event name.
type ContextBuilder struct {
	core   builderCore
	event  string
	traits map[string]interface{}
}

func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{event: DefaultOpenEvent}
}

func (b *ContextBuilder) WithEvent(event string) *ContextBuilder {
	if event == "" {
		b.core.fail(TypeKey)
		return b
	}
	b.event = event
	return b
}

// WithTraits records session-scoped identity traits on the builder; traits
// ride alongside the payload for integrations rather than on the wire.
func (b *ContextBuilder) WithTraits(traits map[string]interface{}) *ContextBuilder {
	b.traits = copyMap(traits)
	return b
}

func (b *ContextBuilder) Traits() map[string]interface{} {
	return b.traits
}

func (b *ContextBuilder) WithItemID(id string) *ContextBuilder {
	b.core.setItemID(id)
	return b
}

func (b *ContextBuilder) WithScope(scope string) *ContextBuilder {
	b.core.setScope(scope)
	return b
}

func (b *ContextBuilder) WithTimestamp(t time.Time) *ContextBuilder {
	b.core.setTimestamp(t)
	return b
}

func (b *ContextBuilder) WithProperties(properties map[string]interface{}) *ContextBuilder {
	b.core.setProperties(properties)
	return b
}

func (b *ContextBuilder) WithTarget(target map[string]interface{}) *ContextBuilder {
	b.core.setTarget(target)
	return b
}

func (b *ContextBuilder) WithSource(source map[string]interface{}) *ContextBuilder {
	b.core.setSource(source)
	return b
}

func (b *ContextBuilder) WithSessionID(id string) *ContextBuilder {
	b.core.setSessionID(id)
	return b
}

func (b *ContextBuilder) WithProfileID(id string) *ContextBuilder {
	b.core.setProfileID(id)
	return b
}

func (b *ContextBuilder) WithNanosecondTimestamps(enabled bool) *ContextBuilder {
	b.core.nanosecondTimestamps = enabled
	return b
}

func (b *ContextBuilder) Build() (*ContextPayload, error) {
	p, err := b.core.build(func(c *builderCore) (*Payload, error) {
		if c.sessionID == "" {
			return nil, errors.ErrInvalidArgument.WithField(SessionIDKey)
		}
		f := NewValueMap()
		f.Put(TypeKey, b.event)
		f.Put(ItemIDKey, c.itemID)
		f.Put(TimestampKey, formatISO8601(c.timestamp, c.nanosecondTimestamps))
		if c.target != nil {
			f.Put(TargetKey, c.target)
		}
		if c.source != nil {
			f.Put(SourceKey, c.source)
		}
		f.Put(SessionIDKey, c.sessionID)
		if c.profileID != "" {
			f.Put(ProfileIDKey, c.profileID)
		}
		// Absent properties serialize as an empty mapping; the shared build
		// step overwrites this when the builder carries properties.
		f.Put(PropertiesKey, map[string]interface{}{})
		return &Payload{fields: f}, nil
	})
	if err != nil {
		return nil, err
	}
	return &ContextPayload{Payload: *p}, nil
}
