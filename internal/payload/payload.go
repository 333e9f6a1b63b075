// Package payload defines the event records sent to the ingestion API and
// the builders that assemble them. Callers construct payloads through a
// type-specific builder; a built payload is treated as an immutable value
// apart from the PutValue escape hatch.
package payload

import (
	"time"

	"primedata/pkg/errors"
)

// Type enumerates the known event types stored under the eventType key.
type Type string

const (
	TypeAlias    Type = "alias"
	TypeGroup    Type = "group"
	TypeIdentify Type = "identify"
	TypeScreen   Type = "screen"
	TypeTrack    Type = "track"
)

// Wire field names, exactly as serialized.
const (
	TypeKey         = "eventType"
	ItemTypeKey     = "itemType"
	ItemIDKey       = "itemId"
	TimestampKey    = "timeStamp"
	TargetKey       = "target"
	SourceKey       = "source"
	ContextKey      = "context"
	IntegrationsKey = "integrations"
	PropertiesKey   = "properties"
	ProfileIDKey    = "profileId"
	SessionIDKey    = "sessionId"
	ScopeKey        = "scope"
)

// Payload is the ordered field set shared by all event variants. Clients
// do not create one directly; a builder does.
type Payload struct {
	fields *ValueMap
}

// Type returns the event type enum. A stored value that does not match a
// known variant reads back as ErrMalformedPayload.
func (p *Payload) Type() (Type, error) {
	v := p.fields.GetString(TypeKey)
	switch t := Type(v); t {
	case TypeAlias, TypeGroup, TypeIdentify, TypeScreen, TypeTrack:
		return t, nil
	}
	return "", errors.ErrMalformedPayload.WithField(TypeKey).WithDetail("value", v)
}

// EventType returns the raw event name, "" when unset. Unlike Type it does
// not restrict the value to the known enum.
func (p *Payload) EventType() string {
	return p.fields.GetString(TypeKey)
}

func (p *Payload) ItemType() string {
	return p.fields.GetString(ItemTypeKey)
}

func (p *Payload) ItemID() string {
	return p.fields.GetString(ItemIDKey)
}

// SessionID is non-empty for every payload built through a session-carrying
// builder.
func (p *Payload) SessionID() string {
	return p.fields.GetString(SessionIDKey)
}

func (p *Payload) ProfileID() string {
	return p.fields.GetString(ProfileIDKey)
}

func (p *Payload) Scope() string {
	return p.fields.GetString(ScopeKey)
}

// Timestamp parses the stored ISO-8601 timestamp, nanosecond suffix
// included. ok is false when the field is unset or empty; an unparsable
// value fails with ErrMalformedPayload rather than guessing a default.
func (p *Payload) Timestamp() (t time.Time, ok bool, err error) {
	raw := p.fields.GetString(TimestampKey)
	if raw == "" {
		return time.Time{}, false, nil
	}
	parsed, perr := parseISO8601(raw)
	if perr != nil {
		return time.Time{}, false, errors.ErrMalformedPayload.WithField(TimestampKey).WithCause(perr)
	}
	return parsed, true, nil
}

func (p *Payload) Integrations() map[string]interface{} {
	return p.fields.GetMap(IntegrationsKey)
}

func (p *Payload) Source() map[string]interface{} {
	return p.fields.GetMap(SourceKey)
}

func (p *Payload) Target() map[string]interface{} {
	return p.fields.GetMap(TargetKey)
}

func (p *Payload) Context() map[string]interface{} {
	return p.fields.GetMap(ContextKey)
}

func (p *Payload) Properties() map[string]interface{} {
	return p.fields.GetMap(PropertiesKey)
}

// PutValue attaches or overwrites an ad hoc field and returns the receiver
// for chaining. It is the one mutation allowed after build.
func (p *Payload) PutValue(key string, value interface{}) *Payload {
	p.fields.Put(key, value)
	return p
}

func (p *Payload) ToMap() map[string]interface{} {
	return p.fields.ToMap()
}

// Fields exposes the ordered field set, mainly for serialization.
func (p *Payload) Fields() *ValueMap {
	return p.fields
}

func (p *Payload) MarshalJSON() ([]byte, error) {
	return p.fields.MarshalJSON()
}
