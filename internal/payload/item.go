package payload

import (
	"time"

	"primedata/pkg/errors"
)

// ItemPayload is a discrete named item event: an item type, an item id and
// a free-form property mapping. It is also the self-describing body the
// session manager emits for the host application.
type ItemPayload struct {
	Payload
}

func (p *ItemPayload) ToBuilder() *ItemBuilder {
	b := NewItemBuilder()
	b.core.seedFrom(&p.Payload)
	return b
}

// ItemBuilder assembles an ItemPayload.
type ItemBuilder struct {
	core builderCore
}

func NewItemBuilder() *ItemBuilder {
	return &ItemBuilder{}
}

func (b *ItemBuilder) WithItemID(id string) *ItemBuilder {
	b.core.setItemID(id)
	return b
}

func (b *ItemBuilder) WithItemType(itemType string) *ItemBuilder {
	b.core.setItemType(itemType)
	return b
}

func (b *ItemBuilder) WithScope(scope string) *ItemBuilder {
	b.core.setScope(scope)
	return b
}

func (b *ItemBuilder) WithTimestamp(t time.Time) *ItemBuilder {
	b.core.setTimestamp(t)
	return b
}

func (b *ItemBuilder) WithProperties(properties map[string]interface{}) *ItemBuilder {
	b.core.setProperties(properties)
	return b
}

func (b *ItemBuilder) WithTarget(target map[string]interface{}) *ItemBuilder {
	b.core.setTarget(target)
	return b
}

func (b *ItemBuilder) WithSource(source map[string]interface{}) *ItemBuilder {
	b.core.setSource(source)
	return b
}

func (b *ItemBuilder) WithSessionID(id string) *ItemBuilder {
	b.core.setSessionID(id)
	return b
}

func (b *ItemBuilder) WithProfileID(id string) *ItemBuilder {
	b.core.setProfileID(id)
	return b
}

func (b *ItemBuilder) WithNanosecondTimestamps(enabled bool) *ItemBuilder {
	b.core.nanosecondTimestamps = enabled
	return b
}

func (b *ItemBuilder) Build() (*ItemPayload, error) {
	p, err := b.core.build(func(c *builderCore) (*Payload, error) {
		if c.itemType == "" {
			return nil, errors.ErrInvalidArgument.WithField(ItemTypeKey)
		}
		f := NewValueMap()
		f.Put(ItemTypeKey, c.itemType)
		f.Put(ItemIDKey, c.itemID)
		f.Put(TimestampKey, formatISO8601(c.timestamp, c.nanosecondTimestamps))
		if c.target != nil {
			f.Put(TargetKey, c.target)
		}
		if c.source != nil {
			f.Put(SourceKey, c.source)
		}
		if c.sessionID != "" {
			f.Put(SessionIDKey, c.sessionID)
		}
		if c.profileID != "" {
			f.Put(ProfileIDKey, c.profileID)
		}
		return &Payload{fields: f}, nil
	})
	if err != nil {
		return nil, err
	}
	return &ItemPayload{Payload: *p}, nil
}
