package payload

import (
	"time"

	"github.com/google/uuid"

	"primedata/pkg/errors"
)

// builderCore holds the field superset shared by every builder variant and
// enforces the validation rules at setter time. The first validation
// failure is recorded and surfaced by Build; later setters on a failed
// builder are no-ops, so the builder's prior state is never half-updated.
type builderCore struct {
	itemID               string
	itemType             string
	scope                string
	sessionID            string
	profileID            string
	timestamp            time.Time
	hasTimestamp         bool
	nanosecondTimestamps bool
	properties           map[string]interface{}
	target               map[string]interface{}
	source               map[string]interface{}
	err                  error

	now func() time.Time
}

func (c *builderCore) fail(field string) {
	if c.err == nil {
		c.err = errors.ErrInvalidArgument.WithField(field)
	}
}

func (c *builderCore) setItemID(v string) {
	if v == "" {
		c.fail(ItemIDKey)
		return
	}
	c.itemID = v
}

func (c *builderCore) setItemType(v string) {
	if v == "" {
		c.fail(ItemTypeKey)
		return
	}
	c.itemType = v
}

func (c *builderCore) setScope(v string) {
	if v == "" {
		c.fail(ScopeKey)
		return
	}
	c.scope = v
}

func (c *builderCore) setSessionID(v string) {
	if v == "" {
		c.fail(SessionIDKey)
		return
	}
	c.sessionID = v
}

// setProfileID tolerates an empty value by leaving the prior one unchanged.
// This asymmetry with the other setters is deliberate and matches the
// documented contract.
func (c *builderCore) setProfileID(v string) {
	if v != "" {
		c.profileID = v
	}
}

func (c *builderCore) setTimestamp(t time.Time) {
	if t.IsZero() {
		c.fail(TimestampKey)
		return
	}
	c.timestamp = t
	c.hasTimestamp = true
}

func (c *builderCore) setProperties(m map[string]interface{}) {
	if len(m) == 0 {
		c.fail(PropertiesKey)
		return
	}
	c.properties = copyMap(m)
}

func (c *builderCore) setTarget(m map[string]interface{}) {
	if len(m) == 0 {
		c.fail(TargetKey)
		return
	}
	c.target = copyMap(m)
}

func (c *builderCore) setSource(m map[string]interface{}) {
	if len(m) == 0 {
		c.fail(SourceKey)
		return
	}
	c.source = copyMap(m)
}

// seedFrom pre-populates the core from an existing payload for
// copy-and-mutate rebuilds. Nanosecond precision is inferred from the
// serialized timestamp length so a rebuild preserves it.
func (c *builderCore) seedFrom(p *Payload) {
	if raw := p.fields.GetString(TimestampKey); len(raw) > iso8601NoNanosLen {
		c.nanosecondTimestamps = true
	}
	c.itemID = p.ItemID()
	if t, ok, err := p.Timestamp(); err == nil && ok {
		c.timestamp = t
		c.hasTimestamp = true
	}
	if m := p.Target(); len(m) > 0 {
		c.target = copyMap(m)
	}
	if m := p.Source(); len(m) > 0 {
		c.source = copyMap(m)
	}
	if m := p.Properties(); len(m) > 0 {
		c.properties = copyMap(m)
	}
	c.profileID = p.ProfileID()
	c.sessionID = p.SessionID()
	c.itemType = p.ItemType()
	c.scope = p.Scope()
}

// build runs the shared assembly: default-generate the item id and
// timestamp, invoke the variant-specific finishing function, then attach
// properties and a non-empty scope.
func (c *builderCore) build(finish func(c *builderCore) (*Payload, error)) (*Payload, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.itemID == "" {
		c.itemID = uuid.NewString()
	}
	if !c.hasTimestamp {
		clock := c.now
		if clock == nil {
			clock = time.Now
		}
		c.timestamp = clock()
		c.hasTimestamp = true
	}
	p, err := finish(c)
	if err != nil {
		return nil, err
	}
	if c.properties != nil {
		p.fields.Put(PropertiesKey, c.properties)
	}
	if c.scope != "" {
		p.fields.Put(ScopeKey, c.scope)
	}
	return p, nil
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
