package payload

// NewScreenBuilder returns a track-family builder pre-configured for
// screen events: the event name is "screen" and the target describes the
// screen item ("name"/"screen").
func NewScreenBuilder() *ContextBuilder {
	target := map[string]interface{}{
		ItemIDKey:   "name",
		ItemTypeKey: "screen",
	}
	return NewContextBuilder().WithEvent(string(TypeScreen)).WithTarget(target)
}
