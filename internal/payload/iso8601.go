package payload

import "time"

const (
	// Canonical timestamp form without nanoseconds: yyyy-MM-ddThh:mm:ss.sssZ.
	iso8601Format      = "2006-01-02T15:04:05.000Z"
	iso8601NanosFormat = "2006-01-02T15:04:05.000000000Z"

	// Serialized length of the canonical no-nanosecond form. Anything longer
	// carries nanosecond precision.
	iso8601NoNanosLen = 24
)

func formatISO8601(t time.Time, nanos bool) string {
	if nanos {
		return t.UTC().Format(iso8601NanosFormat)
	}
	return t.UTC().Format(iso8601Format)
}

func parseISO8601(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05.999999999Z07:00", s)
}
