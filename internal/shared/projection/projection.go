package projection

import "time"

// TimestampLayout renders instants as zone-less ISO-8601, the format every
// timestamp leaves the API in.
const TimestampLayout = "2006-01-02T15:04:05"

// Metadata captures persistence timestamps shared by entities.
type Metadata struct {
	CreatedOn  time.Time
	ModifiedOn time.Time
}

// Touch moves ModifiedOn to now and seeds CreatedOn when unset.
func (m *Metadata) Touch(now time.Time) {
	if m.CreatedOn.IsZero() {
		m.CreatedOn = now
	}
	m.ModifiedOn = now
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(value string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, value, time.UTC)
}
