package services

import "time"

// timestampLayout is RFC 3339 with fixed nanosecond width. The createdAt
// attribute is the sort key of the source-createdAt-index GSI, so its
// lexicographic order must equal chronological order; RFC3339Nano trims
// trailing zeros and breaks that.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func nowTimestamp() string {
	return formatTimestamp(time.Now())
}
