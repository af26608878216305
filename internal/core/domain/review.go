package domain

import "time"

// TimestampLayout renders review timestamps as ISO-8601 UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// DefaultSampleSize is the number of reviews the public widget displays.
const DefaultSampleSize = 5

// Review is a single customer review left on a site.
type Review struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Review    string `json:"review"`
	Site      string `json:"site"`
	Timestamp string `json:"timestamp"`
}

// FormatTimestamp returns t in the layout reviews are stored and matched with.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
