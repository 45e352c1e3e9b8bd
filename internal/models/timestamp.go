package models

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are the date formats the orders API has been seen to
// emit; some responses omit the zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp is a time.Time that decodes the loosely formatted dates of the
// orders API.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses a date string in any of the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON implements json.Unmarshaler
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ts.Format(time.RFC3339) + `"`), nil
}

// Display renders the timestamp as dd/mm/yyyy hh:mm.
func (ts Timestamp) Display() string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("02/01/2006 15:04")
}

// DisplayDate renders only the date part, dd/mm/yyyy.
func (ts Timestamp) DisplayDate() string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("02/01/2006")
}
