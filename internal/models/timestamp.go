package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 layout used on disk.
const TimestampLayout = time.RFC3339Nano

// legacyLayouts are accepted when reading. Python's isoformat() omits the
// UTC offset; such values are interpreted as local time.
var legacyLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is an instant that serializes as an ISO-8601 string.
// The zero Timestamp serializes as "" and means "not set".
type Timestamp struct {
	time.Time
}

// NewTimestamp normalizes t to UTC without a monotonic clock reading,
// so values compare equal after a round trip through storage.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: t.UTC().Round(0)}
}

// String returns the on-disk form, "" for the zero value.
func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses the on-disk form. The empty string yields the zero value.
func ParseTimestamp(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return NewTimestamp(t), nil
	}
	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
