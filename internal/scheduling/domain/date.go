// Package domain holds the production scheduling structure engine: canonical
// ordering of order items, task normalization, the flat row tree, block
// grouping, classification state and job/fleet statistics.
//
// Every function in this package is pure. Inputs are treated as immutable
// snapshots and nothing here returns an error; malformed classification data
// degrades to the SIN_CATEGORIA sentinel instead.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date stored as days since 1970-01-01 (UTC).
// The zero value is the Unix epoch; use NoDate for "unset".
type Date struct {
	days  int32
	valid bool
}

// NoDate is the unset date.
var NoDate = Date{}

// DateOf strips the time of day from t after normalizing it to UTC.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return NoDate
	}
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return Date{days: int32(midnight.Unix() / 86400), valid: true}
}

// NewDate builds a date from its calendar parts.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return NoDate, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Today returns the current UTC date according to now.
func Today(now func() time.Time) Date {
	if now == nil {
		now = time.Now
	}
	return DateOf(now())
}

// IsSet reports whether the date carries a value.
func (d Date) IsSet() bool { return d.valid }

// Before reports whether d is strictly earlier than other. Unset dates never compare.
func (d Date) Before(other Date) bool {
	return d.valid && other.valid && d.days < other.days
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.valid && other.valid && d.days > other.days
}

// AddDays returns the date shifted by n days.
func (d Date) AddDays(n int) Date {
	if !d.valid {
		return d
	}
	return Date{days: d.days + int32(n), valid: true}
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	if !d.valid {
		return time.Time{}
	}
	return time.Unix(int64(d.days)*86400, 0).UTC()
}

// Ptr returns a pointer to the date's time, or nil when unset. Used when
// writing nullable DATE columns.
func (d Date) Ptr() *time.Time {
	if !d.valid {
		return nil
	}
	t := d.Time()
	return &t
}

func (d Date) String() string {
	if !d.valid {
		return ""
	}
	return d.Time().Format(dateLayout)
}

// MarshalJSON renders the date as YYYY-MM-DD, or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD, a full RFC3339 timestamp, or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = NoDate
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = NoDate
		return nil
	}
	if parsed, err := ParseDate(raw); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", raw, err)
	}
	*d = DateOf(t)
	return nil
}

// MarshalYAML renders the date as YYYY-MM-DD.
func (d Date) MarshalYAML() (interface{}, error) {
	if !d.valid {
		return nil, nil
	}
	return d.String(), nil
}

// UnmarshalYAML accepts YYYY-MM-DD.
func (d *Date) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	if raw == "" {
		*d = NoDate
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateFromPtr converts a nullable DATE column value.
func DateFromPtr(t *time.Time) Date {
	if t == nil {
		return NoDate
	}
	return DateOf(*t)
}
