package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date with day granularity. Pickup windows compare dates in
// the server's local calendar, so the zone of the backing time is preserved.
type Date struct {
	t time.Time
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, t.Location())}
}

// Today returns the current calendar day in server-local time.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate reads a YYYY-MM-DD string in server-local time.
func ParseDate(value string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return DateOf(d.t.AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time exposes the midnight instant backing the date.
func (d Date) Time() time.Time { return d.t }

// String implements fmt.Stringer.
func (d Date) String() string { return d.t.Format(DateLayout) }

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses "YYYY-MM-DD".
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for DATE columns.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v.In(time.Local))
		return nil
	case string:
		parsed, err := parseLoose(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := parseLoose(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("unsupported date source %T", src)
	}
}

// sqlite hands dates back as full timestamps.
func parseLoose(raw string) (Date, error) {
	if len(raw) >= len(DateLayout) {
		if parsed, err := ParseDate(raw[:len(DateLayout)]); err == nil {
			return parsed, nil
		}
	}
	t, err := time.ParseInLocation(time.RFC3339, raw, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", raw)
	}
	return DateOf(t), nil
}
