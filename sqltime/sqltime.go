package sqltime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	sdk "github.com/dbkit-project/sdk"
)

// Date holds the calendar fields of a SQL Date value. The zero value
// represents SQL NULL.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Time holds the clock fields of a SQL Time value, including microseconds
// when the source carries them. The zero value represents SQL NULL.
type Time struct {
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

// DateTime combines Date and Time fields for SQL DateTime values. The zero
// value represents SQL NULL.
type DateTime struct {
	Date Date
	Time Time
}

// IsZero reports whether d carries no calendar value.
func (d Date) IsZero() bool { return d == Date{} }

// IsZero reports whether t carries no clock value.
func (t Time) IsZero() bool { return t == Time{} }

// IsZero reports whether dt carries no value.
func (dt DateTime) IsZero() bool { return dt == DateTime{} }

// timeOnlyLayouts are tried before the general parser, which does not accept
// bare clock values.
var timeOnlyLayouts = []string{
	"15:04:05.999999999",
	"15:04:05",
	"15:04",
}

// ParseTimestamp resolves s to a point in time in loc. It accepts the
// textual date/time forms engines emit, including timezone suffixes and
// fractional seconds, as well as numeric Unix epoch seconds. A timezone
// carried by s is respected; otherwise s is interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	t, err := parse(s, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// ParseDate resolves s to its calendar fields in loc.
func ParseDate(s string, loc *time.Location) (Date, error) {
	t, err := ParseTimestamp(s, loc)
	if err != nil {
		return Date{}, err
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// ParseTime resolves s to its clock fields in loc. Bare clock values such as
// "13:37:00" are accepted.
func ParseTime(s string, loc *time.Location) (Time, error) {
	t, err := ParseTimestamp(s, loc)
	if err != nil {
		return Time{}, err
	}
	return clockOf(t), nil
}

// ParseDateTime resolves s to combined calendar and clock fields in loc.
func ParseDateTime(s string, loc *time.Location) (DateTime, error) {
	t, err := ParseTimestamp(s, loc)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{
		Date: Date{Year: t.Year(), Month: t.Month(), Day: t.Day()},
		Time: clockOf(t),
	}, nil
}

// Now returns the current time.
func Now() time.Time { return time.Now() }

// UnixMilli returns the current time as milliseconds since the Unix epoch.
func UnixMilli() int64 { return time.Now().UnixMilli() }

func clockOf(t time.Time) Time {
	return Time{
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Microsecond: t.Nanosecond() / 1000,
	}
}

func parse(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty temporal value: %w", sdk.ErrConversion)
	}
	if loc == nil {
		loc = time.Local
	}

	// Numeric values are Unix epoch seconds.
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0), nil
	}

	for _, layout := range timeOnlyLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, sdk.ErrConversion)
	}
	return t, nil
}
