package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	sdk "github.com/dbkit-project/sdk"
	"github.com/dbkit-project/sdk/backend"
	"github.com/dbkit-project/sdk/sqltime"
)

// Codec converts raw backend column values into the scalar and temporal
// types exposed by the SDK. Conversions re-derive their result from the raw
// bytes on every call; no typed representation is retained.
//
// Null handling is type-dependent: numeric and temporal conversions of a SQL
// NULL succeed and yield the type's zero value, string and blob conversions
// yield "" and a nil slice. Callers distinguish SQL NULL from a real zero
// through the cursor's IsNull.
type Codec struct {
	// Location is the timezone temporal values resolve in. If nil,
	// time.Local is used.
	Location *time.Location
}

// String returns the value's text form, or "" for SQL NULL.
func (c Codec) String(v backend.Value) string {
	if v.Null {
		return ""
	}
	return string(v.Data)
}

// Blob returns the value's raw bytes without conversion, or nil for SQL
// NULL. The returned slice aliases the backend's row storage.
func (c Codec) Blob(v backend.Value) []byte {
	if v.Null {
		return nil
	}
	return v.Data
}

// Int parses the value as a 32-bit ranged integer, returning 0 for SQL NULL.
func (c Codec) Int(v backend.Value) (int, error) {
	if v.Null {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(v.Data)), 10, 32)
	if err != nil {
		return 0, convErr(v.Data, "int")
	}
	return int(n), nil
}

// Int64 parses the value as a 64-bit integer, returning 0 for SQL NULL.
func (c Codec) Int64(v backend.Value) (int64, error) {
	if v.Null {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(v.Data)), 10, 64)
	if err != nil {
		return 0, convErr(v.Data, "int64")
	}
	return n, nil
}

// Float64 parses the value as a float, returning 0 for SQL NULL. Textual
// NaN and infinity forms are rejected so behavior stays deterministic across
// engines.
func (c Codec) Float64(v backend.Value) (float64, error) {
	if v.Null {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(v.Data)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, convErr(v.Data, "float64")
	}
	return f, nil
}

// Timestamp resolves the value to a point in time in the codec's location,
// returning the zero time for SQL NULL.
func (c Codec) Timestamp(v backend.Value) (time.Time, error) {
	if v.Null {
		return time.Time{}, nil
	}
	return sqltime.ParseTimestamp(string(v.Data), c.loc())
}

// Date resolves the value's calendar fields, returning the zero Date for
// SQL NULL.
func (c Codec) Date(v backend.Value) (sqltime.Date, error) {
	if v.Null {
		return sqltime.Date{}, nil
	}
	return sqltime.ParseDate(string(v.Data), c.loc())
}

// Time resolves the value's clock fields, returning the zero Time for SQL
// NULL.
func (c Codec) Time(v backend.Value) (sqltime.Time, error) {
	if v.Null {
		return sqltime.Time{}, nil
	}
	return sqltime.ParseTime(string(v.Data), c.loc())
}

// DateTime resolves the value's combined calendar and clock fields,
// returning the zero DateTime for SQL NULL.
func (c Codec) DateTime(v backend.Value) (sqltime.DateTime, error) {
	if v.Null {
		return sqltime.DateTime{}, nil
	}
	return sqltime.ParseDateTime(string(v.Data), c.loc())
}

func (c Codec) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func convErr(raw []byte, target string) error {
	return fmt.Errorf("cannot convert %q to %s: %w", raw, target, sdk.ErrConversion)
}
