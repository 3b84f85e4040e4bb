package value

import (
	"errors"
	"testing"
	"time"

	sdk "github.com/dbkit-project/sdk"
	"github.com/dbkit-project/sdk/backend"
)

func raw(s string) backend.Value { return backend.Value{Data: []byte(s)} }

var null = backend.Value{Null: true}

func TestString(t *testing.T) {
	t.Parallel()

	var c Codec
	if got := c.String(raw("hello")); got != "hello" {
		t.Fatalf("String = %q, want \"hello\"", got)
	}
	if got := c.String(null); got != "" {
		t.Fatalf("String on NULL = %q, want \"\"", got)
	}
}

func TestBlob(t *testing.T) {
	t.Parallel()

	var c Codec
	data := []byte{0x00, 0x01}
	got := c.Blob(backend.Value{Data: data})
	if string(got) != string(data) {
		t.Fatalf("Blob = %v, want %v", got, data)
	}
	if c.Blob(null) != nil {
		t.Fatal("Blob on NULL is not nil")
	}
}

func TestInt(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		in      backend.Value
		want    int
		wantErr bool
	}{
		{"Plain", raw("42"), 42, false},
		{"Negative", raw("-7"), -7, false},
		{"Spaced", raw("  13 "), 13, false},
		{"Null", null, 0, false},
		{"Alpha", raw("abc"), 0, true},
		{"TrailingGarbage", raw("12abc"), 0, true},
		{"Float", raw("1.5"), 0, true},
		{"Empty", raw(""), 0, true},
		{"Overflow32", raw("2147483648"), 0, true},
		{"Max32", raw("2147483647"), 2147483647, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var c Codec
			got, err := c.Int(tc.in)
			if tc.wantErr {
				if !errors.Is(err, sdk.ErrConversion) {
					t.Fatalf("Int = (%d, %v), want sdk.ErrConversion", got, err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("Int = (%d, %v), want (%d, nil)", got, err, tc.want)
			}
		})
	}
}

func TestInt64(t *testing.T) {
	t.Parallel()

	var c Codec
	got, err := c.Int64(raw("9223372036854775807"))
	if err != nil || got != 9223372036854775807 {
		t.Fatalf("Int64 = (%d, %v), want max int64", got, err)
	}
	if _, err := c.Int64(raw("9223372036854775808")); !errors.Is(err, sdk.ErrConversion) {
		t.Fatalf("Int64 overflow = %v, want sdk.ErrConversion", err)
	}
	if got, err := c.Int64(null); err != nil || got != 0 {
		t.Fatalf("Int64 on NULL = (%d, %v), want (0, nil)", got, err)
	}
}

func TestFloat64(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		in      backend.Value
		want    float64
		wantErr bool
	}{
		{"Plain", raw("3.25"), 3.25, false},
		{"Exponent", raw("1e3"), 1000, false},
		{"Integer", raw("7"), 7, false},
		{"Null", null, 0, false},
		{"Alpha", raw("abc"), 0, true},
		{"NaN", raw("NaN"), 0, true},
		{"Inf", raw("Inf"), 0, true},
		{"NegInf", raw("-inf"), 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var c Codec
			got, err := c.Float64(tc.in)
			if tc.wantErr {
				if !errors.Is(err, sdk.ErrConversion) {
					t.Fatalf("Float64 = (%v, %v), want sdk.ErrConversion", got, err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("Float64 = (%v, %v), want (%v, nil)", got, err, tc.want)
			}
		})
	}
}

func TestTemporal(t *testing.T) {
	t.Parallel()

	c := Codec{Location: time.UTC}

	ts, err := c.Timestamp(raw("2024-03-05 14:30:15"))
	want := time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)
	if err != nil || !ts.Equal(want) {
		t.Fatalf("Timestamp = (%v, %v), want (%v, nil)", ts, err, want)
	}

	// Numeric epoch seconds are accepted.
	ts, err = c.Timestamp(raw("1700000000"))
	if err != nil || !ts.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("Timestamp epoch = (%v, %v)", ts, err)
	}

	if _, err := c.Timestamp(raw("not a date")); !errors.Is(err, sdk.ErrConversion) {
		t.Fatalf("Timestamp garbage = %v, want sdk.ErrConversion", err)
	}

	// SQL NULL reads as the zero value for every temporal type.
	if ts, err := c.Timestamp(null); err != nil || !ts.IsZero() {
		t.Fatalf("Timestamp on NULL = (%v, %v), want zero time", ts, err)
	}
	if d, err := c.Date(null); err != nil || !d.IsZero() {
		t.Fatalf("Date on NULL = (%+v, %v), want zero Date", d, err)
	}
	if tm, err := c.Time(null); err != nil || !tm.IsZero() {
		t.Fatalf("Time on NULL = (%+v, %v), want zero Time", tm, err)
	}
	if dt, err := c.DateTime(null); err != nil || !dt.IsZero() {
		t.Fatalf("DateTime on NULL = (%+v, %v), want zero DateTime", dt, err)
	}
}
