package sqltime

import (
	"errors"
	"testing"
	"time"

	sdk "github.com/dbkit-project/sdk"
)

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"DateTime", "2024-03-05 14:30:15", time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)},
		{"ISO", "2024-03-05T14:30:15Z", time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)},
		{"Fractional", "2024-03-05 14:30:15.25", time.Date(2024, 3, 5, 14, 30, 15, 250000000, time.UTC)},
		{"DateOnly", "2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"Epoch", "1700000000", time.Unix(1700000000, 0).In(time.UTC)},
		{"Padded", "  2024-03-05  ", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.in, time.UTC)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) returned error: %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("ParseTimestamp(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseTimestamp_TimezoneRespected(t *testing.T) {
	t.Parallel()

	// A timezone carried by the value wins over the resolve location.
	got, err := ParseTimestamp("2024-03-05T14:30:15+02:00", time.UTC)
	if err != nil {
		t.Fatalf("ParseTimestamp returned error: %v", err)
	}
	want := time.Date(2024, 3, 5, 12, 30, 15, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ParseTimestamp = %v, want %v", got, want)
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "not a date", "2024-13-45 99:99:99"} {
		if _, err := ParseTimestamp(in, time.UTC); !errors.Is(err, sdk.ErrConversion) {
			t.Fatalf("ParseTimestamp(%q) = %v, want sdk.ErrConversion", in, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := ParseDate("2024-03-05", time.UTC)
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	want := Date{Year: 2024, Month: time.March, Day: 5}
	if got != want {
		t.Fatalf("ParseDate = %+v, want %+v", got, want)
	}

	// Date fields can also be pulled from a full timestamp.
	got, err = ParseDate("2024-03-05 14:30:15", time.UTC)
	if err != nil || got != want {
		t.Fatalf("ParseDate from timestamp = (%+v, %v), want (%+v, nil)", got, err, want)
	}
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want Time
	}{
		{"BareClock", "14:30:15", Time{Hour: 14, Minute: 30, Second: 15}},
		{"ShortClock", "14:30", Time{Hour: 14, Minute: 30}},
		{"Microseconds", "14:30:15.000250", Time{Hour: 14, Minute: 30, Second: 15, Microsecond: 250}},
		{"FromTimestamp", "2024-03-05 14:30:15", Time{Hour: 14, Minute: 30, Second: 15}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTime(tc.in, time.UTC)
			if err != nil {
				t.Fatalf("ParseTime(%q) returned error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseTime(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseDateTime(t *testing.T) {
	t.Parallel()

	got, err := ParseDateTime("2024-03-05 14:30:15", time.UTC)
	if err != nil {
		t.Fatalf("ParseDateTime returned error: %v", err)
	}
	want := DateTime{
		Date: Date{Year: 2024, Month: time.March, Day: 5},
		Time: Time{Hour: 14, Minute: 30, Second: 15},
	}
	if got != want {
		t.Fatalf("ParseDateTime = %+v, want %+v", got, want)
	}
}

func TestZeroValues(t *testing.T) {
	t.Parallel()

	if !(Date{}).IsZero() || !(Time{}).IsZero() || !(DateTime{}).IsZero() {
		t.Fatal("zero values do not report IsZero")
	}
	if (Date{Year: 2024}).IsZero() {
		t.Fatal("non-zero Date reports IsZero")
	}
}
