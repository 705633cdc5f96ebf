package format_test

import (
	"testing"
	"time"

	"dropline/internal/format"
)

func TestCurrency(t *testing.T) {
	cases := map[float64]string{
		0:       "$0",
		89:      "$89",
		38500:   "$38,500",
		1234567: "$1,234,567",
		12.5:    "$13",
		-4200:   "-$4,200",
	}
	for in, want := range cases {
		if got := format.Currency(in); got != want {
			t.Errorf("Currency(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestCompact(t *testing.T) {
	cases := map[float64]string{
		999:     "999",
		1000:    "1.0K",
		125000:  "125.0K",
		2500000: "2.5M",
	}
	for in, want := range cases {
		if got := format.Compact(in); got != want {
			t.Errorf("Compact(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestDate(t *testing.T) {
	if got := format.Date("2024-01-15"); got != "Jan 15, 2024" {
		t.Fatalf("got %q", got)
	}
	if got := format.Date("2024-02-01T10:00:00.000Z"); got != "Feb 1, 2024" {
		t.Fatalf("got %q", got)
	}
	if got := format.Date("tbd"); got != "tbd" {
		t.Fatalf("got %q", got)
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		in, want string
	}{
		{"2024-06-30T08:00:00.000Z", "Today"},
		{"2024-06-29", "Yesterday"},
		{"2024-06-26", "4 days ago"},
		{"2024-06-10", "2 weeks ago"},
		{"2024-03-01", "4 months ago"},
		{"2021-06-01", "3 years ago"},
	}
	for _, tc := range cases {
		if got := format.Relative(tc.in, now); got != tc.want {
			t.Errorf("Relative(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
