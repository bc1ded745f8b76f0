package domain

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:05", 9*60 + 5, true},
		{"23:59", 23*60 + 59, true},
		{"24:00", 0, false},
		{"9:05", 0, false},
		{"12:60", 0, false},
		{"12-30", 0, false},
		{"", 0, false},
		{" 12:30", 0, false},
	}
	for _, c := range cases {
		got, err := ParseClock(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("ParseClock(%q) = %d, %v; want %d", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Errorf("ParseClock(%q) succeeded, want error", c.in)
		}
	}
}

func TestFormatMinutesRoundTrip(t *testing.T) {
	for _, mins := range []int{0, 59, 60, 11*60 + 30, 23*60 + 59} {
		s := FormatMinutes(mins)
		got, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", s, err)
		}
		if got != mins {
			t.Fatalf("round trip %d -> %q -> %d", mins, s, got)
		}
	}
}

func TestValidateTZ(t *testing.T) {
	if tz, err := ValidateTZ("Europe/Moscow"); err != nil || tz != "Europe/Moscow" {
		t.Fatalf("ValidateTZ(Europe/Moscow) = %q, %v", tz, err)
	}
	if _, err := ValidateTZ("Mars/Olympus"); err == nil {
		t.Fatal("ValidateTZ(Mars/Olympus) succeeded, want error")
	}
}

func TestYesterdayRespectsZone(t *testing.T) {
	// 2025-06-10 01:30 UTC is still 2025-06-09 evening in New York.
	now := time.Date(2025, time.June, 10, 1, 30, 0, 0, time.UTC)

	if got := Yesterday(now, time.UTC); got != "2025-06-09" {
		t.Fatalf("UTC yesterday = %s", got)
	}

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	if got := Yesterday(now, ny); got != "2025-06-08" {
		t.Fatalf("New York yesterday = %s", got)
	}
}

func TestDaysAgo(t *testing.T) {
	now := time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)
	if got := DaysAgo(now, 30); got != "2025-03-01" {
		t.Fatalf("DaysAgo(30) = %s", got)
	}
}
