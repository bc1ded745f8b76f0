package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the canonical calendar-date format used in storage and
// user-facing messages.
const DateLayout = "2006-01-02"

var ErrBadClock = errors.New("invalid time, expected HH:MM")

var clockRE = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock parses a strict 24-hour HH:MM wall-clock value into minutes
// since midnight (0..1439).
func ParseClock(s string) (int, error) {
	if !clockRE.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + mm, nil
}

// IsClock reports whether s is a valid HH:MM wall-clock value.
func IsClock(s string) bool {
	return clockRE.MatchString(s)
}

// FormatMinutes returns HH:MM for minutes since midnight.
func FormatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// ValidateTZ checks that tz is a resolvable IANA location and returns
// its canonical name.
func ValidateTZ(tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return loc.String(), nil
}

// Yesterday returns the calendar date preceding now as observed in loc.
func Yesterday(now time.Time, loc *time.Location) string {
	return now.In(loc).AddDate(0, 0, -1).Format(DateLayout)
}

// DaysAgo returns the calendar date n days before now in UTC, used as
// the lower bound of trailing-window queries.
func DaysAgo(now time.Time, n int) string {
	return now.UTC().AddDate(0, 0, -n).Format(DateLayout)
}
