package domain

// Scoring scale. Reports at or before the target earn MaxPoints; every
// started hour of delay costs one point down to MinPoints.
const (
	MaxPoints = 6
	MinPoints = -6
)

// Score converts a target and an actual bedtime (both HH:MM) into
// points. Both times are naive minutes-of-day: a report that crossed
// midnight (target 23:00, actual 00:30) compares as numerically earlier
// and scores as on-time. That wraparound blindness is deliberate and
// relied upon by callers; do not "fix" it here.
//
// Malformed input yields the neutral 0 rather than an error, because a
// scoring failure must never block storing the record. Callers log it.
func Score(target, actual string) int {
	tm, err := ParseClock(target)
	if err != nil {
		return 0
	}
	am, err := ParseClock(actual)
	if err != nil {
		return 0
	}
	if am <= tm {
		return MaxPoints
	}
	// Round the delay up: one minute late already counts as a full hour.
	delayHours := (am - tm + 59) / 60
	if p := MaxPoints - delayHours; p > MinPoints {
		return p
	}
	return MinPoints
}
