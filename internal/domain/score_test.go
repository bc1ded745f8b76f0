package domain

import "testing"

func TestScoreOnTimeOrEarlier(t *testing.T) {
	if got := Score("23:00", "23:00"); got != 6 {
		t.Fatalf("equal times: want 6, got %d", got)
	}
	if got := Score("23:00", "21:30"); got != 6 {
		t.Fatalf("earlier: want 6, got %d", got)
	}
	if got := Score("00:00", "00:00"); got != 6 {
		t.Fatalf("midnight: want 6, got %d", got)
	}
}

func TestScoreDelayBuckets(t *testing.T) {
	cases := []struct {
		target, actual string
		want           int
	}{
		{"23:00", "23:01", 5}, // 1 minute late rounds up to a full hour
		{"23:00", "23:59", 5},
		{"23:00", "23:60", 0}, // malformed minute
		{"22:00", "23:00", 5},
		{"22:00", "23:01", 4},
		{"20:00", "23:00", 3},
		{"12:00", "18:00", 0},
		{"12:00", "18:01", -1},
		{"10:00", "22:00", -6},
		{"00:00", "23:59", -6}, // clamped at the floor
	}
	for _, c := range cases {
		if got := Score(c.target, c.actual); got != c.want {
			t.Errorf("Score(%s, %s) = %d, want %d", c.target, c.actual, got, c.want)
		}
	}
}

// A bedtime reported after midnight compares as numerically earlier than
// a late-evening target and therefore scores as on-time. Documented
// simplification, pinned here so nobody fixes it by accident.
func TestScoreNaiveMidnightWraparound(t *testing.T) {
	if got := Score("23:00", "00:00"); got != 6 {
		t.Fatalf("want 6, got %d", got)
	}
	if got := Score("23:00", "00:01"); got != 6 {
		t.Fatalf("want 6, got %d", got)
	}
	// 05:00 is five hours past a 23:00 target in wall-clock terms but
	// numerically earlier, so it also lands on the on-time branch.
	if got := Score("23:00", "05:00"); got != 6 {
		t.Fatalf("want 6, got %d", got)
	}
}

func TestScoreMalformedInputIsNeutral(t *testing.T) {
	cases := [][2]string{
		{"", "23:00"},
		{"23:00", ""},
		{"9:30", "23:00"},  // missing leading zero
		{"24:00", "23:00"}, // hour out of range
		{"23:00", "23:0"},
		{"midnight", "23:00"},
	}
	for _, c := range cases {
		if got := Score(c[0], c[1]); got != 0 {
			t.Errorf("Score(%q, %q) = %d, want 0", c[0], c[1], got)
		}
	}
}

func TestScoreRange(t *testing.T) {
	for th := 0; th < 24; th += 3 {
		for ah := 0; ah < 24; ah += 3 {
			target := FormatMinutes(th * 60)
			actual := FormatMinutes(ah*60 + 17)
			got := Score(target, actual)
			if got < MinPoints || got > MaxPoints {
				t.Fatalf("Score(%s, %s) = %d out of [%d, %d]",
					target, actual, got, MinPoints, MaxPoints)
			}
		}
	}
}
