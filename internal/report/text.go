package report

import (
	"fmt"
	"strings"

	"github.com/all-mute/tg-sleepwatch/internal/domain"
)

// barMax caps the proportional bar so one great week doesn't wrap lines
// on narrow phone screens.
const barMax = 20

// FormatPoints renders (date, points) pairs as a monospace table with a
// proportional bar per row. windowDays is the trailing window the
// entries were queried over.
func FormatPoints(entries []domain.PointsEntry, windowDays int) string {
	if len(entries) == 0 {
		return "No data available for plotting."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Points for the last %d days:\n\n", windowDays)
	b.WriteString("Date       | Points | Graph\n")
	b.WriteString("-----------+--------+-------------------\n")

	for _, e := range entries {
		n := e.Points
		if n < 0 {
			n = 0
		}
		if n > barMax {
			n = barMax
		}
		bar := strings.Repeat("█", n)
		fmt.Fprintf(&b, "%s | %6d | %s\n", e.Date, e.Points, bar)
	}
	return b.String()
}

// FormatLeaderboard renders ranked totals, medals for the top three.
func FormatLeaderboard(rows []domain.LeaderboardRow) string {
	if len(rows) == 0 {
		return "No participants in the challenge yet."
	}

	var b strings.Builder
	b.WriteString("🏆 SLEEP CHALLENGE LEADERBOARD 🏆\n\n")
	b.WriteString("Rank | Username      | Total Points\n")
	b.WriteString("-----+---------------+-------------\n")

	for i, row := range rows {
		var prefix string
		switch i {
		case 0:
			prefix = "🥇 "
		case 1:
			prefix = "🥈 "
		case 2:
			prefix = "🥉 "
		default:
			prefix = fmt.Sprintf("%d. ", i+1)
		}
		name := row.DisplayName
		if name == "" {
			name = fmt.Sprintf("User %d", row.UserID)
		}
		fmt.Fprintf(&b, "%-4s| %-14s| %d\n", prefix, name, row.TotalPoints)
	}
	return b.String()
}
