package domain

// SleepRecord is one scored bedtime report. There is exactly one logical
// record per (UserID, Date); a repeated report for the same date
// overwrites the earlier one.
type SleepRecord struct {
	UserID    int64
	Date      string // YYYY-MM-DD, the night being reported
	SleepTime string // reported bedtime, HH:MM
	Points    int
}

// PointsEntry is one (date, points) sample for the progress plots.
type PointsEntry struct {
	Date   string
	Points int
}

// LeaderboardRow is one ranked line of the leaderboard aggregation.
type LeaderboardRow struct {
	UserID      int64
	DisplayName string
	TotalPoints int
}
