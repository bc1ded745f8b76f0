package store

import (
	"context"
	"errors"

	"github.com/all-mute/tg-sleepwatch/internal/domain"
)

// ErrNotFound is returned by point lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Repo defines storage operations for participants and sleep records.
type Repo interface {
	// UpsertUser creates or fully replaces a user's profile. The join
	// date of an existing row is preserved across re-enrollment.
	UpsertUser(ctx context.Context, u *domain.User) error
	// Deactivate clears the active flag. It reports false when the user
	// does not exist or was already inactive.
	Deactivate(ctx context.Context, userID int64) (bool, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	ListActive(ctx context.Context) ([]domain.User, error)

	HasRecord(ctx context.Context, userID int64, date string) (bool, error)
	LatestRecord(ctx context.Context, userID int64) (*domain.SleepRecord, error)
	// UpsertRecord writes the single logical record for (userID, date),
	// atomically replacing time and points if one already exists.
	UpsertRecord(ctx context.Context, userID int64, date, sleepTime string, points int) error
	// PointsSince returns (date, points) pairs on or after since,
	// ascending by date.
	PointsSince(ctx context.Context, userID int64, since string) ([]domain.PointsEntry, error)
	// Leaderboard sums points on or after since over active users only.
	// Users without qualifying records appear with a total of zero.
	// Ordered by total descending, ties by user id ascending.
	Leaderboard(ctx context.Context, since string) ([]domain.LeaderboardRow, error)

	Close() error
}
