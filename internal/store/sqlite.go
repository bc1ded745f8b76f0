package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/all-mute/tg-sleepwatch/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertUser inserts or updates a participant's profile. On conflict the
// existing join_date is kept so re-enrollment does not reset history.
func (r *SQLiteRepo) UpsertUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("nil user")
	}

	joined := u.JoinedAt
	if joined.IsZero() {
		joined = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, display_name, timezone, target_time, join_date, active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			display_name = excluded.display_name,
			timezone     = excluded.timezone,
			target_time  = excluded.target_time,
			active       = excluded.active`,
		u.ID, u.DisplayName, u.Timezone, u.TargetTime,
		joined.Format(domain.DateLayout), boolToInt(u.Active),
	)
	return err
}

// Deactivate clears the active flag; false means nothing changed.
func (r *SQLiteRepo) Deactivate(ctx context.Context, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET active = 0
		WHERE user_id = ? AND active = 1`,
		userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetUser returns a participant by id or ErrNotFound.
func (r *SQLiteRepo) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, display_name, timezone, target_time, join_date, active
		FROM users
		WHERE user_id = ?`,
		userID,
	)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// ListActive returns all currently active participants.
func (r *SQLiteRepo) ListActive(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, display_name, timezone, target_time, join_date, active
		FROM users
		WHERE active = 1
		ORDER BY user_id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	return res, rows.Err()
}

// HasRecord reports whether a sleep record exists for (userID, date).
func (r *SQLiteRepo) HasRecord(ctx context.Context, userID int64, date string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sleep_records
		WHERE user_id = ? AND date = ?`,
		userID, date,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LatestRecord returns the newest record by date or ErrNotFound.
func (r *SQLiteRepo) LatestRecord(ctx context.Context, userID int64) (*domain.SleepRecord, error) {
	rec := &domain.SleepRecord{UserID: userID}
	err := r.db.QueryRowContext(ctx, `
		SELECT date, sleep_time, points
		FROM sleep_records
		WHERE user_id = ?
		ORDER BY date DESC
		LIMIT 1`,
		userID,
	).Scan(&rec.Date, &rec.SleepTime, &rec.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpsertRecord writes the single record for (userID, date). The UNIQUE
// constraint makes the overwrite atomic; concurrent reports for the
// same night cannot produce two rows.
func (r *SQLiteRepo) UpsertRecord(ctx context.Context, userID int64, date, sleepTime string, points int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sleep_records (user_id, date, sleep_time, points)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			sleep_time = excluded.sleep_time,
			points     = excluded.points`,
		userID, date, sleepTime, points,
	)
	return err
}

// PointsSince returns (date, points) pairs on or after since, ascending.
func (r *SQLiteRepo) PointsSince(ctx context.Context, userID int64, since string) ([]domain.PointsEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, points
		FROM sleep_records
		WHERE user_id = ? AND date >= ?
		ORDER BY date ASC`,
		userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.PointsEntry
	for rows.Next() {
		var e domain.PointsEntry
		if err := rows.Scan(&e.Date, &e.Points); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// Leaderboard aggregates points over active users. The LEFT JOIN keeps
// users without qualifying records in the result at zero.
func (r *SQLiteRepo) Leaderboard(ctx context.Context, since string) ([]domain.LeaderboardRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.user_id, u.display_name, COALESCE(SUM(s.points), 0) AS total
		FROM users u
		LEFT JOIN sleep_records s
		       ON s.user_id = u.user_id AND s.date >= ?
		WHERE u.active = 1
		GROUP BY u.user_id
		ORDER BY total DESC, u.user_id ASC`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.LeaderboardRow
	for rows.Next() {
		var lr domain.LeaderboardRow
		if err := rows.Scan(&lr.UserID, &lr.DisplayName, &lr.TotalPoints); err != nil {
			return nil, err
		}
		res = append(res, lr)
	}
	return res, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		joinDate  string
		activeInt int
	)
	if err := row.Scan(&u.ID, &u.DisplayName, &u.Timezone, &u.TargetTime, &joinDate, &activeInt); err != nil {
		return nil, err
	}
	u.Active = activeInt != 0
	t, err := time.Parse(domain.DateLayout, joinDate)
	if err != nil {
		// Rows are only ever written with DateLayout; a mismatch means
		// the database was edited by hand.
		return nil, fmt.Errorf("parse join_date %q: %w", joinDate, err)
	}
	u.JoinedAt = t
	return &u, nil
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
