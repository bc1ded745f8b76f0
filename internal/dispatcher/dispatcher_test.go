package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/all-mute/tg-sleepwatch/internal/domain"
	"github.com/all-mute/tg-sleepwatch/internal/store"
)

// fakeRepo is an in-memory store.Repo good enough for dispatch decisions.
type fakeRepo struct {
	users   []domain.User
	records map[string]bool // "userID|date"
	listErr error
}

func recKey(userID int64, date string) string {
	return fmt.Sprintf("%d|%s", userID, date)
}

func (f *fakeRepo) ListActive(context.Context) ([]domain.User, error) {
	return f.users, f.listErr
}

func (f *fakeRepo) HasRecord(_ context.Context, userID int64, date string) (bool, error) {
	return f.records[recKey(userID, date)], nil
}

func (f *fakeRepo) UpsertUser(context.Context, *domain.User) error { return nil }
func (f *fakeRepo) Deactivate(context.Context, int64) (bool, error) {
	return false, nil
}
func (f *fakeRepo) GetUser(context.Context, int64) (*domain.User, error) {
	return nil, store.ErrNotFound
}
func (f *fakeRepo) LatestRecord(context.Context, int64) (*domain.SleepRecord, error) {
	return nil, store.ErrNotFound
}
func (f *fakeRepo) UpsertRecord(context.Context, int64, string, string, int) error {
	return nil
}
func (f *fakeRepo) PointsSince(context.Context, int64, string) ([]domain.PointsEntry, error) {
	return nil, nil
}
func (f *fakeRepo) Leaderboard(context.Context, string) ([]domain.LeaderboardRow, error) {
	return nil, nil
}
func (f *fakeRepo) Close() error { return nil }

// fakeSender records prompts and can fail for selected users.
type fakeSender struct {
	prompts map[int64]string // userID -> date
	failFor map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{prompts: make(map[int64]string), failFor: make(map[int64]bool)}
}

func (f *fakeSender) SendPrompt(chatID int64, date string) error {
	if f.failFor[chatID] {
		return errors.New("unreachable")
	}
	f.prompts[chatID] = date
	return nil
}

func activeUser(id int64, tz string) domain.User {
	return domain.User{ID: id, DisplayName: "u", Timezone: tz, TargetTime: "23:00", Active: true}
}

var testCfg = Config{Interval: time.Hour, FromHour: 11, ToHour: 13}

func TestTickPromptsInsideWindow(t *testing.T) {
	repo := &fakeRepo{
		users:   []domain.User{activeUser(1, "UTC")},
		records: map[string]bool{},
	}
	sender := newFakeSender()
	d := New(repo, zap.NewNop(), sender, testCfg)

	// 11:30 UTC is inside the 11:00-12:59 window.
	now := time.Date(2025, time.May, 10, 11, 30, 0, 0, time.UTC)
	d.Tick(context.Background(), now)

	if got := sender.prompts[1]; got != "2025-05-09" {
		t.Fatalf("prompt date = %q, want 2025-05-09", got)
	}
}

func TestTickSkipsOutsideWindow(t *testing.T) {
	repo := &fakeRepo{
		users: []domain.User{
			activeUser(1, "UTC"),           // 09:30 local, before window
			activeUser(2, "Asia/Tokyo"),    // UTC+9 -> 18:30 local
			activeUser(3, "Europe/Berlin"), // UTC+2 in May -> 11:30 local
		},
		records: map[string]bool{},
	}
	sender := newFakeSender()
	d := New(repo, zap.NewNop(), sender, testCfg)

	now := time.Date(2025, time.May, 10, 9, 30, 0, 0, time.UTC)
	d.Tick(context.Background(), now)

	if len(sender.prompts) != 1 {
		t.Fatalf("prompts = %v, want only user 3", sender.prompts)
	}
	if _, ok := sender.prompts[3]; !ok {
		t.Fatalf("user 3 (Berlin, 11:30 local) not prompted")
	}
}

func TestTickSkipsExistingRecord(t *testing.T) {
	repo := &fakeRepo{
		users:   []domain.User{activeUser(1, "UTC")},
		records: map[string]bool{recKey(1, "2025-05-09"): true},
	}
	sender := newFakeSender()
	d := New(repo, zap.NewNop(), sender, testCfg)

	now := time.Date(2025, time.May, 10, 11, 30, 0, 0, time.UTC)
	d.Tick(context.Background(), now)

	if len(sender.prompts) != 0 {
		t.Fatalf("prompted despite existing record: %v", sender.prompts)
	}
}

func TestTickIsolatesPerUserFailure(t *testing.T) {
	repo := &fakeRepo{
		users: []domain.User{
			activeUser(1, "UTC"),
			activeUser(2, "UTC"),
			activeUser(3, "Narnia/Lantern"), // unresolvable zone
		},
		records: map[string]bool{},
	}
	sender := newFakeSender()
	sender.failFor[1] = true
	d := New(repo, zap.NewNop(), sender, testCfg)

	now := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	d.Tick(context.Background(), now)

	if _, ok := sender.prompts[2]; !ok {
		t.Fatal("user 2 not prompted after user 1 failed")
	}
	if _, ok := sender.prompts[1]; ok {
		t.Fatal("failed send recorded as prompt")
	}
}

// End-to-end against the real SQLite store: prompt on the first eligible
// tick, record the report, no re-prompt on the second tick, leaderboard
// reflects the score.
func TestDispatchReportCycle(t *testing.T) {
	ctx := context.Background()
	repo, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "e2e.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer repo.Close()

	u := activeUser(7, "UTC")
	u.DisplayName = "alice"
	if err := repo.UpsertUser(ctx, &u); err != nil {
		t.Fatalf("upsert user: %v", err)
	}

	sender := newFakeSender()
	d := New(repo, zap.NewNop(), sender, testCfg)

	// Tick at 11:00 UTC: no record for yesterday, prompt goes out.
	tick1 := time.Date(2025, time.May, 10, 11, 0, 0, 0, time.UTC)
	d.Tick(ctx, tick1)
	date, ok := sender.prompts[7]
	if !ok {
		t.Fatal("no prompt on first tick")
	}
	if date != "2025-05-09" {
		t.Fatalf("prompt date = %s", date)
	}

	// User replies "23:30" against target "23:00": one started hour late.
	points := domain.Score(u.TargetTime, "23:30")
	if points != 5 {
		t.Fatalf("points = %d, want 5", points)
	}
	if err := repo.UpsertRecord(ctx, u.ID, date, "23:30", points); err != nil {
		t.Fatalf("upsert record: %v", err)
	}

	// Tick at 12:00: record exists, no second prompt.
	sender.prompts = map[int64]string{}
	tick2 := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	d.Tick(ctx, tick2)
	if len(sender.prompts) != 0 {
		t.Fatalf("re-prompted: %v", sender.prompts)
	}

	rows, err := repo.Leaderboard(ctx, "2025-05-01")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(rows) != 1 || rows[0].TotalPoints != 5 {
		t.Fatalf("leaderboard = %+v, want alice with 5", rows)
	}
}
