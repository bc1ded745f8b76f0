package dispatcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/all-mute/tg-sleepwatch/internal/domain"
	"github.com/all-mute/tg-sleepwatch/internal/store"
)

// Sender is the minimal interface the dispatcher needs to ask a user for
// yesterday's bedtime. telegram.Router implements it.
type Sender interface {
	SendPrompt(chatID int64, date string) error
}

// Config bounds the local-hour eligibility window and the tick cadence.
// The window is half-open: [FromHour, ToHour).
type Config struct {
	Interval time.Duration
	FromHour int
	ToHour   int
}

// Dispatcher periodically scans active users and prompts those whose
// local clock is inside the window and who have not reported yet.
//
// Eligibility is re-derived from scratch every tick, so ticks may be
// coarse, skipped, or overlapping without harm: a user already prompted
// who then reports gains a record and drops out of the next scan, and a
// failed prompt is retried on the next eligible tick because the record
// is still missing.
type Dispatcher struct {
	repo   store.Repo
	log    *zap.Logger
	sender Sender
	cfg    Config
}

func New(repo store.Repo, log *zap.Logger, sender Sender, cfg Config) *Dispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	return &Dispatcher{repo: repo, log: log, sender: sender, cfg: cfg}
}

// Run ticks until ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Info("dispatcher stopping")
			return
		case <-ticker.C:
			d.Tick(ctx, time.Now().UTC())
		}
	}
}

// Tick performs one dispatch cycle at the given instant. Per-user
// failures are logged and never abort the batch.
func (d *Dispatcher) Tick(ctx context.Context, now time.Time) {
	users, err := d.repo.ListActive(ctx)
	if err != nil {
		d.log.Error("list active users failed", zap.Error(err))
		return
	}

	var prompted, failed int
	for _, u := range users {
		sent, err := d.dispatchOne(ctx, now, u)
		if err != nil {
			failed++
			d.log.Error("dispatch failed",
				zap.Error(err), zap.Int64("userID", u.ID))
			continue
		}
		if sent {
			prompted++
		}
	}

	if prompted > 0 || failed > 0 {
		d.log.Info("dispatch tick done",
			zap.Int("active", len(users)),
			zap.Int("prompted", prompted),
			zap.Int("failed", failed),
		)
	}
}

// dispatchOne prompts a single user if eligible. It reports whether a
// prompt went out.
func (d *Dispatcher) dispatchOne(ctx context.Context, now time.Time, u domain.User) (bool, error) {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return false, err
	}

	hour := now.In(loc).Hour()
	if hour < d.cfg.FromHour || hour >= d.cfg.ToHour {
		return false, nil
	}

	yesterday := domain.Yesterday(now, loc)
	has, err := d.repo.HasRecord(ctx, u.ID, yesterday)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}

	if err := d.sender.SendPrompt(u.ID, yesterday); err != nil {
		return false, err
	}
	return true, nil
}
