package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/all-mute/tg-sleepwatch/internal/domain"
	"github.com/all-mute/tg-sleepwatch/internal/report"
	"github.com/all-mute/tg-sleepwatch/internal/store"
)

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	_, _ = r.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}

// activeUser loads the chat's user and checks participation. A false
// return means the caller should stop; the user was already told.
func (r *Router) activeUser(ctx context.Context, chatID int64) (*domain.User, bool) {
	u, err := r.repo.GetUser(ctx, chatID)
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(chatID, notJoinedText)
		return nil, false
	}
	if err != nil {
		r.log.Error("get user failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return nil, false
	}
	if !u.Active {
		r.sendText(chatID, notJoinedText)
		return nil, false
	}
	return u, true
}

func (r *Router) sinceDate() string {
	return domain.DaysAgo(time.Now(), r.windowDays)
}

// --- Core commands ---

func (r *Router) handleStart(ctx context.Context, chatID int64, from *tgbotapi.User) {
	name := ""
	if from != nil {
		name = from.FirstName
	}
	r.sendText(chatID, startText(name))
}

func (r *Router) handleHelp(ctx context.Context, chatID int64) {
	r.sendText(chatID, helpText)
}

// --- Enrollment flow: /join -> timezone -> target bedtime ---

func (r *Router) handleJoin(ctx context.Context, chatID int64) {
	u, err := r.repo.GetUser(ctx, chatID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		r.log.Error("get user failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return
	}
	if err == nil && u.Active {
		r.sendText(chatID, alreadyJoinedText)
		return
	}

	r.setSession(chatID, session{state: stateAwaitTimezone})
	msg := tgbotapi.NewMessage(chatID, chooseTimezoneText)
	msg.ReplyMarkup = timezoneKeyboard()
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleTimezoneCallback(ctx context.Context, chatID int64, tz, cbID string) {
	_ = r.answerCallback(cbID, "")

	switch r.getSession(chatID).state {
	case stateAwaitTimezone:
		zone, err := domain.ValidateTZ(tz)
		if err != nil {
			// An unknown zone ends the flow; the presets should never
			// produce one, so this is a stale or forged callback.
			r.clearSession(chatID)
			r.sendText(chatID, badTimezoneText)
			return
		}
		r.setSession(chatID, session{state: stateAwaitTarget, timezone: zone})
		r.sendText(chatID, fmt.Sprintf(askTargetFmt, zone))

	case stateAwaitTimezoneChange:
		zone, err := domain.ValidateTZ(tz)
		if err != nil {
			r.clearSession(chatID)
			r.sendText(chatID, badTimezoneText)
			return
		}
		u, ok := r.activeUser(ctx, chatID)
		if !ok {
			r.clearSession(chatID)
			return
		}
		u.Timezone = zone
		if err := r.repo.UpsertUser(ctx, u); err != nil {
			r.log.Error("update timezone failed", zap.Error(err), zap.Int64("chatID", chatID))
			r.sendText(chatID, tryLaterText)
			return
		}
		r.clearSession(chatID)
		r.sendText(chatID, fmt.Sprintf(timezoneChangedFmt, zone))

	default:
		// Stale keyboard press outside any flow.
	}
}

func (r *Router) handleUnjoin(ctx context.Context, chatID int64) {
	r.clearSession(chatID)
	changed, err := r.repo.Deactivate(ctx, chatID)
	if err != nil {
		r.log.Error("deactivate failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return
	}
	if changed {
		r.sendText(chatID, unjoinedText)
	} else {
		r.sendText(chatID, notJoinedText)
	}
}

// --- Reporting commands ---

func (r *Router) handleLeaderboard(ctx context.Context, chatID int64) {
	rows, err := r.repo.Leaderboard(ctx, r.sinceDate())
	if err != nil {
		r.log.Error("leaderboard failed", zap.Error(err))
		r.sendText(chatID, tryLaterText)
		return
	}
	r.sendText(chatID, report.FormatLeaderboard(rows))
}

func (r *Router) handlePlotText(ctx context.Context, chatID int64, from *tgbotapi.User) {
	u, ok := r.activeUser(ctx, chatID)
	if !ok {
		return
	}
	entries, err := r.repo.PointsSince(ctx, u.ID, r.sinceDate())
	if err != nil {
		r.log.Error("points query failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return
	}
	header := fmt.Sprintf("📊 Sleep Points for %s\n\n", displayName(from))
	r.sendText(chatID, header+report.FormatPoints(entries, r.windowDays))
}

func (r *Router) handlePlotPNG(ctx context.Context, chatID int64, from *tgbotapi.User) {
	u, ok := r.activeUser(ctx, chatID)
	if !ok {
		return
	}
	entries, err := r.repo.PointsSince(ctx, u.ID, r.sinceDate())
	if err != nil {
		r.log.Error("points query failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return
	}

	name := displayName(from)
	png, err := report.RenderChart(entries, name, r.windowDays)
	if errors.Is(err, report.ErrNoData) {
		r.sendText(chatID, report.FormatPoints(nil, r.windowDays))
		return
	}
	if err != nil {
		r.log.Error("render chart failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "points.png", Bytes: png})
	photo.Caption = fmt.Sprintf("📊 Sleep Points for %s - Last %d days", name, r.windowDays)
	if _, err := r.bot.Send(photo); err != nil {
		r.log.Error("send photo failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

// --- Settings and correction flows ---

func (r *Router) handleChangeTimezone(ctx context.Context, chatID int64) {
	if _, ok := r.activeUser(ctx, chatID); !ok {
		return
	}
	r.setSession(chatID, session{state: stateAwaitTimezoneChange})
	msg := tgbotapi.NewMessage(chatID, pickTimezoneText)
	msg.ReplyMarkup = timezoneKeyboard()
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleChangeLastAnswer(ctx context.Context, chatID int64) {
	u, ok := r.activeUser(ctx, chatID)
	if !ok {
		return
	}
	rec, err := r.repo.LatestRecord(ctx, u.ID)
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(chatID, nothingToCorrectTxt)
		return
	}
	if err != nil {
		r.log.Error("latest record failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return
	}
	r.setSession(chatID, session{state: stateAwaitCorrection})
	r.sendText(chatID, fmt.Sprintf(askCorrectionFmt, rec.SleepTime, rec.Date))
}

func (r *Router) handleCancel(ctx context.Context, chatID int64) {
	r.clearSession(chatID)
	r.sendText(chatID, cancelText)
}

// --- Free-form text: flow continuations and bare sleep reports ---

func (r *Router) handleFreeForm(ctx context.Context, chatID int64, from *tgbotapi.User, text string) {
	switch r.getSession(chatID).state {
	case stateAwaitTarget:
		r.finishEnrollment(ctx, chatID, from, text)
	case stateAwaitCorrection:
		r.applyCorrection(ctx, chatID, text)
	case stateAwaitTimezone, stateAwaitTimezoneChange:
		// Timezone selection happens via the keyboard; typed text here
		// is most likely a mistake. Stay in the flow.
	default:
		if domain.IsClock(text) {
			r.recordReport(ctx, chatID, text)
		}
		// Anything else outside a flow is ignored.
	}
}

func (r *Router) finishEnrollment(ctx context.Context, chatID int64, from *tgbotapi.User, text string) {
	if !domain.IsClock(text) {
		// Re-prompt; the session stays in stateAwaitTarget.
		r.sendText(chatID, badTimeText)
		return
	}
	sess := r.getSession(chatID)
	u := &domain.User{
		ID:          chatID,
		DisplayName: displayName(from),
		Timezone:    sess.timezone,
		TargetTime:  text,
		Active:      true,
		JoinedAt:    time.Now().UTC(),
	}
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		r.log.Error("enroll failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return
	}
	r.clearSession(chatID)
	r.log.Info("user joined",
		zap.Int64("chatID", chatID),
		zap.String("tz", u.Timezone),
		zap.String("target", u.TargetTime),
	)
	r.sendText(chatID, fmt.Sprintf(joinedFmt, u.Timezone, u.TargetTime))
}

func (r *Router) applyCorrection(ctx context.Context, chatID int64, text string) {
	if !domain.IsClock(text) {
		r.sendText(chatID, badTimeText)
		return
	}
	u, ok := r.activeUser(ctx, chatID)
	if !ok {
		r.clearSession(chatID)
		return
	}
	rec, err := r.repo.LatestRecord(ctx, u.ID)
	if err != nil {
		r.log.Error("latest record failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return
	}

	points := domain.Score(u.TargetTime, text)
	if err := r.repo.UpsertRecord(ctx, u.ID, rec.Date, text, points); err != nil {
		r.log.Error("correction failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return
	}
	r.clearSession(chatID)
	r.sendText(chatID, fmt.Sprintf(correctedFmt, text, rec.Date, points))
}

// recordReport stores a bare HH:MM message as the bedtime for the
// sender's local yesterday.
func (r *Router) recordReport(ctx context.Context, chatID int64, text string) {
	u, err := r.repo.GetUser(ctx, chatID)
	if errors.Is(err, store.ErrNotFound) {
		// Not participating: a lone HH:MM from a stranger is noise.
		return
	}
	if err != nil {
		r.log.Error("get user failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return
	}
	if !u.Active {
		return
	}

	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		r.log.Error("stored timezone unresolvable",
			zap.Error(err), zap.Int64("chatID", chatID), zap.String("tz", u.Timezone))
		r.sendText(chatID, tryLaterText)
		return
	}
	date := domain.Yesterday(time.Now(), loc)
	points := domain.Score(u.TargetTime, text)

	if err := r.repo.UpsertRecord(ctx, u.ID, date, text, points); err != nil {
		r.log.Error("record report failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, tryLaterText)
		return
	}
	r.log.Info("sleep report recorded",
		zap.Int64("chatID", chatID),
		zap.String("date", date),
		zap.Int("points", points),
	)
	r.sendText(chatID, fmt.Sprintf(reportSummaryFmt,
		reactionText(points), u.TargetTime, text, points))
}
