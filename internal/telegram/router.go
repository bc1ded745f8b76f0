package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/all-mute/tg-sleepwatch/internal/store"
)

// flowState tags where a chat currently is in a conversational flow.
// Every flow is a short linear machine; stateIdle means no flow.
type flowState int

const (
	stateIdle flowState = iota
	stateAwaitTimezone       // /join: waiting for a timezone selection
	stateAwaitTarget         // /join: waiting for the target bedtime
	stateAwaitTimezoneChange // /change_timezone: waiting for a selection
	stateAwaitCorrection     // /change_last_answer: waiting for the new time
)

// session is the in-memory conversation state for one chat.
type session struct {
	state    flowState
	timezone string // chosen during enrollment, pending the target time
}

// Router wires Telegram updates to handlers and holds per-chat
// conversation state.
type Router struct {
	bot        *tgbotapi.BotAPI
	log        *zap.Logger
	repo       store.Repo
	windowDays int
	sessions   map[int64]session
	mu         sync.RWMutex
}

// NewRouter creates a new Telegram router. windowDays bounds the
// trailing window used by the leaderboard and plots.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, windowDays int) *Router {
	return &Router{
		bot:        bot,
		log:        log,
		repo:       repo,
		windowDays: windowDays,
		sessions:   make(map[int64]session),
	}
}

func (r *Router) setSession(chatID int64, s session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[chatID] = s
}

func (r *Router) getSession(chatID int64) session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[chatID]
}

func (r *Router) clearSession(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(ctx, chatID, msg.From)
		case strings.HasPrefix(text, "/help"):
			r.handleHelp(ctx, chatID)
		case strings.HasPrefix(text, "/join"):
			r.handleJoin(ctx, chatID)
		case strings.HasPrefix(text, "/unjoin"):
			r.handleUnjoin(ctx, chatID)
		case strings.HasPrefix(text, "/leaderboard"):
			r.handleLeaderboard(ctx, chatID)
		// plot_png before plot: both share the /plot prefix.
		case strings.HasPrefix(text, "/plot_png"):
			r.handlePlotPNG(ctx, chatID, msg.From)
		case strings.HasPrefix(text, "/plot"):
			r.handlePlotText(ctx, chatID, msg.From)
		case strings.HasPrefix(text, "/change_timezone"):
			r.handleChangeTimezone(ctx, chatID)
		case strings.HasPrefix(text, "/change_last_answer"):
			r.handleChangeLastAnswer(ctx, chatID)
		case strings.HasPrefix(text, "/cancel"):
			r.handleCancel(ctx, chatID)
		default:
			r.handleFreeForm(ctx, chatID, msg.From, text)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil {
			return
		}
		chatID := cb.Message.Chat.ID

		if tz, ok := strings.CutPrefix(cb.Data, "tz:"); ok {
			r.handleTimezoneCallback(ctx, chatID, tz, cb.ID)
			return
		}
		// Unknown callback data: just dismiss the spinner.
		_ = r.answerCallback(cb.ID, "")
	}
}

// SendPrompt asks a user for the bedtime of the given date. This makes
// Router satisfy dispatcher.Sender.
func (r *Router) SendPrompt(chatID int64, date string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, promptText(date)))
	return err
}
