package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	helpText = "🌙 Sleep Challenge Bot Commands 🌙\n\n" +
		"/start - Start the bot\n" +
		"/join - Join the sleep challenge\n" +
		"/unjoin - Leave the sleep challenge\n" +
		"/leaderboard - View the current rankings\n" +
		"/plot - Show your sleep points as text graph\n" +
		"/plot_png - Show your sleep points as image\n" +
		"/change_timezone - Change your timezone\n" +
		"/change_last_answer - Correct your last reported time\n" +
		"/cancel - Cancel the current operation\n" +
		"/help - Show this help message\n\n" +
		"Every day around noon I'll ask you what time you went to sleep yesterday. " +
		"Based on that, you'll get points for sleeping on time!"

	alreadyJoinedText = "You are already participating in the sleep challenge! " +
		"If you want to update your settings, first use /unjoin and then /join again."
	chooseTimezoneText = "Let's get started! First, please select your timezone:"
	askTargetFmt       = "Great! Your timezone is set to %s.\n\n" +
		"Now, please tell me what time you aim to go to sleep each night.\n" +
		"Send me the time in 24-hour format (HH:MM), e.g., 23:00 for 11 PM."
	joinedFmt = "✅ Perfect! You're now part of the sleep challenge.\n\n" +
		"Your settings:\n" +
		"• Timezone: %s\n" +
		"• Target sleep time: %s\n\n" +
		"I'll ask you about your sleep time around noon each day. " +
		"Good luck with your sleep goals! 😴"

	unjoinedText = "You have successfully left the sleep challenge. " +
		"Your data will be kept, so if you join again, your history will still be there. " +
		"Use /join if you want to rejoin anytime!"
	notJoinedText = "You are not currently participating in the sleep challenge. " +
		"Use /join to join first!"

	badTimeText = "❌ Invalid time format. Please use the 24-hour format (HH:MM), " +
		"e.g., 23:00 for 11 PM."
	badTimezoneText = "❌ That timezone could not be recognized. " +
		"Use /join to start over."
	tryLaterText = "Something went wrong, please try again later."

	cancelText = "Operation cancelled. Use /join to join the challenge " +
		"or /help to see all commands."

	pickTimezoneText    = "Please select your new timezone:"
	timezoneChangedFmt  = "Your timezone is now %s."
	askCorrectionFmt    = "Your last report is %s for %s.\nSend the corrected time in HH:MM format."
	nothingToCorrectTxt = "You have no sleep reports to correct yet."
	correctedFmt        = "Updated: %s on %s, %d points."

	reportSummaryFmt = "%s\n\n" +
		"Your target sleep time: %s\n" +
		"Your actual sleep time: %s\n" +
		"Points earned: %d\n\n" +
		"Use /leaderboard to see the rankings or /plot to see your progress."
)

func startText(firstName string) string {
	return fmt.Sprintf("👋 Hello %s! Welcome to the Sleep Challenge Bot.\n\n"+
		"This bot will help you track your sleep schedule and compete with friends.\n\n"+
		"Use /join to join the challenge or /help to see all commands.", firstName)
}

func promptText(date string) string {
	return fmt.Sprintf("Hello! What time did you go to sleep yesterday (%s)?\n\n"+
		"Please reply with the time in 24-hour format (HH:MM), e.g., 23:30 for 11:30 PM.", date)
}

// reactionText maps earned points to the reply tone. Buckets follow the
// six-point scale.
func reactionText(points int) string {
	switch {
	case points >= 6:
		return "🌟 Excellent! You went to sleep on time or earlier!"
	case points >= 4:
		return "👍 Good job! You were only a little bit late."
	case points >= 1:
		return "😕 You were quite late, but still got some points."
	case points >= 0:
		return "😴 You were very late last night."
	default:
		return "😱 Oh no! You were extremely late and got negative points."
	}
}

// timezoneChoices are the enrollment presets, three per keyboard row.
var timezoneChoices = [][]string{
	{"UTC", "Europe/Moscow", "Europe/London"},
	{"US/Eastern", "US/Central", "US/Pacific"},
	{"Asia/Tokyo", "Asia/Singapore", "Australia/Sydney"},
}

func timezoneKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range timezoneChoices {
		var btns []tgbotapi.InlineKeyboardButton
		for _, tz := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(tz, "tz:"+tz))
		}
		rows = append(rows, btns)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Commands is the command list registered with Telegram at startup.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "help", Description: "Show available commands"},
		{Command: "join", Description: "Join the sleep challenge"},
		{Command: "unjoin", Description: "Leave the sleep challenge"},
		{Command: "leaderboard", Description: "View current rankings"},
		{Command: "plot", Description: "Show your sleep points as text graph"},
		{Command: "plot_png", Description: "Show your sleep points as image"},
		{Command: "change_timezone", Description: "Change your timezone"},
		{Command: "change_last_answer", Description: "Correct your last reported time"},
		{Command: "cancel", Description: "Cancel the current operation"},
	}
}
