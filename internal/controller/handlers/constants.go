package handlers

import "github.com/go-telegram/bot/models"

// Typed in a profile dialog step to keep the current value
const skipWord = "skip"

// Commands shown in the Telegram menu and /help
var commandList = []struct {
	Command     string
	Description string
}{
	{"start", "🚀 Main menu"},
	{"book", "⚽ Book a slot"},
	{"mybookings", "📅 My bookings"},
	{"wallet", "💰 Wallet and history"},
	{"topup", "➕ Top up wallet"},
	{"teams", "👥 My teams"},
	{"createteam", "🆕 Create a team"},
	{"jointeam", "🔑 Join a team by code"},
	{"venue", "📍 Venue info"},
	{"profile", "🙍 Edit profile"},
	{"cancel", "✖️ Cancel current action"},
	{"logout", "🚪 Log out"},
	{"help", "❓ Help"},
}

// BotCommands is the menu registered with Telegram
func BotCommands() []models.BotCommand {
	out := make([]models.BotCommand, 0, len(commandList))
	for _, c := range commandList {
		out = append(out, models.BotCommand{Command: c.Command, Description: c.Description})
	}
	return out
}
