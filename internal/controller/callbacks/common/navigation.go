package common

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Main menu entries
const (
	CallbackBook       = "venue:book"
	CallbackVenue      = "venue:info"
	CallbackMyBookings = "mb:list:all:0"
	CallbackWallet     = "wl:view"
	CallbackTeams      = "tm:list"
)

// MainMenuText greets the user by name
func MainMenuText(user *model.User, venueName string) string {
	name := "there"
	if user != nil {
		name = html.EscapeString(user.Name())
	}
	return fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"🏟 <b>%s</b>\n"+
			"Book hourly slots, split the cost with your team or throw a challenge.\n\n"+
			"What would you like to do?",
		name, html.EscapeString(venueName),
	)
}

func MainMenuKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.Button("⚽ Book a slot", CallbackBook)).
		Row(
			keyboard.Button("📅 My bookings", CallbackMyBookings),
			keyboard.Button("💰 Wallet", CallbackWallet),
		).
		Row(
			keyboard.Button("👥 Teams", CallbackTeams),
			keyboard.Button("📍 Venue", CallbackVenue),
		).
		Build()
}

// HandleBackToMain drops any dialog and shows the main menu in place
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithUser(ctx, b, callback, h, func(hc *HandlerContext) {
		hc.ClearState()

		if err := hc.EditMessage(MainMenuText(hc.User, h.Settings.Venue.Name), MainMenuKeyboard()); err != nil {
			h.Logger.Error("Failed to show main menu",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.Error(err))
		}
		hc.Answer("")
	})
}

// VenueText describes the turf
func VenueText(v callbacktypes.Settings) string {
	text := fmt.Sprintf("🏟 <b>%s</b>\n", html.EscapeString(v.Venue.Name))
	if v.Venue.Address != "" {
		text += "📍 " + html.EscapeString(v.Venue.Address) + "\n"
	}
	text += fmt.Sprintf("\n🕒 Open 24 hours, booked by the hour\n💰 %s per hour\n📆 Book up to %d days ahead\n",
		formatting.FormatPrice(v.SlotPrice), v.BookingWindowDays)
	if len(v.Venue.Amenities) > 0 {
		text += "\n<b>Amenities</b>\n"
		for _, a := range v.Venue.Amenities {
			text += "• " + html.EscapeString(a) + "\n"
		}
	}
	return text
}

func VenueKeyboard(v callbacktypes.Settings) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder().Row(keyboard.Button("⚽ Book a slot", CallbackBook))
	if v.Venue.MapURL != "" {
		kb.Row(keyboard.URLButton("🗺 Open in Maps", v.Venue.MapURL))
	}
	return kb.AddBackToMainButton().Build()
}

func HandleVenue(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := NewHandlerContext(ctx, b, callback, h)
	if err := hc.EditMessage(VenueText(h.Settings), VenueKeyboard(h.Settings)); err != nil {
		HandleError(hc, err, "show_venue")
		return
	}
	hc.Answer("")
}
