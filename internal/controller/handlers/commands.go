package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/book"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/bookings"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/teams"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/wallet"
	"github.com/Freeeeeet/turf_bot/internal/controller/state"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart registers the user and shows the main menu
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	user, err := h.deps.UserService.RegisterUser(
		ctx,
		from.ID,
		from.Username,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Registration failed. Please try again later.")
		return
	}

	h.stateManager.ClearState(from.ID)

	if err := common.Render(ctx, b, update.Message.Chat.ID, 0,
		common.MainMenuText(user, h.deps.Settings.Venue.Name), common.MainMenuKeyboard()); err != nil {
		h.logger.Error("Failed to send main menu", zap.Error(err))
	}
}

// HandleHelp lists the commands
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText())
}

func helpText() string {
	var sb strings.Builder
	sb.WriteString("❓ <b>Commands</b>\n\n")
	for _, c := range commandList {
		sb.WriteString(fmt.Sprintf("/%s · %s\n", c.Command, c.Description))
	}
	sb.WriteString("\nTo book, open /book, pick a day and tap the free 🟢 hours. " +
		"You can mix hours from different days in one booking.")
	return sb.String()
}

func (h *Handlers) HandleVenue(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	if err := common.Render(ctx, b, update.Message.Chat.ID, 0,
		common.VenueText(h.deps.Settings), common.VenueKeyboard(h.deps.Settings)); err != nil {
		h.logger.Error("Failed to send venue info", zap.Error(err))
	}
}

// HandleBook opens a new slot picker
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.stateManager.SetState(user.TelegramID, state.StateNone)
	if err := book.Open(ctx, b, h.deps, update.Message.Chat.ID, user.TelegramID, 0); err != nil {
		h.failed(ctx, b, update.Message.Chat.ID, err, "open_picker")
	}
}

func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	if err := bookings.Show(ctx, b, h.deps, update.Message.Chat.ID, user, 0, model.FilterAll, 0); err != nil {
		h.failed(ctx, b, update.Message.Chat.ID, err, "list_bookings")
	}
}

func (h *Handlers) HandleWallet(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	if err := wallet.Show(ctx, b, h.deps, update.Message.Chat.ID, user, 0); err != nil {
		h.failed(ctx, b, update.Message.Chat.ID, err, "show_wallet")
	}
}

func (h *Handlers) HandleTopUp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireUser(ctx, b, update); !ok {
		return
	}
	if err := wallet.ShowTopUp(ctx, b, h.deps, update.Message.Chat.ID, 0); err != nil {
		h.failed(ctx, b, update.Message.Chat.ID, err, "show_topup")
	}
}

func (h *Handlers) HandleTeams(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	if err := teams.Show(ctx, b, h.deps, update.Message.Chat.ID, user, 0); err != nil {
		h.failed(ctx, b, update.Message.Chat.ID, err, "list_teams")
	}
}

// HandleCreateTeam starts the create team dialog
func (h *Handlers) HandleCreateTeam(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.stateManager.ClearState(user.TelegramID)
	h.stateManager.SetState(user.TelegramID, state.StateCreateTeamName)

	h.logger.Info("Starting team creation", zap.Int64("telegram_id", user.TelegramID))
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✏️ Send the name of your new team.\n\nSend /cancel to stop.")
}

// HandleJoinTeam accepts "/jointeam CODE" or asks for the code
func (h *Handlers) HandleJoinTeam(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.stateManager.ClearState(user.TelegramID)
	if code := commandArg(update.Message.Text); code != "" {
		h.joinTeam(ctx, b, update.Message.Chat.ID, user, code)
		return
	}

	h.stateManager.SetState(user.TelegramID, state.StateJoinTeamCode)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🔑 Send the join code you got from the team admin.\n\nSend /cancel to stop.")
}

// HandleProfile starts the profile dialog
func (h *Handlers) HandleProfile(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.stateManager.ClearState(user.TelegramID)
	h.stateManager.SetState(user.TelegramID, state.StateProfileDisplayName)

	h.sendMessage(ctx, b, update.Message.Chat.ID, profileText(user)+
		"\n\nStep 1 of 3: send your display name (one word, up to 32 characters)."+
		"\nSend /cancel to stop.")
}

func profileText(user *model.User) string {
	value := func(s string) string {
		if s == "" {
			return "not set"
		}
		return html.EscapeString(s)
	}
	return fmt.Sprintf("🙍 <b>Profile</b>\n\nName: %s\nEmail: %s\nPhone: %s",
		value(user.DisplayName), value(user.Email), value(user.Phone))
}

// HandleCancel drops the current dialog
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Nothing to cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Cancelled.\n\nSend /help to see what I can do.")
}

// HandleLogout clears the profile and every open dialog
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	if err := h.deps.UserService.Logout(ctx, user.ID); err != nil {
		h.failed(ctx, b, update.Message.Chat.ID, err, "logout")
		return
	}
	h.stateManager.ClearState(user.TelegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"👋 You are logged out. Your bookings and wallet are kept.\nSend /start to come back.")
}

// commandArg returns what follows the command, "/jointeam ab12" gives "ab12"
func commandArg(text string) string {
	_, arg, found := strings.Cut(strings.TrimSpace(text), " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(arg)
}
