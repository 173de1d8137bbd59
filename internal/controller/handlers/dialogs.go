package handlers

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/teams"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/wallet"
	"github.com/Freeeeeet/turf_bot/internal/controller/state"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/service"
	"github.com/Freeeeeet/turf_bot/internal/validation"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTextMessage routes plain text to the dialog step the user is in
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// commands have their own handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)
	if currentState == state.StateNone {
		h.logger.Debug("No active dialog, ignoring message", zap.Int64("telegram_id", telegramID))
		return
	}

	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		h.stateManager.ClearState(telegramID)
		return
	}

	h.logger.Debug("Dialog step",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	switch currentState {
	case state.StateProfileDisplayName:
		h.handleProfileNameStep(ctx, b, chatID, user, text)
	case state.StateProfileEmail:
		h.handleProfileEmailStep(ctx, b, chatID, user, text)
	case state.StateProfilePhone:
		h.handleProfilePhoneStep(ctx, b, chatID, user, text)
	case state.StateCreateTeamName:
		h.handleCreateTeamStep(ctx, b, chatID, user, text)
	case state.StateJoinTeamCode:
		h.joinTeam(ctx, b, chatID, user, text)
	case state.StateTopUpAmount:
		h.handleTopUpAmountStep(ctx, b, chatID, user, text)
	case state.StateTransferAmount:
		h.handleTransferAmountStep(ctx, b, chatID, user, text)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}

// ===== Profile =====

func (h *Handlers) handleProfileNameStep(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, text string) {
	name := text
	if strings.EqualFold(text, skipWord) && user.DisplayName != "" {
		name = user.DisplayName
	}
	if err := validation.DisplayName(name); err != nil {
		h.failed(ctx, b, chatID, err, "profile_name")
		return
	}

	h.stateManager.SetData(user.TelegramID, state.KeyProfileName, name)
	h.stateManager.SetState(user.TelegramID, state.StateProfileEmail)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Name: %s\n\nStep 2 of 3: send your email, or <i>%s</i> to leave it as is.",
		html.EscapeString(name), skipWord))
}

func (h *Handlers) handleProfileEmailStep(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, text string) {
	email := text
	if strings.EqualFold(text, skipWord) {
		email = user.Email
	}
	if err := validation.Email(email); err != nil {
		h.failed(ctx, b, chatID, err, "profile_email")
		return
	}

	h.stateManager.SetData(user.TelegramID, state.KeyProfileEmail, email)
	h.stateManager.SetState(user.TelegramID, state.StateProfilePhone)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"Step 3 of 3: send your phone in international format, e.g. +919876543210, or <i>%s</i> to leave it as is.", skipWord))
}

func (h *Handlers) handleProfilePhoneStep(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, text string) {
	phone := text
	if strings.EqualFold(text, skipWord) {
		phone = user.Phone
	}

	input := service.ProfileInput{
		DisplayName: stringData(h.stateManager, user.TelegramID, state.KeyProfileName),
		Email:       stringData(h.stateManager, user.TelegramID, state.KeyProfileEmail),
		Phone:       phone,
	}
	if err := h.deps.UserService.UpdateProfile(ctx, user.ID, input); err != nil {
		h.failed(ctx, b, chatID, err, "update_profile")
		if !isUserError(err) {
			h.stateManager.ClearState(user.TelegramID)
		}
		return
	}

	h.stateManager.ClearState(user.TelegramID)

	user.DisplayName, user.Email, user.Phone = input.DisplayName, input.Email, input.Phone
	h.sendMessage(ctx, b, chatID, "✅ Profile saved.\n\n"+profileText(user))
}

// ===== Teams =====

func (h *Handlers) handleCreateTeamStep(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, name string) {
	team, err := h.deps.TeamService.CreateTeam(ctx, user.ID, name)
	if err != nil {
		h.failed(ctx, b, chatID, err, "create_team")
		if !isUserError(err) {
			h.stateManager.ClearState(user.TelegramID)
		}
		return
	}

	h.stateManager.ClearState(user.TelegramID)
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("🎉 Team <b>%s</b> created. You are its admin.", html.EscapeString(team.Name)))
	if err := teams.ShowTeam(ctx, b, h.deps, chatID, user, team.ID, 0); err != nil {
		h.logger.Error("Failed to show new team", zap.Int64("team_id", team.ID), zap.Error(err))
	}
}

func (h *Handlers) joinTeam(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, code string) {
	team, err := h.deps.TeamService.JoinTeam(ctx, user.ID, code)
	if err != nil {
		h.failed(ctx, b, chatID, err, "join_team")
		if !isUserError(err) {
			h.stateManager.ClearState(user.TelegramID)
		}
		return
	}

	h.stateManager.ClearState(user.TelegramID)
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("🎉 You joined <b>%s</b>.", html.EscapeString(team.Name)))
	if err := teams.ShowTeam(ctx, b, h.deps, chatID, user, team.ID, 0); err != nil {
		h.logger.Error("Failed to show joined team", zap.Int64("team_id", team.ID), zap.Error(err))
	}
}

// ===== Wallet =====

func (h *Handlers) handleTopUpAmountStep(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, text string) {
	amount, err := service.ParseTopUpAmount(text)
	if err != nil {
		h.failed(ctx, b, chatID, err, "topup_amount")
		return
	}

	owner := model.PersonalWallet(user.ID)
	if teamID, ok := int64Data(h.stateManager, user.TelegramID, state.KeyTeamID); ok {
		owner = model.TeamWallet(teamID)
	}
	h.stateManager.ClearState(user.TelegramID)

	if err := wallet.StartCheckout(ctx, b, h.deps, chatID, user, owner, amount, 0); err != nil {
		h.failed(ctx, b, chatID, err, "topup_checkout")
	}
}

func (h *Handlers) handleTransferAmountStep(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, text string) {
	teamID, ok := int64Data(h.stateManager, user.TelegramID, state.KeyTeamID)
	if !ok {
		h.stateManager.ClearState(user.TelegramID)
		h.sendError(ctx, b, chatID, "⌛ This transfer has expired. Open /teams and try again.")
		return
	}

	amount, err := strconv.Atoi(strings.TrimPrefix(text, "₹"))
	if err != nil || amount <= 0 {
		h.failed(ctx, b, chatID, service.ErrInvalidAmount, "transfer_amount")
		return
	}

	if err := h.deps.WalletService.TransferToTeam(ctx, user.ID, teamID, amount); err != nil {
		h.failed(ctx, b, chatID, err, "transfer_to_team")
		if !isUserError(err) {
			h.stateManager.ClearState(user.TelegramID)
		}
		return
	}

	h.stateManager.ClearState(user.TelegramID)
	h.logger.Info("Transferred to team wallet",
		zap.Int64("user_id", user.ID),
		zap.Int64("team_id", teamID),
		zap.Int("amount", amount))

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ %s moved to the team wallet.", formatting.FormatPrice(amount)))
	if err := teams.ShowTeam(ctx, b, h.deps, chatID, user, teamID, 0); err != nil {
		h.logger.Error("Failed to show team", zap.Int64("team_id", teamID), zap.Error(err))
	}
}

// ===== State data =====

func stringData(sm *state.Manager, telegramID int64, key string) string {
	v, _ := sm.GetData(telegramID, key)
	s, _ := v.(string)
	return s
}

func int64Data(sm *state.Manager, telegramID int64, key string) (int64, bool) {
	v, ok := sm.GetData(telegramID, key)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
