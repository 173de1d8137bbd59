package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/service"
	"github.com/Freeeeeet/turf_bot/internal/validation"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireUser loads the sender. It returns false after telling the user what went wrong.
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	user, err := h.deps.UserService.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return nil, false
	}

	if user == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(service.ErrUserNotFound))
		return nil, false
	}

	return user, true
}

// sendError sends plain text and logs if that fails
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage sends HTML text and logs if that fails
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// failed logs err and sends its user-facing text
func (h *Handlers) failed(ctx context.Context, b *bot.Bot, chatID int64, err error, operation string) {
	var level = h.logger.Error
	if isUserError(err) {
		level = h.logger.Info
	}
	level("Command failed",
		zap.String("operation", operation),
		zap.Int64("chat_id", chatID),
		zap.Error(err))
	h.sendError(ctx, b, chatID, common.ErrorMessage(err))
}

// isUserError reports errors caused by what the user typed; the dialog stays open for another try
func isUserError(err error) bool {
	var fieldErr *validation.FieldError
	if errors.As(err, &fieldErr) {
		return true
	}
	for _, target := range []error{
		service.ErrInvalidAmount,
		service.ErrInsufficientFunds,
		service.ErrTeamNotFound,
		service.ErrAlreadyMember,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
