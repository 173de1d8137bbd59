package common

import (
	"bytes"
	"context"

	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/state"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandlerContext carries what every callback handler needs: the user, the message, the chat
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	User       *model.User
	TelegramID int64
	ChatID     int64
}

func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

func (hc *HandlerContext) LoadUser() error {
	user, err := hc.Handler.UserService.GetByTelegramID(hc.Ctx, hc.TelegramID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	hc.User = user
	return nil
}

func (hc *HandlerContext) RequireUser() error {
	if hc.User == nil {
		return hc.LoadUser()
	}
	return nil
}

// MessageID returns the id of the message the button belongs to, or 0
func (hc *HandlerContext) MessageID() int {
	if hc.Message == nil {
		return 0
	}
	return hc.Message.ID
}

func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage replaces the text and keyboard of the callback message
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}
	return Render(hc.Ctx, hc.Bot, hc.ChatID, hc.Message.ID, text, keyboard)
}

func (hc *HandlerContext) EditMessageText(text string) error {
	return hc.EditMessage(text, nil)
}

func (hc *HandlerContext) DeleteMessage() error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	_, err := hc.Bot.DeleteMessage(hc.Ctx, &bot.DeleteMessageParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
	})

	return err
}

func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	return Render(hc.Ctx, hc.Bot, hc.ChatID, 0, text, keyboard)
}

// SendPhoto uploads a PNG to the chat
func (hc *HandlerContext) SendPhoto(png []byte, filename, caption string) error {
	_, err := hc.Bot.SendPhoto(hc.Ctx, &bot.SendPhotoParams{
		ChatID: hc.ChatID,
		Photo: &models.InputFileUpload{
			Filename: filename,
			Data:     bytes.NewReader(png),
		},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})
	return err
}

func (hc *HandlerContext) ClearState() {
	hc.Handler.StateManager.ClearState(hc.TelegramID)
}

func (hc *HandlerContext) SetState(s state.UserState) {
	hc.Handler.StateManager.SetState(hc.TelegramID, callbacktypes.UserState(s))
}

func (hc *HandlerContext) SetData(key string, value interface{}) {
	hc.Handler.StateManager.SetData(hc.TelegramID, key, value)
}

func (hc *HandlerContext) GetData(key string) (interface{}, bool) {
	return hc.Handler.StateManager.GetData(hc.TelegramID, key)
}

// Session returns the open booking session of the user
func (hc *HandlerContext) Session() (*callbacktypes.BookingSession, error) {
	return GetSession(hc.Handler.StateManager, hc.TelegramID)
}

// GetSession looks up the booking session stored for telegramID
func GetSession(sm callbacktypes.StateManager, telegramID int64) (*callbacktypes.BookingSession, error) {
	session, ok := sm.Session(telegramID)
	if !ok || session.Selection == nil {
		return nil, ErrSessionExpired
	}
	return session, nil
}
