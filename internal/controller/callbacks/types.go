package callbacks

import (
	"context"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler wraps callbacktypes.Handler with per-user throttling
type Handler struct {
	*callbacktypes.Handler
	limiter *common.RateLimiter
}

// NewHandler creates the callback handler. limiter may be nil.
func NewHandler(inner *callbacktypes.Handler, limiter *common.RateLimiter) *Handler {
	if limiter == nil {
		limiter = common.NewRateLimiter(0, 0)
	}
	return &Handler{Handler: inner, limiter: limiter}
}

// HandleCallbackQuery is the entry point for all inline button presses
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	h.Logger.Debug("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	if !h.limiter.Allow(callback.From.ID) {
		h.Logger.Warn("Callback rate limited",
			zap.Int64("user_id", callback.From.ID),
			zap.String("data", callback.Data))
		common.AnswerCallback(ctx, b, callback.ID, common.ErrorMessage(common.ErrTooManyRequests))
		return
	}

	Route(ctx, b, callback, h.Handler)
}

// Prune drops limiters of users idle for longer than maxIdle
func (h *Handler) Prune(maxIdle time.Duration) int {
	return h.limiter.Prune(maxIdle)
}
