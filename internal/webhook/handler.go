package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

const maxBodyBytes = int64(65536)

// TopUpProcessor applies checkout session outcomes to wallets
type TopUpProcessor interface {
	CompleteTopUp(ctx context.Context, sessionID string) (*model.TopUp, error)
	ExpireTopUp(ctx context.Context, sessionID string) error
}

// Notifier tells the user their wallet was credited
type Notifier interface {
	TopUpCompleted(ctx context.Context, topUp *model.TopUp)
}

type StripeHandler struct {
	secret    string
	processor TopUpProcessor
	notifier  Notifier // optional
	logger    *zap.Logger
}

func NewStripeHandler(secret string, processor TopUpProcessor, notifier Notifier, logger *zap.Logger) *StripeHandler {
	return &StripeHandler{
		secret:    secret,
		processor: processor,
		notifier:  notifier,
		logger:    logger,
	}
}

func (h *StripeHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("Failed to read webhook body", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.secret)
	if err != nil {
		h.logger.Warn("Webhook signature verification failed", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		sess, ok := h.decodeSession(w, event)
		if !ok {
			return
		}
		topUp, err := h.processor.CompleteTopUp(r.Context(), sess.ID)
		if err != nil {
			h.logger.Error("Failed to complete top-up", zap.String("session_id", sess.ID), zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if topUp != nil && h.notifier != nil {
			h.notifier.TopUpCompleted(r.Context(), topUp)
		}

	case "checkout.session.expired":
		sess, ok := h.decodeSession(w, event)
		if !ok {
			return
		}
		if err := h.processor.ExpireTopUp(r.Context(), sess.ID); err != nil {
			h.logger.Error("Failed to expire top-up", zap.String("session_id", sess.ID), zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

	default:
		h.logger.Debug("Unhandled webhook event", zap.String("type", string(event.Type)))
	}

	w.WriteHeader(http.StatusOK)
}

func (h *StripeHandler) decodeSession(w http.ResponseWriter, event stripe.Event) (*stripe.CheckoutSession, bool) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		h.logger.Warn("Failed to parse checkout session", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}
	if sess.ID == "" {
		h.logger.Warn("Checkout session without id", zap.String("type", string(event.Type)))
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}
	return &sess, true
}
