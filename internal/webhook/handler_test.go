package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

const testSecret = "whsec_test_secret"

type fakeProcessor struct {
	completed []string
	expired   []string
	topUp     *model.TopUp
	err       error
}

func (f *fakeProcessor) CompleteTopUp(_ context.Context, sessionID string) (*model.TopUp, error) {
	f.completed = append(f.completed, sessionID)
	return f.topUp, f.err
}

func (f *fakeProcessor) ExpireTopUp(_ context.Context, sessionID string) error {
	f.expired = append(f.expired, sessionID)
	return f.err
}

type fakeNotifier struct {
	notified []*model.TopUp
}

func (f *fakeNotifier) TopUpCompleted(_ context.Context, topUp *model.TopUp) {
	f.notified = append(f.notified, topUp)
}

func eventPayload(eventType, sessionID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test",
		"object": "event",
		"api_version": %q,
		"type": %q,
		"data": {"object": {"id": %q, "object": "checkout.session"}}
	}`, stripe.APIVersion, eventType, sessionID))
}

func signedRequest(t *testing.T, payload []byte, secret string) *http.Request {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})

	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", signed.Header)
	return req
}

func serve(h *StripeHandler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)
	return rec
}

func TestStripeHandler_CompletesTopUp(t *testing.T) {
	processor := &fakeProcessor{topUp: &model.TopUp{SessionID: "cs_test_1", UserID: 7, Amount: 500}}
	notifier := &fakeNotifier{}
	h := NewStripeHandler(testSecret, processor, notifier, zap.NewNop())

	rec := serve(h, signedRequest(t, eventPayload("checkout.session.completed", "cs_test_1"), testSecret))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"cs_test_1"}, processor.completed)
	require.Len(t, notifier.notified, 1)
	assert.Equal(t, 500, notifier.notified[0].Amount)
}

func TestStripeHandler_DuplicateDeliveryIsNotNotified(t *testing.T) {
	processor := &fakeProcessor{}
	notifier := &fakeNotifier{}
	h := NewStripeHandler(testSecret, processor, notifier, zap.NewNop())

	rec := serve(h, signedRequest(t, eventPayload("checkout.session.completed", "cs_test_1"), testSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, notifier.notified)
}

func TestStripeHandler_ExpiresTopUp(t *testing.T) {
	processor := &fakeProcessor{}
	h := NewStripeHandler(testSecret, processor, nil, zap.NewNop())

	rec := serve(h, signedRequest(t, eventPayload("checkout.session.expired", "cs_test_2"), testSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"cs_test_2"}, processor.expired)
}

func TestStripeHandler_RejectsBadSignature(t *testing.T) {
	processor := &fakeProcessor{}
	h := NewStripeHandler(testSecret, processor, nil, zap.NewNop())

	rec := serve(h, signedRequest(t, eventPayload("checkout.session.completed", "cs_test_1"), "whsec_other"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, processor.completed)
}

func TestStripeHandler_ProcessorFailure(t *testing.T) {
	processor := &fakeProcessor{err: errors.New("db down")}
	h := NewStripeHandler(testSecret, processor, nil, zap.NewNop())

	rec := serve(h, signedRequest(t, eventPayload("checkout.session.completed", "cs_test_1"), testSecret))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStripeHandler_IgnoresOtherEvents(t *testing.T) {
	processor := &fakeProcessor{}
	h := NewStripeHandler(testSecret, processor, nil, zap.NewNop())

	rec := serve(h, signedRequest(t, eventPayload("charge.refunded", "ch_1"), testSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, processor.completed)
	assert.Empty(t, processor.expired)
}

func TestRouter_Pages(t *testing.T) {
	h := NewStripeHandler(testSecret, &fakeProcessor{}, nil, zap.NewNop())

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/topup/success?session_id=cs_1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment received")

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/stripe/webhook", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
