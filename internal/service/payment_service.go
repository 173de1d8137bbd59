package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/repository"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"go.uber.org/zap"
)

const (
	MinTopUp = 100
	MaxTopUp = 50000
)

// CheckoutSessions creates hosted payment pages
type CheckoutSessions interface {
	CreateCheckoutSession(amountMinor int64, currency, description, reference string) (url, id string, err error)
}

// StripeCheckout creates Stripe Checkout sessions. stripe.Key must be set.
type StripeCheckout struct {
	successURL string
	cancelURL  string
}

func NewStripeCheckout(publicURL string) *StripeCheckout {
	return &StripeCheckout{
		successURL: publicURL + "/topup/success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  publicURL + "/topup/cancel",
	}
}

func (s *StripeCheckout) CreateCheckoutSession(amountMinor int64, currency, description, reference string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(reference),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	return sess.URL, sess.ID, nil
}

type PaymentService struct {
	sessions  CheckoutSessions // nil when top-ups are disabled
	topUpRepo *repository.TopUpRepository
	teamRepo  *repository.TeamRepository
	currency  string
	logger    *zap.Logger
}

func NewPaymentService(
	sessions CheckoutSessions,
	topUpRepo *repository.TopUpRepository,
	teamRepo *repository.TeamRepository,
	currency string,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		sessions:  sessions,
		topUpRepo: topUpRepo,
		teamRepo:  teamRepo,
		currency:  currency,
		logger:    logger,
	}
}

func (s *PaymentService) Enabled() bool {
	return s.sessions != nil
}

// ParseTopUpAmount reads a rupee amount typed by the user
func ParseTopUpAmount(text string) (int, error) {
	amount, err := strconv.Atoi(text)
	if err != nil || amount < MinTopUp || amount > MaxTopUp {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

// CreateTopUp opens a checkout session for owner and returns its URL.
// The wallet is credited later by the webhook.
func (s *PaymentService) CreateTopUp(ctx context.Context, userID int64, owner model.WalletOwner, amount int) (string, error) {
	if !s.Enabled() {
		return "", ErrTopUpDisabled
	}
	if amount < MinTopUp || amount > MaxTopUp {
		return "", ErrInvalidAmount
	}

	description := "Turf wallet top-up"
	if owner.IsTeam() {
		membership, err := s.teamRepo.GetMembership(ctx, owner.TeamID, userID)
		if err != nil {
			return "", err
		}
		if membership == nil {
			return "", ErrNotTeamMember
		}
		description = "Team wallet top-up: " + membership.Team.Name
	}

	reference := strconv.FormatInt(userID, 10)
	url, sessionID, err := s.sessions.CreateCheckoutSession(int64(amount)*100, s.currency, description, reference)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	topUp := &model.TopUp{
		SessionID: sessionID,
		UserID:    userID,
		Amount:    amount,
		Status:    model.TopUpPending,
	}
	if owner.IsTeam() {
		teamID := owner.TeamID
		topUp.TeamID = &teamID
	}
	if err := s.topUpRepo.Create(ctx, topUp); err != nil {
		return "", err
	}

	s.logger.Info("Top-up session created",
		zap.String("session_id", sessionID),
		zap.Int64("user_id", userID),
		zap.Int64("team_id", owner.TeamID),
		zap.Int("amount", amount),
	)
	return url, nil
}
