package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionRecharge TransactionType = "recharge" // wallet top-up
	TransactionGroup    TransactionType = "group"    // transfer between personal and team wallets
	TransactionBooking  TransactionType = "booking"
	TransactionRefund   TransactionType = "refund"
)

// WalletTransaction is one ledger line. Exactly one of UserID and TeamID is set.
type WalletTransaction struct {
	ID          int64           `json:"id"`
	UserID      *int64          `json:"user_id"`
	TeamID      *int64          `json:"team_id"`
	Type        TransactionType `json:"type"`
	Amount      int             `json:"amount"` // signed: positive is credit
	Description string          `json:"description"`
	BookingID   *uuid.UUID      `json:"booking_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// WalletOwner identifies a personal or team wallet.
type WalletOwner struct {
	UserID int64
	TeamID int64
}

func PersonalWallet(userID int64) WalletOwner {
	return WalletOwner{UserID: userID}
}

func TeamWallet(teamID int64) WalletOwner {
	return WalletOwner{TeamID: teamID}
}

func (o WalletOwner) IsTeam() bool {
	return o.TeamID != 0
}

type TopUpStatus string

const (
	TopUpPending   TopUpStatus = "pending"
	TopUpCompleted TopUpStatus = "completed"
	TopUpExpired   TopUpStatus = "expired"
)

// TopUp is a wallet recharge paid through a Stripe Checkout session.
type TopUp struct {
	ID          int64       `json:"id"`
	SessionID   string      `json:"session_id"`
	UserID      int64       `json:"user_id"`
	TeamID      *int64      `json:"team_id"`
	Amount      int         `json:"amount"`
	Status      TopUpStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at"`
}

func (t *TopUp) Owner() WalletOwner {
	if t.TeamID != nil {
		return TeamWallet(*t.TeamID)
	}
	return PersonalWallet(t.UserID)
}
