package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const HistoryPageSize = 10

// CaptureRequest debits a wallet for a booking inside the booking's transaction
type CaptureRequest struct {
	BookingID   uuid.UUID
	Owner       model.WalletOwner
	Amount      int
	Description string
}

// PaymentCapturer collects the amount payable now. It runs inside tx, so a failure
// rolls the whole reservation back.
type PaymentCapturer interface {
	Capture(ctx context.Context, tx pgx.Tx, req CaptureRequest) error
}

type WalletService struct {
	pool       *pgxpool.Pool
	walletRepo *repository.WalletRepository
	topUpRepo  *repository.TopUpRepository
	teamRepo   *repository.TeamRepository
	logger     *zap.Logger
}

func NewWalletService(
	pool *pgxpool.Pool,
	walletRepo *repository.WalletRepository,
	topUpRepo *repository.TopUpRepository,
	teamRepo *repository.TeamRepository,
	logger *zap.Logger,
) *WalletService {
	return &WalletService{
		pool:       pool,
		walletRepo: walletRepo,
		topUpRepo:  topUpRepo,
		teamRepo:   teamRepo,
		logger:     logger,
	}
}

var _ PaymentCapturer = (*WalletService)(nil)

func (s *WalletService) Balance(ctx context.Context, owner model.WalletOwner) (int, error) {
	return s.walletRepo.Balance(ctx, owner)
}

// History returns one page of the wallet ledger and the total number of pages
func (s *WalletService) History(ctx context.Context, owner model.WalletOwner, page int) ([]*model.WalletTransaction, int, error) {
	total, err := s.walletRepo.CountTransactions(ctx, owner)
	if err != nil {
		return nil, 0, err
	}

	pages := (total + HistoryPageSize - 1) / HistoryPageSize
	if pages == 0 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}

	items, err := s.walletRepo.ListTransactions(ctx, owner, HistoryPageSize, page*HistoryPageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, pages, nil
}

func (s *WalletService) Capture(ctx context.Context, tx pgx.Tx, req CaptureRequest) error {
	if req.Amount <= 0 {
		return ErrInvalidAmount
	}

	wallet := s.walletRepo.WithTx(tx)

	balance, err := wallet.Debit(ctx, req.Owner, req.Amount)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return ErrInsufficientFunds
		}
		return err
	}

	bookingID := req.BookingID
	entry := &model.WalletTransaction{
		Type:        model.TransactionBooking,
		Amount:      -req.Amount,
		Description: req.Description,
		BookingID:   &bookingID,
	}
	if err := wallet.AddTransaction(ctx, req.Owner, entry); err != nil {
		return err
	}

	s.logger.Info("Wallet debited",
		zap.String("booking_id", req.BookingID.String()),
		zap.Int64("user_id", req.Owner.UserID),
		zap.Int64("team_id", req.Owner.TeamID),
		zap.Int("amount", req.Amount),
		zap.Int("balance", balance),
	)
	return nil
}

// Refund credits amount back inside tx
func (s *WalletService) Refund(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, owner model.WalletOwner, amount int) error {
	if amount <= 0 {
		return nil
	}

	wallet := s.walletRepo.WithTx(tx)
	if _, err := wallet.Credit(ctx, owner, amount); err != nil {
		return err
	}

	entry := &model.WalletTransaction{
		Type:        model.TransactionRefund,
		Amount:      amount,
		Description: "Booking cancelled",
		BookingID:   &bookingID,
	}
	return wallet.AddTransaction(ctx, owner, entry)
}

// TransferToTeam moves money from the user's wallet into a team wallet
func (s *WalletService) TransferToTeam(ctx context.Context, userID, teamID int64, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	membership, err := s.teamRepo.GetMembership(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNotTeamMember
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	wallet := s.walletRepo.WithTx(tx)
	personal := model.PersonalWallet(userID)
	team := model.TeamWallet(teamID)

	if _, err := wallet.Debit(ctx, personal, amount); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return ErrInsufficientFunds
		}
		return err
	}
	if _, err := wallet.Credit(ctx, team, amount); err != nil {
		return err
	}

	out := &model.WalletTransaction{
		Type:        model.TransactionGroup,
		Amount:      -amount,
		Description: "Transfer to " + membership.Team.Name,
	}
	if err := wallet.AddTransaction(ctx, personal, out); err != nil {
		return err
	}
	in := &model.WalletTransaction{
		Type:        model.TransactionGroup,
		Amount:      amount,
		Description: "Transfer from a member",
	}
	if err := wallet.AddTransaction(ctx, team, in); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Transferred to team wallet",
		zap.Int64("user_id", userID),
		zap.Int64("team_id", teamID),
		zap.Int("amount", amount),
	)
	return nil
}

// CompleteTopUp credits a paid checkout session. Repeated webhook deliveries return nil, nil.
func (s *WalletService) CompleteTopUp(ctx context.Context, sessionID string) (*model.TopUp, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	topUp, err := s.topUpRepo.WithTx(tx).MarkCompleted(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if topUp == nil {
		s.logger.Info("Top-up already processed or unknown", zap.String("session_id", sessionID))
		return nil, nil
	}

	wallet := s.walletRepo.WithTx(tx)
	balance, err := wallet.Credit(ctx, topUp.Owner(), topUp.Amount)
	if err != nil {
		return nil, err
	}

	entry := &model.WalletTransaction{
		Type:        model.TransactionRecharge,
		Amount:      topUp.Amount,
		Description: "Wallet top-up",
	}
	if err := wallet.AddTransaction(ctx, topUp.Owner(), entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Top-up completed",
		zap.String("session_id", sessionID),
		zap.Int64("user_id", topUp.UserID),
		zap.Int("amount", topUp.Amount),
		zap.Int("balance", balance),
	)
	return topUp, nil
}

func (s *WalletService) ExpireTopUp(ctx context.Context, sessionID string) error {
	return s.topUpRepo.MarkExpired(ctx, sessionID)
}
