package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/repository"
	"github.com/Freeeeeet/turf_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const BookingsPageSize = 5

// CacheInvalidator drops cached availability for the given days
type CacheInvalidator interface {
	Invalidate(ctx context.Context, dates ...time.Time)
}

type BookingService struct {
	pool        *pgxpool.Pool
	bookingRepo *repository.BookingRepository
	teamRepo    *repository.TeamRepository
	capturer    PaymentCapturer
	wallet      *WalletService
	cache       CacheInvalidator
	slotPrice   int
	loc         *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

func NewBookingService(
	pool *pgxpool.Pool,
	bookingRepo *repository.BookingRepository,
	teamRepo *repository.TeamRepository,
	wallet *WalletService,
	cache CacheInvalidator,
	slotPrice int,
	loc *time.Location,
	logger *zap.Logger,
) *BookingService {
	if loc == nil {
		loc = time.Local
	}
	return &BookingService{
		pool:        pool,
		bookingRepo: bookingRepo,
		teamRepo:    teamRepo,
		capturer:    wallet,
		wallet:      wallet,
		cache:       cache,
		slotPrice:   slotPrice,
		loc:         loc,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *BookingService) SlotPrice() int {
	return s.slotPrice
}

func (s *BookingService) slotStart(entry booking.SelectionEntry) time.Time {
	y, m, d := entry.Date.Date()
	return time.Date(y, m, d, entry.Hour, 0, 0, 0, s.loc)
}

// CheckEntries rejects slots that have started or were priced differently than the current rate
func (s *BookingService) CheckEntries(entries []booking.SelectionEntry) error {
	if len(entries) == 0 {
		return booking.ErrEmptySelection
	}

	now := s.now()
	for _, e := range entries {
		if e.Price != s.slotPrice {
			return fmt.Errorf("%w: %s %s", ErrPriceChanged, e.Date.Format(time.DateOnly), e.SlotLabel)
		}
		if !s.slotStart(e).After(now) {
			return fmt.Errorf("%w: %s %s", ErrSlotInPast, e.Date.Format(time.DateOnly), e.SlotLabel)
		}
	}
	return nil
}

// Confirm reserves every slot of the draft in one transaction and captures the amount
// payable now. Any taken slot or failed capture leaves nothing reserved and reopens the draft.
func (s *BookingService) Confirm(ctx context.Context, userID int64, draft *booking.Draft) (*model.Booking, error) {
	snap := draft.Snapshot()

	if err := s.CheckEntries(snap.Entries); err != nil {
		return nil, err
	}

	if snap.Funding.Kind == booking.FundingTeam && snap.Funding.TeamID > 0 {
		membership, err := s.teamRepo.GetMembership(ctx, snap.Funding.TeamID, userID)
		if err != nil {
			return nil, err
		}
		if membership == nil {
			return nil, ErrNotTeamMember
		}
		if !membership.IsAdmin() {
			return nil, ErrNotTeamAdmin
		}
	}

	outcome, err := draft.Confirm()
	if err != nil {
		return nil, err
	}

	b, err := s.reserve(ctx, userID, snap, outcome)
	if err != nil {
		draft.Reopen()
		return nil, err
	}

	s.cache.Invalidate(ctx, booking.Handoff{Entries: snap.Entries}.Dates()...)

	s.logger.Info("Booking confirmed",
		zap.String("booking_id", b.ID.String()),
		zap.Int64("user_id", userID),
		zap.String("mode", string(b.Mode)),
		zap.Int("slots", len(b.Slots)),
		zap.Int("total", b.TotalPrice),
		zap.Int("paid", b.PaidAmount),
		zap.String("status", string(b.Status)),
	)
	return b, nil
}

func (s *BookingService) reserve(ctx context.Context, userID int64, snap booking.DraftSnapshot, outcome booking.Outcome) (*model.Booking, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	b := &model.Booking{
		ID:           outcome.DraftID,
		UserID:       userID,
		Mode:         snap.Mode,
		Funding:      snap.Funding.Kind,
		Sport:        snap.Sport,
		TotalPrice:   snap.TotalPrice,
		PayableNow:   outcome.Payment.Now,
		PayableLater: outcome.Payment.Later,
		Status:       model.BookingStatusReserved,
	}
	if snap.Funding.Kind == booking.FundingTeam {
		teamID := snap.Funding.TeamID
		b.TeamID = &teamID
	}
	if outcome.Kind == booking.OutcomePaymentRequired {
		b.Status = model.BookingStatusPaid
		b.PaidAmount = outcome.Payment.Now
	}

	bookings := s.bookingRepo.WithTx(tx)
	if err := bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	for _, e := range snap.Entries {
		slot := &model.BookedSlot{
			BookingID: b.ID,
			SlotDate:  e.Date,
			Hour:      e.Hour,
			Price:     e.Price,
		}
		if err := bookings.AddSlot(ctx, slot); err != nil {
			if base.IsUniqueViolation(err) {
				return nil, &SlotTakenError{Entry: e}
			}
			return nil, err
		}
		b.Slots = append(b.Slots, slot)
	}

	if outcome.Kind == booking.OutcomePaymentRequired {
		owner := model.PersonalWallet(userID)
		if b.TeamID != nil {
			owner = model.TeamWallet(*b.TeamID)
		}
		err := s.capturer.Capture(ctx, tx, CaptureRequest{
			BookingID:   b.ID,
			Owner:       owner,
			Amount:      outcome.Payment.Now,
			Description: fmt.Sprintf("Turf booking, %d slot(s)", len(snap.Entries)),
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return b, nil
}

// CancelBooking frees the slots of a booking that has not started yet and refunds what was paid
func (s *BookingService) CancelBooking(ctx context.Context, userID int64, bookingID uuid.UUID) (*model.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if !b.Status.Active() || !b.FirstSlotStart().After(s.now()) {
		return nil, ErrBookingNotCancellable
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	bookings := s.bookingRepo.WithTx(tx)
	if err := bookings.UpdateStatus(ctx, b.ID, model.BookingStatusCancelled); err != nil {
		return nil, err
	}
	if err := bookings.ReleaseSlots(ctx, b.ID); err != nil {
		return nil, err
	}

	owner := model.PersonalWallet(b.UserID)
	if b.TeamID != nil {
		owner = model.TeamWallet(*b.TeamID)
	}
	if err := s.wallet.Refund(ctx, tx, b.ID, owner, b.PaidAmount); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	b.Status = model.BookingStatusCancelled

	dates := make([]time.Time, 0, len(b.Slots))
	for _, slot := range b.Slots {
		dates = append(dates, slot.SlotDate)
	}
	s.cache.Invalidate(ctx, dates...)

	s.logger.Info("Booking cancelled",
		zap.String("booking_id", b.ID.String()),
		zap.Int64("user_id", userID),
		zap.Int("refund", b.PaidAmount),
	)
	return b, nil
}

func (s *BookingService) GetBooking(ctx context.Context, userID int64, bookingID uuid.UUID) (*model.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.UserID != userID && b.TeamID == nil {
		return nil, ErrNotBookingOwner
	}
	if b.UserID != userID {
		membership, err := s.teamRepo.GetMembership(ctx, *b.TeamID, userID)
		if err != nil {
			return nil, err
		}
		if membership == nil {
			return nil, ErrNotBookingOwner
		}
	}
	return b, nil
}

// ListBookings returns one page of the bookings visible to the user and the number of pages
func (s *BookingService) ListBookings(ctx context.Context, userID int64, filter model.BookingFilter, page int) ([]*model.Booking, int, error) {
	total, err := s.bookingRepo.CountForUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}

	pages := (total + BookingsPageSize - 1) / BookingsPageSize
	if pages == 0 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}

	items, err := s.bookingRepo.ListForUser(ctx, userID, filter, BookingsPageSize, page*BookingsPageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, pages, nil
}

// CompletePastBookings moves bookings whose last slot has ended to completed
func (s *BookingService) CompletePastBookings(ctx context.Context) (int64, error) {
	n, err := s.bookingRepo.CompletePast(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Bookings completed", zap.Int64("count", n))
	}
	return n, nil
}
