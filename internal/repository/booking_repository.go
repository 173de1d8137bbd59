package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `b.id, b.user_id, b.team_id, b.mode, b.funding, b.sport, b.total_price,
	b.payable_now, b.payable_later, b.paid_amount, b.status, b.created_at, b.updated_at,
	COALESCE(t.name, '')`

// BookingRepository stores bookings and the turf hours they hold.
// DATE columns come back at UTC midnight and are re-anchored to the venue location.
type BookingRepository struct {
	*base.Repository
	loc *time.Location
}

func NewBookingRepository(pool *pgxpool.Pool, loc *time.Location) *BookingRepository {
	if loc == nil {
		loc = time.Local
	}
	return &BookingRepository{Repository: base.NewRepository(pool), loc: loc}
}

func (r *BookingRepository) WithTx(tx pgx.Tx) *BookingRepository {
	return &BookingRepository{Repository: r.Repository.WithTx(tx), loc: r.loc}
}

func (r *BookingRepository) inVenue(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, r.loc)
}

func dateParam(d time.Time) string {
	return d.Format(time.DateOnly)
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.TeamID,
		&b.Mode,
		&b.Funding,
		&b.Sport,
		&b.TotalPrice,
		&b.PayableNow,
		&b.PayableLater,
		&b.PaidAmount,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.TeamName,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, team_id, mode, funding, sport, total_price,
			payable_now, payable_later, paid_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(ctx, query,
		b.ID,
		b.UserID,
		b.TeamID,
		b.Mode,
		b.Funding,
		b.Sport,
		b.TotalPrice,
		b.PayableNow,
		b.PayableLater,
		b.PaidAmount,
		b.Status,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// AddSlot claims one turf hour. A unique violation means the hour is already taken;
// callers check it with base.IsUniqueViolation.
func (r *BookingRepository) AddSlot(ctx context.Context, s *model.BookedSlot) error {
	query := `
		INSERT INTO booked_slots (booking_id, slot_date, hour, price)
		VALUES ($1, $2::date, $3, $4)
		RETURNING id
	`

	err := r.QueryRow(ctx, query, s.BookingID, dateParam(s.SlotDate), s.Hour, s.Price).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("add booked slot: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		LEFT JOIN teams t ON t.id = b.team_id
		WHERE b.id = $1
	`

	b, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	if err := r.loadSlots(ctx, []*model.Booking{b}); err != nil {
		return nil, err
	}
	return b, nil
}

func filterClause(filter model.BookingFilter) string {
	switch filter {
	case model.FilterPersonal:
		return ` AND b.funding = 'personal'`
	case model.FilterTeam:
		return ` AND b.mode = 'team_full'`
	case model.FilterChallenge:
		return ` AND b.mode = 'team_challenge'`
	default:
		return ``
	}
}

// visibleTo matches bookings made by the user or paid from one of the user's teams
const visibleTo = `(b.user_id = $1 OR b.team_id IN (SELECT team_id FROM team_members WHERE user_id = $1))`

// ListForUser returns a page of bookings visible to the user, newest first
func (r *BookingRepository) ListForUser(ctx context.Context, userID int64, filter model.BookingFilter, limit, offset int) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		LEFT JOIN teams t ON t.id = b.team_id
		WHERE ` + visibleTo + filterClause(filter) + `
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	if err := r.loadSlots(ctx, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) CountForUser(ctx context.Context, userID int64, filter model.BookingFilter) (int, error) {
	query := `SELECT count(*) FROM bookings b WHERE ` + visibleTo + filterClause(filter)

	var count int
	if err := r.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (r *BookingRepository) loadSlots(ctx context.Context, bookings []*model.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(bookings))
	byID := make(map[uuid.UUID]*model.Booking, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
		byID[b.ID] = b
	}

	query := `
		SELECT id, booking_id, slot_date, hour, price
		FROM booked_slots
		WHERE booking_id = ANY($1)
		ORDER BY slot_date, hour
	`

	rows, err := r.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load booked slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s model.BookedSlot
		if err := rows.Scan(&s.ID, &s.BookingID, &s.SlotDate, &s.Hour, &s.Price); err != nil {
			return fmt.Errorf("scan booked slot: %w", err)
		}
		s.SlotDate = r.inVenue(s.SlotDate)
		if b, ok := byID[s.BookingID]; ok {
			b.Slots = append(b.Slots, &s)
		}
	}
	return rows.Err()
}

// BookedHours returns the hours of date held by active bookings
func (r *BookingRepository) BookedHours(ctx context.Context, date time.Time) ([]int, error) {
	query := `
		SELECT hour FROM booked_slots
		WHERE slot_date = $1::date AND active
		ORDER BY hour
	`

	rows, err := r.Query(ctx, query, dateParam(date))
	if err != nil {
		return nil, fmt.Errorf("get booked hours: %w", err)
	}
	defer rows.Close()

	var hours []int
	for rows.Next() {
		var h int
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scan booked hour: %w", err)
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked hours: %w", err)
	}
	return hours, nil
}

// BookedHoursBetween returns active hours per day in [from, to], keyed by YYYY-MM-DD
func (r *BookingRepository) BookedHoursBetween(ctx context.Context, from, to time.Time) (map[string][]int, error) {
	query := `
		SELECT slot_date, hour FROM booked_slots
		WHERE slot_date BETWEEN $1::date AND $2::date AND active
		ORDER BY slot_date, hour
	`

	rows, err := r.Query(ctx, query, dateParam(from), dateParam(to))
	if err != nil {
		return nil, fmt.Errorf("get booked hours between: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]int)
	for rows.Next() {
		var (
			d time.Time
			h int
		)
		if err := rows.Scan(&d, &h); err != nil {
			return nil, fmt.Errorf("scan booked hour: %w", err)
		}
		key := dateParam(d)
		result[key] = append(result[key], h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked hours: %w", err)
	}
	return result, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update booking status %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

// ReleaseSlots frees the hours held by a booking
func (r *BookingRepository) ReleaseSlots(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE booked_slots SET active = FALSE WHERE booking_id = $1`

	if _, err := r.ExecAffected(ctx, query, id); err != nil {
		return fmt.Errorf("release booked slots: %w", err)
	}
	return nil
}

// CompletePast marks active bookings whose every slot has ended before now
func (r *BookingRepository) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	local := now.In(r.loc)
	query := `
		UPDATE bookings b
		SET status = 'completed', updated_at = now()
		WHERE b.status IN ('reserved', 'paid')
		  AND NOT EXISTS (
			SELECT 1 FROM booked_slots s
			WHERE s.booking_id = b.id
			  AND (s.slot_date > $1::date OR (s.slot_date = $1::date AND s.hour + 1 > $2))
		  )
	`

	affected, err := r.ExecAffected(ctx, query, dateParam(local), local.Hour())
	if err != nil {
		return 0, fmt.Errorf("complete past bookings: %w", err)
	}
	return affected, nil
}
