package callbacktypes

import (
	"sync"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/config"
	"github.com/Freeeeeet/turf_bot/internal/service"
	"go.uber.org/zap"
)

// UserState is the dialog step a user is in
type UserState string

// StateManager stores per-user dialog state
type StateManager interface {
	ClearState(telegramID int64)
	SetState(telegramID int64, state UserState)
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)

	Session(telegramID int64) (*BookingSession, bool)
	SaveSession(telegramID int64, session *BookingSession)
	DropSession(telegramID int64)
}

// Settings are the venue parameters screens depend on
type Settings struct {
	Location          *time.Location
	BookingWindowDays int
	SlotPrice         int
	Venue             config.Venue
}

// BookingSession is an open slot picker and, once the user moves on, its summary draft.
// Callbacks of one user may run concurrently, so draft and message id are guarded.
type BookingSession struct {
	Selection *booking.Controller

	mu        sync.Mutex
	draft     *booking.Draft
	messageID int
}

func NewBookingSession(selection *booking.Controller) *BookingSession {
	return &BookingSession{Selection: selection}
}

// MessageID is the chat message the picker is drawn in
func (s *BookingSession) MessageID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageID
}

func (s *BookingSession) SetMessageID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageID = id
}

// Draft returns the summary draft, nil while the user is still picking slots
func (s *BookingSession) Draft() *booking.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// OpenSummary starts a draft from the encoded hand-off of the picker
func (s *BookingSession) OpenSummary(payload []byte) (*booking.Draft, error) {
	handoff, err := booking.DecodeHandoff(payload)
	if err != nil {
		return nil, err
	}
	if len(handoff.Entries) == 0 {
		return nil, booking.ErrEmptySelection
	}

	draft := booking.NewDraft(handoff)
	s.mu.Lock()
	s.draft = draft
	s.mu.Unlock()
	return draft, nil
}

// CloseSummary drops the draft and returns the session to slot picking
func (s *BookingSession) CloseSummary() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

// Handler holds the dependencies shared by all callback handlers
type Handler struct {
	UserService         *service.UserService
	BookingService      *service.BookingService
	AvailabilityService *service.AvailabilityService
	TeamService         *service.TeamService
	WalletService       *service.WalletService
	PaymentService      *service.PaymentService
	StateManager        StateManager
	Settings            Settings
	Logger              *zap.Logger

	// Availability overrides AvailabilityService in the slot picker when set
	Availability booking.AvailabilitySource
	Now          func() time.Time
}

// Today returns the current venue day
func (h *Handler) Today() time.Time {
	return booking.Day(h.Clock().In(h.Location()))
}

func (h *Handler) Clock() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) Location() *time.Location {
	if h.Settings.Location != nil {
		return h.Settings.Location
	}
	return time.Local
}

// Source returns the availability source used by the slot picker
func (h *Handler) Source() booking.AvailabilitySource {
	if h.Availability != nil {
		return h.Availability
	}
	return h.AvailabilityService
}

// NewWindow returns the bookable range starting today
func (h *Handler) NewWindow() booking.Window {
	return booking.NewWindow(h.Today(), h.Settings.BookingWindowDays)
}
