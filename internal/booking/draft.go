package booking

import (
	"sync"

	"github.com/google/uuid"
)

// BookingMode defines who plays and who pays.
type BookingMode string

const (
	ModeSelfFull      BookingMode = "self_full"      // private game paid from the personal wallet
	ModeTeamFull      BookingMode = "team_full"      // private game paid from a team wallet
	ModeTeamChallenge BookingMode = "team_challenge" // open game, cost split with the opponent team
)

func (m BookingMode) Valid() bool {
	switch m {
	case ModeSelfFull, ModeTeamFull, ModeTeamChallenge:
		return true
	}
	return false
}

// RequiresTeam reports whether the mode is paid from a team wallet.
func (m BookingMode) RequiresTeam() bool {
	return m == ModeTeamFull || m == ModeTeamChallenge
}

type FundingKind string

const (
	FundingNone     FundingKind = ""
	FundingPersonal FundingKind = "personal"
	FundingTeam     FundingKind = "team"
)

// FundingSource is the wallet debited for a booking. TeamID is zero until a team is picked.
type FundingSource struct {
	Kind    FundingKind `json:"kind"`
	TeamID  int64       `json:"team_id,omitempty"`
	IsAdmin bool        `json:"is_admin,omitempty"`
}

func Personal() FundingSource {
	return FundingSource{Kind: FundingPersonal}
}

func Team(teamID int64, isAdmin bool) FundingSource {
	return FundingSource{Kind: FundingTeam, TeamID: teamID, IsAdmin: isAdmin}
}

type Sport string

const (
	SportCricket  Sport = "cricket"
	SportFootball Sport = "football"
)

func (s Sport) Valid() bool {
	return s == SportCricket || s == SportFootball
}

// Payment splits the total into what is collected now and later.
type Payment struct {
	Now   int `json:"now"`
	Later int `json:"later"`
}

// DerivePayment applies the mode's split rule. A challenge defers the user's half
// until an opponent joins; the other modes are paid in full upfront.
func DerivePayment(total int, mode BookingMode) Payment {
	if mode == ModeTeamChallenge {
		return Payment{Now: 0, Later: total / 2}
	}
	return Payment{Now: total, Later: 0}
}

// Stage is the position of a draft in the summary flow.
type Stage int

const (
	StageIdle Stage = iota
	StageModeSelected
	StageFundingSelected
	StageConfirmed
)

func (s Stage) String() string {
	switch s {
	case StageModeSelected:
		return "mode_selected"
	case StageFundingSelected:
		return "funding_selected"
	case StageConfirmed:
		return "confirmed"
	default:
		return "idle"
	}
}

type OutcomeKind string

const (
	// OutcomeReserved: nothing is charged now, the slot is held until an opponent joins.
	OutcomeReserved OutcomeKind = "reserved"
	// OutcomePaymentRequired: Payment.Now must be captured before the booking is final.
	OutcomePaymentRequired OutcomeKind = "payment_required"
)

// Outcome is returned by Confirm.
type Outcome struct {
	Kind    OutcomeKind
	DraftID uuid.UUID
	Payment Payment
}

// DraftSnapshot is an immutable copy of a draft.
type DraftSnapshot struct {
	ID         uuid.UUID        `json:"id"`
	Entries    []SelectionEntry `json:"entries"`
	TotalPrice int              `json:"total_price"`
	Mode       BookingMode      `json:"mode"`
	Funding    FundingSource    `json:"funding"`
	Sport      Sport            `json:"sport"`
	Payment    Payment          `json:"payment"`
	Stage      Stage            `json:"stage"`
}

// Draft is the booking summary built from a selection handoff.
type Draft struct {
	mu sync.Mutex

	id      uuid.UUID
	handoff Handoff
	mode    BookingMode
	funding FundingSource
	sport   Sport
	stage   Stage
}

func NewDraft(h Handoff) *Draft {
	return &Draft{
		id:      uuid.New(),
		handoff: h,
		sport:   SportCricket,
		stage:   StageIdle,
	}
}

func (d *Draft) ID() uuid.UUID {
	return d.id
}

// SetMode selects the booking mode and resets funding that the new mode does not allow.
// Leaving a challenge resets the sport to cricket.
func (d *Draft) SetMode(mode BookingMode) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !mode.Valid() || d.stage == StageConfirmed {
		return false
	}

	if mode != ModeTeamChallenge {
		d.sport = SportCricket
	}

	switch {
	case !mode.RequiresTeam():
		d.funding = Personal()
	case d.funding.Kind != FundingTeam:
		d.funding = FundingSource{Kind: FundingTeam}
	}

	d.mode = mode
	d.stage = d.fundingStageLocked()
	return true
}

// SelectPersonal picks the personal wallet. Only valid for self bookings.
func (d *Draft) SelectPersonal() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stage == StageIdle || d.stage == StageConfirmed || d.mode.RequiresTeam() {
		return false
	}
	d.funding = Personal()
	d.stage = StageFundingSelected
	return true
}

// SelectTeam picks a team wallet. Only valid for team modes.
func (d *Draft) SelectTeam(teamID int64, isAdmin bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stage == StageIdle || d.stage == StageConfirmed || !d.mode.RequiresTeam() || teamID <= 0 {
		return false
	}
	d.funding = Team(teamID, isAdmin)
	d.stage = StageFundingSelected
	return true
}

// SetSport chooses the game for a challenge.
func (d *Draft) SetSport(sport Sport) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stage == StageConfirmed {
		return ErrAlreadyConfirmed
	}
	if d.mode != ModeTeamChallenge || !sport.Valid() {
		return ErrSportNotApplicable
	}
	d.sport = sport
	return nil
}

func (d *Draft) fundingStageLocked() Stage {
	switch d.funding.Kind {
	case FundingPersonal:
		return StageFundingSelected
	case FundingTeam:
		if d.funding.TeamID > 0 {
			return StageFundingSelected
		}
	}
	return StageModeSelected
}

// CanConfirm returns the reason the draft cannot be confirmed, or nil.
func (d *Draft) CanConfirm() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.checkLocked()
}

func (d *Draft) checkLocked() error {
	switch {
	case d.stage == StageConfirmed:
		return ErrAlreadyConfirmed
	case len(d.handoff.Entries) == 0:
		return ErrEmptySelection
	case d.stage == StageIdle:
		return ErrModeRequired
	case d.stage != StageFundingSelected:
		if d.mode.RequiresTeam() {
			return ErrTeamRequired
		}
		return ErrFundingRequired
	}

	if d.funding.Kind == FundingTeam {
		if d.mode == ModeSelfFull {
			return ErrFundingRequired
		}
		if d.funding.TeamID <= 0 {
			return ErrTeamRequired
		}
		if !d.funding.IsAdmin {
			return ErrTeamAdminRequired
		}
	}
	return nil
}

// Confirm finalizes the draft. With nothing payable now the result is a reservation;
// otherwise the caller must capture Payment.Now.
func (d *Draft) Confirm() (Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkLocked(); err != nil {
		return Outcome{}, err
	}

	d.stage = StageConfirmed
	payment := DerivePayment(d.handoff.TotalPrice, d.mode)
	kind := OutcomePaymentRequired
	if payment.Now == 0 {
		kind = OutcomeReserved
	}
	return Outcome{Kind: kind, DraftID: d.id, Payment: payment}, nil
}

// Reopen returns a confirmed draft to editing, e.g. after payment capture failed.
func (d *Draft) Reopen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stage == StageConfirmed {
		d.stage = d.fundingStageLocked()
	}
}

func (d *Draft) Payment() Payment {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DerivePayment(d.handoff.TotalPrice, d.mode)
}

func (d *Draft) Snapshot() DraftSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := make([]SelectionEntry, len(d.handoff.Entries))
	copy(entries, d.handoff.Entries)

	return DraftSnapshot{
		ID:         d.id,
		Entries:    entries,
		TotalPrice: d.handoff.TotalPrice,
		Mode:       d.mode,
		Funding:    d.funding,
		Sport:      d.sport,
		Payment:    DerivePayment(d.handoff.TotalPrice, d.mode),
		Stage:      d.stage,
	}
}
