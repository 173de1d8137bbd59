package state

import "time"

// UserState is the dialog step a user is in
type UserState string

const (
	StateNone UserState = "" // no active dialog

	// profile editing
	StateProfileDisplayName UserState = "profile_display_name"
	StateProfileEmail       UserState = "profile_email"
	StateProfilePhone       UserState = "profile_phone"

	// teams
	StateCreateTeamName UserState = "create_team_name"
	StateJoinTeamCode   UserState = "join_team_code"

	// wallet
	StateTopUpAmount    UserState = "topup_amount"
	StateTransferAmount UserState = "transfer_amount"
)

// Data keys shared between commands and callbacks
const (
	KeyBookingSession = "booking_session"
	KeyProfileName    = "profile_name"
	KeyProfileEmail   = "profile_email"
	KeyTeamID         = "team_id"
)

// UserData holds dialog state and temporary data of one user
type UserData struct {
	State        UserState
	Data         map[string]interface{}
	LastActivity time.Time
}
