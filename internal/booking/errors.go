package booking

import "errors"

var (
	ErrAvailabilityUnknown = errors.New("slot availability unknown")
	ErrStaleFetch          = errors.New("availability result is for another date")

	ErrEmptySelection     = errors.New("no slots selected")
	ErrModeRequired       = errors.New("booking mode not selected")
	ErrFundingRequired    = errors.New("funding source not selected")
	ErrTeamRequired       = errors.New("team not selected")
	ErrTeamAdminRequired  = errors.New("team wallet requires team admin")
	ErrSportNotApplicable = errors.New("sport can only be chosen for a challenge")
	ErrAlreadyConfirmed   = errors.New("booking already confirmed")
)
