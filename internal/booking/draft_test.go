package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSlotHandoff() Handoff {
	return Handoff{
		Entries: []SelectionEntry{
			{Date: date(2024, time.March, 10), Hour: 15, SlotLabel: "3:00 PM", DisplayRange: "3 PM to 4 PM", Price: 900},
			{Date: date(2024, time.March, 11), Hour: 16, SlotLabel: "4:00 PM", DisplayRange: "4 PM to 5 PM", Price: 900},
		},
		TotalPrice: 1800,
	}
}

func TestDerivePayment(t *testing.T) {
	tests := []struct {
		name  string
		total int
		mode  BookingMode
		want  Payment
	}{
		{"self full", 1800, ModeSelfFull, Payment{Now: 1800, Later: 0}},
		{"team full", 1800, ModeTeamFull, Payment{Now: 1800, Later: 0}},
		{"challenge", 1800, ModeTeamChallenge, Payment{Now: 0, Later: 900}},
		{"challenge odd total", 900, ModeTeamChallenge, Payment{Now: 0, Later: 450}},
		{"empty", 0, ModeSelfFull, Payment{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePayment(tt.total, tt.mode))
		})
	}
}

func TestDraft_TeamFullToSelfFullResetsFunding(t *testing.T) {
	d := NewDraft(twoSlotHandoff())

	require.True(t, d.SetMode(ModeTeamFull))
	require.True(t, d.SelectTeam(1, true))
	assert.Equal(t, Team(1, true), d.Snapshot().Funding)

	require.True(t, d.SetMode(ModeSelfFull))
	snap := d.Snapshot()
	assert.Equal(t, Personal(), snap.Funding)
	assert.Equal(t, StageFundingSelected, snap.Stage)
}

func TestDraft_TeamModesKeepTeamBetweenThem(t *testing.T) {
	d := NewDraft(twoSlotHandoff())
	d.SetMode(ModeTeamFull)
	d.SelectTeam(7, true)

	d.SetMode(ModeTeamChallenge)
	snap := d.Snapshot()
	assert.Equal(t, int64(7), snap.Funding.TeamID)
	assert.Equal(t, StageFundingSelected, snap.Stage)
}

func TestDraft_SelfToTeamRequiresTeamPick(t *testing.T) {
	d := NewDraft(twoSlotHandoff())
	d.SetMode(ModeSelfFull)

	d.SetMode(ModeTeamFull)
	snap := d.Snapshot()
	assert.Equal(t, FundingTeam, snap.Funding.Kind)
	assert.Zero(t, snap.Funding.TeamID)
	assert.Equal(t, StageModeSelected, snap.Stage)

	_, err := d.Confirm()
	assert.ErrorIs(t, err, ErrTeamRequired)
	assert.False(t, d.SelectPersonal())
}

func TestDraft_ConfirmGate(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		d := NewDraft(twoSlotHandoff())
		_, err := d.Confirm()
		assert.ErrorIs(t, err, ErrModeRequired)
	})

	t.Run("empty selection", func(t *testing.T) {
		d := NewDraft(Handoff{})
		d.SetMode(ModeSelfFull)
		_, err := d.Confirm()
		assert.ErrorIs(t, err, ErrEmptySelection)
	})

	t.Run("team without admin role", func(t *testing.T) {
		d := NewDraft(twoSlotHandoff())
		d.SetMode(ModeTeamFull)
		d.SelectTeam(3, false)
		assert.ErrorIs(t, d.CanConfirm(), ErrTeamAdminRequired)

		_, err := d.Confirm()
		assert.ErrorIs(t, err, ErrTeamAdminRequired)
		assert.Equal(t, StageFundingSelected, d.Snapshot().Stage)
	})

	t.Run("invalid team id", func(t *testing.T) {
		d := NewDraft(twoSlotHandoff())
		d.SetMode(ModeTeamFull)
		assert.False(t, d.SelectTeam(0, true))
	})
}

func TestDraft_ConfirmOutcomes(t *testing.T) {
	self := NewDraft(twoSlotHandoff())
	self.SetMode(ModeSelfFull)
	out, err := self.Confirm()
	require.NoError(t, err)
	assert.Equal(t, OutcomePaymentRequired, out.Kind)
	assert.Equal(t, 1800, out.Payment.Now)
	assert.Equal(t, self.ID(), out.DraftID)

	_, err = self.Confirm()
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.False(t, self.SetMode(ModeTeamFull))

	challenge := NewDraft(twoSlotHandoff())
	challenge.SetMode(ModeTeamChallenge)
	challenge.SelectTeam(2, true)
	out, err = challenge.Confirm()
	require.NoError(t, err)
	assert.Equal(t, OutcomeReserved, out.Kind)
	assert.Equal(t, Payment{Now: 0, Later: 900}, out.Payment)
}

func TestDraft_Reopen(t *testing.T) {
	d := NewDraft(twoSlotHandoff())
	d.SetMode(ModeSelfFull)
	_, err := d.Confirm()
	require.NoError(t, err)

	d.Reopen()
	assert.Equal(t, StageFundingSelected, d.Snapshot().Stage)
	assert.True(t, d.SetMode(ModeTeamFull))
}

func TestDraft_Sport(t *testing.T) {
	d := NewDraft(twoSlotHandoff())
	d.SetMode(ModeSelfFull)
	assert.ErrorIs(t, d.SetSport(SportFootball), ErrSportNotApplicable)

	d.SetMode(ModeTeamChallenge)
	require.NoError(t, d.SetSport(SportFootball))
	assert.Equal(t, SportFootball, d.Snapshot().Sport)

	d.SetMode(ModeTeamFull)
	assert.Equal(t, SportCricket, d.Snapshot().Sport)
}
