package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Freeeeeet/turf_bot/internal/controller/state"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/service"
	"github.com/Freeeeeet/turf_bot/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestCommandArg(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/jointeam", ""},
		{"/jointeam K7Q2ZP", "K7Q2ZP"},
		{"  /jointeam   k7q2zp  ", "k7q2zp"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, commandArg(tt.text), tt.text)
	}
}

func TestHelpTextListsEveryCommand(t *testing.T) {
	text := helpText()
	for _, c := range commandList {
		assert.Contains(t, text, "/"+c.Command)
	}
}

func TestProfileText(t *testing.T) {
	text := profileText(&model.User{DisplayName: "Ravi<3", Phone: "+919876543210"})

	assert.Contains(t, text, "Name: Ravi&lt;3")
	assert.Contains(t, text, "Email: not set")
	assert.Contains(t, text, "Phone: +919876543210")
}

func TestIsUserError(t *testing.T) {
	assert.True(t, isUserError(validation.DisplayName("")))
	assert.True(t, isUserError(fmt.Errorf("transfer: %w", service.ErrInsufficientFunds)))
	assert.True(t, isUserError(service.ErrTeamNotFound))
	assert.False(t, isUserError(errors.New("connection refused")))
	assert.False(t, isUserError(service.ErrUserNotFound))
}

func TestStateDataHelpers(t *testing.T) {
	sm := state.NewManager()
	sm.SetState(1, state.StateTransferAmount)
	sm.SetData(1, state.KeyTeamID, int64(42))
	sm.SetData(1, state.KeyProfileName, "Ravi")

	id, ok := int64Data(sm, 1, state.KeyTeamID)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "Ravi", stringData(sm, 1, state.KeyProfileName))

	_, ok = int64Data(sm, 2, state.KeyTeamID)
	assert.False(t, ok)
	assert.Empty(t, stringData(sm, 2, state.KeyProfileName))
}
