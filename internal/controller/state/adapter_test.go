package state

import (
	"testing"

	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/stretchr/testify/assert"
)

func TestAdapter_Session(t *testing.T) {
	sm := NewManager()
	a := NewAdapter(sm)

	_, ok := a.Session(5)
	assert.False(t, ok)

	sm.SetData(5, KeyBookingSession, "not a session")
	_, ok = a.Session(5)
	assert.False(t, ok)

	session := callbacktypes.NewBookingSession(nil)
	session.SetMessageID(99)
	a.SaveSession(5, session)
	got, ok := a.Session(5)
	assert.True(t, ok)
	assert.Same(t, session, got)

	// a dialog ending does not drop the session
	a.SetState(5, callbacktypes.UserState(StateTopUpAmount))
	a.SetState(5, callbacktypes.UserState(StateNone))
	_, ok = a.Session(5)
	assert.True(t, ok)

	a.DropSession(5)
	_, ok = a.Session(5)
	assert.False(t, ok)
	assert.Equal(t, 0, sm.Len())
}
