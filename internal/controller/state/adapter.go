package state

import (
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
)

// Adapter exposes Manager to callback handlers, with typed access to the booking session
type Adapter struct {
	sm *Manager
}

func NewAdapter(sm *Manager) *Adapter {
	return &Adapter{sm: sm}
}

func (a *Adapter) SetState(telegramID int64, state callbacktypes.UserState) {
	a.sm.SetState(telegramID, UserState(state))
}

func (a *Adapter) ClearState(telegramID int64) {
	a.sm.ClearState(telegramID)
}

func (a *Adapter) GetData(telegramID int64, key string) (interface{}, bool) {
	return a.sm.GetData(telegramID, key)
}

func (a *Adapter) SetData(telegramID int64, key string, value interface{}) {
	a.sm.SetData(telegramID, key, value)
}

// Session returns the user's booking session; anything else under the key is ignored
func (a *Adapter) Session(telegramID int64) (*callbacktypes.BookingSession, bool) {
	raw, ok := a.sm.GetData(telegramID, KeyBookingSession)
	if !ok {
		return nil, false
	}
	session, ok := raw.(*callbacktypes.BookingSession)
	if !ok || session == nil {
		return nil, false
	}
	return session, true
}

// SaveSession replaces the user's booking session
func (a *Adapter) SaveSession(telegramID int64, session *callbacktypes.BookingSession) {
	a.sm.SetData(telegramID, KeyBookingSession, session)
}

func (a *Adapter) DropSession(telegramID int64) {
	a.sm.DeleteData(telegramID, KeyBookingSession)
}
