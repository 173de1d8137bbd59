package booking

import "time"

const daysInWeek = 7

// Day truncates t to the start of its calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsNavigable reports whether candidate lies in [min, max], inclusive, at day granularity.
func IsNavigable(candidate, min, max time.Time) bool {
	c := Day(candidate)
	return !c.Before(Day(min)) && !c.After(Day(max))
}

// Window is the range of dates a user may book.
type Window struct {
	Min time.Time
	Max time.Time
}

// NewWindow opens a window from today through today+days.
func NewWindow(today time.Time, days int) Window {
	start := Day(today)
	return Window{Min: start, Max: start.AddDate(0, 0, days)}
}

func (w Window) Contains(date time.Time) bool {
	return IsNavigable(date, w.Min, w.Max)
}

// ShiftWeek moves selected by a whole week in the given direction.
// Returns false when the target day falls outside the window.
func (w Window) ShiftWeek(selected time.Time, direction int) (time.Time, bool) {
	if direction == 0 {
		return Day(selected), true
	}
	step := daysInWeek
	if direction < 0 {
		step = -daysInWeek
	}
	target := Day(selected).AddDate(0, 0, step)
	if !w.Contains(target) {
		return Day(selected), false
	}
	return target, true
}

// WeekDay is one cell of the week strip.
type WeekDay struct {
	Date     time.Time
	Selected bool
	Today    bool
	Disabled bool
}

// StartOfWeek returns the Sunday that opens the week containing date.
func StartOfWeek(date time.Time) time.Time {
	d := Day(date)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekDays builds the seven days of the week containing selected.
func (w Window) WeekDays(selected, today time.Time) []WeekDay {
	start := StartOfWeek(selected)
	days := make([]WeekDay, 0, daysInWeek)
	for i := 0; i < daysInWeek; i++ {
		date := start.AddDate(0, 0, i)
		days = append(days, WeekDay{
			Date:     date,
			Selected: SameDay(date, selected),
			Today:    SameDay(date, today),
			Disabled: !w.Contains(date),
		})
	}
	return days
}
