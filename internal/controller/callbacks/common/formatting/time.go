package formatting

import (
	"time"
)

func FormatDateTime(t time.Time) string {
	return t.Format("Mon, 2 Jan 2006 3:04 PM")
}

func FormatDate(t time.Time) string {
	return t.Format("2 Jan 2006")
}

// FormatDateWithWeekday e.g. "Wed, 13 Mar"
func FormatDateWithWeekday(t time.Time) string {
	return t.Format("Mon, 2 Jan")
}

func FormatTime(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatTimeRange e.g. "6 PM to 8 PM"
func FormatTimeRange(start, end time.Time) string {
	return hourLabel(start) + " to " + hourLabel(end)
}

func hourLabel(t time.Time) string {
	if t.Minute() != 0 {
		return t.Format("3:04 PM")
	}
	return t.Format("3 PM")
}

// RelativeDay returns Today/Tomorrow or the weekday date
func RelativeDay(date, today time.Time) string {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	switch d.Sub(t) {
	case 0:
		return "Today"
	case 24 * time.Hour:
		return "Tomorrow"
	}
	return FormatDateWithWeekday(date)
}
