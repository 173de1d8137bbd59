package booking

import "time"

const (
	SlotsPerDay = 24

	labelLayout = "3:04 PM"
	rangeLayout = "3 PM"
)

// TimeSlotDescriptor describes one bookable hour of a day.
type TimeSlotDescriptor struct {
	Hour         int    `json:"hour"`
	Label        string `json:"label"`         // "3:00 PM"
	DisplayRange string `json:"display_range"` // "3 PM to 4 PM"
}

var dailyCatalog = buildCatalog()

func buildCatalog() []TimeSlotDescriptor {
	// fixed UTC anchor so the catalog never depends on DST
	anchor := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	catalog := make([]TimeSlotDescriptor, 0, SlotsPerDay)
	for h := 0; h < SlotsPerDay; h++ {
		start := anchor.Add(time.Duration(h) * time.Hour)
		end := start.Add(time.Hour)
		catalog = append(catalog, TimeSlotDescriptor{
			Hour:         h,
			Label:        start.Format(labelLayout),
			DisplayRange: start.Format(rangeLayout) + " to " + end.Format(rangeLayout),
		})
	}
	return catalog
}

// GenerateDailyCatalog returns the 24 one-hour slots of a day, midnight first.
// The result is a fresh copy and is identical for every calendar day.
func GenerateDailyCatalog() []TimeSlotDescriptor {
	out := make([]TimeSlotDescriptor, len(dailyCatalog))
	copy(out, dailyCatalog)
	return out
}

// HourFromLabel parses a "3:00 PM" label into its 24-hour value.
func HourFromLabel(label string) (int, bool) {
	t, err := time.Parse(labelLayout, label)
	if err != nil || t.Minute() != 0 {
		return 0, false
	}
	return t.Hour(), true
}

// DescriptorByLabel looks up a catalog entry by label.
func DescriptorByLabel(label string) (TimeSlotDescriptor, bool) {
	hour, ok := HourFromLabel(label)
	if !ok {
		return TimeSlotDescriptor{}, false
	}
	return dailyCatalog[hour], true
}

// DescriptorByHour looks up a catalog entry by hour of day.
func DescriptorByHour(hour int) (TimeSlotDescriptor, bool) {
	if hour < 0 || hour >= SlotsPerDay {
		return TimeSlotDescriptor{}, false
	}
	return dailyCatalog[hour], true
}
