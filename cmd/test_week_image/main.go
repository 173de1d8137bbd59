package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/render"
)

// Renders a sample week overview to week.png for checking the layout by eye
func main() {
	now := time.Now()
	today := booking.Day(now)
	start := booking.StartOfWeek(today)

	key := func(offset int) string {
		return start.AddDate(0, 0, offset).Format(time.DateOnly)
	}

	grid := render.WeekGrid{
		Start: start,
		Booked: map[string][]int{
			key(0): {6, 7, 18, 19, 20},
			key(1): {17, 18},
			key(2): {5, 6, 21, 22, 23},
			key(4): {19, 20, 21},
			key(5): {7, 8, 9, 16, 17, 18, 19},
			key(6): {6, 7, 8},
		},
		Selected: map[string][]int{
			key(3): {18, 19},
		},
		Window: booking.NewWindow(today, 30),
		Now:    now,
	}

	imageData, err := render.WeekImage(grid)
	if err != nil {
		fmt.Printf("Failed to render image: %v\n", err)
		os.Exit(1)
	}

	filename := "week.png"
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Failed to save image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Saved %s\n", filename)
	fmt.Printf("📅 Week of %s\n", start.Format("02 Jan 2006"))
}
