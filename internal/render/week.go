package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
)

const (
	imageWidth       = 1100
	imageHeight      = 860
	headerHeight     = 90
	leftLabelsWidth  = 80
	legendWidth      = 130
	dayPaddingX      = 6
	slotBorderRadius = 4.0
	totalDaysInWeek  = 7
	hoursPerDay      = booking.SlotsPerDay
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{60, 65, 70, 255}
	hourLabelColor = color.RGBA{110, 115, 120, 255}
	hourLineColor  = color.NRGBA{170, 170, 170, 255}
	todayBgColor   = color.NRGBA{255, 214, 153, 255}
	evenDayColor   = color.NRGBA{238, 238, 238, 255}
	oddDayColor    = color.NRGBA{226, 226, 226, 255}
	outsideColor   = color.NRGBA{205, 205, 205, 255}

	slotFreeColor     = color.RGBA{133, 193, 85, 230}
	slotBookedColor   = color.RGBA{239, 118, 122, 230}
	slotSelectedColor = color.RGBA{74, 144, 226, 230}
	slotPastColor     = color.RGBA{180, 180, 180, 200}
)

// WeekGrid is the input for one week of turf availability
type WeekGrid struct {
	Start    time.Time        // first day shown
	Booked   map[string][]int // YYYY-MM-DD -> booked hours
	Selected map[string][]int // YYYY-MM-DD -> hours picked by the viewer
	Window   booking.Window   // days outside are drawn greyed out
	Now      time.Time
}

type cellState int

const (
	cellFree cellState = iota
	cellBooked
	cellSelected
	cellPast
)

func hourSet(m map[string][]int, key string) map[int]bool {
	set := make(map[int]bool, len(m[key]))
	for _, h := range m[key] {
		set[h] = true
	}
	return set
}

func (g WeekGrid) cell(day time.Time, hour int, booked, selected map[int]bool) cellState {
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
	switch {
	case !g.Window.Contains(day) || !start.After(g.Now):
		return cellPast
	case booked[hour]:
		return cellBooked
	case selected[hour]:
		return cellSelected
	default:
		return cellFree
	}
}

func cellColor(state cellState) color.Color {
	switch state {
	case cellBooked:
		return slotBookedColor
	case cellSelected:
		return slotSelectedColor
	case cellPast:
		return slotPastColor
	default:
		return slotFreeColor
	}
}

// WeekImage draws a 7 x 24 availability chart as PNG
func WeekImage(g WeekGrid) ([]byte, error) {
	start := booking.Day(g.Start)
	today := booking.Day(g.Now)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight - 10
	cellHeight := float64(dayHeight) / float64(hoursPerDay)

	drawHeader(dc, start)
	drawHourLabels(dc, cellHeight)

	for i := 0; i < totalDaysInWeek; i++ {
		day := start.AddDate(0, 0, i)
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, booking.SameDay(day, today), g.Window.Contains(day))
		drawDayHeader(dc, day, x, y, dayWidth)

		key := day.Format(time.DateOnly)
		booked := hourSet(g.Booked, key)
		selected := hourSet(g.Selected, key)
		for h := 0; h < hoursPerDay; h++ {
			drawCell(dc, g.cell(day, h, booked, selected), x, y+float64(h)*cellHeight, dayWidth, cellHeight)
		}
	}

	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(dc *gg.Context, start time.Time) {
	end := start.AddDate(0, 0, totalDaysInWeek-1)
	title := fmt.Sprintf("%s - %s", start.Format("2 Jan"), end.Format("2 Jan 2006"))

	dc.SetFontFace(inconsolata.Bold8x16)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/4, 0.5, 0.5)
}

func drawHourLabels(dc *gg.Context, cellHeight float64) {
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(hourLabelColor)

	for h := 0; h < hoursPerDay; h++ {
		d, _ := booking.DescriptorByHour(h)
		y := float64(headerHeight) + float64(h)*cellHeight + cellHeight/2
		dc.DrawStringAnchored(d.Label, float64(leftLabelsWidth)-8, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday, inWindow bool) {
	switch {
	case !inWindow:
		dc.SetColor(outsideColor)
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, day time.Time, x, y float64, dayWidth int) {
	dc.SetFontFace(inconsolata.Bold8x16)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(day.Format("Mon"), x+float64(dayWidth)/2, y-34, 0.5, 0.5)
	dc.DrawStringAnchored(day.Format("02 Jan"), x+float64(dayWidth)/2, y-14, 0.5, 0.5)
}

func drawCell(dc *gg.Context, state cellState, x, y float64, dayWidth int, cellHeight float64) {
	w := float64(dayWidth) - dayPaddingX*2
	h := cellHeight - 2

	dc.SetColor(cellColor(state))
	dc.DrawRoundedRectangle(x+dayPaddingX, y+1, w, h, slotBorderRadius)
	dc.Fill()

	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	dc.DrawLine(x, y, x+float64(dayWidth), y)
	dc.Stroke()
}

func drawLegend(dc *gg.Context, dayWidth int) {
	x := float64(leftLabelsWidth+totalDaysInWeek*dayWidth) + 14
	y := float64(headerHeight) + 10

	items := []struct {
		label string
		clr   color.Color
	}{
		{"Available", slotFreeColor},
		{"Booked", slotBookedColor},
		{"Your pick", slotSelectedColor},
		{"Closed", slotPastColor},
	}

	dc.SetFontFace(basicfont.Face7x13)
	const boxW, boxH = 18.0, 14.0
	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(item.label, x+boxW+6, y+boxH/2, 0, 0.5)
		y += boxH + 12
	}
}
