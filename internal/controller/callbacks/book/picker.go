package book

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Slot picker callbacks
const (
	PrefixDate = keyboard.PrefixPickDate // bk:date:2024-03-13
	PrefixWeek = keyboard.PrefixPickWeek // bk:week:-1
	PrefixSlot = keyboard.PrefixPickSlot // bk:slot:18
	Retry      = "bk:retry"
	WeekImage  = "bk:img"
	Clear      = "bk:clear"
	Next       = "bk:next"
	Back       = "bk:back"
)

// Open starts a new booking session and shows the picker for the first bookable day.
// messageID 0 sends a new message.
func Open(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID, telegramID int64, messageID int) error {
	session := callbacktypes.NewBookingSession(booking.NewController(h.NewWindow(), h.Settings.SlotPrice))
	session.Selection.BeginFetch()

	text, kb := BuildPickerScreen(h, session)
	id, err := common.RenderMessage(ctx, b, chatID, messageID, text, kb)
	if err != nil {
		return err
	}
	session.SetMessageID(id)

	h.StateManager.SaveSession(telegramID, session)

	h.Logger.Info("Booking session opened",
		zap.Int64("telegram_id", telegramID),
		zap.String("date", session.Selection.ActiveDate().Format(time.DateOnly)),
	)

	_, err = refresh(ctx, b, h, chatID, session, false)
	return err
}

// HandleOpen opens the picker in place of the menu message
func HandleOpen(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		if err := Open(hc.Ctx, hc.Bot, h, hc.ChatID, hc.TelegramID, hc.MessageID()); err != nil {
			common.HandleError(hc, err, "open_picker")
			return
		}
		hc.Answer("")
	})
}

// BuildPickerScreen renders the week strip, the day's slots and the running total
func BuildPickerScreen(h *callbacktypes.Handler, session *callbacktypes.BookingSession) (string, *models.InlineKeyboardMarkup) {
	c := session.Selection
	active := c.ActiveDate()
	today := h.Today()
	status, _ := c.FetchState()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚽ <b>Book a slot</b> · %s\n", html.EscapeString(h.Settings.Venue.Name)))
	sb.WriteString(fmt.Sprintf("📅 <b>%s</b>", formatting.FormatDateWithWeekday(active)))
	if rel := formatting.RelativeDay(active, today); rel == "Today" || rel == "Tomorrow" {
		sb.WriteString(" (" + rel + ")")
	}
	sb.WriteString(fmt.Sprintf("\n💰 %s per hour\n", formatting.FormatPrice(c.Price())))
	sb.WriteString("🟢 free  🔴 booked  ✅ selected\n")

	switch status {
	case booking.FetchLoading, booking.FetchIdle:
		sb.WriteString("\n⏳ Loading availability...\n")
	case booking.FetchFailed:
		sb.WriteString("\n⚠️ Could not load availability for this day.\n")
	}

	if count := c.Count(); count > 0 {
		sb.WriteString(fmt.Sprintf("\n🛒 <b>Selected: %s, %s</b>\n",
			formatting.Plural(count, "slot"), formatting.FormatPrice(c.TotalPrice())))
		sb.WriteString(formatting.FormatSelection(c.Entries()))
	}

	kb := keyboard.NewBuilder().AddRows(keyboard.WeekStrip(c.Window(), active, today))
	if status == booking.FetchFailed {
		kb.Row(keyboard.Button("🔄 Retry", Retry))
	} else {
		kb.AddRows(keyboard.SlotGrid(c.ComputeSlotViews()))
	}

	if count := c.Count(); count > 0 {
		kb.Row(
			keyboard.Button("🖼 Week view", WeekImage),
			keyboard.Button("🧹 Clear", Clear),
		)
		kb.Row(keyboard.Button(
			fmt.Sprintf("➡️ Continue · %s (%d)", formatting.FormatPrice(c.TotalPrice()), count),
			Next,
		))
	} else {
		kb.Row(keyboard.Button("🖼 Week view", WeekImage))
	}
	kb.AddBackToMainButton()

	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}

// refresh loads the active day and redraws the picker. A result for a day the user
// already left is dropped silently; the newer request draws the screen.
func refresh(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, session *callbacktypes.BookingSession, showLoading bool) ([]booking.SelectionEntry, error) {
	if showLoading {
		session.Selection.BeginFetch()
		text, kb := BuildPickerScreen(h, session)
		if err := common.Render(ctx, b, chatID, session.MessageID(), text, kb); err != nil {
			return nil, err
		}
	}

	dropped, err := session.Selection.Refresh(ctx, h.Source())
	switch {
	case errors.Is(err, booking.ErrStaleFetch):
		h.Logger.Debug("Discarded stale availability", zap.Int64("chat_id", chatID))
		return nil, nil
	case err != nil:
		h.Logger.Warn("Availability fetch failed",
			zap.Int64("chat_id", chatID),
			zap.String("date", session.Selection.ActiveDate().Format(time.DateOnly)),
			zap.Error(err),
		)
	}

	text, kb := BuildPickerScreen(h, session)
	if renderErr := common.Render(ctx, b, chatID, session.MessageID(), text, kb); renderErr != nil {
		return dropped, renderErr
	}
	return dropped, nil
}

func droppedNotice(dropped []booking.SelectionEntry) string {
	if len(dropped) == 0 {
		return ""
	}
	return fmt.Sprintf("⚠️ %s you picked just got booked and %s removed",
		formatting.Plural(len(dropped), "slot"), pluralWas(len(dropped)))
}

func pluralWas(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}

// withPicker resolves the session and rejects buttons of an older picker message
func withPicker(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, handler func(*common.HandlerContext, *callbacktypes.BookingSession)) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext, session *callbacktypes.BookingSession) {
		if session.MessageID() != hc.MessageID() {
			hc.AnswerAlert(common.ErrorMessage(common.ErrSessionExpired))
			return
		}
		handler(hc, session)
	})
}

func showDay(hc *common.HandlerContext, session *callbacktypes.BookingSession) {
	dropped, err := refresh(hc.Ctx, hc.Bot, hc.Handler, hc.ChatID, session, true)
	if err != nil {
		common.HandleError(hc, err, "refresh_availability")
		return
	}
	if notice := droppedNotice(dropped); notice != "" {
		hc.AnswerAlert(notice)
		return
	}
	if status, _ := session.Selection.FetchState(); status == booking.FetchFailed {
		hc.Answer("⚠️ Could not load availability")
		return
	}
	hc.Answer("")
}

func HandleDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withPicker(ctx, b, callback, h, func(hc *common.HandlerContext, session *callbacktypes.BookingSession) {
		arg, err := common.CallbackArg(callback.Data, PrefixDate)
		if err != nil {
			common.HandleError(hc, err, "pick_date")
			return
		}
		date, err := time.ParseInLocation(time.DateOnly, arg, h.Location())
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "pick_date")
			return
		}

		if _, ok := session.Selection.SetActiveDate(date); !ok {
			hc.Answer("📆 This day is outside the booking window")
			return
		}
		showDay(hc, session)
	})
}

func HandleWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withPicker(ctx, b, callback, h, func(hc *common.HandlerContext, session *callbacktypes.BookingSession) {
		arg, err := common.CallbackArg(callback.Data, PrefixWeek)
		if err != nil {
			common.HandleError(hc, err, "shift_week")
			return
		}
		direction, err := strconv.Atoi(arg)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "shift_week")
			return
		}

		c := session.Selection
		target, ok := c.Window().ShiftWeek(c.ActiveDate(), direction)
		if !ok {
			hc.Answer("📆 No bookable days that way")
			return
		}
		c.SetActiveDate(target)
		showDay(hc, session)
	})
}

func HandleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withPicker(ctx, b, callback, h, func(hc *common.HandlerContext, session *callbacktypes.BookingSession) {
		arg, err := common.CallbackArg(callback.Data, PrefixSlot)
		if err != nil {
			common.HandleError(hc, err, "toggle_slot")
			return
		}
		hour, err := strconv.Atoi(arg)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "toggle_slot")
			return
		}
		desc, ok := booking.DescriptorByHour(hour)
		if !ok {
			common.HandleError(hc, common.ErrInvalidFormat, "toggle_slot")
			return
		}

		result := session.Selection.ToggleSlot(desc.Label)
		if !result.Changed {
			if status, _ := session.Selection.FetchState(); status != booking.FetchLoaded {
				hc.Answer("⏳ Availability is still loading")
				return
			}
			hc.Answer("🔴 This slot is already booked")
			return
		}

		text, kb := BuildPickerScreen(h, session)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "toggle_slot")
			return
		}

		switch {
		case !result.Selected:
			hc.Answer("➖ Removed " + desc.DisplayRange)
		case result.ScrollIntoView:
			// late slots sit at the bottom of the grid, right above Continue
			hc.Answer("✅ Added " + desc.DisplayRange + ". Continue is just below")
		default:
			hc.Answer("✅ Added " + desc.DisplayRange)
		}
	})
}

func HandleRetry(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withPicker(ctx, b, callback, h, func(hc *common.HandlerContext, session *callbacktypes.BookingSession) {
		showDay(hc, session)
	})
}

func HandleClear(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withPicker(ctx, b, callback, h, func(hc *common.HandlerContext, session *callbacktypes.BookingSession) {
		session.Selection.Clear()

		text, kb := BuildPickerScreen(h, session)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "clear_selection")
			return
		}
		hc.Answer("🧹 Selection cleared")
	})
}

// HandleNext moves the selection to the booking summary
func HandleNext(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withPicker(ctx, b, callback, h, func(hc *common.HandlerContext, session *callbacktypes.BookingSession) {
		handoff := session.Selection.Handoff()
		payload, err := handoff.Encode()
		if err != nil {
			common.HandleError(hc, err, "open_summary")
			return
		}

		draft, err := session.OpenSummary(payload)
		if errors.Is(err, booking.ErrEmptySelection) {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		if err != nil {
			common.HandleError(hc, err, "open_summary")
			return
		}
		if err := showSummary(hc, draft); err != nil {
			common.HandleError(hc, err, "open_summary")
			return
		}

		h.Logger.Info("Booking summary opened",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("draft_id", draft.ID().String()),
			zap.Int("slots", len(handoff.Entries)),
			zap.Int("total", handoff.TotalPrice),
		)
		hc.Answer("")
	})
}

// HandleBack returns from the summary to the picker, keeping the selection
func HandleBack(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withPicker(ctx, b, callback, h, func(hc *common.HandlerContext, session *callbacktypes.BookingSession) {
		session.CloseSummary()
		showDay(hc, session)
	})
}
