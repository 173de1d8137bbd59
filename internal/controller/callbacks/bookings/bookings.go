package bookings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	PrefixList     = "mb:list:"      // mb:list:team:0 (filter:page)
	PrefixView     = "mb:view:"      // mb:view:<booking uuid>
	PrefixCancel   = "mb:cancel:"    // mb:cancel:<booking uuid>
	PrefixCancelOK = "mb:cancel_ok:" // mb:cancel_ok:<booking uuid>
)

var filters = []struct {
	filter model.BookingFilter
	label  string
}{
	{model.FilterAll, "All"},
	{model.FilterPersonal, "🙋 Mine"},
	{model.FilterTeam, "👥 Team"},
	{model.FilterChallenge, "⚔️ Challenge"},
}

func listData(filter model.BookingFilter, page int) string {
	return fmt.Sprintf("%s%s:%d", PrefixList, filter, page)
}

// ParseListData reads "mb:list:<filter>:<page>"
func ParseListData(data string) (model.BookingFilter, int, error) {
	arg, err := common.CallbackArg(data, PrefixList)
	if err != nil {
		return model.FilterAll, 0, err
	}
	parts := strings.SplitN(arg, ":", 2)
	if len(parts) != 2 {
		return model.FilterAll, 0, common.ErrInvalidFormat
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil || page < 0 {
		return model.FilterAll, 0, common.ErrInvalidFormat
	}
	return model.ParseBookingFilter(parts[0]), page, nil
}

// BuildListScreen renders one page of the user's bookings
func BuildListScreen(items []*model.Booking, filter model.BookingFilter, page, pages int, now time.Time) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	filterRow := make([]models.InlineKeyboardButton, 0, len(filters))
	for _, f := range filters {
		filterRow = append(filterRow, keyboard.Button(keyboard.Mark(f.label, f.filter == filter), listData(f.filter, 0)))
	}
	kb.Row(filterRow...)

	if len(items) == 0 {
		text := "📅 <b>My bookings</b>\n\nNothing here yet. Tap below to book your first slot!"
		kb.Row(keyboard.Button("⚽ Book a slot", common.CallbackBook))
		return text, kb.AddBackToMainButton().Build()
	}

	var sb strings.Builder
	sb.WriteString("📅 <b>My bookings</b>\n\n")
	for i, b := range items {
		n := page*service.BookingsPageSize + i + 1
		sb.WriteString(formatting.FormatBookingShort(b, n, now))
		sb.WriteString("\n\n")

		label := fmt.Sprintf("%d. %s", n, formatting.ShortID(b.ID.String()))
		if first := b.FirstSlotStart(); !first.IsZero() {
			label = fmt.Sprintf("%d. %s %s", n, formatting.FormatDateWithWeekday(first), formatting.FormatTime(first))
		}
		kb.Row(keyboard.Button(label, PrefixView+b.ID.String()))
	}
	sb.WriteString("Tap a booking for details.")

	kb.AddPagination(fmt.Sprintf("%s%s:", PrefixList, filter), page, pages)
	return sb.String(), kb.AddBackToMainButton().Build()
}

// Cancellable reports whether the user may still cancel b
func Cancellable(b *model.Booking, userID int64, now time.Time) bool {
	return b.UserID == userID && b.Status.Active() && b.FirstSlotStart().After(now)
}

func BuildDetailScreen(b *model.Booking, userID int64, now time.Time) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	if Cancellable(b, userID, now) {
		kb.Row(keyboard.Button("🗑 Cancel booking", PrefixCancel+b.ID.String()))
	}
	kb.Row(keyboard.BackButton(listData(model.FilterAll, 0)), keyboard.BackToMainButton())
	return formatting.FormatBookingDetails(b, now), kb.Build()
}

func BuildCancelConfirmScreen(b *model.Booking, now time.Time) (string, *models.InlineKeyboardMarkup) {
	text := "⚠️ <b>Cancel this booking?</b>\n\n" + formatting.FormatBookingDetails(b, now)
	if b.PaidAmount > 0 {
		text += fmt.Sprintf("\n\n↩️ %s will be refunded to the wallet it was paid from.", formatting.FormatPrice(b.PaidAmount))
	}
	kb := keyboard.NewBuilder().
		AddRows(keyboard.YesNoButtons(PrefixCancelOK+b.ID.String(), PrefixView+b.ID.String())).
		Build()
	return text, kb
}

// Show draws the bookings list; messageID 0 sends a new message
func Show(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, user *model.User, messageID int, filter model.BookingFilter, page int) error {
	items, pages, err := h.BookingService.ListBookings(ctx, user.ID, filter, page)
	if err != nil {
		return err
	}
	page = keyboard.ClampPage(page, pages)
	text, kb := BuildListScreen(items, filter, page, pages, h.Clock())
	return common.Render(ctx, b, chatID, messageID, text, kb)
}

func HandleList(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		filter, page, err := ParseListData(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "list_bookings")
			return
		}
		if err := Show(hc.Ctx, hc.Bot, h, hc.ChatID, hc.User, hc.MessageID(), filter, page); err != nil {
			common.HandleError(hc, err, "list_bookings")
			return
		}
		hc.Answer("")
	})
}

func parseBookingID(data, prefix string) (uuid.UUID, error) {
	arg, err := common.CallbackArg(data, prefix)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, common.ErrInvalidFormat
	}
	return id, nil
}

func HandleView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := parseBookingID(callback.Data, PrefixView)
		if err != nil {
			common.HandleError(hc, err, "view_booking")
			return
		}

		bk, err := h.BookingService.GetBooking(hc.Ctx, hc.User.ID, id)
		if err != nil {
			common.HandleError(hc, err, "view_booking")
			return
		}

		text, kb := BuildDetailScreen(bk, hc.User.ID, h.Clock())
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "view_booking")
			return
		}
		hc.Answer("")
	})
}

func HandleCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := parseBookingID(callback.Data, PrefixCancel)
		if err != nil {
			common.HandleError(hc, err, "cancel_booking")
			return
		}

		bk, err := h.BookingService.GetBooking(hc.Ctx, hc.User.ID, id)
		if err != nil {
			common.HandleError(hc, err, "cancel_booking")
			return
		}
		if !Cancellable(bk, hc.User.ID, h.Clock()) {
			hc.AnswerAlert(common.ErrorMessage(serviceNotCancellable(bk, hc.User.ID)))
			return
		}

		text, kb := BuildCancelConfirmScreen(bk, h.Clock())
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "cancel_booking")
			return
		}
		hc.Answer("")
	})
}

func HandleCancelConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := parseBookingID(callback.Data, PrefixCancelOK)
		if err != nil {
			common.HandleError(hc, err, "confirm_cancel")
			return
		}

		bk, err := h.BookingService.CancelBooking(hc.Ctx, hc.User.ID, id)
		if err != nil {
			common.HandleError(hc, err, "confirm_cancel")
			return
		}

		h.Logger.Info("Booking cancelled by user",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("booking_id", bk.ID.String()))

		text, kb := BuildDetailScreen(bk, hc.User.ID, h.Clock())
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show cancelled booking", zap.Error(err))
		}

		answer := "✅ Booking cancelled"
		if bk.PaidAmount > 0 {
			answer += ", " + formatting.FormatPrice(bk.PaidAmount) + " refunded"
		}
		hc.Answer(answer)
	})
}

func serviceNotCancellable(b *model.Booking, userID int64) error {
	if b.UserID != userID {
		return service.ErrNotBookingOwner
	}
	return service.ErrBookingNotCancellable
}
