package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/book"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/bookings"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/teams"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/wallet"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route dispatches a callback query to its handler
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	switch {
	// ===== Navigation =====
	case data == keyboard.CallbackBackToMain:
		common.HandleBackToMain(ctx, b, callback, h)
	case data == keyboard.CallbackNoop:
		common.AnswerCallback(ctx, b, callback.ID, "")
	case data == common.CallbackVenue:
		common.HandleVenue(ctx, b, callback, h)
	case data == common.CallbackBook:
		book.HandleOpen(ctx, b, callback, h)

	// ===== Slot picker =====
	case strings.HasPrefix(data, book.PrefixDate):
		book.HandleDate(ctx, b, callback, h)
	case strings.HasPrefix(data, book.PrefixWeek):
		book.HandleWeek(ctx, b, callback, h)
	case strings.HasPrefix(data, book.PrefixSlot):
		book.HandleSlot(ctx, b, callback, h)
	case data == book.Retry:
		book.HandleRetry(ctx, b, callback, h)
	case data == book.WeekImage:
		book.HandleWeekImage(ctx, b, callback, h)
	case data == book.Clear:
		book.HandleClear(ctx, b, callback, h)
	case data == book.Next:
		book.HandleNext(ctx, b, callback, h)
	case data == book.Back:
		book.HandleBack(ctx, b, callback, h)

	// ===== Booking summary =====
	case strings.HasPrefix(data, book.PrefixMode):
		book.HandleMode(ctx, b, callback, h)
	case data == book.PayPersonal:
		book.HandlePersonal(ctx, b, callback, h)
	case strings.HasPrefix(data, book.PrefixTeam):
		book.HandleTeam(ctx, b, callback, h)
	case strings.HasPrefix(data, book.PrefixSport):
		book.HandleSport(ctx, b, callback, h)
	case data == book.Confirm:
		book.HandleConfirm(ctx, b, callback, h)

	// ===== My bookings =====
	case strings.HasPrefix(data, bookings.PrefixList):
		bookings.HandleList(ctx, b, callback, h)
	case strings.HasPrefix(data, bookings.PrefixView):
		bookings.HandleView(ctx, b, callback, h)
	case strings.HasPrefix(data, bookings.PrefixCancelOK):
		bookings.HandleCancelConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, bookings.PrefixCancel):
		bookings.HandleCancel(ctx, b, callback, h)

	// ===== Wallet =====
	case data == wallet.View:
		wallet.HandleView(ctx, b, callback, h)
	case strings.HasPrefix(data, wallet.PrefixHistory):
		wallet.HandleHistory(ctx, b, callback, h)
	case data == wallet.TopUp:
		wallet.HandleTopUp(ctx, b, callback, h)
	case strings.HasPrefix(data, wallet.PrefixAmount):
		wallet.HandleAmount(ctx, b, callback, h)
	case strings.HasPrefix(data, wallet.PrefixTeamAmount):
		wallet.HandleTeamAmount(ctx, b, callback, h)
	case data == wallet.Custom, strings.HasPrefix(data, wallet.PrefixTeamCustom):
		wallet.HandleCustom(ctx, b, callback, h)

	// ===== Teams =====
	case data == teams.List:
		teams.HandleList(ctx, b, callback, h)
	case strings.HasPrefix(data, teams.PrefixView):
		teams.HandleView(ctx, b, callback, h)
	case data == teams.Create:
		teams.HandleCreate(ctx, b, callback, h)
	case data == teams.Join:
		teams.HandleJoin(ctx, b, callback, h)
	case strings.HasPrefix(data, teams.PrefixTransfer):
		teams.HandleTransfer(ctx, b, callback, h)
	case strings.HasPrefix(data, teams.PrefixTopUp):
		teams.HandleTopUp(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Unknown action")
	}
}
