package book

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Booking summary callbacks
const (
	PrefixMode  = "sm:mode:" // sm:mode:team_challenge
	PayPersonal = "sm:pay:personal"
	PrefixTeam  = "sm:team:"  // sm:team:12
	PrefixSport = "sm:sport:" // sm:sport:football
	Confirm     = "sm:confirm"

	createTeam = "tm:create"
	myBookings = "mb:list:all:0"
	bookAgain  = "venue:book"
)

// SummaryData is what the summary screen shows besides the draft itself
type SummaryData struct {
	Balance int
	Teams   []*model.TeamMembership
}

func (d SummaryData) teamName(id int64) string {
	for _, m := range d.Teams {
		if m.Team.ID == id {
			return m.Team.Name
		}
	}
	return ""
}

// BuildSummaryScreen renders the draft with mode, wallet and sport choices
func BuildSummaryScreen(snap booking.DraftSnapshot, data SummaryData) (string, *models.InlineKeyboardMarkup) {
	text := formatting.FormatDraft(snap, data.teamName(snap.Funding.TeamID))
	if snap.Mode == "" {
		text += "\n\n👇 Choose how you want to book"
	}

	kb := keyboard.NewBuilder().Row(
		modeButton("🙋 Self", booking.ModeSelfFull, snap.Mode),
		modeButton("👥 Team", booking.ModeTeamFull, snap.Mode),
		modeButton("⚔️ Challenge", booking.ModeTeamChallenge, snap.Mode),
	)

	switch {
	case snap.Mode == booking.ModeSelfFull:
		kb.Row(keyboard.Button(
			keyboard.Mark(fmt.Sprintf("💳 Personal wallet · %s", formatting.FormatPrice(data.Balance)), snap.Funding.Kind == booking.FundingPersonal),
			PayPersonal,
		))
	case snap.Mode.RequiresTeam() && len(data.Teams) == 0:
		kb.Row(keyboard.Button("➕ Create a team to pay from", createTeam))
	case snap.Mode.RequiresTeam():
		for _, m := range data.Teams {
			label := fmt.Sprintf("👥 %s · %s", m.Team.Name, formatting.FormatPrice(m.Team.Balance))
			if !m.IsAdmin() {
				label = "🔒 " + m.Team.Name
			}
			selected := snap.Funding.Kind == booking.FundingTeam && snap.Funding.TeamID == m.Team.ID
			kb.Row(keyboard.Button(keyboard.Mark(label, selected), fmt.Sprintf("%s%d", PrefixTeam, m.Team.ID)))
		}
	}

	if snap.Mode == booking.ModeTeamChallenge {
		kb.Row(
			keyboard.Button(keyboard.Mark("🏏 Cricket", snap.Sport == booking.SportCricket), PrefixSport+string(booking.SportCricket)),
			keyboard.Button(keyboard.Mark("⚽ Football", snap.Sport == booking.SportFootball), PrefixSport+string(booking.SportFootball)),
		)
	}

	if snap.Mode != "" {
		confirm := "✅ Confirm · pay " + formatting.FormatPrice(snap.Payment.Now)
		if snap.Payment.Now == 0 {
			confirm = "✅ Confirm · reserve"
		}
		kb.Row(keyboard.Button(confirm, Confirm))
	}

	kb.Row(keyboard.Button("⬅️ Change slots", Back), keyboard.BackToMainButton())
	return text, kb.Build()
}

func modeButton(text string, mode, current booking.BookingMode) models.InlineKeyboardButton {
	return keyboard.Button(keyboard.Mark(text, mode == current), PrefixMode+string(mode))
}

func loadSummaryData(hc *common.HandlerContext, snap booking.DraftSnapshot) (SummaryData, error) {
	var data SummaryData
	switch {
	case snap.Mode == booking.ModeSelfFull:
		balance, err := hc.Handler.WalletService.Balance(hc.Ctx, model.PersonalWallet(hc.User.ID))
		if err != nil {
			return data, err
		}
		data.Balance = balance
	case snap.Mode.RequiresTeam():
		teams, err := hc.Handler.TeamService.MyTeams(hc.Ctx, hc.User.ID)
		if err != nil {
			return data, err
		}
		data.Teams = teams
	}
	return data, nil
}

func showSummary(hc *common.HandlerContext, draft *booking.Draft) error {
	snap := draft.Snapshot()
	data, err := loadSummaryData(hc, snap)
	if err != nil {
		return err
	}
	text, kb := BuildSummaryScreen(snap, data)
	return hc.EditMessage(text, kb)
}

// withDraft is withPicker for buttons of the summary screen
func withDraft(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, handler func(*common.HandlerContext, *callbacktypes.BookingSession, *booking.Draft)) {
	withPicker(ctx, b, callback, h, func(hc *common.HandlerContext, session *callbacktypes.BookingSession) {
		draft := session.Draft()
		if draft == nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrSessionExpired))
			return
		}
		handler(hc, session, draft)
	})
}

func HandleMode(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, _ *callbacktypes.BookingSession, draft *booking.Draft) {
		arg, err := common.CallbackArg(callback.Data, PrefixMode)
		if err != nil {
			common.HandleError(hc, err, "set_mode")
			return
		}

		if !draft.SetMode(booking.BookingMode(arg)) {
			reason := draft.CanConfirm()
			if !errors.Is(reason, booking.ErrAlreadyConfirmed) {
				reason = common.ErrInvalidFormat
			}
			hc.AnswerAlert(common.ErrorMessage(reason))
			return
		}
		if err := showSummary(hc, draft); err != nil {
			common.HandleError(hc, err, "set_mode")
			return
		}
		hc.Answer(formatting.GetModeDisplay(booking.BookingMode(arg)).Text)
	})
}

func HandlePersonal(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, _ *callbacktypes.BookingSession, draft *booking.Draft) {
		if !draft.SelectPersonal() {
			hc.AnswerAlert(common.ErrorMessage(booking.ErrFundingRequired))
			return
		}
		if err := showSummary(hc, draft); err != nil {
			common.HandleError(hc, err, "select_personal")
			return
		}
		hc.Answer("💳 Personal wallet")
	})
}

func HandleTeam(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, _ *callbacktypes.BookingSession, draft *booking.Draft) {
		teamID, err := common.ParseIDFromCallback(callback.Data, PrefixTeam)
		if err != nil {
			common.HandleError(hc, err, "select_team")
			return
		}

		membership, err := h.TeamService.GetMembership(hc.Ctx, teamID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "select_team")
			return
		}

		if !draft.SelectTeam(teamID, membership.IsAdmin()) {
			hc.AnswerAlert(common.ErrorMessage(booking.ErrTeamRequired))
			return
		}
		if err := showSummary(hc, draft); err != nil {
			common.HandleError(hc, err, "select_team")
			return
		}
		if !membership.IsAdmin() {
			hc.AnswerAlert(common.ErrorMessage(booking.ErrTeamAdminRequired))
			return
		}
		hc.Answer("👥 " + membership.Team.Name)
	})
}

func HandleSport(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, _ *callbacktypes.BookingSession, draft *booking.Draft) {
		arg, err := common.CallbackArg(callback.Data, PrefixSport)
		if err != nil {
			common.HandleError(hc, err, "set_sport")
			return
		}

		if err := draft.SetSport(booking.Sport(arg)); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		if err := showSummary(hc, draft); err != nil {
			common.HandleError(hc, err, "set_sport")
			return
		}
		hc.Answer(formatting.GetSportDisplay(booking.Sport(arg)).Text)
	})
}

// HandleConfirm reserves the slots. A conflict sends the user back to the picker with fresh availability.
func HandleConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, session *callbacktypes.BookingSession, draft *booking.Draft) {
		if err := draft.CanConfirm(); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		created, err := h.BookingService.Confirm(hc.Ctx, hc.User.ID, draft)
		switch {
		case errors.Is(err, service.ErrSlotTaken):
			dropped := dropTakenSlot(session, err)
			h.Logger.Info("Booking conflict, returning to picker",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.Bool("slot_dropped", dropped),
				zap.Error(err))
			session.CloseSummary()
			backToPicker(hc, session, err)
			return
		case errors.Is(err, service.ErrPriceChanged), errors.Is(err, service.ErrSlotInPast):
			h.Logger.Info("Selection no longer valid, clearing",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.Error(err))
			session.CloseSummary()
			session.Selection.Clear()
			session.Selection.SetWindow(h.NewWindow())
			backToPicker(hc, session, err)
			return
		case err != nil:
			common.HandleError(hc, err, "confirm_booking")
			return
		}

		h.StateManager.DropSession(hc.TelegramID)

		text, kb := BuildConfirmedScreen(created, h.Clock())
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show confirmation",
				zap.String("booking_id", created.ID.String()),
				zap.Error(err))
		}
		hc.Answer("🎉 Booked!")
	})
}

// dropTakenSlot removes the slot a booking conflict names from the selection,
// whichever day it is on, so the next confirm does not hit the same conflict
func dropTakenSlot(session *callbacktypes.BookingSession, err error) bool {
	var taken *service.SlotTakenError
	if !errors.As(err, &taken) {
		return false
	}
	_, ok := session.Selection.Remove(taken.Entry.Date, taken.Entry.SlotLabel)
	return ok
}

func backToPicker(hc *common.HandlerContext, session *callbacktypes.BookingSession, cause error) {
	if _, err := refresh(hc.Ctx, hc.Bot, hc.Handler, hc.ChatID, session, true); err != nil {
		hc.Handler.Logger.Error("Failed to redraw picker", zap.Error(err))
	}
	hc.AnswerAlert(common.ErrorMessage(cause))
}

// BuildConfirmedScreen is shown once the booking is stored
func BuildConfirmedScreen(b *model.Booking, now time.Time) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	if b.Status == model.BookingStatusReserved {
		sb.WriteString("🎯 <b>Challenge posted!</b>\nYour slots are held. You pay your half once an opponent team joins.\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("🎉 <b>Booking confirmed!</b>\n%s was paid from the %s.\n\n",
			formatting.FormatPrice(b.PaidAmount), walletName(b)))
	}
	sb.WriteString(formatting.FormatBookingDetails(b, now))

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("📅 My bookings", myBookings),
			keyboard.Button("⚽ Book more", bookAgain),
		).
		AddBackToMainButton().
		Build()
	return sb.String(), kb
}

func walletName(b *model.Booking) string {
	if b.TeamID != nil {
		if b.TeamName != "" {
			return "wallet of " + html.EscapeString(b.TeamName)
		}
		return "team wallet"
	}
	return "personal wallet"
}
