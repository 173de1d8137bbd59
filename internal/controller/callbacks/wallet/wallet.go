package wallet

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/turf_bot/internal/controller/state"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	View             = "wl:view"
	PrefixHistory    = "wl:hist:" // wl:hist:0
	TopUp            = "wl:topup"
	PrefixAmount     = "wl:amt:"     // wl:amt:500
	Custom           = "wl:custom"   // personal, amount typed by the user
	PrefixTeamAmount = "wl:tamt:"    // wl:tamt:12:500
	PrefixTeamCustom = "wl:tcustom:" // wl:tcustom:12

	teamsList          = "tm:list"
	teamViewPrefix     = "tm:view:"
	recentTransactions = 3
)

// PresetAmounts are the one-tap top-up buttons, in rupees
var PresetAmounts = []int{500, 1000, 2000, 5000}

func BuildWalletScreen(balance int, recent []*model.WalletTransaction, topUpEnabled bool) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("💰 <b>Your wallet</b>\n\n")
	sb.WriteString(fmt.Sprintf("Balance: <b>%s</b>\n", formatting.FormatPrice(balance)))

	if len(recent) > 0 {
		sb.WriteString("\n<b>Recent activity</b>\n")
		for _, tx := range recent {
			sb.WriteString(formatting.FormatTransaction(tx) + "\n")
		}
	}
	if !topUpEnabled {
		sb.WriteString("\nOnline top-ups are not available right now.")
	}

	kb := keyboard.NewBuilder()
	if topUpEnabled {
		kb.Row(keyboard.Button("➕ Top up", TopUp))
	}
	kb.Row(
		keyboard.Button("📜 History", PrefixHistory+"0"),
		keyboard.Button("👥 Team wallets", teamsList),
	)
	return strings.TrimRight(sb.String(), "\n"), kb.AddBackToMainButton().Build()
}

func BuildHistoryScreen(items []*model.WalletTransaction, page, pages int, back string) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("📜 <b>Wallet history</b>\n\n")
	if len(items) == 0 {
		sb.WriteString("No transactions yet.")
	}
	for _, tx := range items {
		sb.WriteString(formatting.FormatTransaction(tx) + "\n\n")
	}

	kb := keyboard.NewBuilder().
		AddPagination(PrefixHistory, page, pages).
		AddBackButton(back)
	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}

// BuildTopUpScreen offers preset amounts. teamID 0 tops up the personal wallet.
func BuildTopUpScreen(teamID int64, teamName string) (string, *models.InlineKeyboardMarkup) {
	text := "➕ <b>Top up your wallet</b>\n\nChoose an amount or enter your own."
	back := View
	if teamID != 0 {
		text = fmt.Sprintf("➕ <b>Top up %s</b>\n\nChoose an amount or enter your own.", html.EscapeString(teamName))
		back = fmt.Sprintf("%s%d", teamViewPrefix, teamID)
	}
	text += fmt.Sprintf("\nMinimum %s, maximum %s.",
		formatting.FormatPrice(service.MinTopUp), formatting.FormatPrice(service.MaxTopUp))

	buttons := make([]models.InlineKeyboardButton, 0, len(PresetAmounts))
	for _, amount := range PresetAmounts {
		buttons = append(buttons, keyboard.Button(formatting.FormatPrice(amount), amountData(teamID, amount)))
	}

	custom := Custom
	if teamID != 0 {
		custom = fmt.Sprintf("%s%d", PrefixTeamCustom, teamID)
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, 2).
		Row(keyboard.Button("✏️ Other amount", custom)).
		AddBackButton(back)
	return text, kb.Build()
}

func amountData(teamID int64, amount int) string {
	if teamID == 0 {
		return fmt.Sprintf("%s%d", PrefixAmount, amount)
	}
	return fmt.Sprintf("%s%d:%d", PrefixTeamAmount, teamID, amount)
}

// ParseTeamAmount reads "wl:tamt:<team>:<amount>"
func ParseTeamAmount(data string) (int64, int, error) {
	arg, err := common.CallbackArg(data, PrefixTeamAmount)
	if err != nil {
		return 0, 0, err
	}
	parts := strings.SplitN(arg, ":", 2)
	if len(parts) != 2 {
		return 0, 0, common.ErrInvalidFormat
	}
	teamID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, common.ErrInvalidFormat
	}
	amount, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, common.ErrInvalidFormat
	}
	return teamID, amount, nil
}

func BuildCheckoutScreen(url string, amount int, owner string) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("💳 <b>Top up %s</b>\n\n"+
		"Amount: <b>%s</b>\n\n"+
		"Tap the button to pay securely. Your balance updates as soon as the payment goes through.",
		owner, formatting.FormatPrice(amount))
	kb := keyboard.NewBuilder().
		Row(keyboard.URLButton("💳 Pay "+formatting.FormatPrice(amount), url)).
		Row(keyboard.Button("💰 Back to wallet", View)).
		Build()
	return text, kb
}

// Show draws the wallet; messageID 0 sends a new message
func Show(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, user *model.User, messageID int) error {
	owner := model.PersonalWallet(user.ID)
	balance, err := h.WalletService.Balance(ctx, owner)
	if err != nil {
		return err
	}
	recent, _, err := h.WalletService.History(ctx, owner, 0)
	if err != nil {
		return err
	}
	if len(recent) > recentTransactions {
		recent = recent[:recentTransactions]
	}

	text, kb := BuildWalletScreen(balance, recent, h.PaymentService.Enabled())
	return common.Render(ctx, b, chatID, messageID, text, kb)
}

// ShowTopUp draws the preset amounts for the personal wallet
func ShowTopUp(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, messageID int) error {
	if !h.PaymentService.Enabled() {
		return service.ErrTopUpDisabled
	}
	text, kb := BuildTopUpScreen(0, "")
	return common.Render(ctx, b, chatID, messageID, text, kb)
}

// StartCheckout opens a payment page for owner and shows its link
func StartCheckout(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, user *model.User, owner model.WalletOwner, amount int, messageID int) error {
	url, err := h.PaymentService.CreateTopUp(ctx, user.ID, owner, amount)
	if err != nil {
		return err
	}

	label := "your wallet"
	if owner.IsTeam() {
		membership, err := h.TeamService.GetMembership(ctx, owner.TeamID, user.ID)
		if err != nil {
			return err
		}
		label = html.EscapeString(membership.Team.Name)
	}

	text, kb := BuildCheckoutScreen(url, amount, label)
	return common.Render(ctx, b, chatID, messageID, text, kb)
}

func HandleView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		if err := Show(hc.Ctx, hc.Bot, h, hc.ChatID, hc.User, hc.MessageID()); err != nil {
			common.HandleError(hc, err, "show_wallet")
			return
		}
		hc.Answer("")
	})
}

func HandleHistory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		arg, err := common.CallbackArg(callback.Data, PrefixHistory)
		if err != nil {
			common.HandleError(hc, err, "wallet_history")
			return
		}
		page, err := strconv.Atoi(arg)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "wallet_history")
			return
		}

		items, pages, err := h.WalletService.History(hc.Ctx, model.PersonalWallet(hc.User.ID), page)
		if err != nil {
			common.HandleError(hc, err, "wallet_history")
			return
		}
		page = keyboard.ClampPage(page, pages)

		text, kb := BuildHistoryScreen(items, page, pages, View)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "wallet_history")
			return
		}
		hc.Answer("")
	})
}

func HandleTopUp(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	if err := ShowTopUp(ctx, b, h, hc.ChatID, hc.MessageID()); err != nil {
		common.HandleError(hc, err, "show_topup")
		return
	}
	hc.Answer("")
}

func HandleAmount(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		amount, err := common.ParseIDFromCallback(callback.Data, PrefixAmount)
		if err != nil {
			common.HandleError(hc, err, "topup_amount")
			return
		}
		if err := StartCheckout(hc.Ctx, hc.Bot, h, hc.ChatID, hc.User, model.PersonalWallet(hc.User.ID), int(amount), hc.MessageID()); err != nil {
			common.HandleError(hc, err, "topup_amount")
			return
		}
		hc.Answer("")
	})
}

func HandleTeamAmount(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		teamID, amount, err := ParseTeamAmount(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "team_topup_amount")
			return
		}
		if err := StartCheckout(hc.Ctx, hc.Bot, h, hc.ChatID, hc.User, model.TeamWallet(teamID), amount, hc.MessageID()); err != nil {
			common.HandleError(hc, err, "team_topup_amount")
			return
		}
		hc.Answer("")
	})
}

// HandleCustom asks for a typed amount; the text handler finishes the top-up
func HandleCustom(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if !h.PaymentService.Enabled() {
			hc.AnswerAlert(common.ErrorMessage(service.ErrTopUpDisabled))
			return
		}

		var teamID int64
		if strings.HasPrefix(callback.Data, PrefixTeamCustom) {
			id, err := common.ParseIDFromCallback(callback.Data, PrefixTeamCustom)
			if err != nil {
				common.HandleError(hc, err, "topup_custom")
				return
			}
			if _, err := h.TeamService.GetMembership(hc.Ctx, id, hc.User.ID); err != nil {
				common.HandleError(hc, err, "topup_custom")
				return
			}
			teamID = id
		}

		hc.ClearState()
		hc.SetState(state.StateTopUpAmount)
		if teamID != 0 {
			hc.SetData(state.KeyTeamID, teamID)
		}

		h.Logger.Info("Waiting for top-up amount",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int64("team_id", teamID))

		text := fmt.Sprintf("✏️ Send the amount in rupees, from %s to %s.\n\nSend /cancel to stop.",
			formatting.FormatPrice(service.MinTopUp), formatting.FormatPrice(service.MaxTopUp))
		if err := hc.EditMessageText(text); err != nil {
			common.HandleError(hc, err, "topup_custom")
			return
		}
		hc.Answer("")
	})
}
