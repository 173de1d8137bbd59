package teams

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/wallet"
	"github.com/Freeeeeet/turf_bot/internal/controller/state"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	List           = "tm:list"
	PrefixView     = "tm:view:" // tm:view:12
	Create         = "tm:create"
	Join           = "tm:join"
	PrefixTransfer = "tm:transfer:" // tm:transfer:12
	PrefixTopUp    = "tm:topup:"    // tm:topup:12
)

func BuildListScreen(teams []*model.TeamMembership) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("👥 <b>My teams</b>\n\n")
	if len(teams) == 0 {
		sb.WriteString("You are not in any team yet.\nCreate one and share the join code, or join with a code from a friend.")
	}

	kb := keyboard.NewBuilder()
	for _, m := range teams {
		role := ""
		if m.IsAdmin() {
			role = " ⭐"
		}
		sb.WriteString(fmt.Sprintf("• <b>%s</b>%s · %s · %s\n",
			html.EscapeString(m.Team.Name), role,
			formatting.Plural(m.MemberCount, "member"),
			formatting.FormatPrice(m.Team.Balance)))
		kb.Row(keyboard.Button("👥 "+m.Team.Name, fmt.Sprintf("%s%d", PrefixView, m.Team.ID)))
	}

	kb.Row(
		keyboard.Button("➕ Create team", Create),
		keyboard.Button("🔑 Join team", Join),
	)
	return strings.TrimRight(sb.String(), "\n"), kb.AddBackToMainButton().Build()
}

func BuildTeamScreen(m *model.TeamMembership, members []*model.TeamMember, topUpEnabled bool) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 <b>%s</b>\n\n", html.EscapeString(m.Team.Name)))
	sb.WriteString(fmt.Sprintf("💰 Team wallet: <b>%s</b>\n", formatting.FormatPrice(m.Team.Balance)))
	sb.WriteString(fmt.Sprintf("🧑‍🤝‍🧑 %s\n", formatting.Plural(len(members), "member")))

	admins := 0
	for _, member := range members {
		if member.Role == model.TeamRoleAdmin {
			admins++
		}
	}
	sb.WriteString(fmt.Sprintf("⭐ %s\n", formatting.Plural(admins, "admin")))

	if m.IsAdmin() {
		sb.WriteString(fmt.Sprintf("\n🔑 Join code: <code>%s</code>\nShare it so teammates can /jointeam.\n", m.Team.JoinCode))
		sb.WriteString("You can book with this team's wallet.")
	} else {
		sb.WriteString("\nOnly team admins can book with the team wallet. You can still add money to it.")
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🔁 Transfer from my wallet", fmt.Sprintf("%s%d", PrefixTransfer, m.Team.ID)))
	if topUpEnabled {
		kb.Row(keyboard.Button("➕ Top up team wallet", fmt.Sprintf("%s%d", PrefixTopUp, m.Team.ID)))
	}
	kb.Row(keyboard.BackButton(List), keyboard.BackToMainButton())
	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}

// Show draws the team list; messageID 0 sends a new message
func Show(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, user *model.User, messageID int) error {
	teams, err := h.TeamService.MyTeams(ctx, user.ID)
	if err != nil {
		return err
	}
	text, kb := BuildListScreen(teams)
	return common.Render(ctx, b, chatID, messageID, text, kb)
}

// ShowTeam draws one team the user belongs to
func ShowTeam(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, user *model.User, teamID int64, messageID int) error {
	m, err := h.TeamService.GetMembership(ctx, teamID, user.ID)
	if err != nil {
		return err
	}
	members, err := h.TeamService.Members(ctx, teamID)
	if err != nil {
		return err
	}
	text, kb := BuildTeamScreen(m, members, h.PaymentService.Enabled())
	return common.Render(ctx, b, chatID, messageID, text, kb)
}

func HandleList(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		if err := Show(hc.Ctx, hc.Bot, h, hc.ChatID, hc.User, hc.MessageID()); err != nil {
			common.HandleError(hc, err, "list_teams")
			return
		}
		hc.Answer("")
	})
}

func HandleView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		teamID, err := common.ParseIDFromCallback(callback.Data, PrefixView)
		if err != nil {
			common.HandleError(hc, err, "view_team")
			return
		}
		hc.ClearState()
		if err := ShowTeam(hc.Ctx, hc.Bot, h, hc.ChatID, hc.User, teamID, hc.MessageID()); err != nil {
			common.HandleError(hc, err, "view_team")
			return
		}
		hc.Answer("")
	})
}

// prompt switches the user into a text dialog and replaces the buttons with a hint
func prompt(hc *common.HandlerContext, s state.UserState, text, operation string) {
	hc.ClearState()
	hc.SetState(s)
	if err := hc.EditMessageText(text + "\n\nSend /cancel to stop."); err != nil {
		common.HandleError(hc, err, operation)
		return
	}
	hc.Answer("")
}

func HandleCreate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		prompt(hc, state.StateCreateTeamName, "✏️ Send the name of your new team.", "create_team")
	})
}

func HandleJoin(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		prompt(hc, state.StateJoinTeamCode, "🔑 Send the join code you got from the team admin.", "join_team")
	})
}

func HandleTransfer(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		teamID, err := common.ParseIDFromCallback(callback.Data, PrefixTransfer)
		if err != nil {
			common.HandleError(hc, err, "transfer_team")
			return
		}
		m, err := h.TeamService.GetMembership(hc.Ctx, teamID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "transfer_team")
			return
		}
		balance, err := h.WalletService.Balance(hc.Ctx, model.PersonalWallet(hc.User.ID))
		if err != nil {
			common.HandleError(hc, err, "transfer_team")
			return
		}

		h.Logger.Info("Waiting for transfer amount",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int64("team_id", teamID))

		prompt(hc, state.StateTransferAmount,
			fmt.Sprintf("🔁 How much do you want to move to <b>%s</b>?\nYour balance: %s",
				html.EscapeString(m.Team.Name), formatting.FormatPrice(balance)),
			"transfer_team")
		hc.SetData(state.KeyTeamID, teamID)
	})
}

func HandleTopUp(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		teamID, err := common.ParseIDFromCallback(callback.Data, PrefixTopUp)
		if err != nil {
			common.HandleError(hc, err, "team_topup")
			return
		}
		m, err := h.TeamService.GetMembership(hc.Ctx, teamID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "team_topup")
			return
		}

		text, kb := wallet.BuildTopUpScreen(teamID, m.Team.Name)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "team_topup")
			return
		}
		hc.Answer("")
	})
}
