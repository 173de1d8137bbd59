package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/config"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/wallet"
	"github.com/Freeeeeet/turf_bot/internal/controller/handlers"
	"github.com/Freeeeeet/turf_bot/internal/controller/state"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Services are the business services the bot talks to
type Services struct {
	User         *service.UserService
	Booking      *service.BookingService
	Availability *service.AvailabilityService
	Team         *service.TeamService
	Wallet       *service.WalletService
	Payment      *service.PaymentService
}

type BotController struct {
	bot             *bot.Bot
	deps            *callbacktypes.Handler
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	logger          *zap.Logger
}

func NewBotController(botInstance *bot.Bot, services Services, cfg *config.Config, logger *zap.Logger) *BotController {
	stateManager := state.NewManager()

	deps := &callbacktypes.Handler{
		UserService:         services.User,
		BookingService:      services.Booking,
		AvailabilityService: services.Availability,
		TeamService:         services.Team,
		WalletService:       services.Wallet,
		PaymentService:      services.Payment,
		StateManager:        state.NewAdapter(stateManager),
		Settings: callbacktypes.Settings{
			Location:          cfg.Location,
			BookingWindowDays: cfg.BookingWindowDays,
			SlotPrice:         cfg.SlotPrice,
			Venue:             cfg.Venue,
		},
		Logger: logger,
	}

	limiter := common.NewRateLimiter(cfg.CallbackRatePerSecond, cfg.CallbackBurst)

	return &BotController{
		bot:             botInstance,
		deps:            deps,
		handlers:        handlers.NewHandlers(deps, stateManager, logger),
		callbackHandler: callbacks.NewHandler(deps, limiter),
		stateManager:    stateManager,
		logger:          logger,
	}
}

// RegisterHandlers registers commands, dialogs and buttons and sets the command menu
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/venue", bot.MatchTypeExact, c.handlers.HandleVenue)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/wallet", bot.MatchTypeExact, c.handlers.HandleWallet)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/topup", bot.MatchTypeExact, c.handlers.HandleTopUp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/teams", bot.MatchTypeExact, c.handlers.HandleTeams)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/createteam", bot.MatchTypeExact, c.handlers.HandleCreateTeam)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/jointeam", bot.MatchTypePrefix, c.handlers.HandleJoinTeam)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/profile", bot.MatchTypeExact, c.handlers.HandleProfile)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)

	// dialog steps
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

func (c *BotController) setCommands(ctx context.Context) error {
	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: handlers.BotCommands(),
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start runs long polling until ctx is cancelled
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}

// PruneIdle drops dialog state and rate limiters of users idle for longer than maxIdle
func (c *BotController) PruneIdle(maxIdle time.Duration) int {
	return c.stateManager.PruneIdle(maxIdle) + c.callbackHandler.Prune(maxIdle)
}

// TopUpCompleted tells the user their wallet was credited
func (c *BotController) TopUpCompleted(ctx context.Context, topUp *model.TopUp) {
	user, err := c.deps.UserService.GetByID(ctx, topUp.UserID)
	if err != nil || user == nil {
		c.logger.Error("Failed to load user for top-up notice",
			zap.Int64("user_id", topUp.UserID),
			zap.Error(err))
		return
	}

	text := fmt.Sprintf("✅ %s added to your wallet.", formatting.FormatPrice(topUp.Amount))
	if topUp.TeamID != nil {
		text = fmt.Sprintf("✅ %s added to the team wallet.", formatting.FormatPrice(topUp.Amount))
	}

	_, err = c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      user.TelegramID,
		Text:        text,
		ReplyMarkup: topUpNoticeKeyboard(),
	})
	if err != nil {
		c.logger.Error("Failed to send top-up notice",
			zap.Int64("telegram_id", user.TelegramID),
			zap.Error(err))
	}
}

func topUpNoticeKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.Button("💰 Open wallet", wallet.View)).
		Build()
}
