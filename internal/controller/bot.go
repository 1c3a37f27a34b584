package controller

import (
	"context"

	"github.com/Freeeeeet/peer_tutoring/internal/app"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/handlers"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	pusher          *AlertPusher
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	services *app.Services,
	source AlertSource,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		services.Users,
		services.Requests,
		services.Sessions,
		services.Reviews,
		services.Alerts,
		services.Messages,
		services.Reports,
		stateManager,
		logger,
	)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		services.Users,
		services.Requests,
		services.Sessions,
		services.Reviews,
		services.Alerts,
		services.Messages,
		stateManager,
		logger,
	)

	send := func(ctx context.Context, chatID int64, text string) error {
		return common.SendHTML(ctx, botInstance, chatID, text, nil)
	}

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		pusher:          NewAlertPusher(source, services.Users, send, logger),
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Общие команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/timezone", bot.MatchTypeExact, c.handlers.HandleTimezone)

	// Студент
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/tutors", bot.MatchTypePrefix, c.handlers.HandleTutors)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myrequests", bot.MatchTypeExact, c.handlers.HandleMyRequests)

	// Тьютор
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/becometutor", bot.MatchTypeExact, c.handlers.HandleBecomeTutor)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/subjects", bot.MatchTypeExact, c.handlers.HandleSubjects)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/availability", bot.MatchTypeExact, c.handlers.HandleAvailability)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/requests", bot.MatchTypeExact, c.handlers.HandleIncomingRequests)

	// Занятия и входящие
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/sessions", bot.MatchTypeExact, c.handlers.HandleSessions)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypeExact, c.handlers.HandleHistory)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypeExact, c.handlers.HandleExport)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/alerts", bot.MatchTypeExact, c.handlers.HandleAlerts)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/messages", bot.MatchTypeExact, c.handlers.HandleMessages)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "tutors", Description: "🔎 Найти тьютора"},
		{Command: "myrequests", Description: "📤 Мои заявки"},
		{Command: "sessions", Description: "📅 Предстоящие занятия"},
		{Command: "history", Description: "🗂 Прошедшие занятия"},
		{Command: "alerts", Description: "🔔 Уведомления"},
		{Command: "messages", Description: "💬 Сообщения"},
		{Command: "becometutor", Description: "🎓 Стать тьютором"},
		{Command: "requests", Description: "📥 Входящие заявки (тьютор)"},
		{Command: "subjects", Description: "📚 Мои предметы (тьютор)"},
		{Command: "availability", Description: "🗓 Моё расписание (тьютор)"},
		{Command: "timezone", Description: "🌍 Часовой пояс"},
		{Command: "export", Description: "📊 Выгрузка занятий в Excel"},
		{Command: "cancel", Description: "✖️ Отменить текущий диалог"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и пересылку уведомлений, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	go func() {
		if err := c.pusher.Run(ctx); err != nil {
			c.logger.Error("Alert pusher stopped", zap.Error(err))
		}
	}()

	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
