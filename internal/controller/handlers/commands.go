package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Для студентов:\n" +
	"/tutors [предмет] - Найти тьютора\n" +
	"/myrequests - Мои заявки\n" +
	"/sessions - Предстоящие занятия\n" +
	"/history - Прошедшие занятия\n\n" +
	"Для тьюторов:\n" +
	"/becometutor - Стать тьютором\n" +
	"/subjects - Мои предметы\n" +
	"/availability - Моё расписание\n" +
	"/requests - Входящие заявки\n\n" +
	"Общее:\n" +
	"/alerts - Уведомления\n" +
	"/messages - Переписка\n" +
	"/timezone - Часовой пояс\n" +
	"/export - Выгрузить занятия в Excel\n" +
	"/cancel - Отменить текущее действие\n" +
	"/help - Показать эту справку"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From

	// Регистрируем пользователя
	user, err := h.userService.RegisterTelegramUser(ctx, from.ID, from.Username, from.FirstName, from.LastName)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	welcome := fmt.Sprintf("👋 Привет, %s!\n\nЗдесь студенты находят тьюторов, договариваются о занятиях и оставляют отзывы.\n\n",
		common.EscapeHTML(user.DisplayName()))
	h.sendMessage(ctx, b, update.Message.Chat.ID, welcome+helpText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	// Очищаем состояние
	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}

// commandArgs возвращает текст после команды: "/tutors math" -> "math"
func commandArgs(text string) string {
	_, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(args)
}
