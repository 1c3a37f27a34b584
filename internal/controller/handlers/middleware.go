package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireUser проверяет что пользователь существует
// Возвращает user и true если OK, nil и false если нет
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	user, err := h.userService.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if !errors.Is(err, service.ErrUserNotFound) {
			h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		}
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return nil, false
	}

	return user, true
}

// requireTutor проверяет что пользователь является тьютором
func (h *Handlers) requireTutor(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return nil, false
	}

	if !user.IsTutor {
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrNotTutor)
		return nil, false
	}

	return user, true
}

// sendError отправляет пользователю текст ошибки
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	h.sendMessage(ctx, b, chatID, common.ErrorMessage(err))
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.send(ctx, b, chatID, text, nil)
}

// send отправляет HTML-сообщение с клавиатурой
func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	if err := common.SendHTML(ctx, b, chatID, text, keyboard); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
