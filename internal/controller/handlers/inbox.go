package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleAlerts обрабатывает команду /alerts
func (h *Handlers) HandleAlerts(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	alerts, err := h.alertService.List(ctx, user.ID, false, maxListed)
	if err != nil {
		h.logger.Error("Failed to list alerts", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	unread, err := h.alertService.UnreadCount(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to count unread alerts", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	if len(alerts) == 0 {
		h.sendMessage(ctx, b, chatID, "🔕 Уведомлений нет")
		return
	}

	lines := make([]string, 0, len(alerts)+1)
	lines = append(lines, fmt.Sprintf("🔔 <b>Уведомления</b> (непрочитанных: %d)", unread))
	loc := user.Location()
	for _, a := range alerts {
		lines = append(lines, common.AlertLine(a, loc))
	}

	var kb *models.InlineKeyboardMarkup
	if unread > 0 {
		kb = keyboard.NewBuilder().
			Row(keyboard.Button("✅ Прочитать все", common.MarkAllAlertsRead)).
			Build()
	}
	h.send(ctx, b, chatID, strings.Join(lines, "\n\n"), kb)
}

// HandleMessages обрабатывает команду /messages
func (h *Handlers) HandleMessages(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	convs, err := h.messageService.Conversations(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list conversations", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	if len(convs) == 0 {
		h.sendMessage(ctx, b, chatID, "💬 Переписки пока нет. Написать тьютору можно из /tutors")
		return
	}

	if len(convs) > maxListed {
		convs = convs[:maxListed]
	}
	for _, c := range convs {
		h.send(ctx, b, chatID, common.ConversationLine(c), common.ConversationKeyboard(c.PartnerID))
	}
}
