package handlers

import (
	"context"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBecomeTutor обрабатывает команду /becometutor
func (h *Handlers) HandleBecomeTutor(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	if user.IsTutor {
		h.sendMessage(ctx, b, chatID, "✅ Вы уже тьютор.\n\n/subjects - предметы\n/availability - расписание")
		return
	}

	if _, err := h.userService.BecomeTutor(ctx, user.ID); err != nil {
		h.logger.Error("Failed to become tutor", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, "🎓 Теперь вы тьютор!\n\n"+
		"Укажите предметы: /subjects\n"+
		"Укажите, когда вы свободны: /availability")
}

// HandleSubjects обрабатывает команду /subjects
func (h *Handlers) HandleSubjects(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}

	current := "пока не указаны"
	if len(user.Subjects) > 0 {
		current = common.EscapeHTML(joinLines(user.Subjects))
	}

	h.stateManager.Start(update.Message.From.ID, state.StateSetSubjects, nil)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"📚 Ваши предметы:\n"+current+"\n\n"+
			"Отправьте новый список через запятую, например: <i>Математика, Физика</i>\n\n/cancel для отмены")
}

// HandleAvailability обрабатывает команду /availability
func (h *Handlers) HandleAvailability(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}

	h.stateManager.Start(update.Message.From.ID, state.StateSetAvailability, nil)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🗓 Ваше расписание ("+common.EscapeHTML(user.Location().String())+"):\n"+
			common.AvailabilityText(user.Availability)+"\n\n"+
			"Отправьте окна через «;» или с новой строки, например:\n"+
			"<i>Mon 16:00-18:00; Wed 10:00-12:00</i>\n\n"+
			"Отправьте «-», чтобы очистить. /cancel для отмены")
}

// HandleTimezone обрабатывает команду /timezone
func (h *Handlers) HandleTimezone(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.stateManager.Start(update.Message.From.ID, state.StateSetTimezone, nil)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🌍 Текущий часовой пояс: "+common.EscapeHTML(user.Location().String())+"\n\n"+
			"Отправьте название пояса IANA, например <i>Europe/Moscow</i>\n\n/cancel для отмены")
}
