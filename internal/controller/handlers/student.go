package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// maxListed ограничивает число карточек в одном ответе
const maxListed = 10

// HandleTutors обрабатывает команду /tutors [предмет]
func (h *Handlers) HandleTutors(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireUser(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID
	subject := commandArgs(update.Message.Text)

	tutors, err := h.userService.ListTutors(ctx, subject, maxListed, 0)
	if err != nil {
		h.logger.Error("Failed to list tutors", zap.String("subject", subject), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	if len(tutors) == 0 {
		if subject != "" {
			h.sendMessage(ctx, b, chatID, "🔍 Тьюторы по предмету «"+common.EscapeHTML(subject)+"» не найдены")
			return
		}
		h.sendMessage(ctx, b, chatID, "🔍 Пока нет ни одного тьютора")
		return
	}

	for _, t := range tutors {
		h.send(ctx, b, chatID, common.TutorCard(t), common.TutorKeyboard(t.ID))
	}
}

// HandleIncomingRequests обрабатывает команду /requests (тьютор)
func (h *Handlers) HandleIncomingRequests(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireTutor(ctx, b, update)
	if !ok {
		return
	}

	reqs, err := h.requestService.ListIncoming(ctx, user.ID, model.RequestStatusPending)
	if err != nil {
		h.logger.Error("Failed to list incoming requests", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}
	if len(reqs) > 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("📥 Ждут ответа: %d %s", len(reqs), formatting.PluralizeRequests(len(reqs))))
	}
	h.sendRequests(ctx, b, update.Message.Chat.ID, user, reqs, "📭 Новых заявок нет")
}

// HandleMyRequests обрабатывает команду /myrequests (студент)
func (h *Handlers) HandleMyRequests(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	reqs, err := h.requestService.ListOutgoing(ctx, user.ID, "")
	if err != nil {
		h.logger.Error("Failed to list outgoing requests", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}
	h.sendRequests(ctx, b, update.Message.Chat.ID, user, reqs, "📭 Вы ещё не отправляли заявок. Найти тьютора: /tutors")
}

func (h *Handlers) sendRequests(ctx context.Context, b *bot.Bot, chatID int64, viewer *model.User, reqs []*model.TutoringRequest, empty string) {
	if len(reqs) == 0 {
		h.sendMessage(ctx, b, chatID, empty)
		return
	}
	if len(reqs) > maxListed {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("Показаны последние %d из %d", maxListed, len(reqs)))
		reqs = reqs[:maxListed]
	}

	ids := make([]int64, 0, len(reqs)*2)
	for _, r := range reqs {
		ids = append(ids, r.TutorID, r.StudentID)
	}
	users, err := h.userService.GetByIDs(ctx, ids)
	if err != nil {
		h.logger.Error("Failed to load request participants", zap.Error(err))
	}

	loc := viewer.Location()
	for _, r := range reqs {
		h.send(ctx, b, chatID, common.RequestCard(r, viewer.ID, users, loc), common.RequestKeyboard(r, viewer.ID))
	}
}

func joinLines(items []string) string {
	return "• " + strings.Join(items, "\n• ")
}

// requestSummary итог создания заявки для студента
func requestSummary(req *model.TutoringRequest) string {
	text := fmt.Sprintf("✅ Заявка #%d отправлена. Тьютор получит уведомление.", req.ID)
	if req.Occurrences > 1 {
		text += fmt.Sprintf("\n🔁 %d %s, раз в неделю", req.Occurrences, formatting.PluralizeSessions(req.Occurrences))
	}
	if req.OutsideAvailability {
		text += "\n⚠️ Время вне расписания тьютора, заявка может быть отклонена."
	}
	if req.NewSubject {
		text += "\n⚠️ Этого предмета нет в списке тьютора."
	}
	return text
}
