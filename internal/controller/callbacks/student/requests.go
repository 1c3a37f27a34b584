package student

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/state"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const reviewsShown = 10

// HandleNewRequest начинает диалог создания заявки к тьютору
func HandleNewRequest(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUserAndID(ctx, b, callback, h, func(hc *common.HandlerContext, tutorID int64) {
		if tutorID == hc.User.ID {
			hc.AnswerAlert(common.ErrorMessage(service.ErrSelfRequest))
			return
		}

		t, err := h.UserService.GetByID(ctx, tutorID)
		if err != nil {
			common.HandleError(hc, err, "new_request")
			return
		}
		if !t.IsTutor {
			hc.AnswerAlert(common.ErrorMessage(service.ErrNotTutor))
			return
		}

		hc.StartDialog(state.StateRequestSubject, map[string]interface{}{state.KeyTutorID: tutorID})
		hc.Answer("")

		text := fmt.Sprintf("📝 Заявка к тьютору <b>%s</b>\n\n", common.EscapeHTML(t.DisplayName()))
		if len(t.Subjects) > 0 {
			text += "Предметы тьютора: " + common.EscapeHTML(strings.Join(t.Subjects, ", ")) + "\n\n"
		}
		text += "Введите предмет занятия.\n\n/cancel для отмены"
		if err := hc.SendMessage(text, nil); err != nil {
			h.Logger.Error("Failed to send prompt", zap.Error(err))
		}
	})
}

// HandleCancelRequest отзывает заявку студентом
func HandleCancelRequest(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUserAndID(ctx, b, callback, h, func(hc *common.HandlerContext, requestID int64) {
		req, err := h.RequestService.Cancel(ctx, requestID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "cancel_request")
			return
		}

		users, _ := h.UserService.GetByIDs(ctx, []int64{req.TutorID, req.StudentID})
		if err := hc.EditMessage(common.RequestCard(req, hc.User.ID, users, hc.User.Location()), nil); err != nil {
			h.Logger.Error("Failed to edit message", zap.Error(err))
		}
		common.LogAndAnswer(hc, "Request cancelled via bot", "❌ Заявка отозвана")
	})
}

// HandleTutorReviews показывает последние отзывы о тьюторе
func HandleTutorReviews(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUserAndID(ctx, b, callback, h, func(hc *common.HandlerContext, tutorID int64) {
		reviews, err := h.ReviewService.ListForTutor(ctx, tutorID, reviewsShown)
		if err != nil {
			common.HandleError(hc, err, "tutor_reviews")
			return
		}
		hc.Answer("")

		if len(reviews) == 0 {
			_ = hc.SendMessage("⭐ У тьютора пока нет отзывов", nil)
			return
		}

		lines := make([]string, 0, len(reviews)+1)
		lines = append(lines, "⭐ <b>Последние отзывы</b>")
		for _, r := range reviews {
			lines = append(lines, common.ReviewLine(r))
		}
		if err := hc.SendMessage(strings.Join(lines, "\n\n"), nil); err != nil {
			h.Logger.Error("Failed to send reviews", zap.Error(err))
		}
	})
}
