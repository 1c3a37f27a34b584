package student

import (
	"context"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/state"
	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStartReview показывает кнопки оценки
func HandleStartReview(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUserAndID(ctx, b, callback, h, func(hc *common.HandlerContext, sessionID int64) {
		session, err := h.SessionService.GetByID(ctx, sessionID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "start_review")
			return
		}
		if session.StudentID != hc.User.ID {
			hc.AnswerAlert(common.ErrorMessage(service.ErrForbidden))
			return
		}
		if session.HasReview {
			hc.AnswerAlert(common.ErrorMessage(service.ErrAlreadyReviewed))
			return
		}

		hc.Answer("")
		if err := hc.SendMessage("⭐ Оцените занятие «"+common.EscapeHTML(session.Subject)+"»", common.RatingKeyboard(sessionID)); err != nil {
			h.Logger.Error("Failed to send rating keyboard", zap.Error(err))
		}
	})
}

// HandleRateSession запоминает оценку и просит комментарий
func HandleRateSession(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	sessionID, rating, err := common.ParseIDAndValue(callback.Data)
	if err != nil || rating < model.MinRating || rating > model.MaxRating {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.StartDialog(state.StateReviewComment, map[string]interface{}{
			state.KeySessionID: sessionID,
			state.KeyRating:    int64(rating),
		})
		hc.Answer(formatting.Stars(rating))

		if err := hc.EditMessage("Ваша оценка: "+formatting.Stars(rating)+"\n\n✍️ Напишите комментарий или отправьте «-», чтобы пропустить.", nil); err != nil {
			h.Logger.Error("Failed to edit message", zap.Error(err))
		}
	})
}
