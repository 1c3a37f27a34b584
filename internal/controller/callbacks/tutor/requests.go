package tutor

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleApproveRequest одобряет заявку и создаёт занятия
func HandleApproveRequest(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUserAndID(ctx, b, callback, h, func(hc *common.HandlerContext, requestID int64) {
		req, sessions, err := h.RequestService.Approve(ctx, requestID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "approve_request")
			return
		}

		users, err := h.UserService.GetByIDs(ctx, []int64{req.TutorID, req.StudentID})
		if err != nil {
			h.Logger.Error("Failed to load request participants", zap.Error(err))
		}

		text := common.RequestCard(req, hc.User.ID, users, hc.User.Location()) +
			fmt.Sprintf("\n\n✅ Создано %d %s. Список: /sessions", len(sessions), formatting.PluralizeSessions(len(sessions)))
		if err := hc.EditMessage(text, nil); err != nil {
			h.Logger.Error("Failed to edit message", zap.Error(err))
		}

		common.LogAndAnswer(hc, "Request approved via bot", "✅ Заявка одобрена")
	})
}

// HandleDeclineRequest спрашивает причину отказа
func HandleDeclineRequest(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUserAndID(ctx, b, callback, h, func(hc *common.HandlerContext, requestID int64) {
		// Проверяем доступ до начала диалога
		req, err := h.RequestService.GetByID(ctx, requestID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "decline_request")
			return
		}
		if req.TutorID != hc.User.ID || !req.IsPending() {
			hc.AnswerAlert("❌ Эту заявку нельзя отклонить")
			return
		}

		hc.StartDialog(state.StateDeclineReason, map[string]interface{}{state.KeyRequestID: requestID})
		hc.Answer("")
		if err := hc.SendMessage("✍️ Укажите причину отказа или отправьте «-», чтобы пропустить.\n\n/cancel для отмены", nil); err != nil {
			h.Logger.Error("Failed to send prompt", zap.Error(err))
		}
	})
}
