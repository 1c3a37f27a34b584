package inbox

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/state"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleMarkAllAlertsRead отмечает все уведомления прочитанными
func HandleMarkAllAlertsRead(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		n, err := h.AlertService.MarkAllRead(ctx, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "mark_alerts_read")
			return
		}
		if err := hc.EditMessage(fmt.Sprintf("✅ Прочитано уведомлений: %d", n), nil); err != nil {
			h.Logger.Error("Failed to edit message", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleWriteMessage начинает ввод сообщения пользователю
func HandleWriteMessage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUserAndID(ctx, b, callback, h, func(hc *common.HandlerContext, receiverID int64) {
		if receiverID == hc.User.ID {
			hc.AnswerAlert(common.ErrorMessage(service.ErrSelfMessage))
			return
		}
		receiver, err := h.UserService.GetByID(ctx, receiverID)
		if err != nil {
			common.HandleError(hc, err, "write_message")
			return
		}

		hc.StartDialog(state.StateComposeMessage, map[string]interface{}{state.KeyReceiverID: receiverID})
		hc.Answer("")
		text := fmt.Sprintf("✉️ Сообщение для <b>%s</b>. Отправьте текст.\n\n/cancel для отмены", common.EscapeHTML(receiver.DisplayName()))
		if err := hc.SendMessage(text, nil); err != nil {
			h.Logger.Error("Failed to send prompt", zap.Error(err))
		}
	})
}

// HandleReadConversation отмечает диалог прочитанным
func HandleReadConversation(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUserAndID(ctx, b, callback, h, func(hc *common.HandlerContext, partnerID int64) {
		if _, err := h.MessageService.MarkRead(ctx, hc.User.ID, partnerID); err != nil {
			common.HandleError(hc, err, "read_conversation")
			return
		}
		hc.Answer("✅ Прочитано")
	})
}
