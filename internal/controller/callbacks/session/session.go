package session

import (
	"context"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/state"
	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleComplete отмечает занятие проведённым
func HandleComplete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUserAndID(ctx, b, callback, h, func(hc *common.HandlerContext, sessionID int64) {
		if _, err := h.SessionService.Complete(ctx, sessionID, hc.User.ID); err != nil {
			common.HandleError(hc, err, "complete_session")
			return
		}
		refresh(hc, sessionID)
		common.LogAndAnswer(hc, "Session completed via bot", "✔️ Занятие завершено")
	})
}

// HandleCancel спрашивает причину отмены занятия
func HandleCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUserAndID(ctx, b, callback, h, func(hc *common.HandlerContext, sessionID int64) {
		session, err := h.SessionService.GetByID(ctx, sessionID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "cancel_session")
			return
		}
		if !session.IsUpcoming(time.Now()) {
			hc.AnswerAlert(common.ErrorMessage(service.ErrSessionStarted))
			return
		}

		hc.StartDialog(state.StateCancelReason, map[string]interface{}{state.KeySessionID: sessionID})
		hc.Answer("")
		if err := hc.SendMessage("✍️ Укажите причину отмены или отправьте «-», чтобы пропустить.\n\n/cancel чтобы не отменять", nil); err != nil {
			h.Logger.Error("Failed to send prompt", zap.Error(err))
		}
	})
}

// HandleNotes начинает ввод заметок к занятию
func HandleNotes(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUserAndID(ctx, b, callback, h, func(hc *common.HandlerContext, sessionID int64) {
		session, err := h.SessionService.GetByID(ctx, sessionID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "session_notes")
			return
		}
		if session.Status == model.SessionStatusCancelled {
			hc.AnswerAlert(common.ErrorMessage(service.ErrSessionCancelled))
			return
		}

		hc.StartDialog(state.StateSessionNotes, map[string]interface{}{state.KeySessionID: sessionID})
		hc.Answer("")

		text := "🗒 Отправьте текст заметок. Он заменит текущий."
		if session.Notes != "" {
			text += "\n\nСейчас:\n" + common.EscapeHTML(session.Notes)
		}
		if err := hc.SendMessage(text+"\n\n/cancel для отмены", nil); err != nil {
			h.Logger.Error("Failed to send prompt", zap.Error(err))
		}
	})
}

// refresh перерисовывает карточку занятия после изменения
func refresh(hc *common.HandlerContext, sessionID int64) {
	session, err := hc.Handler.SessionService.GetByID(hc.Ctx, sessionID, hc.User.ID)
	if err != nil {
		hc.Handler.Logger.Error("Failed to reload session", zap.Int64("session_id", sessionID), zap.Error(err))
		return
	}
	text := common.SessionCard(session, hc.User.ID, hc.User.Location())
	if err := hc.EditMessage(text, common.SessionKeyboard(session, hc.User.ID, time.Now())); err != nil {
		hc.Handler.Logger.Error("Failed to edit message", zap.Error(err))
	}
}
