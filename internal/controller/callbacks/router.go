package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/inbox"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/session"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/student"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/tutor"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("telegram_id", callback.From.ID))

	switch {
	case data == common.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Student =====
	case strings.HasPrefix(data, common.NewRequest):
		student.HandleNewRequest(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CancelRequest):
		student.HandleCancelRequest(ctx, b, callback, h)
	case strings.HasPrefix(data, common.TutorReviews):
		student.HandleTutorReviews(ctx, b, callback, h)
	case strings.HasPrefix(data, common.StartReview):
		student.HandleStartReview(ctx, b, callback, h)
	case strings.HasPrefix(data, common.RateSession):
		student.HandleRateSession(ctx, b, callback, h)

	// ===== Tutor =====
	case strings.HasPrefix(data, common.ApproveRequest):
		tutor.HandleApproveRequest(ctx, b, callback, h)
	case strings.HasPrefix(data, common.DeclineRequest):
		tutor.HandleDeclineRequest(ctx, b, callback, h)

	// ===== Sessions (оба участника) =====
	case strings.HasPrefix(data, common.CompleteSession):
		session.HandleComplete(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CancelSession):
		session.HandleCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SessionNotes):
		session.HandleNotes(ctx, b, callback, h)

	// ===== Inbox =====
	case data == common.MarkAllAlertsRead:
		inbox.HandleMarkAllAlertsRead(ctx, b, callback, h)
	case strings.HasPrefix(data, common.WriteMessage):
		inbox.HandleWriteMessage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ReadConversation):
		inbox.HandleReadConversation(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "❓ Неизвестное действие")
	}
}
