package controller

import (
	"context"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/notify"
	"go.uber.org/zap"
)

// AlertSource выдаёт подписку на уведомления
type AlertSource interface {
	Subscribe(userID int64) *notify.Subscription
}

// UserLookup ищет получателя уведомления
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// SendFunc отправляет HTML-сообщение в чат
type SendFunc func(ctx context.Context, chatID int64, text string) error

// AlertPusher пересылает новые уведомления в Telegram-чаты пользователей
type AlertPusher struct {
	source AlertSource
	users  UserLookup
	send   SendFunc
	logger *zap.Logger
}

func NewAlertPusher(source AlertSource, users UserLookup, send SendFunc, logger *zap.Logger) *AlertPusher {
	return &AlertPusher{
		source: source,
		users:  users,
		send:   send,
		logger: logger,
	}
}

// Run pushes alerts until ctx is done.
func (p *AlertPusher) Run(ctx context.Context) error {
	sub := p.source.Subscribe(notify.AllUsers)
	defer sub.Close()

	p.logger.Info("Alert pusher started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case alert, ok := <-sub.C:
			if !ok {
				return nil
			}
			p.push(ctx, alert)
		}
	}
}

func (p *AlertPusher) push(ctx context.Context, alert *model.Alert) {
	user, err := p.users.GetByID(ctx, alert.UserID)
	if err != nil {
		p.logger.Warn("Alert recipient lookup failed",
			zap.Int64("alert_id", alert.ID),
			zap.Int64("user_id", alert.UserID),
			zap.Error(err))
		return
	}
	// пользователи мобильного API читают уведомления через /alerts
	if user.TelegramID == nil {
		return
	}

	if err := p.send(ctx, *user.TelegramID, AlertText(alert)); err != nil {
		p.logger.Error("Failed to push alert",
			zap.Int64("alert_id", alert.ID),
			zap.Int64("user_id", alert.UserID),
			zap.Error(err))
		return
	}
	p.logger.Debug("Alert pushed", zap.Int64("alert_id", alert.ID), zap.String("type", string(alert.Type)))
}

// AlertText текст push-уведомления с подсказкой, где посмотреть подробности
func AlertText(alert *model.Alert) string {
	text := "🔔 " + common.EscapeHTML(alert.Message)
	switch alert.Type {
	case model.AlertRequestReceived:
		text += "\n\n/requests"
	case model.AlertRequestApproved, model.AlertSessionReminder, model.AlertSessionCancelled:
		text += "\n\n/sessions"
	case model.AlertRequestDeclined, model.AlertRequestCancelled:
		text += "\n\n/myrequests"
	case model.AlertSessionCompleted:
		text += "\n\n/history"
	case model.AlertMessageReceived:
		text += "\n\n/messages"
	}
	return text
}
