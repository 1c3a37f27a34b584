package model

import "time"

type AlertType string

const (
	AlertRequestReceived  AlertType = "request_received"
	AlertRequestApproved  AlertType = "request_approved"
	AlertRequestDeclined  AlertType = "request_declined"
	AlertRequestCancelled AlertType = "request_cancelled"
	AlertSessionCancelled AlertType = "session_cancelled"
	AlertSessionCompleted AlertType = "session_completed"
	AlertSessionReminder  AlertType = "session_reminder"
	AlertReviewReceived   AlertType = "review_received"
	AlertMessageReceived  AlertType = "message_received"
)

type Alert struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	RelatedID int64     `json:"related_id"` // id заявки, занятия, отзыва или сообщения
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
