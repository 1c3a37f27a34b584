package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"go.uber.org/zap"
)

const (
	maxAlertsPage = 100
	// Payload NOTIFY ограничен 8000 байт, строка алерта уходит туда целиком
	maxAlertLength = 1000
)

type AlertService struct {
	alertRepo *repository.AlertRepository
	logger    *zap.Logger
}

func NewAlertService(alertRepo *repository.AlertRepository, logger *zap.Logger) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		logger:    logger,
	}
}

// List получает уведомления пользователя
func (s *AlertService) List(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*model.Alert, error) {
	if limit <= 0 || limit > maxAlertsPage {
		limit = maxAlertsPage
	}
	return s.alertRepo.GetByUserID(ctx, userID, unreadOnly, limit)
}

// UnreadCount считает непрочитанные уведомления
func (s *AlertService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.alertRepo.CountUnread(ctx, userID)
}

// MarkRead отмечает одно уведомление прочитанным
func (s *AlertService) MarkRead(ctx context.Context, alertID, userID int64) error {
	ok, err := s.alertRepo.MarkRead(ctx, alertID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlertNotFound
	}
	return nil
}

// MarkAllRead отмечает все уведомления прочитанными
func (s *AlertService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.alertRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("Alerts marked read", zap.Int64("user_id", userID), zap.Int64("count", n))
	return n, nil
}

// pushAlert records an alert through repo, which may be bound to a transaction.
func pushAlert(ctx context.Context, repo *repository.AlertRepository, userID int64, typ model.AlertType, relatedID int64, message string) error {
	alert := &model.Alert{
		UserID:    userID,
		Type:      typ,
		Message:   truncateRunes(message, maxAlertLength),
		RelatedID: relatedID,
	}
	if err := repo.Create(ctx, alert); err != nil {
		return fmt.Errorf("push %s alert: %w", typ, err)
	}
	return nil
}

func alertTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("Mon 02 Jan 15:04 MST")
}

func requestReceivedText(student *model.User, req *model.TutoringRequest, tutorLoc *time.Location) string {
	text := fmt.Sprintf("%s requested a %s session on %s (%d min)",
		student.DisplayName(), req.Subject, alertTime(req.StartTime, tutorLoc), req.DurationMinutes)
	if req.Occurrences > 1 {
		text += fmt.Sprintf(", weekly x%d", req.Occurrences)
	}
	if req.OutsideAvailability {
		text += ", outside your availability"
	}
	if req.NewSubject {
		text += ", new subject"
	}
	return text
}

func requestApprovedText(tutor *model.User, req *model.TutoringRequest, studentLoc *time.Location) string {
	return fmt.Sprintf("%s approved your %s session on %s", tutor.DisplayName(), req.Subject, alertTime(req.StartTime, studentLoc))
}

func requestDeclinedText(tutor *model.User, req *model.TutoringRequest, reason string) string {
	text := fmt.Sprintf("%s declined your %s request", tutor.DisplayName(), req.Subject)
	if reason != "" {
		text += ": " + reason
	}
	return text
}

func requestCancelledText(student *model.User, req *model.TutoringRequest) string {
	return fmt.Sprintf("%s withdrew the %s request", student.DisplayName(), req.Subject)
}

func sessionCancelledText(by *model.User, session *model.TutoringSession, reason string, loc *time.Location) string {
	text := fmt.Sprintf("%s cancelled the %s session on %s", by.DisplayName(), session.Subject, alertTime(session.StartTime, loc))
	if reason != "" {
		text += ": " + reason
	}
	return text
}

func sessionCompletedText(by *model.User, session *model.TutoringSession) string {
	return fmt.Sprintf("%s marked the %s session as completed", by.DisplayName(), session.Subject)
}

func sessionReminderText(counterpart *model.User, session *model.TutoringSession, loc *time.Location) string {
	return fmt.Sprintf("Reminder: %s session with %s at %s", session.Subject, counterpart.DisplayName(), alertTime(session.StartTime, loc))
}

func reviewReceivedText(student *model.User, review *model.Review) string {
	return fmt.Sprintf("%s rated your session %d/5", student.DisplayName(), review.Rating)
}

func messageReceivedText(sender *model.User, content string) string {
	return fmt.Sprintf("%s: %s", sender.DisplayName(), truncateRunes(content, 80))
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "…"
}
