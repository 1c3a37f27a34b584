package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SessionService struct {
	pool        *pgxpool.Pool
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	alertRepo   *repository.AlertRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewSessionService(
	pool *pgxpool.Pool,
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	alertRepo *repository.AlertRepository,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		pool:        pool,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		alertRepo:   alertRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// GetByID returns a session visible to one of its participants.
func (s *SessionService) GetByID(ctx context.Context, sessionID, userID int64) (*model.TutoringSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if !session.IsParticipant(userID) {
		return nil, ErrForbidden
	}
	if err := s.attachParticipants(ctx, []*model.TutoringSession{session}); err != nil {
		return nil, err
	}
	return session, nil
}

// ListUpcoming получает предстоящие занятия пользователя
func (s *SessionService) ListUpcoming(ctx context.Context, userID int64) ([]*model.TutoringSession, error) {
	sessions, err := s.sessionRepo.GetUpcomingByUserID(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	return sessions, s.attachParticipants(ctx, sessions)
}

// ListPast получает прошедшие занятия пользователя
func (s *SessionService) ListPast(ctx context.Context, userID int64) ([]*model.TutoringSession, error) {
	sessions, err := s.sessionRepo.GetPastByUserID(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	return sessions, s.attachParticipants(ctx, sessions)
}

// Overview returns upcoming and past sessions from a single query.
func (s *SessionService) Overview(ctx context.Context, userID int64) (upcoming, past []*model.TutoringSession, err error) {
	sessions, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.attachParticipants(ctx, sessions); err != nil {
		return nil, nil, err
	}
	upcoming, past = model.SplitSessions(sessions, s.now())
	return upcoming, past, nil
}

// Complete отмечает занятие завершённым
func (s *SessionService) Complete(ctx context.Context, sessionID, userID int64) (*model.TutoringSession, error) {
	session, err := s.transition(ctx, sessionID, userID, model.SessionStatusCompleted, func(session *model.TutoringSession) error {
		return checkCompletable(session, s.now())
	}, "")
	if err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}

	s.logger.Info("Session completed",
		zap.Int64("session_id", sessionID),
		zap.Int64("user_id", userID),
	)
	return session, nil
}

// Cancel отменяет ещё не начавшееся занятие
func (s *SessionService) Cancel(ctx context.Context, sessionID, userID int64, reason string) (*model.TutoringSession, error) {
	reason = strings.TrimSpace(reason)
	if err := validateInput(reasonInput{Reason: reason}); err != nil {
		return nil, err
	}

	session, err := s.transition(ctx, sessionID, userID, model.SessionStatusCancelled, func(session *model.TutoringSession) error {
		return checkCancellable(session, s.now())
	}, reason)
	if err != nil {
		return nil, fmt.Errorf("cancel session: %w", err)
	}

	s.logger.Info("Session cancelled",
		zap.Int64("session_id", sessionID),
		zap.Int64("user_id", userID),
		zap.String("reason", reason),
	)
	return session, nil
}

// checkCompletable: завершить можно только начавшееся занятие
func checkCompletable(session *model.TutoringSession, now time.Time) error {
	if session.StartTime.After(now) {
		return ErrSessionNotStarted
	}
	return nil
}

func checkCancellable(session *model.TutoringSession, now time.Time) error {
	if !session.StartTime.After(now) {
		return ErrSessionStarted
	}
	return nil
}

// UpdateNotes сохраняет заметки участника к занятию
func (s *SessionService) UpdateNotes(ctx context.Context, sessionID, userID int64, notes string) (*model.TutoringSession, error) {
	notes = strings.TrimSpace(notes)
	if err := validateInput(notesInput{Notes: notes}); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if !session.IsParticipant(userID) {
		return nil, ErrForbidden
	}
	if session.Status == model.SessionStatusCancelled {
		return nil, ErrSessionCancelled
	}

	if err := s.sessionRepo.UpdateNotes(ctx, sessionID, notes); err != nil {
		return nil, err
	}
	session.Notes = notes
	return session, nil
}

// SendReminders alerts both participants of sessions starting within lead.
func (s *SessionService) SendReminders(ctx context.Context, lead time.Duration) (int, error) {
	now := s.now()
	due, err := s.sessionRepo.GetDueForReminder(ctx, now, now.Add(lead))
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}
	if err := s.attachParticipants(ctx, due); err != nil {
		return 0, err
	}

	sent := 0
	for _, session := range due {
		if session.Tutor == nil || session.Student == nil {
			continue
		}

		claimed := false
		err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			var err error
			claimed, err = s.sessionRepo.WithTx(tx).MarkReminderSent(ctx, session.ID)
			if err != nil || !claimed {
				return err
			}
			alerts := s.alertRepo.WithTx(tx)
			if err := pushAlert(ctx, alerts, session.TutorID, model.AlertSessionReminder, session.ID,
				sessionReminderText(session.Student, session, session.Tutor.Location())); err != nil {
				return err
			}
			return pushAlert(ctx, alerts, session.StudentID, model.AlertSessionReminder, session.ID,
				sessionReminderText(session.Tutor, session, session.Student.Location()))
		})
		if err != nil {
			return sent, fmt.Errorf("remind session %d: %w", session.ID, err)
		}
		if claimed {
			sent++
		}
	}

	if sent > 0 {
		s.logger.Info("Session reminders sent", zap.Int("count", sent))
	}
	return sent, nil
}

func (s *SessionService) transition(
	ctx context.Context,
	sessionID, userID int64,
	status model.SessionStatus,
	check func(*model.TutoringSession) error,
	reason string,
) (*model.TutoringSession, error) {
	var session *model.TutoringSession

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		sessions := s.sessionRepo.WithTx(tx)

		var err error
		session, err = sessions.GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrSessionNotFound
		}
		if !session.IsParticipant(userID) {
			return ErrForbidden
		}
		if err := session.Status.Transition(status); err != nil {
			return err
		}
		if err := check(session); err != nil {
			return err
		}

		users, err := s.userRepo.WithTx(tx).GetByIDs(ctx, []int64{session.TutorID, session.StudentID})
		if err != nil {
			return err
		}
		byID := make(map[int64]*model.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}
		actor, other := byID[userID], byID[session.Counterpart(userID)]
		if actor == nil || other == nil {
			return ErrUserNotFound
		}

		alerts := s.alertRepo.WithTx(tx)
		switch status {
		case model.SessionStatusCancelled:
			if err := sessions.Cancel(ctx, session.ID, userID, reason); err != nil {
				return err
			}
			session.CancelledBy = &userID
			session.CancelReason = reason
			session.Status = status
			return pushAlert(ctx, alerts, other.ID, model.AlertSessionCancelled, session.ID,
				sessionCancelledText(actor, session, reason, other.Location()))
		default:
			if err := sessions.UpdateStatus(ctx, session.ID, status); err != nil {
				return err
			}
			session.Status = status
			return pushAlert(ctx, alerts, other.ID, model.AlertSessionCompleted, session.ID,
				sessionCompletedText(actor, session))
		}
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// attachParticipants fills Tutor and Student for display.
func (s *SessionService) attachParticipants(ctx context.Context, sessions []*model.TutoringSession) error {
	if len(sessions) == 0 {
		return nil
	}

	idSet := make(map[int64]struct{})
	for _, session := range sessions {
		idSet[session.TutorID] = struct{}{}
		idSet[session.StudentID] = struct{}{}
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load participants: %w", err)
	}
	byID := make(map[int64]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, session := range sessions {
		session.Tutor = byID[session.TutorID]
		session.Student = byID[session.StudentID]
	}
	return nil
}
