package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/availability"
	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const expiredReason = "expired"

type CreateRequestInput struct {
	StudentID       int64     `json:"student_id" validate:"required"`
	TutorID         int64     `json:"tutor_id" validate:"required"`
	Subject         string    `json:"subject" validate:"required,max=100"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"min=15,max=480"`
	Occurrences     int       `json:"occurrences" validate:"min=0,max=12"`
	Message         string    `json:"message" validate:"max=1000"`
}

type RequestService struct {
	pool        *pgxpool.Pool
	userRepo    *repository.UserRepository
	requestRepo *repository.RequestRepository
	sessionRepo *repository.SessionRepository
	alertRepo   *repository.AlertRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewRequestService(
	pool *pgxpool.Pool,
	userRepo *repository.UserRepository,
	requestRepo *repository.RequestRepository,
	sessionRepo *repository.SessionRepository,
	alertRepo *repository.AlertRepository,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		pool:        pool,
		userRepo:    userRepo,
		requestRepo: requestRepo,
		sessionRepo: sessionRepo,
		alertRepo:   alertRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Create создаёт заявку студента к тьютору
func (s *RequestService) Create(ctx context.Context, input CreateRequestInput) (*model.TutoringRequest, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.StudentID == input.TutorID {
		return nil, ErrSelfRequest
	}
	if !input.StartTime.After(s.now()) {
		return nil, ErrInPast
	}

	student, err := s.userRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, ErrUserNotFound
	}

	tutor, err := s.userRepo.GetByID(ctx, input.TutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}
	if tutor == nil {
		return nil, ErrUserNotFound
	}
	if !tutor.IsTutor {
		return nil, ErrNotTutor
	}

	req := &model.TutoringRequest{
		TutorID:         input.TutorID,
		StudentID:       input.StudentID,
		Subject:         strings.TrimSpace(input.Subject),
		StartTime:       input.StartTime.UTC(),
		DurationMinutes: input.DurationMinutes,
		Occurrences:     max(input.Occurrences, 1),
		Message:         strings.TrimSpace(input.Message),
		Status:          model.RequestStatusPending,
	}
	req.OutsideAvailability, req.NewSubject = EvaluateRequest(tutor, req)

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.requestRepo.WithTx(tx).Create(ctx, req); err != nil {
			return err
		}
		return pushAlert(ctx, s.alertRepo.WithTx(tx), tutor.ID, model.AlertRequestReceived, req.ID,
			requestReceivedText(student, req, tutor.Location()))
	})
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.logger.Info("Request created",
		zap.Int64("request_id", req.ID),
		zap.Int64("student_id", req.StudentID),
		zap.Int64("tutor_id", req.TutorID),
		zap.String("subject", req.Subject),
		zap.Bool("outside_availability", req.OutsideAvailability),
		zap.Bool("new_subject", req.NewSubject),
	)

	return req, nil
}

// EvaluateRequest computes the outside-availability and new-subject flags.
func EvaluateRequest(tutor *model.User, req *model.TutoringRequest) (outsideAvailability, newSubject bool) {
	outsideAvailability = !availability.FitsAll(tutor.Availability, tutor.Location(), req.OccurrenceTimes(tutor.Location()), req.Duration())
	newSubject = !tutor.TeachesSubject(req.Subject)
	return outsideAvailability, newSubject
}

// GetByID returns a request visible to one of its participants.
func (s *RequestService) GetByID(ctx context.Context, requestID, userID int64) (*model.TutoringRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if req.TutorID != userID && req.StudentID != userID {
		return nil, ErrForbidden
	}
	return req, nil
}

// ListIncoming получает заявки, адресованные тьютору
func (s *RequestService) ListIncoming(ctx context.Context, tutorID int64, status model.RequestStatus) ([]*model.TutoringRequest, error) {
	return s.requestRepo.GetByTutorID(ctx, tutorID, status)
}

// ListOutgoing получает заявки, отправленные студентом
func (s *RequestService) ListOutgoing(ctx context.Context, studentID int64, status model.RequestStatus) ([]*model.TutoringRequest, error) {
	return s.requestRepo.GetByStudentID(ctx, studentID, status)
}

// Approve accepts a pending request and schedules one session per weekly
// occurrence in the same transaction.
func (s *RequestService) Approve(ctx context.Context, requestID, tutorID int64) (*model.TutoringRequest, []*model.TutoringSession, error) {
	var (
		req      *model.TutoringRequest
		sessions []*model.TutoringSession
	)

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		requests := s.requestRepo.WithTx(tx)
		users := s.userRepo.WithTx(tx)
		sessionRepo := s.sessionRepo.WithTx(tx)

		var err error
		req, err = requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrRequestNotFound
		}
		if req.TutorID != tutorID {
			return ErrForbidden
		}
		if err := req.Status.Transition(model.RequestStatusApproved); err != nil {
			return err
		}
		if !req.StartTime.After(s.now()) {
			return ErrInPast
		}

		// Блокируем обоих участников, чтобы параллельные одобрения не создали пересечения
		locked, err := lockUsers(ctx, users, req.TutorID, req.StudentID)
		if err != nil {
			return err
		}
		tutor, student := locked[req.TutorID], locked[req.StudentID]

		for _, session := range PlanSessions(req, tutor.Location(), uuid.New) {
			clashes, err := sessionRepo.GetOverlapping(ctx, req.TutorID, req.StudentID, session.StartTime, req.Duration())
			if err != nil {
				return err
			}
			if len(clashes) > 0 {
				return fmt.Errorf("%w: session #%d at %s", ErrSessionConflict, clashes[0].ID, clashes[0].StartTime.Format(time.RFC3339))
			}
			if err := sessionRepo.Create(ctx, session); err != nil {
				return err
			}
			sessions = append(sessions, session)
		}

		if err := requests.UpdateStatus(ctx, req.ID, model.RequestStatusApproved, ""); err != nil {
			return err
		}
		req.Status = model.RequestStatusApproved

		return pushAlert(ctx, s.alertRepo.WithTx(tx), student.ID, model.AlertRequestApproved, sessions[0].ID,
			requestApprovedText(tutor, req, student.Location()))
	})
	if err != nil {
		return nil, nil, fmt.Errorf("approve request: %w", err)
	}

	s.logger.Info("Request approved",
		zap.Int64("request_id", req.ID),
		zap.Int64("tutor_id", tutorID),
		zap.Int("sessions", len(sessions)),
	)

	return req, sessions, nil
}

// PlanSessions builds the scheduled sessions an approved request turns into,
// one per weekly occurrence in the tutor's timezone. Occurrences of a
// recurring request share a series id from newID.
func PlanSessions(req *model.TutoringRequest, tutorLoc *time.Location, newID func() uuid.UUID) []*model.TutoringSession {
	starts := req.OccurrenceTimes(tutorLoc)

	var seriesID *uuid.UUID
	if len(starts) > 1 {
		id := newID()
		seriesID = &id
	}

	sessions := make([]*model.TutoringSession, 0, len(starts))
	for _, start := range starts {
		reqID := req.ID
		sessions = append(sessions, &model.TutoringSession{
			SeriesID:        seriesID,
			RequestID:       &reqID,
			TutorID:         req.TutorID,
			StudentID:       req.StudentID,
			Subject:         req.Subject,
			StartTime:       start,
			DurationMinutes: req.DurationMinutes,
			Status:          model.SessionStatusScheduled,
			Notes:           req.Message,
		})
	}
	return sessions
}

// Decline отклоняет заявку тьютором
func (s *RequestService) Decline(ctx context.Context, requestID, tutorID int64, reason string) (*model.TutoringRequest, error) {
	reason = strings.TrimSpace(reason)
	if err := validateInput(reasonInput{Reason: reason}); err != nil {
		return nil, err
	}

	req, err := s.respond(ctx, requestID, func(req *model.TutoringRequest) error {
		if req.TutorID != tutorID {
			return ErrForbidden
		}
		return nil
	}, model.RequestStatusDeclined, reason)
	if err != nil {
		return nil, fmt.Errorf("decline request: %w", err)
	}

	s.logger.Info("Request declined",
		zap.Int64("request_id", requestID),
		zap.Int64("tutor_id", tutorID),
	)
	return req, nil
}

// Cancel отзывает заявку студентом
func (s *RequestService) Cancel(ctx context.Context, requestID, studentID int64) (*model.TutoringRequest, error) {
	req, err := s.respond(ctx, requestID, func(req *model.TutoringRequest) error {
		if req.StudentID != studentID {
			return ErrForbidden
		}
		return nil
	}, model.RequestStatusCancelled, "")
	if err != nil {
		return nil, fmt.Errorf("cancel request: %w", err)
	}

	s.logger.Info("Request cancelled",
		zap.Int64("request_id", requestID),
		zap.Int64("student_id", studentID),
	)
	return req, nil
}

// ExpireStale declines pending requests whose start time has passed.
func (s *RequestService) ExpireStale(ctx context.Context) (int, error) {
	stale, err := s.requestRepo.GetExpiredPending(ctx, s.now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range stale {
		_, err := s.respond(ctx, candidate.ID, func(*model.TutoringRequest) error { return nil },
			model.RequestStatusDeclined, expiredReason)
		if errors.Is(err, ErrInvalidTransition) {
			continue // уже обработана параллельно
		}
		if err != nil {
			return expired, fmt.Errorf("expire request %d: %w", candidate.ID, err)
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info("Expired stale requests", zap.Int("count", expired))
	}
	return expired, nil
}

// respond moves a pending request to a terminal status and alerts the other side.
func (s *RequestService) respond(
	ctx context.Context,
	requestID int64,
	authorize func(*model.TutoringRequest) error,
	status model.RequestStatus,
	reason string,
) (*model.TutoringRequest, error) {
	var req *model.TutoringRequest

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		requests := s.requestRepo.WithTx(tx)

		var err error
		req, err = requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrRequestNotFound
		}
		if err := authorize(req); err != nil {
			return err
		}
		if err := req.Status.Transition(status); err != nil {
			return err
		}

		if err := requests.UpdateStatus(ctx, req.ID, status, reason); err != nil {
			return err
		}
		now := s.now()
		req.Status = status
		req.DeclineReason = reason
		req.RespondedAt = &now

		users, err := s.userRepo.WithTx(tx).GetByIDs(ctx, []int64{req.TutorID, req.StudentID})
		if err != nil {
			return err
		}
		byID := make(map[int64]*model.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}
		tutor, student := byID[req.TutorID], byID[req.StudentID]
		if tutor == nil || student == nil {
			return ErrUserNotFound
		}

		alerts := s.alertRepo.WithTx(tx)
		if status == model.RequestStatusCancelled {
			return pushAlert(ctx, alerts, tutor.ID, model.AlertRequestCancelled, req.ID, requestCancelledText(student, req))
		}
		return pushAlert(ctx, alerts, student.ID, model.AlertRequestDeclined, req.ID, requestDeclinedText(tutor, req, reason))
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// lockUsers locks user rows in id order so concurrent transactions cannot deadlock.
func lockUsers(ctx context.Context, users *repository.UserRepository, ids ...int64) (map[int64]*model.User, error) {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	locked := make(map[int64]*model.User, len(sorted))
	for _, id := range sorted {
		if _, ok := locked[id]; ok {
			continue
		}
		user, err := users.GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		locked[id] = user
	}
	return locked, nil
}
