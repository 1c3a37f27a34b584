package service

import (
	"context"
	"fmt"
	"io"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/report"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"go.uber.org/zap"
)

// ReportService exports session history.
type ReportService struct {
	sessions   *SessionService
	userRepo   *repository.UserRepository
	reviewRepo *repository.ReviewRepository
	logger     *zap.Logger
}

func NewReportService(
	sessions *SessionService,
	userRepo *repository.UserRepository,
	reviewRepo *repository.ReviewRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		sessions:   sessions,
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

// ExportSessions writes all sessions of userID (as tutor and student) to w as xlsx.
func (s *ReportService) ExportSessions(ctx context.Context, userID int64, w io.Writer) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	upcoming, past, err := s.sessions.Overview(ctx, userID)
	if err != nil {
		return err
	}
	sessions := make([]*model.TutoringSession, 0, len(past)+len(upcoming))
	sessions = append(sessions, past...)
	sessions = append(sessions, upcoming...)

	ids := make([]int64, 0, len(sessions))
	for _, session := range sessions {
		if session.HasReview {
			ids = append(ids, session.ID)
		}
	}
	ratings, err := s.reviewRepo.GetRatingsBySessionIDs(ctx, ids)
	if err != nil {
		return err
	}

	if err := report.WriteSessions(w, userID, sessions, ratings, user.Location()); err != nil {
		return fmt.Errorf("export sessions: %w", err)
	}

	s.logger.Info("Sessions exported",
		zap.Int64("user_id", userID),
		zap.Int("sessions", len(sessions)))
	return nil
}
