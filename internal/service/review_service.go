package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const maxReviewsPage = 100

type SubmitReviewInput struct {
	SessionID int64  `json:"session_id" validate:"required"`
	StudentID int64  `json:"student_id" validate:"required"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

type ReviewService struct {
	pool        *pgxpool.Pool
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	reviewRepo  *repository.ReviewRepository
	alertRepo   *repository.AlertRepository
	logger      *zap.Logger
}

func NewReviewService(
	pool *pgxpool.Pool,
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	reviewRepo *repository.ReviewRepository,
	alertRepo *repository.AlertRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		pool:        pool,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		reviewRepo:  reviewRepo,
		alertRepo:   alertRepo,
		logger:      logger,
	}
}

// Submit stores a student's review of a completed session and folds the
// rating into the tutor's average.
func (s *ReviewService) Submit(ctx context.Context, input SubmitReviewInput) (*model.Review, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	review := &model.Review{
		SessionID: input.SessionID,
		StudentID: input.StudentID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}

	var tutor *model.User
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		session, err := s.sessionRepo.WithTx(tx).GetByIDForUpdate(ctx, input.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrSessionNotFound
		}
		if err := checkReviewable(session, input.StudentID); err != nil {
			return err
		}
		review.TutorID = session.TutorID

		if err := s.reviewRepo.WithTx(tx).Create(ctx, review); err != nil {
			if base.IsUniqueViolation(err) {
				return ErrAlreadyReviewed
			}
			return err
		}
		if err := s.sessionRepo.WithTx(tx).MarkReviewed(ctx, session.ID); err != nil {
			return err
		}

		users := s.userRepo.WithTx(tx)
		tutor, err = users.GetByIDForUpdate(ctx, session.TutorID)
		if err != nil {
			return err
		}
		if tutor == nil {
			return ErrUserNotFound
		}
		tutor.AverageRating, tutor.ReviewCount = model.NextAverage(tutor.AverageRating, tutor.ReviewCount, review.Rating)
		if err := users.UpdateRating(ctx, tutor.ID, tutor.AverageRating, tutor.ReviewCount); err != nil {
			return err
		}

		student, err := users.GetByID(ctx, input.StudentID)
		if err != nil {
			return err
		}
		if student == nil {
			return ErrUserNotFound
		}
		return pushAlert(ctx, s.alertRepo.WithTx(tx), tutor.ID, model.AlertReviewReceived, review.ID,
			reviewReceivedText(student, review))
	})
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	s.logger.Info("Review submitted",
		zap.Int64("review_id", review.ID),
		zap.Int64("session_id", review.SessionID),
		zap.Int64("tutor_id", review.TutorID),
		zap.Int("rating", review.Rating),
		zap.Float64("average_rating", tutor.AverageRating),
		zap.Int("review_count", tutor.ReviewCount),
	)

	return review, nil
}

// checkReviewable enforces who may review a session and when.
func checkReviewable(session *model.TutoringSession, studentID int64) error {
	if session.StudentID != studentID {
		return ErrForbidden
	}
	if session.Status != model.SessionStatusCompleted {
		return ErrNotCompleted
	}
	if session.HasReview {
		return ErrAlreadyReviewed
	}
	return nil
}

// ListForTutor получает отзывы о тьюторе
func (s *ReviewService) ListForTutor(ctx context.Context, tutorID int64, limit int) ([]*model.Review, error) {
	if limit <= 0 || limit > maxReviewsPage {
		limit = maxReviewsPage
	}
	return s.reviewRepo.GetByTutorID(ctx, tutorID, limit)
}

// GetForSession returns the session's review, or ErrNotFound.
func (s *ReviewService) GetForSession(ctx context.Context, sessionID, userID int64) (*model.Review, error) {
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

	review, err := s.reviewRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, fmt.Errorf("review %w", ErrNotFound)
	}
	return review, nil
}
