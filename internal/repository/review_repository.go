package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type ReviewRepository struct {
	*base.Repository
}

func NewReviewRepository(db base.DBTX) *ReviewRepository {
	return &ReviewRepository{Repository: base.NewRepository(db)}
}

func (r *ReviewRepository) WithTx(tx pgx.Tx) *ReviewRepository {
	return NewReviewRepository(tx)
}

func scanReview(row pgx.Row) (*model.Review, error) {
	var rv model.Review
	if err := row.Scan(&rv.ID, &rv.SessionID, &rv.TutorID, &rv.StudentID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

// Create сохраняет отзыв
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (session_id, tutor_id, student_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query,
		review.SessionID,
		review.TutorID,
		review.StudentID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

// GetBySessionID получает отзыв по занятию
func (r *ReviewRepository) GetBySessionID(ctx context.Context, sessionID int64) (*model.Review, error) {
	rv, err := scanReview(r.QueryRow(ctx, `
		SELECT id, session_id, tutor_id, student_id, rating, comment, created_at
		FROM reviews WHERE session_id = $1
	`, sessionID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review by session: %w", err)
	}
	return rv, nil
}

// GetByTutorID получает отзывы о тьюторе, новые первыми
func (r *ReviewRepository) GetByTutorID(ctx context.Context, tutorID int64, limit int) ([]*model.Review, error) {
	rows, err := r.Query(ctx, `
		SELECT id, session_id, tutor_id, student_id, rating, comment, created_at
		FROM reviews
		WHERE tutor_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, tutorID, limit)
	if err != nil {
		return nil, fmt.Errorf("get reviews by tutor: %w", err)
	}

	reviews, err := base.CollectRows(rows, scanReview)
	if err != nil {
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return reviews, nil
}

// GetRatingsBySessionIDs maps session id to its review rating.
func (r *ReviewRepository) GetRatingsBySessionIDs(ctx context.Context, sessionIDs []int64) (map[int64]int, error) {
	ratings := make(map[int64]int, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return ratings, nil
	}

	rows, err := r.Query(ctx, `SELECT session_id, rating FROM reviews WHERE session_id = ANY($1)`, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("get ratings by sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sessionID int64
		var rating int
		if err := rows.Scan(&sessionID, &rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings[sessionID] = rating
	}
	return ratings, rows.Err()
}
