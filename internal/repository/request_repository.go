package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const requestColumns = `id, tutor_id, student_id, subject, start_time, duration_minutes, occurrences, message,
	status, outside_availability, new_subject, decline_reason, created_at, responded_at`

type RequestRepository struct {
	*base.Repository
}

func NewRequestRepository(db base.DBTX) *RequestRepository {
	return &RequestRepository{Repository: base.NewRepository(db)}
}

func (r *RequestRepository) WithTx(tx pgx.Tx) *RequestRepository {
	return NewRequestRepository(tx)
}

func scanRequest(row pgx.Row) (*model.TutoringRequest, error) {
	var req model.TutoringRequest
	err := row.Scan(
		&req.ID,
		&req.TutorID,
		&req.StudentID,
		&req.Subject,
		&req.StartTime,
		&req.DurationMinutes,
		&req.Occurrences,
		&req.Message,
		&req.Status,
		&req.OutsideAvailability,
		&req.NewSubject,
		&req.DeclineReason,
		&req.CreatedAt,
		&req.RespondedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.TutoringRequest, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	requests, err := base.CollectRows(rows, scanRequest)
	if err != nil {
		return nil, fmt.Errorf("%s: scan request: %w", op, err)
	}
	return requests, nil
}

func (r *RequestRepository) getOne(ctx context.Context, op, query string, args ...any) (*model.TutoringRequest, error) {
	req, err := scanRequest(r.QueryRow(ctx, query, args...))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// Create создаёт заявку на занятие
func (r *RequestRepository) Create(ctx context.Context, req *model.TutoringRequest) error {
	query := `
		INSERT INTO requests (tutor_id, student_id, subject, start_time, duration_minutes, occurrences, message,
			status, outside_availability, new_subject)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		req.TutorID,
		req.StudentID,
		req.Subject,
		req.StartTime,
		req.DurationMinutes,
		req.Occurrences,
		req.Message,
		req.Status,
		req.OutsideAvailability,
		req.NewSubject,
	).Scan(&req.ID, &req.CreatedAt)

	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	return nil
}

// GetByID получает заявку по ID
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*model.TutoringRequest, error) {
	return r.getOne(ctx, "get request by id", `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id)
}

// GetByIDForUpdate locks the request row.
func (r *RequestRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.TutoringRequest, error) {
	return r.getOne(ctx, "lock request", `SELECT `+requestColumns+` FROM requests WHERE id = $1 FOR UPDATE`, id)
}

// GetByTutorID получает входящие заявки тьютора; пустой status означает все
func (r *RequestRepository) GetByTutorID(ctx context.Context, tutorID int64, status model.RequestStatus) ([]*model.TutoringRequest, error) {
	return r.list(ctx, "get requests by tutor", `
		SELECT `+requestColumns+`
		FROM requests
		WHERE tutor_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
	`, tutorID, string(status))
}

// GetByStudentID получает исходящие заявки студента
func (r *RequestRepository) GetByStudentID(ctx context.Context, studentID int64, status model.RequestStatus) ([]*model.TutoringRequest, error) {
	return r.list(ctx, "get requests by student", `
		SELECT `+requestColumns+`
		FROM requests
		WHERE student_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
	`, studentID, string(status))
}

// GetExpiredPending returns pending requests whose start time is not after now.
func (r *RequestRepository) GetExpiredPending(ctx context.Context, now time.Time) ([]*model.TutoringRequest, error) {
	return r.list(ctx, "get expired requests", `
		SELECT `+requestColumns+`
		FROM requests
		WHERE status = 'pending' AND start_time <= $1
		ORDER BY start_time
	`, now)
}

// UpdateStatus переводит заявку в новый статус и фиксирует время ответа
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status model.RequestStatus, reason string) error {
	n, err := r.ExecAffected(ctx, `
		UPDATE requests
		SET status = $1, decline_reason = $2, responded_at = now()
		WHERE id = $3
	`, status, reason, id)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("request not found")
	}
	return nil
}
