package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, series_id, request_id, tutor_id, student_id, subject, start_time, duration_minutes,
	status, notes, has_review, reminder_sent, cancelled_by, cancel_reason, created_at, updated_at`

type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(db base.DBTX) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(db)}
}

func (r *SessionRepository) WithTx(tx pgx.Tx) *SessionRepository {
	return NewSessionRepository(tx)
}

func scanSession(row pgx.Row) (*model.TutoringSession, error) {
	var s model.TutoringSession
	err := row.Scan(
		&s.ID,
		&s.SeriesID,
		&s.RequestID,
		&s.TutorID,
		&s.StudentID,
		&s.Subject,
		&s.StartTime,
		&s.DurationMinutes,
		&s.Status,
		&s.Notes,
		&s.HasReview,
		&s.ReminderSent,
		&s.CancelledBy,
		&s.CancelReason,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.TutoringSession, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sessions, err := base.CollectRows(rows, scanSession)
	if err != nil {
		return nil, fmt.Errorf("%s: scan session: %w", op, err)
	}
	return sessions, nil
}

func (r *SessionRepository) getOne(ctx context.Context, op, query string, args ...any) (*model.TutoringSession, error) {
	s, err := scanSession(r.QueryRow(ctx, query, args...))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// Create создаёт занятие
func (r *SessionRepository) Create(ctx context.Context, s *model.TutoringSession) error {
	query := `
		INSERT INTO sessions (series_id, request_id, tutor_id, student_id, subject, start_time, duration_minutes, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		s.SeriesID,
		s.RequestID,
		s.TutorID,
		s.StudentID,
		s.Subject,
		s.StartTime,
		s.DurationMinutes,
		s.Status,
		s.Notes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// GetByID получает занятие по ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.TutoringSession, error) {
	return r.getOne(ctx, "get session by id", `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
}

// GetByIDForUpdate locks the session row.
func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.TutoringSession, error) {
	return r.getOne(ctx, "lock session", `SELECT `+sessionColumns+` FROM sessions WHERE id = $1 FOR UPDATE`, id)
}

// GetByUserID returns every session where the user is tutor or student.
func (r *SessionRepository) GetByUserID(ctx context.Context, userID int64) ([]*model.TutoringSession, error) {
	return r.list(ctx, "get sessions by user",
		`SELECT `+sessionColumns+` FROM sessions WHERE tutor_id = $1 OR student_id = $1 ORDER BY start_time`, userID)
}

// GetUpcomingByUserID получает предстоящие занятия пользователя
func (r *SessionRepository) GetUpcomingByUserID(ctx context.Context, userID int64, now time.Time) ([]*model.TutoringSession, error) {
	return r.list(ctx, "get upcoming sessions", `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE (tutor_id = $1 OR student_id = $1) AND status = 'scheduled' AND start_time > $2
		ORDER BY start_time ASC
	`, userID, now)
}

// GetPastByUserID получает прошедшие, завершённые и отменённые занятия
func (r *SessionRepository) GetPastByUserID(ctx context.Context, userID int64, now time.Time) ([]*model.TutoringSession, error) {
	return r.list(ctx, "get past sessions", `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE (tutor_id = $1 OR student_id = $1) AND NOT (status = 'scheduled' AND start_time > $2)
		ORDER BY start_time DESC
	`, userID, now)
}

// GetOverlapping returns scheduled sessions of either user that intersect
// [start, start+duration).
func (r *SessionRepository) GetOverlapping(ctx context.Context, tutorID, studentID int64, start time.Time, duration time.Duration) ([]*model.TutoringSession, error) {
	end := start.Add(duration)
	return r.list(ctx, "get overlapping sessions", `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE status = 'scheduled'
		  AND (tutor_id IN ($1, $2) OR student_id IN ($1, $2))
		  AND start_time < $4
		  AND start_time + make_interval(mins => duration_minutes) > $3
	`, tutorID, studentID, start, end)
}

// GetDueForReminder returns scheduled sessions starting in (now, until] with no reminder yet.
func (r *SessionRepository) GetDueForReminder(ctx context.Context, now, until time.Time) ([]*model.TutoringSession, error) {
	return r.list(ctx, "get sessions due for reminder", `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE status = 'scheduled' AND reminder_sent = FALSE AND start_time > $1 AND start_time <= $2
		ORDER BY start_time
	`, now, until)
}

// UpdateStatus обновляет статус занятия
func (r *SessionRepository) UpdateStatus(ctx context.Context, id int64, status model.SessionStatus) error {
	n, err := r.ExecAffected(ctx, `UPDATE sessions SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session not found")
	}
	return nil
}

// Cancel отменяет занятие и запоминает кто и почему
func (r *SessionRepository) Cancel(ctx context.Context, id, cancelledBy int64, reason string) error {
	n, err := r.ExecAffected(ctx, `
		UPDATE sessions
		SET status = 'cancelled', cancelled_by = $1, cancel_reason = $2, updated_at = now()
		WHERE id = $3
	`, cancelledBy, reason, id)
	if err != nil {
		return fmt.Errorf("cancel session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session not found")
	}
	return nil
}

// UpdateNotes сохраняет заметки к занятию
func (r *SessionRepository) UpdateNotes(ctx context.Context, id int64, notes string) error {
	n, err := r.ExecAffected(ctx, `UPDATE sessions SET notes = $1, updated_at = now() WHERE id = $2`, notes, id)
	if err != nil {
		return fmt.Errorf("update session notes: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session not found")
	}
	return nil
}

// MarkReviewed выставляет флаг has_review
func (r *SessionRepository) MarkReviewed(ctx context.Context, id int64) error {
	n, err := r.ExecAffected(ctx, `UPDATE sessions SET has_review = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark session reviewed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session not found")
	}
	return nil
}

// MarkReminderSent returns false when another worker already claimed the reminder.
func (r *SessionRepository) MarkReminderSent(ctx context.Context, id int64) (bool, error) {
	n, err := r.ExecAffected(ctx,
		`UPDATE sessions SET reminder_sent = TRUE, updated_at = now() WHERE id = $1 AND reminder_sent = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("mark reminder sent: %w", err)
	}
	return n == 1, nil
}
