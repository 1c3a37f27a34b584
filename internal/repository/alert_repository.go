package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type AlertRepository struct {
	*base.Repository
}

func NewAlertRepository(db base.DBTX) *AlertRepository {
	return &AlertRepository{Repository: base.NewRepository(db)}
}

func (r *AlertRepository) WithTx(tx pgx.Tx) *AlertRepository {
	return NewAlertRepository(tx)
}

func scanAlert(row pgx.Row) (*model.Alert, error) {
	var a model.Alert
	if err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.Message, &a.RelatedID, &a.IsRead, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create сохраняет уведомление; триггер alerts_notify рассылает его слушателям
func (r *AlertRepository) Create(ctx context.Context, alert *model.Alert) error {
	query := `
		INSERT INTO alerts (user_id, type, message, related_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`

	err := r.QueryRow(ctx, query, alert.UserID, alert.Type, alert.Message, alert.RelatedID).
		Scan(&alert.ID, &alert.IsRead, &alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// GetByUserID получает уведомления пользователя, новые первыми
func (r *AlertRepository) GetByUserID(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*model.Alert, error) {
	rows, err := r.Query(ctx, `
		SELECT id, user_id, type, message, related_id, is_read, created_at
		FROM alerts
		WHERE user_id = $1 AND (NOT $2 OR is_read = FALSE)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("get alerts by user: %w", err)
	}

	alerts, err := base.CollectRows(rows, scanAlert)
	if err != nil {
		return nil, fmt.Errorf("scan alert: %w", err)
	}
	return alerts, nil
}

// CountUnread считает непрочитанные уведомления
func (r *AlertRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRow(ctx, `SELECT count(*) FROM alerts WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread alerts: %w", err)
	}
	return count, nil
}

// MarkRead отмечает уведомление прочитанным; false если оно не принадлежит пользователю
func (r *AlertRepository) MarkRead(ctx context.Context, id, userID int64) (bool, error) {
	n, err := r.ExecAffected(ctx, `UPDATE alerts SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark alert read: %w", err)
	}
	return n == 1, nil
}

// MarkAllRead отмечает все уведомления пользователя прочитанными
func (r *AlertRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := r.ExecAffected(ctx, `UPDATE alerts SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all alerts read: %w", err)
	}
	return n, nil
}
