package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type MessageRepository struct {
	*base.Repository
}

func NewMessageRepository(db base.DBTX) *MessageRepository {
	return &MessageRepository{Repository: base.NewRepository(db)}
}

func (r *MessageRepository) WithTx(tx pgx.Tx) *MessageRepository {
	return NewMessageRepository(tx)
}

func scanMessage(row pgx.Row) (*model.ChatMessage, error) {
	var m model.ChatMessage
	if err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create сохраняет сообщение
func (r *MessageRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	err := r.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`, msg.SenderID, msg.ReceiverID, msg.Content).Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// GetConversation returns the latest limit messages between two users, oldest first.
func (r *MessageRepository) GetConversation(ctx context.Context, userID, partnerID int64, limit int) ([]*model.ChatMessage, error) {
	rows, err := r.Query(ctx, `
		SELECT id, sender_id, receiver_id, content, is_read, created_at FROM (
			SELECT id, sender_id, receiver_id, content, is_read, created_at
			FROM messages
			WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		) latest
		ORDER BY created_at ASC, id ASC
	`, userID, partnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	messages, err := base.CollectRows(rows, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	return messages, nil
}

// GetConversations returns the latest message per partner with unread counts.
func (r *MessageRepository) GetConversations(ctx context.Context, userID int64) ([]*model.Conversation, error) {
	rows, err := r.Query(ctx, `
		WITH mine AS (
			SELECT id, sender_id, receiver_id, content, is_read, created_at,
				CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS partner_id
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
		)
		SELECT DISTINCT ON (partner_id)
			partner_id, id, sender_id, receiver_id, content, is_read, created_at,
			(SELECT count(*) FROM mine u WHERE u.partner_id = m.partner_id AND u.receiver_id = $1 AND NOT u.is_read)
		FROM mine m
		ORDER BY partner_id, created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]*model.Conversation, 0)
	for rows.Next() {
		var c model.Conversation
		var m model.ChatMessage
		if err := rows.Scan(&c.PartnerID, &m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt, &c.UnreadCount); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		c.LastMessage = &m
		conversations = append(conversations, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get conversations: %w", err)
	}
	return conversations, nil
}

// MarkConversationRead отмечает входящие сообщения от партнёра прочитанными
func (r *MessageRepository) MarkConversationRead(ctx context.Context, userID, partnerID int64) (int64, error) {
	n, err := r.ExecAffected(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE receiver_id = $1 AND sender_id = $2 AND is_read = FALSE
	`, userID, partnerID)
	if err != nil {
		return 0, fmt.Errorf("mark conversation read: %w", err)
	}
	return n, nil
}
