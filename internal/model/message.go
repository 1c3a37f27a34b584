package model

import "time"

type ChatMessage struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation is the latest message exchanged with one partner.
type Conversation struct {
	PartnerID   int64        `json:"partner_id"`
	Partner     *User        `json:"partner,omitempty"`
	LastMessage *ChatMessage `json:"last_message"`
	UnreadCount int          `json:"unread_count"`
}
