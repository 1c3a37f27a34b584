package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const maxConversationPage = 200

type SendMessageInput struct {
	SenderID   int64  `json:"sender_id" validate:"required"`
	ReceiverID int64  `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required,max=4000"`
}

type MessageService struct {
	pool        *pgxpool.Pool
	userRepo    *repository.UserRepository
	messageRepo *repository.MessageRepository
	alertRepo   *repository.AlertRepository
	logger      *zap.Logger
}

func NewMessageService(
	pool *pgxpool.Pool,
	userRepo *repository.UserRepository,
	messageRepo *repository.MessageRepository,
	alertRepo *repository.AlertRepository,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		pool:        pool,
		userRepo:    userRepo,
		messageRepo: messageRepo,
		alertRepo:   alertRepo,
		logger:      logger,
	}
}

// Send сохраняет сообщение и уведомляет получателя
func (s *MessageService) Send(ctx context.Context, input SendMessageInput) (*model.ChatMessage, error) {
	input.Content = strings.TrimSpace(input.Content)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.SenderID == input.ReceiverID {
		return nil, ErrSelfMessage
	}

	sender, err := s.userRepo.GetByID(ctx, input.SenderID)
	if err != nil {
		return nil, fmt.Errorf("get sender: %w", err)
	}
	receiver, err := s.userRepo.GetByID(ctx, input.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("get receiver: %w", err)
	}
	if sender == nil || receiver == nil {
		return nil, ErrUserNotFound
	}

	msg := &model.ChatMessage{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    input.Content,
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.messageRepo.WithTx(tx).Create(ctx, msg); err != nil {
			return err
		}
		return pushAlert(ctx, s.alertRepo.WithTx(tx), receiver.ID, model.AlertMessageReceived, msg.ID,
			messageReceivedText(sender, msg.Content))
	})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	s.logger.Debug("Message sent",
		zap.Int64("message_id", msg.ID),
		zap.Int64("sender_id", msg.SenderID),
		zap.Int64("receiver_id", msg.ReceiverID),
	)

	return msg, nil
}

// Conversation получает переписку двух пользователей, старые сообщения первыми
func (s *MessageService) Conversation(ctx context.Context, userID, partnerID int64, limit int) ([]*model.ChatMessage, error) {
	if limit <= 0 || limit > maxConversationPage {
		limit = maxConversationPage
	}
	return s.messageRepo.GetConversation(ctx, userID, partnerID, limit)
}

// Conversations lists chat partners with the latest message, newest first.
func (s *MessageService) Conversations(ctx context.Context, userID int64) ([]*model.Conversation, error) {
	conversations, err := s.messageRepo.GetConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(conversations))
	for _, c := range conversations {
		ids = append(ids, c.PartnerID)
	}
	partners, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load partners: %w", err)
	}
	byID := make(map[int64]*model.User, len(partners))
	for _, p := range partners {
		byID[p.ID] = p
	}
	for _, c := range conversations {
		c.Partner = byID[c.PartnerID]
	}

	SortConversations(conversations)
	return conversations, nil
}

// MarkRead отмечает переписку с партнёром прочитанной
func (s *MessageService) MarkRead(ctx context.Context, userID, partnerID int64) (int64, error) {
	return s.messageRepo.MarkConversationRead(ctx, userID, partnerID)
}

// SortConversations orders conversations by latest message, newest first.
func SortConversations(conversations []*model.Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i].LastMessage, conversations[j].LastMessage
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
