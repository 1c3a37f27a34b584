package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

func TestSortConversations(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	convs := []*model.Conversation{
		{PartnerID: 1, LastMessage: &model.ChatMessage{ID: 10, CreatedAt: base}},
		{PartnerID: 2, LastMessage: &model.ChatMessage{ID: 30, CreatedAt: base.Add(time.Hour)}},
		{PartnerID: 3, LastMessage: &model.ChatMessage{ID: 11, CreatedAt: base}},
	}

	SortConversations(convs)

	assert.Equal(t, []int64{2, 3, 1}, []int64{convs[0].PartnerID, convs[1].PartnerID, convs[2].PartnerID})
}

func TestSendMessageRejectsBeforeStorage(t *testing.T) {
	svc := &MessageService{logger: zap.NewNop()}

	_, err := svc.Send(context.Background(), SendMessageInput{SenderID: 1, ReceiverID: 1, Content: "hi"})
	assert.ErrorIs(t, err, ErrSelfMessage)

	_, err = svc.Send(context.Background(), SendMessageInput{SenderID: 1, ReceiverID: 2, Content: "   "})
	assert.True(t, IsValidation(err))
}
