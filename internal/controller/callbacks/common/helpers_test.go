package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/peer_tutoring/internal/service"
)

func TestParseIDFromCallback(t *testing.T) {
	id, err := ParseIDFromCallback(Data(ApproveRequest, 123))
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)

	for _, bad := range []string{"req_approve", "req_approve:", "req_approve:abc", "req_approve:0", "a:1:2"} {
		_, err := ParseIDFromCallback(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}

func TestParseIDAndValue(t *testing.T) {
	id, rating, err := ParseIDAndValue(DataWithValue(RateSession, 12, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.Equal(t, 5, rating)

	_, _, err = ParseIDAndValue("rev_rate:12")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, _, err = ParseIDAndValue("rev_rate:x:5")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	const maxID = int64(9_223_372_036_854_775_807)
	for _, prefix := range []string{NewRequest, TutorReviews, WriteMessage, ApproveRequest, DeclineRequest,
		CancelRequest, CompleteSession, CancelSession, SessionNotes, StartReview, ReadConversation} {
		assert.LessOrEqual(t, len(Data(prefix, maxID)), 64, prefix)
	}
	assert.LessOrEqual(t, len(DataWithValue(RateSession, maxID, 5)), 64)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("approve: %w", service.ErrSessionConflict), "❌ Время пересекается с другим занятием"},
		{service.ErrUserNotFound, "❌ Пользователь не найден. Используйте /start"},
		{service.ErrNotTutor, "❌ Эта функция доступна только тьюторам. Стать тьютором: /becometutor"},
		{fmt.Errorf("x: %w", service.ErrInvalidTransition), "❌ Статус уже изменён"},
		{errors.New("db down"), "❌ Произошла ошибка"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ErrorMessage(tc.err))
	}

	msg := ErrorMessage(service.NewValidationError(service.FieldError{Field: "rating", Error: "must be at most 5"}))
	assert.Contains(t, msg, "rating")
}

func TestIsMessageNotModifiedError(t *testing.T) {
	assert.False(t, IsMessageNotModifiedError(nil))
	assert.True(t, IsMessageNotModifiedError(errors.New("bad request, Bad Request: message is not modified")))
	assert.False(t, IsMessageNotModifiedError(errors.New("forbidden")))
}
