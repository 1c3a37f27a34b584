package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

func TestSessionTimingChecks(t *testing.T) {
	session := &model.TutoringSession{StartTime: fixedNow.Add(time.Hour), DurationMinutes: 60}

	tests := []struct {
		name        string
		now         time.Time
		completeErr error
		cancelErr   error
	}{
		{"before start", fixedNow, ErrSessionNotStarted, nil},
		{"at start", session.StartTime, nil, ErrSessionStarted},
		{"in progress", session.StartTime.Add(30 * time.Minute), nil, ErrSessionStarted},
		{"after end", session.EndTime().Add(time.Hour), nil, ErrSessionStarted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, checkCompletable(session, tt.now), tt.completeErr)
			assert.ErrorIs(t, checkCancellable(session, tt.now), tt.cancelErr)
		})
	}
}

func newTestSessionService() *SessionService {
	return &SessionService{logger: zap.NewNop(), now: func() time.Time { return fixedNow }}
}

func TestUpdateNotesRejectsLongText(t *testing.T) {
	svc := newTestSessionService()

	_, err := svc.UpdateNotes(context.Background(), 1, 1, strings.Repeat("a", maxNotesLength+1))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "notes", ve.Fields[0].Field)
}

func TestNotesLengthCountsRunes(t *testing.T) {
	// 3000 кириллических символов это 6000 байт, но лимит в символах
	assert.NoError(t, validateInput(notesInput{Notes: strings.Repeat("ж", 3000)}))
	assert.NoError(t, validateInput(notesInput{Notes: strings.Repeat("ж", maxNotesLength)}))

	err := validateInput(notesInput{Notes: strings.Repeat("ж", maxNotesLength+1)})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "notes", ve.Fields[0].Field)
}

func TestCancelSessionRejectsLongReason(t *testing.T) {
	svc := newTestSessionService()

	_, err := svc.Cancel(context.Background(), 1, 1, strings.Repeat("x", maxReasonLength+1))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "reason", ve.Fields[0].Field)

	assert.NoError(t, validateInput(reasonInput{Reason: strings.Repeat("ю", maxReasonLength)}))
}
