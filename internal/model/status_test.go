package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusTransition(t *testing.T) {
	tests := []struct {
		from    RequestStatus
		to      RequestStatus
		wantErr bool
	}{
		{RequestStatusPending, RequestStatusApproved, false},
		{RequestStatusPending, RequestStatusDeclined, false},
		{RequestStatusPending, RequestStatusCancelled, false},
		{RequestStatusPending, RequestStatusPending, true},
		{RequestStatusApproved, RequestStatusDeclined, true},
		{RequestStatusDeclined, RequestStatusApproved, true},
		{RequestStatusCancelled, RequestStatusApproved, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := tt.from.Transition(tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSessionStatusTransition(t *testing.T) {
	assert.NoError(t, SessionStatusScheduled.Transition(SessionStatusCompleted))
	assert.NoError(t, SessionStatusScheduled.Transition(SessionStatusCancelled))
	assert.ErrorIs(t, SessionStatusCompleted.Transition(SessionStatusCancelled), ErrInvalidTransition)
	assert.ErrorIs(t, SessionStatusCancelled.Transition(SessionStatusScheduled), ErrInvalidTransition)
	assert.ErrorIs(t, SessionStatusCompleted.Transition(SessionStatusCompleted), ErrInvalidTransition)
}

func TestRequestStatusValid(t *testing.T) {
	assert.True(t, RequestStatus("pending").Valid())
	assert.False(t, RequestStatus("scheduled").Valid())
	assert.False(t, RequestStatus("").Valid())
}
