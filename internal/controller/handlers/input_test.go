package handlers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
)

func TestParseBoundedInt(t *testing.T) {
	n, err := parseBoundedInt(" 90 ", MinDurationMinutes, MaxDurationMinutes)
	require.NoError(t, err)
	assert.Equal(t, 90, n)

	_, err = parseBoundedInt("10", MinDurationMinutes, MaxDurationMinutes)
	assert.Error(t, err)
	_, err = parseBoundedInt("500", MinDurationMinutes, MaxDurationMinutes)
	assert.Error(t, err)
	_, err = parseBoundedInt("час", 1, MaxOccurrences)
	assert.ErrorIs(t, err, errNotNumber)
}

func TestOptionalText(t *testing.T) {
	assert.Equal(t, "", optionalText(" - "))
	assert.Equal(t, "see you", optionalText(" see you\n"))
}

func TestSplitSubjects(t *testing.T) {
	assert.Equal(t, []string{"Math", " Physics", "Chess", "Go"}, splitSubjects("Math, Physics\nChess;Go"))
	assert.Empty(t, splitSubjects(",,"))
}

func TestRetryableDialogErrors(t *testing.T) {
	ve := service.NewValidationError(service.FieldError{Field: "reason", Error: "must be at most 500"})

	assert.True(t, retryable(ve))
	assert.True(t, retryable(fmt.Errorf("decline request: %w", ve)))
	assert.False(t, retryable(service.ErrForbidden))
	assert.False(t, retryable(common.ErrDialogExpired))
}
