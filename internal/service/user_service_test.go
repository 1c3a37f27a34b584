package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeSubjects(t *testing.T) {
	got, err := NormalizeSubjects([]string{"  linear   algebra ", "Calculus", "", "calculus", "Physics"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Calculus", "linear algebra", "Physics"}, got)

	got, err = NormalizeSubjects(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = NormalizeSubjects([]string{strings.Repeat("x", maxSubjectLength+1)})
	assert.True(t, IsValidation(err))

	many := make([]string, maxSubjects+1)
	for i := range many {
		many[i] = strings.Repeat("s", i+1)
	}
	_, err = NormalizeSubjects(many)
	assert.True(t, IsValidation(err))
}

func TestRegisterValidation(t *testing.T) {
	svc := &UserService{logger: zap.NewNop()}

	bad := "not-an-email"
	_, err := svc.Register(context.Background(), RegisterInput{Email: &bad})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Fields[0].Field)

	_, err = svc.Register(context.Background(), RegisterInput{})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "telegram_id", ve.Fields[0].Field)

	id := int64(5)
	_, err = svc.Register(context.Background(), RegisterInput{TelegramID: &id, Timezone: "Nowhere/City"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "timezone", ve.Fields[0].Field)
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError(FieldError{Field: "rating", Error: "must be at most 5"}, FieldError{Field: "comment", Error: "is required"})
	assert.Equal(t, "validation failed: rating: must be at most 5; comment: is required", err.Error())
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(ErrForbidden))
}
