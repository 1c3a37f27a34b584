package service

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

func TestAlertTexts(t *testing.T) {
	student := &model.User{FirstName: "Sam"}
	tutor := &model.User{FirstName: "Tia", LastName: "Ng"}
	start := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	req := &model.TutoringRequest{Subject: "Calculus", StartTime: start, DurationMinutes: 60, Occurrences: 3, OutsideAvailability: true, NewSubject: true}

	text := requestReceivedText(student, req, time.UTC)
	assert.Equal(t, "Sam requested a Calculus session on Tue 10 Mar 16:00 UTC (60 min), weekly x3, outside your availability, new subject", text)

	assert.Equal(t, "Tia Ng declined your Calculus request: busy", requestDeclinedText(tutor, req, "busy"))
	assert.Equal(t, "Tia Ng declined your Calculus request", requestDeclinedText(tutor, req, ""))
	assert.Equal(t, "Sam rated your session 4/5", reviewReceivedText(student, &model.Review{Rating: 4}))
}

func TestMessagePreviewTruncates(t *testing.T) {
	sender := &model.User{Username: "kai"}
	long := strings.Repeat("ж", 100)

	text := messageReceivedText(sender, long)
	assert.True(t, strings.HasPrefix(text, "@kai: "))
	assert.True(t, strings.HasSuffix(text, "…"))
	assert.Equal(t, 80+1, len([]rune(strings.TrimPrefix(text, "@kai: "))))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 10))
	assert.Equal(t, "привет", truncateRunes("привет", 6))
	assert.Equal(t, "при…", truncateRunes("привет", 3))
}

func TestAlertTextFitsNotifyPayload(t *testing.T) {
	tutor := &model.User{FirstName: "Tia"}
	req := &model.TutoringRequest{Subject: "Calculus"}

	// причина уже ограничена валидацией, но длинный текст режется и здесь
	text := truncateRunes(requestDeclinedText(tutor, req, strings.Repeat("я", 5000)), maxAlertLength)
	assert.Equal(t, maxAlertLength+1, utf8.RuneCountInString(text))
	assert.Less(t, len(text), 8000-1000)
}
