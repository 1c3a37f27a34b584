package common

import (
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

func buttons(kb *models.InlineKeyboardMarkup) []string {
	var data []string
	if kb == nil {
		return data
	}
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			data = append(data, btn.CallbackData)
		}
	}
	return data
}

func TestTutorCardEscapesHTML(t *testing.T) {
	u := &model.User{
		ID: 3, FirstName: "<Bob>", IsTutor: true,
		Subjects:      []string{"Math", "C++"},
		AverageRating: 4.5, ReviewCount: 2,
		Availability: []model.AvailabilitySlot{{Weekday: time.Monday, StartMinute: 960, EndMinute: 1080}},
	}
	card := TutorCard(u)

	assert.Contains(t, card, "&lt;Bob&gt;")
	assert.Contains(t, card, "4.5 (2 отзыва)")
	assert.Contains(t, card, "Math, C++")
	assert.Contains(t, card, "16:00")
	assert.Equal(t, []string{"req_new:3", "msg_new:3", "tutor_reviews:3"}, buttons(TutorKeyboard(3)))
}

func TestRequestKeyboardByRole(t *testing.T) {
	req := &model.TutoringRequest{ID: 8, TutorID: 1, StudentID: 2, Status: model.RequestStatusPending}

	assert.Equal(t, []string{"req_approve:8", "req_decline:8"}, buttons(RequestKeyboard(req, 1)))
	assert.Equal(t, []string{"req_cancel:8"}, buttons(RequestKeyboard(req, 2)))
	assert.Nil(t, RequestKeyboard(req, 3))

	req.Status = model.RequestStatusApproved
	assert.Nil(t, RequestKeyboard(req, 1))
}

func TestRequestCardFlags(t *testing.T) {
	req := &model.TutoringRequest{
		ID: 8, TutorID: 1, StudentID: 2, Subject: "Chess",
		StartTime:       time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 90, Occurrences: 4,
		Status:              model.RequestStatusPending,
		OutsideAvailability: true, NewSubject: true,
	}
	users := map[int64]*model.User{1: {FirstName: "Tia"}, 2: {FirstName: "Sam"}}

	card := RequestCard(req, 1, users, time.UTC)
	assert.Contains(t, card, "Студент: Sam")
	assert.Contains(t, card, "4 занятия")
	assert.Contains(t, card, "Вне расписания")
	assert.Contains(t, card, "Предмета нет")

	assert.Contains(t, RequestCard(req, 2, users, time.UTC), "Тьютор: Tia")
}

func TestSessionKeyboard(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	s := &model.TutoringSession{ID: 5, TutorID: 1, StudentID: 2, Status: model.SessionStatusScheduled, StartTime: now.Add(time.Hour)}

	assert.Equal(t, []string{"sess_cancel:5", "sess_notes:5"}, buttons(SessionKeyboard(s, 1, now)))

	s.StartTime = now.Add(-time.Hour)
	assert.Equal(t, []string{"sess_complete:5", "sess_notes:5"}, buttons(SessionKeyboard(s, 2, now)))

	s.Status = model.SessionStatusCompleted
	assert.Equal(t, []string{"sess_notes:5", "rev_start:5"}, buttons(SessionKeyboard(s, 2, now)))
	assert.Equal(t, []string{"sess_notes:5"}, buttons(SessionKeyboard(s, 1, now)), "tutors do not review")

	s.HasReview = true
	assert.Equal(t, []string{"sess_notes:5"}, buttons(SessionKeyboard(s, 2, now)))

	s.Status = model.SessionStatusCancelled
	assert.Nil(t, SessionKeyboard(s, 2, now))
}

func TestRatingKeyboard(t *testing.T) {
	kb := RatingKeyboard(9)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, []string{"rev_rate:9:1", "rev_rate:9:2", "rev_rate:9:3", "rev_rate:9:4", "rev_rate:9:5"}, buttons(kb))
}

func TestConversationLineTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 80; i++ {
		long += "я"
	}
	c := &model.Conversation{
		PartnerID:   4,
		Partner:     &model.User{FirstName: "Ann"},
		LastMessage: &model.ChatMessage{Content: long},
		UnreadCount: 2,
	}
	line := ConversationLine(c)
	assert.Contains(t, line, "…")
	assert.Contains(t, line, "(🔔 2)")
	assert.NotContains(t, line, long)
}
