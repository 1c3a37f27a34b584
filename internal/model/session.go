package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type TutoringSession struct {
	ID              int64         `json:"id"`
	SeriesID        *uuid.UUID    `json:"series_id,omitempty"` // общий для занятий из одной повторяющейся заявки
	RequestID       *int64        `json:"request_id,omitempty"`
	TutorID         int64         `json:"tutor_id"`
	StudentID       int64         `json:"student_id"`
	Subject         string        `json:"subject"`
	StartTime       time.Time     `json:"start_time"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status"`
	Notes           string        `json:"notes"`
	HasReview       bool          `json:"has_review"`
	ReminderSent    bool          `json:"reminder_sent"`
	CancelledBy     *int64        `json:"cancelled_by,omitempty"`
	CancelReason    string        `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Tutor   *User `json:"tutor,omitempty"`
	Student *User `json:"student,omitempty"`
}

func (s *TutoringSession) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// IsParticipant reports whether userID is the tutor or the student.
func (s *TutoringSession) IsParticipant(userID int64) bool {
	return s.TutorID == userID || s.StudentID == userID
}

// Counterpart returns the other participant's id.
func (s *TutoringSession) Counterpart(userID int64) int64 {
	if s.TutorID == userID {
		return s.StudentID
	}
	return s.TutorID
}

// IsUpcoming reports whether the session is still scheduled and has not started.
func (s *TutoringSession) IsUpcoming(now time.Time) bool {
	return s.Status == SessionStatusScheduled && s.StartTime.After(now)
}

// Overlaps reports whether two time ranges intersect.
func Overlaps(aStart time.Time, aDur time.Duration, bStart time.Time, bDur time.Duration) bool {
	return aStart.Before(bStart.Add(bDur)) && bStart.Before(aStart.Add(aDur))
}

// SplitSessions separates upcoming sessions (ascending) from past ones (descending).
func SplitSessions(sessions []*TutoringSession, now time.Time) (upcoming, past []*TutoringSession) {
	upcoming = make([]*TutoringSession, 0)
	past = make([]*TutoringSession, 0)
	for _, s := range sessions {
		if s.IsUpcoming(now) {
			upcoming = append(upcoming, s)
		} else {
			past = append(past, s)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].StartTime.Before(upcoming[j].StartTime) })
	sort.SliceStable(past, func(i, j int) bool { return past[i].StartTime.After(past[j].StartTime) })
	return upcoming, past
}
