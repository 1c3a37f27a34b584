package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

func fixture() []*model.TutoringSession {
	start := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	tutor := &model.User{ID: 1, FirstName: "Tia"}
	student := &model.User{ID: 2, FirstName: "Sam"}
	return []*model.TutoringSession{
		{ID: 10, TutorID: 1, StudentID: 2, Tutor: tutor, Student: student, Subject: "Calculus", StartTime: start, DurationMinutes: 90, Status: model.SessionStatusCompleted},
		{ID: 11, TutorID: 1, StudentID: 2, Tutor: tutor, Student: student, Subject: "Calculus", StartTime: start.AddDate(0, 0, 7), DurationMinutes: 60, Status: model.SessionStatusCompleted},
		{ID: 12, TutorID: 2, StudentID: 1, Tutor: student, Student: tutor, Subject: "Chess", StartTime: start.AddDate(0, 0, 1), DurationMinutes: 30, Status: model.SessionStatusCompleted},
		{ID: 13, TutorID: 1, StudentID: 2, Subject: "Calculus", StartTime: start.AddDate(0, 0, 14), DurationMinutes: 60, Status: model.SessionStatusCancelled},
		{ID: 14, TutorID: 1, StudentID: 2, Subject: "Calculus", StartTime: start.AddDate(0, 0, 21), DurationMinutes: 60, Status: model.SessionStatusScheduled},
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize(1, fixture(), map[int64]int{10: 5, 11: 4, 12: 1})

	assert.Equal(t, 3, sum.Completed)
	assert.Equal(t, 1, sum.Cancelled)
	assert.Equal(t, 1, sum.Scheduled)
	assert.InDelta(t, 2.5, sum.HoursTutored, 1e-9)
	assert.InDelta(t, 0.5, sum.HoursLearned, 1e-9)
	assert.Equal(t, 2, sum.RatedAsTutor)
	assert.InDelta(t, 4.5, sum.AverageRating, 1e-9)
}

func TestWriteSessions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSessions(&buf, 1, fixture(), map[int64]int{10: 5}, time.UTC))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SessionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, []string{"2026-03-10 16:00", "tutor", "Sam", "Calculus", "90", "completed", "5"}, rows[1][:7])
	assert.Equal(t, "student", rows[3][1])
	assert.Equal(t, "Tia", rows[3][2])

	completed, err := f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "3", completed)
}
