// Package report renders session history as an Excel workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	SessionsSheet = "Sessions"
	SummarySheet  = "Summary"
)

var sessionHeader = []any{"Date", "Role", "With", "Subject", "Duration (min)", "Status", "Rating", "Notes"}

// Summary aggregates a user's tutoring activity.
type Summary struct {
	Completed     int
	Cancelled     int
	Scheduled     int
	HoursTutored  float64
	HoursLearned  float64
	AverageRating float64 // по оценкам, полученным как тьютор
	RatedAsTutor  int
}

// Summarize counts sessions by status and hours by role.
func Summarize(userID int64, sessions []*model.TutoringSession, ratings map[int64]int) Summary {
	var sum Summary
	ratingTotal := 0

	for _, s := range sessions {
		switch s.Status {
		case model.SessionStatusCompleted:
			sum.Completed++
			hours := float64(s.DurationMinutes) / 60
			if s.TutorID == userID {
				sum.HoursTutored += hours
				if r, ok := ratings[s.ID]; ok {
					ratingTotal += r
					sum.RatedAsTutor++
				}
			} else {
				sum.HoursLearned += hours
			}
		case model.SessionStatusCancelled:
			sum.Cancelled++
		case model.SessionStatusScheduled:
			sum.Scheduled++
		}
	}

	if sum.RatedAsTutor > 0 {
		sum.AverageRating = float64(ratingTotal) / float64(sum.RatedAsTutor)
	}
	return sum
}

// WriteSessions writes the workbook for userID to w. Times are rendered in loc.
func WriteSessions(w io.Writer, userID int64, sessions []*model.TutoringSession, ratings map[int64]int, loc *time.Location) error {
	f, err := BuildSessions(userID, sessions, ratings, loc)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// BuildSessions builds the workbook in memory.
func BuildSessions(userID int64, sessions []*model.TutoringSession, ratings map[int64]int, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SessionsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SessionsSheet, "A1", &sessionHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, s := range sessions {
		role, with := "student", s.Tutor
		if s.TutorID == userID {
			role, with = "tutor", s.Student
		}
		withName := ""
		if with != nil {
			withName = with.DisplayName()
		}
		var rating any = ""
		if r, ok := ratings[s.ID]; ok {
			rating = r
		}

		row := []any{
			s.StartTime.In(loc).Format("2006-01-02 15:04"),
			role,
			withName,
			s.Subject,
			s.DurationMinutes,
			string(s.Status),
			rating,
			s.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SessionsSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := writeSummary(f, Summarize(userID, sessions, ratings)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeSummary(f *excelize.File, sum Summary) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	rows := [][]any{
		{"Completed sessions", sum.Completed},
		{"Scheduled sessions", sum.Scheduled},
		{"Cancelled sessions", sum.Cancelled},
		{"Hours tutored", sum.HoursTutored},
		{"Hours learned", sum.HoursLearned},
		{"Rated sessions", sum.RatedAsTutor},
		{"Average rating", sum.AverageRating},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
