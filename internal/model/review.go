package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	TutorID   int64     `json:"tutor_id"`
	StudentID int64     `json:"student_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
