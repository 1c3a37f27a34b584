package model

import (
	"strings"
	"time"
	_ "time/tzdata"
)

type User struct {
	ID            int64              `json:"id"`
	TelegramID    *int64             `json:"telegram_id,omitempty"` // nil для пользователей мобильного API
	Email         *string            `json:"email,omitempty"`
	Username      string             `json:"username"`
	FirstName     string             `json:"first_name"`
	LastName      string             `json:"last_name"`
	Bio           string             `json:"bio"`
	IsTutor       bool               `json:"is_tutor"`
	Subjects      []string           `json:"subjects"`
	Availability  []AvailabilitySlot `json:"availability"`
	Timezone      string             `json:"timezone"`
	AverageRating float64            `json:"average_rating"`
	ReviewCount   int                `json:"review_count"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// DisplayName returns the name shown to other users.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "user"
}

// Location resolves the user's timezone, falling back to UTC.
func (u *User) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TeachesSubject reports whether subject is in the tutor's list, ignoring case.
func (u *User) TeachesSubject(subject string) bool {
	subject = strings.TrimSpace(subject)
	for _, s := range u.Subjects {
		if strings.EqualFold(s, subject) {
			return true
		}
	}
	return false
}

// NextAverage folds one more rating into a rolling average.
func NextAverage(avg float64, count int, rating int) (float64, int) {
	if count <= 0 {
		return float64(rating), 1
	}
	next := (avg*float64(count) + float64(rating)) / float64(count+1)
	return next, count + 1
}
