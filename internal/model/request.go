package model

import "time"

type TutoringRequest struct {
	ID                  int64         `json:"id"`
	TutorID             int64         `json:"tutor_id"`
	StudentID           int64         `json:"student_id"`
	Subject             string        `json:"subject"`
	StartTime           time.Time     `json:"start_time"`
	DurationMinutes     int           `json:"duration_minutes"`
	Occurrences         int           `json:"occurrences"` // количество еженедельных повторов, минимум 1
	Message             string        `json:"message"`
	Status              RequestStatus `json:"status"`
	OutsideAvailability bool          `json:"outside_availability"`
	NewSubject          bool          `json:"new_subject"`
	DeclineReason       string        `json:"decline_reason,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	RespondedAt         *time.Time    `json:"responded_at,omitempty"`
}

func (r *TutoringRequest) Duration() time.Duration {
	return time.Duration(r.DurationMinutes) * time.Minute
}

// OccurrenceTimes lists the start of every weekly occurrence. Repeats keep
// the same wall-clock time in loc, so a series crossing a DST change stays
// at the hour the tutor agreed to.
func (r *TutoringRequest) OccurrenceTimes(loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	n := r.Occurrences
	if n < 1 {
		n = 1
	}
	local := r.StartTime.In(loc)
	times := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		times = append(times, local.AddDate(0, 0, 7*i).UTC())
	}
	return times
}

func (r *TutoringRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}
