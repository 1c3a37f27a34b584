package model

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid status transition")

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"   // ждёт ответа тьютора
	RequestStatusApproved  RequestStatus = "approved"  // по заявке созданы занятия
	RequestStatusDeclined  RequestStatus = "declined"  // отклонена тьютором или истекла
	RequestStatusCancelled RequestStatus = "cancelled" // отозвана студентом
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending: {RequestStatusApproved, RequestStatusDeclined, RequestStatusCancelled},
}

// Transition validates a move from s to next.
func (s RequestStatus) Transition(next RequestStatus) error {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return nil
		}
	}
	return fmt.Errorf("request %s -> %s: %w", s, next, ErrInvalidTransition)
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusDeclined, RequestStatusCancelled:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionStatusScheduled: {SessionStatusCompleted, SessionStatusCancelled},
}

// Transition validates a move from s to next.
func (s SessionStatus) Transition(next SessionStatus) error {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return nil
		}
	}
	return fmt.Errorf("session %s -> %s: %w", s, next, ErrInvalidTransition)
}
