package api

import (
	"context"
	"io"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/notify"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
)

type UserService interface {
	Register(ctx context.Context, input service.RegisterInput) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, input service.ProfileInput) (*model.User, error)
	BecomeTutor(ctx context.Context, userID int64) (*model.User, error)
	SetSubjects(ctx context.Context, userID int64, subjects []string) ([]string, error)
	SetAvailability(ctx context.Context, userID int64, slots []model.AvailabilitySlot) ([]model.AvailabilitySlot, error)
	ListTutors(ctx context.Context, subject string, limit, offset int) ([]*model.User, error)
}

type RequestService interface {
	Create(ctx context.Context, input service.CreateRequestInput) (*model.TutoringRequest, error)
	GetByID(ctx context.Context, requestID, userID int64) (*model.TutoringRequest, error)
	ListIncoming(ctx context.Context, tutorID int64, status model.RequestStatus) ([]*model.TutoringRequest, error)
	ListOutgoing(ctx context.Context, studentID int64, status model.RequestStatus) ([]*model.TutoringRequest, error)
	Approve(ctx context.Context, requestID, tutorID int64) (*model.TutoringRequest, []*model.TutoringSession, error)
	Decline(ctx context.Context, requestID, tutorID int64, reason string) (*model.TutoringRequest, error)
	Cancel(ctx context.Context, requestID, studentID int64) (*model.TutoringRequest, error)
}

type SessionService interface {
	GetByID(ctx context.Context, sessionID, userID int64) (*model.TutoringSession, error)
	Overview(ctx context.Context, userID int64) (upcoming, past []*model.TutoringSession, err error)
	Complete(ctx context.Context, sessionID, userID int64) (*model.TutoringSession, error)
	Cancel(ctx context.Context, sessionID, userID int64, reason string) (*model.TutoringSession, error)
	UpdateNotes(ctx context.Context, sessionID, userID int64, notes string) (*model.TutoringSession, error)
}

type ReviewService interface {
	Submit(ctx context.Context, input service.SubmitReviewInput) (*model.Review, error)
	ListForTutor(ctx context.Context, tutorID int64, limit int) ([]*model.Review, error)
	GetForSession(ctx context.Context, sessionID, userID int64) (*model.Review, error)
}

type AlertService interface {
	List(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*model.Alert, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, alertID, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type MessageService interface {
	Send(ctx context.Context, input service.SendMessageInput) (*model.ChatMessage, error)
	Conversation(ctx context.Context, userID, partnerID int64, limit int) ([]*model.ChatMessage, error)
	Conversations(ctx context.Context, userID int64) ([]*model.Conversation, error)
	MarkRead(ctx context.Context, userID, partnerID int64) (int64, error)
}

type ReportService interface {
	ExportSessions(ctx context.Context, userID int64, w io.Writer) error
}

// AlertStream is the live alert source behind the SSE endpoint.
type AlertStream interface {
	Subscribe(userID int64) *notify.Subscription
}

// Deps are the collaborators of the HTTP handlers.
type Deps struct {
	Users    UserService
	Requests RequestService
	Sessions SessionService
	Reviews  ReviewService
	Alerts   AlertService
	Messages MessageService
	Reports  ReportService
	Stream   AlertStream
	// Ping checks the database for /health; nil means always healthy.
	Ping func(ctx context.Context) error
}
