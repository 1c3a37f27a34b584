package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
)

// Тесты ниже ходят в настоящий Postgres и пропускаются без TEST_DB_DSN.
// База должна быть отдельной: таблицы очищаются перед каждым тестом.
const testDSNEnv = "TEST_DB_DSN"

var (
	migrateOnce sync.Once
	migrateErr  error
	telegramSeq atomic.Int64
)

type fixture struct {
	users    *repository.UserRepository
	requests *repository.RequestRepository
	sessions *repository.SessionRepository
	reviews  *repository.ReviewRepository
	alerts   *repository.AlertRepository
	messages *repository.MessageRepository

	requestSvc *RequestService
	sessionSvc *SessionService
	reviewSvc  *ReviewService
	messageSvc *MessageService
}

func migrate(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(os.DirFS("../app/migrations"))
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", testDSNEnv)
	}
	ctx := context.Background()

	migrateOnce.Do(func() { migrateErr = migrate(ctx, dsn) })
	require.NoError(t, migrateErr)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE users, requests, sessions, reviews, alerts, messages RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	logger := zap.NewNop()
	f := &fixture{
		users:    repository.NewUserRepository(pool),
		requests: repository.NewRequestRepository(pool),
		sessions: repository.NewSessionRepository(pool),
		reviews:  repository.NewReviewRepository(pool),
		alerts:   repository.NewAlertRepository(pool),
		messages: repository.NewMessageRepository(pool),
	}
	f.requestSvc = NewRequestService(pool, f.users, f.requests, f.sessions, f.alerts, logger)
	f.sessionSvc = NewSessionService(pool, f.users, f.sessions, f.alerts, logger)
	f.reviewSvc = NewReviewService(pool, f.users, f.sessions, f.reviews, f.alerts, logger)
	f.messageSvc = NewMessageService(pool, f.users, f.messages, f.alerts, logger)

	f.requestSvc.now = func() time.Time { return fixedNow }
	f.sessionSvc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) user(t *testing.T, name string, tutor bool) *model.User {
	t.Helper()
	tgID := 1000 + telegramSeq.Add(1)
	u := &model.User{TelegramID: &tgID, FirstName: name, IsTutor: tutor}
	if tutor {
		u.Subjects = []string{"Calculus"}
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) session(t *testing.T, tutor, student *model.User, start time.Time, status model.SessionStatus) *model.TutoringSession {
	t.Helper()
	s := &model.TutoringSession{
		TutorID:         tutor.ID,
		StudentID:       student.ID,
		Subject:         "Calculus",
		StartTime:       start,
		DurationMinutes: 60,
		Status:          status,
	}
	require.NoError(t, f.sessions.Create(context.Background(), s))
	return s
}

func (f *fixture) alertTypes(t *testing.T, userID int64) []model.AlertType {
	t.Helper()
	alerts, err := f.alerts.GetByUserID(context.Background(), userID, false, 50)
	require.NoError(t, err)
	types := make([]model.AlertType, 0, len(alerts))
	for _, a := range alerts {
		types = append(types, a.Type)
	}
	return types
}

func (f *fixture) request(t *testing.T, tutor, student *model.User, start time.Time, occurrences int) *model.TutoringRequest {
	t.Helper()
	req, err := f.requestSvc.Create(context.Background(), CreateRequestInput{
		StudentID:       student.ID,
		TutorID:         tutor.ID,
		Subject:         "Calculus",
		StartTime:       start,
		DurationMinutes: 60,
		Occurrences:     occurrences,
	})
	require.NoError(t, err)
	return req
}

func TestApproveSchedulesSeries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tutor, student := f.user(t, "Tia", true), f.user(t, "Sam", false)

	req := f.request(t, tutor, student, fixedNow.Add(24*time.Hour), 3)

	approved, sessions, err := f.requestSvc.Approve(ctx, req.ID, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, approved.Status)
	require.Len(t, sessions, 3)

	stored, err := f.sessions.GetByUserID(ctx, tutor.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	require.NotNil(t, stored[0].SeriesID)
	for i, s := range stored {
		assert.Equal(t, *stored[0].SeriesID, *s.SeriesID)
		assert.True(t, s.StartTime.Equal(req.StartTime.AddDate(0, 0, 7*i)), "session %d", i)
		assert.Equal(t, model.SessionStatusScheduled, s.Status)
	}

	assert.Contains(t, f.alertTypes(t, tutor.ID), model.AlertRequestReceived)
	assert.Equal(t, []model.AlertType{model.AlertRequestApproved}, f.alertTypes(t, student.ID))

	// повторное одобрение невозможно
	_, _, err = f.requestSvc.Approve(ctx, req.ID, tutor.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveConflictRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tutor, student, other := f.user(t, "Tia", true), f.user(t, "Sam", false), f.user(t, "Oli", false)

	start := fixedNow.Add(24 * time.Hour)
	// второе занятие серии пересекается с уже назначенным
	busy := f.session(t, tutor, other, start.AddDate(0, 0, 7).Add(30*time.Minute), model.SessionStatusScheduled)

	req := f.request(t, tutor, student, start, 3)

	_, _, err := f.requestSvc.Approve(ctx, req.ID, tutor.ID)
	require.ErrorIs(t, err, ErrSessionConflict)
	assert.ErrorContains(t, err, fmt.Sprintf("session #%d", busy.ID))

	stored, err := f.requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, stored.Status)

	sessions, err := f.sessions.GetByUserID(ctx, tutor.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, busy.ID, sessions[0].ID)

	assert.Empty(t, f.alertTypes(t, student.ID))
}

func TestSubmitReviewUpdatesRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tutor, student := f.user(t, "Tia", true), f.user(t, "Sam", false)

	first := f.session(t, tutor, student, fixedNow.Add(-48*time.Hour), model.SessionStatusCompleted)
	second := f.session(t, tutor, student, fixedNow.Add(-24*time.Hour), model.SessionStatusCompleted)

	_, err := f.reviewSvc.Submit(ctx, SubmitReviewInput{SessionID: first.ID, StudentID: student.ID, Rating: 4})
	require.NoError(t, err)

	_, err = f.reviewSvc.Submit(ctx, SubmitReviewInput{SessionID: first.ID, StudentID: student.ID, Rating: 1})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	_, err = f.reviewSvc.Submit(ctx, SubmitReviewInput{SessionID: second.ID, StudentID: student.ID, Rating: 2})
	require.NoError(t, err)

	got, err := f.users.GetByID(ctx, tutor.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got.AverageRating, 1e-9)
	assert.Equal(t, 2, got.ReviewCount)

	reviewed, err := f.sessions.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, reviewed.HasReview)

	assert.Equal(t, []model.AlertType{model.AlertReviewReceived, model.AlertReviewReceived}, f.alertTypes(t, tutor.ID))
}

func TestExpireStaleDeclinesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tutor, student := f.user(t, "Tia", true), f.user(t, "Sam", false)

	stale := f.request(t, tutor, student, fixedNow.Add(time.Hour), 1)
	fresh := f.request(t, tutor, student, fixedNow.Add(72*time.Hour), 1)

	f.requestSvc.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }

	n, err := f.requestSvc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.requestSvc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := f.requests.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusDeclined, got.Status)
	assert.Equal(t, expiredReason, got.DeclineReason)
	assert.NotNil(t, got.RespondedAt)

	got, err = f.requests.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, got.Status)

	assert.Equal(t, []model.AlertType{model.AlertRequestDeclined}, f.alertTypes(t, student.ID))
}

func TestSendRemindersClaimsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tutor, student := f.user(t, "Tia", true), f.user(t, "Sam", false)

	f.session(t, tutor, student, fixedNow.Add(30*time.Minute), model.SessionStatusScheduled)
	f.session(t, tutor, student, fixedNow.Add(5*time.Hour), model.SessionStatusScheduled)
	f.session(t, tutor, student, fixedNow.Add(45*time.Minute), model.SessionStatusCancelled)

	sent, err := f.sessionSvc.SendReminders(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sent, err = f.sessionSvc.SendReminders(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, sent)

	assert.Equal(t, []model.AlertType{model.AlertSessionReminder}, f.alertTypes(t, tutor.ID))
	assert.Equal(t, []model.AlertType{model.AlertSessionReminder}, f.alertTypes(t, student.ID))
}

func TestListPastSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tutor, student := f.user(t, "Tia", true), f.user(t, "Sam", false)

	done := f.session(t, tutor, student, fixedNow.Add(-24*time.Hour), model.SessionStatusCompleted)
	cancelled := f.session(t, tutor, student, fixedNow.Add(24*time.Hour), model.SessionStatusCancelled)
	f.session(t, tutor, student, fixedNow.Add(48*time.Hour), model.SessionStatusScheduled)

	past, err := f.sessionSvc.ListPast(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, past, 2)
	assert.Equal(t, cancelled.ID, past[0].ID)
	assert.Equal(t, done.ID, past[1].ID)
	require.NotNil(t, past[0].Tutor)
	assert.Equal(t, "Tia", past[0].Tutor.FirstName)

	upcoming, err := f.sessionSvc.ListUpcoming(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)
}

func TestConversationsLatestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tutor, student, other := f.user(t, "Tia", true), f.user(t, "Sam", false), f.user(t, "Oli", false)

	send := func(from, to *model.User, text string) {
		_, err := f.messageSvc.Send(ctx, SendMessageInput{SenderID: from.ID, ReceiverID: to.ID, Content: text})
		require.NoError(t, err)
	}
	send(student, tutor, "hi")
	send(tutor, student, "hello")
	send(tutor, student, "see you tuesday")
	send(other, student, "notes?")

	conversations, err := f.messageSvc.Conversations(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	assert.Equal(t, other.ID, conversations[0].PartnerID)
	assert.Equal(t, "notes?", conversations[0].LastMessage.Content)
	assert.Equal(t, 1, conversations[0].UnreadCount)

	assert.Equal(t, tutor.ID, conversations[1].PartnerID)
	assert.Equal(t, "see you tuesday", conversations[1].LastMessage.Content)
	assert.Equal(t, 2, conversations[1].UnreadCount)
	require.NotNil(t, conversations[1].Partner)
	assert.Equal(t, "Tia", conversations[1].Partner.FirstName)

	read, err := f.messageSvc.MarkRead(ctx, student.ID, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), read)
}
