package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Профиль тьютора
	StateSetSubjects     UserState = "set_subjects"
	StateSetAvailability UserState = "set_availability"
	StateSetTimezone     UserState = "set_timezone"

	// Создание заявки студентом
	StateRequestSubject     UserState = "request_subject"
	StateRequestStart       UserState = "request_start"
	StateRequestDuration    UserState = "request_duration"
	StateRequestOccurrences UserState = "request_occurrences"
	StateRequestMessage     UserState = "request_message"

	// Ответы на заявки и занятия
	StateDeclineReason UserState = "decline_reason"
	StateCancelReason  UserState = "cancel_reason"
	StateSessionNotes  UserState = "session_notes"
	StateReviewComment UserState = "review_comment"

	// Переписка
	StateComposeMessage UserState = "compose_message"
)

// Ключи временных данных диалога
const (
	KeyTutorID     = "tutor_id"
	KeyReceiverID  = "receiver_id"
	KeyRequestID   = "request_id"
	KeySessionID   = "session_id"
	KeyRating      = "rating"
	KeySubject     = "subject"
	KeyStartTime   = "start_time"
	KeyDuration    = "duration"
	KeyOccurrences = "occurrences"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
