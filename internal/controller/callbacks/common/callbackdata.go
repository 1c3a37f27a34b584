package common

import "fmt"

// Callback data prefixes. Формат: "prefix:id" или "prefix:id:value"
const (
	Noop = "noop"

	// Тьюторы
	NewRequest   = "req_new:"       // req_new:tutor_id
	TutorReviews = "tutor_reviews:" // tutor_reviews:tutor_id
	WriteMessage = "msg_new:"       // msg_new:user_id

	// Заявки
	ApproveRequest = "req_approve:" // req_approve:request_id
	DeclineRequest = "req_decline:" // req_decline:request_id
	CancelRequest  = "req_cancel:"  // req_cancel:request_id

	// Занятия
	CompleteSession = "sess_complete:" // sess_complete:session_id
	CancelSession   = "sess_cancel:"   // sess_cancel:session_id
	SessionNotes    = "sess_notes:"    // sess_notes:session_id
	StartReview     = "rev_start:"     // rev_start:session_id
	RateSession     = "rev_rate:"      // rev_rate:session_id:rating

	// Уведомления и переписка
	MarkAllAlertsRead = "alerts_read_all"
	ReadConversation  = "conv_read:" // conv_read:partner_id
)

// Data собирает callback data из префикса и ID
func Data(prefix string, id int64) string {
	return fmt.Sprintf("%s%d", prefix, id)
}

// DataWithValue собирает callback data вида "prefix:id:value"
func DataWithValue(prefix string, id int64, value int) string {
	return fmt.Sprintf("%s%d:%d", prefix, id, value)
}
