package formatting

import "github.com/Freeeeeet/peer_tutoring/internal/model"

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

func (d StatusDisplay) String() string {
	return d.Emoji + " " + d.Text
}

// GetRequestStatusDisplay возвращает emoji и текст для статуса заявки
func GetRequestStatusDisplay(status model.RequestStatus) StatusDisplay {
	displays := map[model.RequestStatus]StatusDisplay{
		model.RequestStatusPending:   {"⏳", "Ожидает ответа"},
		model.RequestStatusApproved:  {"✅", "Одобрена"},
		model.RequestStatusDeclined:  {"🚫", "Отклонена"},
		model.RequestStatusCancelled: {"❌", "Отозвана"},
	}

	if display, ok := displays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

// GetSessionStatusDisplay возвращает emoji и текст для статуса занятия
func GetSessionStatusDisplay(status model.SessionStatus) StatusDisplay {
	displays := map[model.SessionStatus]StatusDisplay{
		model.SessionStatusScheduled: {"📅", "Запланировано"},
		model.SessionStatusCompleted: {"✔️", "Проведено"},
		model.SessionStatusCancelled: {"⚫️", "Отменено"},
	}

	if display, ok := displays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

// Stars рисует рейтинг звёздами
func Stars(rating int) string {
	if rating < model.MinRating || rating > model.MaxRating {
		return "-"
	}
	s := ""
	for i := 0; i < rating; i++ {
		s += "⭐"
	}
	return s
}
