package common

import (
	"errors"

	"github.com/Freeeeeet/peer_tutoring/internal/service"
)

// Ошибки уровня обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrDialogExpired = errors.New("dialog data missing")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return "❌ Проверьте данные: " + ve.Error()
	case errors.Is(err, service.ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, service.ErrRequestNotFound):
		return "❌ Заявка не найдена"
	case errors.Is(err, service.ErrSessionNotFound):
		return "❌ Занятие не найдено"
	case errors.Is(err, service.ErrAlertNotFound):
		return "❌ Уведомление не найдено"
	case errors.Is(err, service.ErrForbidden):
		return "❌ У вас нет доступа к этому действию"
	case errors.Is(err, service.ErrNotTutor):
		return "❌ Эта функция доступна только тьюторам. Стать тьютором: /becometutor"
	case errors.Is(err, service.ErrSelfRequest):
		return "❌ Нельзя записаться к самому себе"
	case errors.Is(err, service.ErrSelfMessage):
		return "❌ Нельзя написать самому себе"
	case errors.Is(err, service.ErrInPast):
		return "❌ Время занятия уже прошло"
	case errors.Is(err, service.ErrSessionConflict):
		return "❌ Время пересекается с другим занятием"
	case errors.Is(err, service.ErrSessionNotStarted):
		return "❌ Занятие ещё не началось"
	case errors.Is(err, service.ErrSessionStarted):
		return "❌ Занятие уже началось, отменить нельзя"
	case errors.Is(err, service.ErrSessionCancelled):
		return "❌ Занятие отменено"
	case errors.Is(err, service.ErrNotCompleted):
		return "❌ Отзыв можно оставить только после завершения занятия"
	case errors.Is(err, service.ErrAlreadyReviewed):
		return "❌ Отзыв уже оставлен"
	case errors.Is(err, service.ErrInvalidTransition):
		return "❌ Статус уже изменён"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrDialogExpired):
		return "❌ Диалог устарел, начните заново"
	default:
		return "❌ Произошла ошибка"
	}
}
