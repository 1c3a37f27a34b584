package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/availability"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/state"
	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTextMessage обрабатывает текстовые сообщения в активном диалоге
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)
	if currentState == state.StateNone {
		h.logger.Debug("No active state, ignoring message", zap.Int64("telegram_id", telegramID))
		return
	}

	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		h.stateManager.ClearState(telegramID)
		return
	}

	h.logger.Debug("Handling dialog step",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	d := &dialog{
		ctx:        ctx,
		b:          b,
		user:       user,
		telegramID: telegramID,
		chatID:     update.Message.Chat.ID,
		text:       strings.TrimSpace(update.Message.Text),
	}

	switch currentState {
	case state.StateSetSubjects:
		h.handleSetSubjectsStep(d)
	case state.StateSetAvailability:
		h.handleSetAvailabilityStep(d)
	case state.StateSetTimezone:
		h.handleSetTimezoneStep(d)
	case state.StateRequestSubject:
		h.handleRequestSubjectStep(d)
	case state.StateRequestStart:
		h.handleRequestStartStep(d)
	case state.StateRequestDuration:
		h.handleRequestDurationStep(d)
	case state.StateRequestOccurrences:
		h.handleRequestOccurrencesStep(d)
	case state.StateRequestMessage:
		h.handleRequestMessageStep(d)
	case state.StateDeclineReason:
		h.handleDeclineReasonStep(d)
	case state.StateCancelReason:
		h.handleCancelReasonStep(d)
	case state.StateSessionNotes:
		h.handleSessionNotesStep(d)
	case state.StateReviewComment:
		h.handleReviewCommentStep(d)
	case state.StateComposeMessage:
		h.handleComposeMessageStep(d)
	default:
		h.logger.Warn("Unknown dialog state",
			zap.Int64("telegram_id", telegramID),
			zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}

// dialog текущий шаг диалога
type dialog struct {
	ctx        context.Context
	b          *bot.Bot
	user       *model.User
	telegramID int64
	chatID     int64
	text       string
}

func (h *Handlers) reply(d *dialog, text string) {
	h.sendMessage(d.ctx, d.b, d.chatID, text)
}

// fail сообщает об ошибке, диалог остаётся активным для повторного ввода
func (h *Handlers) fail(d *dialog, op string, err error) {
	h.logger.Warn("Dialog step failed",
		zap.String("op", op),
		zap.Int64("user_id", d.user.ID),
		zap.Error(err))
	h.sendError(d.ctx, d.b, d.chatID, err)
}

// abort завершает диалог с ошибкой
func (h *Handlers) abort(d *dialog, op string, err error) {
	h.stateManager.ClearState(d.telegramID)
	h.fail(d, op, err)
}

// retryOrAbort оставляет диалог открытым, если текст можно исправить
func (h *Handlers) retryOrAbort(d *dialog, op string, err error) {
	if retryable(err) {
		h.fail(d, op, err)
		return
	}
	h.abort(d, op, err)
}

// retryable: ошибки валидации ввода исправляются повторной отправкой текста
func retryable(err error) bool {
	var ve *service.ValidationError
	return errors.As(err, &ve)
}

// dialogID достаёт id из данных диалога или завершает диалог
func (h *Handlers) dialogID(d *dialog, key string) (int64, bool) {
	id, ok := h.stateManager.GetInt64(d.telegramID, key)
	if !ok {
		h.abort(d, "dialog_data", common.ErrDialogExpired)
		return 0, false
	}
	return id, true
}

func (h *Handlers) handleSetSubjectsStep(d *dialog) {
	subjects, err := h.userService.SetSubjects(d.ctx, d.user.ID, splitSubjects(d.text))
	if err != nil {
		h.fail(d, "set_subjects", err)
		return
	}

	h.stateManager.ClearState(d.telegramID)
	h.reply(d, "✅ Предметы сохранены:\n"+common.EscapeHTML(joinLines(subjects)))
}

func (h *Handlers) handleSetAvailabilityStep(d *dialog) {
	var slots []model.AvailabilitySlot
	if d.text != skipWord {
		parsed, err := availability.ParseSlots(d.text)
		if err != nil {
			h.reply(d, "❌ Не удалось разобрать расписание: "+common.EscapeHTML(err.Error())+
				"\n\nПример: <i>Mon 16:00-18:00; Wed 10:00-12:00</i>")
			return
		}
		slots = parsed
	}

	saved, err := h.userService.SetAvailability(d.ctx, d.user.ID, slots)
	if err != nil {
		h.fail(d, "set_availability", err)
		return
	}

	h.stateManager.ClearState(d.telegramID)
	h.reply(d, "✅ Расписание сохранено:\n"+common.AvailabilityText(saved))
}

func (h *Handlers) handleSetTimezoneStep(d *dialog) {
	if _, err := time.LoadLocation(d.text); err != nil || d.text == "" {
		h.reply(d, "❌ Неизвестный часовой пояс. Пример: <i>Europe/Moscow</i>")
		return
	}

	updated, err := h.userService.UpdateProfile(d.ctx, d.user.ID, service.ProfileInput{
		Username:  d.user.Username,
		FirstName: d.user.FirstName,
		LastName:  d.user.LastName,
		Bio:       d.user.Bio,
		Timezone:  d.text,
	})
	if err != nil {
		h.fail(d, "set_timezone", err)
		return
	}

	h.stateManager.ClearState(d.telegramID)
	h.reply(d, "✅ Часовой пояс: "+common.EscapeHTML(updated.Location().String()))
}

func (h *Handlers) handleRequestSubjectStep(d *dialog) {
	if d.text == "" || len([]rune(d.text)) > 100 {
		h.reply(d, "❌ Название предмета должно быть от 1 до 100 символов")
		return
	}

	h.stateManager.SetData(d.telegramID, state.KeySubject, d.text)
	h.stateManager.SetState(d.telegramID, state.StateRequestStart)
	h.reply(d, fmt.Sprintf("🕒 Когда начать? Формат: <i>ДД.ММ.ГГГГ ЧЧ:ММ</i>\nЧасовой пояс: %s",
		common.EscapeHTML(d.user.Location().String())))
}

func (h *Handlers) handleRequestStartStep(d *dialog) {
	start, err := formatting.ParseDateTime(d.text, d.user.Location())
	if err != nil {
		h.reply(d, "❌ Неверный формат. Пример: <i>"+time.Now().Add(24*time.Hour).Format(formatting.DateTimeLayout)+"</i>")
		return
	}
	if !start.After(time.Now()) {
		h.fail(d, "request_start", service.ErrInPast)
		return
	}

	h.stateManager.SetData(d.telegramID, state.KeyStartTime, start)
	h.stateManager.SetState(d.telegramID, state.StateRequestDuration)
	h.reply(d, fmt.Sprintf("⏱ Длительность в минутах (%d-%d):", MinDurationMinutes, MaxDurationMinutes))
}

func (h *Handlers) handleRequestDurationStep(d *dialog) {
	minutes, err := parseBoundedInt(d.text, MinDurationMinutes, MaxDurationMinutes)
	if err != nil {
		h.reply(d, fmt.Sprintf("❌ Введите число от %d до %d", MinDurationMinutes, MaxDurationMinutes))
		return
	}

	h.stateManager.SetData(d.telegramID, state.KeyDuration, int64(minutes))
	h.stateManager.SetState(d.telegramID, state.StateRequestOccurrences)
	h.reply(d, fmt.Sprintf("🔁 Сколько занятий подряд, раз в неделю? (1-%d)", MaxOccurrences))
}

func (h *Handlers) handleRequestOccurrencesStep(d *dialog) {
	n, err := parseBoundedInt(d.text, 1, MaxOccurrences)
	if err != nil {
		h.reply(d, fmt.Sprintf("❌ Введите число от 1 до %d", MaxOccurrences))
		return
	}

	h.stateManager.SetData(d.telegramID, state.KeyOccurrences, int64(n))
	h.stateManager.SetState(d.telegramID, state.StateRequestMessage)
	h.reply(d, "✉️ Сообщение тьютору (или «-», чтобы пропустить):")
}

func (h *Handlers) handleRequestMessageStep(d *dialog) {
	data := h.stateManager.GetAllData(d.telegramID)
	tutorID, ok1 := data[state.KeyTutorID].(int64)
	subject, ok2 := data[state.KeySubject].(string)
	start, ok3 := data[state.KeyStartTime].(time.Time)
	duration, ok4 := data[state.KeyDuration].(int64)
	occurrences, ok5 := data[state.KeyOccurrences].(int64)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		h.abort(d, "request_message", common.ErrDialogExpired)
		return
	}

	req, err := h.requestService.Create(d.ctx, service.CreateRequestInput{
		StudentID:       d.user.ID,
		TutorID:         tutorID,
		Subject:         subject,
		StartTime:       start,
		DurationMinutes: int(duration),
		Occurrences:     int(occurrences),
		Message:         optionalText(d.text),
	})
	if err != nil {
		h.abort(d, "create_request", err)
		return
	}

	h.stateManager.ClearState(d.telegramID)
	h.reply(d, requestSummary(req))
}

func (h *Handlers) handleDeclineReasonStep(d *dialog) {
	requestID, ok := h.dialogID(d, state.KeyRequestID)
	if !ok {
		return
	}

	req, err := h.requestService.Decline(d.ctx, requestID, d.user.ID, optionalText(d.text))
	if err != nil {
		h.retryOrAbort(d, "decline_request", err)
		return
	}

	h.stateManager.ClearState(d.telegramID)
	h.reply(d, fmt.Sprintf("❌ Заявка #%d отклонена. Студент получит уведомление.", req.ID))
}

func (h *Handlers) handleCancelReasonStep(d *dialog) {
	sessionID, ok := h.dialogID(d, state.KeySessionID)
	if !ok {
		return
	}

	s, err := h.sessionService.Cancel(d.ctx, sessionID, d.user.ID, optionalText(d.text))
	if err != nil {
		h.retryOrAbort(d, "cancel_session", err)
		return
	}

	h.stateManager.ClearState(d.telegramID)
	h.send(d.ctx, d.b, d.chatID, common.SessionCard(s, d.user.ID, d.user.Location()), nil)
}

func (h *Handlers) handleSessionNotesStep(d *dialog) {
	sessionID, ok := h.dialogID(d, state.KeySessionID)
	if !ok {
		return
	}

	if _, err := h.sessionService.UpdateNotes(d.ctx, sessionID, d.user.ID, optionalText(d.text)); err != nil {
		h.retryOrAbort(d, "session_notes", err)
		return
	}

	h.stateManager.ClearState(d.telegramID)
	h.reply(d, "📝 Заметки сохранены")
}

func (h *Handlers) handleReviewCommentStep(d *dialog) {
	sessionID, ok := h.dialogID(d, state.KeySessionID)
	if !ok {
		return
	}
	rating, ok := h.dialogID(d, state.KeyRating)
	if !ok {
		return
	}

	review, err := h.reviewService.Submit(d.ctx, service.SubmitReviewInput{
		SessionID: sessionID,
		StudentID: d.user.ID,
		Rating:    int(rating),
		Comment:   optionalText(d.text),
	})
	if err != nil {
		h.retryOrAbort(d, "submit_review", err)
		return
	}

	h.stateManager.ClearState(d.telegramID)
	h.reply(d, "🙏 Спасибо за отзыв! "+formatting.Stars(review.Rating))
}

func (h *Handlers) handleComposeMessageStep(d *dialog) {
	receiverID, ok := h.dialogID(d, state.KeyReceiverID)
	if !ok {
		return
	}

	if _, err := h.messageService.Send(d.ctx, service.SendMessageInput{
		SenderID:   d.user.ID,
		ReceiverID: receiverID,
		Content:    d.text,
	}); err != nil {
		h.fail(d, "send_message", err)
		return
	}

	h.stateManager.ClearState(d.telegramID)
	h.reply(d, "📨 Сообщение отправлено")
}
