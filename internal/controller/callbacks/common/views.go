package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/availability"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/go-telegram/bot/models"
)

// Тексты и клавиатуры, общие для команд и callback-ов. Все тексты в HTML.

// EscapeHTML экранирует пользовательский текст для ParseModeHTML
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

func nameOf(u *model.User) string {
	if u == nil {
		return "пользователь"
	}
	return EscapeHTML(u.DisplayName())
}

// TutorCard описывает тьютора в списке /tutors
func TutorCard(u *model.User) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 <b>%s</b>\n", nameOf(u))
	if u.ReviewCount > 0 {
		fmt.Fprintf(&sb, "⭐ %.1f (%d %s)\n", u.AverageRating, u.ReviewCount, formatting.PluralizeReviews(u.ReviewCount))
	} else {
		sb.WriteString("⭐ Пока без отзывов\n")
	}
	if len(u.Subjects) > 0 {
		fmt.Fprintf(&sb, "📚 %s\n", EscapeHTML(strings.Join(u.Subjects, ", ")))
	}
	if u.Bio != "" {
		fmt.Fprintf(&sb, "📝 %s\n", EscapeHTML(u.Bio))
	}
	sb.WriteString("🗓 " + AvailabilityText(u.Availability))
	if u.Timezone != "" {
		fmt.Fprintf(&sb, " (%s)", EscapeHTML(u.Timezone))
	}
	return sb.String()
}

// TutorKeyboard кнопки под карточкой тьютора
func TutorKeyboard(tutorID int64) *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.Button("📝 Записаться", Data(NewRequest, tutorID))).
		Row(
			keyboard.Button("✉️ Написать", Data(WriteMessage, tutorID)),
			keyboard.Button("⭐ Отзывы", Data(TutorReviews, tutorID)),
		).
		Build()
}

// AvailabilityText перечисляет окна доступности через запятую
func AvailabilityText(slots []model.AvailabilitySlot) string {
	if len(slots) == 0 {
		return "Расписание не указано"
	}
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, availability.FormatSlot(s))
	}
	return strings.Join(parts, ", ")
}

// RequestCard описывает заявку; users содержит обоих участников
func RequestCard(req *model.TutoringRequest, viewerID int64, users map[int64]*model.User, loc *time.Location) string {
	display := formatting.GetRequestStatusDisplay(req.Status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>Заявка #%d</b> · %s\n", display.Emoji, req.ID, display.Text)
	if viewerID == req.TutorID {
		fmt.Fprintf(&sb, "🎓 Студент: %s\n", nameOf(users[req.StudentID]))
	} else {
		fmt.Fprintf(&sb, "👤 Тьютор: %s\n", nameOf(users[req.TutorID]))
	}
	fmt.Fprintf(&sb, "📚 %s\n", EscapeHTML(req.Subject))
	fmt.Fprintf(&sb, "🕐 %s, %s\n", formatting.FormatInZone(req.StartTime, loc), formatting.FormatDuration(req.DurationMinutes))
	if req.Occurrences > 1 {
		fmt.Fprintf(&sb, "🔁 Каждую неделю, %d %s\n", req.Occurrences, formatting.PluralizeSessions(req.Occurrences))
	}
	if req.Message != "" {
		fmt.Fprintf(&sb, "💬 %s\n", EscapeHTML(req.Message))
	}
	if req.OutsideAvailability {
		sb.WriteString("⚠️ Вне расписания тьютора\n")
	}
	if req.NewSubject {
		sb.WriteString("⚠️ Предмета нет в списке тьютора\n")
	}
	if req.DeclineReason != "" {
		fmt.Fprintf(&sb, "📝 Причина: %s\n", EscapeHTML(req.DeclineReason))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RequestKeyboard кнопки действий с заявкой; nil если действий нет
func RequestKeyboard(req *model.TutoringRequest, viewerID int64) *models.InlineKeyboardMarkup {
	if !req.IsPending() {
		return nil
	}
	switch viewerID {
	case req.TutorID:
		return keyboard.NewBuilder().
			Row(
				keyboard.Button("✅ Одобрить", Data(ApproveRequest, req.ID)),
				keyboard.Button("🚫 Отклонить", Data(DeclineRequest, req.ID)),
			).
			Build()
	case req.StudentID:
		return keyboard.NewBuilder().
			Row(keyboard.Button("❌ Отозвать", Data(CancelRequest, req.ID))).
			Build()
	}
	return nil
}

// SessionCard описывает занятие с точки зрения viewerID
func SessionCard(s *model.TutoringSession, viewerID int64, loc *time.Location) string {
	display := formatting.GetSessionStatusDisplay(s.Status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>%s</b> · %s\n", display.Emoji, EscapeHTML(s.Subject), display.Text)
	if viewerID == s.TutorID {
		fmt.Fprintf(&sb, "🎓 Студент: %s\n", nameOf(s.Student))
	} else {
		fmt.Fprintf(&sb, "👤 Тьютор: %s\n", nameOf(s.Tutor))
	}
	fmt.Fprintf(&sb, "🕐 %s, %s\n", formatting.FormatInZone(s.StartTime, loc), formatting.FormatDuration(s.DurationMinutes))
	if s.Notes != "" {
		fmt.Fprintf(&sb, "🗒 %s\n", EscapeHTML(s.Notes))
	}
	if s.Status == model.SessionStatusCancelled && s.CancelReason != "" {
		fmt.Fprintf(&sb, "📝 Причина отмены: %s\n", EscapeHTML(s.CancelReason))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// SessionKeyboard кнопки действий с занятием на момент now; nil если действий нет
func SessionKeyboard(s *model.TutoringSession, viewerID int64, now time.Time) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()
	actions := 0

	if s.Status == model.SessionStatusScheduled {
		if s.StartTime.After(now) {
			kb.Row(keyboard.Button("❌ Отменить", Data(CancelSession, s.ID)))
		} else {
			kb.Row(keyboard.Button("✔️ Завершить", Data(CompleteSession, s.ID)))
		}
		actions++
	}
	if s.Status != model.SessionStatusCancelled {
		kb.Row(keyboard.Button("🗒 Заметки", Data(SessionNotes, s.ID)))
		actions++
	}
	if s.Status == model.SessionStatusCompleted && !s.HasReview && viewerID == s.StudentID {
		kb.Row(keyboard.Button("⭐ Оставить отзыв", Data(StartReview, s.ID)))
		actions++
	}

	if actions == 0 {
		return nil
	}
	return kb.Build()
}

// RatingKeyboard кнопки оценки 1..5
func RatingKeyboard(sessionID int64) *models.InlineKeyboardMarkup {
	row := make([]models.InlineKeyboardButton, 0, model.MaxRating)
	for r := model.MinRating; r <= model.MaxRating; r++ {
		row = append(row, keyboard.Button(fmt.Sprintf("%d ⭐", r), DataWithValue(RateSession, sessionID, r)))
	}
	return keyboard.NewBuilder().AddRow(row).Build()
}

// AlertLine строка уведомления в списке /alerts
func AlertLine(a *model.Alert, loc *time.Location) string {
	mark := "🔔"
	if a.IsRead {
		mark = "▫️"
	}
	return fmt.Sprintf("%s %s\n<i>%s</i>", mark, EscapeHTML(a.Message), formatting.FormatInZone(a.CreatedAt, loc))
}

// ReviewLine строка отзыва
func ReviewLine(r *model.Review) string {
	line := formatting.Stars(r.Rating)
	if r.Comment != "" {
		line += " " + EscapeHTML(r.Comment)
	}
	return line + "\n<i>" + formatting.FormatDate(r.CreatedAt) + "</i>"
}

// ConversationLine строка списка диалогов
func ConversationLine(c *model.Conversation) string {
	text := c.LastMessage.Content
	if r := []rune(text); len(r) > 60 {
		text = string(r[:60]) + "…"
	}
	line := fmt.Sprintf("💬 <b>%s</b>: %s", nameOf(c.Partner), EscapeHTML(text))
	if c.UnreadCount > 0 {
		line += fmt.Sprintf(" (🔔 %d)", c.UnreadCount)
	}
	return line
}

// ConversationKeyboard кнопки ответа и прочтения
func ConversationKeyboard(partnerID int64) *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(
			keyboard.Button("↩️ Ответить", Data(WriteMessage, partnerID)),
			keyboard.Button("✅ Прочитано", Data(ReadConversation, partnerID)),
		).
		Build()
}
