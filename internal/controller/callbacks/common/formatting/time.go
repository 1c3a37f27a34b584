package formatting

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatInZone форматирует время в часовом поясе пользователя
func FormatInZone(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return fmt.Sprintf("%s, %s %s", GetWeekdayShort(int(local.Weekday())), local.Format("02.01.2006 15:04"), local.Format("MST"))
}

// DateTimeLayout формат ввода даты и времени в диалогах
const DateTimeLayout = "02.01.2006 15:04"

// ParseDateTime разбирает "ДД.ММ.ГГГГ ЧЧ:ММ" в часовом поясе пользователя
func ParseDateTime(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateTimeLayout, strings.TrimSpace(text), loc)
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// GetWeekdayShort возвращает короткое название дня недели
func GetWeekdayShort(weekday int) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}
