package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Границы ввода в диалогах
const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 480
	MaxOccurrences     = 12
)

// skipWord пропускает необязательный шаг диалога
const skipWord = "-"

var errNotNumber = errors.New("not a number")

// parseBoundedInt разбирает целое число в диапазоне [min, max]
func parseBoundedInt(text string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, errNotNumber
	}
	if n < min || n > max {
		return 0, fmt.Errorf("value %d out of range %d..%d", n, min, max)
	}
	return n, nil
}

// optionalText возвращает пустую строку для «-»
func optionalText(text string) string {
	text = strings.TrimSpace(text)
	if text == skipWord {
		return ""
	}
	return text
}

// splitSubjects разбирает список предметов через запятую или с новой строки
func splitSubjects(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
}
