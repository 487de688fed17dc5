package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout - формат ISO-даты, в котором ядро принимает и отдает даты
const DateLayout = "2006-01-02"

// ErrInvalidDateFormat возвращается для любой некорректной даты.
// Пустая строка тоже ошибка: подстановки "сегодня" нет.
var ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

// ParseDate разбирает ISO-дату в полночь UTC
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, value)
	}
	return t, nil
}

// FormatDate форматирует дату в ISO без учета времени
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf возвращает календарную дату момента t в его часовом поясе
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthBounds возвращает первый и последний день месяца
func MonthBounds(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return FormatDate(first), FormatDate(last)
}
