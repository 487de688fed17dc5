// Package workday раскладывает диапазон дат на дни, в которые можно работать.
package workday

import (
	"time"

	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
)

// IsWeekend - суббота или воскресенье
func IsWeekend(date string) (bool, error) {
	day, err := calendar.ParseDate(date)
	if err != nil {
		return false, err
	}
	return isWeekend(day), nil
}

func isWeekend(day time.Time) bool {
	weekday := day.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsEligible проверяет одну дату по тем же правилам, что и EligibleDates
func IsEligible(date string, settings models.Settings) (bool, error) {
	day, err := calendar.ParseDate(date)
	if err != nil {
		return false, err
	}
	return eligible(day, settings), nil
}

func eligible(day time.Time, settings models.Settings) bool {
	if calendar.IsHolidayTime(day, settings).IsPresent() {
		return false
	}
	if settings.WorkOnWeekends {
		return true
	}
	return !isWeekend(day)
}

// EligibleDates возвращает рабочие даты из [start, end] по возрастанию.
// Функция чистая: одинаковые аргументы дают одинаковый результат.
func EligibleDates(start, end string, settings models.Settings) ([]string, error) {
	from, err := calendar.ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := calendar.ParseDate(end)
	if err != nil {
		return nil, err
	}

	result := []string{}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if eligible(day, settings) {
			result = append(result, calendar.FormatDate(day))
		}
	}
	return result, nil
}

// Count - количество рабочих дат в диапазоне
func Count(start, end string, settings models.Settings) (int, error) {
	dates, err := EligibleDates(start, end, settings)
	if err != nil {
		return 0, err
	}
	return len(dates), nil
}
