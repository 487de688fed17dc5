// Package leave согласует планы отпусков с принятыми заявками и решает,
// можно ли использовать дату для нового плана или запуска таймера.
package leave

import (
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
	"worktime-bot/internal/workday"
)

// Reason - причина блокировки даты
type Reason string

const (
	ReasonWorkdayAlreadyTotaled Reason = "WorkdayAlreadyTotaled"
	ReasonWeekendBlocked        Reason = "WeekendBlocked"
	ReasonHolidayBlocked        Reason = "HolidayBlocked"
	ReasonLeaveBlocked          Reason = "LeaveBlocked"
)

// Decision - результат проверки. Блокировка не ошибка, а значение,
// чтобы вызывающий мог показать причину до попытки записи.
type Decision struct {
	Allowed     bool   `json:"allowed"`
	Reason      Reason `json:"reason,omitempty"`
	HolidayName string `json:"holiday_name,omitempty"`
}

// Allow - положительное решение
func Allow() Decision {
	return Decision{Allowed: true}
}

func block(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CoveredDates - объединение рабочих дат всех принятых заявок
func CoveredDates(requests []models.LeaveRequest, settings models.Settings) (map[string]struct{}, error) {
	covered := make(map[string]struct{})
	for _, req := range requests {
		if !req.IsAccepted() {
			continue
		}
		dates, err := workday.EligibleDates(req.StartDate, req.EndDate, settings)
		if err != nil {
			return nil, err
		}
		for _, d := range dates {
			covered[d] = struct{}{}
		}
	}
	return covered, nil
}

// ResolveActivePlans убирает из планов даты, уже покрытые принятыми заявками.
// Сами записи планов не удаляются, история сохраняется.
func ResolveActivePlans(planDates []string, acceptedRequests []models.LeaveRequest, settings models.Settings) ([]string, error) {
	for _, d := range planDates {
		if _, err := calendar.ParseDate(d); err != nil {
			return nil, err
		}
	}

	covered, err := CoveredDates(acceptedRequests, settings)
	if err != nil {
		return nil, err
	}

	result := []string{}
	for _, d := range planDates {
		if _, ok := covered[d]; ok {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

// CanPlanDate - можно ли создать новый план на дату
func CanPlanDate(date string, settings models.Settings) (bool, error) {
	holiday, err := calendar.IsHoliday(date, settings)
	if err != nil {
		return false, err
	}
	if holiday.IsPresent() {
		return false, nil
	}

	weekend, err := workday.IsWeekend(date)
	if err != nil {
		return false, err
	}
	if weekend && !settings.WorkOnWeekends {
		return false, nil
	}
	return true, nil
}

// CanStartSession проверяет правила по порядку, первое сработавшее побеждает.
// Отпуск проверяется по сырому диапазону заявки, без фильтра рабочих дней.
func CanStartSession(date string, userWorkdayEntries []models.WorkdayEntry, acceptedRequests []models.LeaveRequest, settings models.Settings) (Decision, error) {
	day, err := calendar.ParseDate(date)
	if err != nil {
		return Decision{}, err
	}
	iso := calendar.FormatDate(day)

	for _, entry := range userWorkdayEntries {
		if entry.Date == iso && entry.IsTotaled() {
			return block(ReasonWorkdayAlreadyTotaled), nil
		}
	}

	weekend, err := workday.IsWeekend(iso)
	if err != nil {
		return Decision{}, err
	}
	if weekend && !settings.WorkOnWeekends {
		return block(ReasonWeekendBlocked), nil
	}

	holiday, err := calendar.IsHoliday(iso, settings)
	if err != nil {
		return Decision{}, err
	}
	if h, ok := holiday.Get(); ok {
		decision := block(ReasonHolidayBlocked)
		decision.HolidayName = h.Name
		return decision, nil
	}

	for _, req := range acceptedRequests {
		if !req.IsAccepted() {
			continue
		}
		inside, err := withinRaw(iso, req)
		if err != nil {
			return Decision{}, err
		}
		if inside {
			return block(ReasonLeaveBlocked), nil
		}
	}

	return Allow(), nil
}

func withinRaw(iso string, req models.LeaveRequest) (bool, error) {
	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return false, err
	}
	end, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		return false, err
	}
	return iso >= calendar.FormatDate(start) && iso <= calendar.FormatDate(end), nil
}
