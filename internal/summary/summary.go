// Package summary сворачивает дневные итоги, заявки и сессии таймера в месячную сводку.
package summary

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
	"worktime-bot/internal/workday"
)

var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// Подстроки подписи типа, по которым отсутствие считается отпуском
var leaveKeywords = []string{"urlop", "vacation", "leave"}

// Labels - отображаемые подписи типов отсутствия
type Labels map[string]string

// DefaultLabels - подписи по умолчанию
var DefaultLabels = Labels{
	models.LeaveTypeVacation:     "Urlop wypoczynkowy",
	models.LeaveTypeSickLeave:    "Zwolnienie lekarskie",
	models.LeaveTypeOnDemand:     "Urlop na żądanie",
	models.LeaveTypeUnpaid:       "Urlop bezpłatny",
	models.LeaveTypeDayOff:       "Dzień wolny",
	models.LeaveTypeRemote:       "Praca zdalna",
	models.LeaveTypeBusinessTrip: "Delegacja",
}

// Label возвращает подпись типа; неизвестный тип подписан своим ключом
func (l Labels) Label(typ string) string {
	if label, ok := l[typ]; ok && label != "" {
		return label
	}
	return typ
}

// IsLeave - отпуск или другое отсутствие, по подписи без учета регистра
func (l Labels) IsLeave(typ string) bool {
	label := strings.ToLower(l.Label(typ))
	for _, kw := range leaveKeywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}

type Summary struct {
	Year                  int        `json:"year"`
	Month                 time.Month `json:"month"`
	TotalHoursWorked      float64    `json:"total_hours_worked"`
	TotalOvertime         float64    `json:"total_overtime"`
	DistinctWorkedDays    int        `json:"distinct_worked_days"`
	TotalLeaveDays        int        `json:"total_leave_days"`
	TotalOtherAbsenceDays int        `json:"total_other_absence_days"`
	TotalHolidays         int        `json:"total_holidays"`
}

// SummarizeMonth считает сводку за месяц. Многодневная заявка дает только
// рабочие даты внутри месяца. Если дата попала и в отпуск, и в другое
// отсутствие, она считается отпуском.
func SummarizeMonth(
	entries []models.WorkdayEntry,
	acceptedRequests []models.LeaveRequest,
	settings models.Settings,
	month time.Month,
	year int,
	labels Labels,
) (Summary, error) {
	if month < time.January || month > time.December {
		return Summary{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	if labels == nil {
		labels = DefaultLabels
	}

	first, last := calendar.MonthBounds(year, month)
	result := Summary{Year: year, Month: month}

	worked := make(map[string]struct{})
	leaveDates := make(map[string]struct{})
	otherDates := make(map[string]struct{})

	for _, entry := range entries {
		if _, err := calendar.ParseDate(entry.Date); err != nil {
			return Summary{}, err
		}
		if entry.Date < first || entry.Date > last {
			continue
		}

		result.TotalHoursWorked += entry.HoursWorked
		result.TotalOvertime += entry.AdditionalWorked
		if entry.HoursWorked > 0 {
			worked[entry.Date] = struct{}{}
		}

		if entry.AbsenceType != "" {
			if labels.IsLeave(entry.AbsenceType) {
				leaveDates[entry.Date] = struct{}{}
			} else {
				otherDates[entry.Date] = struct{}{}
			}
		}
	}

	for _, req := range acceptedRequests {
		if !req.IsAccepted() {
			continue
		}
		dates, err := clippedEligible(req, first, last, settings)
		if err != nil {
			return Summary{}, err
		}

		target := otherDates
		if labels.IsLeave(req.Type) {
			target = leaveDates
		}
		for _, d := range dates {
			target[d] = struct{}{}
		}
	}

	for d := range leaveDates {
		delete(otherDates, d)
	}

	holidays, err := calendar.HolidaysInRange(first, last, settings)
	if err != nil {
		return Summary{}, err
	}

	result.DistinctWorkedDays = len(worked)
	result.TotalLeaveDays = len(leaveDates)
	result.TotalOtherAbsenceDays = len(otherDates)
	result.TotalHolidays = len(holidays)

	return result, nil
}

// clippedEligible - рабочие даты заявки, обрезанные по границам месяца
func clippedEligible(req models.LeaveRequest, first, last string, settings models.Settings) ([]string, error) {
	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	from, to := calendar.FormatDate(start), calendar.FormatDate(end)
	if from < first {
		from = first
	}
	if to > last {
		to = last
	}
	if from > to {
		return nil, nil
	}
	return workday.EligibleDates(from, to, settings)
}

// DistinctWorkDescriptions собирает непустые описания работ без повторов,
// с учетом регистра. Нужны только для подсказок.
func DistinctWorkDescriptions(sessions []models.TimerSession) []string {
	seen := make(map[string]struct{})
	for _, s := range sessions {
		desc := strings.TrimSpace(s.WorkDescription)
		if desc == "" {
			continue
		}
		seen[desc] = struct{}{}
	}

	result := make([]string, 0, len(seen))
	for desc := range seen {
		result = append(result, desc)
	}
	sort.Strings(result)
	return result
}

// SessionTotals - итоги сессий таймера за месяц
type SessionTotals struct {
	Sessions               int   `json:"sessions"`
	TrackedSeconds         int64 `json:"tracked_seconds"`
	TrackedOvertimeSeconds int64 `json:"tracked_overtime_seconds"`
}

// FoldSessions суммирует сессии, начавшиеся в указанном месяце (в часовом поясе loc).
// Сверхурочные входят и в общий итог, и в отдельный.
func FoldSessions(sessions []models.TimerSession, month time.Month, year int, loc *time.Location) SessionTotals {
	if loc == nil {
		loc = time.UTC
	}

	var totals SessionTotals
	for _, s := range sessions {
		start := s.StartTime.In(loc)
		if start.Year() != year || start.Month() != month {
			continue
		}
		totals.Sessions++
		totals.TrackedSeconds += s.DurationSeconds
		if s.IsOvertime {
			totals.TrackedOvertimeSeconds += s.DurationSeconds
		}
	}
	return totals
}
