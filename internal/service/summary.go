package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
	"worktime-bot/internal/repository"
	"worktime-bot/internal/summary"
)

// MonthReport - месячная сводка вместе с данными таймера
type MonthReport struct {
	Summary      summary.Summary
	Sessions     summary.SessionTotals
	Descriptions []string
}

// TeamRow - сохраненная сводка одного пользователя
type TeamRow struct {
	User    *models.User
	Summary *models.MonthlySummary
}

type SummaryService struct {
	summaries repository.MonthlySummaryRepository
	users     repository.UserRepository
	workdays  repository.WorkdayEntryRepository
	requests  repository.LeaveRequestRepository
	timers    repository.TimerRepository
	settings  *SettingsService
	labels    summary.Labels
	loc       *time.Location
	logger    *logrus.Logger

	wg sync.WaitGroup
}

func NewSummaryService(
	repos *repository.Repositories,
	settings *SettingsService,
	labels summary.Labels,
	loc *time.Location,
	logger *logrus.Logger,
) *SummaryService {
	if labels == nil {
		labels = summary.DefaultLabels
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &SummaryService{
		summaries: repos.Summaries,
		users:     repos.Users,
		workdays:  repos.Workdays,
		requests:  repos.Requests,
		timers:    repos.Timers,
		settings:  settings,
		labels:    labels,
		loc:       loc,
		logger:    logger,
	}

	// Выходные и праздники меняют все сводки сразу
	settings.OnChange(s.InvalidateAll)

	return s
}

// Month пересчитывает сводку и сохраняет ее в кэш
func (s *SummaryService) Month(userID uint, year int, month time.Month) (*MonthReport, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: %d", summary.ErrInvalidMonth, month)
	}

	first, last := calendar.MonthBounds(year, month)

	entries, err := s.workdays.GetByUserAndRange(userID, first, last)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.GetAcceptedInRange(userID, first, last)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	monthly, err := summary.SummarizeMonth(entries, requests, settings, month, year, s.labels)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	sessions, err := s.timers.GetSessionsByUserAndRange(userID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	report := &MonthReport{
		Summary:      monthly,
		Sessions:     summary.FoldSessions(sessions, month, year, s.loc),
		Descriptions: summary.DistinctWorkDescriptions(sessions),
	}

	cached := &models.MonthlySummary{
		UserID:                 userID,
		Year:                   year,
		Month:                  int(month),
		TotalHoursWorked:       monthly.TotalHoursWorked,
		TotalOvertime:          monthly.TotalOvertime,
		DistinctWorkedDays:     monthly.DistinctWorkedDays,
		TotalLeaveDays:         monthly.TotalLeaveDays,
		TotalOtherAbsenceDays:  monthly.TotalOtherAbsenceDays,
		TotalHolidays:          monthly.TotalHolidays,
		TrackedSeconds:         report.Sessions.TrackedSeconds,
		TrackedOvertimeSeconds: report.Sessions.TrackedOvertimeSeconds,
	}
	if err := s.summaries.Upsert(cached); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"year":     year,
		"month":    int(month),
		"sessions": report.Sessions.Sessions,
	}).Debug("Monthly summary computed")

	return report, nil
}

// Cached возвращает сохраненную сводку, пересчитывая ее при отсутствии
func (s *SummaryService) Cached(userID uint, year int, month time.Month) (*models.MonthlySummary, error) {
	stored, err := s.summaries.GetByUserAndMonth(userID, year, int(month))
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}

	if _, err := s.Month(userID, year, month); err != nil {
		return nil, err
	}
	return s.summaries.GetByUserAndMonth(userID, year, int(month))
}

// RefreshAsync пересчитывает месяц, в который попадает at, в фоне
func (s *SummaryService) RefreshAsync(userID uint, at time.Time) {
	local := at.In(s.loc)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.Month(userID, local.Year(), local.Month()); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Error("Failed to refresh monthly summary")
		}
	}()
}

// Wait дожидается завершения фоновых пересчетов
func (s *SummaryService) Wait() {
	s.wg.Wait()
}

// RefreshAll пересчитывает месяц для всех пользователей
func (s *SummaryService) RefreshAll(year int, month time.Month) (int, error) {
	users, err := s.users.GetAll()
	if err != nil {
		return 0, err
	}

	refreshed := 0
	var errs []error
	for _, user := range users {
		if _, err := s.Month(user.ID, year, month); err != nil {
			errs = append(errs, fmt.Errorf("user %d: %w", user.ID, err))
			continue
		}
		refreshed++
	}

	s.logger.WithFields(logrus.Fields{
		"year":      year,
		"month":     int(month),
		"refreshed": refreshed,
		"failed":    len(errs),
	}).Info("Monthly summaries refreshed")

	return refreshed, errors.Join(errs...)
}

// InvalidateRange удаляет кэш всех месяцев, которые задевает диапазон дат
func (s *SummaryService) InvalidateRange(userID uint, startDate, endDate string) error {
	start, err := calendar.ParseDate(startDate)
	if err != nil {
		return err
	}
	end, err := calendar.ParseDate(endDate)
	if err != nil {
		return err
	}

	for m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(end); m = m.AddDate(0, 1, 0) {
		err := s.summaries.DeleteByUserAndMonth(userID, m.Year(), int(m.Month()))
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}

	return nil
}

// InvalidateAll очищает кэш сводок всех пользователей; сводки пересчитываются при следующем чтении
func (s *SummaryService) InvalidateAll() {
	if _, err := s.summaries.DeleteAll(); err != nil {
		s.logger.WithError(err).Error("Failed to invalidate monthly summaries")
	}
}

// Team возвращает сводки всех пользователей за месяц, недостающие пересчитываются
func (s *SummaryService) Team(year int, month time.Month) ([]TeamRow, error) {
	users, err := s.users.GetAll()
	if err != nil {
		return nil, err
	}

	rows := make([]TeamRow, 0, len(users))
	for _, user := range users {
		cached, err := s.Cached(user.ID, year, month)
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", user.ID, err)
		}
		rows = append(rows, TeamRow{User: user, Summary: cached})
	}

	return rows, nil
}

// FormatCached форматирует сохраненную сводку
func (s *SummaryService) FormatCached(m *models.MonthlySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Сводка за %02d.%d\n\n", m.Month, m.Year)
	fmt.Fprintf(&b, "⏰ Отработано: %.1f ч\n", m.TotalHoursWorked)
	fmt.Fprintf(&b, "➕ Переработка: %.1f ч\n", m.TotalOvertime)
	fmt.Fprintf(&b, "📅 Рабочих дней: %d\n", m.DistinctWorkedDays)
	fmt.Fprintf(&b, "🏖 Дней отпуска: %d\n", m.TotalLeaveDays)
	fmt.Fprintf(&b, "🚪 Других отсутствий: %d\n", m.TotalOtherAbsenceDays)
	fmt.Fprintf(&b, "🎉 Праздников: %d", m.TotalHolidays)

	if m.TrackedSeconds > 0 {
		fmt.Fprintf(&b, "\n\n⏱ Таймер: %s (из них сверхурочно %s)",
			models.FormatSeconds(m.TrackedSeconds),
			models.FormatSeconds(m.TrackedOvertimeSeconds))
	}

	return b.String()
}

// FormatTeam форматирует сводки команды за месяц
func (s *SummaryService) FormatTeam(year int, month time.Month, rows []TeamRow) string {
	if len(rows) == 0 {
		return "📭 Пользователей нет"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 Команда за %02d.%d\n\n", int(month), year)
	for _, row := range rows {
		m := row.Summary
		fmt.Fprintf(&b, "• %s: %.1f ч, +%.1f ч, дней %d, отпуск %d, отсутствия %d\n",
			row.User.DisplayName(), m.TotalHoursWorked, m.TotalOvertime,
			m.DistinctWorkedDays, m.TotalLeaveDays, m.TotalOtherAbsenceDays)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatReport форматирует сводку для вывода
func (s *SummaryService) FormatReport(report *MonthReport) string {
	m := report.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Сводка за %02d.%d\n\n", int(m.Month), m.Year)
	fmt.Fprintf(&b, "⏰ Отработано: %.1f ч\n", m.TotalHoursWorked)
	fmt.Fprintf(&b, "➕ Переработка: %.1f ч\n", m.TotalOvertime)
	fmt.Fprintf(&b, "📅 Рабочих дней: %d\n", m.DistinctWorkedDays)
	fmt.Fprintf(&b, "🏖 Дней отпуска: %d\n", m.TotalLeaveDays)
	fmt.Fprintf(&b, "🚪 Других отсутствий: %d\n", m.TotalOtherAbsenceDays)
	fmt.Fprintf(&b, "🎉 Праздников: %d\n", m.TotalHolidays)

	if report.Sessions.Sessions > 0 {
		fmt.Fprintf(&b, "\n⏱ Таймер: %d сессий, %s (из них сверхурочно %s)\n",
			report.Sessions.Sessions,
			models.FormatSeconds(report.Sessions.TrackedSeconds),
			models.FormatSeconds(report.Sessions.TrackedOvertimeSeconds))
	}

	if len(report.Descriptions) > 0 {
		b.WriteString("\n📝 Задачи:\n")
		for _, desc := range report.Descriptions {
			fmt.Fprintf(&b, "• %s\n", desc)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
