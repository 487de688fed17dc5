package service

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktime-bot/internal/models"
	"worktime-bot/internal/summary"
)

func TestSummaryService_Month(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 10)
	admin := env.admin(t, 1)

	_, err := env.workdays.Upsert(models.WorkdayEntry{UserID: user.ID, Date: "2025-06-02", HoursWorked: 8, AdditionalWorked: 2})
	require.NoError(t, err)
	_, err = env.workdays.Upsert(models.WorkdayEntry{UserID: user.ID, Date: "2025-06-03", AbsenceType: models.LeaveTypeSickLeave})
	require.NoError(t, err)

	r, err := env.leaves.SubmitRequest(user.ID, models.LeaveTypeVacation, "2025-06-05", "2025-06-10", "")
	require.NoError(t, err)
	_, err = env.leaves.SetRequestStatus(admin.ID, r.ID, models.LeaveStatusAccepted)
	require.NoError(t, err)

	// Две сессии таймера 4 июня
	env.clock.Set(time.Date(2025, 6, 4, 9, 0, 0, 0, env.loc))
	_, err = env.timers.Start(user.ID, StartOptions{Description: " Deploy "})
	require.NoError(t, err)
	env.clock.Advance(time.Hour)
	_, err = env.timers.Stop(user.ID)
	require.NoError(t, err)

	_, err = env.timers.Start(user.ID, StartOptions{Description: "Deploy", IsOvertime: true})
	require.NoError(t, err)
	env.clock.Advance(30 * time.Minute)
	_, err = env.timers.Stop(user.ID)
	require.NoError(t, err)
	env.summaries.Wait()

	report, err := env.summaries.Month(user.ID, 2025, time.June)
	require.NoError(t, err)

	assert.Equal(t, summary.Summary{
		Year:                  2025,
		Month:                 time.June,
		TotalHoursWorked:      8,
		TotalOvertime:         2,
		DistinctWorkedDays:    1,
		TotalLeaveDays:        4,
		TotalOtherAbsenceDays: 1,
		TotalHolidays:         2,
	}, report.Summary)
	assert.Equal(t, summary.SessionTotals{Sessions: 2, TrackedSeconds: 5400, TrackedOvertimeSeconds: 1800}, report.Sessions)
	assert.Equal(t, []string{"Deploy"}, report.Descriptions)

	text := env.summaries.FormatReport(report)
	assert.Contains(t, text, "Сводка за 06.2025")
	assert.Contains(t, text, "1ч 30м")

	_, err = env.summaries.Month(user.ID, 2025, 0)
	assert.ErrorIs(t, err, summary.ErrInvalidMonth)
}

func TestSummaryService_InvalidateRange(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 10)

	for _, m := range []time.Month{time.May, time.June, time.July} {
		_, err := env.summaries.Month(user.ID, 2025, m)
		require.NoError(t, err)
	}

	require.NoError(t, env.summaries.InvalidateRange(user.ID, "2025-05-31", "2025-06-01"))
	// Повторный сброс отсутствующего кэша не ошибка
	require.NoError(t, env.summaries.InvalidateRange(user.ID, "2025-05-31", "2025-06-01"))

	for m, want := range map[int]bool{5: false, 6: false, 7: true} {
		got, err := env.repos.Summaries.GetByUserAndMonth(user.ID, 2025, m)
		require.NoError(t, err)
		assert.Equal(t, want, got != nil, "month %d", m)
	}
}

func TestStatsRefresher(t *testing.T) {
	env := newTestEnv(t)
	logger, _ := test.NewNullLogger()
	env.user(t, 10)
	env.user(t, 11)

	_, err := NewStatsRefresher("not a cron spec", env.summaries, env.clock.Now, env.loc, logger)
	assert.Error(t, err)

	refresher, err := NewStatsRefresher("0 3 * * *", env.summaries, env.clock.Now, env.loc, logger)
	require.NoError(t, err)

	refresher.Run()

	june, err := env.repos.Summaries.GetByMonth(2025, 6)
	require.NoError(t, err)
	assert.Len(t, june, 2)

	may, err := env.repos.Summaries.GetByMonth(2025, 5)
	require.NoError(t, err)
	assert.Len(t, may, 2)

	refresher.Start()
	<-refresher.Stop().Done()
}

func TestSummaryService_SettingsChangeClearsCache(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 10)

	before, err := env.summaries.Cached(user.ID, 2025, time.June)
	require.NoError(t, err)

	require.NoError(t, env.settings.AddCustomHoliday("2025-06-20", "Firmowe"))

	stored, err := env.repos.Summaries.GetByUserAndMonth(user.ID, 2025, 6)
	require.NoError(t, err)
	assert.Nil(t, stored)

	after, err := env.summaries.Cached(user.ID, 2025, time.June)
	require.NoError(t, err)
	assert.Equal(t, before.TotalHolidays+1, after.TotalHolidays)

	_, err = env.summaries.Cached(user.ID, 2025, time.June)
	require.NoError(t, err)
	weekends := true
	_, err = env.settings.Update(SettingsUpdate{WorkOnWeekends: &weekends})
	require.NoError(t, err)

	stored, err = env.repos.Summaries.GetByUserAndMonth(user.ID, 2025, 6)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSummaryService_Team(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 10)
	env.admin(t, 1)

	_, err := env.workdays.Upsert(models.WorkdayEntry{UserID: user.ID, Date: "2025-06-02", HoursWorked: 7.5})
	require.NoError(t, err)
	env.summaries.Wait()

	rows, err := env.summaries.Team(2025, time.June)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byChat := map[int64]*models.MonthlySummary{}
	for _, row := range rows {
		byChat[row.User.ChatID] = row.Summary
	}
	assert.Equal(t, 7.5, byChat[10].TotalHoursWorked)
	assert.Equal(t, 0.0, byChat[1].TotalHoursWorked)

	text := env.summaries.FormatTeam(2025, time.June, rows)
	assert.Contains(t, text, "Команда за 06.2025")
	assert.Contains(t, text, "User: 7.5 ч")

	assert.Equal(t, "📭 Пользователей нет", env.summaries.FormatTeam(2025, time.June, nil))
}
