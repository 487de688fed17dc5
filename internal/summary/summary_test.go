package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
)

func request(typ, start, end, status string) models.LeaveRequest {
	return models.LeaveRequest{UserID: 1, Type: typ, StartDate: start, EndDate: end, Status: status}
}

func TestSummarizeMonth_June2025(t *testing.T) {
	settings := models.Settings{IncludePolishHolidays: true}

	entries := []models.WorkdayEntry{
		{UserID: 1, Date: "2025-05-30", HoursWorked: 8},
		{UserID: 1, Date: "2025-06-02", HoursWorked: 8, AdditionalWorked: 1},
		{UserID: 1, Date: "2025-06-03", HoursWorked: 7.5},
		{UserID: 1, Date: "2025-06-04", AbsenceType: models.LeaveTypeSickLeave},
	}
	requests := []models.LeaveRequest{
		request(models.LeaveTypeVacation, "2025-06-05", "2025-06-10", models.LeaveStatusAccepted),
		request(models.LeaveTypeDayOff, "2025-06-20", "2025-06-20", models.LeaveStatusAccepted),
		request(models.LeaveTypeSickLeave, "2025-06-04", "2025-06-04", models.LeaveStatusAccepted),
		request(models.LeaveTypeVacation, "2025-06-27", "2025-07-04", models.LeaveStatusAccepted),
		request(models.LeaveTypeVacation, "2025-06-23", "2025-06-24", models.LeaveStatusPending),
	}

	got, err := SummarizeMonth(entries, requests, settings, time.June, 2025, nil)
	require.NoError(t, err)

	assert.Equal(t, Summary{
		Year:                  2025,
		Month:                 time.June,
		TotalHoursWorked:      15.5,
		TotalOvertime:         1,
		DistinctWorkedDays:    2,
		TotalLeaveDays:        6,
		TotalOtherAbsenceDays: 2,
		TotalHolidays:         2,
	}, got)
}

func TestSummarizeMonth_LabelDrivesClassification(t *testing.T) {
	requests := []models.LeaveRequest{
		request(models.LeaveTypeVacation, "2025-06-02", "2025-06-02", models.LeaveStatusAccepted),
		request("parental_leave", "2025-06-03", "2025-06-03", models.LeaveStatusAccepted),
		request("training", "2025-06-04", "2025-06-04", models.LeaveStatusAccepted),
	}
	labels := Labels{models.LeaveTypeVacation: "Wakacje", "training": "Szkolenie"}

	got, err := SummarizeMonth(nil, requests, models.Settings{}, time.June, 2025, labels)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalLeaveDays)
	assert.Equal(t, 2, got.TotalOtherAbsenceDays)
}

func TestSummarizeMonth_LeaveWinsOverOtherOnSameDate(t *testing.T) {
	entries := []models.WorkdayEntry{{UserID: 1, Date: "2025-06-02", AbsenceType: models.LeaveTypeDayOff}}
	requests := []models.LeaveRequest{
		request(models.LeaveTypeVacation, "2025-06-02", "2025-06-02", models.LeaveStatusAccepted),
	}

	got, err := SummarizeMonth(entries, requests, models.Settings{}, time.June, 2025, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalLeaveDays)
	assert.Equal(t, 0, got.TotalOtherAbsenceDays)
}

func TestSummarizeMonth_HolidayFlags(t *testing.T) {
	settings := models.Settings{
		IncludeCustomHolidays: true,
		CustomHolidays:        []models.CustomHoliday{{Date: "2025-11-10", Name: "Most"}},
	}

	got, err := SummarizeMonth(nil, nil, settings, time.November, 2025, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalHolidays)

	settings.IncludePolishHolidays = true
	got, err = SummarizeMonth(nil, nil, settings, time.November, 2025, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalHolidays)
}

func TestSummarizeMonth_Errors(t *testing.T) {
	_, err := SummarizeMonth(nil, nil, models.Settings{}, 13, 2025, nil)
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = SummarizeMonth([]models.WorkdayEntry{{Date: "2025/06/01"}}, nil, models.Settings{}, time.June, 2025, nil)
	assert.ErrorIs(t, err, calendar.ErrInvalidDateFormat)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Urlop wypoczynkowy", DefaultLabels.Label(models.LeaveTypeVacation))
	assert.Equal(t, "custom", DefaultLabels.Label("custom"))

	assert.True(t, DefaultLabels.IsLeave(models.LeaveTypeOnDemand))
	assert.False(t, DefaultLabels.IsLeave(models.LeaveTypeSickLeave))
	assert.True(t, Labels{"x": "ANNUAL LEAVE"}.IsLeave("x"))
}

func TestDistinctWorkDescriptions(t *testing.T) {
	sessions := []models.TimerSession{
		{WorkDescription: "  Code review "},
		{WorkDescription: "Code review"},
		{WorkDescription: "code review"},
		{WorkDescription: "   "},
		{WorkDescription: ""},
		{WorkDescription: "Deploy"},
	}

	assert.Equal(t, []string{"Code review", "Deploy", "code review"}, DistinctWorkDescriptions(sessions))
	assert.Empty(t, DistinctWorkDescriptions(nil))
}

func TestFoldSessions(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	sessions := []models.TimerSession{
		{StartTime: time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC), DurationSeconds: 3600},
		{StartTime: time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC), DurationSeconds: 1800, IsOvertime: true},
		// 31 мая 23:30 UTC - уже 1 июня в Варшаве
		{StartTime: time.Date(2025, 5, 31, 23, 30, 0, 0, time.UTC), DurationSeconds: 600},
		{StartTime: time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC), DurationSeconds: 900},
	}

	got := FoldSessions(sessions, time.June, 2025, warsaw)
	assert.Equal(t, SessionTotals{Sessions: 3, TrackedSeconds: 6000, TrackedOvertimeSeconds: 1800}, got)

	got = FoldSessions(sessions, time.June, 2025, nil)
	assert.Equal(t, 2, got.Sessions)
}
