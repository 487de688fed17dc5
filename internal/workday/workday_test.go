package workday

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
)

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2025-06-06", false}, // пятница
		{"2025-06-07", true},
		{"2025-06-08", true},
		{"2025-06-09", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := IsWeekend(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := IsWeekend("06/07/2025")
	assert.ErrorIs(t, err, calendar.ErrInvalidDateFormat)
}

func TestEligibleDates_SkipsWeekend(t *testing.T) {
	got, err := EligibleDates("2025-06-06", "2025-06-09", models.Settings{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-06", "2025-06-09"}, got)
}

func TestEligibleDates_WeekendsWorkedButHolidaysSkipped(t *testing.T) {
	settings := models.Settings{WorkOnWeekends: true, IncludePolishHolidays: true}

	// 2025-06-08 - воскресенье и Зеленые праздники одновременно
	got, err := EligibleDates("2025-06-06", "2025-06-09", settings)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-06", "2025-06-07", "2025-06-09"}, got)
}

func TestEligibleDates_CustomHoliday(t *testing.T) {
	settings := models.Settings{
		IncludeCustomHolidays: true,
		CustomHolidays:        []models.CustomHoliday{{Date: "2025-06-10", Name: "Inwentaryzacja"}},
	}

	got, err := EligibleDates("2025-06-09", "2025-06-11", settings)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-09", "2025-06-11"}, got)
}

func TestEligibleDates_Properties(t *testing.T) {
	settingsList := []models.Settings{
		{},
		{IncludePolishHolidays: true},
		{WorkOnWeekends: true, IncludePolishHolidays: true},
		{IncludeCustomHolidays: true, CustomHolidays: []models.CustomHoliday{{Date: "2025-03-14", Name: "x"}}},
	}

	for _, settings := range settingsList {
		first, err := EligibleDates("2024-12-15", "2026-01-15", settings)
		require.NoError(t, err)

		second, err := EligibleDates("2024-12-15", "2026-01-15", settings)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		for _, d := range first {
			weekend, err := IsWeekend(d)
			require.NoError(t, err)
			assert.True(t, !weekend || settings.WorkOnWeekends, d)

			holiday, err := calendar.IsHoliday(d, settings)
			require.NoError(t, err)
			assert.False(t, holiday.IsPresent(), d)
		}
	}
}

func TestEligibleDates_EmptyAndInvalid(t *testing.T) {
	got, err := EligibleDates("2025-06-09", "2025-06-06", models.Settings{})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = EligibleDates("", "2025-06-06", models.Settings{})
	assert.ErrorIs(t, err, calendar.ErrInvalidDateFormat)
}

func TestCount_May2025(t *testing.T) {
	// май 2025: 22 будних дня, 1 и 3 мая - праздники (3 мая - суббота)
	n, err := Count("2025-05-01", "2025-05-31", models.Settings{IncludePolishHolidays: true})
	require.NoError(t, err)
	assert.Equal(t, 21, n)
}
