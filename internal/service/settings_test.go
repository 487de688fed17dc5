package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
)

func TestSettingsService_InitKeepsExistingRow(t *testing.T) {
	env := newTestEnv(t)

	// Повторная инициализация не перезаписывает сохраненные флаги
	require.NoError(t, env.settings.Init(models.Settings{WorkOnWeekends: true}))

	got, err := env.settings.Get()
	require.NoError(t, err)
	assert.False(t, got.WorkOnWeekends)
	assert.True(t, got.IncludePolishHolidays)
	assert.True(t, got.IncludeCustomHolidays)
}

func TestSettingsService_Update(t *testing.T) {
	env := newTestEnv(t)

	yes, no := true, false
	got, err := env.settings.Update(SettingsUpdate{WorkOnWeekends: &yes, IncludePolishHolidays: &no})
	require.NoError(t, err)
	assert.True(t, got.WorkOnWeekends)
	assert.False(t, got.IncludePolishHolidays)
	assert.True(t, got.IncludeCustomHolidays)
}

func TestSettingsService_SnapshotsAreCopies(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.settings.AddCustomHoliday("2025-12-24", "Wigilia"))

	first, err := env.settings.Get()
	require.NoError(t, err)
	require.Len(t, first.CustomHolidays, 1)
	first.CustomHolidays[0].Name = "changed"
	first.WorkOnWeekends = true

	second, err := env.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "Wigilia", second.CustomHolidays[0].Name)
	assert.False(t, second.WorkOnWeekends)
}

func TestSettingsService_CustomHolidays(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.settings.AddCustomHoliday("24.12.2025", "Wigilia"), calendar.ErrInvalidDateFormat)
	assert.Error(t, env.settings.AddCustomHoliday("2025-12-24", "  "))

	require.NoError(t, env.settings.AddCustomHoliday("2025-12-24", "Wigilia"))
	require.NoError(t, env.settings.RemoveCustomHoliday("2025-12-24"))

	got, err := env.settings.Get()
	require.NoError(t, err)
	assert.Empty(t, got.CustomHolidays)
}

func TestSettingsService_SeedFromFile(t *testing.T) {
	env := newTestEnv(t)

	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte("year: 2025\nmonths:\n  - month: 11\n    days: \"10\"\n    name: Most\n"), 0o600))

	n, err := env.settings.SeedFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := env.settings.Get()
	require.NoError(t, err)
	require.Len(t, got.CustomHolidays, 1)
	assert.Equal(t, "2025-11-10", got.CustomHolidays[0].Date)

	holiday, err := calendar.IsHoliday("2025-11-10", got)
	require.NoError(t, err)
	assert.Equal(t, "Most", holiday.MustGet().Name)
}
