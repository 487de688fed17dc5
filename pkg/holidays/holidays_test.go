package holidays

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
)

func TestParse_YAML(t *testing.T) {
	data := []byte(`
year: 2025
holidays:
  - date: 2025-12-24
    name: Wigilia
  - date: "2025-05-02"
    name: Most majowy
months:
  - month: 11
    days: "10+, 24*"
    name: Dzień firmy
  - month: 12
    days: "24"
`)

	got, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, []models.CustomHoliday{
		{Date: "2025-05-02", Name: "Most majowy"},
		{Date: "2025-11-10", Name: "Dzień firmy"},
		{Date: "2025-11-24", Name: "Dzień firmy"},
		{Date: "2025-12-24", Name: "Wigilia"},
	}, got)
}

func TestParse_JSON(t *testing.T) {
	data := []byte(`{"holidays": [{"date": "2026-01-02"}]}`)

	got, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-01-02", got[0].Date)
	assert.Equal(t, defaultName, got[0].Name)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad date", "holidays:\n  - date: 24.12.2025\n"},
		{"months without year", "months:\n  - month: 1\n    days: \"2\"\n"},
		{"bad month", "year: 2025\nmonths:\n  - month: 13\n    days: \"2\"\n"},
		{"bad day", "year: 2025\nmonths:\n  - month: 2\n    days: \"x\"\n"},
		{"day out of month", "year: 2025\nmonths:\n  - month: 2\n    days: \"30\"\n"},
		{"not yaml", "holidays: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("holidays:\n  - date: 2025-13-01\n"))
	assert.ErrorIs(t, err, calendar.ErrInvalidDateFormat)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte("holidays:\n  - date: 2025-12-31\n    name: Sylwester\n"), 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []models.CustomHoliday{{Date: "2025-12-31", Name: "Sylwester"}}, got)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
