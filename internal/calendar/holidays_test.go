package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktime-bot/internal/models"
)

func polishOnly() models.Settings {
	return models.Settings{IncludePolishHolidays: true}
}

func TestComputeEaster_KnownDates(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{2000, "2000-04-23"},
		{2019, "2019-04-21"},
		{2024, "2024-03-31"},
		{2025, "2025-04-20"},
		{2026, "2026-04-05"},
		{2038, "2038-04-25"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(ComputeEaster(tt.year)))
		})
	}
}

func TestComputeEaster_AlwaysSundayInWindow(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		easter := ComputeEaster(year)
		lo := time.Date(year, time.March, 22, 0, 0, 0, 0, time.UTC)
		hi := time.Date(year, time.April, 25, 0, 0, 0, 0, time.UTC)

		require.Equal(t, time.Sunday, easter.Weekday(), "year %d", year)
		require.False(t, easter.Before(lo), "year %d: %s", year, FormatDate(easter))
		require.False(t, easter.After(hi), "year %d: %s", year, FormatDate(easter))
	}
}

func TestMovableHolidays2025(t *testing.T) {
	byName := map[string]string{}
	for _, h := range MovableHolidaysFor(2025) {
		byName[h.Name] = h.Date
	}

	assert.Equal(t, "2025-04-20", byName["Wielkanoc"])
	assert.Equal(t, "2025-04-21", byName["Poniedziałek Wielkanocny"])
	assert.Equal(t, "2025-06-08", byName["Zielone Świątki"])
	assert.Equal(t, "2025-06-19", byName["Boże Ciało"])
}

func TestHolidaysForYear_SortedAndComplete(t *testing.T) {
	holidays := HolidaysForYear(2025)
	require.Len(t, holidays, len(fixedHolidays)+4)

	for i := 1; i < len(holidays); i++ {
		assert.Less(t, holidays[i-1].Date, holidays[i].Date)
	}
	assert.Equal(t, "2025-01-01", holidays[0].Date)
	assert.Equal(t, "2025-12-26", holidays[len(holidays)-1].Date)
}

func TestHolidaysForYear_ReturnsCopy(t *testing.T) {
	first := HolidaysForYear(2030)
	first[0].Name = "changed"

	second := HolidaysForYear(2030)
	assert.Equal(t, "Nowy Rok", second[0].Name)
}

func TestIsHoliday(t *testing.T) {
	custom := []models.CustomHoliday{
		{Date: "2025-06-20", Name: "Dzień firmy"},
		{Date: "2025-11-11", Name: "Firmowe święto"},
	}

	tests := []struct {
		name     string
		date     string
		settings models.Settings
		wantName string
		wantOK   bool
	}{
		{
			name:     "public holiday",
			date:     "2025-06-19",
			settings: polishOnly(),
			wantName: "Boże Ciało",
			wantOK:   true,
		},
		{
			name:     "ordinary day",
			date:     "2025-06-18",
			settings: polishOnly(),
		},
		{
			name:     "custom holiday with public holidays off",
			date:     "2025-06-20",
			settings: models.Settings{IncludeCustomHolidays: true, CustomHolidays: custom},
			wantName: "Dzień firmy",
			wantOK:   true,
		},
		{
			name:     "custom overrides public on the same date",
			date:     "2025-11-11",
			settings: models.Settings{IncludeCustomHolidays: true, IncludePolishHolidays: true, CustomHolidays: custom},
			wantName: "Firmowe święto",
			wantOK:   true,
		},
		{
			name:     "custom ignored when flag off",
			date:     "2025-06-20",
			settings: models.Settings{IncludePolishHolidays: true, CustomHolidays: custom},
		},
		{
			name:     "both flags off",
			date:     "2025-01-01",
			settings: models.Settings{CustomHolidays: custom},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsHoliday(tt.date, tt.settings)
			require.NoError(t, err)

			h, ok := got.Get()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantName, h.Name)
				assert.Equal(t, tt.date, h.Date)
			}
		})
	}
}

func TestIsHoliday_InvalidDate(t *testing.T) {
	for _, input := range []string{"", "2025-13-01", "2025-02-30", "01.05.2025", "2025-5-1", "today"} {
		t.Run(input, func(t *testing.T) {
			got, err := IsHoliday(input, polishOnly())
			assert.ErrorIs(t, err, ErrInvalidDateFormat)
			assert.False(t, got.IsPresent())
		})
	}
}

func TestHolidaysInRange(t *testing.T) {
	settings := models.Settings{
		IncludePolishHolidays: true,
		IncludeCustomHolidays: true,
		CustomHolidays: []models.CustomHoliday{
			{Date: "2025-12-24", Name: "Wigilia"},
			{Date: "2025-12-25", Name: "Firmowe Boże Narodzenie"},
			{Date: "2026-03-01", Name: "Poza zakresem"},
		},
	}

	got, err := HolidaysInRange("2025-12-20", "2026-01-06", settings)
	require.NoError(t, err)

	assert.Equal(t, []models.Holiday{
		{Date: "2025-12-24", Name: "Wigilia"},
		{Date: "2025-12-25", Name: "Firmowe Boże Narodzenie"},
		{Date: "2025-12-26", Name: "Boże Narodzenie (drugi dzień)"},
		{Date: "2026-01-01", Name: "Nowy Rok"},
		{Date: "2026-01-06", Name: "Święto Trzech Króli"},
	}, got)
}

func TestHolidaysInRange_FlagsAndEdges(t *testing.T) {
	got, err := HolidaysInRange("2025-01-01", "2025-12-31", models.Settings{})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = HolidaysInRange("2025-05-03", "2025-05-01", polishOnly())
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = HolidaysInRange("2025-05-01", "bad", polishOnly())
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, time.February)
	assert.Equal(t, "2024-02-01", first)
	assert.Equal(t, "2024-02-29", last)
}
