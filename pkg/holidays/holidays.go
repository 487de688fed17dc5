package holidays

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
)

// File - структура файла с праздниками организации. JSON тоже читается,
// потому что является подмножеством YAML.
type File struct {
	Year     int         `yaml:"year"`
	Holidays []Entry     `yaml:"holidays"`
	Months   []MonthDays `yaml:"months"`
}

// Entry - один праздник с полной датой
type Entry struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// MonthDays - краткая запись: дни месяца через запятую для года из File.Year
type MonthDays struct {
	Month int    `yaml:"month"`
	Days  string `yaml:"days"`
	Name  string `yaml:"name"`
}

const defaultName = "Dzień wolny"

// Load - читает и разбирает файл праздников
func Load(filePath string) ([]models.CustomHoliday, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read holidays file: %w", err)
	}

	return Parse(data)
}

// Parse - разбирает содержимое файла. Дубликаты по дате отбрасываются
// (первая запись побеждает), результат отсортирован по дате.
func Parse(data []byte) ([]models.CustomHoliday, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holidays file: %w", err)
	}

	seen := make(map[string]struct{})
	result := []models.CustomHoliday{}

	add := func(date, name string) {
		if _, ok := seen[date]; ok {
			return
		}
		seen[date] = struct{}{}
		if name == "" {
			name = defaultName
		}
		result = append(result, models.CustomHoliday{Date: date, Name: name})
	}

	for _, entry := range file.Holidays {
		t, err := calendar.ParseDate(strings.TrimSpace(entry.Date))
		if err != nil {
			return nil, err
		}
		add(calendar.FormatDate(t), strings.TrimSpace(entry.Name))
	}

	if len(file.Months) > 0 && file.Year == 0 {
		return nil, fmt.Errorf("months section requires year")
	}

	for _, monthData := range file.Months {
		if monthData.Month < 1 || monthData.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", monthData.Month)
		}

		for _, dayStr := range strings.Split(monthData.Days, ",") {
			// Убираем пометки переносов (+, *)
			dayStr = strings.TrimSpace(dayStr)
			dayStr = strings.TrimSuffix(dayStr, "+")
			dayStr = strings.TrimSuffix(dayStr, "*")

			if dayStr == "" {
				continue
			}

			day, err := strconv.Atoi(dayStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w",
					dayStr, monthData.Month, err)
			}

			date := time.Date(file.Year, time.Month(monthData.Month), day, 0, 0, 0, 0, time.UTC)
			if date.Day() != day {
				return nil, fmt.Errorf("day %d does not exist in month %d", day, monthData.Month)
			}

			add(calendar.FormatDate(date), strings.TrimSpace(monthData.Name))
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })

	return result, nil
}
