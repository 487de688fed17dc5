package calendar

import (
	"sort"
	"sync"
	"time"

	"github.com/samber/mo"
	"worktime-bot/internal/models"
)

type fixedHoliday struct {
	month time.Month
	day   int
	name  string
}

// Польские праздники с фиксированной датой
var fixedHolidays = []fixedHoliday{
	{time.January, 1, "Nowy Rok"},
	{time.January, 6, "Święto Trzech Króli"},
	{time.May, 1, "Święto Pracy"},
	{time.May, 3, "Święto Konstytucji 3 Maja"},
	{time.August, 15, "Wniebowzięcie Najświętszej Maryi Panny"},
	{time.November, 1, "Wszystkich Świętych"},
	{time.November, 11, "Narodowe Święto Niepodległości"},
	{time.December, 25, "Boże Narodzenie (pierwszy dzień)"},
	{time.December, 26, "Boże Narodzenie (drugi dzień)"},
}

// Смещения подвижных праздников от Пасхи в днях
const (
	easterMondayOffset  = 1
	pentecostOffset     = 49
	corpusChristiOffset = 60
)

var yearCache sync.Map // int -> []models.Holiday

// FixedHolidaysFor материализует таблицу фиксированных праздников на год
func FixedHolidaysFor(year int) []models.Holiday {
	result := make([]models.Holiday, 0, len(fixedHolidays))
	for _, fh := range fixedHolidays {
		date := time.Date(year, fh.month, fh.day, 0, 0, 0, 0, time.UTC)
		result = append(result, models.Holiday{Date: FormatDate(date), Name: fh.name})
	}
	return result
}

// ComputeEaster вычисляет дату Пасхи (григорианский календарь, алгоритм Meeus/Jones/Butcher)
func ComputeEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// MovableHolidaysFor возвращает праздники, зависящие от Пасхи
func MovableHolidaysFor(year int) []models.Holiday {
	easter := ComputeEaster(year)
	return []models.Holiday{
		{Date: FormatDate(easter), Name: "Wielkanoc"},
		{Date: FormatDate(easter.AddDate(0, 0, easterMondayOffset)), Name: "Poniedziałek Wielkanocny"},
		{Date: FormatDate(easter.AddDate(0, 0, pentecostOffset)), Name: "Zielone Świątki"},
		{Date: FormatDate(easter.AddDate(0, 0, corpusChristiOffset)), Name: "Boże Ciało"},
	}
}

// HolidaysForYear - все государственные праздники года, по возрастанию даты
func HolidaysForYear(year int) []models.Holiday {
	if cached, ok := yearCache.Load(year); ok {
		return cloneHolidays(cached.([]models.Holiday))
	}

	result := append(FixedHolidaysFor(year), MovableHolidaysFor(year)...)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	yearCache.Store(year, result)
	return cloneHolidays(result)
}

// IsHoliday проверяет дату. Пользовательские праздники имеют приоритет
// и проверяются даже при выключенных государственных.
func IsHoliday(date string, settings models.Settings) (mo.Option[models.Holiday], error) {
	day, err := ParseDate(date)
	if err != nil {
		return mo.None[models.Holiday](), err
	}
	return isHoliday(day, settings), nil
}

// isHoliday - вариант для уже разобранной даты, используется при обходе диапазонов
func isHoliday(day time.Time, settings models.Settings) mo.Option[models.Holiday] {
	iso := FormatDate(day)

	if settings.IncludeCustomHolidays {
		for _, ch := range settings.CustomHolidays {
			if ch.Date == iso {
				return mo.Some(models.Holiday{Date: ch.Date, Name: ch.Name})
			}
		}
	}

	if settings.IncludePolishHolidays {
		for _, h := range HolidaysForYear(day.Year()) {
			if h.Date == iso {
				return mo.Some(h)
			}
		}
	}

	return mo.None[models.Holiday]()
}

// IsHolidayTime - то же, что IsHoliday, для значения time.Time
func IsHolidayTime(day time.Time, settings models.Settings) mo.Option[models.Holiday] {
	return isHoliday(time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC), settings)
}

// HolidaysInRange собирает праздники в закрытом диапазоне [start, end].
// При совпадении дат побеждает первый: пользовательские идут раньше государственных.
func HolidaysInRange(start, end string, settings models.Settings) ([]models.Holiday, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, err
	}

	result := []models.Holiday{}
	if to.Before(from) {
		return result, nil
	}

	lo, hi := FormatDate(from), FormatDate(to)
	seen := make(map[string]struct{})

	for year := from.Year(); year <= to.Year(); year++ {
		var candidates []models.Holiday

		if settings.IncludeCustomHolidays {
			for _, ch := range settings.CustomHolidays {
				if d, err := ParseDate(ch.Date); err == nil && d.Year() == year {
					candidates = append(candidates, models.Holiday{Date: ch.Date, Name: ch.Name})
				}
			}
		}
		if settings.IncludePolishHolidays {
			candidates = append(candidates, HolidaysForYear(year)...)
		}

		for _, h := range candidates {
			if h.Date < lo || h.Date > hi {
				continue
			}
			if _, dup := seen[h.Date]; dup {
				continue
			}
			seen[h.Date] = struct{}{}
			result = append(result, h)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result, nil
}

func cloneHolidays(in []models.Holiday) []models.Holiday {
	out := make([]models.Holiday, len(in))
	copy(out, in)
	return out
}
