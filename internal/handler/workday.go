package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
	"worktime-bot/internal/workday"
)

// Длинные списки дат обрезаются, чтобы ответ помещался в одно сообщение
const maxListedDates = 62

// saveWorkday: /day дата часы [доп_часы] [тип_отсутствия]
func (h *Handler) saveWorkday(message *tgbotapi.Message, args string) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 2 {
		h.reply(message.Chat.ID, "❌ Формат: /day дата часы [доп_часы] [тип_отсутствия]\nПример: /day 02.06.2025 8 1")
		return
	}

	date, err := h.parseDate(parts[0])
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	entry := models.WorkdayEntry{UserID: user.ID, Date: date}

	if entry.HoursWorked, err = parseHours(parts[1]); err != nil {
		h.reply(message.Chat.ID, "❌ Часы должны быть числом от 0 до 24")
		return
	}

	rest := parts[2:]
	if len(rest) > 0 {
		if additional, err := parseHours(rest[0]); err == nil {
			entry.AdditionalWorked = additional
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		entry.AbsenceType = strings.ToLower(rest[0])
		entry.Notes = strings.Join(rest[1:], " ")
	}

	saved, err := h.workdays.Upsert(entry)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	text := fmt.Sprintf("✅ Итог дня %s сохранен\n⏰ Отработано: %.1f ч", saved.Date, saved.HoursWorked)
	if saved.AdditionalWorked > 0 {
		text += fmt.Sprintf("\n➕ Переработка: %.1f ч", saved.AdditionalWorked)
	}
	if saved.AbsenceType != "" {
		text += "\n🚪 Отсутствие: " + saved.AbsenceType
	}

	h.reply(message.Chat.ID, text)
}

func parseHours(value string) (float64, error) {
	hours, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if hours < 0 || hours > 24 {
		return 0, fmt.Errorf("hours out of range: %v", hours)
	}
	return hours, nil
}

// parseMonth разбирает ГГГГ-ММ; пустая строка - текущий месяц
func (h *Handler) parseMonth(message *tgbotapi.Message, args string) (int, time.Month, bool) {
	now := h.clock()

	value := strings.TrimSpace(args)
	if value == "" {
		return now.Year(), now.Month(), true
	}

	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		h.reply(message.Chat.ID, fmt.Sprintf("❌ Укажите месяц в формате ГГГГ-ММ, например: /%s 2025-06", message.Command()))
		return 0, 0, false
	}

	return parsed.Year(), parsed.Month(), true
}

// showSummary: /summary [ГГГГ-ММ], сохраненная сводка
func (h *Handler) showSummary(message *tgbotapi.Message, args string) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	year, month, ok := h.parseMonth(message, args)
	if !ok {
		return
	}

	cached, err := h.summaries.Cached(user.ID, year, month)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, h.summaries.FormatCached(cached))
}

// showReport: /report [ГГГГ-ММ], пересчет с задачами из таймера
func (h *Handler) showReport(message *tgbotapi.Message, args string) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	year, month, ok := h.parseMonth(message, args)
	if !ok {
		return
	}

	report, err := h.summaries.Month(user.ID, year, month)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, h.summaries.FormatReport(report))
}

// checkDay: /checkday [дата]
func (h *Handler) checkDay(message *tgbotapi.Message, args string) {
	date := h.today()
	if strings.TrimSpace(args) != "" {
		parsed, err := h.parseDate(args)
		if err != nil {
			h.reply(message.Chat.ID, errorText(err))
			return
		}
		date = parsed
	}

	settings, err := h.settings.Get()
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	holiday, err := calendar.IsHoliday(date, settings)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}
	weekend, err := workday.IsWeekend(date)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}
	eligible, err := workday.IsEligible(date, settings)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s\n", date)
	if holiday.IsPresent() {
		fmt.Fprintf(&b, "🎉 Праздник: %s\n", holiday.MustGet().Name)
	}
	if weekend {
		b.WriteString("🛌 Выходной день\n")
	}
	if eligible {
		b.WriteString("✅ Рабочий день")
	} else {
		b.WriteString("❌ Нерабочий день")
	}

	h.reply(message.Chat.ID, b.String())
}

// showHolidays: /holidays [год]
func (h *Handler) showHolidays(message *tgbotapi.Message, args string) {
	year := h.clock().Year()
	if value := strings.TrimSpace(args); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1583 || parsed > 9999 {
			h.reply(message.Chat.ID, "❌ Укажите год, например: /holidays 2026")
			return
		}
		year = parsed
	}

	settings, err := h.settings.Get()
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	list, err := calendar.HolidaysInRange(fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year), settings)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	if len(list) == 0 {
		h.reply(message.Chat.ID, fmt.Sprintf("📭 В %d году праздников нет", year))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎉 Праздники %d:\n\n", year)
	for _, holiday := range list {
		fmt.Fprintf(&b, "• %s - %s\n", holiday.Date, holiday.Name)
	}

	h.reply(message.Chat.ID, strings.TrimRight(b.String(), "\n"))
}

// showEligible: /eligible начало конец
func (h *Handler) showEligible(message *tgbotapi.Message, args string) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(message.Chat.ID, "❌ Формат: /eligible дата_начала дата_окончания")
		return
	}

	start, err := h.parseDate(parts[0])
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}
	end, err := h.parseDate(parts[1])
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	settings, err := h.settings.Get()
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	dates, err := workday.EligibleDates(start, end, settings)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s - %s: рабочих дней %d\n", start, end, len(dates))
	for i, date := range dates {
		if i == maxListedDates {
			fmt.Fprintf(&b, "... и еще %d\n", len(dates)-maxListedDates)
			break
		}
		b.WriteString("• " + date + "\n")
	}

	h.reply(message.Chat.ID, strings.TrimRight(b.String(), "\n"))
}
