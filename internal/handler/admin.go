package handler

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"worktime-bot/internal/models"
	"worktime-bot/internal/service"
)

func (h *Handler) showAllUsers(message *tgbotapi.Message) {
	if _, ok := h.requireAdmin(message); !ok {
		return
	}

	text, err := h.users.FormatAllUsers()
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, text)
}

func (h *Handler) setRole(message *tgbotapi.Message, args string, role models.Role) {
	if _, ok := h.requireAdmin(message); !ok {
		return
	}

	targetChatID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Укажите chat_id пользователя, например: /"+message.Command()+" 123456789")
		return
	}

	if err := h.users.UpdateRole(message.Chat.ID, targetChatID, role); err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf("✅ Роль пользователя %d: %s", targetChatID, role))

	if role == models.RoleAdmin {
		h.reply(targetChatID, "👑 Вам выданы права администратора. Команды: /helpadmin")
	}
}

// addHoliday: /addholiday дата название
func (h *Handler) addHoliday(message *tgbotapi.Message, args string) {
	admin, ok := h.requireAdmin(message)
	if !ok {
		return
	}

	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		h.reply(message.Chat.ID, "❌ Формат: /addholiday дата название")
		return
	}

	date, err := h.parseDate(parts[0])
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	if err := h.settings.AddCustomHoliday(date, parts[1]); err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id": admin.ID,
		"date":     date,
	}).Info("Custom holiday added")

	h.reply(message.Chat.ID, fmt.Sprintf("🎉 Праздник %s добавлен", date))
}

func (h *Handler) deleteHoliday(message *tgbotapi.Message, args string) {
	if _, ok := h.requireAdmin(message); !ok {
		return
	}

	date, err := h.parseDate(args)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	if err := h.settings.RemoveCustomHoliday(date); err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf("🗑 Праздник %s удален", date))
}

// updateSettings: /settings [weekends|polish|custom on|off]
func (h *Handler) updateSettings(message *tgbotapi.Message, args string) {
	if _, ok := h.requireAdmin(message); !ok {
		return
	}

	parts := strings.Fields(strings.ToLower(args))
	if len(parts) == 0 {
		settings, err := h.settings.Get()
		if err != nil {
			h.reply(message.Chat.ID, errorText(err))
			return
		}
		h.reply(message.Chat.ID, formatSettings(settings))
		return
	}

	if len(parts) != 2 || (parts[1] != "on" && parts[1] != "off") {
		h.reply(message.Chat.ID, "❌ Формат: /settings weekends|polish|custom on|off")
		return
	}

	value := parts[1] == "on"
	var update service.SettingsUpdate
	switch parts[0] {
	case "weekends":
		update.WorkOnWeekends = &value
	case "polish":
		update.IncludePolishHolidays = &value
	case "custom":
		update.IncludeCustomHolidays = &value
	default:
		h.reply(message.Chat.ID, "❌ Неизвестная настройка. Доступны: weekends, polish, custom")
		return
	}

	settings, err := h.settings.Update(update)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, "✅ Настройки обновлены\n\n"+formatSettings(settings))
}

func formatSettings(settings models.Settings) string {
	flag := func(v bool) string {
		if v {
			return "✅"
		}
		return "❌"
	}

	return fmt.Sprintf("⚙️ Настройки календаря:\n\n%s Работа в выходные (weekends)\n%s Государственные праздники (polish)\n%s Праздники организации (custom): %d",
		flag(settings.WorkOnWeekends),
		flag(settings.IncludePolishHolidays),
		flag(settings.IncludeCustomHolidays),
		len(settings.CustomHolidays))
}

func (h *Handler) refreshSummaries(message *tgbotapi.Message) {
	if _, ok := h.requireAdmin(message); !ok {
		return
	}

	now := h.clock()
	refreshed, err := h.summaries.RefreshAll(now.Year(), now.Month())
	if err != nil {
		h.logger.WithError(err).Error("Failed to refresh monthly summaries")
		h.reply(message.Chat.ID, fmt.Sprintf("⚠️ Пересчитано сводок: %d, с ошибками: %v", refreshed, err))
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf("🔄 Пересчитано сводок: %d", refreshed))
}

// showTeam: /team [ГГГГ-ММ]
func (h *Handler) showTeam(message *tgbotapi.Message, args string) {
	if _, ok := h.requireAdmin(message); !ok {
		return
	}

	year, month, ok := h.parseMonth(message, args)
	if !ok {
		return
	}

	rows, err := h.summaries.Team(year, month)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, h.summaries.FormatTeam(year, month, rows))
}
