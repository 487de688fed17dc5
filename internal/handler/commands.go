package handler

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"worktime-bot/internal/models"
)

func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start", "help":
		h.sendHelpMessage(message)
	case "helpadmin":
		h.sendAdminHelpMessage(message)
	case "myprofile":
		h.showProfile(message)

	// Таймер
	case "go", "in":
		h.startTimer(message, args)
	case "pause":
		h.pauseTimer(message)
	case "resume":
		h.resumeTimer(message)
	case "stop", "out":
		h.stopTimer(message)
	case "status":
		h.timerStatus(message)
	case "task":
		h.updateTimerTask(message, args)
	case "overtime":
		h.toggleOvertime(message, args)
	case "live":
		h.liveStatus(ctx, message)

	// Итоги дня и сводки
	case "day":
		h.saveWorkday(message, args)
	case "summary":
		h.showSummary(message, args)
	case "report":
		h.showReport(message, args)
	case "checkday":
		h.checkDay(message, args)
	case "holidays":
		h.showHolidays(message, args)
	case "eligible":
		h.showEligible(message, args)

	// Планы и заявки
	case "plan":
		h.createPlan(message, args)
	case "unplan":
		h.deletePlan(message, args)
	case "plans":
		h.showPlans(message)
	case "request":
		h.submitRequest(message, args)
	case "requests":
		h.showMyRequests(message)
	case "send":
		h.changeRequestStatus(message, args, models.LeaveStatusSent)
	case "cancel":
		h.changeRequestStatus(message, args, models.LeaveStatusCancelled)

	// Администрирование
	case "pending":
		h.showPending(message)
	case "accept":
		h.changeRequestStatus(message, args, models.LeaveStatusAccepted)
	case "reject":
		h.changeRequestStatus(message, args, models.LeaveStatusRejected)
	case "allusers":
		h.showAllUsers(message)
	case "promote":
		h.setRole(message, args, models.RoleAdmin)
	case "demote":
		h.setRole(message, args, models.RoleClient)
	case "addholiday":
		h.addHoliday(message, args)
	case "delholiday":
		h.deleteHoliday(message, args)
	case "settings":
		h.updateSettings(message, args)
	case "team":
		h.showTeam(message, args)
	case "refresh":
		h.refreshSummaries(message)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.reply(message.Chat.ID, "❌ Неизвестная команда. Используйте /help для списка команд.")
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := `📋 Доступные команды:

⏱ Таймер:
/go [описание] - Начать работу
/pause - Перерыв
/resume - Продолжить после перерыва
/stop - Завершить сессию
/status - Текущее состояние таймера
/live - Живой статус таймера на 5 минут
/task описание - Изменить описание работы
/overtime on|off - Пометить сессию как сверхурочную

📅 Рабочие дни:
/day дата часы [доп_часы] - Внести итог дня
/checkday [дата] - Проверить, рабочий ли день
/holidays [год] - Праздники года
/eligible дата_начала дата_окончания - Рабочие дни в диапазоне
/summary [ГГГГ-ММ] - Сводка за месяц
/report [ГГГГ-ММ] - Подробный отчет с задачами

🏖️ Отпуска:
/plan дата - Запланировать отсутствие
/unplan дата - Удалить план
/plans - Мои активные планы
/request тип дата_начала дата_окончания [причина] - Подать заявку
    Типы: vacation, sick_leave, on_demand, unpaid, day_off, remote, business_trip
    Пример: /request vacation 01.07.2026 14.07.2026
/requests - Мои заявки
/send номер - Отправить заявку
/cancel номер - Отменить заявку

👤 Профиль:
/myprofile - Показать мой профиль
/help - Показать это сообщение

💡 Даты: ГГГГ-ММ-ДД, ДД.ММ.ГГГГ или ДД.ММ`

	h.reply(message.Chat.ID, text)
}

func (h *Handler) sendAdminHelpMessage(message *tgbotapi.Message) {
	if _, ok := h.requireAdmin(message); !ok {
		return
	}

	text := `👑 Команды администратора:

/pending - Заявки, ожидающие решения
/accept номер - Принять заявку
/reject номер - Отклонить заявку
/allusers - Все пользователи
/promote chat_id - Назначить администратором
/demote chat_id - Снять права администратора
/addholiday дата название - Добавить праздник организации
/delholiday дата - Удалить праздник организации
/settings [weekends|polish|custom on|off] - Настройки календаря
/team [ГГГГ-ММ] - Сводки всех пользователей
/refresh - Пересчитать сводки за текущий месяц`

	h.reply(message.Chat.ID, text)
}

func (h *Handler) showProfile(message *tgbotapi.Message) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	h.reply(message.Chat.ID, h.users.FormatUserInfo(user))
}
