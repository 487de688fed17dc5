package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"worktime-bot/internal/leave"
	"worktime-bot/internal/models"
	"worktime-bot/internal/service"
	"worktime-bot/internal/timer"
)

var runningKeyboard = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⏸ Перерыв", "/pause"),
		tgbotapi.NewInlineKeyboardButtonData("⏹ Завершить", "/stop"),
	),
)

var breakKeyboard = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("▶️ Продолжить", "/resume"),
		tgbotapi.NewInlineKeyboardButtonData("⏹ Завершить", "/stop"),
	),
)

// blockedText - причина, по которой таймер не запущен
func blockedText(decision leave.Decision) string {
	switch decision.Reason {
	case leave.ReasonWorkdayAlreadyTotaled:
		return "⚠️ За сегодня уже внесен итог дня, таймер не запускается"
	case leave.ReasonWeekendBlocked:
		return "🛌 Сегодня выходной, таймер не запускается"
	case leave.ReasonHolidayBlocked:
		return fmt.Sprintf("🎉 Сегодня праздник: %s", decision.HolidayName)
	case leave.ReasonLeaveBlocked:
		return "🏖️ На сегодня принята заявка на отсутствие"
	}
	return "⚠️ Таймер сейчас запустить нельзя"
}

func (h *Handler) startTimer(message *tgbotapi.Message, args string) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	desc := strings.TrimSpace(args)

	decision, err := h.timers.Start(user.ID, service.StartOptions{Description: desc})
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}
	if !decision.Allowed {
		h.reply(message.Chat.ID, blockedText(decision))
		return
	}

	text := "▶️ Работа начата"
	if desc != "" {
		text += "\n📝 " + desc
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = runningKeyboard
	h.send(msg)
}

func (h *Handler) pauseTimer(message *tgbotapi.Message) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	if err := h.timers.Pause(user.ID); err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "⏸ Перерыв. Время не учитывается.")
	msg.ReplyMarkup = breakKeyboard
	h.send(msg)
}

func (h *Handler) resumeTimer(message *tgbotapi.Message) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	if err := h.timers.Resume(user.ID); err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "▶️ Работа продолжена")
	msg.ReplyMarkup = runningKeyboard
	h.send(msg)
}

func (h *Handler) stopTimer(message *tgbotapi.Message) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	session, err := h.timers.Stop(user.ID)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, h.timers.FormatSession(session))
}

func (h *Handler) timerStatus(message *tgbotapi.Message) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	status, err := h.timers.Status(user.ID)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, h.timers.FormatStatus(status))
	switch status.State {
	case timer.Running:
		msg.ReplyMarkup = runningKeyboard
	case timer.OnBreak:
		msg.ReplyMarkup = breakKeyboard
	}
	h.send(msg)
}

func (h *Handler) updateTimerTask(message *tgbotapi.Message, args string) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	desc := strings.TrimSpace(args)
	if desc == "" {
		h.reply(message.Chat.ID, "❌ Укажите описание: /task описание")
		return
	}

	if err := h.timers.UpdateMeta(user.ID, timer.MetaUpdate{Description: &desc}); err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, "📝 Описание обновлено: "+desc)
}

func (h *Handler) toggleOvertime(message *tgbotapi.Message, args string) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	var overtime bool
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "", "on":
		overtime = true
	case "off":
		overtime = false
	default:
		h.reply(message.Chat.ID, "❌ Используйте: /overtime on|off")
		return
	}

	if err := h.timers.UpdateMeta(user.ID, timer.MetaUpdate{IsOvertime: &overtime}); err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	if overtime {
		h.reply(message.Chat.ID, "➕ Сессия помечена как сверхурочная")
	} else {
		h.reply(message.Chat.ID, "➖ Отметка сверхурочных снята")
	}
}

// liveStatus отправляет статус и обновляет его, пока не истечет liveFor
func (h *Handler) liveStatus(ctx context.Context, message *tgbotapi.Message) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	status, err := h.timers.Status(user.ID)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}
	if status.Active == nil {
		h.reply(message.Chat.ID, h.timers.FormatStatus(status))
		return
	}

	sent, err := h.bot.Send(tgbotapi.NewMessage(message.Chat.ID, liveText(status.State, status.Elapsed)))
	if err != nil {
		h.logger.WithError(err).Warn("Failed to send live status")
		return
	}

	watchCtx, cancel := context.WithTimeout(ctx, h.liveFor)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer cancel()

		err := h.timers.Watch(watchCtx, user.ID, h.liveInterval, func(state timer.State, elapsed time.Duration) {
			h.send(tgbotapi.NewEditMessageText(message.Chat.ID, sent.MessageID, liveText(state, elapsed)))
			// Сессия завершена, обновлять больше нечего
			if state == timer.Idle || state == timer.Stopped {
				cancel()
			}
		})
		if err != nil {
			h.logger.WithError(err).Warn("Live status stopped")
		}
	}()
}

func liveText(state timer.State, elapsed time.Duration) string {
	icon := "▶️"
	switch state {
	case timer.OnBreak:
		icon = "⏸"
	case timer.Idle, timer.Stopped:
		return "⏹ Таймер не запущен"
	}
	return fmt.Sprintf("%s ⏳ %s", icon, models.FormatSeconds(int64(elapsed/time.Second)))
}
