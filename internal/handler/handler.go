package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
	"worktime-bot/internal/repository"
	"worktime-bot/internal/service"
	"worktime-bot/internal/timer"
)

// Sender - часть API бота, которой пользуется обработчик
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Services - сервисы, с которыми работает обработчик
type Services struct {
	Users     *service.UserService
	Settings  *service.SettingsService
	Leaves    *service.LeaveService
	Workdays  *service.WorkdayService
	Timers    *service.TimerService
	Summaries *service.SummaryService
}

type Handler struct {
	bot       Sender
	users     *service.UserService
	settings  *service.SettingsService
	leaves    *service.LeaveService
	workdays  *service.WorkdayService
	timers    *service.TimerService
	summaries *service.SummaryService
	clock     timer.Clock
	logger    *logrus.Logger

	// Время жизни живого статуса таймера (/live)
	liveFor      time.Duration
	liveInterval time.Duration

	wg sync.WaitGroup
}

func NewHandler(bot Sender, services Services, clock timer.Clock, logger *logrus.Logger) *Handler {
	if clock == nil {
		clock = time.Now
	}

	return &Handler{
		bot:          bot,
		users:        services.Users,
		settings:     services.Settings,
		leaves:       services.Leaves,
		workdays:     services.Workdays,
		timers:       services.Timers,
		summaries:    services.Summaries,
		clock:        clock,
		logger:       logger,
		liveFor:      5 * time.Minute,
		liveInterval: 15 * time.Second,
	}
}

// HandleUpdates обрабатывает обновления до закрытия канала или отмены ctx
func (h *Handler) HandleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			h.wg.Wait()
			return
		case update, ok := <-updates:
			if !ok {
				h.wg.Wait()
				return
			}
			h.HandleUpdate(ctx, update)
		}
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	// Обработка callback query (для inline кнопок)
	if update.CallbackQuery != nil {
		h.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	h.handleMessage(ctx, update.Message)
}

func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"text":    message.Text,
	}).Debug("Message received")

	if !message.IsCommand() {
		h.reply(message.Chat.ID, "❓ Я понимаю только команды. Используйте /help для списка команд.")
		return
	}

	h.handleCommand(ctx, message)
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.From == nil {
		return
	}

	chatID := callback.Message.Chat.ID

	// Удаляем клавиатуру
	editMsg := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup())
	h.request(editMsg)

	// Создаем сообщение с командой от имени нажавшего кнопку
	command := strings.SplitN(callback.Data, " ", 2)[0]
	fakeMessage := &tgbotapi.Message{
		MessageID: callback.Message.MessageID,
		Chat:      callback.Message.Chat,
		From:      callback.From,
		Text:      callback.Data,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}},
	}
	h.handleCommand(ctx, fakeMessage)

	// Отвечаем на callback (убираем "часики" у кнопки)
	h.request(tgbotapi.NewCallback(callback.ID, ""))
}

// currentUser возвращает пользователя отправителя, регистрируя его при первом обращении
func (h *Handler) currentUser(message *tgbotapi.Message) (*models.User, bool) {
	var username, firstName, lastName string
	if message.From != nil {
		username, firstName, lastName = message.From.UserName, message.From.FirstName, message.From.LastName
	}

	user, err := h.users.Register(message.Chat.ID, username, firstName, lastName)
	if err != nil {
		h.logger.WithError(err).WithField("chat_id", message.Chat.ID).Error("Failed to register user")
		h.reply(message.Chat.ID, "❌ Ошибка получения профиля: "+err.Error())
		return nil, false
	}

	return user, true
}

// requireAdmin отвечает отказом, если отправитель не администратор
func (h *Handler) requireAdmin(message *tgbotapi.Message) (*models.User, bool) {
	user, ok := h.currentUser(message)
	if !ok {
		return nil, false
	}

	if !user.IsAdmin() {
		h.reply(message.Chat.ID, "❌ Доступ запрещен. Эта команда только для администраторов.")
		return nil, false
	}

	return user, true
}

func (h *Handler) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.WithError(err).Warn("Failed to send telegram message")
	}
}

// request - вызовы API, которые не возвращают сообщение
func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.WithError(err).Warn("Failed to call telegram API")
	}
}

// today - текущая дата в часовом поясе часов бота
func (h *Handler) today() string {
	return calendar.DateOf(h.clock())
}

// parseDate принимает ГГГГ-ММ-ДД, ДД.ММ.ГГГГ или ДД.ММ (текущий год)
func (h *Handler) parseDate(value string) (string, error) {
	value = strings.TrimSpace(value)

	if day, err := calendar.ParseDate(value); err == nil {
		return calendar.FormatDate(day), nil
	}

	if day, err := time.Parse("02.01.2006", value); err == nil {
		return calendar.FormatDate(day), nil
	}

	if day, err := time.Parse("02.01", value); err == nil {
		full := time.Date(h.clock().Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		// time.Date нормализует 29.02 невисокосного года в 1 марта
		if full.Month() == day.Month() {
			return calendar.FormatDate(full), nil
		}
	}

	return "", fmt.Errorf("%w: %q", calendar.ErrInvalidDateFormat, value)
}

// errorText переводит ошибки сервисов в сообщения для пользователя
func errorText(err error) string {
	switch {
	case errors.Is(err, calendar.ErrInvalidDateFormat):
		return "❌ Неверный формат даты. Используйте ГГГГ-ММ-ДД или ДД.ММ.ГГГГ"
	case errors.Is(err, timer.ErrAlreadyActiveSession):
		return "⚠️ У вас уже есть активная сессия"
	case errors.Is(err, timer.ErrNotActiveSession):
		return "⚠️ Нет активной сессии. Начните работу командой /go"
	case errors.Is(err, service.ErrForbidden):
		return "❌ Доступ запрещен"
	case errors.Is(err, service.ErrInvalidStatusTransition):
		return "❌ Нельзя перевести заявку в этот статус"
	case errors.Is(err, service.ErrDateNotPlannable):
		return "❌ На выходной или праздник план не ставится"
	case errors.Is(err, service.ErrInvalidRange):
		return "❌ Дата начала позже даты окончания"
	case errors.Is(err, service.ErrUnknownLeaveType):
		return "❌ Укажите тип отсутствия"
	case errors.Is(err, service.ErrUserNotFound):
		return "❌ Пользователь не найден"
	case errors.Is(err, repository.ErrNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, repository.ErrAlreadyExists):
		return "⚠️ Такая запись уже существует"
	case errors.Is(err, repository.ErrInvalidData):
		return "❌ Некорректные данные"
	}
	return "❌ Ошибка: " + err.Error()
}
