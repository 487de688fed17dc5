package handler

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"worktime-bot/internal/models"
)

var knownLeaveTypes = map[string]bool{
	models.LeaveTypeVacation:     true,
	models.LeaveTypeSickLeave:    true,
	models.LeaveTypeOnDemand:     true,
	models.LeaveTypeUnpaid:       true,
	models.LeaveTypeDayOff:       true,
	models.LeaveTypeRemote:       true,
	models.LeaveTypeBusinessTrip: true,
}

var statusNames = map[string]string{
	models.LeaveStatusPending:   "ожидает",
	models.LeaveStatusSent:      "отправлена",
	models.LeaveStatusAccepted:  "принята",
	models.LeaveStatusRejected:  "отклонена",
	models.LeaveStatusCancelled: "отменена",
}

func (h *Handler) createPlan(message *tgbotapi.Message, args string) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	if strings.TrimSpace(args) == "" {
		h.reply(message.Chat.ID, "❌ Укажите дату: /plan 24.12.2026")
		return
	}

	date, err := h.parseDate(args)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	plan, err := h.leaves.CreatePlan(user.ID, date)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf("📌 План на %s сохранен", plan.Date))
}

func (h *Handler) deletePlan(message *tgbotapi.Message, args string) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	date, err := h.parseDate(args)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	if err := h.leaves.DeletePlan(user.ID, date); err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf("🗑 План на %s удален", date))
}

func (h *Handler) showPlans(message *tgbotapi.Message) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	dates, err := h.leaves.ActivePlans(user.ID)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	if len(dates) == 0 {
		h.reply(message.Chat.ID, "📭 Активных планов нет")
		return
	}

	var b strings.Builder
	b.WriteString("📌 Активные планы:\n")
	for _, date := range dates {
		b.WriteString("• " + date + "\n")
	}

	h.reply(message.Chat.ID, strings.TrimRight(b.String(), "\n"))
}

// submitRequest: /request тип начало конец [причина]
func (h *Handler) submitRequest(message *tgbotapi.Message, args string) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 3 {
		h.reply(message.Chat.ID, "❌ Формат: /request тип дата_начала дата_окончания [причина]\nПример: /request vacation 01.07.2026 14.07.2026")
		return
	}

	leaveType := strings.ToLower(parts[0])
	if !knownLeaveTypes[leaveType] {
		h.reply(message.Chat.ID, "❌ Неизвестный тип. Доступны: vacation, sick_leave, on_demand, unpaid, day_off, remote, business_trip")
		return
	}

	start, err := h.parseDate(parts[1])
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}
	end, err := h.parseDate(parts[2])
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	request, err := h.leaves.SubmitRequest(user.ID, leaveType, start, end, strings.Join(parts[3:], " "))
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"request_id": request.ID,
		"type":       leaveType,
	}).Info("Leave request submitted")

	msg := tgbotapi.NewMessage(message.Chat.ID, "✅ Заявка создана\n\n"+h.leaves.FormatRequest(request))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📨 Отправить", fmt.Sprintf("/send %d", request.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🚫 Отменить", fmt.Sprintf("/cancel %d", request.ID)),
		),
	)
	h.send(msg)
}

func (h *Handler) showMyRequests(message *tgbotapi.Message) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	requests, err := h.leaves.UserRequests(user.ID)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, h.leaves.FormatRequestList(requests))
}

// changeRequestStatus обслуживает /send, /cancel, /accept и /reject
func (h *Handler) changeRequestStatus(message *tgbotapi.Message, args, status string) {
	user, ok := h.currentUser(message)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(args), "#"), 10, 64)
	if err != nil || id == 0 {
		h.reply(message.Chat.ID, "❌ Укажите номер заявки, например: /"+message.Command()+" 12")
		return
	}

	request, err := h.leaves.SetRequestStatus(user.ID, uint(id), status)
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"actor_id":   user.ID,
		"request_id": request.ID,
		"status":     status,
	}).Info("Leave request status changed")

	h.reply(message.Chat.ID, fmt.Sprintf("✅ Заявка #%d %s", request.ID, statusNames[request.Status]))

	switch status {
	case models.LeaveStatusSent:
		h.notifyAdmins(user, request)
	case models.LeaveStatusAccepted, models.LeaveStatusRejected:
		h.notifyOwner(user, request)
	}
}

// notifyAdmins отправляет администраторам заявку с кнопками решения
func (h *Handler) notifyAdmins(author *models.User, request *models.LeaveRequest) {
	admins, err := h.users.GetAdmins()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load admins")
		return
	}

	text := fmt.Sprintf("📨 Новая заявка от %s\n\n%s", author.DisplayName(), h.leaves.FormatRequest(request))
	for _, admin := range admins {
		if admin.ID == author.ID {
			continue
		}

		msg := tgbotapi.NewMessage(admin.ChatID, text)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Принять", fmt.Sprintf("/accept %d", request.ID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", fmt.Sprintf("/reject %d", request.ID)),
			),
		)
		h.send(msg)
	}
}

// notifyOwner сообщает автору заявки о решении
func (h *Handler) notifyOwner(actor *models.User, request *models.LeaveRequest) {
	if actor.ID == request.UserID {
		return
	}

	owner, err := h.users.GetUserByID(request.UserID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", request.UserID).Error("Failed to load request owner")
		return
	}

	h.reply(owner.ChatID, fmt.Sprintf("🔔 Ваша заявка %s\n\n%s", statusNames[request.Status], h.leaves.FormatRequest(request)))
}

func (h *Handler) showPending(message *tgbotapi.Message) {
	if _, ok := h.requireAdmin(message); !ok {
		return
	}

	requests, err := h.leaves.AwaitingDecision()
	if err != nil {
		h.reply(message.Chat.ID, errorText(err))
		return
	}

	h.reply(message.Chat.ID, h.leaves.FormatRequestList(requests))
}
