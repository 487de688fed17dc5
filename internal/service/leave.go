package service

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/leave"
	"worktime-bot/internal/models"
	"worktime-bot/internal/repository"
	"worktime-bot/internal/summary"
	"worktime-bot/internal/workday"
)

// Допустимые переходы статусов заявки
var allowedTransitions = map[string][]string{
	models.LeaveStatusPending: {
		models.LeaveStatusAccepted,
		models.LeaveStatusRejected,
		models.LeaveStatusSent,
		models.LeaveStatusCancelled,
	},
	models.LeaveStatusSent: {
		models.LeaveStatusAccepted,
		models.LeaveStatusRejected,
		models.LeaveStatusCancelled,
	},
	models.LeaveStatusAccepted: {
		models.LeaveStatusCancelled,
	},
}

func canTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type LeaveService struct {
	plans     repository.LeavePlanRepository
	requests  repository.LeaveRequestRepository
	users     repository.UserRepository
	settings  *SettingsService
	summaries *SummaryService
	labels    summary.Labels
	logger    *logrus.Logger
}

func NewLeaveService(
	repos *repository.Repositories,
	settings *SettingsService,
	summaries *SummaryService,
	labels summary.Labels,
	logger *logrus.Logger,
) *LeaveService {
	if labels == nil {
		labels = summary.DefaultLabels
	}

	return &LeaveService{
		plans:     repos.Plans,
		requests:  repos.Requests,
		users:     repos.Users,
		settings:  settings,
		summaries: summaries,
		labels:    labels,
		logger:    logger,
	}
}

// CreatePlan создает план на дату, если дата рабочая
func (s *LeaveService) CreatePlan(userID uint, date string) (*models.LeavePlan, error) {
	day, err := calendar.ParseDate(date)
	if err != nil {
		return nil, err
	}
	date = calendar.FormatDate(day)

	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	ok, err := leave.CanPlanDate(date, settings)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"date":    date,
		}).Warn("Leave plan rejected: date is not plannable")
		return nil, fmt.Errorf("%w: %s", ErrDateNotPlannable, date)
	}

	plan := &models.LeavePlan{UserID: userID, Date: date}
	if err := s.plans.Create(plan); err != nil {
		return nil, err
	}

	return plan, nil
}

func (s *LeaveService) DeletePlan(userID uint, date string) error {
	if _, err := calendar.ParseDate(date); err != nil {
		return err
	}
	return s.plans.Delete(userID, date)
}

// ActivePlans - даты планов, не покрытые принятыми заявками.
// Сами записи планов не удаляются.
func (s *LeaveService) ActivePlans(userID uint) ([]string, error) {
	plans, err := s.plans.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	accepted, err := s.requests.GetAccepted(userID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(plans))
	for _, p := range plans {
		dates = append(dates, p.Date)
	}

	return leave.ResolveActivePlans(dates, accepted, settings)
}

// SubmitRequest создает заявку в статусе pending
func (s *LeaveService) SubmitRequest(userID uint, leaveType, startDate, endDate, reason string) (*models.LeaveRequest, error) {
	leaveType = strings.TrimSpace(leaveType)
	if leaveType == "" {
		return nil, ErrUnknownLeaveType
	}

	start, err := calendar.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := calendar.ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	request := &models.LeaveRequest{
		UserID:    userID,
		StartDate: calendar.FormatDate(start),
		EndDate:   calendar.FormatDate(end),
		Type:      leaveType,
		Status:    models.LeaveStatusPending,
		Reason:    strings.TrimSpace(reason),
	}

	if err := s.requests.Create(request); err != nil {
		return nil, err
	}

	return request, nil
}

// SetRequestStatus меняет статус заявки. Принять или отклонить может только
// администратор, остальные переходы доступны владельцу заявки.
func (s *LeaveService) SetRequestStatus(actorID, requestID uint, status string) (*models.LeaveRequest, error) {
	request, err := s.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, repository.ErrNotFound
	}

	actor, err := s.users.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrUserNotFound
	}

	adminOnly := status == models.LeaveStatusAccepted || status == models.LeaveStatusRejected
	if (adminOnly || actor.ID != request.UserID) && !actor.IsAdmin() {
		s.logger.WithFields(logrus.Fields{
			"actor_id":   actorID,
			"request_id": requestID,
			"status":     status,
		}).Warn("Leave request status change forbidden")
		return nil, ErrForbidden
	}

	if !canTransition(request.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, request.Status, status)
	}

	wasAccepted := request.IsAccepted()
	if err := s.requests.UpdateStatus(request.ID, status); err != nil {
		return nil, err
	}
	request.Status = status

	// Принятые заявки влияют на сводку, кэш затронутых месяцев сбрасываем
	if wasAccepted || request.IsAccepted() {
		if err := s.summaries.InvalidateRange(request.UserID, request.StartDate, request.EndDate); err != nil {
			s.logger.WithError(err).Error("Failed to invalidate monthly summaries")
		}
	}

	return request, nil
}

// LeaveDays - количество рабочих дней заявки
func (s *LeaveService) LeaveDays(request *models.LeaveRequest) (int, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return 0, err
	}
	return workday.Count(request.StartDate, request.EndDate, settings)
}

func (s *LeaveService) UserRequests(userID uint) ([]models.LeaveRequest, error) {
	return s.requests.GetByUserID(userID)
}

// AwaitingDecision - заявки, ожидающие решения администратора
func (s *LeaveService) AwaitingDecision() ([]models.LeaveRequest, error) {
	pending, err := s.requests.GetByStatus(models.LeaveStatusPending)
	if err != nil {
		return nil, err
	}
	sent, err := s.requests.GetByStatus(models.LeaveStatusSent)
	if err != nil {
		return nil, err
	}
	return append(pending, sent...), nil
}

// FormatRequest форматирует заявку для вывода
func (s *LeaveService) FormatRequest(request *models.LeaveRequest) string {
	statusEmoji := map[string]string{
		models.LeaveStatusPending:   "🕓",
		models.LeaveStatusSent:      "📨",
		models.LeaveStatusAccepted:  "✅",
		models.LeaveStatusRejected:  "❌",
		models.LeaveStatusCancelled: "🚫",
	}[request.Status]

	line := fmt.Sprintf("%s #%d %s: %s - %s", statusEmoji, request.ID, s.labels.Label(request.Type),
		request.StartDate, request.EndDate)

	if days, err := s.LeaveDays(request); err == nil {
		line += fmt.Sprintf(" (%d раб. дн.)", days)
	}
	if request.Reason != "" {
		line += fmt.Sprintf("\n   📝 %s", request.Reason)
	}

	return line
}

// FormatRequestList форматирует список заявок
func (s *LeaveService) FormatRequestList(requests []models.LeaveRequest) string {
	if len(requests) == 0 {
		return "📭 Заявок пока нет"
	}

	var b strings.Builder
	b.WriteString("📋 Заявки:\n\n")
	for i := range requests {
		b.WriteString(s.FormatRequest(&requests[i]))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
