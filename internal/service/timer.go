package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/leave"
	"worktime-bot/internal/models"
	"worktime-bot/internal/repository"
	"worktime-bot/internal/timer"
)

// StartOptions - метаданные новой сессии
type StartOptions struct {
	Description string
	TaskID      *uint
	IsOvertime  bool
}

// TimerStatus - текущее состояние таймера пользователя
type TimerStatus struct {
	State   timer.State
	Active  *models.ActiveTimerState
	Elapsed time.Duration
}

type userTracker struct {
	mu      sync.Mutex
	tracker *timer.Tracker
}

// TimerService проводит каждое действие таймера через хранилище.
// Трекер в памяти перед каждым действием восстанавливается из хранилища,
// а при ошибке записи откатывается к снимку.
type TimerService struct {
	repo      repository.TimerRepository
	workdays  repository.WorkdayEntryRepository
	requests  repository.LeaveRequestRepository
	settings  *SettingsService
	summaries *SummaryService
	clock     timer.Clock
	logger    *logrus.Logger

	mu       sync.Mutex
	trackers map[uint]*userTracker
}

func NewTimerService(
	repos *repository.Repositories,
	settings *SettingsService,
	summaries *SummaryService,
	clock timer.Clock,
	logger *logrus.Logger,
) *TimerService {
	if clock == nil {
		clock = time.Now
	}

	return &TimerService{
		repo:      repos.Timers,
		workdays:  repos.Workdays,
		requests:  repos.Requests,
		settings:  settings,
		summaries: summaries,
		clock:     clock,
		logger:    logger,
		trackers:  make(map[uint]*userTracker),
	}
}

// acquire возвращает заблокированный трекер пользователя, восстановленный из хранилища
func (s *TimerService) acquire(userID uint) (*userTracker, error) {
	s.mu.Lock()
	ut, ok := s.trackers[userID]
	if !ok {
		ut = &userTracker{tracker: timer.New(userID, s.clock)}
		s.trackers[userID] = ut
	}
	s.mu.Unlock()

	ut.mu.Lock()

	stored, err := s.repo.GetActive(userID)
	if err != nil {
		ut.mu.Unlock()
		return nil, err
	}
	ut.tracker.Restore(stored)

	return ut, nil
}

// Start запускает таймер. Блокировка даты возвращается как Decision.
func (s *TimerService) Start(userID uint, opts StartOptions) (leave.Decision, error) {
	ut, err := s.acquire(userID)
	if err != nil {
		return leave.Decision{}, err
	}
	defer ut.mu.Unlock()

	if ut.tracker.State() != timer.Idle {
		s.logger.WithField("user_id", userID).Warn("Timer start rejected: session already active")
		return leave.Decision{}, timer.ErrAlreadyActiveSession
	}

	today := calendar.DateOf(s.clock())

	var entries []models.WorkdayEntry
	entry, err := s.workdays.GetByUserAndDate(userID, today)
	if err != nil {
		return leave.Decision{}, err
	}
	if entry != nil {
		entries = append(entries, *entry)
	}

	requests, err := s.requests.GetAcceptedInRange(userID, today, today)
	if err != nil {
		return leave.Decision{}, err
	}

	settings, err := s.settings.Get()
	if err != nil {
		return leave.Decision{}, err
	}

	cp := ut.tracker.Checkpoint()
	decision, err := ut.tracker.Start(timer.StartRequest{
		Description:      opts.Description,
		TaskID:           opts.TaskID,
		IsOvertime:       opts.IsOvertime,
		WorkdayEntries:   entries,
		AcceptedRequests: requests,
		Settings:         settings,
	})
	if err != nil {
		return leave.Decision{}, err
	}
	if !decision.Allowed {
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"date":    today,
			"reason":  decision.Reason,
		}).Warn("Timer start blocked")
		return decision, nil
	}

	state, _ := ut.tracker.Active()
	if err := s.repo.CreateActive(&state); err != nil {
		ut.tracker.Rollback(cp)
		if errors.Is(err, repository.ErrAlreadyExists) {
			return leave.Decision{}, timer.ErrAlreadyActiveSession
		}
		return leave.Decision{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"is_overtime": opts.IsOvertime,
	}).Info("Timer started")

	return decision, nil
}

// Pause ставит таймер на паузу. Повторная пауза ничего не пишет.
func (s *TimerService) Pause(userID uint) error {
	return s.transition(userID, "pause", timer.OnBreak, (*timer.Tracker).Pause)
}

// Resume снимает таймер с паузы. Повторный вызов ничего не пишет.
func (s *TimerService) Resume(userID uint) error {
	return s.transition(userID, "resume", timer.Running, (*timer.Tracker).Resume)
}

func (s *TimerService) transition(userID uint, action string, target timer.State, apply func(*timer.Tracker) error) error {
	ut, err := s.acquire(userID)
	if err != nil {
		return err
	}
	defer ut.mu.Unlock()

	before := ut.tracker.State()
	cp := ut.tracker.Checkpoint()

	if err := apply(ut.tracker); err != nil {
		return err
	}
	if before == target {
		return nil
	}

	if err := s.persist(ut.tracker); err != nil {
		ut.tracker.Rollback(cp)
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"action":  action,
	}).Info("Timer state changed")

	return nil
}

func (s *TimerService) UpdateMeta(userID uint, update timer.MetaUpdate) error {
	ut, err := s.acquire(userID)
	if err != nil {
		return err
	}
	defer ut.mu.Unlock()

	cp := ut.tracker.Checkpoint()
	if err := ut.tracker.UpdateMeta(update); err != nil {
		return err
	}

	if err := s.persist(ut.tracker); err != nil {
		ut.tracker.Rollback(cp)
		return err
	}

	return nil
}

// Stop завершает сессию: запись сессии и удаление активного таймера
// выполняются одной транзакцией, сводка пересчитывается в фоне.
func (s *TimerService) Stop(userID uint) (*models.TimerSession, error) {
	ut, err := s.acquire(userID)
	if err != nil {
		return nil, err
	}
	defer ut.mu.Unlock()

	cp := ut.tracker.Checkpoint()
	session, err := ut.tracker.Stop()
	if err != nil {
		return nil, err
	}

	if err := s.repo.FinishSession(&session); err != nil {
		ut.tracker.Rollback(cp)
		return nil, err
	}

	s.summaries.RefreshAsync(userID, session.StartTime)

	s.logger.WithFields(logrus.Fields{
		"user_id":          userID,
		"duration_seconds": session.DurationSeconds,
	}).Info("Timer stopped")

	return &session, nil
}

func (s *TimerService) Status(userID uint) (*TimerStatus, error) {
	ut, err := s.acquire(userID)
	if err != nil {
		return nil, err
	}
	defer ut.mu.Unlock()

	status := &TimerStatus{
		State:   ut.tracker.State(),
		Elapsed: ut.tracker.Elapsed(),
	}
	if active, ok := ut.tracker.Active(); ok {
		status.Active = &active
	}

	return status, nil
}

// Watch периодически передает в fn состояние общего трекера пользователя,
// пока не отменен ctx. Пауза или остановка через сервис видны на следующем тике.
// В хранилище ничего не пишет.
func (s *TimerService) Watch(ctx context.Context, userID uint, interval time.Duration, fn func(timer.State, time.Duration)) error {
	ut, err := s.acquire(userID)
	if err != nil {
		return err
	}
	tracker := ut.tracker
	ut.mu.Unlock()

	tracker.Watch(ctx, interval, fn)

	return nil
}

func (s *TimerService) persist(t *timer.Tracker) error {
	state, ok := t.Active()
	if !ok {
		return timer.ErrNotActiveSession
	}
	return s.repo.UpdateActive(&state)
}

// FormatStatus форматирует состояние таймера для вывода
func (s *TimerService) FormatStatus(status *TimerStatus) string {
	if status.Active == nil {
		return "⏹ Таймер не запущен"
	}

	stateStr := "▶️ Идет работа"
	if status.State == timer.OnBreak {
		stateStr = "⏸ Перерыв"
	}

	result := fmt.Sprintf("%s\n\n🕒 Начало: %s\n⏳ Отработано: %s",
		stateStr,
		status.Active.StartTime.In(s.clock().Location()).Format("02.01.2006 15:04"),
		models.FormatSeconds(int64(status.Elapsed/time.Second)))

	if status.Active.IsOvertime {
		result += "\n➕ Сверхурочно"
	}
	if status.Active.WorkDescription != "" {
		result += fmt.Sprintf("\n📝 %s", status.Active.WorkDescription)
	}
	if status.Active.TaskID != nil {
		result += fmt.Sprintf("\n🔖 Задача #%d", *status.Active.TaskID)
	}

	return result
}

// FormatSession форматирует завершенную сессию
func (s *TimerService) FormatSession(session *models.TimerSession) string {
	loc := s.clock().Location()

	result := fmt.Sprintf("✅ Сессия завершена\n\n🕒 %s - %s\n⏳ Продолжительность: %s",
		session.StartTime.In(loc).Format("02.01.2006 15:04"),
		session.EndTime.In(loc).Format("15:04"),
		session.Duration())

	if session.IsOvertime {
		result += "\n➕ Сверхурочно"
	}
	if session.WorkDescription != "" {
		result += fmt.Sprintf("\n📝 %s", session.WorkDescription)
	}

	return result
}
