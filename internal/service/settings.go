package service

import (
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
	"worktime-bot/internal/repository"
	"worktime-bot/pkg/holidays"
)

// SettingsUpdate - частичное обновление флагов; nil означает "не менять"
type SettingsUpdate struct {
	WorkOnWeekends        *bool
	IncludePolishHolidays *bool
	IncludeCustomHolidays *bool
}

// SettingsService отдает кэшированный снимок настроек. Снимки - копии,
// поэтому вызывающий не может изменить кэш.
type SettingsService struct {
	repo   repository.SettingsRepository
	logger *logrus.Logger

	mu       sync.RWMutex
	cached   *models.Settings
	onChange []func()
}

func NewSettingsService(repo repository.SettingsRepository, logger *logrus.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// OnChange регистрирует fn, вызываемую после каждого изменения настроек или праздников
func (s *SettingsService) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Init создает строку настроек из defaults, если ее еще нет
func (s *SettingsService) Init(defaults models.Settings) error {
	existing, err := s.repo.Get()
	if err != nil {
		return err
	}

	if existing == nil {
		row := defaults
		row.CustomHolidays = nil
		if err := s.repo.Save(&row); err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"work_on_weekends":        row.WorkOnWeekends,
			"include_polish_holidays": row.IncludePolishHolidays,
			"include_custom_holidays": row.IncludeCustomHolidays,
		}).Info("Settings initialized with defaults")
	}

	s.invalidate()
	return nil
}

func (s *SettingsService) Get() (models.Settings, error) {
	s.mu.RLock()
	if s.cached != nil {
		snapshot := s.cached.Clone()
		s.mu.RUnlock()
		return snapshot, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil {
		loaded, err := s.repo.Get()
		if err != nil {
			return models.Settings{}, err
		}
		if loaded == nil {
			loaded = &models.Settings{}
		}
		s.cached = loaded
		s.logger.WithField("custom_holidays", len(loaded.CustomHolidays)).Debug("Settings loaded")
	}

	return s.cached.Clone(), nil
}

func (s *SettingsService) Update(update SettingsUpdate) (models.Settings, error) {
	current, err := s.Get()
	if err != nil {
		return models.Settings{}, err
	}

	if update.WorkOnWeekends != nil {
		current.WorkOnWeekends = *update.WorkOnWeekends
	}
	if update.IncludePolishHolidays != nil {
		current.IncludePolishHolidays = *update.IncludePolishHolidays
	}
	if update.IncludeCustomHolidays != nil {
		current.IncludeCustomHolidays = *update.IncludeCustomHolidays
	}

	if err := s.repo.Save(&current); err != nil {
		return models.Settings{}, err
	}

	s.changed()
	return s.Get()
}

func (s *SettingsService) AddCustomHoliday(date, name string) error {
	day, err := calendar.ParseDate(date)
	if err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("holiday name is required")
	}

	if err := s.repo.UpsertCustomHolidays([]models.CustomHoliday{{Date: calendar.FormatDate(day), Name: name}}); err != nil {
		return err
	}

	s.changed()
	return nil
}

func (s *SettingsService) RemoveCustomHoliday(date string) error {
	if _, err := calendar.ParseDate(date); err != nil {
		return err
	}

	if err := s.repo.DeleteCustomHoliday(date); err != nil {
		return err
	}

	s.changed()
	return nil
}

// SeedFromFile загружает праздники организации из YAML/JSON файла
func (s *SettingsService) SeedFromFile(path string) (int, error) {
	list, err := holidays.Load(path)
	if err != nil {
		return 0, err
	}

	if err := s.repo.UpsertCustomHolidays(list); err != nil {
		return 0, err
	}

	s.changed()

	s.logger.WithFields(logrus.Fields{
		"file":  path,
		"count": len(list),
	}).Info("Custom holidays seeded from file")

	return len(list), nil
}

func (s *SettingsService) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// changed сбрасывает кэш и уведомляет подписчиков
func (s *SettingsService) changed() {
	s.mu.Lock()
	s.cached = nil
	listeners := append([]func(){}, s.onChange...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
