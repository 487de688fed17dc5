package service

import (
	"time"

	"github.com/sirupsen/logrus"
	"worktime-bot/internal/calendar"
	"worktime-bot/internal/models"
	"worktime-bot/internal/repository"
)

type WorkdayService struct {
	repo      repository.WorkdayEntryRepository
	summaries *SummaryService
	logger    *logrus.Logger
}

func NewWorkdayService(repo repository.WorkdayEntryRepository, summaries *SummaryService, logger *logrus.Logger) *WorkdayService {
	return &WorkdayService{repo: repo, summaries: summaries, logger: logger}
}

// Upsert сохраняет итог дня; на одну дату у пользователя одна запись
func (s *WorkdayService) Upsert(entry models.WorkdayEntry) (*models.WorkdayEntry, error) {
	day, err := calendar.ParseDate(entry.Date)
	if err != nil {
		return nil, err
	}
	entry.Date = calendar.FormatDate(day)

	if err := s.repo.Upsert(&entry); err != nil {
		return nil, err
	}

	if err := s.summaries.InvalidateRange(entry.UserID, entry.Date, entry.Date); err != nil {
		s.logger.WithError(err).Error("Failed to invalidate monthly summary")
	}

	return &entry, nil
}

func (s *WorkdayService) Get(userID uint, date string) (*models.WorkdayEntry, error) {
	if _, err := calendar.ParseDate(date); err != nil {
		return nil, err
	}
	return s.repo.GetByUserAndDate(userID, date)
}

func (s *WorkdayService) ListMonth(userID uint, year int, month time.Month) ([]models.WorkdayEntry, error) {
	first, last := calendar.MonthBounds(year, month)
	return s.repo.GetByUserAndRange(userID, first, last)
}
