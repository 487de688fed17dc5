package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"worktime-bot/internal/models"
)

type WorkdayEntryRepository interface {
	Upsert(entry *models.WorkdayEntry) error
	GetByUserAndDate(userID uint, date string) (*models.WorkdayEntry, error)
	GetByUserAndRange(userID uint, startDate, endDate string) ([]models.WorkdayEntry, error)
	Delete(userID uint, date string) error
}

type GormWorkdayEntryRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormWorkdayEntryRepository(db *gorm.DB, logger *logrus.Logger) (*GormWorkdayEntryRepository, error) {
	if err := db.AutoMigrate(&models.WorkdayEntry{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate workday_entries table")
		return nil, err
	}

	return &GormWorkdayEntryRepository{db: db, logger: logger}, nil
}

// Upsert - одна запись на пользователя и дату, повторная запись заменяет поля
func (r *GormWorkdayEntryRepository) Upsert(entry *models.WorkdayEntry) error {
	if !entry.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"user_id": entry.UserID,
			"date":    entry.Date,
		}).Warn("Invalid workday entry data")
		return ErrInvalidData
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"hours_worked", "additional_worked", "absence_type", "notes", "updated_at",
		}),
	}).Create(entry).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to upsert workday entry")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"user_id":      entry.UserID,
		"date":         entry.Date,
		"hours_worked": entry.HoursWorked,
	}).Info("Workday entry saved")

	return nil
}

func (r *GormWorkdayEntryRepository) GetByUserAndDate(userID uint, date string) (*models.WorkdayEntry, error) {
	var entry models.WorkdayEntry
	err := r.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *GormWorkdayEntryRepository) GetByUserAndRange(userID uint, startDate, endDate string) ([]models.WorkdayEntry, error) {
	var entries []models.WorkdayEntry
	err := r.db.Where("user_id = ? AND date BETWEEN ? AND ?", userID, startDate, endDate).
		Order("date ASC").
		Find(&entries).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to get workday entries")
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(entries),
	}).Debug("Retrieved workday entries")

	return entries, nil
}

func (r *GormWorkdayEntryRepository) Delete(userID uint, date string) error {
	result := r.db.Where("user_id = ? AND date = ?", userID, date).Delete(&models.WorkdayEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
