package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"worktime-bot/internal/models"
)

// Настройки хранятся одной строкой с фиксированным ID
const settingsRowID = 1

type SettingsRepository interface {
	// Get возвращает настройки вместе с праздниками организации; nil, если строки еще нет
	Get() (*models.Settings, error)
	Save(settings *models.Settings) error
	ListCustomHolidays() ([]models.CustomHoliday, error)
	UpsertCustomHolidays(holidays []models.CustomHoliday) error
	DeleteCustomHoliday(date string) error
}

type GormSettingsRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormSettingsRepository(db *gorm.DB, logger *logrus.Logger) (*GormSettingsRepository, error) {
	if err := db.AutoMigrate(&models.Settings{}, &models.CustomHoliday{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate settings tables")
		return nil, err
	}

	return &GormSettingsRepository{db: db, logger: logger}, nil
}

func (r *GormSettingsRepository) Get() (*models.Settings, error) {
	var settings models.Settings
	result := r.db.First(&settings, settingsRowID)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get settings")
		return nil, result.Error
	}

	holidays, err := r.ListCustomHolidays()
	if err != nil {
		return nil, err
	}
	settings.CustomHolidays = holidays

	return &settings, nil
}

// Save сохраняет флаги настроек; праздники организации меняются отдельными методами
func (r *GormSettingsRepository) Save(settings *models.Settings) error {
	settings.ID = settingsRowID

	if err := r.db.Save(settings).Error; err != nil {
		r.logger.WithError(err).Error("Failed to save settings")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"work_on_weekends":        settings.WorkOnWeekends,
		"include_polish_holidays": settings.IncludePolishHolidays,
		"include_custom_holidays": settings.IncludeCustomHolidays,
	}).Info("Settings saved")

	return nil
}

func (r *GormSettingsRepository) ListCustomHolidays() ([]models.CustomHoliday, error) {
	var holidays []models.CustomHoliday
	if err := r.db.Order("date ASC").Find(&holidays).Error; err != nil {
		r.logger.WithError(err).Error("Failed to list custom holidays")
		return nil, err
	}

	return holidays, nil
}

// UpsertCustomHolidays добавляет праздники; для существующей даты обновляется название
func (r *GormSettingsRepository) UpsertCustomHolidays(holidays []models.CustomHoliday) error {
	if len(holidays) == 0 {
		return nil
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&holidays).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to upsert custom holidays")
		return err
	}

	r.logger.WithField("count", len(holidays)).Info("Custom holidays upserted")

	return nil
}

func (r *GormSettingsRepository) DeleteCustomHoliday(date string) error {
	result := r.db.Where("date = ?", date).Delete(&models.CustomHoliday{})
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete custom holiday")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.logger.WithField("date", date).Info("Custom holiday deleted")

	return nil
}
