package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"worktime-bot/internal/models"
)

type MonthlySummaryRepository interface {
	Upsert(summary *models.MonthlySummary) error
	GetByUserAndMonth(userID uint, year, month int) (*models.MonthlySummary, error)
	GetByMonth(year, month int) ([]*models.MonthlySummary, error)
	DeleteByUserAndMonth(userID uint, year, month int) error
	DeleteAll() (int64, error)
}

type GormMonthlySummaryRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormMonthlySummaryRepository(db *gorm.DB, logger *logrus.Logger) (*GormMonthlySummaryRepository, error) {
	// Автомиграция
	if err := db.AutoMigrate(&models.MonthlySummary{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate monthly_summaries table")
		return nil, err
	}

	logger.Info("Monthly summary repository initialized")

	return &GormMonthlySummaryRepository{db: db, logger: logger}, nil
}

func (r *GormMonthlySummaryRepository) Upsert(summary *models.MonthlySummary) error {
	if !summary.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"user_id": summary.UserID,
			"year":    summary.Year,
			"month":   summary.Month,
		}).Warn("Invalid monthly summary data")
		return ErrInvalidData
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_hours_worked", "total_overtime", "distinct_worked_days",
			"total_leave_days", "total_other_absence_days", "total_holidays",
			"tracked_seconds", "tracked_overtime_seconds", "updated_at",
		}),
	}).Create(summary).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to upsert monthly summary")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"user_id": summary.UserID,
		"year":    summary.Year,
		"month":   summary.Month,
	}).Debug("Monthly summary saved")

	return nil
}

func (r *GormMonthlySummaryRepository) GetByUserAndMonth(userID uint, year, month int) (*models.MonthlySummary, error) {
	var summary models.MonthlySummary
	result := r.db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).First(&summary)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"year":    year,
			"month":   month,
		}).Debug("Monthly summary not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get monthly summary")
		return nil, result.Error
	}

	return &summary, nil
}

func (r *GormMonthlySummaryRepository) GetByMonth(year, month int) ([]*models.MonthlySummary, error) {
	var summaries []*models.MonthlySummary
	result := r.db.Where("year = ? AND month = ?", year, month).Order("user_id ASC").Find(&summaries)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get monthly summaries by month")
		return nil, result.Error
	}

	return summaries, nil
}

func (r *GormMonthlySummaryRepository) DeleteByUserAndMonth(userID uint, year, month int) error {
	result := r.db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		Delete(&models.MonthlySummary{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll очищает кэш сводок целиком; возвращает число удаленных строк
func (r *GormMonthlySummaryRepository) DeleteAll() (int64, error) {
	result := r.db.Where("1 = 1").Delete(&models.MonthlySummary{})
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to clear monthly summaries")
		return 0, result.Error
	}

	r.logger.WithField("deleted", result.RowsAffected).Info("Monthly summaries cleared")
	return result.RowsAffected, nil
}
