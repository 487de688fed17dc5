package repository

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"worktime-bot/internal/models"
)

// TimerRepository хранит активные таймеры и завершенные сессии.
// Уникальный индекс active_timers.user_id решает, есть ли уже активная сессия.
type TimerRepository interface {
	GetActive(userID uint) (*models.ActiveTimerState, error)
	CreateActive(state *models.ActiveTimerState) error
	UpdateActive(state *models.ActiveTimerState) error
	// FinishSession в одной транзакции сохраняет сессию и удаляет активный таймер
	FinishSession(session *models.TimerSession) error
	GetSessionsByUserAndRange(userID uint, from, to time.Time) ([]models.TimerSession, error)
}

type GormTimerRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormTimerRepository(db *gorm.DB, logger *logrus.Logger) (*GormTimerRepository, error) {
	if err := db.AutoMigrate(&models.ActiveTimerState{}, &models.TimerSession{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate timer tables")
		return nil, err
	}

	logger.Info("Timer repository initialized")

	return &GormTimerRepository{db: db, logger: logger}, nil
}

func (r *GormTimerRepository) GetActive(userID uint) (*models.ActiveTimerState, error) {
	var state models.ActiveTimerState
	result := r.db.Where("user_id = ?", userID).First(&state)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get active timer")
		return nil, result.Error
	}

	return &state, nil
}

func (r *GormTimerRepository) CreateActive(state *models.ActiveTimerState) error {
	state.StartTime = state.StartTime.UTC()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ActiveTimerState{}).Where("user_id = ?", state.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyExists
		}
		return tx.Create(state).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = ErrAlreadyExists
	}
	if errors.Is(err, ErrAlreadyExists) {
		r.logger.WithField("user_id", state.UserID).Warn("Active timer already exists")
		return err
	}
	if err != nil {
		r.logger.WithError(err).Error("Failed to create active timer")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"user_id":     state.UserID,
		"is_overtime": state.IsOvertime,
	}).Info("Active timer created")

	return nil
}

func (r *GormTimerRepository) UpdateActive(state *models.ActiveTimerState) error {
	result := r.db.Model(&models.ActiveTimerState{}).
		Where("user_id = ?", state.UserID).
		Select("active", "is_break", "is_overtime", "work_description", "task_id", "accrued_nanos", "running_since").
		Updates(state)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update active timer")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.logger.WithFields(logrus.Fields{
		"user_id":  state.UserID,
		"is_break": state.IsBreak,
	}).Debug("Active timer updated")

	return nil
}

func (r *GormTimerRepository) FinishSession(session *models.TimerSession) error {
	// SQLite сравнивает время как строки, поэтому все храним в UTC
	session.StartTime = session.StartTime.UTC()
	session.EndTime = session.EndTime.UTC()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", session.UserID).Delete(&models.ActiveTimerState{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(session).Error
	})
	if err != nil {
		r.logger.WithError(err).WithField("user_id", session.UserID).Error("Failed to finish timer session")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":               session.ID,
		"user_id":          session.UserID,
		"duration_seconds": session.DurationSeconds,
		"is_overtime":      session.IsOvertime,
	}).Info("Timer session saved")

	return nil
}

// GetSessionsByUserAndRange - сессии, начавшиеся в полуинтервале [from, to)
func (r *GormTimerRepository) GetSessionsByUserAndRange(userID uint, from, to time.Time) ([]models.TimerSession, error) {
	var sessions []models.TimerSession
	err := r.db.Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, from.UTC(), to.UTC()).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to get timer sessions")
		return nil, err
	}

	return sessions, nil
}
