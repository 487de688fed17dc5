package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"worktime-bot/internal/models"
)

type LeavePlanRepository interface {
	Create(plan *models.LeavePlan) error
	GetByUserAndDate(userID uint, date string) (*models.LeavePlan, error)
	GetByUserID(userID uint) ([]models.LeavePlan, error)
	Delete(userID uint, date string) error
}

type GormLeavePlanRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormLeavePlanRepository(db *gorm.DB, logger *logrus.Logger) (*GormLeavePlanRepository, error) {
	if err := db.AutoMigrate(&models.LeavePlan{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate leave_plans table")
		return nil, err
	}

	return &GormLeavePlanRepository{db: db, logger: logger}, nil
}

func (r *GormLeavePlanRepository) Create(plan *models.LeavePlan) error {
	err := r.db.Create(plan).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	if err != nil {
		r.logger.WithError(err).Error("Failed to create leave plan")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"user_id": plan.UserID,
		"date":    plan.Date,
	}).Info("Leave plan created")

	return nil
}

func (r *GormLeavePlanRepository) GetByUserAndDate(userID uint, date string) (*models.LeavePlan, error) {
	var plan models.LeavePlan
	err := r.db.Where("user_id = ? AND date = ?", userID, date).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *GormLeavePlanRepository) GetByUserID(userID uint) ([]models.LeavePlan, error) {
	var plans []models.LeavePlan
	err := r.db.Where("user_id = ?", userID).
		Order("date ASC").
		Find(&plans).Error
	return plans, err
}

func (r *GormLeavePlanRepository) Delete(userID uint, date string) error {
	result := r.db.Where("user_id = ? AND date = ?", userID, date).Delete(&models.LeavePlan{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"date":    date,
	}).Info("Leave plan deleted")

	return nil
}

type LeaveRequestRepository interface {
	Create(request *models.LeaveRequest) error
	GetByID(id uint) (*models.LeaveRequest, error)
	GetByUserID(userID uint) ([]models.LeaveRequest, error)
	GetByStatus(status string) ([]models.LeaveRequest, error)
	GetAccepted(userID uint) ([]models.LeaveRequest, error)
	GetAcceptedInRange(userID uint, startDate, endDate string) ([]models.LeaveRequest, error)
	UpdateStatus(id uint, status string) error
}

type GormLeaveRequestRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormLeaveRequestRepository(db *gorm.DB, logger *logrus.Logger) (*GormLeaveRequestRepository, error) {
	if err := db.AutoMigrate(&models.LeaveRequest{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate leave_requests table")
		return nil, err
	}

	return &GormLeaveRequestRepository{db: db, logger: logger}, nil
}

func (r *GormLeaveRequestRepository) Create(request *models.LeaveRequest) error {
	if !request.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"user_id":    request.UserID,
			"start_date": request.StartDate,
			"end_date":   request.EndDate,
		}).Warn("Invalid leave request data")
		return ErrInvalidData
	}

	if err := r.db.Create(request).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create leave request")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":      request.ID,
		"user_id": request.UserID,
		"type":    request.Type,
	}).Info("Leave request created")

	return nil
}

func (r *GormLeaveRequestRepository) GetByID(id uint) (*models.LeaveRequest, error) {
	var request models.LeaveRequest
	err := r.db.First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *GormLeaveRequestRepository) GetByUserID(userID uint) ([]models.LeaveRequest, error) {
	var requests []models.LeaveRequest
	err := r.db.Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *GormLeaveRequestRepository) GetByStatus(status string) ([]models.LeaveRequest, error) {
	var requests []models.LeaveRequest
	err := r.db.Where("status = ?", status).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *GormLeaveRequestRepository) GetAccepted(userID uint) ([]models.LeaveRequest, error) {
	var requests []models.LeaveRequest
	err := r.db.Where("user_id = ? AND status = ?", userID, models.LeaveStatusAccepted).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

// GetAcceptedInRange - принятые заявки, пересекающиеся с диапазоном.
// ISO-даты сравниваются как строки.
func (r *GormLeaveRequestRepository) GetAcceptedInRange(userID uint, startDate, endDate string) ([]models.LeaveRequest, error) {
	var requests []models.LeaveRequest
	err := r.db.Where("user_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
		userID, models.LeaveStatusAccepted, endDate, startDate).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *GormLeaveRequestRepository) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&models.LeaveRequest{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update leave request status")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.logger.WithFields(logrus.Fields{
		"id":     id,
		"status": status,
	}).Info("Leave request status updated")

	return nil
}
