package models

import "time"

// MonthlySummary - кэш месячной сводки пользователя
type MonthlySummary struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"not null;uniqueIndex:idx_monthly_summaries_user_month" json:"user_id"`
	Year   int  `gorm:"not null;uniqueIndex:idx_monthly_summaries_user_month" json:"year"`
	Month  int  `gorm:"not null;check:month >= 1 AND month <= 12;uniqueIndex:idx_monthly_summaries_user_month" json:"month"`

	TotalHoursWorked      float64 `gorm:"not null;default:0" json:"total_hours_worked"`
	TotalOvertime         float64 `gorm:"not null;default:0" json:"total_overtime"`
	DistinctWorkedDays    int     `gorm:"not null;default:0" json:"distinct_worked_days"`
	TotalLeaveDays        int     `gorm:"not null;default:0" json:"total_leave_days"`
	TotalOtherAbsenceDays int     `gorm:"not null;default:0" json:"total_other_absence_days"`
	TotalHolidays         int     `gorm:"not null;default:0" json:"total_holidays"`

	// Данные таймера
	TrackedSeconds         int64 `gorm:"not null;default:0" json:"tracked_seconds"`
	TrackedOvertimeSeconds int64 `gorm:"not null;default:0" json:"tracked_overtime_seconds"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MonthlySummary) TableName() string {
	return "monthly_summaries"
}

// IsValid проверяет валидность данных
func (ms *MonthlySummary) IsValid() bool {
	if ms.UserID == 0 {
		return false
	}
	if ms.Month < 1 || ms.Month > 12 {
		return false
	}
	if ms.Year < 1900 || ms.Year > 2100 {
		return false
	}
	if ms.TotalHoursWorked < 0 || ms.TotalOvertime < 0 {
		return false
	}
	return true
}
