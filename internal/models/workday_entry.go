package models

import "time"

// WorkdayEntry - единственная итоговая запись за день.
// Запись с HoursWorked > 0 блокирует запуск таймера на эту дату.
type WorkdayEntry struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_workday_entries_user_date" json:"user_id"`
	Date             string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_workday_entries_user_date" json:"date"`
	HoursWorked      float64   `gorm:"not null;default:0" json:"hours_worked"`
	AdditionalWorked float64   `gorm:"not null;default:0" json:"additional_worked"`
	AbsenceType      string    `gorm:"type:varchar(30)" json:"absence_type"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WorkdayEntry) TableName() string {
	return "workday_entries"
}

// IsTotaled - за день уже внесено отработанное время
func (e *WorkdayEntry) IsTotaled() bool {
	return e.HoursWorked > 0
}

// IsValid проверяет валидность данных
func (e *WorkdayEntry) IsValid() bool {
	if e.UserID == 0 {
		return false
	}
	if _, err := time.Parse(isoDate, e.Date); err != nil {
		return false
	}
	if e.HoursWorked < 0 || e.HoursWorked > 24 {
		return false
	}
	if e.AdditionalWorked < 0 || e.AdditionalWorked > 24 {
		return false
	}
	return true
}
