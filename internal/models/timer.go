package models

import (
	"fmt"
	"time"
)

// ActiveTimerState - активная сессия учета времени, не более одной на пользователя.
// Уникальный индекс по user_id делает хранилище арбитром этого правила.
type ActiveTimerState struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	UserID          uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Active          bool       `gorm:"not null" json:"active"`
	StartTime       time.Time  `gorm:"not null" json:"start_time"`
	IsBreak         bool       `gorm:"not null" json:"is_break"`
	IsOvertime      bool       `gorm:"not null" json:"is_overtime"`
	WorkDescription string     `json:"work_description"`
	TaskID          *uint      `json:"task_id"`
	AccruedNanos    int64      `gorm:"not null;default:0" json:"accrued_nanos"`
	RunningSince    *time.Time `json:"running_since"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ActiveTimerState) TableName() string {
	return "active_timers"
}

// TimerSession - неизменяемая запись о завершенной сессии
type TimerSession struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	StartTime       time.Time `gorm:"not null;index" json:"start_time"`
	EndTime         time.Time `gorm:"not null" json:"end_time"`
	DurationSeconds int64     `gorm:"not null;default:0" json:"duration_seconds"`
	IsOvertime      bool      `gorm:"not null" json:"is_overtime"`
	WorkDescription string    `json:"work_description"`
	TaskID          *uint     `json:"task_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TimerSession) TableName() string {
	return "timer_sessions"
}

// Duration возвращает продолжительность работы как строку
func (s *TimerSession) Duration() string {
	return FormatSeconds(s.DurationSeconds)
}

// FormatSeconds форматирует секунды как "1ч 05м"
func FormatSeconds(total int64) string {
	hours := total / 3600
	minutes := (total % 3600) / 60
	if minutes == 0 {
		return fmt.Sprintf("%dч", hours)
	}
	return fmt.Sprintf("%dч %02dм", hours, minutes)
}
