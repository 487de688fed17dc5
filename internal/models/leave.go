package models

import "time"

const isoDate = "2006-01-02"

// LeavePlan - предварительная отметка об отсутствии на один день
type LeavePlan struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_leave_plans_user_date" json:"user_id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_leave_plans_user_date" json:"date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LeavePlan) TableName() string {
	return "leave_plans"
}

// LeaveRequest - заявка на отсутствие, диапазон дат включительно
type LeaveRequest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	StartDate string    `gorm:"type:varchar(10);not null;index" json:"start_date"`
	EndDate   string    `gorm:"type:varchar(10);not null;index" json:"end_date"`
	Type      string    `gorm:"type:varchar(30);not null" json:"type"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// Статусы заявок
const (
	LeaveStatusPending   = "pending"
	LeaveStatusAccepted  = "accepted"
	LeaveStatusRejected  = "rejected"
	LeaveStatusSent      = "sent"
	LeaveStatusCancelled = "cancelled"
)

// Типы отсутствия
const (
	LeaveTypeVacation     = "vacation"
	LeaveTypeSickLeave    = "sick_leave"
	LeaveTypeOnDemand     = "on_demand"
	LeaveTypeUnpaid       = "unpaid"
	LeaveTypeDayOff       = "day_off"
	LeaveTypeRemote       = "remote"
	LeaveTypeBusinessTrip = "business_trip"
)

// IsAccepted - только принятые заявки участвуют в разрешении конфликтов
func (r *LeaveRequest) IsAccepted() bool {
	return r.Status == LeaveStatusAccepted
}

// IsValid проверяет валидность данных
func (r *LeaveRequest) IsValid() bool {
	if r.UserID == 0 || r.Type == "" {
		return false
	}
	start, err := time.Parse(isoDate, r.StartDate)
	if err != nil {
		return false
	}
	end, err := time.Parse(isoDate, r.EndDate)
	if err != nil {
		return false
	}
	if end.Before(start) {
		return false
	}
	switch r.Status {
	case LeaveStatusPending, LeaveStatusAccepted, LeaveStatusRejected, LeaveStatusSent, LeaveStatusCancelled:
		return true
	}
	return false
}
