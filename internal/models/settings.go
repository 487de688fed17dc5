package models

import "time"

// Settings - снимок настроек календаря, общий для всех расчетов.
// Хранится одной строкой, пользовательские праздники - в отдельной таблице.
type Settings struct {
	ID                    uint            `gorm:"primarykey" json:"id"`
	WorkOnWeekends        bool            `gorm:"not null" json:"work_on_weekends"`
	IncludePolishHolidays bool            `gorm:"not null" json:"include_polish_holidays"`
	IncludeCustomHolidays bool            `gorm:"not null" json:"include_custom_holidays"`
	CustomHolidays        []CustomHoliday `gorm:"-" json:"custom_holidays"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Settings) TableName() string {
	return "settings"
}

// Clone возвращает независимую копию, чтобы кэш провайдера нельзя было изменить снаружи
func (s Settings) Clone() Settings {
	out := s
	if s.CustomHolidays != nil {
		out.CustomHolidays = make([]CustomHoliday, len(s.CustomHolidays))
		copy(out.CustomHolidays, s.CustomHolidays)
	}
	return out
}

// CustomHoliday - праздник, заданный организацией
type CustomHoliday struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex" json:"date"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CustomHoliday) TableName() string {
	return "custom_holidays"
}

// Holiday - вычисляемый праздник, в базе не хранится
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}
