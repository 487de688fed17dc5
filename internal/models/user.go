package models

import (
	"strconv"
	"strings"
)

// Role - роль пользователя бота
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// User - сотрудник, зарегистрированный при первом обращении к боту.
// ID используется как владелец таймеров, заявок и сводок, ChatID - для ответов в Telegram.
type User struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	ChatID    int64  `gorm:"uniqueIndex;not null" json:"chat_id"`
	Username  string `json:"username"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `gorm:"type:varchar(20);default:'client'" json:"role"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin - может принимать и отклонять заявки, менять настройки календаря
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName - имя для уведомлений и сводок команды: "Имя Фамилия (@ник)",
// без имени и ника - chat ID
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if u.Username != "" {
		if name != "" {
			name += " "
		}
		name += "(@" + u.Username + ")"
	}
	if name == "" {
		name = strconv.FormatInt(u.ChatID, 10)
	}
	return name
}
