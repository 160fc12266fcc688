package models

import (
	"strings"
	"time"
)

// User is a team member identified by their verified Telegram id.
type User struct {
	TelegramID           int64     `json:"telegram_id" gorm:"primaryKey;autoIncrement:false"`
	Username             string    `json:"username" gorm:"size:64"`
	FirstName            string    `json:"first_name" gorm:"size:128"`
	LastName             string    `json:"last_name" gorm:"size:128"`
	Timezone             string    `json:"timezone" gorm:"size:64"` // IANA name, e.g. Europe/Moscow
	NotificationsEnabled bool      `json:"notifications_enabled" gorm:"default:true"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DisplayName resolves first+last name, falling back to username.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	return u.Username
}
