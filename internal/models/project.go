package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	Name      string         `json:"name" gorm:"not null"`
	OwnerID   int64          `json:"owner_id" gorm:"index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type ProjectMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProjectID string    `json:"project_id" gorm:"index:idx_project_member,unique;size:36;not null"`
	UserID    int64     `json:"user_id" gorm:"index:idx_project_member,unique;not null"`
	CreatedAt time.Time `json:"created_at"`
}
