package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the single typed record constructed at the storage boundary.
// Status, DueDate, DueTime and ReminderOffsets are kept in their raw stored
// form (legacy rows may carry arbitrary values) and are normalized by the
// lifecycle package on read.
type Order struct {
	ID               string          `json:"id" gorm:"primaryKey;size:36"`
	Code             string          `json:"code" gorm:"uniqueIndex;size:16;not null"` // ORD-xxxx
	ProjectID        string          `json:"project_id" gorm:"index;size:36;not null"`
	Title            string          `json:"title" gorm:"not null"`
	Description      string          `json:"description" gorm:"type:text"`
	Status           string          `json:"status" gorm:"size:32;default:'pending'"` // pending, in_progress, review, done
	DueDate          string          `json:"due_date" gorm:"size:64"`                 // RFC3339 instant or YYYY-MM-DD
	DueTime          string          `json:"due_time" gorm:"size:8"`                  // HH:MM, overrides the date's time component
	AssigneeID       int64           `json:"assignee_id" gorm:"index"`
	AssigneeName     string          `json:"assignee_name" gorm:"size:128"`
	CreatorID        int64           `json:"creator_id" gorm:"index;not null"`
	ReminderOffsets  string          `json:"reminder_offsets" gorm:"size:128"` // comma-joined offsets, legacy rows may hold a JSON array
	ReviewComment    string          `json:"review_comment" gorm:"type:text"`
	ReviewImages     string          `json:"review_images" gorm:"type:text"` // JSON array of uploaded file references
	ReviewAnswer     string          `json:"review_answer" gorm:"type:text"`
	TotalAmount      decimal.Decimal `json:"total_amount" gorm:"type:decimal(20,2);default:0"`
	PrepaymentAmount decimal.Decimal `json:"prepayment_amount" gorm:"type:decimal(20,2);default:0"`
	Archived         bool            `json:"archived" gorm:"default:false"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}
