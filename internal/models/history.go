package models

import "time"

// OrderHistory is an append-only audit record of a detected field change.
// Rows are never updated or deleted. Ordering is by CreatedAt; bulk inserts
// synthesize strictly increasing timestamps so coarse clock resolution does
// not reorder entries.
type OrderHistory struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     string    `json:"order_id" gorm:"index;size:36;not null"`
	EventType   string    `json:"event_type" gorm:"size:32;not null"` // e.g. status.done, assignee.assigned, archived
	Description string    `json:"description" gorm:"type:text"`
	ActorID     int64     `json:"actor_id"`
	ActorName   string    `json:"actor_name" gorm:"size:128"`
	Meta        string    `json:"meta" gorm:"type:json"` // e.g. {"from":"review","to":"in_progress"}
	CreatedAt   time.Time `json:"created_at"`
}
