package models

import "time"

// ReminderLog records that a reminder for (order, offset, target instant) was
// sent. The composite unique index is the dedup key: concurrent sweeps racing
// to log the same reminder insert with ON CONFLICT DO NOTHING and only the
// first writer wins.
type ReminderLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   string    `json:"order_id" gorm:"size:36;not null;uniqueIndex:idx_reminder_log_dedup"`
	Offset    string    `json:"offset" gorm:"size:8;not null;uniqueIndex:idx_reminder_log_dedup"`
	Target    time.Time `json:"target" gorm:"not null;uniqueIndex:idx_reminder_log_dedup"`
	CreatedAt time.Time `json:"created_at"`
}
