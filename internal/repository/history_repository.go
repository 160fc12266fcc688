package repository

import (
	"order_manager/internal/models"

	"gorm.io/gorm"
)

type HistoryRepository interface {
	Append(entries []models.OrderHistory) error
	GetByOrderID(orderID string) ([]models.OrderHistory, error)
	GetByOrderIDs(orderIDs []string) ([]models.OrderHistory, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Append inserts audit entries. Entries are immutable: there is no Update or
// Delete on this repository by design of the audit trail.
func (r *historyRepository) Append(entries []models.OrderHistory) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.Create(&entries).Error
}

func (r *historyRepository) GetByOrderID(orderID string) ([]models.OrderHistory, error) {
	var entries []models.OrderHistory
	err := r.db.
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *historyRepository) GetByOrderIDs(orderIDs []string) ([]models.OrderHistory, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var entries []models.OrderHistory
	err := r.db.
		Where("order_id IN ?", orderIDs).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
