package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"order_manager/internal/models"
)

type ReminderLogRepository interface {
	// CreateIfAbsent inserts a log row unless the (order, offset, target)
	// triple already exists. Returns true when this writer won the insert.
	CreateIfAbsent(entry *models.ReminderLog) (bool, error)
	GetSince(target time.Time) ([]models.ReminderLog, error)
	GetByOrderIDs(orderIDs []string) ([]models.ReminderLog, error)
}

type reminderLogRepository struct {
	db *gorm.DB
}

func NewReminderLogRepository(db *gorm.DB) ReminderLogRepository {
	return &reminderLogRepository{db: db}
}

func (r *reminderLogRepository) CreateIfAbsent(entry *models.ReminderLog) (bool, error) {
	// The unique index on (order_id, offset, target) makes concurrent sweeps
	// safe: ON CONFLICT DO NOTHING, first writer wins.
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "offset"}, {Name: "target"}},
		DoNothing: true,
	}).Create(entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reminderLogRepository) GetSince(target time.Time) ([]models.ReminderLog, error) {
	var entries []models.ReminderLog
	err := r.db.Where("target >= ?", target).Find(&entries).Error
	return entries, err
}

func (r *reminderLogRepository) GetByOrderIDs(orderIDs []string) ([]models.ReminderLog, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var entries []models.ReminderLog
	err := r.db.Where("order_id IN ?", orderIDs).Find(&entries).Error
	return entries, err
}
