package repository

import (
	"order_manager/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByProject(projectID string, includeArchived bool) ([]models.Order, error)
	GetActiveWithDueDates() ([]models.Order, error)
	Update(order *models.Order) error
	Delete(id string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByProject(projectID string, includeArchived bool) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.Where("project_id = ?", projectID)
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}
	err := q.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// GetActiveWithDueDates loads every order a sweep could act on: not archived,
// not done (legacy status values other than 'done' are treated as active and
// normalized later), with a due date present.
func (r *orderRepository) GetActiveWithDueDates() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Where("archived = ?", false).
		Where("status <> ?", "done").
		Where("due_date <> ''").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) Delete(id string) error {
	return r.db.Delete(&models.Order{}, "id = ?", id).Error
}
