package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"order_manager/internal/models"
)

type UserRepository interface {
	Upsert(user *models.User) error
	GetByID(telegramID int64) (*models.User, error)
	GetByIDs(telegramIDs []int64) ([]models.User, error)
	Update(user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert refreshes the profile fields on every authenticated request so the
// cached names stay in sync with Telegram.
func (r *userRepository) Upsert(user *models.User) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "updated_at"}),
	}).Create(user).Error
}

func (r *userRepository) GetByID(telegramID int64) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "telegram_id = ?", telegramID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(telegramIDs []int64) ([]models.User, error) {
	if len(telegramIDs) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.Where("telegram_id IN ?", telegramIDs).Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}
