package services

import (
	"order_manager/internal/models"
	"order_manager/internal/repository"
)

type UserService interface {
	UpsertFromTelegram(user *models.User) error
	GetUserByID(telegramID int64) (*models.User, error)
	GetUsersByIDs(telegramIDs []int64) (map[int64]models.User, error)
	SetTimezone(telegramID int64, timezone string) error
	SetNotificationsEnabled(telegramID int64, enabled bool) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) UpsertFromTelegram(user *models.User) error {
	return s.userRepo.Upsert(user)
}

func (s *userService) GetUserByID(telegramID int64) (*models.User, error) {
	return s.userRepo.GetByID(telegramID)
}

func (s *userService) GetUsersByIDs(telegramIDs []int64) (map[int64]models.User, error) {
	users, err := s.userRepo.GetByIDs(telegramIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]models.User, len(users))
	for _, u := range users {
		out[u.TelegramID] = u
	}
	return out, nil
}

func (s *userService) SetTimezone(telegramID int64, timezone string) error {
	user, err := s.userRepo.GetByID(telegramID)
	if err != nil {
		return err
	}
	user.Timezone = timezone
	return s.userRepo.Update(user)
}

func (s *userService) SetNotificationsEnabled(telegramID int64, enabled bool) error {
	user, err := s.userRepo.GetByID(telegramID)
	if err != nil {
		return err
	}
	user.NotificationsEnabled = enabled
	return s.userRepo.Update(user)
}
