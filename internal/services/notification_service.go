package services

import (
	"github.com/sirupsen/logrus"

	"order_manager/internal/repository"
	"order_manager/pkg/telegram"
)

// Notifier delivers a message to a user. Delivery failures are reported to
// the caller but must never abort the surrounding batch.
type Notifier interface {
	Notify(userID int64, message string) error
	NotifyWithLink(userID int64, message, buttonText, url string) error
}

type notificationService struct {
	client   *telegram.Client
	userRepo repository.UserRepository
	log      *logrus.Logger
}

func NewNotificationService(client *telegram.Client, userRepo repository.UserRepository, log *logrus.Logger) Notifier {
	return &notificationService{client: client, userRepo: userRepo, log: log}
}

func (s *notificationService) Notify(userID int64, message string) error {
	if !s.allowed(userID) {
		return nil
	}
	// for private chats the chat id equals the user id
	return s.client.SendMessage(userID, message)
}

func (s *notificationService) NotifyWithLink(userID int64, message, buttonText, url string) error {
	if !s.allowed(userID) {
		return nil
	}
	return s.client.SendMessageWithLink(userID, message, buttonText, url)
}

// allowed checks the user's notification preference. Unknown users are
// notified anyway: a missing profile row must not silence reminders.
func (s *notificationService) allowed(userID int64) bool {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
		}).WithError(err).Warn("failed to load user for notification, sending anyway")
		return true
	}
	return user.NotificationsEnabled
}
