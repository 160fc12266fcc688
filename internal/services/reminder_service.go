package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"order_manager/internal/lifecycle"
	"order_manager/internal/models"
	"order_manager/internal/redis"
	"order_manager/internal/repository"
)

// reminderLogLookback bounds how much of the reminder log a sweep loads for
// dedup. Targets eligible "now" were logged at most a sweep interval ago;
// 24 hours is a generous margin.
const reminderLogLookback = 24 * time.Hour

type ReminderService interface {
	RunReminderSweep(now time.Time) (int, error)
	RunOverdueSweep(now time.Time) (int, error)
}

type reminderService struct {
	orderRepo       repository.OrderRepository
	logRepo         repository.ReminderLogRepository
	userRepo        repository.UserRepository
	notifier        Notifier
	cache           *redis.Client
	overdueCooldown time.Duration
	miniAppURL      string
	log             *logrus.Logger
}

func NewReminderService(
	orderRepo repository.OrderRepository,
	logRepo repository.ReminderLogRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	cache *redis.Client,
	overdueCooldown time.Duration,
	miniAppURL string,
	log *logrus.Logger,
) ReminderService {
	return &reminderService{
		orderRepo:       orderRepo,
		logRepo:         logRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		cache:           cache,
		overdueCooldown: overdueCooldown,
		miniAppURL:      miniAppURL,
		log:             log,
	}
}

// deliver attaches an "open the app" button when a Mini App URL is
// configured, so the user can jump straight to the task list.
func (s *reminderService) deliver(recipientID int64, message string) error {
	if s.miniAppURL != "" {
		return s.notifier.NotifyWithLink(recipientID, message, "Открыть приложение", s.miniAppURL)
	}
	return s.notifier.Notify(recipientID, message)
}

// RunReminderSweep computes due reminders and delivers them. A reminder is
// logged only after at least one recipient got the message, so a sweep where
// every send failed leaves the candidate eligible for the next run. Returns
// the number of messages sent.
func (s *reminderService) RunReminderSweep(now time.Time) (int, error) {
	orders, err := s.orderRepo.GetActiveWithDueDates()
	if err != nil {
		return 0, err
	}
	logEntries, err := s.logRepo.GetSince(now.Add(-reminderLogLookback))
	if err != nil {
		return 0, err
	}
	users, err := s.loadRecipients(orders)
	if err != nil {
		return 0, err
	}

	plan := lifecycle.ComputeDueReminders(orders, logEntries, users, now)

	sent := 0
	for _, key := range plan.LogWrites {
		delivered := 0
		for _, n := range plan.Notifications {
			if n.Key != key {
				continue
			}
			if err := s.deliver(n.RecipientID, n.Message); err != nil {
				s.log.WithFields(logrus.Fields{
					"order_id":     key.OrderID,
					"offset":       string(key.Offset),
					"recipient_id": n.RecipientID,
				}).WithError(err).Warn("failed to send reminder")
				continue
			}
			delivered++
		}
		if delivered == 0 {
			continue
		}
		sent += delivered

		won, err := s.logRepo.CreateIfAbsent(&models.ReminderLog{
			OrderID: key.OrderID,
			Offset:  string(key.Offset),
			Target:  key.Target,
		})
		if err != nil {
			s.log.WithField("order_id", key.OrderID).WithError(err).Error("failed to write reminder log")
			continue
		}
		if !won {
			// a concurrent sweep logged it first; duplicate send accepted
			s.log.WithField("order_id", key.OrderID).Debug("reminder already logged by concurrent sweep")
		}
	}

	s.log.WithFields(logrus.Fields{
		"orders":     len(orders),
		"candidates": len(plan.LogWrites),
		"sent":       sent,
	}).Info("reminder sweep finished")
	return sent, nil
}

// RunOverdueSweep alerts assignees about overdue orders. The engine re-flags
// the same order every run; a Redis cooldown keeps alerts from repeating
// until it expires. Returns the number of alerts sent.
func (s *reminderService) RunOverdueSweep(now time.Time) (int, error) {
	orders, err := s.orderRepo.GetActiveWithDueDates()
	if err != nil {
		return 0, err
	}
	users, err := s.loadRecipients(orders)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, item := range lifecycle.ComputeOverdue(orders, now) {
		if item.Order.AssigneeID == 0 {
			continue
		}

		acquired, err := s.cache.AcquireOverdueCooldown(item.Order.ID, s.overdueCooldown)
		if err != nil {
			s.log.WithField("order_id", item.Order.ID).WithError(err).Warn("overdue cooldown check failed, skipping")
			continue
		}
		if !acquired {
			continue
		}

		msg := lifecycle.OverdueMessage(item, users[item.Order.AssigneeID])
		if err := s.deliver(item.Order.AssigneeID, msg); err != nil {
			s.log.WithFields(logrus.Fields{
				"order_id":     item.Order.ID,
				"recipient_id": item.Order.AssigneeID,
			}).WithError(err).Warn("failed to send overdue alert")
			// let the next sweep retry instead of waiting out the cooldown
			if relErr := s.cache.ReleaseOverdueCooldown(item.Order.ID); relErr != nil {
				s.log.WithField("order_id", item.Order.ID).WithError(relErr).Warn("failed to release overdue cooldown")
			}
			continue
		}
		sent++
	}

	s.log.WithFields(logrus.Fields{
		"orders": len(orders),
		"sent":   sent,
	}).Info("overdue sweep finished")
	return sent, nil
}

// loadRecipients bulk-loads every user a sweep over these orders could
// message, for timezone-aware formatting.
func (s *reminderService) loadRecipients(orders []models.Order) (map[int64]models.User, error) {
	idSet := make(map[int64]bool)
	for _, o := range orders {
		if o.AssigneeID != 0 {
			idSet[o.AssigneeID] = true
		}
		if o.CreatorID != 0 {
			idSet[o.CreatorID] = true
		}
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.userRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]models.User, len(users))
	for _, u := range users {
		out[u.TelegramID] = u
	}
	return out, nil
}
