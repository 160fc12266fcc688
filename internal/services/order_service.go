package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"order_manager/internal/lifecycle"
	"order_manager/internal/models"
	"order_manager/internal/repository"
)

type OrderService interface {
	CreateOrder(order *models.Order, actor lifecycle.Actor) error
	GetOrderByID(id string) (*models.Order, error)
	GetProjectOrders(projectID string, includeArchived bool) ([]models.Order, error)
	UpdateOrder(id string, patch lifecycle.Patch, actor lifecycle.Actor) (*models.Order, error)
	GetOrderHistory(id string) ([]models.OrderHistory, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	historyRepo repository.HistoryRepository
	notifier    Notifier
	log         *logrus.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, historyRepo repository.HistoryRepository, notifier Notifier, log *logrus.Logger) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		notifier:    notifier,
		log:         log,
	}
}

func (s *orderService) CreateOrder(order *models.Order, actor lifecycle.Actor) error {
	order.ID = uuid.NewString()
	order.Code = "ORD-" + strings.ToUpper(order.ID[:8])
	order.Status = string(lifecycle.StatusPending)
	order.Archived = false
	order.CreatorID = actor.ID
	order.ReminderOffsets = lifecycle.JoinOffsets(lifecycle.ParseOffsets(order.ReminderOffsets))

	if err := s.orderRepo.Create(order); err != nil {
		return err
	}

	err := s.historyRepo.Append([]models.OrderHistory{{
		OrderID:     order.ID,
		EventType:   "created",
		Description: "Задача создана",
		ActorID:     actor.ID,
		ActorName:   actor.DisplayName(),
		CreatedAt:   time.Now(),
	}})
	if err != nil {
		// the order itself is persisted; a lost audit row is logged, not fatal
		s.log.WithField("order_id", order.ID).WithError(err).Error("failed to append creation history")
	}
	return nil
}

func (s *orderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

func (s *orderService) GetProjectOrders(projectID string, includeArchived bool) ([]models.Order, error) {
	return s.orderRepo.GetByProject(projectID, includeArchived)
}

// UpdateOrder funnels a validated patch through the lifecycle engine, then
// persists the new state, appends the audit entries and dispatches the
// notification intents. Notification failures never fail the update.
func (s *orderService) UpdateOrder(id string, patch lifecycle.Patch, actor lifecycle.Actor) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	res, err := lifecycle.ApplyUpdate(*order, patch, actor, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(&res.Updated); err != nil {
		return nil, err
	}

	if err := s.historyRepo.Append(toHistoryRows(res.Updated.ID, res.History)); err != nil {
		s.log.WithField("order_id", id).WithError(err).Error("failed to append order history")
	}

	for _, n := range res.Notifications {
		if err := s.notifier.Notify(n.RecipientID, n.Message); err != nil {
			s.log.WithFields(logrus.Fields{
				"order_id":     id,
				"recipient_id": n.RecipientID,
			}).WithError(err).Warn("failed to send order notification")
		}
	}

	return &res.Updated, nil
}

func (s *orderService) GetOrderHistory(id string) ([]models.OrderHistory, error) {
	return s.historyRepo.GetByOrderID(id)
}

func toHistoryRows(orderID string, entries []lifecycle.HistoryEntry) []models.OrderHistory {
	rows := make([]models.OrderHistory, 0, len(entries))
	for _, e := range entries {
		meta := ""
		if len(e.Meta) > 0 {
			if raw, err := json.Marshal(e.Meta); err == nil {
				meta = string(raw)
			}
		}
		rows = append(rows, models.OrderHistory{
			OrderID:     orderID,
			EventType:   e.EventType,
			Description: e.Description,
			ActorID:     e.ActorID,
			ActorName:   e.ActorName,
			Meta:        meta,
			CreatedAt:   e.CreatedAt,
		})
	}
	return rows
}
