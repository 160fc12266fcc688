package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"order_manager/internal/lifecycle"
	"order_manager/internal/redis"
	"order_manager/internal/repository"
)

type MetricsService interface {
	GetProjectReport(projectID string, window *lifecycle.Window) (*lifecycle.Report, error)
}

type metricsService struct {
	orderRepo   repository.OrderRepository
	historyRepo repository.HistoryRepository
	logRepo     repository.ReminderLogRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	log         *logrus.Logger
}

func NewMetricsService(
	orderRepo repository.OrderRepository,
	historyRepo repository.HistoryRepository,
	logRepo repository.ReminderLogRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	log *logrus.Logger,
) MetricsService {
	return &metricsService{
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		logRepo:     logRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

// GetProjectReport computes the project statistics from a fresh snapshot.
// The unwindowed report is cached briefly: it backs the dashboard and is
// requested far more often than it changes.
func (s *metricsService) GetProjectReport(projectID string, window *lifecycle.Window) (*lifecycle.Report, error) {
	if window == nil {
		var cached lifecycle.Report
		hit, err := s.cache.GetMetricsReport(projectID, &cached)
		if err != nil {
			s.log.WithField("project_id", projectID).WithError(err).Warn("metrics cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	orders, err := s.orderRepo.GetByProject(projectID, true)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	history, err := s.historyRepo.GetByOrderIDs(ids)
	if err != nil {
		return nil, err
	}
	logEntries, err := s.logRepo.GetByOrderIDs(ids)
	if err != nil {
		return nil, err
	}

	report := lifecycle.ComputeProjectMetrics(orders, history, logEntries, window, time.Now())

	if window == nil {
		if err := s.cache.SetMetricsReport(projectID, report, s.cacheTTL); err != nil {
			s.log.WithField("project_id", projectID).WithError(err).Warn("metrics cache write failed")
		}
	}
	return &report, nil
}
