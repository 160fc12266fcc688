package lifecycle

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"order_manager/internal/models"
)

var metricsNow = time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)

func TestComputeProjectMetricsEmpty(t *testing.T) {
	report := ComputeProjectMetrics(nil, nil, nil, nil, metricsNow)

	require.Zero(t, report.TotalOrders)
	require.Zero(t, report.CompletionRate)
	require.Zero(t, report.OnTimeCompletionRate)
	require.Zero(t, report.PrepaymentShare)
	require.Zero(t, report.ReminderFollowThroughRate)
	require.Nil(t, report.AvgCompletionHours)

	// all four canonical statuses present, zero-filled
	require.Len(t, report.StatusCounts, 4)
	for _, s := range AllStatuses() {
		count, ok := report.StatusCounts[s]
		require.True(t, ok)
		require.Zero(t, count)
	}
}

func TestComputeProjectMetricsStatusDistribution(t *testing.T) {
	orders := []models.Order{
		{ID: "a", Status: "done"},
		{ID: "b", Status: "done"},
		{ID: "c", Status: "in_progress"},
		{ID: "d", Status: "cancelled"}, // legacy, counts as pending
	}
	report := ComputeProjectMetrics(orders, nil, nil, nil, metricsNow)

	require.Equal(t, 4, report.TotalOrders)
	require.Equal(t, 2, report.StatusCounts[StatusDone])
	require.Equal(t, 1, report.StatusCounts[StatusInProgress])
	require.Equal(t, 1, report.StatusCounts[StatusPending])
	require.Equal(t, 0, report.StatusCounts[StatusReview])
	require.Equal(t, 50, report.CompletionRate)
}

func TestComputeProjectMetricsOverdueAndDueSoon(t *testing.T) {
	orders := []models.Order{
		{ID: "a", Status: "in_progress", DueDate: "2024-10-09"},                  // overdue
		{ID: "b", Status: "pending", DueDate: "2024-10-11"},                      // due soon
		{ID: "c", Status: "pending", DueDate: "2024-10-20"},                      // far future
		{ID: "d", Status: "done", DueDate: "2024-10-01"},                         // done, not counted
		{ID: "e", Status: "pending", DueDate: "2024-10-01", Archived: true},      // archived, not counted
	}
	report := ComputeProjectMetrics(orders, nil, nil, nil, metricsNow)

	require.Equal(t, 1, report.OverdueCount)
	require.Equal(t, 1, report.DueSoonCount)
}

func TestComputeProjectMetricsFinancials(t *testing.T) {
	orders := []models.Order{
		{
			ID:               "a",
			Status:           "done",
			TotalAmount:      decimal.NewFromInt(1000),
			PrepaymentAmount: decimal.NewFromInt(300),
		},
	}
	report := ComputeProjectMetrics(orders, nil, nil, nil, metricsNow)

	require.Equal(t, "1000", report.TotalAmount.String())
	require.Equal(t, "300", report.PrepaymentAmount.String())
	require.Equal(t, "700", report.OutstandingAmount.String())
	require.Equal(t, 30, report.PrepaymentShare)
}

func TestComputeProjectMetricsOutstandingNeverNegative(t *testing.T) {
	orders := []models.Order{
		{
			ID:               "a",
			TotalAmount:      decimal.NewFromInt(100),
			PrepaymentAmount: decimal.NewFromInt(250),
		},
	}
	report := ComputeProjectMetrics(orders, nil, nil, nil, metricsNow)
	require.Equal(t, "0", report.OutstandingAmount.String())
}

func TestComputeProjectMetricsOnTimeCompletion(t *testing.T) {
	created := metricsNow.Add(-72 * time.Hour)
	orders := []models.Order{
		{ID: "on-time", Status: "done", DueDate: "2024-10-09", CreatedAt: created},
		{ID: "late", Status: "done", DueDate: "2024-10-05", CreatedAt: created},
		{ID: "no-due", Status: "done", CreatedAt: created},
	}
	history := []models.OrderHistory{
		{OrderID: "on-time", EventType: "status.done", CreatedAt: time.Date(2024, 10, 8, 10, 0, 0, 0, time.UTC)},
		{OrderID: "late", EventType: "status.done", CreatedAt: time.Date(2024, 10, 7, 10, 0, 0, 0, time.UTC)},
		{OrderID: "no-due", EventType: "status.done", CreatedAt: time.Date(2024, 10, 8, 10, 0, 0, 0, time.UTC)},
	}
	report := ComputeProjectMetrics(orders, history, nil, nil, metricsNow)

	// on-time among done-with-due: 1 of 2
	require.Equal(t, 50, report.OnTimeCompletionRate)
}

func TestComputeProjectMetricsDoneInstantFallsBackToUpdatedAt(t *testing.T) {
	// completed before audit logging existed: no status.done event
	orders := []models.Order{
		{
			ID:        "a",
			Status:    "done",
			DueDate:   "2024-10-09",
			CreatedAt: metricsNow.Add(-48 * time.Hour),
			UpdatedAt: time.Date(2024, 10, 8, 9, 0, 0, 0, time.UTC),
		},
	}
	report := ComputeProjectMetrics(orders, nil, nil, nil, metricsNow)
	require.Equal(t, 100, report.OnTimeCompletionRate)
}

func TestComputeProjectMetricsAvgCompletionHours(t *testing.T) {
	created := time.Date(2024, 10, 7, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: "a", Status: "done", CreatedAt: created},
		{ID: "b", Status: "done", CreatedAt: created},
	}
	history := []models.OrderHistory{
		{OrderID: "a", EventType: "status.done", CreatedAt: created.Add(10 * time.Hour)},
		{OrderID: "b", EventType: "status.done", CreatedAt: created.Add(15 * time.Hour)},
	}
	report := ComputeProjectMetrics(orders, history, nil, nil, metricsNow)

	require.NotNil(t, report.AvgCompletionHours)
	require.Equal(t, 12.5, *report.AvgCompletionHours)
}

func TestComputeProjectMetricsReviewCounts(t *testing.T) {
	orders := []models.Order{
		{ID: "a", ReviewComment: "поправить отступы"},                          // awaiting response
		{ID: "b", ReviewComment: "ок?", ReviewAnswer: "готово"},                // answered
		{ID: "c", ReviewImages: `["img-1.png"]`},                               // images only
		{ID: "d"},                                                              // no review signal
	}
	history := []models.OrderHistory{
		{OrderID: "a", EventType: "status.review", CreatedAt: metricsNow.Add(-3 * time.Hour)},
		{OrderID: "a", EventType: "status.in_progress", CreatedAt: metricsNow.Add(-2 * time.Hour)},
		{OrderID: "a", EventType: "status.review", CreatedAt: metricsNow.Add(-1 * time.Hour)},
		{OrderID: "b", EventType: "status.review", CreatedAt: metricsNow.Add(-1 * time.Hour)},
	}
	report := ComputeProjectMetrics(orders, history, nil, nil, metricsNow)

	require.Equal(t, 3, report.WithReviewCount)
	require.Equal(t, 1, report.AwaitingResponseCount)
	require.Equal(t, 1, report.ReturnedToReviewCount) // only "a" re-entered review
}

func TestComputeProjectMetricsReminderFollowThrough(t *testing.T) {
	target := time.Date(2024, 10, 8, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: "fast", Status: "done", CreatedAt: target.Add(-time.Hour)},
		{ID: "slow", Status: "done", CreatedAt: target.Add(-time.Hour)},
		{ID: "stuck", Status: "in_progress", CreatedAt: target.Add(-time.Hour)},
		{ID: "unreminded", Status: "done", CreatedAt: target.Add(-time.Hour)},
	}
	history := []models.OrderHistory{
		{OrderID: "fast", EventType: "status.done", CreatedAt: target.Add(6 * time.Hour)},
		{OrderID: "slow", EventType: "status.done", CreatedAt: target.Add(40 * time.Hour)},
		{OrderID: "unreminded", EventType: "status.done", CreatedAt: target.Add(time.Hour)},
	}
	logEntries := []models.ReminderLog{
		{OrderID: "fast", Offset: "1h", Target: target},
		{OrderID: "slow", Offset: "1h", Target: target},
		{OrderID: "stuck", Offset: "1h", Target: target},
	}
	report := ComputeProjectMetrics(orders, history, logEntries, nil, metricsNow)

	// of three reminded orders only "fast" was done within 24h of the target
	require.Equal(t, 33, report.ReminderFollowThroughRate)
}

func TestComputeProjectMetricsWindow(t *testing.T) {
	orders := []models.Order{
		{ID: "old", Status: "done", CreatedAt: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "new", Status: "pending", CreatedAt: time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)},
	}
	from := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	report := ComputeProjectMetrics(orders, nil, nil, &Window{From: &from}, metricsNow)

	require.Equal(t, 1, report.TotalOrders)
	require.Equal(t, 0, report.CompletionRate)
}
