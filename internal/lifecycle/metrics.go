package lifecycle

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"order_manager/internal/models"
)

// dueSoonHorizon is how far ahead an active order's due instant may lie to
// count as "due soon".
const dueSoonHorizon = 48 * time.Hour

// reminderFollowThrough is the window after a reminder's target instant in
// which completion counts towards the reminder-effectiveness signal.
const reminderFollowThrough = 24 * time.Hour

// Window optionally restricts metrics to orders created inside [From, To].
type Window struct {
	From *time.Time
	To   *time.Time
}

func (w *Window) contains(t time.Time) bool {
	if w == nil {
		return true
	}
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && t.After(*w.To) {
		return false
	}
	return true
}

// Report is the derived project statistics. All percentages are rounded to
// the nearest integer and zero denominators yield 0, never NaN.
type Report struct {
	TotalOrders  int            `json:"total_orders"`
	StatusCounts map[Status]int `json:"status_counts"`

	CompletionRate int `json:"completion_rate"`
	OverdueCount   int `json:"overdue_count"`
	DueSoonCount   int `json:"due_soon_count"`

	OnTimeCompletionRate int      `json:"on_time_completion_rate"`
	AvgCompletionHours   *float64 `json:"avg_completion_hours"` // one decimal place, null when underivable

	TotalAmount       decimal.Decimal `json:"total_amount"`
	PrepaymentAmount  decimal.Decimal `json:"prepayment_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	PrepaymentShare   int             `json:"prepayment_share"`

	WithReviewCount       int `json:"with_review_count"`
	AwaitingResponseCount int `json:"awaiting_response_count"`
	ReturnedToReviewCount int `json:"returned_to_review_count"`

	ReminderFollowThroughRate int `json:"reminder_follow_through_rate"`
}

// ComputeProjectMetrics derives completion, timing, financial and review
// statistics from a project's order set, its audit history and its reminder
// log. Archived orders stay in the totals; only overdue/due-soon counting is
// restricted to active orders.
func ComputeProjectMetrics(orders []models.Order, history []models.OrderHistory, logEntries []models.ReminderLog, window *Window, now time.Time) Report {
	report := Report{
		StatusCounts: make(map[Status]int, 4),
	}
	for _, s := range AllStatuses() {
		report.StatusCounts[s] = 0
	}

	var scoped []models.Order
	for _, order := range orders {
		if window.contains(order.CreatedAt) {
			scoped = append(scoped, order)
		}
	}

	doneEvents := doneEventTimes(history)
	reviewEventCounts := countEvents(history, "status.review")
	lastReminderTargets := latestReminderTargets(logEntries)

	doneCount := 0
	onTimeDone, onTimeTotal := 0, 0
	var completionHours []float64
	remindedTotal, remindedDone := 0, 0

	for _, order := range scoped {
		status := NormalizeStatus(order.Status)
		report.StatusCounts[status]++

		due := ResolveDue(order.DueDate, order.DueTime)
		active := !order.Archived && status != StatusDone
		if active && due != nil {
			if due.Before(now) {
				report.OverdueCount++
			} else if !due.After(now.Add(dueSoonHorizon)) {
				report.DueSoonCount++
			}
		}

		doneAt, hasDoneAt := doneEvents[order.ID]
		if !hasDoneAt {
			// Orders completed before audit logging have no status.done event;
			// the last update is the best available approximation.
			doneAt = order.UpdatedAt
		}

		if status == StatusDone {
			doneCount++
			if due != nil {
				onTimeTotal++
				if !doneAt.After(*due) {
					onTimeDone++
				}
			}
			if hours := doneAt.Sub(order.CreatedAt).Hours(); hours > 0 {
				completionHours = append(completionHours, hours)
			}
		}

		report.TotalAmount = report.TotalAmount.Add(order.TotalAmount)
		report.PrepaymentAmount = report.PrepaymentAmount.Add(order.PrepaymentAmount)

		hasComment := strings.TrimSpace(order.ReviewComment) != ""
		hasImages := hasReviewImages(order.ReviewImages)
		hasAnswer := strings.TrimSpace(order.ReviewAnswer) != ""
		if hasComment || hasImages || hasAnswer {
			report.WithReviewCount++
		}
		if hasComment && !hasAnswer {
			report.AwaitingResponseCount++
		}
		if reviewEventCounts[order.ID] >= 2 {
			report.ReturnedToReviewCount++
		}

		if target, ok := lastReminderTargets[order.ID]; ok {
			remindedTotal++
			if status == StatusDone && !doneAt.After(target.Add(reminderFollowThrough)) {
				remindedDone++
			}
		}
	}

	report.TotalOrders = len(scoped)
	report.CompletionRate = percent(doneCount, report.TotalOrders)
	report.OnTimeCompletionRate = percent(onTimeDone, onTimeTotal)
	report.ReminderFollowThroughRate = percent(remindedDone, remindedTotal)

	if len(completionHours) > 0 {
		sum := 0.0
		for _, h := range completionHours {
			sum += h
		}
		avg := math.Round(sum/float64(len(completionHours))*10) / 10
		report.AvgCompletionHours = &avg
	}

	report.OutstandingAmount = report.TotalAmount.Sub(report.PrepaymentAmount)
	if report.OutstandingAmount.IsNegative() {
		report.OutstandingAmount = decimal.Zero
	}
	if report.TotalAmount.IsPositive() {
		share := report.PrepaymentAmount.
			Div(report.TotalAmount).
			Mul(decimal.NewFromInt(100)).
			Round(0)
		report.PrepaymentShare = int(share.IntPart())
	}

	return report
}

// doneEventTimes maps order id to the timestamp of its latest status.done
// history event.
func doneEventTimes(history []models.OrderHistory) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, entry := range history {
		if entry.EventType != "status.done" {
			continue
		}
		if prev, ok := out[entry.OrderID]; !ok || entry.CreatedAt.After(prev) {
			out[entry.OrderID] = entry.CreatedAt
		}
	}
	return out
}

// countEvents counts history entries of one event type per order. Two or more
// status.review events mean the order left review and came back at least once.
func countEvents(history []models.OrderHistory, eventType string) map[string]int {
	out := make(map[string]int)
	for _, entry := range history {
		if entry.EventType == eventType {
			out[entry.OrderID]++
		}
	}
	return out
}

// latestReminderTargets maps order id to the latest reminder target logged.
func latestReminderTargets(logEntries []models.ReminderLog) map[string]time.Time {
	byOrder := make(map[string][]time.Time)
	for _, e := range logEntries {
		byOrder[e.OrderID] = append(byOrder[e.OrderID], e.Target)
	}
	out := make(map[string]time.Time, len(byOrder))
	for id, targets := range byOrder {
		sort.Slice(targets, func(i, j int) bool { return targets[i].Before(targets[j]) })
		out[id] = targets[len(targets)-1]
	}
	return out
}

// hasReviewImages reports whether the stored JSON array holds any entry.
// Lenient on purpose: a malformed value counts as no images.
func hasReviewImages(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw != "" && raw != "[]" && raw != "null"
}

// percent rounds part/total to the nearest integer percentage, guarding the
// zero denominator.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
