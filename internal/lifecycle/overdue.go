package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"order_manager/internal/models"
)

// OverdueItem is an active order whose resolved due instant has passed.
type OverdueItem struct {
	Order models.Order
	Due   time.Time
}

// ComputeOverdue selects non-archived, non-done orders due at or before now.
// There is no internal dedup: the sweep is expected to run periodically and
// repeat-notification suppression (cooldown) is the caller's concern.
func ComputeOverdue(orders []models.Order, now time.Time) []OverdueItem {
	var items []OverdueItem
	for _, order := range orders {
		if order.Archived || NormalizeStatus(order.Status) == StatusDone {
			continue
		}
		due := ResolveDue(order.DueDate, order.DueTime)
		if due == nil || due.After(now) {
			continue
		}
		items = append(items, OverdueItem{Order: order, Due: *due})
	}
	return items
}

// OverdueMessage formats the alert sent to the order's assignee. Unlike
// reminders, overdue alerts go to the assignee only: they are actionable by
// the person doing the work.
func OverdueMessage(item OverdueItem, recipient models.User) string {
	title := strings.TrimSpace(item.Order.Title)
	if title == "" {
		title = "Задача"
	}
	dueLabel := FormatDueLabel(item.Due, recipient.Timezone, ShowTime(item.Due, item.Order.DueTime))
	return fmt.Sprintf("⚠️ Задача «%s» просрочена. Срок был: %s", title, dueLabel)
}
