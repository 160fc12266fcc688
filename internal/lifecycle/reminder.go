package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"order_manager/internal/models"
)

// ReminderTolerance is the window half-width around "now" in which a computed
// reminder target counts as due. It accommodates a sweep polling every few
// minutes: a target a couple of minutes early or late is still this tick's.
const ReminderTolerance = 3 * time.Minute

// ReminderKey identifies one logical reminder: the dedup triple.
type ReminderKey struct {
	OrderID string
	Offset  Offset
	Target  time.Time
}

// ReminderNotification is an intent to send one reminder message to one
// recipient.
type ReminderNotification struct {
	Key         ReminderKey
	RecipientID int64
	Message     string
}

// ReminderPlan is the output of a reminder sweep: messages to send and log
// rows to write. The caller must persist a LogWrite only after at least one
// of its notifications was delivered, so a totally failed candidate stays
// eligible on the next sweep.
type ReminderPlan struct {
	Notifications []ReminderNotification
	LogWrites     []ReminderKey
}

// ComputeDueReminders is a pure function of the order snapshot, the reminder
// log snapshot and the current instant. For every configured offset of every
// active order it computes target = due - offset and selects targets within
// ±ReminderTolerance of now, skipping triples already present in the log.
// Recipients are the assignee and the creator, deduplicated.
func ComputeDueReminders(orders []models.Order, logEntries []models.ReminderLog, users map[int64]models.User, now time.Time) ReminderPlan {
	logged := make(map[string]bool, len(logEntries))
	for _, e := range logEntries {
		logged[dedupKey(e.OrderID, Offset(e.Offset), e.Target)] = true
	}

	var plan ReminderPlan
	for _, order := range orders {
		if order.Archived || NormalizeStatus(order.Status) == StatusDone {
			continue
		}
		due := ResolveDue(order.DueDate, order.DueTime)
		if due == nil {
			continue
		}

		for _, offset := range ParseOffsets(order.ReminderOffsets) {
			target := due.Add(-offset.Duration())
			if target.Before(now.Add(-ReminderTolerance)) || target.After(now.Add(ReminderTolerance)) {
				continue
			}
			if logged[dedupKey(order.ID, offset, target)] {
				continue
			}

			recipients := reminderRecipients(order)
			if len(recipients) == 0 {
				continue
			}

			key := ReminderKey{OrderID: order.ID, Offset: offset, Target: target}
			for _, recipient := range recipients {
				plan.Notifications = append(plan.Notifications, ReminderNotification{
					Key:         key,
					RecipientID: recipient,
					Message:     reminderMessage(order, *due, offset, users[recipient]),
				})
			}
			plan.LogWrites = append(plan.LogWrites, key)
		}
	}
	return plan
}

func dedupKey(orderID string, offset Offset, target time.Time) string {
	return fmt.Sprintf("%s|%s|%d", orderID, offset, target.Unix())
}

// reminderRecipients returns assignee and creator as a deduplicated set.
// Both may act on the reminder.
func reminderRecipients(order models.Order) []int64 {
	var recipients []int64
	if order.AssigneeID != 0 {
		recipients = append(recipients, order.AssigneeID)
	}
	if order.CreatorID != 0 && order.CreatorID != order.AssigneeID {
		recipients = append(recipients, order.CreatorID)
	}
	return recipients
}

func reminderMessage(order models.Order, due time.Time, offset Offset, recipient models.User) string {
	title := strings.TrimSpace(order.Title)
	if title == "" {
		title = "Задача"
	}
	dueLabel := FormatDueLabel(due, recipient.Timezone, ShowTime(due, order.DueTime))

	msg := fmt.Sprintf("🔔 Напоминание %s: задача «%s» должна быть выполнена %s", offset.Label(), title, dueLabel)
	if order.AssigneeName != "" {
		msg += fmt.Sprintf("\nИсполнитель: %s", order.AssigneeName)
	}
	return msg
}
