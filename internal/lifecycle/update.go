package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"order_manager/internal/models"
)

var (
	ErrNothingToUpdate  = errors.New("nothing to update")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
)

// Actor is the user performing an update.
type Actor struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// DisplayName resolves first+last name, falling back to username.
func (a Actor) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
	if name != "" {
		return name
	}
	return a.Username
}

// Assignee in a patch. ID 0 clears the assignment.
type Assignee struct {
	ID   int64
	Name string
}

// Patch is a validated partial update. Nil fields are left untouched.
type Patch struct {
	Title            *string
	Description      *string
	Status           *string
	DueDate          *string
	DueTime          *string
	Assignee         *Assignee
	ReminderOffsets  *string
	ReviewComment    *string
	ReviewImages     *string
	ReviewAnswer     *string
	TotalAmount      *decimal.Decimal
	PrepaymentAmount *decimal.Decimal
	Archived         *bool
}

func (p Patch) empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.DueDate == nil && p.DueTime == nil && p.Assignee == nil &&
		p.ReminderOffsets == nil && p.ReviewComment == nil &&
		p.ReviewImages == nil && p.ReviewAnswer == nil &&
		p.TotalAmount == nil && p.PrepaymentAmount == nil && p.Archived == nil
}

// HistoryEntry is an audit record to append.
type HistoryEntry struct {
	EventType   string
	Description string
	ActorID     int64
	ActorName   string
	Meta        map[string]string
	CreatedAt   time.Time
}

// Notification is an intent to message a user. Delivery is the caller's
// concern and must never block or fail the update itself.
type Notification struct {
	RecipientID int64
	Message     string
}

// UpdateResult carries the new order state plus the side-effect intents the
// caller has to persist and dispatch.
type UpdateResult struct {
	Updated       models.Order
	History       []HistoryEntry
	Notifications []Notification
}

// ApplyUpdate computes the effect of a patch on an order: the new state, the
// history entries for every field that actually changed, and notification
// intents. It performs no I/O.
//
// Only the order's creator may toggle the archived flag. An empty patch is
// rejected with ErrNothingToUpdate.
func ApplyUpdate(order models.Order, patch Patch, actor Actor, now time.Time) (*UpdateResult, error) {
	if patch.empty() {
		return nil, ErrNothingToUpdate
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.Archived != nil && *patch.Archived != order.Archived && actor.ID != order.CreatorID {
		return nil, fmt.Errorf("%w: only the order creator may archive or restore it", ErrPermissionDenied)
	}

	res := &UpdateResult{Updated: order}
	updated := &res.Updated

	if patch.Title != nil {
		updated.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.DueDate != nil {
		updated.DueDate = strings.TrimSpace(*patch.DueDate)
	}
	if patch.DueTime != nil {
		updated.DueTime = strings.TrimSpace(*patch.DueTime)
	}
	if patch.ReminderOffsets != nil {
		// normalize on write, tolerate on read
		updated.ReminderOffsets = JoinOffsets(ParseOffsets(*patch.ReminderOffsets))
	}
	if patch.ReviewComment != nil {
		updated.ReviewComment = *patch.ReviewComment
	}
	if patch.ReviewImages != nil {
		updated.ReviewImages = *patch.ReviewImages
	}
	if patch.ReviewAnswer != nil {
		updated.ReviewAnswer = *patch.ReviewAnswer
	}
	if patch.TotalAmount != nil {
		updated.TotalAmount = *patch.TotalAmount
	}
	if patch.PrepaymentAmount != nil {
		updated.PrepaymentAmount = *patch.PrepaymentAmount
	}

	if patch.Assignee != nil {
		applyAssigneeChange(order, patch.Assignee, res)
	}
	if patch.Status != nil {
		applyStatusChange(order, *patch.Status, res)
	}
	if patch.Archived != nil {
		applyArchivedChange(order, *patch.Archived, res)
	}

	updated.Status = string(NormalizeStatus(updated.Status))
	updated.UpdatedAt = now
	stampHistory(res.History, actor, now)
	return res, nil
}

func validatePatch(p Patch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if p.TotalAmount != nil && p.TotalAmount.IsNegative() {
		return fmt.Errorf("%w: total amount must not be negative", ErrValidation)
	}
	if p.PrepaymentAmount != nil && p.PrepaymentAmount.IsNegative() {
		return fmt.Errorf("%w: prepayment amount must not be negative", ErrValidation)
	}
	return nil
}

func applyAssigneeChange(order models.Order, a *Assignee, res *UpdateResult) {
	if a.ID == order.AssigneeID {
		// same assignee, maybe a refreshed display name
		res.Updated.AssigneeName = a.Name
		return
	}

	if a.ID == 0 {
		res.Updated.AssigneeID = 0
		res.Updated.AssigneeName = ""
		res.History = append(res.History, HistoryEntry{
			EventType:   "assignee.removed",
			Description: "Исполнитель снят",
		})
		return
	}

	res.Updated.AssigneeID = a.ID
	res.Updated.AssigneeName = a.Name
	res.History = append(res.History, HistoryEntry{
		EventType:   "assignee.assigned",
		Description: fmt.Sprintf("Назначен исполнитель: %s", a.Name),
		Meta:        map[string]string{"assignee_id": fmt.Sprintf("%d", a.ID)},
	})
}

func applyStatusChange(order models.Order, rawStatus string, res *UpdateResult) {
	oldStatus := NormalizeStatus(order.Status)
	newStatus := NormalizeStatus(rawStatus)
	res.Updated.Status = string(newStatus)
	if newStatus == oldStatus {
		return
	}

	res.History = append(res.History, HistoryEntry{
		EventType:   "status." + string(newStatus),
		Description: statusChangeDescription(oldStatus, newStatus, res.Updated.ReviewAnswer),
		Meta:        map[string]string{"from": string(oldStatus), "to": string(newStatus)},
	})

	// Notify the creator about a genuine hand-off into work. An order cycling
	// through in_progress with the same assignee does not re-notify.
	if newStatus == StatusInProgress && (order.AssigneeID == 0 || oldStatus == StatusPending) {
		title := res.Updated.Title
		if strings.TrimSpace(title) == "" {
			title = "Задача"
		}
		msg := fmt.Sprintf("🚀 Задача «%s» взята в работу", title)
		if name := res.Updated.AssigneeName; name != "" {
			msg += fmt.Sprintf(" исполнителем %s", name)
		}
		if order.CreatorID != 0 {
			res.Notifications = append(res.Notifications, Notification{
				RecipientID: order.CreatorID,
				Message:     msg,
			})
		}
	}
}

func statusChangeDescription(from, to Status, reviewAnswer string) string {
	switch to {
	case StatusInProgress:
		if from == StatusReview {
			if answer := strings.TrimSpace(reviewAnswer); answer != "" {
				return fmt.Sprintf("Возвращена на доработку: %s", answer)
			}
			return "Возвращена на доработку"
		}
		return "Задача взята в работу"
	case StatusReview:
		return "Задача отправлена на проверку"
	case StatusDone:
		return "Задача завершена"
	case StatusPending:
		return "Задача возвращена в новые"
	default:
		return fmt.Sprintf("Статус изменён: «%s» → «%s»", from.Label(), to.Label())
	}
}

func applyArchivedChange(order models.Order, archived bool, res *UpdateResult) {
	if archived == order.Archived {
		return
	}
	res.Updated.Archived = archived
	if archived {
		res.History = append(res.History, HistoryEntry{
			EventType:   "archived",
			Description: "Отправлена в архив",
		})
		return
	}
	res.History = append(res.History, HistoryEntry{
		EventType:   "unarchived",
		Description: "Восстановлена из архива",
	})
}

// stampHistory sets actor attribution and strictly increasing timestamps so
// that bulk inserts keep their order under coarse clock resolution.
func stampHistory(entries []HistoryEntry, actor Actor, now time.Time) {
	for i := range entries {
		entries[i].ActorID = actor.ID
		entries[i].ActorName = actor.DisplayName()
		entries[i].CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
	}
}
