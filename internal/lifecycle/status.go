package lifecycle

import "strings"

// Status is a canonical order status. Raw stored values may be anything
// (legacy rows, hand-edited data); NormalizeStatus maps them onto this set.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// AllStatuses in canonical declaration order.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusReview, StatusDone}
}

// NormalizeStatus maps any raw stored status onto the canonical set.
// Legacy values "new" and "cancelled" fold into pending, as does anything
// unrecognized. Total over all strings.
func NormalizeStatus(raw string) Status {
	switch Status(strings.TrimSpace(raw)) {
	case StatusInProgress:
		return StatusInProgress
	case StatusReview:
		return StatusReview
	case StatusDone:
		return StatusDone
	default:
		// pending, new, cancelled, empty, garbage
		return StatusPending
	}
}

var statusLabels = map[Status]string{
	StatusPending:    "Новая",
	StatusInProgress: "В работе",
	StatusReview:     "На проверке",
	StatusDone:       "Завершена",
}

// Label returns the display label for a status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return statusLabels[StatusPending]
}
