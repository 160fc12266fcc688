package lifecycle

import (
	"encoding/json"
	"strings"
	"time"
)

// Offset is a reminder lead time: notify this long before the due instant.
type Offset string

const (
	Offset15m Offset = "15m"
	Offset30m Offset = "30m"
	Offset1h  Offset = "1h"
	Offset2h  Offset = "2h"
	Offset3h  Offset = "3h"
	Offset6h  Offset = "6h"
	Offset12h Offset = "12h"
	Offset1d  Offset = "1d"
	Offset2d  Offset = "2d"
)

// offsetOrder is the canonical ordering, used for normalization and display.
var offsetOrder = []Offset{
	Offset15m, Offset30m, Offset1h, Offset2h, Offset3h,
	Offset6h, Offset12h, Offset1d, Offset2d,
}

var offsetDurations = map[Offset]time.Duration{
	Offset15m: 15 * time.Minute,
	Offset30m: 30 * time.Minute,
	Offset1h:  time.Hour,
	Offset2h:  2 * time.Hour,
	Offset3h:  3 * time.Hour,
	Offset6h:  6 * time.Hour,
	Offset12h: 12 * time.Hour,
	Offset1d:  24 * time.Hour,
	Offset2d:  48 * time.Hour,
}

var offsetLabels = map[Offset]string{
	Offset15m: "за 15 минут",
	Offset30m: "за 30 минут",
	Offset1h:  "за 1 час",
	Offset2h:  "за 2 часа",
	Offset3h:  "за 3 часа",
	Offset6h:  "за 6 часов",
	Offset12h: "за 12 часов",
	Offset1d:  "за 1 день",
	Offset2d:  "за 2 дня",
}

// Duration returns the lead time as a duration. Unknown offsets return 0.
func (o Offset) Duration() time.Duration {
	return offsetDurations[o]
}

// Label returns the lead-time display label, e.g. "за 1 час".
func (o Offset) Label() string {
	return offsetLabels[o]
}

// ParseOffsets parses the raw stored reminder configuration. Legacy rows may
// hold a comma-joined string or a JSON-array string; unrecognized tokens are
// dropped and the result is deduplicated in canonical order. Malformed input
// degrades to no reminders, never to an error: a missed reminder is cheaper
// than a crashed sweep.
func ParseOffsets(raw string) []Offset {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var tokens []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
			tokens = strings.Split(raw, ",")
		}
	} else {
		tokens = strings.Split(raw, ",")
	}

	return NormalizeOffsets(tokens)
}

// NormalizeOffsets filters tokens to the known offset set, deduplicates and
// re-orders by canonical declaration order.
func NormalizeOffsets(tokens []string) []Offset {
	seen := make(map[Offset]bool, len(tokens))
	for _, t := range tokens {
		o := Offset(strings.TrimSpace(t))
		if _, ok := offsetDurations[o]; ok {
			seen[o] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}

	out := make([]Offset, 0, len(seen))
	for _, o := range offsetOrder {
		if seen[o] {
			out = append(out, o)
		}
	}
	return out
}

// JoinOffsets serializes offsets into the comma-joined storage form.
func JoinOffsets(offsets []Offset) string {
	parts := make([]string, 0, len(offsets))
	for _, o := range NormalizeOffsets(offsetStrings(offsets)) {
		parts = append(parts, string(o))
	}
	return strings.Join(parts, ",")
}

func offsetStrings(offsets []Offset) []string {
	out := make([]string, len(offsets))
	for i, o := range offsets {
		out[i] = string(o)
	}
	return out
}
