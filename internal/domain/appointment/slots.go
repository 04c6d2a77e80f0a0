package appointment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

const (
	DefaultOpeningTime = "09:00"
	DefaultClosingTime = "17:00"
	DefaultSlotMinutes = 15

	minutesPerDay = 24 * 60
)

// WorkingHours is a branch's bookable window in minutes since midnight.
type WorkingHours struct {
	OpeningMinutes int
	ClosingMinutes int
	SlotMinutes    int
}

// ResolveWorkingHours falls back to the defaults for missing values and
// rejects windows that cannot produce a slot grid.
func ResolveWorkingHours(opening, closing string, slotDuration *int) (WorkingHours, error) {
	if strings.TrimSpace(opening) == "" {
		opening = DefaultOpeningTime
	}
	if strings.TrimSpace(closing) == "" {
		closing = DefaultClosingTime
	}

	open, err := ParseTimeOfDay(opening)
	if err != nil {
		return WorkingHours{}, httperr.ErrValidation("invalid_working_hours")
	}
	closeAt, err := ParseTimeOfDay(closing)
	if err != nil {
		return WorkingHours{}, httperr.ErrValidation("invalid_working_hours")
	}

	slot := DefaultSlotMinutes
	if slotDuration != nil {
		slot = *slotDuration
	}
	if slot <= 0 {
		return WorkingHours{}, httperr.ErrValidation("invalid_slot_duration")
	}
	if open >= closeAt {
		return WorkingHours{}, httperr.ErrValidation("invalid_working_hours")
	}

	return WorkingHours{
		OpeningMinutes: open,
		ClosingMinutes: closeAt,
		SlotMinutes:    slot,
	}, nil
}

func BranchHours(b *models.Branch) (WorkingHours, error) {
	return ResolveWorkingHours(b.OpeningTime, b.ClosingTime, b.SlotDuration)
}

// ParseTimeOfDay converts "HH:MM" or "HH:MM:SS" to minutes since midnight.
// Seconds are validated and then dropped.
func ParseTimeOfDay(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}

	limits := []int{23, 59, 59}
	values := make([]int, len(parts))
	for i, p := range parts {
		if p == "" || len(p) > 2 {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > limits[i] {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		values[i] = v
	}

	return values[0]*60 + values[1], nil
}

func FormatTimeOfDay(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CandidateSlots lists every slot start of the grid. A slot is offered only
// when it ends by closing time, so the grid holds
// floor((closing-opening)/slot) entries. A trailing partial slot is never
// offered even though it would start before closing: 09:00-17:00 at 45
// minutes ends with 15:45, not 16:30.
func (wh WorkingHours) CandidateSlots() []string {
	if wh.SlotMinutes <= 0 || wh.OpeningMinutes >= wh.ClosingMinutes {
		return nil
	}

	slots := make([]string, 0, (wh.ClosingMinutes-wh.OpeningMinutes)/wh.SlotMinutes)
	for m := wh.OpeningMinutes; m+wh.SlotMinutes <= wh.ClosingMinutes; m += wh.SlotMinutes {
		slots = append(slots, FormatTimeOfDay(m))
	}
	return slots
}

// OnGrid reports whether slot is one of the grid's start times.
func (wh WorkingHours) OnGrid(slot string) bool {
	m, err := ParseTimeOfDay(slot)
	if err != nil || wh.SlotMinutes <= 0 {
		return false
	}
	if m < wh.OpeningMinutes || m+wh.SlotMinutes > wh.ClosingMinutes {
		return false
	}
	return (m-wh.OpeningMinutes)%wh.SlotMinutes == 0
}

type SlotQuery struct {
	Hours    WorkingHours
	Occupied []string

	// IsToday enables the past-slot filter against NowMinutes.
	IsToday    bool
	NowMinutes int
}

// AvailableSlots is the grid minus occupied slots and, for today, minus
// slots that already started. The result is ascending and duplicate free.
func AvailableSlots(q SlotQuery) []string {
	occupied := make(map[string]struct{}, len(q.Occupied))
	for _, s := range q.Occupied {
		occupied[NormalizeSlot(s)] = struct{}{}
	}

	candidates := q.Hours.CandidateSlots()
	available := make([]string, 0, len(candidates))
	for _, slot := range candidates {
		if _, taken := occupied[slot]; taken {
			continue
		}
		if q.IsToday {
			if m, _ := ParseTimeOfDay(slot); m < q.NowMinutes {
				continue
			}
		}
		available = append(available, slot)
	}
	return available
}

// NormalizeSlot rewrites a parseable time of day to the zero padded "HH:MM"
// form used by the grid; anything else is returned trimmed.
func NormalizeSlot(s string) string {
	m, err := ParseTimeOfDay(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return FormatTimeOfDay(m)
}
