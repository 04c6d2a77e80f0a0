package appointment

import (
	"fmt"
	"sort"

	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

// Scope identifies one queue: a service at a branch on a date.
type Scope struct {
	BranchID    uint   `json:"branch_id"`
	Date        string `json:"date"`
	ServiceType string `json:"service_type"`
}

func ScopeOf(ap *models.Appointment) Scope {
	return Scope{
		BranchID:    ap.BranchID,
		Date:        ap.AppointmentDate,
		ServiceType: ap.ServiceType,
	}
}

func (s Scope) Key() string {
	return fmt.Sprintf("%d:%s:%s", s.BranchID, s.Date, s.ServiceType)
}

func (s Scope) Contains(ap *models.Appointment) bool {
	return ap.BranchID == s.BranchID &&
		ap.AppointmentDate == s.Date &&
		ap.ServiceType == s.ServiceType
}

// lessServing is the serving order: priority level, then slot, then id.
func lessServing(a, b *models.Appointment) bool {
	if a.PriorityLevel != b.PriorityLevel {
		return a.PriorityLevel.Before(b.PriorityLevel)
	}
	sa, sb := NormalizeSlot(a.TimeSlot), NormalizeSlot(b.TimeSlot)
	if sa != sb {
		return sa < sb
	}
	return a.ID < b.ID
}

// WaitingList returns the pending appointments of scope in serving order.
// The input slice is not modified.
func WaitingList(scope Scope, appointments []models.Appointment) []models.Appointment {
	waiting := make([]models.Appointment, 0, len(appointments))
	for i := range appointments {
		ap := &appointments[i]
		if ap.Status == ticket.StatusPending && scope.Contains(ap) {
			waiting = append(waiting, *ap)
		}
	}
	sort.SliceStable(waiting, func(i, j int) bool {
		return lessServing(&waiting[i], &waiting[j])
	})
	return waiting
}

// NextUp is the head of the waiting list, nil when nobody waits.
func NextUp(scope Scope, appointments []models.Appointment) *models.Appointment {
	waiting := WaitingList(scope, appointments)
	if len(waiting) == 0 {
		return nil
	}
	return &waiting[0]
}

// NowServing picks the most recently updated completed appointment of scope.
func NowServing(scope Scope, appointments []models.Appointment) *models.Appointment {
	var current *models.Appointment
	for i := range appointments {
		ap := &appointments[i]
		if ap.Status != ticket.StatusCompleted || !scope.Contains(ap) {
			continue
		}
		if current == nil || ap.UpdatedAt.After(current.UpdatedAt) ||
			(ap.UpdatedAt.Equal(current.UpdatedAt) && ap.ID > current.ID) {
			current = ap
		}
	}
	if current == nil {
		return nil
	}
	out := *current
	return &out
}

type View struct {
	NowServing *models.Appointment
	Waiting    []models.Appointment

	// Position is the 1-based place of the reference appointment in Waiting,
	// 0 when it is not pending.
	Position int
}

// BuildView derives the queue around ref from the appointments loaded for
// its scope. It holds no state, so equal inputs give equal views.
func BuildView(ref *models.Appointment, appointments []models.Appointment) View {
	scope := ScopeOf(ref)
	view := View{
		NowServing: NowServing(scope, appointments),
		Waiting:    WaitingList(scope, appointments),
	}
	for i := range view.Waiting {
		if view.Waiting[i].ID == ref.ID {
			view.Position = i + 1
			break
		}
	}
	return view
}
