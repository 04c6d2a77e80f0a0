package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

func newAp(id uint, slot string, prio ticket.Priority, status ticket.Status) models.Appointment {
	ap := models.Appointment{
		ID:              id,
		BranchID:        1,
		ServiceType:     "Cash",
		AppointmentDate: "2025-01-10",
		TimeSlot:        slot,
		Status:          status,
	}
	ap.SetPriority(prio)
	return ap
}

func ids(aps []models.Appointment) []uint {
	out := make([]uint, len(aps))
	for i, ap := range aps {
		out[i] = ap.ID
	}
	return out
}

func TestWaitingListOrdersByPriorityThenSlot(t *testing.T) {
	a := newAp(1, "09:00", ticket.PriorityNormal, ticket.StatusPending)
	b := newAp(2, "09:30", ticket.PriorityEmergency, ticket.StatusPending)
	c := newAp(3, "09:15", ticket.PriorityNormal, ticket.StatusPending)
	d := newAp(4, "08:45", ticket.PriorityNormal, ticket.StatusCancelled)

	waiting := WaitingList(ScopeOf(&a), []models.Appointment{a, b, c, d})
	assert.Equal(t, []uint{2, 1, 3}, ids(waiting))
}

func TestWaitingListIgnoresOtherScopes(t *testing.T) {
	a := newAp(1, "09:00", ticket.PriorityNormal, ticket.StatusPending)
	other := newAp(2, "09:30", ticket.PriorityNormal, ticket.StatusPending)
	other.ServiceType = "Loans"

	assert.Equal(t, []uint{1}, ids(WaitingList(ScopeOf(&a), []models.Appointment{a, other})))
}

func TestBuildView(t *testing.T) {
	a := newAp(1, "09:00", ticket.PriorityNormal, ticket.StatusPending)
	b := newAp(2, "09:30", ticket.PriorityEmergency, ticket.StatusPending)
	done := newAp(3, "08:30", ticket.PriorityNormal, ticket.StatusCompleted)
	done.UpdatedAt = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	earlier := newAp(4, "08:45", ticket.PriorityNormal, ticket.StatusCompleted)
	earlier.UpdatedAt = done.UpdatedAt.Add(-time.Minute)

	all := []models.Appointment{a, b, done, earlier}

	view := BuildView(&a, all)
	require.NotNil(t, view.NowServing)
	assert.Equal(t, uint(3), view.NowServing.ID)
	assert.Equal(t, []uint{2, 1}, ids(view.Waiting))
	assert.Equal(t, 2, view.Position)

	assert.Equal(t, 1, BuildView(&b, all).Position)
	assert.Equal(t, 0, BuildView(&done, all).Position)

	// Same store state, same view.
	assert.Equal(t, view, BuildView(&a, all))
}

func TestBuildViewEmpty(t *testing.T) {
	a := newAp(1, "09:00", ticket.PriorityNormal, ticket.StatusCancelled)
	view := BuildView(&a, []models.Appointment{a})
	assert.Nil(t, view.NowServing)
	assert.Empty(t, view.Waiting)
	assert.Zero(t, view.Position)
}

func TestNextUp(t *testing.T) {
	a := newAp(1, "09:00", ticket.PriorityNormal, ticket.StatusCompleted)
	b := newAp(2, "09:30", ticket.PriorityEmergency, ticket.StatusPending)
	c := newAp(3, "09:15", ticket.PriorityChildInfant, ticket.StatusPending)

	next := NextUp(ScopeOf(&a), []models.Appointment{a, b, c})
	require.NotNil(t, next)
	assert.Equal(t, uint(2), next.ID)

	assert.Nil(t, NextUp(ScopeOf(&a), []models.Appointment{a}))
}

func TestScopeKey(t *testing.T) {
	s := Scope{BranchID: 7, Date: "2025-01-10", ServiceType: "Cash"}
	assert.Equal(t, "7:2025-01-10:Cash", s.Key())
}
