package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

func TestTransition(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: ticket.StatusPending}
	to, err := Transition(ap, "completed", now)
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusCompleted, to)
	require.NotNil(t, ap.CompletedAt)
	assert.Equal(t, now, *ap.CompletedAt)

	_, err = Transition(ap, "cancelled", now)
	assert.True(t, httperr.IsKind(err, httperr.KindState))
	assert.Equal(t, ticket.StatusCompleted, ap.Status)

	ap = &models.Appointment{Status: ticket.StatusPending}
	require.NoError(t, Cancel(ap, now))
	assert.NotNil(t, ap.CancelledAt)
	assert.True(t, httperr.IsKind(Complete(ap, now), httperr.KindState))
}

func TestTransitionRejectsUnknownTargets(t *testing.T) {
	for _, target := range []string{"pending", "done", ""} {
		ap := &models.Appointment{Status: ticket.StatusPending}
		_, err := Transition(ap, target, time.Now())
		assert.Truef(t, httperr.IsBusiness(err, "invalid_status"), "target %q", target)
		assert.Equal(t, ticket.StatusPending, ap.Status)
	}
}

func TestReschedule(t *testing.T) {
	ap := &models.Appointment{Status: ticket.StatusPending, QueueNumber: 4, ReminderSent: true}
	require.NoError(t, Reschedule(ap, "2025-02-01", "9:30"))
	assert.Equal(t, "2025-02-01", ap.AppointmentDate)
	assert.Equal(t, "09:30", ap.TimeSlot)
	assert.False(t, ap.ReminderSent)
	assert.Equal(t, 4, ap.QueueNumber)

	ap.Status = ticket.StatusCancelled
	assert.True(t, httperr.IsKind(Reschedule(ap, "2025-02-02", "10:00"), httperr.KindState))
}

func TestAuthorizeTransition(t *testing.T) {
	branch := uint(1)
	other := uint(2)
	ap := &models.Appointment{UserID: 10, BranchID: branch}

	assert.NoError(t, AuthorizeTransition(Actor{UserID: 99, Role: models.RoleSuperAdmin}, ap, ticket.StatusCompleted))
	assert.NoError(t, AuthorizeTransition(Actor{UserID: 5, Role: models.RoleAdmin, AdminBranchID: &branch}, ap, ticket.StatusCompleted))
	assert.True(t, httperr.IsKind(
		AuthorizeTransition(Actor{UserID: 5, Role: models.RoleAdmin, AdminBranchID: &other}, ap, ticket.StatusCompleted),
		httperr.KindPermission))
	assert.True(t, httperr.IsKind(
		AuthorizeTransition(Actor{UserID: 5, Role: models.RoleAdmin}, ap, ticket.StatusCancelled),
		httperr.KindPermission))

	assert.NoError(t, AuthorizeTransition(Actor{UserID: 10, Role: models.RoleUser}, ap, ticket.StatusCancelled))
	assert.True(t, httperr.IsKind(
		AuthorizeTransition(Actor{UserID: 10, Role: models.RoleUser}, ap, ticket.StatusCompleted),
		httperr.KindPermission))
	assert.True(t, httperr.IsKind(
		AuthorizeTransition(Actor{UserID: 11, Role: models.RoleUser}, ap, ticket.StatusCancelled),
		httperr.KindPermission))
}

func TestAuthorizeView(t *testing.T) {
	branch := uint(1)
	ap := &models.Appointment{UserID: 10, BranchID: branch}

	assert.NoError(t, AuthorizeView(Actor{UserID: 10, Role: models.RoleUser}, ap))
	assert.NoError(t, AuthorizeView(Actor{UserID: 3, Role: models.RoleAdmin, AdminBranchID: &branch}, ap))
	assert.Error(t, AuthorizeView(Actor{UserID: 11, Role: models.RoleUser}, ap))
}
