package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/dbtest"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

type fixture struct {
	db     *gorm.DB
	repo   *AppointmentGormRepository
	user   models.User
	admin  models.User
	branch models.Branch
}

func setup(t *testing.T) *fixture {
	t.Helper()

	gdb := dbtest.New(t)
	f := &fixture{db: gdb, repo: NewAppointmentGormRepository(gdb)}

	f.user = models.User{Name: "Ravi", Email: "ravi@example.com", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&f.user).Error)
	f.admin = models.User{Name: "Meera", Email: "meera@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, gdb.Create(&f.admin).Error)

	slot := 30
	f.branch = models.Branch{
		Name:         "Central",
		Location:     "MG Road",
		AdminID:      &f.admin.ID,
		OpeningTime:  "09:00",
		ClosingTime:  "10:00",
		SlotDuration: &slot,
	}
	require.NoError(t, gdb.Create(&f.branch).Error)
	return f
}

func (f *fixture) book(t *testing.T, slot string, prio ticket.Priority) *models.Appointment {
	t.Helper()

	ap := domain.NewAppointment(domain.BookingRequest{
		UserID:           f.user.ID,
		BranchID:         f.branch.ID,
		ServiceType:      "Cash",
		Date:             "2025-01-10",
		TimeSlot:         slot,
		PriorityCriteria: prio.Label(),
	})
	require.NoError(t, f.repo.CreateAppointment(context.Background(), ap, domain.Admit(ap)))
	return ap
}

func TestCreateAppointmentAssignsQueueNumbers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.book(t, "09:00", ticket.PriorityNormal)
	assert.Equal(t, 1, a.QueueNumber)
	assert.NotZero(t, a.ID)

	now := time.Now()
	require.NoError(t, domain.Cancel(a, now))
	require.NoError(t, f.repo.UpdateAppointmentStatus(ctx, a, ticket.StatusPending))

	// cancelled bookings still count towards the ticket number
	b := f.book(t, "09:00", ticket.PriorityNormal)
	assert.Equal(t, 2, b.QueueNumber)
}

func TestCreateAppointmentRejectsTakenSlot(t *testing.T) {
	f := setup(t)
	f.book(t, "09:00", ticket.PriorityNormal)

	dup := domain.NewAppointment(domain.BookingRequest{
		UserID: f.user.ID, BranchID: f.branch.ID, ServiceType: "Loans", Date: "2025-01-10", TimeSlot: "09:00",
	})
	err := f.repo.CreateAppointment(context.Background(), dup, domain.Admit(dup))
	assert.True(t, httperr.IsBusiness(err, "slot_taken"))

	var count int64
	require.NoError(t, f.db.Model(&models.Appointment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// ignoreOccupancy admits regardless of the slot check, the way a request that
// read the slot as free before a concurrent booking committed would.
func ignoreOccupancy(ap *models.Appointment) domain.Admission {
	return func(existing int64, _ bool) error {
		ap.QueueNumber = domain.NextQueueNumber(existing)
		return nil
	}
}

func TestCreateAppointmentIndexViolationIsConflict(t *testing.T) {
	f := setup(t)
	f.book(t, "09:00", ticket.PriorityNormal)

	dup := domain.NewAppointment(domain.BookingRequest{
		UserID: f.user.ID, BranchID: f.branch.ID, ServiceType: "Loans", Date: "2025-01-10", TimeSlot: "09:00",
	})
	err := f.repo.CreateAppointment(context.Background(), dup, ignoreOccupancy(dup))
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))
	assert.True(t, httperr.IsBusiness(err, "slot_taken"))

	var count int64
	require.NoError(t, f.db.Model(&models.Appointment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRescheduleIndexViolationIsConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.book(t, "09:00", ticket.PriorityNormal)
	f.book(t, "09:30", ticket.PriorityNormal)

	moved := *a
	require.NoError(t, domain.Reschedule(&moved, "2025-01-10", "09:30"))
	err := f.repo.RescheduleAppointment(ctx, &moved, func(int64, bool) error { return nil })
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))

	stored, err := f.repo.FindAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "09:00", stored.TimeSlot)
}

func TestTranslateWrite(t *testing.T) {
	assert.NoError(t, translateWrite(nil))
	assert.True(t, httperr.IsKind(translateWrite(gorm.ErrDuplicatedKey), httperr.KindConflict))
	assert.True(t, httperr.IsKind(translateWrite(&pgconn.PgError{Code: "23505"}), httperr.KindConflict))
	assert.True(t, httperr.IsKind(
		translateWrite(errors.New("constraint failed: UNIQUE constraint failed: appointments.time_slot (2067)")),
		httperr.KindConflict,
	))

	other := &pgconn.PgError{Code: "23503"}
	assert.Same(t, other, translateWrite(other))
}

func TestCreateAppointmentUnknownBranch(t *testing.T) {
	f := setup(t)
	ap := &models.Appointment{UserID: f.user.ID, BranchID: 999, ServiceType: "x", AppointmentDate: "2025-01-10", TimeSlot: "09:00"}
	err := f.repo.CreateAppointment(context.Background(), ap, domain.Admit(ap))
	assert.True(t, httperr.IsBusiness(err, "branch_not_found"))
}

func TestUpdateAppointmentStatusIsConditional(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ap := f.book(t, "09:00", ticket.PriorityNormal)

	first := *ap
	second := *ap
	require.NoError(t, domain.Complete(&first, time.Now()))
	require.NoError(t, domain.Cancel(&second, time.Now()))

	require.NoError(t, f.repo.UpdateAppointmentStatus(ctx, &first, ticket.StatusPending))
	err := f.repo.UpdateAppointmentStatus(ctx, &second, ticket.StatusPending)
	assert.True(t, httperr.IsKind(err, httperr.KindState))

	stored, err := f.repo.FindAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)
	assert.Nil(t, stored.CancelledAt)
	assert.Equal(t, "Normal", stored.PriorityCriteria)
}

func TestFindAppointmentsServingOrder(t *testing.T) {
	f := setup(t)
	a := f.book(t, "09:00", ticket.PriorityNormal)
	b := f.book(t, "09:30", ticket.PriorityEmergency)

	branchID := f.branch.ID
	list, err := f.repo.FindAppointments(context.Background(), domain.Filter{
		BranchID:    &branchID,
		Date:        "2025-01-10",
		ServiceType: "Cash",
		Statuses:    []ticket.Status{ticket.StatusPending},
	}, domain.OrderServing, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
	assert.Equal(t, "Emergency", list[0].PriorityCriteria)
}

func TestOccupiedSlotsSkipsCancelled(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.book(t, "09:00", ticket.PriorityNormal)
	f.book(t, "09:30", ticket.PriorityNormal)

	require.NoError(t, domain.Cancel(a, time.Now()))
	require.NoError(t, f.repo.UpdateAppointmentStatus(ctx, a, ticket.StatusPending))

	slots, err := f.repo.OccupiedSlots(ctx, f.branch.ID, "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:30"}, slots)
}

func TestRescheduleAppointment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.book(t, "09:00", ticket.PriorityNormal)
	f.book(t, "09:30", ticket.PriorityNormal)

	require.NoError(t, f.repo.MarkReminderSent(ctx, a.ID))

	moved := *a
	require.NoError(t, domain.Reschedule(&moved, "2025-01-10", "09:30"))
	assert.True(t, httperr.IsBusiness(f.repo.RescheduleAppointment(ctx, &moved, domain.Relocate()), "slot_taken"))

	moved = *a
	require.NoError(t, domain.Reschedule(&moved, "2025-01-11", "09:30"))
	require.NoError(t, f.repo.RescheduleAppointment(ctx, &moved, domain.Relocate()))

	stored, err := f.repo.FindAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-11", stored.AppointmentDate)
	assert.Equal(t, "09:30", stored.TimeSlot)
	assert.False(t, stored.ReminderSent)
	assert.Equal(t, a.QueueNumber, stored.QueueNumber)
}

func TestFindBranchByAdmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	branch, err := f.repo.FindBranchByAdmin(ctx, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, f.branch.ID, branch.ID)

	_, err = f.repo.FindBranchByAdmin(ctx, f.user.ID)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestCountAppointmentsReminderFilter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.book(t, "09:00", ticket.PriorityNormal)
	f.book(t, "09:30", ticket.PriorityNormal)
	require.NoError(t, f.repo.MarkReminderSent(ctx, a.ID))

	notSent := false
	n, err := f.repo.CountAppointments(ctx, domain.Filter{ReminderSent: &notSent})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
