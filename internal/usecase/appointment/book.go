package appointment

import (
	"context"

	"github.com/BruksfildServices01/branch-queue/internal/audit"
	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo     domain.Repository
	notifier domain.Notifier
	audit    *audit.Dispatcher
	clock    Clock
}

func NewBookAppointment(
	repo domain.Repository,
	notifier domain.Notifier,
	audit *audit.Dispatcher,
	clock Clock,
) *BookAppointment {
	return &BookAppointment{
		repo:     repo,
		notifier: notifierOr(notifier),
		audit:    audit,
		clock:    clock,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in domain.BookingRequest,
) (*models.Appointment, error) {

	if err := in.Validate(); err != nil {
		return nil, err
	}

	branch, err := uc.repo.FindBranch(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}

	hours, err := domain.BranchHours(branch)
	if err != nil {
		return nil, err
	}
	if !hours.OnGrid(in.TimeSlot) {
		return nil, httperr.ErrValidation("slot_off_grid")
	}

	now := uc.clock.in(branch.Timezone)
	if err := domain.CheckNotPast(in.Date, in.TimeSlot, now); err != nil {
		return nil, err
	}

	ap := domain.NewAppointment(in)
	if err := uc.repo.CreateAppointment(ctx, ap, domain.Admit(ap)); err != nil {
		return nil, err
	}

	event := domain.NewEvent(ap, now)
	uc.notifier.Emit(domain.EventBookingConfirmed, event)
	uc.notifier.Emit(domain.EventQueueModified, event)

	auditAppointment(uc.audit, "appointment_created", domain.Actor{UserID: in.UserID}, ap, map[string]any{
		"date":         ap.AppointmentDate,
		"time_slot":    ap.TimeSlot,
		"queue_number": ap.QueueNumber,
	})

	return ap, nil
}
