package appointment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/branch-queue/internal/audit"
	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

type RescheduleInput struct {
	Actor         domain.Actor
	AppointmentID uint
	Date          string
	TimeSlot      string
}

type RescheduleAppointment struct {
	repo     domain.Repository
	notifier domain.Notifier
	audit    *audit.Dispatcher
	clock    Clock
}

func NewRescheduleAppointment(
	repo domain.Repository,
	notifier domain.Notifier,
	audit *audit.Dispatcher,
	clock Clock,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:     repo,
		notifier: notifierOr(notifier),
		audit:    audit,
		clock:    clock,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	in.Date = strings.TrimSpace(in.Date)
	in.TimeSlot = strings.TrimSpace(in.TimeSlot)
	if in.Date == "" || in.TimeSlot == "" {
		return nil, httperr.ErrValidation("missing_fields")
	}
	if _, err := domain.ParseDate(in.Date); err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}
	if _, err := domain.ParseTimeOfDay(in.TimeSlot); err != nil {
		return nil, httperr.ErrValidation("invalid_time_slot")
	}

	ap, err := uc.repo.FindAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeOwner(in.Actor, ap); err != nil {
		return nil, err
	}

	branch, err := uc.repo.FindBranch(ctx, ap.BranchID)
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

	previous := domain.ScopeOf(ap)
	oldSlot := ap.TimeSlot
	if err := domain.Reschedule(ap, in.Date, in.TimeSlot); err != nil {
		return nil, err
	}
	if err := uc.repo.RescheduleAppointment(ctx, ap, domain.Relocate()); err != nil {
		return nil, err
	}

	uc.notifier.Emit(domain.EventAppointmentUpdated, domain.NewEvent(ap, now))
	uc.notifier.Emit(domain.EventQueueModified, domain.NewEvent(ap, now))
	if previous != domain.ScopeOf(ap) {
		moved := *ap
		moved.AppointmentDate = previous.Date
		moved.TimeSlot = oldSlot
		uc.notifier.Emit(domain.EventQueueModified, domain.NewEvent(&moved, now))
	}

	auditAppointment(uc.audit, "appointment_rescheduled", in.Actor, ap, map[string]any{
		"from_date": previous.Date,
		"from_slot": oldSlot,
		"to_date":   ap.AppointmentDate,
		"to_slot":   ap.TimeSlot,
	})

	return ap, nil
}
