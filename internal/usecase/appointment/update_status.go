package appointment

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/branch-queue/internal/audit"
	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

type UpdateStatusInput struct {
	Actor         domain.Actor
	AppointmentID uint
	Status        string
}

type UpdateStatusOutput struct {
	Appointment *models.Appointment
	// Next is the head of the queue after a completion, nil otherwise.
	Next *models.Appointment
}

type UpdateAppointmentStatus struct {
	repo     domain.Repository
	notifier domain.Notifier
	audit    *audit.Dispatcher
	clock    Clock
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	notifier domain.Notifier,
	audit *audit.Dispatcher,
	clock Clock,
) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{
		repo:     repo,
		notifier: notifierOr(notifier),
		audit:    audit,
		clock:    clock,
	}
}

func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*UpdateStatusOutput, error) {

	target, ok := ticket.ParseStatus(in.Status)
	if !ok || !ticket.IsTarget(target) {
		return nil, httperr.ErrValidation("invalid_status")
	}

	ap, err := uc.repo.FindAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	actor, err := withAdminBranch(ctx, uc.repo, in.Actor)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeTransition(actor, ap, target); err != nil {
		return nil, err
	}

	branch, err := uc.repo.FindBranch(ctx, ap.BranchID)
	if err != nil {
		return nil, err
	}
	now := uc.clock.in(branch.Timezone)

	from := ap.Status
	if _, err := domain.Transition(ap, string(target), now); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, from); err != nil {
		return nil, err
	}

	out := &UpdateStatusOutput{Appointment: ap}
	uc.notifier.Emit(domain.EventAppointmentUpdated, domain.NewEvent(ap, now))

	if target == ticket.StatusCompleted {
		// the transition is committed; a failed lookup only costs the hint
		next, err := uc.nextUp(ctx, domain.ScopeOf(ap))
		if err != nil {
			log.Warn().Err(err).Uint("appointment_id", ap.ID).Msg("next in queue lookup failed")
		}
		if next != nil {
			out.Next = next
			uc.notifier.Emit(domain.EventNextInQueue, domain.NewEvent(next, now))
		}
	}

	uc.notifier.Emit(domain.EventQueueModified, domain.NewEvent(ap, now))

	auditAppointment(uc.audit, "appointment_"+string(target), actor, ap, map[string]any{
		"from": from,
		"to":   target,
	})

	return out, nil
}

func (uc *UpdateAppointmentStatus) nextUp(ctx context.Context, scope domain.Scope) (*models.Appointment, error) {
	branchID := scope.BranchID
	pending, err := uc.repo.FindAppointments(ctx, domain.Filter{
		BranchID:    &branchID,
		Date:        scope.Date,
		ServiceType: scope.ServiceType,
		Statuses:    []ticket.Status{ticket.StatusPending},
	}, domain.OrderServing, 0)
	if err != nil {
		return nil, err
	}
	return domain.NextUp(scope, pending), nil
}
