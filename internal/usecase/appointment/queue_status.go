package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

type QueueStatusOutput struct {
	Appointment *models.Appointment
	View        domain.View
}

// QueueStatus rebuilds the queue around one appointment from the store on
// every call.
type QueueStatus struct {
	repo domain.Repository
}

func NewQueueStatus(repo domain.Repository) *QueueStatus {
	return &QueueStatus{repo: repo}
}

func (uc *QueueStatus) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
) (*QueueStatusOutput, error) {

	ap, err := uc.repo.FindAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	actor, err = withAdminBranch(ctx, uc.repo, actor)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeView(actor, ap); err != nil {
		return nil, err
	}

	scope := domain.ScopeOf(ap)
	filter := domain.Filter{
		BranchID:    &scope.BranchID,
		Date:        scope.Date,
		ServiceType: scope.ServiceType,
	}

	filter.Statuses = []ticket.Status{ticket.StatusPending}
	pending, err := uc.repo.FindAppointments(ctx, filter, domain.OrderServing, 0)
	if err != nil {
		return nil, err
	}

	filter.Statuses = []ticket.Status{ticket.StatusCompleted}
	served, err := uc.repo.FindAppointments(ctx, filter, domain.OrderRecentlyUpdated, 1)
	if err != nil {
		return nil, err
	}

	return &QueueStatusOutput{
		Appointment: ap,
		View:        domain.BuildView(ap, append(pending, served...)),
	}, nil
}
