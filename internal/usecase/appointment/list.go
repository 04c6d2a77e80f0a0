package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

type ListFilter struct {
	Date   string
	Status string
}

func (f ListFilter) apply(base domain.Filter) (domain.Filter, error) {
	if f.Date != "" {
		if _, err := domain.ParseDate(f.Date); err != nil {
			return base, httperr.ErrValidation("invalid_date")
		}
		base.Date = f.Date
	}
	if f.Status != "" {
		st, ok := ticket.ParseStatus(f.Status)
		if !ok {
			return base, httperr.ErrValidation("invalid_status")
		}
		base.Statuses = []ticket.Status{st}
	}
	base.Preload = true
	return base, nil
}

// ListMyAppointments returns the caller's own bookings, newest date first.
type ListMyAppointments struct {
	repo domain.Repository
}

func NewListMyAppointments(repo domain.Repository) *ListMyAppointments {
	return &ListMyAppointments{repo: repo}
}

func (uc *ListMyAppointments) Execute(
	ctx context.Context,
	userID uint,
	f ListFilter,
) ([]models.Appointment, error) {

	filter, err := f.apply(domain.Filter{UserID: &userID})
	if err != nil {
		return nil, err
	}
	return uc.repo.FindAppointments(ctx, filter, domain.OrderDateDesc, 0)
}

// ListBranchAppointments lists a branch admin's appointments, or every
// appointment for the super admin.
type ListBranchAppointments struct {
	repo domain.Repository
}

func NewListBranchAppointments(repo domain.Repository) *ListBranchAppointments {
	return &ListBranchAppointments{repo: repo}
}

func (uc *ListBranchAppointments) Execute(
	ctx context.Context,
	actor domain.Actor,
	f ListFilter,
) ([]models.Appointment, error) {

	var base domain.Filter
	switch actor.Role {
	case models.RoleSuperAdmin:
	case models.RoleAdmin:
		a, err := withAdminBranch(ctx, uc.repo, actor)
		if err != nil {
			return nil, err
		}
		if a.AdminBranchID == nil {
			return nil, httperr.ErrPermission("not_branch_admin")
		}
		base.BranchID = a.AdminBranchID
	default:
		return nil, httperr.ErrPermission("access_denied")
	}

	filter, err := f.apply(base)
	if err != nil {
		return nil, err
	}
	return uc.repo.FindAppointments(ctx, filter, domain.OrderDateDescSlotAsc, 0)
}
