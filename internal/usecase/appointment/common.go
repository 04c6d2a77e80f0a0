package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/branch-queue/internal/audit"
	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
	"github.com/BruksfildServices01/branch-queue/internal/timezone"
)

// Clock returns the current instant. Use cases convert it to the branch zone.
type Clock func() time.Time

func (c Clock) in(tz string) time.Time {
	now := time.Now
	if c != nil {
		now = c
	}
	return now().In(timezone.Location(tz))
}

func notifierOr(n domain.Notifier) domain.Notifier {
	if n == nil {
		return domain.NopNotifier{}
	}
	return n
}

// withAdminBranch fills the managed branch of an admin caller. Admins without
// a branch keep a nil AdminBranchID and fail authorization later.
func withAdminBranch(ctx context.Context, repo domain.Repository, a domain.Actor) (domain.Actor, error) {
	if a.Role != models.RoleAdmin || a.AdminBranchID != nil {
		return a, nil
	}

	branch, err := repo.FindBranchByAdmin(ctx, a.UserID)
	if err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			return a, nil
		}
		return a, err
	}
	a.AdminBranchID = &branch.ID
	return a, nil
}

func auditAppointment(d *audit.Dispatcher, action string, actor domain.Actor, ap *models.Appointment, meta any) {
	branchID := ap.BranchID
	userID := actor.UserID
	entityID := ap.ID
	d.Dispatch(audit.Event{
		BranchID: &branchID,
		UserID:   &userID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &entityID,
		Metadata: meta,
	})
}
