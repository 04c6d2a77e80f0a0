package appointment

import (
	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

// Actor is the authenticated caller. AdminBranchID is set for branch admins
// that manage a branch.
type Actor struct {
	UserID        uint
	Role          string
	AdminBranchID *uint
}

func (a Actor) IsSuperAdmin() bool { return a.Role == models.RoleSuperAdmin }

func (a Actor) managesBranch(branchID uint) bool {
	return a.Role == models.RoleAdmin && a.AdminBranchID != nil && *a.AdminBranchID == branchID
}

// AuthorizeTransition lets staff of the branch move any appointment and lets
// owners cancel their own.
func AuthorizeTransition(a Actor, ap *models.Appointment, to ticket.Status) error {
	switch {
	case a.IsSuperAdmin(), a.managesBranch(ap.BranchID):
		return nil
	case a.Role == models.RoleAdmin:
		return httperr.ErrPermission("not_branch_admin")
	case ap.UserID == a.UserID && to == ticket.StatusCancelled:
		return nil
	default:
		return httperr.ErrPermission("access_denied")
	}
}

// AuthorizeView allows the owner, the branch admin and the super admin.
func AuthorizeView(a Actor, ap *models.Appointment) error {
	if a.IsSuperAdmin() || a.managesBranch(ap.BranchID) || ap.UserID == a.UserID {
		return nil
	}
	return httperr.ErrPermission("access_denied")
}

func AuthorizeOwner(a Actor, ap *models.Appointment) error {
	if ap.UserID != a.UserID {
		return httperr.ErrPermission("not_appointment_owner")
	}
	return nil
}
