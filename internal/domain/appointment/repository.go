package appointment

import (
	"context"

	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

// Filter narrows appointment queries. Zero values are ignored.
type Filter struct {
	BranchID     *uint
	UserID       *uint
	Date         string
	ServiceType  string
	Statuses     []ticket.Status
	ReminderSent *bool

	// Preload loads the user and branch of each appointment.
	Preload bool
}

type Order int

const (
	OrderServing Order = iota
	OrderRecentlyUpdated
	OrderDateDesc
	OrderDateDescSlotAsc
)

type Repository interface {
	// -------- Branch --------
	FindBranch(ctx context.Context, id uint) (*models.Branch, error)
	FindBranchByAdmin(ctx context.Context, adminID uint) (*models.Branch, error)

	// -------- Appointment (read) --------
	FindAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	FindAppointments(ctx context.Context, f Filter, order Order, limit int) ([]models.Appointment, error)
	CountAppointments(ctx context.Context, f Filter) (int64, error)
	OccupiedSlots(ctx context.Context, branchID uint, date string) ([]string, error)

	// -------- Appointment (write) --------

	// CreateAppointment runs admit with the branch/date count and the slot
	// occupancy and inserts ap when admit returns nil, all in one transaction.
	CreateAppointment(ctx context.Context, ap *models.Appointment, admit Admission) error

	// UpdateAppointmentStatus persists ap's status only while the stored row
	// is still in from; otherwise it returns a state error.
	UpdateAppointmentStatus(ctx context.Context, ap *models.Appointment, from ticket.Status) error

	// RescheduleAppointment moves a pending ap to its new date and slot when
	// admit accepts the slot occupancy. The count passed to admit is always 0.
	RescheduleAppointment(ctx context.Context, ap *models.Appointment, admit Admission) error
	MarkReminderSent(ctx context.Context, id uint) error
}
