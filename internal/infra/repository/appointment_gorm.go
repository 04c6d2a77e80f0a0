package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

var _ domain.Repository = (*AppointmentGormRepository)(nil)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Branch
// --------------------------------------------------

func (r *AppointmentGormRepository) FindBranch(
	ctx context.Context,
	id uint,
) (*models.Branch, error) {

	var branch models.Branch
	if err := r.db.WithContext(ctx).First(&branch, id).Error; err != nil {
		return nil, notFound(err, "branch_not_found")
	}
	return &branch, nil
}

func (r *AppointmentGormRepository) FindBranchByAdmin(
	ctx context.Context,
	adminID uint,
) (*models.Branch, error) {

	var branch models.Branch
	if err := r.db.WithContext(ctx).
		Where("admin_id = ?", adminID).
		Order("id ASC").
		First(&branch).Error; err != nil {
		return nil, notFound(err, "branch_not_found")
	}
	return &branch, nil
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) FindAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) FindAppointments(
	ctx context.Context,
	f domain.Filter,
	order domain.Order,
	limit int,
) ([]models.Appointment, error) {

	q := applyFilter(r.db.WithContext(ctx).Model(&models.Appointment{}), f)
	if f.Preload {
		q = q.Preload("User").Preload("Branch")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var list []models.Appointment
	if err := q.Order(orderClause(order)).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *AppointmentGormRepository) CountAppointments(
	ctx context.Context,
	f domain.Filter,
) (int64, error) {

	var count int64
	err := applyFilter(r.db.WithContext(ctx).Model(&models.Appointment{}), f).
		Count(&count).Error
	return count, err
}

func (r *AppointmentGormRepository) OccupiedSlots(
	ctx context.Context,
	branchID uint,
	date string,
) ([]string, error) {

	var slots []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("branch_id = ? AND appointment_date = ? AND status <> ?", branchID, date, ticket.StatusCancelled).
		Pluck("time_slot", &slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	admit domain.Admission,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the branch row serialises ticket numbering for the branch
		if err := lockBranch(tx, ap.BranchID); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Appointment{}).
			Where("branch_id = ? AND appointment_date = ?", ap.BranchID, ap.AppointmentDate).
			Count(&existing).Error; err != nil {
			return err
		}

		taken, err := slotTaken(tx, ap.BranchID, ap.AppointmentDate, ap.TimeSlot, 0)
		if err != nil {
			return err
		}

		if err := admit(existing, taken); err != nil {
			return err
		}

		return tx.Create(ap).Error
	})

	return translateWrite(err)
}

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
	from ticket.Status,
) error {

	ap.UpdatedAt = time.Now()
	updates := map[string]any{
		"status":     ap.Status,
		"updated_at": ap.UpdatedAt,
	}
	if ap.CompletedAt != nil {
		updates["completed_at"] = ap.CompletedAt
	}
	if ap.CancelledAt != nil {
		updates["cancelled_at"] = ap.CancelledAt
	}

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrState("invalid_state")
	}
	return nil
}

func (r *AppointmentGormRepository) RescheduleAppointment(
	ctx context.Context,
	ap *models.Appointment,
	admit domain.Admission,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBranch(tx, ap.BranchID); err != nil {
			return err
		}

		taken, err := slotTaken(tx, ap.BranchID, ap.AppointmentDate, ap.TimeSlot, ap.ID)
		if err != nil {
			return err
		}
		if err := admit(0, taken); err != nil {
			return err
		}

		ap.UpdatedAt = time.Now()
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", ap.ID, ticket.StatusPending).
			Updates(map[string]any{
				"appointment_date": ap.AppointmentDate,
				"time_slot":        ap.TimeSlot,
				"reminder_sent":    false,
				"updated_at":       ap.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrState("invalid_state")
		}
		return nil
	})

	return translateWrite(err)
}

func (r *AppointmentGormRepository) MarkReminderSent(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("reminder_sent", true).Error
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func applyFilter(q *gorm.DB, f domain.Filter) *gorm.DB {
	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Date != "" {
		q = q.Where("appointment_date = ?", f.Date)
	}
	if f.ServiceType != "" {
		q = q.Where("service_type = ?", f.ServiceType)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.ReminderSent != nil {
		q = q.Where("reminder_sent = ?", *f.ReminderSent)
	}
	return q
}

func orderClause(o domain.Order) string {
	switch o {
	case domain.OrderRecentlyUpdated:
		return "updated_at DESC, id DESC"
	case domain.OrderDateDesc:
		return "appointment_date DESC, time_slot DESC, id DESC"
	case domain.OrderDateDescSlotAsc:
		return "appointment_date DESC, time_slot ASC, id ASC"
	default:
		return "priority_level ASC, time_slot ASC, id ASC"
	}
}

func lockBranch(tx *gorm.DB, branchID uint) error {
	var branch models.Branch
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&branch, branchID).Error; err != nil {
		return notFound(err, "branch_not_found")
	}
	return nil
}

func slotTaken(tx *gorm.DB, branchID uint, date, slot string, exceptID uint) (bool, error) {
	q := tx.Model(&models.Appointment{}).
		Where("branch_id = ? AND appointment_date = ? AND time_slot = ? AND status <> ?",
			branchID, date, slot, ticket.StatusCancelled)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}

// translateWrite turns a lost race on the active slot index into the same
// conflict the in-transaction check reports.
func translateWrite(err error) error {
	if err != nil && isUniqueViolation(err) {
		return httperr.ErrConflict("slot_taken")
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
