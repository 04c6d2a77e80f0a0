package notify

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

// Directory resolves the contact details of appointment owners and the
// branch names used in messages.
type Directory interface {
	FindUser(ctx context.Context, id uint) (*models.User, error)
	FindBranch(ctx context.Context, id uint) (*models.Branch, error)
}

type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := d.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (d *GormDirectory) FindBranch(ctx context.Context, id uint) (*models.Branch, error) {
	var b models.Branch
	if err := d.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Messenger sends email, and SMS when the owner has a phone number, for the
// events a customer cares about. Queue bookkeeping events are ignored.
type Messenger struct {
	dir   Directory
	email Provider
	sms   Provider
}

var _ domain.Courier = (*Messenger)(nil)

func NewMessenger(dir Directory, email, sms Provider) *Messenger {
	if email == nil {
		email = NoopProvider{}
	}
	if sms == nil {
		sms = NoopProvider{}
	}
	return &Messenger{dir: dir, email: email, sms: sms}
}

func (m *Messenger) Name() string { return "messenger" }

func (m *Messenger) Deliver(ctx context.Context, name domain.EventName, ev domain.Event) error {
	ap := ev.Appointment
	if !wantsMessage(name, &ap) {
		return nil
	}

	user := ap.User
	if user == nil {
		u, err := m.dir.FindUser(ctx, ap.UserID)
		if err != nil {
			return fmt.Errorf("load user %d: %w", ap.UserID, err)
		}
		user = u
	}

	branchName := ""
	if ap.Branch != nil {
		branchName = ap.Branch.Name
	} else if b, err := m.dir.FindBranch(ctx, ap.BranchID); err == nil {
		branchName = b.Name
	}

	msg := Render(name, user.Name, branchName, &ap)

	var errs []error
	if user.Email != "" {
		msg.Recipient = user.Email
		if err := m.email.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
	} else {
		errs = append(errs, fmt.Errorf("email: %w", errNoRecipient))
	}

	if user.Phone != "" {
		msg.Recipient = user.Phone
		if err := m.sms.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("sms: %w", err))
		}
	}

	return errors.Join(errs...)
}

func wantsMessage(name domain.EventName, ap *models.Appointment) bool {
	switch name {
	case domain.EventBookingConfirmed, domain.EventNextInQueue, domain.EventAppointmentReminder:
		return true
	case domain.EventAppointmentUpdated:
		return ap.Status == ticket.StatusCancelled
	}
	return false
}
