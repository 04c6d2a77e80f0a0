package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	BranchID uint    `gorm:"not null;index:idx_appointments_branch_date" json:"branch_id"`
	Branch   *Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"branch,omitempty"`

	ServiceType     string `gorm:"size:100;not null" json:"service_type"`
	AppointmentDate string `gorm:"size:10;not null;index:idx_appointments_branch_date" json:"appointment_date"`
	TimeSlot        string `gorm:"size:5;not null" json:"time_slot"`

	Status      ticket.Status `gorm:"size:20;default:'pending';index" json:"status"`
	QueueNumber int           `json:"queue_number"`

	PriorityLevel    ticket.Priority `gorm:"default:5" json:"priority_level"`
	PriorityCriteria string          `gorm:"-" json:"priority_criteria"`

	Notes        string `gorm:"size:255" json:"notes"`
	ReminderSent bool   `gorm:"default:false" json:"reminder_sent"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPriority stores the level; the criteria label always follows it.
func (a *Appointment) SetPriority(p ticket.Priority) {
	a.PriorityLevel = p
	a.PriorityCriteria = p.Label()
}

func (a *Appointment) AfterFind(tx *gorm.DB) error {
	a.PriorityCriteria = a.PriorityLevel.Label()
	return nil
}

func (a *Appointment) AfterSave(tx *gorm.DB) error {
	a.PriorityCriteria = a.PriorityLevel.Label()
	return nil
}
