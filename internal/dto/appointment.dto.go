package dto

import (
	"time"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

type AppointmentDTO struct {
	ID               uint            `json:"id"`
	UserID           uint            `json:"user_id"`
	UserName         string          `json:"user_name,omitempty"`
	BranchID         uint            `json:"branch_id"`
	BranchName       string          `json:"branch_name,omitempty"`
	ServiceType      string          `json:"service_type"`
	AppointmentDate  string          `json:"appointment_date"`
	TimeSlot         string          `json:"time_slot"`
	Status           ticket.Status   `json:"status"`
	QueueNumber      int             `json:"queue_number"`
	PriorityLevel    ticket.Priority `json:"priority_level"`
	PriorityCriteria string          `json:"priority_criteria"`
	Notes            string          `json:"notes,omitempty"`
	ReminderSent     bool            `json:"reminder_sent"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func ToAppointmentDTO(ap *models.Appointment) AppointmentDTO {
	out := AppointmentDTO{
		ID:               ap.ID,
		UserID:           ap.UserID,
		BranchID:         ap.BranchID,
		ServiceType:      ap.ServiceType,
		AppointmentDate:  ap.AppointmentDate,
		TimeSlot:         ap.TimeSlot,
		Status:           ap.Status,
		QueueNumber:      ap.QueueNumber,
		PriorityLevel:    ap.PriorityLevel,
		PriorityCriteria: ap.PriorityLevel.Label(),
		Notes:            ap.Notes,
		ReminderSent:     ap.ReminderSent,
		CreatedAt:        ap.CreatedAt,
		UpdatedAt:        ap.UpdatedAt,
	}
	if ap.User != nil {
		out.UserName = ap.User.Name
	}
	if ap.Branch != nil {
		out.BranchName = ap.Branch.Name
	}
	return out
}

func ToAppointmentDTOs(list []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, len(list))
	for i := range list {
		out[i] = ToAppointmentDTO(&list[i])
	}
	return out
}

// QueueEntryDTO is what other customers may see of an appointment.
type QueueEntryDTO struct {
	ID               uint            `json:"id"`
	QueueNumber      int             `json:"queue_number"`
	TimeSlot         string          `json:"time_slot"`
	Status           ticket.Status   `json:"status"`
	PriorityLevel    ticket.Priority `json:"priority_level"`
	PriorityCriteria string          `json:"priority_criteria"`
}

func ToQueueEntry(ap *models.Appointment) QueueEntryDTO {
	return QueueEntryDTO{
		ID:               ap.ID,
		QueueNumber:      ap.QueueNumber,
		TimeSlot:         ap.TimeSlot,
		Status:           ap.Status,
		PriorityLevel:    ap.PriorityLevel,
		PriorityCriteria: ap.PriorityLevel.Label(),
	}
}

type QueueStatusDTO struct {
	Appointment AppointmentDTO  `json:"appointment"`
	NowServing  *QueueEntryDTO  `json:"now_serving"`
	Waiting     []QueueEntryDTO `json:"waiting_list"`
	Position    int             `json:"position"`
	AheadOfYou  int             `json:"ahead_of_you"`
}

func ToQueueStatus(ap *models.Appointment, view domain.View) QueueStatusDTO {
	out := QueueStatusDTO{
		Appointment: ToAppointmentDTO(ap),
		Waiting:     make([]QueueEntryDTO, len(view.Waiting)),
		Position:    view.Position,
	}
	for i := range view.Waiting {
		out.Waiting[i] = ToQueueEntry(&view.Waiting[i])
	}
	if view.NowServing != nil {
		entry := ToQueueEntry(view.NowServing)
		out.NowServing = &entry
	}
	if view.Position > 0 {
		out.AheadOfYou = view.Position - 1
	}
	return out
}

// EventDTO is the realtime wire message. It never carries contact data.
type EventDTO struct {
	ID          string           `json:"id"`
	Type        domain.EventName `json:"type"`
	BranchID    uint             `json:"branch_id"`
	Date        string           `json:"date"`
	ServiceType string           `json:"service_type"`
	Appointment QueueEntryDTO    `json:"appointment"`
	UserID      uint             `json:"user_id"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

func ToEvent(id string, name domain.EventName, ev domain.Event) EventDTO {
	return EventDTO{
		ID:          id,
		Type:        name,
		BranchID:    ev.Scope.BranchID,
		Date:        ev.Scope.Date,
		ServiceType: ev.Scope.ServiceType,
		Appointment: ToQueueEntry(&ev.Appointment),
		UserID:      ev.Appointment.UserID,
		OccurredAt:  ev.OccurredAt,
	}
}
