package appointment

import (
	"time"

	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to the requested status. Unknown or non-terminal
// targets are validation errors; leaving a terminal state is a state error.
func Transition(ap *models.Appointment, requested string, now time.Time) (ticket.Status, error) {
	to, ok := ticket.ParseStatus(requested)
	if !ok || !ticket.IsTarget(to) {
		return "", httperr.ErrValidation("invalid_status")
	}
	if !ticket.CanTransition(ap.Status, to) {
		return "", httperr.ErrState("invalid_state")
	}

	ap.Status = to
	switch to {
	case ticket.StatusCompleted:
		ap.CompletedAt = &now
	case ticket.StatusCancelled:
		ap.CancelledAt = &now
	}
	return to, nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	_, err := Transition(ap, string(ticket.StatusCancelled), now)
	return err
}

func Complete(ap *models.Appointment, now time.Time) error {
	_, err := Transition(ap, string(ticket.StatusCompleted), now)
	return err
}

// Reschedule moves a pending appointment to another date and slot. The
// ticket number is kept and the reminder is re-armed.
func Reschedule(ap *models.Appointment, date, slot string) error {
	if ap.Status != ticket.StatusPending {
		return httperr.ErrState("invalid_state")
	}
	ap.AppointmentDate = date
	ap.TimeSlot = NormalizeSlot(slot)
	ap.ReminderSent = false
	return nil
}
