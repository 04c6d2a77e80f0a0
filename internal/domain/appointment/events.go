package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/branch-queue/internal/models"
)

type EventName string

const (
	EventBookingConfirmed    EventName = "booking_confirmed"
	EventAppointmentUpdated  EventName = "appointment_updated"
	EventNextInQueue         EventName = "next_in_queue"
	EventQueueModified       EventName = "queue_modified"
	EventAppointmentReminder EventName = "appointment_reminder"
)

// Event carries a snapshot of the appointment the notification is about.
type Event struct {
	Scope       Scope
	Appointment models.Appointment
	OccurredAt  time.Time
}

func NewEvent(ap *models.Appointment, at time.Time) Event {
	return Event{
		Scope:       ScopeOf(ap),
		Appointment: *ap,
		OccurredAt:  at,
	}
}

// Notifier delivers events without blocking the caller. Delivery failures
// never reach the operation that emitted the event.
type Notifier interface {
	Emit(name EventName, event Event)
}

// Courier delivers one event synchronously and reports whether it reached
// the recipient. Used where the caller records the outcome.
type Courier interface {
	Deliver(ctx context.Context, name EventName, event Event) error
}

type NopNotifier struct{}

func (NopNotifier) Emit(EventName, Event) {}
