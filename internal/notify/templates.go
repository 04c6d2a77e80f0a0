package notify

import (
	"fmt"
	"html"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

// Render builds the customer facing text for an event.
func Render(name domain.EventName, userName, branchName string, ap *models.Appointment) Message {
	if branchName == "" {
		branchName = "the branch"
	}

	var subject, body string
	switch name {
	case domain.EventBookingConfirmed:
		subject = "Appointment confirmed"
		body = fmt.Sprintf(
			"Hi %s, your %s appointment at %s is booked for %s at %s. Your queue number is %d.",
			userName, ap.ServiceType, branchName, ap.AppointmentDate, ap.TimeSlot, ap.QueueNumber,
		)
	case domain.EventNextInQueue:
		subject = "You are next"
		body = fmt.Sprintf(
			"Hi %s, you are next in line for %s at %s. Please be ready (queue number %d).",
			userName, ap.ServiceType, branchName, ap.QueueNumber,
		)
	case domain.EventAppointmentReminder:
		subject = "Appointment reminder"
		body = fmt.Sprintf(
			"Hi %s, this is a reminder of your %s appointment at %s on %s at %s.",
			userName, ap.ServiceType, branchName, ap.AppointmentDate, ap.TimeSlot,
		)
	default:
		subject = "Appointment " + string(ap.Status)
		body = fmt.Sprintf(
			"Hi %s, your %s appointment at %s on %s at %s is now %s.",
			userName, ap.ServiceType, branchName, ap.AppointmentDate, ap.TimeSlot, ap.Status,
		)
	}

	return Message{
		Subject: subject,
		Body:    body,
		HTML:    "<p>" + html.EscapeString(body) + "</p>",
	}
}
