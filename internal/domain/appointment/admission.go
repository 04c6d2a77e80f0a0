package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

const DateLayout = "2006-01-02"

type BookingRequest struct {
	UserID           uint
	BranchID         uint
	ServiceType      string
	Date             string
	TimeSlot         string
	PriorityCriteria string
	Notes            string
}

// Validate checks presence and format of the request fields and normalises
// the date and slot in place.
func (r *BookingRequest) Validate() error {
	r.ServiceType = strings.TrimSpace(r.ServiceType)
	r.Date = strings.TrimSpace(r.Date)
	r.TimeSlot = strings.TrimSpace(r.TimeSlot)

	if r.BranchID == 0 || r.ServiceType == "" || r.Date == "" || r.TimeSlot == "" {
		return httperr.ErrValidation("missing_fields")
	}
	if _, err := ParseDate(r.Date); err != nil {
		return httperr.ErrValidation("invalid_date")
	}
	if _, err := ParseTimeOfDay(r.TimeSlot); err != nil {
		return httperr.ErrValidation("invalid_time_slot")
	}
	r.TimeSlot = NormalizeSlot(r.TimeSlot)
	return nil
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// NextQueueNumber is the display ticket for a new booking: every appointment
// already made for the branch and date, cancelled ones included, plus one.
func NextQueueNumber(existing int64) int {
	return int(existing) + 1
}

// Admission is evaluated by the store inside the transaction that creates
// the appointment.
type Admission func(existing int64, slotTaken bool) error

// Admit rejects an occupied slot and otherwise assigns the ticket number.
func Admit(ap *models.Appointment) Admission {
	return func(existing int64, slotTaken bool) error {
		if slotTaken {
			return httperr.ErrConflict("slot_taken")
		}
		ap.QueueNumber = NextQueueNumber(existing)
		return nil
	}
}

// Relocate admits a reschedule: the slot must be free and the ticket number
// stays as it is.
func Relocate() Admission {
	return func(_ int64, slotTaken bool) error {
		if slotTaken {
			return httperr.ErrConflict("slot_taken")
		}
		return nil
	}
}

// NewAppointment builds the pending record for an admitted request.
func NewAppointment(r BookingRequest) *models.Appointment {
	ap := &models.Appointment{
		UserID:          r.UserID,
		BranchID:        r.BranchID,
		ServiceType:     r.ServiceType,
		AppointmentDate: r.Date,
		TimeSlot:        r.TimeSlot,
		Status:          ticket.InitialStatus(),
		Notes:           strings.TrimSpace(r.Notes),
	}
	ap.SetPriority(ticket.ParsePriority(r.PriorityCriteria))
	return ap
}

// CheckNotPast rejects dates before today and, for today, slots that already started.
func CheckNotPast(date, slot string, now time.Time) error {
	today := now.Format(DateLayout)
	if date < today {
		return httperr.ErrValidation("slot_in_past")
	}
	if date == today {
		m, err := ParseTimeOfDay(slot)
		if err != nil {
			return httperr.ErrValidation("invalid_time_slot")
		}
		if m < now.Hour()*60+now.Minute() {
			return httperr.ErrValidation("slot_in_past")
		}
	}
	return nil
}
