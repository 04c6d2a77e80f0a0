package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

func TestBookingRequestValidate(t *testing.T) {
	req := BookingRequest{BranchID: 1, ServiceType: " Cash ", Date: "2025-01-10", TimeSlot: "9:00"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Cash", req.ServiceType)
	assert.Equal(t, "09:00", req.TimeSlot)

	cases := map[string]BookingRequest{
		"missing_fields":    {BranchID: 1, Date: "2025-01-10", TimeSlot: "09:00"},
		"invalid_date":      {BranchID: 1, ServiceType: "x", Date: "10/01/2025", TimeSlot: "09:00"},
		"invalid_time_slot": {BranchID: 1, ServiceType: "x", Date: "2025-01-10", TimeSlot: "25:00"},
	}
	for code, r := range cases {
		err := r.Validate()
		assert.Truef(t, httperr.IsBusiness(err, code), "want %s, got %v", code, err)
		assert.True(t, httperr.IsKind(err, httperr.KindValidation))
	}
}

func TestAdmit(t *testing.T) {
	ap := &models.Appointment{}

	require.NoError(t, Admit(ap)(0, false))
	assert.Equal(t, 1, ap.QueueNumber)

	require.NoError(t, Admit(ap)(4, false))
	assert.Equal(t, 5, ap.QueueNumber)

	err := Admit(ap)(4, true)
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))
	assert.Equal(t, 5, ap.QueueNumber)
}

func TestRelocate(t *testing.T) {
	admit := Relocate()

	require.NoError(t, admit(0, false))
	assert.True(t, httperr.IsBusiness(admit(0, true), "slot_taken"))
}

func TestNewAppointmentPriority(t *testing.T) {
	ap := NewAppointment(BookingRequest{UserID: 3, BranchID: 1, ServiceType: "Loans", Date: "2025-01-10", TimeSlot: "09:30", PriorityCriteria: "Senior Citizen"})
	assert.Equal(t, ticket.PrioritySeniorCitizen, ap.PriorityLevel)
	assert.Equal(t, "Senior Citizen", ap.PriorityCriteria)
	assert.Equal(t, ticket.StatusPending, ap.Status)

	ap = NewAppointment(BookingRequest{PriorityCriteria: "VIP"})
	assert.Equal(t, ticket.PriorityNormal, ap.PriorityLevel)
	assert.Equal(t, "Normal", ap.PriorityCriteria)
}

func TestCheckNotPast(t *testing.T) {
	now := time.Date(2025, 1, 10, 10, 15, 0, 0, time.UTC)

	assert.NoError(t, CheckNotPast("2025-01-11", "09:00", now))
	assert.NoError(t, CheckNotPast("2025-01-10", "10:15", now))
	assert.True(t, httperr.IsBusiness(CheckNotPast("2025-01-10", "10:00", now), "slot_in_past"))
	assert.True(t, httperr.IsBusiness(CheckNotPast("2025-01-09", "12:00", now), "slot_in_past"))
}
