package httperr

var messages = map[string]string{
	"missing_fields":        "Please provide all required fields.",
	"invalid_date":          "Date must be formatted as YYYY-MM-DD.",
	"invalid_time_slot":     "Time slot must be formatted as HH:MM.",
	"slot_off_grid":         "The requested time slot is not offered by this branch.",
	"slot_in_past":          "The requested time slot has already passed.",
	"slot_taken":            "This time slot is already booked, please pick another slot.",
	"invalid_status":        "Status must be completed or cancelled.",
	"invalid_state":         "Only pending appointments can change status.",
	"invalid_working_hours": "Opening time must be before closing time.",
	"invalid_slot_duration": "Slot duration must be a positive number of minutes.",
	"branch_not_found":      "Branch not found.",
	"appointment_not_found": "Appointment not found.",
	"user_not_found":        "User not found.",
	"not_branch_admin":      "You can only manage appointments for your own branch.",
	"not_appointment_owner": "You can only manage your own appointments.",
	"access_denied":         "Access denied for this role.",
	"email_taken":           "An account with this email already exists.",
	"invalid_email":         "Please provide a valid email address.",
	"invalid_email_domain":  "The email domain does not seem to accept mail.",
	"invalid_timezone":      "Unknown timezone.",
	"branch_has_bookings":   "Branches with appointments cannot be deleted.",
}

func messageFor(be BusinessError) string {
	if msg, ok := messages[be.Code]; ok {
		return msg
	}
	return be.Code
}
