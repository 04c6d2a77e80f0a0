package ticket

import "strings"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions lists, per target status, the states it may be entered from.
var transitions = map[Status][]Status{
	StatusCompleted: {StatusPending},
	StatusCancelled: {StatusPending},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// IsTarget reports whether a status may be requested as the result of a transition.
func IsTarget(to Status) bool {
	_, ok := transitions[to]
	return ok
}

func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[to] {
		if allowed == from {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func InitialStatus() Status {
	return StatusPending
}
