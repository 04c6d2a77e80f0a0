package ticket

import "strings"

// Priority is the serving weight of an appointment. Lower values are served
// first; the label is derived from the value and never stored on its own.
type Priority int

const (
	PriorityEmergency     Priority = 1
	PrioritySeniorCitizen Priority = 2
	PriorityChildInfant   Priority = 3
	PriorityNormal        Priority = 5
)

var priorityLabels = map[Priority]string{
	PriorityEmergency:     "Emergency",
	PrioritySeniorCitizen: "Senior Citizen",
	PriorityChildInfant:   "Child/Infant",
	PriorityNormal:        "Normal",
}

// ParsePriority maps a criteria label to its priority. Unknown or empty
// labels are Normal.
func ParsePriority(criteria string) Priority {
	c := strings.TrimSpace(criteria)
	for p, label := range priorityLabels {
		if strings.EqualFold(label, c) {
			return p
		}
	}
	return PriorityNormal
}

// Label returns the criteria label. Levels outside the enumeration read as Normal.
func (p Priority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return priorityLabels[PriorityNormal]
}

func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// Before reports whether p is served ahead of other.
func (p Priority) Before(other Priority) bool {
	return p < other
}
