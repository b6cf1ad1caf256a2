package models

// LeadStatus is the closed, ordered set of pipeline stages.
type LeadStatus string

const (
	LeadNew        LeadStatus = "NAYA"
	LeadInProgress LeadStatus = "BAAT_CHAL_RAHI"
	LeadWon        LeadStatus = "PAKKA"
)

// Valid reports whether s is one of the enumerated pipeline stages.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadInProgress, LeadWon:
		return true
	}
	return false
}

// Lead is a prospective deal tracked through the pipeline stages.
type Lead struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Detail       string     `json:"detail"`
	Amount       string     `json:"amount,omitempty"` // Display string, e.g. "₹15,000"
	Status       LeadStatus `json:"status"`
	AssignedTo   string     `json:"assignedTo,omitempty"`
	ReminderDate string     `json:"reminderDate,omitempty"`
}
