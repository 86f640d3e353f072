package models

// Status is the coarse workflow state of a client record.
type Status string

const (
	StatusProspect Status = "prospect"
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// DeriveStatus maps a completion percentage to the workflow status:
// 0% prospect, 1-99% pending, 100% active. StatusInactive is administrative
// only and is never produced by derivation.
func DeriveStatus(completionPercentage int) Status {
	switch {
	case completionPercentage == 0:
		return StatusProspect
	case completionPercentage >= 100:
		return StatusActive
	default:
		return StatusPending
	}
}
