package models

import (
	"time"

	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
)

// ClientRecord is the aggregate root for one prospective client's intake.
//
// Invariants:
//   - ID and ClientNumber are assigned at creation and immutable
//   - CompletionPercentage always equals round(100 * populated sections / 13)
//     for the current section content; it is recomputed on every mutation and
//     never writable by callers
//   - Status is derived from completion except while administratively
//     deactivated (StatusInactive), during which section writes are rejected
//   - Version increments on every persisted mutation (optimistic concurrency
//     token checked at the persistence boundary)
//   - CreatedAt/UpdatedAt are set by the store, never by callers
type ClientRecord struct {
	ID                   id.ClientID `json:"id"`
	ClientNumber         string      `json:"clientId"`
	Status               Status      `json:"status"`
	CompletionPercentage int         `json:"completionPercentage"`
	Sections             `json:"sections"`
	Version              int64     `json:"version"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// NewClientRecord constructs an empty aggregate with its identity assigned.
// Completion and status start at their zero-content derivations; the caller
// recomputes them after storing any creation-time sections.
func NewClientRecord(clientID id.ClientID, clientNumber string) (*ClientRecord, error) {
	if clientID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client id cannot be zero")
	}
	if clientNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client number cannot be empty")
	}
	return &ClientRecord{
		ID:           clientID,
		ClientNumber: clientNumber,
		Status:       StatusProspect,
	}, nil
}

// IsActive reports whether the record accepts section writes.
func (r *ClientRecord) IsActive() bool {
	return r.Status != StatusInactive
}

// CanDeactivate checks the transition to administrative inactive status.
func (r *ClientRecord) CanDeactivate() error {
	if r.Status == StatusInactive {
		return dErrors.New(dErrors.CodeInvariantViolation, "client is already inactive")
	}
	return nil
}

// ApplyDeactivation transitions the record to inactive. Call CanDeactivate
// first to validate the transition.
func (r *ClientRecord) ApplyDeactivation() {
	r.Status = StatusInactive
}

// CanReactivate checks the transition back to a derived status.
func (r *ClientRecord) CanReactivate() error {
	if r.Status != StatusInactive {
		return dErrors.New(dErrors.CodeInvariantViolation, "client is not inactive")
	}
	return nil
}

// ApplyReactivation restores the derived status for the current completion.
func (r *ClientRecord) ApplyReactivation() {
	r.Status = DeriveStatus(r.CompletionPercentage)
}

// Clone returns a deep copy so store reads never alias store-held state.
func (r *ClientRecord) Clone() *ClientRecord {
	out := *r
	out.Sections = r.Sections.Clone()
	return &out
}

// Clone deep-copies every section slot.
func (s Sections) Clone() Sections {
	out := s
	out.Applicant = clonePtr(s.Applicant)
	if out.Applicant != nil {
		out.Applicant.Address = clonePtr(s.Applicant.Address)
		out.Applicant.Dependents = clonePtr(s.Applicant.Dependents)
	}
	out.CoApplicant = clonePtr(s.CoApplicant)
	if out.CoApplicant != nil {
		out.CoApplicant.Address = clonePtr(s.CoApplicant.Address)
	}
	out.Liabilities = cloneSlice(s.Liabilities, func(l Liability) Liability {
		l.InterestRate = clonePtr(l.InterestRate)
		return l
	})
	out.Mortgages = cloneSlice(s.Mortgages, func(m Mortgage) Mortgage {
		m.PropertyAddress = clonePtr(m.PropertyAddress)
		m.InterestRate = clonePtr(m.InterestRate)
		m.YearsRemaining = clonePtr(m.YearsRemaining)
		return m
	})
	out.Underwriting = clonePtr(s.Underwriting)
	if out.Underwriting != nil {
		out.Underwriting.CreditScore = clonePtr(s.Underwriting.CreditScore)
		out.Underwriting.DebtToIncome = clonePtr(s.Underwriting.DebtToIncome)
		out.Underwriting.LoanToValue = clonePtr(s.Underwriting.LoanToValue)
	}
	out.LoanStatus = clonePtr(s.LoanStatus)
	if out.LoanStatus != nil {
		out.LoanStatus.InterestRate = clonePtr(s.LoanStatus.InterestRate)
		out.LoanStatus.TermMonths = clonePtr(s.LoanStatus.TermMonths)
	}
	out.Drivers = cloneSlice(s.Drivers, func(d Driver) Driver {
		d.Accidents = clonePtr(d.Accidents)
		d.Violations = clonePtr(d.Violations)
		return d
	})
	out.VehicleCoverage = clonePtr(s.VehicleCoverage)
	out.Homeowners = clonePtr(s.Homeowners)
	if out.Homeowners != nil {
		out.Homeowners.PropertyAddress = clonePtr(s.Homeowners.PropertyAddress)
	}
	out.Renters = clonePtr(s.Renters)
	out.IncomeProtection = clonePtr(s.IncomeProtection)
	if out.IncomeProtection != nil {
		out.IncomeProtection.TermYears = clonePtr(s.IncomeProtection.TermYears)
	}
	out.Retirement = clonePtr(s.Retirement)
	if out.Retirement != nil {
		out.Retirement.EmployerMatchPercent = clonePtr(s.Retirement.EmployerMatchPercent)
	}
	out.Lineage = clonePtr(s.Lineage)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](in []T, fix func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fix(v)
	}
	return out
}
