package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestApplicantValidate(t *testing.T) {
	t.Run("empty applicant is schema-valid", func(t *testing.T) {
		assert.Empty(t, Applicant{}.Validate("applicant"))
	})

	t.Run("valid full applicant", func(t *testing.T) {
		a := Applicant{
			FirstName:      "Jane",
			LastName:       "Doe",
			Email:          "jane@example.com",
			DateOfBirth:    "1985-03-12",
			Address:        &Address{Street: "12 Oak St", City: "Springfield", State: "IL", Zip: "62704"},
			EmploymentType: "Full-Time",
			AnnualIncome:   88000,
			MaritalStatus:  "Married",
			Dependents:     intPtr(2),
		}
		assert.Empty(t, a.Validate("applicant"))
	})

	t.Run("collects every violation", func(t *testing.T) {
		a := Applicant{
			Email:          "bad",
			DateOfBirth:    "03/12/1985",
			Address:        &Address{State: "Illinois", Zip: "627"},
			EmploymentType: "Freelancer",
			AnnualIncome:   -1,
			MaritalStatus:  "Complicated",
			Dependents:     intPtr(-1),
		}
		violations := a.Validate("applicant")
		fields := make([]string, len(violations))
		for i, v := range violations {
			fields[i] = v.Field
		}
		assert.Equal(t, []string{
			"applicant.email",
			"applicant.dateOfBirth",
			"applicant.address.state",
			"applicant.address.zip",
			"applicant.employmentType",
			"applicant.annualIncome",
			"applicant.maritalStatus",
			"applicant.dependents",
		}, fields)
	})
}

func TestApplicantValidateRequired(t *testing.T) {
	a := Applicant{FirstName: "Jane"}
	violations := a.ValidateRequired("applicant")
	fields := make([]string, len(violations))
	for i, v := range violations {
		fields[i] = v.Field
	}
	assert.Contains(t, fields, "applicant.lastName")
	assert.Contains(t, fields, "applicant")
	assert.Contains(t, fields, "applicant.email")
	assert.NotContains(t, fields, "applicant.firstName")
}

func TestCoApplicantIncluded(t *testing.T) {
	assert.False(t, CoApplicant{}.Included())
	assert.True(t, CoApplicant{IncludeCoApplicant: true}.Included())
	// Legacy flag name still declares a co-applicant.
	assert.True(t, CoApplicant{HasCoApplicant: true}.Included())
}

func TestCoApplicantValidateRequired(t *testing.T) {
	t.Run("not included skips the contact rules", func(t *testing.T) {
		a := CoApplicant{FirstName: "John"}
		assert.Empty(t, a.ValidateRequired("coApplicant"))
	})

	t.Run("included demands name and contact", func(t *testing.T) {
		a := CoApplicant{IncludeCoApplicant: true}
		violations := a.ValidateRequired("coApplicant")
		assert.Len(t, violations, 4) // firstName, lastName, phone, email
	})

	t.Run("included and complete passes", func(t *testing.T) {
		a := CoApplicant{
			IncludeCoApplicant: true,
			FirstName:          "John",
			LastName:           "Doe",
			MobilePhone:        "555-0100",
			Email:              "john@example.com",
			Relationship:       "Spouse",
		}
		assert.Empty(t, a.ValidateRequired("coApplicant"))
	})
}

func TestUnderwritingBounds(t *testing.T) {
	u := Underwriting{
		CreditScore:  intPtr(720),
		DebtToIncome: floatPtr(43.5),
		LoanToValue:  floatPtr(80),
	}
	assert.Empty(t, u.Validate("underwriting"))

	u = Underwriting{
		CreditScore:  intPtr(851),
		DebtToIncome: floatPtr(-0.5),
		LoanToValue:  floatPtr(100.1),
	}
	assert.Len(t, u.Validate("underwriting"), 3)

	// Boundary values are inside the closed interval.
	u = Underwriting{CreditScore: intPtr(300)}
	assert.Empty(t, u.Validate("underwriting"))
	u = Underwriting{CreditScore: intPtr(850)}
	assert.Empty(t, u.Validate("underwriting"))
}

func TestLoanStatusVocabulary(t *testing.T) {
	assert.Empty(t, LoanStatus{Status: "Pre-Approval"}.Validate("loanStatus"))

	violations := LoanStatus{Status: "pre-approval"}.Validate("loanStatus")
	assert.Len(t, violations, 1)
	assert.Equal(t, "loanStatus.status", violations[0].Field)
}

func TestBoolFlagSectionsPopulated(t *testing.T) {
	// A lone false flag is stored but not meaningful data.
	assert.False(t, Renters{HasRentersInsurance: false}.IsPopulated())
	assert.True(t, Renters{HasRentersInsurance: true}.IsPopulated())
	assert.True(t, Renters{AnnualPremium: 250}.IsPopulated())

	assert.False(t, Homeowners{}.IsPopulated())
	assert.True(t, Homeowners{HasHomeownersInsurance: true}.IsPopulated())

	assert.False(t, IncomeProtection{}.IsPopulated())
	assert.True(t, IncomeProtection{HasDisabilityCoverage: true}.IsPopulated())

	assert.False(t, VehicleCoverage{}.IsPopulated())
	assert.True(t, VehicleCoverage{HasVehicles: true}.IsPopulated())

	assert.False(t, Retirement{}.IsPopulated())
	assert.True(t, Retirement{HasRetirementAccounts: true}.IsPopulated())
}

func TestAddressIsPopulated(t *testing.T) {
	var a *Address
	assert.False(t, a.IsPopulated())
	assert.False(t, (&Address{}).IsPopulated())
	assert.True(t, (&Address{City: "Springfield"}).IsPopulated())
}
