package models

import (
	dErrors "intake/pkg/domain-errors"

	"intake/internal/intake/validation"
)

// Closed vocabularies for enumerated section fields. Submitting a value
// outside a vocabulary is a validation failure, never a silent coercion.
var (
	EmploymentTypes = []string{"Full-Time", "Part-Time", "Self-Employed", "Retired", "Unemployed"}
	MaritalStatuses = []string{"Single", "Married", "Divorced", "Widowed", "Separated"}
	Relationships   = []string{"Spouse", "Partner", "Parent", "Child", "Sibling", "Other"}
	LiabilityTypes  = []string{"Credit Card", "Auto Loan", "Student Loan", "Personal Loan", "Medical", "Other"}
	MortgageTypes   = []string{"Fixed", "ARM", "FHA", "VA", "Interest-Only"}
	LoanStatuses    = []string{"Inquiry", "Pre-Approval", "Application", "In Review", "Approved", "Denied", "Funded"}
	RetirementTypes = []string{"401k", "IRA", "Roth IRA", "403b", "Pension", "Other"}
)

// Sections holds the thirteen independently optional sub-documents of a
// client aggregate. Object sections are pointers (nil = never written);
// sequence sections are slices (nil or empty = never written).
type Sections struct {
	Applicant        *Applicant        `json:"applicant,omitempty"`
	CoApplicant      *CoApplicant      `json:"coApplicant,omitempty"`
	Liabilities      []Liability       `json:"liabilities,omitempty"`
	Mortgages        []Mortgage        `json:"mortgages,omitempty"`
	Underwriting     *Underwriting     `json:"underwriting,omitempty"`
	LoanStatus       *LoanStatus       `json:"loanStatus,omitempty"`
	Drivers          []Driver          `json:"drivers,omitempty"`
	VehicleCoverage  *VehicleCoverage  `json:"vehicleCoverage,omitempty"`
	Homeowners       *Homeowners       `json:"homeowners,omitempty"`
	Renters          *Renters          `json:"renters,omitempty"`
	IncomeProtection *IncomeProtection `json:"incomeProtection,omitempty"`
	Retirement       *Retirement       `json:"retirement,omitempty"`
	Lineage          *Lineage          `json:"lineage,omitempty"`
}

// Address is a postal address block shared by several sections.
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

func (a *Address) validate(path string, c *validation.Collector) {
	if a == nil {
		return
	}
	c.State(path+".state", a.State)
	c.ZipCode(path+".zip", a.Zip)
}

// IsPopulated reports whether the address holds any meaningful value.
func (a *Address) IsPopulated() bool {
	if a == nil {
		return false
	}
	return a.Street != "" || a.City != "" || a.State != "" || a.Zip != ""
}

// Applicant is the primary applicant's identity, contact and employment
// profile.
type Applicant struct {
	FirstName      string   `json:"firstName,omitempty"`
	LastName       string   `json:"lastName,omitempty"`
	Email          string   `json:"email,omitempty"`
	HomePhone      string   `json:"homePhone,omitempty"`
	MobilePhone    string   `json:"mobilePhone,omitempty"`
	OtherPhone     string   `json:"otherPhone,omitempty"`
	DateOfBirth    string   `json:"dateOfBirth,omitempty"`
	Address        *Address `json:"address,omitempty"`
	EmploymentType string   `json:"employmentType,omitempty"`
	Employer       string   `json:"employer,omitempty"`
	Occupation     string   `json:"occupation,omitempty"`
	AnnualIncome   float64  `json:"annualIncome,omitempty"`
	MaritalStatus  string   `json:"maritalStatus,omitempty"`
	Dependents     *int     `json:"dependents,omitempty"`
}

func (a Applicant) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	c.Email(path+".email", a.Email)
	c.Date(path+".dateOfBirth", a.DateOfBirth)
	a.Address.validate(path+".address", &c)
	c.OneOf(path+".employmentType", a.EmploymentType, EmploymentTypes...)
	c.NonNegative(path+".annualIncome", a.AnnualIncome)
	c.OneOf(path+".maritalStatus", a.MaritalStatus, MaritalStatuses...)
	c.NonNegativeInt(path+".dependents", a.Dependents)
	return c.Violations()
}

// ValidateRequired layers the required-basic-info rules on top of the lax
// schema: name and contact block become mandatory.
func (a Applicant) ValidateRequired(path string) []dErrors.Violation {
	var c validation.Collector
	c.Require(path+".firstName", a.FirstName)
	c.Require(path+".lastName", a.LastName)
	c.RequireContact(path, a.HomePhone, a.MobilePhone, a.OtherPhone, a.Email)
	c.Merge(a.Validate(path))
	return c.Violations()
}

func (a Applicant) IsPopulated() bool {
	return a.FirstName != "" || a.LastName != "" || a.Email != "" ||
		a.HomePhone != "" || a.MobilePhone != "" || a.OtherPhone != "" ||
		a.DateOfBirth != "" || a.Address.IsPopulated() ||
		a.EmploymentType != "" || a.Employer != "" || a.Occupation != "" ||
		a.AnnualIncome != 0 || a.MaritalStatus != "" || a.Dependents != nil
}

// CoApplicant mirrors the applicant profile for a second party. The
// IncludeCoApplicant flag gates the stricter required-contact rules; the
// legacy HasCoApplicant name is accepted for wire compatibility.
type CoApplicant struct {
	IncludeCoApplicant bool     `json:"includeCoApplicant,omitempty"`
	HasCoApplicant     bool     `json:"hasCoApplicant,omitempty"`
	FirstName          string   `json:"firstName,omitempty"`
	LastName           string   `json:"lastName,omitempty"`
	Email              string   `json:"email,omitempty"`
	HomePhone          string   `json:"homePhone,omitempty"`
	MobilePhone        string   `json:"mobilePhone,omitempty"`
	OtherPhone         string   `json:"otherPhone,omitempty"`
	DateOfBirth        string   `json:"dateOfBirth,omitempty"`
	Address            *Address `json:"address,omitempty"`
	Relationship       string   `json:"relationship,omitempty"`
	EmploymentType     string   `json:"employmentType,omitempty"`
	Employer           string   `json:"employer,omitempty"`
	AnnualIncome       float64  `json:"annualIncome,omitempty"`
}

// Included reports whether a co-applicant is declared, under either flag name.
func (a CoApplicant) Included() bool {
	return a.IncludeCoApplicant || a.HasCoApplicant
}

func (a CoApplicant) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	c.Email(path+".email", a.Email)
	c.Date(path+".dateOfBirth", a.DateOfBirth)
	a.Address.validate(path+".address", &c)
	c.OneOf(path+".relationship", a.Relationship, Relationships...)
	c.OneOf(path+".employmentType", a.EmploymentType, EmploymentTypes...)
	c.NonNegative(path+".annualIncome", a.AnnualIncome)
	return c.Violations()
}

// ValidateRequired applies the required-contact rules only when the
// co-applicant flag is set. The flag and the conditional fields always travel
// in the same validation pass.
func (a CoApplicant) ValidateRequired(path string) []dErrors.Violation {
	if !a.Included() {
		return a.Validate(path)
	}
	var c validation.Collector
	c.Require(path+".firstName", a.FirstName)
	c.Require(path+".lastName", a.LastName)
	c.RequireContact(path, a.HomePhone, a.MobilePhone, a.OtherPhone, a.Email)
	c.Merge(a.Validate(path))
	return c.Violations()
}

func (a CoApplicant) IsPopulated() bool {
	return a.IncludeCoApplicant || a.HasCoApplicant ||
		a.FirstName != "" || a.LastName != "" || a.Email != "" ||
		a.HomePhone != "" || a.MobilePhone != "" || a.OtherPhone != "" ||
		a.DateOfBirth != "" || a.Address.IsPopulated() ||
		a.Relationship != "" || a.EmploymentType != "" || a.Employer != "" ||
		a.AnnualIncome != 0
}

// Liability is one entry in the liabilities sequence.
type Liability struct {
	Type           string   `json:"type,omitempty"`
	Creditor       string   `json:"creditor,omitempty"`
	Balance        float64  `json:"balance,omitempty"`
	MonthlyPayment float64  `json:"monthlyPayment,omitempty"`
	InterestRate   *float64 `json:"interestRate,omitempty"`
}

func (l Liability) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	c.OneOf(path+".type", l.Type, LiabilityTypes...)
	c.NonNegative(path+".balance", l.Balance)
	c.NonNegative(path+".monthlyPayment", l.MonthlyPayment)
	c.Range(path+".interestRate", l.InterestRate, 0, 100)
	return c.Violations()
}

// Mortgage is one entry in the mortgages sequence.
type Mortgage struct {
	Lender          string   `json:"lender,omitempty"`
	PropertyAddress *Address `json:"propertyAddress,omitempty"`
	LoanType        string   `json:"loanType,omitempty"`
	OriginalAmount  float64  `json:"originalAmount,omitempty"`
	CurrentBalance  float64  `json:"currentBalance,omitempty"`
	MonthlyPayment  float64  `json:"monthlyPayment,omitempty"`
	InterestRate    *float64 `json:"interestRate,omitempty"`
	YearsRemaining  *int     `json:"yearsRemaining,omitempty"`
}

func (m Mortgage) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	m.PropertyAddress.validate(path+".propertyAddress", &c)
	c.OneOf(path+".loanType", m.LoanType, MortgageTypes...)
	c.NonNegative(path+".originalAmount", m.OriginalAmount)
	c.NonNegative(path+".currentBalance", m.CurrentBalance)
	c.NonNegative(path+".monthlyPayment", m.MonthlyPayment)
	c.Range(path+".interestRate", m.InterestRate, 0, 100)
	c.NonNegativeInt(path+".yearsRemaining", m.YearsRemaining)
	return c.Violations()
}

// Underwriting is the financial profile used for underwriting review.
type Underwriting struct {
	CreditScore      *int     `json:"creditScore,omitempty"`
	AnnualIncome     float64  `json:"annualIncome,omitempty"`
	DebtToIncome     *float64 `json:"debtToIncome,omitempty"`
	LoanToValue      *float64 `json:"loanToValue,omitempty"`
	TotalAssets      float64  `json:"totalAssets,omitempty"`
	TotalLiabilities float64  `json:"totalLiabilities,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

func (u Underwriting) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	c.IntRange(path+".creditScore", u.CreditScore, 300, 850)
	c.NonNegative(path+".annualIncome", u.AnnualIncome)
	c.Range(path+".debtToIncome", u.DebtToIncome, 0, 100)
	c.Range(path+".loanToValue", u.LoanToValue, 0, 100)
	c.NonNegative(path+".totalAssets", u.TotalAssets)
	c.NonNegative(path+".totalLiabilities", u.TotalLiabilities)
	return c.Violations()
}

func (u Underwriting) IsPopulated() bool {
	return u.CreditScore != nil || u.AnnualIncome != 0 || u.DebtToIncome != nil ||
		u.LoanToValue != nil || u.TotalAssets != 0 || u.TotalLiabilities != 0 ||
		u.Notes != ""
}

// LoanStatus tracks where the client sits in the loan workflow.
type LoanStatus struct {
	Status       string   `json:"status,omitempty"`
	LoanAmount   float64  `json:"loanAmount,omitempty"`
	InterestRate *float64 `json:"interestRate,omitempty"`
	TermMonths   *int     `json:"termMonths,omitempty"`
	LockDate     string   `json:"lockDate,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

func (l LoanStatus) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	c.OneOf(path+".status", l.Status, LoanStatuses...)
	c.NonNegative(path+".loanAmount", l.LoanAmount)
	c.Range(path+".interestRate", l.InterestRate, 0, 100)
	c.IntRange(path+".termMonths", l.TermMonths, 1, 480)
	c.Date(path+".lockDate", l.LockDate)
	return c.Violations()
}

func (l LoanStatus) IsPopulated() bool {
	return l.Status != "" || l.LoanAmount != 0 || l.InterestRate != nil ||
		l.TermMonths != nil || l.LockDate != "" || l.Notes != ""
}

// Driver is one entry in the drivers sequence.
type Driver struct {
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	DateOfBirth   string `json:"dateOfBirth,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	LicenseState  string `json:"licenseState,omitempty"`
	Relationship  string `json:"relationship,omitempty"`
	Accidents     *int   `json:"accidents,omitempty"`
	Violations    *int   `json:"violations,omitempty"`
}

func (d Driver) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	c.Date(path+".dateOfBirth", d.DateOfBirth)
	c.State(path+".licenseState", d.LicenseState)
	c.OneOf(path+".relationship", d.Relationship, Relationships...)
	c.NonNegativeInt(path+".accidents", d.Accidents)
	c.NonNegativeInt(path+".violations", d.Violations)
	return c.Violations()
}

// VehicleCoverage describes the client's auto insurance position.
type VehicleCoverage struct {
	HasVehicles             bool    `json:"hasVehicles,omitempty"`
	Carrier                 string  `json:"carrier,omitempty"`
	PolicyNumber            string  `json:"policyNumber,omitempty"`
	LiabilityLimit          float64 `json:"liabilityLimit,omitempty"`
	CollisionDeductible     float64 `json:"collisionDeductible,omitempty"`
	ComprehensiveDeductible float64 `json:"comprehensiveDeductible,omitempty"`
	AnnualPremium           float64 `json:"annualPremium,omitempty"`
	ExpirationDate          string  `json:"expirationDate,omitempty"`
}

func (v VehicleCoverage) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	c.NonNegative(path+".liabilityLimit", v.LiabilityLimit)
	c.NonNegative(path+".collisionDeductible", v.CollisionDeductible)
	c.NonNegative(path+".comprehensiveDeductible", v.ComprehensiveDeductible)
	c.NonNegative(path+".annualPremium", v.AnnualPremium)
	c.Date(path+".expirationDate", v.ExpirationDate)
	return c.Violations()
}

func (v VehicleCoverage) IsPopulated() bool {
	return v.HasVehicles || v.Carrier != "" || v.PolicyNumber != "" ||
		v.LiabilityLimit != 0 || v.CollisionDeductible != 0 ||
		v.ComprehensiveDeductible != 0 || v.AnnualPremium != 0 ||
		v.ExpirationDate != ""
}

// Homeowners describes the client's homeowners insurance position.
type Homeowners struct {
	HasHomeownersInsurance bool     `json:"hasHomeownersInsurance,omitempty"`
	Carrier                string   `json:"carrier,omitempty"`
	PolicyNumber           string   `json:"policyNumber,omitempty"`
	DwellingCoverage       float64  `json:"dwellingCoverage,omitempty"`
	Deductible             float64  `json:"deductible,omitempty"`
	AnnualPremium          float64  `json:"annualPremium,omitempty"`
	PropertyAddress        *Address `json:"propertyAddress,omitempty"`
}

func (h Homeowners) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	c.NonNegative(path+".dwellingCoverage", h.DwellingCoverage)
	c.NonNegative(path+".deductible", h.Deductible)
	c.NonNegative(path+".annualPremium", h.AnnualPremium)
	h.PropertyAddress.validate(path+".propertyAddress", &c)
	return c.Violations()
}

func (h Homeowners) IsPopulated() bool {
	return h.HasHomeownersInsurance || h.Carrier != "" || h.PolicyNumber != "" ||
		h.DwellingCoverage != 0 || h.Deductible != 0 || h.AnnualPremium != 0 ||
		h.PropertyAddress.IsPopulated()
}

// Renters describes the client's renters insurance position.
type Renters struct {
	HasRentersInsurance   bool    `json:"hasRentersInsurance,omitempty"`
	Carrier               string  `json:"carrier,omitempty"`
	PolicyNumber          string  `json:"policyNumber,omitempty"`
	PersonalPropertyLimit float64 `json:"personalPropertyLimit,omitempty"`
	AnnualPremium         float64 `json:"annualPremium,omitempty"`
}

func (r Renters) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	c.NonNegative(path+".personalPropertyLimit", r.PersonalPropertyLimit)
	c.NonNegative(path+".annualPremium", r.AnnualPremium)
	return c.Violations()
}

func (r Renters) IsPopulated() bool {
	return r.HasRentersInsurance || r.Carrier != "" || r.PolicyNumber != "" ||
		r.PersonalPropertyLimit != 0 || r.AnnualPremium != 0
}

// IncomeProtection covers disability and life insurance.
type IncomeProtection struct {
	HasDisabilityCoverage bool    `json:"hasDisabilityCoverage,omitempty"`
	HasLifeInsurance      bool    `json:"hasLifeInsurance,omitempty"`
	Carrier               string  `json:"carrier,omitempty"`
	MonthlyBenefit        float64 `json:"monthlyBenefit,omitempty"`
	BenefitAmount         float64 `json:"benefitAmount,omitempty"`
	AnnualPremium         float64 `json:"annualPremium,omitempty"`
	TermYears             *int    `json:"termYears,omitempty"`
}

func (p IncomeProtection) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	c.NonNegative(path+".monthlyBenefit", p.MonthlyBenefit)
	c.NonNegative(path+".benefitAmount", p.BenefitAmount)
	c.NonNegative(path+".annualPremium", p.AnnualPremium)
	c.NonNegativeInt(path+".termYears", p.TermYears)
	return c.Violations()
}

func (p IncomeProtection) IsPopulated() bool {
	return p.HasDisabilityCoverage || p.HasLifeInsurance || p.Carrier != "" ||
		p.MonthlyBenefit != 0 || p.BenefitAmount != 0 || p.AnnualPremium != 0 ||
		p.TermYears != nil
}

// Retirement covers retirement savings accounts.
type Retirement struct {
	HasRetirementAccounts bool     `json:"hasRetirementAccounts,omitempty"`
	AccountType           string   `json:"accountType,omitempty"`
	Institution           string   `json:"institution,omitempty"`
	Balance               float64  `json:"balance,omitempty"`
	MonthlyContribution   float64  `json:"monthlyContribution,omitempty"`
	EmployerMatchPercent  *float64 `json:"employerMatchPercent,omitempty"`
}

func (r Retirement) Validate(path string) []dErrors.Violation {
	var c validation.Collector
	c.OneOf(path+".accountType", r.AccountType, RetirementTypes...)
	c.NonNegative(path+".balance", r.Balance)
	c.NonNegative(path+".monthlyContribution", r.MonthlyContribution)
	c.Range(path+".employerMatchPercent", r.EmployerMatchPercent, 0, 100)
	return c.Violations()
}

func (r Retirement) IsPopulated() bool {
	return r.HasRetirementAccounts || r.AccountType != "" || r.Institution != "" ||
		r.Balance != 0 || r.MonthlyContribution != 0 || r.EmployerMatchPercent != nil
}

// Lineage records how the client reached the practice.
type Lineage struct {
	ReferralSource string `json:"referralSource,omitempty"`
	ReferredBy     string `json:"referredBy,omitempty"`
	ConsultantName string `json:"consultantName,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

func (l Lineage) Validate(string) []dErrors.Violation {
	return nil
}

func (l Lineage) IsPopulated() bool {
	return l.ReferralSource != "" || l.ReferredBy != "" ||
		l.ConsultantName != "" || l.Notes != ""
}
