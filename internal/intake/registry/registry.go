// Package registry is the single source of truth for the thirteen intake
// sections: their names, declared order, decoding into typed payloads,
// validation and has-meaningful-data predicates. Any other section name is
// invalid everywhere in the system.
package registry

import (
	"encoding/json"
	"fmt"

	"intake/internal/intake/models"
	dErrors "intake/pkg/domain-errors"
)

// Kind distinguishes single-object sections from ordered sequences.
type Kind int

const (
	KindObject Kind = iota
	KindList
)

// Section is one decoded, validated section payload ready to be applied to an
// aggregate. The closed set of implementations mirrors the closed set of
// section names.
type Section interface {
	Name() string
	Validate() []dErrors.Violation
	IsPopulated() bool
	Apply(dst *models.Sections)
	Value() any
}

// RequiredValidator is implemented by sections with a stricter
// required-basic-info variant (applicant and co-applicant).
type RequiredValidator interface {
	ValidateRequired() []dErrors.Violation
}

type entry struct {
	name   string
	kind   Kind
	decode func(raw json.RawMessage) (Section, error)
	slot   func(src *models.Sections) (value any, populated bool)
}

// objectPayload is satisfied by every object section model.
type objectPayload interface {
	Validate(path string) []dErrors.Violation
	IsPopulated() bool
}

// listItem is satisfied by every sequence section element model.
type listItem interface {
	Validate(path string) []dErrors.Violation
}

type objectSection[T objectPayload] struct {
	name  string
	data  T
	apply func(dst *models.Sections, data T)
}

func (s objectSection[T]) Name() string                    { return s.name }
func (s objectSection[T]) Validate() []dErrors.Violation   { return s.data.Validate(s.name) }
func (s objectSection[T]) IsPopulated() bool               { return s.data.IsPopulated() }
func (s objectSection[T]) Apply(dst *models.Sections)      { s.apply(dst, s.data) }
func (s objectSection[T]) Value() any                      { return s.data }

type listSection[T listItem] struct {
	name  string
	items []T
	apply func(dst *models.Sections, items []T)
}

func (s listSection[T]) Name() string { return s.name }

func (s listSection[T]) Validate() []dErrors.Violation {
	var all []dErrors.Violation
	for i, item := range s.items {
		all = append(all, item.Validate(fmt.Sprintf("%s[%d]", s.name, i))...)
	}
	return all
}

func (s listSection[T]) IsPopulated() bool          { return len(s.items) > 0 }
func (s listSection[T]) Apply(dst *models.Sections) { s.apply(dst, s.items) }
func (s listSection[T]) Value() any                 { return s.items }

// requiredSection wraps applicant/co-applicant payloads with their stricter
// variant. The required rule is selected in a second phase after decoding so
// it stays auditable in isolation.
type requiredSection[T interface {
	objectPayload
	ValidateRequired(path string) []dErrors.Violation
}] struct {
	objectSection[T]
}

func (s requiredSection[T]) ValidateRequired() []dErrors.Violation {
	return s.data.ValidateRequired(s.name)
}

func decodeObject[T objectPayload](name string, apply func(*models.Sections, T)) func(json.RawMessage) (Section, error) {
	return func(raw json.RawMessage) (Section, error) {
		var data T
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, decodeError(name, "must be an object")
		}
		return objectSection[T]{name: name, data: data, apply: apply}, nil
	}
}

func decodeRequired[T interface {
	objectPayload
	ValidateRequired(path string) []dErrors.Violation
}](name string, apply func(*models.Sections, T)) func(json.RawMessage) (Section, error) {
	return func(raw json.RawMessage) (Section, error) {
		var data T
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, decodeError(name, "must be an object")
		}
		return requiredSection[T]{objectSection[T]{name: name, data: data, apply: apply}}, nil
	}
}

func decodeList[T listItem](name string, apply func(*models.Sections, []T)) func(json.RawMessage) (Section, error) {
	return func(raw json.RawMessage) (Section, error) {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, decodeError(name, "must be an array")
		}
		return listSection[T]{name: name, items: items, apply: apply}, nil
	}
}

func decodeError(name, message string) error {
	return dErrors.NewValidation("invalid section payload",
		[]dErrors.Violation{{Field: name, Message: message}})
}

// table declares the sections in their stable reporting order.
var table = []entry{
	{
		name: "applicant", kind: KindObject,
		decode: decodeRequired[models.Applicant]("applicant", func(dst *models.Sections, d models.Applicant) { dst.Applicant = &d }),
		slot: func(src *models.Sections) (any, bool) {
			if src.Applicant == nil {
				return nil, false
			}
			return *src.Applicant, src.Applicant.IsPopulated()
		},
	},
	{
		name: "coApplicant", kind: KindObject,
		decode: decodeRequired[models.CoApplicant]("coApplicant", func(dst *models.Sections, d models.CoApplicant) { dst.CoApplicant = &d }),
		slot: func(src *models.Sections) (any, bool) {
			if src.CoApplicant == nil {
				return nil, false
			}
			return *src.CoApplicant, src.CoApplicant.IsPopulated()
		},
	},
	{
		name: "liabilities", kind: KindList,
		decode: decodeList[models.Liability]("liabilities", func(dst *models.Sections, items []models.Liability) { dst.Liabilities = items }),
		slot: func(src *models.Sections) (any, bool) {
			if src.Liabilities == nil {
				return nil, false
			}
			return src.Liabilities, len(src.Liabilities) > 0
		},
	},
	{
		name: "mortgages", kind: KindList,
		decode: decodeList[models.Mortgage]("mortgages", func(dst *models.Sections, items []models.Mortgage) { dst.Mortgages = items }),
		slot: func(src *models.Sections) (any, bool) {
			if src.Mortgages == nil {
				return nil, false
			}
			return src.Mortgages, len(src.Mortgages) > 0
		},
	},
	{
		name: "underwriting", kind: KindObject,
		decode: decodeObject[models.Underwriting]("underwriting", func(dst *models.Sections, d models.Underwriting) { dst.Underwriting = &d }),
		slot: func(src *models.Sections) (any, bool) {
			if src.Underwriting == nil {
				return nil, false
			}
			return *src.Underwriting, src.Underwriting.IsPopulated()
		},
	},
	{
		name: "loanStatus", kind: KindObject,
		decode: decodeObject[models.LoanStatus]("loanStatus", func(dst *models.Sections, d models.LoanStatus) { dst.LoanStatus = &d }),
		slot: func(src *models.Sections) (any, bool) {
			if src.LoanStatus == nil {
				return nil, false
			}
			return *src.LoanStatus, src.LoanStatus.IsPopulated()
		},
	},
	{
		name: "drivers", kind: KindList,
		decode: decodeList[models.Driver]("drivers", func(dst *models.Sections, items []models.Driver) { dst.Drivers = items }),
		slot: func(src *models.Sections) (any, bool) {
			if src.Drivers == nil {
				return nil, false
			}
			return src.Drivers, len(src.Drivers) > 0
		},
	},
	{
		name: "vehicleCoverage", kind: KindObject,
		decode: decodeObject[models.VehicleCoverage]("vehicleCoverage", func(dst *models.Sections, d models.VehicleCoverage) { dst.VehicleCoverage = &d }),
		slot: func(src *models.Sections) (any, bool) {
			if src.VehicleCoverage == nil {
				return nil, false
			}
			return *src.VehicleCoverage, src.VehicleCoverage.IsPopulated()
		},
	},
	{
		name: "homeowners", kind: KindObject,
		decode: decodeObject[models.Homeowners]("homeowners", func(dst *models.Sections, d models.Homeowners) { dst.Homeowners = &d }),
		slot: func(src *models.Sections) (any, bool) {
			if src.Homeowners == nil {
				return nil, false
			}
			return *src.Homeowners, src.Homeowners.IsPopulated()
		},
	},
	{
		name: "renters", kind: KindObject,
		decode: decodeObject[models.Renters]("renters", func(dst *models.Sections, d models.Renters) { dst.Renters = &d }),
		slot: func(src *models.Sections) (any, bool) {
			if src.Renters == nil {
				return nil, false
			}
			return *src.Renters, src.Renters.IsPopulated()
		},
	},
	{
		name: "incomeProtection", kind: KindObject,
		decode: decodeObject[models.IncomeProtection]("incomeProtection", func(dst *models.Sections, d models.IncomeProtection) { dst.IncomeProtection = &d }),
		slot: func(src *models.Sections) (any, bool) {
			if src.IncomeProtection == nil {
				return nil, false
			}
			return *src.IncomeProtection, src.IncomeProtection.IsPopulated()
		},
	},
	{
		name: "retirement", kind: KindObject,
		decode: decodeObject[models.Retirement]("retirement", func(dst *models.Sections, d models.Retirement) { dst.Retirement = &d }),
		slot: func(src *models.Sections) (any, bool) {
			if src.Retirement == nil {
				return nil, false
			}
			return *src.Retirement, src.Retirement.IsPopulated()
		},
	},
	{
		name: "lineage", kind: KindObject,
		decode: decodeObject[models.Lineage]("lineage", func(dst *models.Sections, d models.Lineage) { dst.Lineage = &d }),
		slot: func(src *models.Sections) (any, bool) {
			if src.Lineage == nil {
				return nil, false
			}
			return *src.Lineage, src.Lineage.IsPopulated()
		},
	},
}

var byName = func() map[string]*entry {
	m := make(map[string]*entry, len(table))
	for i := range table {
		m[table[i].name] = &table[i]
	}
	return m
}()

// TotalSections is the fixed section count used by the progress calculator.
const TotalSections = 13

// Names returns the section names in their stable declared order.
func Names() []string {
	names := make([]string, len(table))
	for i, e := range table {
		names[i] = e.name
	}
	return names
}

// IsValid reports whether name is one of the thirteen declared sections.
func IsValid(name string) bool {
	_, ok := byName[name]
	return ok
}

// KindOf returns the section kind. Callers must check IsValid first.
func KindOf(name string) Kind {
	return byName[name].kind
}

// ErrUnknownSection builds the rejection for a section name outside the
// declared set.
func ErrUnknownSection(name string) error {
	return dErrors.Newf(dErrors.CodeBadRequest, "unknown section: %s", name)
}

// Decode parses raw JSON into the typed payload for the named section.
// Unknown names are rejected; malformed payloads yield a validation error
// carrying a violation at the section's field path.
func Decode(name string, raw json.RawMessage) (Section, error) {
	e, ok := byName[name]
	if !ok {
		return nil, ErrUnknownSection(name)
	}
	return e.decode(raw)
}

// Slot reads the named section's current value from an aggregate, reporting
// whether it holds meaningful data. A nil value means never written.
func Slot(name string, src *models.Sections) (value any, populated bool, err error) {
	e, ok := byName[name]
	if !ok {
		return nil, false, ErrUnknownSection(name)
	}
	value, populated = e.slot(src)
	return value, populated, nil
}

// Populated reports the has-meaningful-data predicate for one section of an
// aggregate; absent slots are never populated.
func Populated(name string, src *models.Sections) bool {
	if e, ok := byName[name]; ok {
		_, populated := e.slot(src)
		return populated
	}
	return false
}
