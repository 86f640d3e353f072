package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"intake/internal/audit"
	"intake/internal/intake/models"
	"intake/internal/intake/store/memory"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
)

// =============================================================================
// Intake Service Test Suite
// =============================================================================
// The service carries the cross-section behavior: collect-all validation,
// atomic bulk writes, progress recomputation and the status lifecycle. These
// are exercised here against the in-memory store.

type ServiceSuite struct {
	suite.Suite
	store      *memory.Store
	auditStore *audit.InMemoryStore
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.auditStore = audit.NewInMemoryStore()
	s.service = New(s.store, WithAuditPublisher(audit.NewPublisher(s.auditStore)))
}

func raw(v string) json.RawMessage { return json.RawMessage(v) }

func (s *ServiceSuite) createWithApplicant() *models.ClientRecord {
	record, err := s.service.CreateClient(context.Background(), map[string]json.RawMessage{
		"applicant": raw(`{"firstName":"Jane","lastName":"Doe","email":"jane@example.com"}`),
	})
	s.Require().NoError(err)
	return record
}

// =============================================================================
// CreateClient
// =============================================================================

func (s *ServiceSuite) TestCreateClient() {
	ctx := context.Background()

	s.Run("empty payload creates a bare prospect", func() {
		record, err := s.service.CreateClient(ctx, nil)
		s.Require().NoError(err)
		s.Equal(models.StatusProspect, record.Status)
		s.Equal(0, record.CompletionPercentage)
		s.NotEmpty(record.ClientNumber)
		s.False(record.ID.IsZero())
	})

	s.Run("one populated section yields 8 percent pending", func() {
		record := s.createWithApplicant()
		s.Equal(8, record.CompletionPercentage)
		s.Equal(models.StatusPending, record.Status)
		s.Equal(int64(1), record.Version)
	})

	s.Run("applicant without names is rejected", func() {
		_, err := s.service.CreateClient(ctx, map[string]json.RawMessage{
			"applicant": raw(`{"email":"jane@example.com"}`),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		fields := violationFields(err)
		s.Contains(fields, "applicant.firstName")
		s.Contains(fields, "applicant.lastName")
	})

	s.Run("violations are collected across sections", func() {
		_, err := s.service.CreateClient(ctx, map[string]json.RawMessage{
			"applicant":    raw(`{"firstName":"Jane","lastName":"Doe","email":"bad"}`),
			"underwriting": raw(`{"creditScore":951}`),
			"loanStatus":   raw(`{"status":"Pondering"}`),
		})
		s.Require().Error(err)
		fields := violationFields(err)
		s.Contains(fields, "applicant.email")
		s.Contains(fields, "underwriting.creditScore")
		s.Contains(fields, "loanStatus.status")
	})

	s.Run("unknown top-level keys are tolerated", func() {
		record, err := s.service.CreateClient(ctx, map[string]json.RawMessage{
			"applicant":     raw(`{"firstName":"Jane","lastName":"Doe"}`),
			"favoriteColor": raw(`"blue"`),
		})
		s.Require().NoError(err)
		s.Equal(8, record.CompletionPercentage)
	})

	s.Run("client numbers are sequential", func() {
		store := memory.New()
		svc := New(store)
		first, err := svc.CreateClient(ctx, nil)
		s.Require().NoError(err)
		second, err := svc.CreateClient(ctx, nil)
		s.Require().NoError(err)
		s.Equal("CLI000001", first.ClientNumber)
		s.Equal("CLI000002", second.ClientNumber)
	})

	s.Run("create emits an audit event", func() {
		record := s.createWithApplicant()
		events, err := s.auditStore.ListByClient(ctx, record.ID.String())
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.ActionClientCreated, events[0].Action)
	})
}

// =============================================================================
// UpdateSection
// =============================================================================

func (s *ServiceSuite) TestUpdateSection() {
	ctx := context.Background()

	s.Run("adds a section and recomputes progress", func() {
		record := s.createWithApplicant()
		updated, err := s.service.UpdateSection(ctx, record.ID, "underwriting",
			raw(`{"creditScore":720,"annualIncome":88000}`), false)
		s.Require().NoError(err)
		s.Equal(15, updated.CompletionPercentage)
		s.Equal(models.StatusPending, updated.Status)
		s.Equal(int64(2), updated.Version)
	})

	s.Run("replaces the section wholesale", func() {
		record := s.createWithApplicant()
		_, err := s.service.UpdateSection(ctx, record.ID, "applicant",
			raw(`{"firstName":"Janet"}`), false)
		s.Require().NoError(err)

		found, err := s.service.GetClient(ctx, record.ID)
		s.Require().NoError(err)
		s.Equal("Janet", found.Applicant.FirstName)
		// Fields absent from the new payload are gone, not merged.
		s.Empty(found.Applicant.LastName)
		s.Empty(found.Applicant.Email)
	})

	s.Run("sequence sections replace, never append", func() {
		record := s.createWithApplicant()
		_, err := s.service.UpdateSection(ctx, record.ID, "drivers",
			raw(`[{"firstName":"Jane"},{"firstName":"John"}]`), false)
		s.Require().NoError(err)
		_, err = s.service.UpdateSection(ctx, record.ID, "drivers",
			raw(`[{"firstName":"Junior"}]`), false)
		s.Require().NoError(err)

		found, err := s.service.GetClient(ctx, record.ID)
		s.Require().NoError(err)
		s.Require().Len(found.Drivers, 1)
		s.Equal("Junior", found.Drivers[0].FirstName)
	})

	s.Run("false flag alone stores but does not complete", func() {
		record := s.createWithApplicant()
		updated, err := s.service.UpdateSection(ctx, record.ID, "renters",
			raw(`{"hasRentersInsurance":false}`), false)
		s.Require().NoError(err)
		s.Equal(8, updated.CompletionPercentage)

		_, value, err := s.service.GetSection(ctx, record.ID, "renters")
		s.Require().NoError(err)
		renters, ok := value.(models.Renters)
		s.Require().True(ok)
		s.False(renters.HasRentersInsurance)
	})

	s.Run("unknown section name is rejected", func() {
		record := s.createWithApplicant()
		_, err := s.service.UpdateSection(ctx, record.ID, "favoriteColor", raw(`{}`), false)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("missing data is rejected", func() {
		record := s.createWithApplicant()
		_, err := s.service.UpdateSection(ctx, record.ID, "renters", nil, false)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("wrong shape is a validation failure", func() {
		record := s.createWithApplicant()
		_, err := s.service.UpdateSection(ctx, record.ID, "drivers",
			raw(`"not-an-array"`), false)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		fields := violationFields(err)
		s.Contains(fields, "drivers")
	})

	s.Run("unknown client is not found", func() {
		_, err := s.service.UpdateSection(ctx, id.NewClientID(), "renters",
			raw(`{"hasRentersInsurance":true}`), false)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("invalid payload leaves the record untouched", func() {
		record := s.createWithApplicant()
		_, err := s.service.UpdateSection(ctx, record.ID, "underwriting",
			raw(`{"creditScore":200}`), false)
		s.Require().Error(err)

		found, err := s.service.GetClient(ctx, record.ID)
		s.Require().NoError(err)
		s.Nil(found.Underwriting)
		s.Equal(int64(1), found.Version)
	})
}

func (s *ServiceSuite) TestUpdateSectionRequiredVariant() {
	ctx := context.Background()

	s.Run("required applicant demands contact", func() {
		record := s.createWithApplicant()
		_, err := s.service.UpdateSection(ctx, record.ID, "applicant",
			raw(`{"firstName":"Jane","lastName":"Doe"}`), true)
		s.Require().Error(err)
		fields := violationFields(err)
		s.Contains(fields, "applicant")
		s.Contains(fields, "applicant.email")
	})

	s.Run("co-applicant contact rules gate on the include flag", func() {
		record := s.createWithApplicant()

		// Flag off: stored without contact details.
		_, err := s.service.UpdateSection(ctx, record.ID, "coApplicant",
			raw(`{"includeCoApplicant":false,"firstName":"John"}`), true)
		s.Require().NoError(err)

		// Flag on without contact: rejected.
		_, err = s.service.UpdateSection(ctx, record.ID, "coApplicant",
			raw(`{"includeCoApplicant":true,"firstName":"John"}`), true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		// Flag on with full contact: accepted. The legacy flag name works too.
		_, err = s.service.UpdateSection(ctx, record.ID, "coApplicant",
			raw(`{"hasCoApplicant":true,"firstName":"John","lastName":"Doe","mobilePhone":"555-0100","email":"john@example.com"}`), true)
		s.Require().NoError(err)
	})
}

// =============================================================================
// BulkUpdate
// =============================================================================

func (s *ServiceSuite) TestBulkUpdate() {
	ctx := context.Background()

	s.Run("writes all sections in one pass", func() {
		record := s.createWithApplicant()
		_, err := s.service.UpdateSection(ctx, record.ID, "underwriting",
			raw(`{"creditScore":720}`), false)
		s.Require().NoError(err)

		updated, names, err := s.service.BulkUpdate(ctx, record.ID, map[string]json.RawMessage{
			"liabilities": raw(`[{"type":"Credit Card","balance":1200}]`),
			"mortgages":   raw(`[{"lender":"First Bank","loanType":"Fixed"}]`),
		})
		s.Require().NoError(err)
		s.Equal([]string{"liabilities", "mortgages"}, names)
		s.Equal(31, updated.CompletionPercentage)
		// One version bump for the whole batch.
		s.Equal(int64(3), updated.Version)
	})

	s.Run("rejects the whole batch when any section is invalid", func() {
		record := s.createWithApplicant()
		_, _, err := s.service.BulkUpdate(ctx, record.ID, map[string]json.RawMessage{
			"liabilities": raw(`[{"type":"Credit Card"}]`),
			"drivers":     raw(`"not-an-array"`),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		fields := violationFields(err)
		s.Contains(fields, "drivers")

		found, err := s.service.GetClient(ctx, record.ID)
		s.Require().NoError(err)
		s.Nil(found.Liabilities)
		s.Equal(int64(1), found.Version)
	})

	s.Run("unknown names fail the batch", func() {
		record := s.createWithApplicant()
		_, _, err := s.service.BulkUpdate(ctx, record.ID, map[string]json.RawMessage{
			"renters":       raw(`{"hasRentersInsurance":true}`),
			"favoriteColor": raw(`"blue"`),
		})
		s.Require().Error(err)
		fields := violationFields(err)
		s.Contains(fields, "favoriteColor")
	})

	s.Run("empty payload is rejected", func() {
		record := s.createWithApplicant()
		_, _, err := s.service.BulkUpdate(ctx, record.ID, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

// =============================================================================
// Progress and completion
// =============================================================================

func (s *ServiceSuite) TestCompletionLifecycle() {
	ctx := context.Background()
	record := s.createWithApplicant()

	sections := map[string]json.RawMessage{
		"coApplicant":      raw(`{"includeCoApplicant":true,"firstName":"John","lastName":"Doe","mobilePhone":"555-0100","email":"john@example.com"}`),
		"liabilities":      raw(`[{"type":"Credit Card","balance":1200}]`),
		"mortgages":        raw(`[{"lender":"First Bank","loanType":"Fixed"}]`),
		"underwriting":     raw(`{"creditScore":720}`),
		"loanStatus":       raw(`{"status":"Pre-Approval"}`),
		"drivers":          raw(`[{"firstName":"Jane","licenseState":"IL"}]`),
		"vehicleCoverage":  raw(`{"hasVehicles":true,"carrier":"Acme Mutual"}`),
		"homeowners":       raw(`{"hasHomeownersInsurance":true}`),
		"renters":          raw(`{"hasRentersInsurance":true}`),
		"incomeProtection": raw(`{"hasLifeInsurance":true,"benefitAmount":500000}`),
		"retirement":       raw(`{"hasRetirementAccounts":true,"accountType":"401k"}`),
		"lineage":          raw(`{"referralSource":"Existing Client"}`),
	}
	updated, names, err := s.service.BulkUpdate(ctx, record.ID, sections)
	s.Require().NoError(err)
	s.Len(names, 12)
	s.Equal(100, updated.CompletionPercentage)
	s.Equal(models.StatusActive, updated.Status)

	result, err := s.service.GetProgress(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(13, result.CompletedCount)
	s.Equal(13, result.TotalSections)
	s.Equal(100, result.CompletionPercentage)
	s.Equal(models.StatusActive, result.Status)

	events, err := s.auditStore.ListByClient(ctx, record.ID.String())
	s.Require().NoError(err)
	actions := make([]string, len(events))
	for i, e := range events {
		actions[i] = e.Action
	}
	s.Contains(actions, audit.ActionClientCompleted)
}

func (s *ServiceSuite) TestGetProgress() {
	ctx := context.Background()

	s.Run("reports completed sections in stable order", func() {
		record := s.createWithApplicant()
		_, err := s.service.UpdateSection(ctx, record.ID, "lineage",
			raw(`{"referralSource":"Existing Client"}`), false)
		s.Require().NoError(err)

		result, err := s.service.GetProgress(ctx, record.ID)
		s.Require().NoError(err)
		s.Equal([]string{"applicant", "lineage"}, result.CompletedSections)
		s.Equal(15, result.CompletionPercentage)
		s.Equal(models.StatusPending, result.Status)
	})

	s.Run("unknown client is not found", func() {
		_, err := s.service.GetProgress(ctx, id.NewClientID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// GetSection
// =============================================================================

func (s *ServiceSuite) TestGetSection() {
	ctx := context.Background()

	s.Run("round-trips stored data", func() {
		record := s.createWithApplicant()
		_, value, err := s.service.GetSection(ctx, record.ID, "applicant")
		s.Require().NoError(err)
		applicant, ok := value.(models.Applicant)
		s.Require().True(ok)
		s.Equal("Jane", applicant.FirstName)
	})

	s.Run("never-written section reads as nil", func() {
		record := s.createWithApplicant()
		_, value, err := s.service.GetSection(ctx, record.ID, "retirement")
		s.Require().NoError(err)
		s.Nil(value)
	})

	s.Run("unknown section name is rejected", func() {
		record := s.createWithApplicant()
		_, _, err := s.service.GetSection(ctx, record.ID, "favoriteColor")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

// =============================================================================
// Deactivation lifecycle
// =============================================================================

func (s *ServiceSuite) TestDeactivationLifecycle() {
	ctx := context.Background()
	record := s.createWithApplicant()

	deactivated, err := s.service.DeactivateClient(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInactive, deactivated.Status)

	// Section writes bounce while inactive.
	_, err = s.service.UpdateSection(ctx, record.ID, "renters",
		raw(`{"hasRentersInsurance":true}`), false)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	_, _, err = s.service.BulkUpdate(ctx, record.ID, map[string]json.RawMessage{
		"renters": raw(`{"hasRentersInsurance":true}`),
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	// Progress reads still work and report the administrative status.
	result, err := s.service.GetProgress(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInactive, result.Status)

	// Double deactivation is a conflict.
	_, err = s.service.DeactivateClient(ctx, record.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	reactivated, err := s.service.ReactivateClient(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, reactivated.Status)

	// Writes resume.
	_, err = s.service.UpdateSection(ctx, record.ID, "renters",
		raw(`{"hasRentersInsurance":true}`), false)
	s.NoError(err)

	// Reactivating an active record is a conflict.
	_, err = s.service.ReactivateClient(ctx, record.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func violationFields(err error) []string {
	violations := dErrors.ViolationsOf(err)
	fields := make([]string, len(violations))
	for i, v := range violations {
		fields[i] = v.Field
	}
	return fields
}
