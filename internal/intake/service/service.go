// Package service implements the update coordinator: it orchestrates create,
// per-section update, bulk update and reads against the client aggregate,
// invoking the section registry for validation and the progress calculator
// for completion, and delegating storage to the persistence gateway.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"intake/internal/audit"
	"intake/internal/intake/metrics"
	"intake/internal/intake/models"
	"intake/internal/intake/progress"
	"intake/internal/intake/registry"
	"intake/internal/intake/store"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/sentinel"
	"intake/pkg/requestcontext"
)

// AuditPublisher receives intake audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service coordinates intake operations against one persistence gateway.
type Service struct {
	clients        store.ClientStore
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

// New constructs a Service around a client store.
func New(clients store.ClientStore, opts ...Option) *Service {
	s := &Service{clients: clients}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateClient validates a full or partial multi-section payload and creates
// the aggregate. Unknown top-level keys are tolerated for forward
// compatibility; every violation across every supplied section is collected
// in one pass. When the applicant section is supplied at all, firstName and
// lastName are mandatory (minimal viable record).
func (s *Service) CreateClient(ctx context.Context, payload map[string]json.RawMessage) (*models.ClientRecord, error) {
	start := time.Now()

	var (
		violations []dErrors.Violation
		decoded    []registry.Section
	)
	for _, name := range registry.Names() {
		raw, ok := payload[name]
		if !ok {
			continue
		}
		section, err := registry.Decode(name, raw)
		if err != nil {
			violations = append(violations, dErrors.ViolationsOf(err)...)
			continue
		}
		if name == "applicant" {
			applicant, _ := section.Value().(models.Applicant)
			if applicant.FirstName == "" {
				violations = append(violations, dErrors.Violation{Field: "applicant.firstName", Message: "is required"})
			}
			if applicant.LastName == "" {
				violations = append(violations, dErrors.Violation{Field: "applicant.lastName", Message: "is required"})
			}
		}
		violations = append(violations, section.Validate()...)
		decoded = append(decoded, section)
	}
	if len(violations) > 0 {
		return nil, dErrors.NewValidation("validation failed", violations)
	}

	seq, err := s.clients.NextSequence(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate client number")
	}

	record, err := models.NewClientRecord(id.NewClientID(), id.FormatClientNumber(seq))
	if err != nil {
		return nil, err
	}
	for _, section := range decoded {
		section.Apply(&record.Sections)
	}
	result := progress.Compute(&record.Sections)
	record.CompletionPercentage = result.CompletionPercentage
	record.Status = result.Status

	if err := s.clients.Create(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create client")
	}

	s.emitAudit(ctx, audit.Event{
		ClientID:     record.ID.String(),
		ClientNumber: record.ClientNumber,
		Action:       audit.ActionClientCreated,
	})
	if s.metrics != nil {
		s.metrics.IncrementClientsCreated()
		s.metrics.ObserveUpdate(start)
	}
	if record.CompletionPercentage == 100 {
		s.recordCompleted(ctx, record)
	}
	return record, nil
}

// UpdateSection validates one section payload and merges it into the
// aggregate: object sections are replaced wholesale by the new payload,
// sequence sections are replaced, never appended. When required is set, the
// stricter required-basic-info rules apply to sections that define them.
func (s *Service) UpdateSection(ctx context.Context, clientID id.ClientID, name string, raw json.RawMessage, required bool) (*models.ClientRecord, error) {
	start := time.Now()

	if !registry.IsValid(name) {
		return nil, registry.ErrUnknownSection(name)
	}
	if len(raw) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "section data is required")
	}

	section, err := registry.Decode(name, raw)
	if err != nil {
		return nil, err
	}
	violations := validateSection(section, required)
	if len(violations) > 0 {
		return nil, dErrors.NewValidation("validation failed", violations)
	}

	var completedBefore int
	record, err := s.clients.Execute(ctx, clientID,
		func(r *models.ClientRecord) error {
			if !r.IsActive() {
				return dErrors.New(dErrors.CodeConflict, "client is inactive")
			}
			completedBefore = r.CompletionPercentage
			return nil
		},
		func(r *models.ClientRecord) {
			section.Apply(&r.Sections)
			applyProgress(r)
		},
	)
	if err != nil {
		return nil, wrapClientErr(err)
	}

	s.emitAudit(ctx, audit.Event{
		ClientID:     record.ID.String(),
		ClientNumber: record.ClientNumber,
		Action:       audit.ActionSectionUpdated,
		Section:      name,
	})
	if s.metrics != nil {
		s.metrics.IncrementSectionUpdate(name)
		s.metrics.ObserveUpdate(start)
	}
	if completedBefore < 100 && record.CompletionPercentage == 100 {
		s.recordCompleted(ctx, record)
	}
	return record, nil
}

// BulkUpdate validates every named section before any write. If any entry
// fails, the whole call fails and no section is written; otherwise all
// sections are merged and progress recomputed in a single persisted pass.
// Returns the updated record and the written section names in registry order.
func (s *Service) BulkUpdate(ctx context.Context, clientID id.ClientID, payload map[string]json.RawMessage) (*models.ClientRecord, []string, error) {
	start := time.Now()

	if len(payload) == 0 {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "sections payload is required")
	}

	var (
		violations []dErrors.Violation
		decoded    []registry.Section
		updated    []string
	)
	for name := range payload {
		if !registry.IsValid(name) {
			violations = append(violations, dErrors.Violation{Field: name, Message: "unknown section"})
		}
	}
	for _, name := range registry.Names() {
		raw, ok := payload[name]
		if !ok {
			continue
		}
		section, err := registry.Decode(name, raw)
		if err != nil {
			violations = append(violations, dErrors.ViolationsOf(err)...)
			continue
		}
		violations = append(violations, section.Validate()...)
		decoded = append(decoded, section)
		updated = append(updated, name)
	}
	if len(violations) > 0 {
		return nil, nil, dErrors.NewValidation("validation failed", violations)
	}

	var completedBefore int
	record, err := s.clients.Execute(ctx, clientID,
		func(r *models.ClientRecord) error {
			if !r.IsActive() {
				return dErrors.New(dErrors.CodeConflict, "client is inactive")
			}
			completedBefore = r.CompletionPercentage
			return nil
		},
		func(r *models.ClientRecord) {
			for _, section := range decoded {
				section.Apply(&r.Sections)
			}
			applyProgress(r)
		},
	)
	if err != nil {
		return nil, nil, wrapClientErr(err)
	}

	s.emitAudit(ctx, audit.Event{
		ClientID:     record.ID.String(),
		ClientNumber: record.ClientNumber,
		Action:       audit.ActionBulkUpdated,
		Sections:     updated,
	})
	if s.metrics != nil {
		s.metrics.IncrementBulkUpdates()
		s.metrics.ObserveUpdate(start)
	}
	if completedBefore < 100 && record.CompletionPercentage == 100 {
		s.recordCompleted(ctx, record)
	}
	return record, updated, nil
}

// GetClient returns the full aggregate.
func (s *Service) GetClient(ctx context.Context, clientID id.ClientID) (*models.ClientRecord, error) {
	record, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, wrapClientErr(err)
	}
	return record, nil
}

// GetSection returns the stored section's current data; nil when the section
// was never written. Unknown names and unknown clients are rejected.
func (s *Service) GetSection(ctx context.Context, clientID id.ClientID, name string) (*models.ClientRecord, any, error) {
	if !registry.IsValid(name) {
		return nil, nil, registry.ErrUnknownSection(name)
	}
	record, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, nil, wrapClientErr(err)
	}
	value, _, err := registry.Slot(name, &record.Sections)
	if err != nil {
		return nil, nil, err
	}
	return record, value, nil
}

// GetProgress returns the full progress derivation for the aggregate. For an
// administratively deactivated record the reported status stays inactive.
func (s *Service) GetProgress(ctx context.Context, clientID id.ClientID) (*progress.Result, error) {
	record, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, wrapClientErr(err)
	}
	result := progress.Compute(&record.Sections)
	if !record.IsActive() {
		result.Status = models.StatusInactive
	}
	return &result, nil
}

// DeactivateClient transitions a record to administrative inactive status.
// Section writes are rejected until reactivation.
func (s *Service) DeactivateClient(ctx context.Context, clientID id.ClientID) (*models.ClientRecord, error) {
	record, err := s.clients.Execute(ctx, clientID,
		func(r *models.ClientRecord) error {
			if err := r.CanDeactivate(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "client is already inactive")
			}
			return nil
		},
		func(r *models.ClientRecord) {
			r.ApplyDeactivation()
		},
	)
	if err != nil {
		return nil, wrapClientErr(err)
	}
	s.emitAudit(ctx, audit.Event{
		ClientID:     record.ID.String(),
		ClientNumber: record.ClientNumber,
		Action:       audit.ActionClientDeactivated,
	})
	return record, nil
}

// ReactivateClient restores the derived status for the current completion.
func (s *Service) ReactivateClient(ctx context.Context, clientID id.ClientID) (*models.ClientRecord, error) {
	record, err := s.clients.Execute(ctx, clientID,
		func(r *models.ClientRecord) error {
			if err := r.CanReactivate(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "client is not inactive")
			}
			return nil
		},
		func(r *models.ClientRecord) {
			r.ApplyReactivation()
		},
	)
	if err != nil {
		return nil, wrapClientErr(err)
	}
	s.emitAudit(ctx, audit.Event{
		ClientID:     record.ID.String(),
		ClientNumber: record.ClientNumber,
		Action:       audit.ActionClientReactivated,
	})
	return record, nil
}

// validateSection selects the lax or required variant in a second phase
// after decoding, keeping the conditional co-applicant rule auditable in
// isolation.
func validateSection(section registry.Section, required bool) []dErrors.Violation {
	if required {
		if rv, ok := section.(registry.RequiredValidator); ok {
			return rv.ValidateRequired()
		}
	}
	return section.Validate()
}

// applyProgress recomputes completion and derived status after a mutation.
func applyProgress(r *models.ClientRecord) {
	result := progress.Compute(&r.Sections)
	r.CompletionPercentage = result.CompletionPercentage
	r.Status = result.Status
}

// wrapClientErr translates store sentinels into domain errors.
func wrapClientErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "client not found")
	case errors.Is(err, sentinel.ErrVersionMismatch):
		return dErrors.New(dErrors.CodeConflict, "concurrent update detected, retry")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "storage unavailable")
	}
	var de *dErrors.DomainError
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
}

func (s *Service) recordCompleted(ctx context.Context, record *models.ClientRecord) {
	s.emitAudit(ctx, audit.Event{
		ClientID:     record.ID.String(),
		ClientNumber: record.ClientNumber,
		Action:       audit.ActionClientCompleted,
	})
	if s.metrics != nil {
		s.metrics.IncrementClientsCompleted()
	}
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, event.Action,
			"client_id", event.ClientID,
			"client_number", event.ClientNumber,
			"section", event.Section,
			"request_id", event.RequestID,
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"client_id", event.ClientID,
			"error", err,
		)
	}
}
