package handler

import (
	"encoding/json"

	dErrors "intake/pkg/domain-errors"
)

// CreateClientRequest carries any subset of intake sections keyed by section
// name. Unknown keys are tolerated; an empty body creates a bare prospect.
type CreateClientRequest map[string]json.RawMessage

func (r *CreateClientRequest) Validate() error { return nil }

// UpdateSectionRequest wraps one section payload. The section field is
// optional; when present it must agree with the path.
type UpdateSectionRequest struct {
	Section  string          `json:"section,omitempty"`
	Data     json.RawMessage `json:"data"`
	Required bool            `json:"required,omitempty"`
}

func (r *UpdateSectionRequest) Validate() error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return dErrors.New(dErrors.CodeBadRequest, "section data is required")
	}
	return nil
}

// BulkUpdateRequest carries multiple section payloads for one atomic write.
type BulkUpdateRequest struct {
	Sections map[string]json.RawMessage `json:"sections"`
}

func (r *BulkUpdateRequest) Validate() error {
	if len(r.Sections) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "sections payload is required")
	}
	return nil
}
