// Package httputil centralizes JSON envelope writing and request decoding so
// every handler speaks the same wire contract.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "intake/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies; intake payloads are small documents.
const maxBodyBytes = 1 << 20

// Envelope is the uniform response shape. Error responses carry a message and,
// for validation failures, the complete list of field violations.
type Envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Details []dErrors.Violation `json:"details,omitempty"`
}

// WriteJSON writes an arbitrary JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess wraps data in the success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteError translates a domain error into the error envelope with the
// matching HTTP status. Foreign errors surface as a generic internal failure
// so storage details never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := "internal error"
	var de *dErrors.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), Envelope{
		Success: false,
		Error:   message,
		Details: dErrors.ViolationsOf(err),
	})
}

// Validatable is implemented by request types that validate and normalize
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare decodes the request body into T, runs its Validate method
// and writes the error response on failure. Returns false when the caller
// should stop processing.
func DecodeAndPrepare[T any, PT interface {
	Validatable
	*T
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	var req T
	pt := PT(&req)

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(pt); err != nil && !errors.Is(err, io.EOF) {
		if logger != nil {
			logger.WarnContext(ctx, "failed to decode request body",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body must be valid JSON"))
		return nil, false
	}

	if err := pt.Validate(); err != nil {
		WriteError(w, err)
		return nil, false
	}
	return pt, true
}
