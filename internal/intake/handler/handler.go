// Package handler exposes the intake operations over HTTP with a uniform
// success/error envelope.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intake/internal/intake/registry"
	"intake/internal/intake/service"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/httputil"
	"intake/pkg/requestcontext"
)

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the intake endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/clients/multistage", h.CreateClient)
	r.Route("/clients/{clientID}", func(r chi.Router) {
		r.Get("/", h.GetClient)
		r.Get("/progress", h.GetProgress)
		r.Put("/bulk-update", h.BulkUpdate)
		r.Put("/section/{section}", h.UpdateSection)
		r.Get("/section/{section}", h.GetSection)
		r.Post("/deactivate", h.DeactivateClient)
		r.Post("/reactivate", h.ReactivateClient)
	})
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateClientRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.CreateClient(ctx, *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, createClientResponse{
		ID:                   record.ID.String(),
		ClientID:             record.ClientNumber,
		CompletionPercentage: record.CompletionPercentage,
		Status:               record.Status,
	})
}

func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "section")

	req, ok := httputil.DecodeAndPrepare[UpdateSectionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if req.Section != "" && req.Section != name {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "section name does not match path"))
		return
	}

	record, err := h.service.UpdateSection(ctx, clientID, name, req.Data, req.Required)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, updateSectionResponse{
		UpdatedSection:       name,
		CompletionPercentage: record.CompletionPercentage,
		Status:               record.Status,
	})
}

func (h *Handler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[BulkUpdateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, updated, err := h.service.BulkUpdate(ctx, clientID, req.Sections)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, bulkUpdateResponse{
		UpdatedSections:      updated,
		CompletionPercentage: record.CompletionPercentage,
		Status:               record.Status,
	})
}

func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "section")

	record, value, err := h.service.GetSection(ctx, clientID, name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if value == nil {
		// Never-written sections read as their empty shape.
		if registry.KindOf(name) == registry.KindList {
			value = []any{}
		} else {
			value = map[string]any{}
		}
	}

	httputil.WriteSuccess(w, http.StatusOK, sectionResponse{
		Section:  name,
		ClientID: record.ClientNumber,
		Data:     value,
	})
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetProgress(ctx, clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, result)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}

	record, err := h.service.GetClient(ctx, clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, record)
}

func (h *Handler) DeactivateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}

	record, err := h.service.DeactivateClient(ctx, clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, statusResponse{
		ID:     record.ID.String(),
		Status: record.Status,
	})
}

func (h *Handler) ReactivateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, ok := h.clientID(w, r)
	if !ok {
		return
	}

	record, err := h.service.ReactivateClient(ctx, clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, statusResponse{
		ID:     record.ID.String(),
		Status: record.Status,
	})
}

func (h *Handler) clientID(w http.ResponseWriter, r *http.Request) (id.ClientID, bool) {
	clientID, err := id.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid client id"))
		return id.ClientID{}, false
	}
	return clientID, true
}
