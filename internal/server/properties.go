package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/internal/property"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
	"go.uber.org/zap"
)

// propertyResponse is a stored property with its derived metrics alongside.
type propertyResponse struct {
	model.Property
	property.Metrics
}

type propertyListResponse struct {
	Properties []propertyResponse `json:"properties"`
	Summary    property.Summary   `json:"summary"`
}

func (h *Handler) withMetrics(p model.Property, asOf time.Time) propertyResponse {
	return propertyResponse{Property: p, Metrics: property.ComputeMetrics(p, asOf)}
}

// asOfFromQuery reads the optional asOf reference date, defaulting to now.
func (h *Handler) asOfFromQuery(r *http.Request) (time.Time, error) {
	asOf, err := datetime.ParseAsOf(r.URL.Query().Get("asOf"), h.now())
	if err != nil {
		return time.Time{}, apperr.NewValidationError("asOf", "must be YYYY-MM-DD or RFC 3339")
	}
	return asOf, nil
}

func propertyID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, apperr.NewValidationError("id", "must be a UUID")
	}
	return id, nil
}

func (h *Handler) handleListProperties(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListProperties"

	asOf, err := h.asOfFromQuery(r)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	properties, err := h.store.ListProperties(r.Context(), userID(r))
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	resp := propertyListResponse{
		Properties: make([]propertyResponse, 0, len(properties)),
		Summary:    property.SummarizePortfolio(properties, asOf),
	}
	for _, p := range properties {
		resp.Properties = append(resp.Properties, h.withMetrics(p, asOf))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetProperty"

	id, err := propertyID(r)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	asOf, err := h.asOfFromQuery(r)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	p, err := h.store.GetProperty(r.Context(), userID(r), id)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, h.withMetrics(p, asOf))
}

func (h *Handler) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateProperty"

	var p model.Property
	if err := h.decodeJSON(w, r, &p); err != nil {
		h.respondErr(w, err, op)
		return
	}
	p.ID = uuid.Nil
	p.UserID = userID(r)
	if err := validation.Property(&p); err != nil {
		h.respondErr(w, err, op)
		return
	}
	if err := h.store.CreateProperty(r.Context(), &p); err != nil {
		h.respondErr(w, err, op)
		return
	}

	h.logger.Info("property created",
		zap.String("op", op),
		zap.String("propertyId", p.ID.String()),
		zap.String("propertyType", string(p.PropertyType)),
	)
	h.writeJSON(w, http.StatusCreated, h.withMetrics(p, h.now()))
}

func (h *Handler) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateProperty"

	id, err := propertyID(r)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	var p model.Property
	if err := h.decodeJSON(w, r, &p); err != nil {
		h.respondErr(w, err, op)
		return
	}
	p.ID = id
	p.UserID = userID(r)
	if err := validation.Property(&p); err != nil {
		h.respondErr(w, err, op)
		return
	}
	if err := h.store.UpdateProperty(r.Context(), &p); err != nil {
		h.respondErr(w, err, op)
		return
	}

	updated, err := h.store.GetProperty(r.Context(), p.UserID, id)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, h.withMetrics(updated, h.now()))
}

func (h *Handler) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteProperty"

	id, err := propertyID(r)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	if err := h.store.DeleteProperty(r.Context(), userID(r), id); err != nil {
		h.respondErr(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
