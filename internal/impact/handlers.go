package impact

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/HerbHall/ecotrace/internal/server"
)

// TrackRequest is the body of POST /api/v1/impact/tracked.
type TrackRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// handleDashboard returns the impact dashboard.
//
//	@Summary		Impact dashboard
//	@Description	Returns headline stats, monthly history, scenarios, and every tracked product joined with its catalog record.
//	@Tags			impact
//	@Produce		json
//	@Success		200 {object} Dashboard
//	@Failure		500 {object} server.Problem
//	@Router			/impact/dashboard [get]
func (m *Module) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := m.service.Dashboard(r.Context())
	if err != nil {
		m.logger.Error("failed to build dashboard", zap.Error(err))
		server.InternalError(w, "failed to build dashboard", r.URL.Path)
		return
	}
	m.writeJSON(w, http.StatusOK, d)
}

// handleListTracked returns the tracker entries.
//
//	@Summary		List tracker entries
//	@Tags			impact
//	@Produce		json
//	@Success		200 {array} Entry
//	@Failure		500 {object} server.Problem
//	@Router			/impact/tracked [get]
func (m *Module) handleListTracked(w http.ResponseWriter, r *http.Request) {
	entries, err := m.service.Entries(r.Context())
	if err != nil {
		m.logger.Error("failed to list tracker entries", zap.Error(err))
		server.InternalError(w, "failed to list tracker entries", r.URL.Path)
		return
	}
	m.writeJSON(w, http.StatusOK, entries)
}

// handleAddTracked adds a product to the tracker.
//
//	@Summary		Track a product
//	@Tags			impact
//	@Accept			json
//	@Produce		json
//	@Param			request body TrackRequest true "Product and quantity"
//	@Success		201 {object} Entry
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Router			/impact/tracked [post]
func (m *Module) handleAddTracked(w http.ResponseWriter, r *http.Request) {
	req := TrackRequest{Quantity: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body: "+err.Error(), r.URL.Path)
		return
	}
	if req.ProductID == "" {
		server.BadRequest(w, "productId is required", r.URL.Path)
		return
	}

	entry, err := m.service.Track(r.Context(), req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		m.trackerOps.WithLabelValues("add", "rejected").Inc()
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	case errors.Is(err, ErrUnknownProduct):
		m.trackerOps.WithLabelValues("add", "rejected").Inc()
		server.NotFound(w, err.Error(), r.URL.Path)
		return
	case err != nil:
		m.trackerOps.WithLabelValues("add", "error").Inc()
		m.logger.Error("failed to track product", zap.String("product_id", req.ProductID), zap.Error(err))
		server.InternalError(w, "failed to track product", r.URL.Path)
		return
	}

	m.trackerOps.WithLabelValues("add", "ok").Inc()
	m.logger.Debug("product tracked",
		zap.String("entry_id", entry.ID),
		zap.String("product_id", entry.ProductID),
		zap.Int("quantity", entry.Quantity),
	)
	m.writeJSON(w, http.StatusCreated, entry)
}

// handleRemoveTracked deletes a tracker entry.
//
//	@Summary		Untrack a product
//	@Tags			impact
//	@Param			id path string true "Entry ID"
//	@Success		204
//	@Failure		404 {object} server.Problem
//	@Router			/impact/tracked/{id} [delete]
func (m *Module) handleRemoveTracked(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := m.service.Untrack(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		m.trackerOps.WithLabelValues("remove", "rejected").Inc()
		server.NotFound(w, "tracker entry "+id+" not found", r.URL.Path)
		return
	case err != nil:
		m.trackerOps.WithLabelValues("remove", "error").Inc()
		m.logger.Error("failed to untrack product", zap.String("entry_id", id), zap.Error(err))
		server.InternalError(w, "failed to remove tracker entry", r.URL.Path)
		return
	}

	m.trackerOps.WithLabelValues("remove", "ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// -- helpers --

func (m *Module) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		m.logger.Debug("failed to encode response", zap.Int("status", status), zap.Error(err))
	}
}
