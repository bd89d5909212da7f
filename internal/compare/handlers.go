package compare

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/HerbHall/ecotrace/internal/server"
)

// SelectionRequest is the body of the selection add and remove endpoints.
type SelectionRequest struct {
	Selection Selection `json:"selection"`
	ID        string    `json:"id"`
}

// SelectionResponse describes the selection after a change.
type SelectionResponse struct {
	Selection Selection `json:"selection"`
	CanAdd    bool      `json:"can_add"`
	CanRemove bool      `json:"can_remove"`
}

func newSelectionResponse(sel Selection) SelectionResponse {
	return SelectionResponse{Selection: sel, CanAdd: !sel.Full(), CanRemove: sel.CanRemove()}
}

// handleCompare compares the products named by the ids parameter.
//
//	@Summary		Compare products
//	@Description	Designates the best choice, key metric leaders and per-dimension leaders among 2 to 4 products. Other sizes return valid=false.
//	@Tags			compare
//	@Produce		json
//	@Param			ids query string false "Comma-separated product ids" default(1,4)
//	@Success		200 {object} Result
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Router			/compare [get]
func (m *Module) handleCompare(w http.ResponseWriter, r *http.Request) {
	ids, ok := selectionIDs(r)
	if !ok {
		ids = DefaultSelection().IDs()
	}
	if hasDuplicates(ids) {
		server.BadRequest(w, "ids must not repeat", r.URL.Path)
		return
	}

	result, err := m.engine.Compare(ids)
	if err != nil {
		m.writeError(w, r, err)
		return
	}
	m.comparisons.WithLabelValues(strconv.FormatBool(result.Valid)).Inc()
	m.writeJSON(w, http.StatusOK, result)
}

// handleAvailable lists the products that can be added to the selection.
//
//	@Summary		List addable products
//	@Tags			compare
//	@Produce		json
//	@Param			ids query string false "Comma-separated selected ids" default(1,4)
//	@Success		200 {array} models.Product
//	@Failure		400 {object} server.Problem
//	@Router			/compare/available [get]
func (m *Module) handleAvailable(w http.ResponseWriter, r *http.Request) {
	sel := DefaultSelection()
	if ids, ok := selectionIDs(r); ok {
		var err error
		if sel, err = NewSelection(ids...); err != nil {
			server.BadRequest(w, err.Error(), r.URL.Path)
			return
		}
	}

	products, err := m.engine.Available(sel)
	if err != nil {
		m.writeError(w, r, err)
		return
	}
	m.writeJSON(w, http.StatusOK, products)
}

// handleSelectionAdd adds a product to the posted selection.
//
//	@Summary		Add to selection
//	@Tags			compare
//	@Accept			json
//	@Produce		json
//	@Param			request body SelectionRequest true "Current selection and the id to add"
//	@Success		200 {object} SelectionResponse
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Failure		409 {object} server.Problem
//	@Router			/compare/selection/add [post]
func (m *Module) handleSelectionAdd(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSelectionRequest(w, r)
	if !ok {
		return
	}

	sel, err := m.engine.Add(req.Selection, req.ID)
	if err != nil {
		m.writeError(w, r, err)
		return
	}
	m.writeJSON(w, http.StatusOK, newSelectionResponse(sel))
}

// handleSelectionRemove removes a product from the posted selection.
//
//	@Summary		Remove from selection
//	@Tags			compare
//	@Accept			json
//	@Produce		json
//	@Param			request body SelectionRequest true "Current selection and the id to remove"
//	@Success		200 {object} SelectionResponse
//	@Failure		400 {object} server.Problem
//	@Failure		409 {object} server.Problem
//	@Router			/compare/selection/remove [post]
func (m *Module) handleSelectionRemove(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSelectionRequest(w, r)
	if !ok {
		return
	}

	sel, err := req.Selection.Remove(req.ID)
	if err != nil {
		m.writeError(w, r, err)
		return
	}
	m.writeJSON(w, http.StatusOK, newSelectionResponse(sel))
}

func decodeSelectionRequest(w http.ResponseWriter, r *http.Request) (SelectionRequest, bool) {
	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body: "+err.Error(), r.URL.Path)
		return req, false
	}
	if req.ID == "" {
		server.BadRequest(w, "id is required", r.URL.Path)
		return req, false
	}
	return req, true
}

func (m *Module) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		server.NotFound(w, err.Error(), r.URL.Path)
	case errors.Is(err, ErrSelectionFull), errors.Is(err, ErrSelectionMinimum):
		server.Conflict(w, err.Error(), r.URL.Path)
	case errors.Is(err, ErrInvalidSelection):
		server.BadRequest(w, err.Error(), r.URL.Path)
	default:
		m.logger.Error("comparison failed", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
	}
}

// selectionIDs parses the comma-separated ids parameter. ok is false when
// the parameter is absent.
func selectionIDs(r *http.Request) ([]string, bool) {
	if !r.URL.Query().Has("ids") {
		return nil, false
	}
	raw := r.URL.Query().Get("ids")
	ids := []string{}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, true
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

// -- helpers --

func (m *Module) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		m.logger.Debug("failed to encode response", zap.Int("status", status), zap.Error(err))
	}
}
