package handler

import (
	"errors"
	"net/http"

	"github.com/starsim/papertrade/internal/domain"
	"github.com/starsim/papertrade/internal/service"
)

// SelectionHandler handles HTTP requests for the current instrument
// selection and its commentary.
type SelectionHandler struct {
	commentary *service.CommentaryService
}

// NewSelectionHandler creates a new SelectionHandler.
func NewSelectionHandler(commentary *service.CommentaryService) *SelectionHandler {
	return &SelectionHandler{commentary: commentary}
}

// selectRequest is the JSON body for PUT /selection.
type selectRequest struct {
	StockID string `json:"stock_id"`
}

// selectionResponse is the JSON shape of the selection state.
type selectionResponse struct {
	StockID    string `json:"stock_id"`
	Status     string `json:"status"`
	Commentary string `json:"commentary,omitempty"`
}

func toSelectionResponse(sel service.Selection) selectionResponse {
	return selectionResponse{
		StockID:    sel.StockID,
		Status:     string(sel.Status),
		Commentary: sel.Commentary,
	}
}

// Select handles PUT /selection: it makes the stock current and starts
// the commentary fetch, replying 202 while the fetch is in flight.
func (h *SelectionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sel, err := h.commentary.Select(req.StockID)
	if err != nil {
		mapSelectionError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, toSelectionResponse(sel))
}

// GetSelection handles GET /selection.
func (h *SelectionHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	sel, err := h.commentary.Current()
	if err != nil {
		mapSelectionError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toSelectionResponse(sel))
}

// mapSelectionError maps domain errors to HTTP responses for selection
// endpoints.
func mapSelectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		WriteError(w, http.StatusNotFound, "stock_not_found", err.Error())
	case errors.Is(err, domain.ErrNoSelection):
		WriteError(w, http.StatusNotFound, "no_selection", "no stock has been selected yet")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
