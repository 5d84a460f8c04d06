package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starsim/papertrade/internal/domain"
	"github.com/starsim/papertrade/internal/market"
)

// StockHandler handles HTTP requests for market endpoints.
type StockHandler struct {
	market *market.Market
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(m *market.Market) *StockHandler {
	return &StockHandler{market: m}
}

// stockResponse is the JSON shape of one stock snapshot. Prices are in
// dollars.
type stockResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Code          string  `json:"code"`
	Sector        string  `json:"sector"`
	Price         float64 `json:"price"`
	OpenPrice     float64 `json:"open_price"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	LastClose     float64 `json:"last_close"`
	ChangePercent float64 `json:"change_percent"`
}

func toStockResponse(s domain.StockSnapshot) stockResponse {
	return stockResponse{
		ID:            s.ID,
		Name:          s.Name,
		Code:          s.Code,
		Sector:        s.Sector,
		Price:         domain.CentsToDollars(s.Price),
		OpenPrice:     domain.CentsToDollars(s.OpenPrice),
		High:          domain.CentsToDollars(s.High),
		Low:           domain.CentsToDollars(s.Low),
		LastClose:     domain.CentsToDollars(s.LastClose),
		ChangePercent: s.ChangePercent,
	}
}

// barResponse is one OHLCV bar in a history response.
type barResponse struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// ListSectors handles GET /sectors.
func (h *StockHandler) ListSectors(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string][]string{"sectors": h.market.Sectors()})
}

// ListStocks handles GET /stocks with an optional sector query filter.
func (h *StockHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	sector := r.URL.Query().Get("sector")

	list := h.market.List(sector)
	stocks := make([]stockResponse, len(list))
	for i, s := range list {
		stocks[i] = toStockResponse(s)
	}
	WriteJSON(w, http.StatusOK, map[string][]stockResponse{"stocks": stocks})
}

// GetStock handles GET /stocks/{stock_id}.
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "stock_id")

	snap, err := h.market.Snapshot(id)
	if err != nil {
		mapMarketError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toStockResponse(snap))
}

// GetHistory handles GET /stocks/{stock_id}/history. The period query
// parameter defaults to daily.
func (h *StockHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "stock_id")

	period := domain.ChartPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = domain.PeriodDaily
	}

	bars, err := h.market.History(id, period)
	if err != nil {
		mapMarketError(w, err)
		return
	}

	out := make([]barResponse, len(bars))
	for i, b := range bars {
		out[i] = barResponse{
			Time:   b.Time.UTC().Format("2006-01-02"),
			Open:   domain.CentsToDollars(b.Open),
			High:   domain.CentsToDollars(b.High),
			Low:    domain.CentsToDollars(b.Low),
			Close:  domain.CentsToDollars(b.Close),
			Volume: b.Volume,
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"stock_id": id,
		"period":   string(period),
		"bars":     out,
	})
}

// mapMarketError maps domain errors to HTTP responses for market endpoints.
func mapMarketError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		WriteError(w, http.StatusNotFound, "stock_not_found", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
