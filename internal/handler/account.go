package handler

import (
	"errors"
	"net/http"

	"github.com/starsim/papertrade/internal/domain"
	"github.com/starsim/papertrade/internal/service"
)

// AccountHandler handles HTTP requests for the trading account.
type AccountHandler struct {
	trading *service.TradingService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(trading *service.TradingService) *AccountHandler {
	return &AccountHandler{trading: trading}
}

// holdingResponse is one valued holding in the account response.
type holdingResponse struct {
	StockID             string  `json:"stock_id"`
	Name                string  `json:"name"`
	Code                string  `json:"code"`
	Quantity            int64   `json:"quantity"`
	AverageCost         float64 `json:"average_cost"`
	Price               float64 `json:"price"`
	MarketValue         float64 `json:"market_value"`
	UnrealizedPL        float64 `json:"unrealized_pl"`
	UnrealizedPLPercent float64 `json:"unrealized_pl_percent"`
}

// accountResponse is the JSON shape of the valued account.
type accountResponse struct {
	Balance     float64           `json:"balance"`
	MarketValue float64           `json:"market_value"`
	TotalAssets float64           `json:"total_assets"`
	Holdings    []holdingResponse `json:"holdings"`
}

func toAccountResponse(v service.AccountView) accountResponse {
	holdings := make([]holdingResponse, len(v.Holdings))
	for i, h := range v.Holdings {
		holdings[i] = holdingResponse{
			StockID:             h.StockID,
			Name:                h.Name,
			Code:                h.Code,
			Quantity:            h.Quantity,
			AverageCost:         h.AvgCost / 100,
			Price:               domain.CentsToDollars(h.Price),
			MarketValue:         domain.CentsToDollars(h.MarketValue),
			UnrealizedPL:        h.UnrealizedPL / 100,
			UnrealizedPLPercent: h.UnrealizedPLPercent,
		}
	}
	return accountResponse{
		Balance:     domain.CentsToDollars(v.Balance),
		MarketValue: domain.CentsToDollars(v.MarketValue),
		TotalAssets: domain.CentsToDollars(v.TotalAssets),
		Holdings:    holdings,
	}
}

// tradeResponse is the JSON shape of an executed trade.
type tradeResponse struct {
	TradeID    string  `json:"trade_id"`
	StockID    string  `json:"stock_id"`
	Side       string  `json:"side"`
	Lots       int64   `json:"lots"`
	Shares     int64   `json:"shares"`
	Price      float64 `json:"price"`
	Total      float64 `json:"total"`
	ExecutedAt string  `json:"executed_at"`
}

// GetAccount handles GET /account.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, toAccountResponse(h.trading.Portfolio()))
}

// Reset handles POST /account/reset.
func (h *AccountHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.trading.Reset()
	WriteJSON(w, http.StatusOK, toAccountResponse(h.trading.Portfolio()))
}

// submitOrderRequest is the JSON body for POST /orders.
type submitOrderRequest struct {
	StockID string `json:"stock_id"`
	Side    string `json:"side"`
	Lots    int64  `json:"lots"`
}

// SubmitOrder handles POST /orders: one market-priced buy or sell of a
// whole number of lots.
func (h *AccountHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var trade *service.Trade
	var err error
	switch service.TradeSide(req.Side) {
	case service.SideBuy:
		trade, err = h.trading.Buy(req.StockID, req.Lots)
	case service.SideSell:
		trade, err = h.trading.Sell(req.StockID, req.Lots)
	default:
		WriteError(w, http.StatusBadRequest, "validation_error", "side must be 'buy' or 'sell'")
		return
	}
	if err != nil {
		mapTradeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"trade": tradeResponse{
			TradeID:    trade.TradeID,
			StockID:    trade.StockID,
			Side:       string(trade.Side),
			Lots:       trade.Lots,
			Shares:     trade.Shares,
			Price:      domain.CentsToDollars(trade.Price),
			Total:      domain.CentsToDollars(trade.Total),
			ExecutedAt: trade.ExecutedAt.UTC().Format("2006-01-02T15:04:05Z"),
		},
		"account": toAccountResponse(h.trading.Portfolio()),
	})
}

// mapTradeError maps domain errors to HTTP responses for trade endpoints.
func mapTradeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		WriteError(w, http.StatusBadRequest, "invalid_quantity", "lots must be a positive integer")
	case errors.Is(err, domain.ErrStockNotFound):
		WriteError(w, http.StatusNotFound, "stock_not_found", err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		WriteError(w, http.StatusUnprocessableEntity, "insufficient_funds",
			"cash balance does not cover the order cost")
	case errors.Is(err, domain.ErrNoShortSelling):
		WriteError(w, http.StatusUnprocessableEntity, "no_short_selling",
			"cannot sell more shares than held")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
