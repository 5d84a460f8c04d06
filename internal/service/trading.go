package service

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/starsim/papertrade/internal/domain"
	"github.com/starsim/papertrade/internal/store"
)

// PriceSource is the slice of the market the ledger reads: the current
// snapshot of a stock at decision time. Satisfied by *market.Market.
type PriceSource interface {
	Snapshot(id string) (domain.StockSnapshot, error)
	Price(id string) (int64, error)
}

// TradeSide is the direction of an executed trade.
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// Trade is the record of one executed buy or sell, returned to the
// caller. Trades are not stored; the account snapshot is the only
// persistent state.
type Trade struct {
	TradeID    string
	StockID    string
	Side       TradeSide
	Lots       int64
	Shares     int64
	Price      int64 // cents per share at execution
	Total      int64 // cents debited or credited
	ExecutedAt time.Time
}

// HoldingView is a holding decorated with valuation derived from the
// current price. Never cached; recomputed on every read.
type HoldingView struct {
	StockID             string
	Name                string
	Code                string
	Quantity            int64
	AvgCost             float64 // cents per share
	Price               int64   // cents
	MarketValue         int64   // cents
	UnrealizedPL        float64 // cents
	UnrealizedPLPercent float64
}

// AccountView is the account plus derived portfolio totals.
type AccountView struct {
	Balance     int64 // cents
	MarketValue int64 // cents
	TotalAssets int64 // cents
	Holdings    []HoldingView
}

// TradingService owns the account. Buy, Sell, and Reset are serialized by
// its mutex; each successful mutation persists a fresh snapshot.
type TradingService struct {
	prices          PriceSource
	store           *store.AccountStore
	logger          *slog.Logger
	startingBalance int64
	lotSize         int64

	mu      sync.Mutex
	account *domain.Account
}

// NewTradingService creates the ledger, restoring a persisted account
// snapshot when one exists and otherwise starting fresh with the
// configured balance. A corrupt snapshot is surfaced as an error rather
// than silently discarded.
func NewTradingService(
	prices PriceSource,
	accountStore *store.AccountStore,
	logger *slog.Logger,
	startingBalance int64,
	lotSize int64,
) (*TradingService, error) {
	account, found, err := accountStore.Load()
	if err != nil {
		return nil, err
	}
	if !found {
		account = domain.NewAccount(startingBalance)
	}
	return &TradingService{
		prices:          prices,
		store:           accountStore,
		logger:          logger,
		startingBalance: startingBalance,
		lotSize:         lotSize,
		account:         account,
	}, nil
}

// Buy purchases lots×lotSize shares at the current price. It fails with
// ErrInvalidQuantity for non-positive lots or lot counts so large the
// share or cost arithmetic would overflow, ErrStockNotFound for an
// unknown stock, and ErrInsufficientFunds when the cash balance cannot
// cover the cost; rejected buys leave the account untouched.
func (s *TradingService) Buy(stockID string, lots int64) (*Trade, error) {
	if lots <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	shares, ok := mulPositive(lots, s.lotSize)
	if !ok {
		return nil, domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.prices.Snapshot(stockID)
	if err != nil {
		return nil, err
	}

	cost, ok := mulPositive(shares, snap.Price)
	if !ok {
		return nil, domain.ErrInvalidQuantity
	}
	if s.account.Balance < cost {
		return nil, domain.ErrInsufficientFunds
	}

	s.account.Balance -= cost
	if h, ok := s.account.Holdings[stockID]; ok {
		// Weighted average merge: the new basis is the quantity-weighted
		// mean of the old basis and this purchase.
		h.AvgCost = (h.AvgCost*float64(h.Quantity) + float64(cost)) / float64(h.Quantity+shares)
		h.Quantity += shares
	} else {
		s.account.Holdings[stockID] = &domain.Holding{
			StockID:  stockID,
			Name:     snap.Name,
			Code:     snap.Code,
			Quantity: shares,
			AvgCost:  float64(snap.Price),
		}
	}
	s.persistLocked()

	return s.newTrade(stockID, SideBuy, lots, shares, snap.Price, cost), nil
}

// Sell disposes lots×lotSize shares at the current price. It fails with
// ErrInvalidQuantity for non-positive or overflowing lot counts and
// ErrNoShortSelling when the account holds no position or fewer shares
// than requested; rejected sells leave the account untouched. The
// average cost of a partial sale is unchanged, and a holding sold down
// to zero is removed entirely.
func (s *TradingService) Sell(stockID string, lots int64) (*Trade, error) {
	if lots <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	shares, ok := mulPositive(lots, s.lotSize)
	if !ok {
		return nil, domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	price, err := s.prices.Price(stockID)
	if err != nil {
		return nil, err
	}

	h, held := s.account.Holdings[stockID]
	if !held || h.Quantity < shares {
		return nil, domain.ErrNoShortSelling
	}

	proceeds, ok := mulPositive(shares, price)
	if !ok {
		return nil, domain.ErrInvalidQuantity
	}
	s.account.Balance += proceeds
	h.Quantity -= shares
	if h.Quantity == 0 {
		delete(s.account.Holdings, stockID)
	}
	s.persistLocked()

	return s.newTrade(stockID, SideSell, lots, shares, price, proceeds), nil
}

// Reset unconditionally restores the starting balance, discards all
// holdings, and clears the persisted snapshot.
func (s *TradingService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.account = domain.NewAccount(s.startingBalance)
	if err := s.store.Clear(); err != nil {
		s.logger.Warn("clearing account snapshot failed", slog.String("error", err.Error()))
	}
}

// Portfolio returns the account with per-holding valuation against
// current prices: market value, unrealized profit, and profit percent.
// It is a pure derived view; nothing it computes is stored.
func (s *TradingService) Portfolio() AccountView {
	s.mu.Lock()
	account := s.account.Clone()
	s.mu.Unlock()

	view := AccountView{
		Balance:  account.Balance,
		Holdings: make([]HoldingView, 0, len(account.Holdings)),
	}
	for _, h := range account.Holdings {
		// Holdings only ever reference stocks the market generated, and
		// the market never removes one, so a lookup failure is a bug.
		price, err := s.prices.Price(h.StockID)
		if err != nil {
			s.logger.Error("held stock missing from market", slog.String("stock_id", h.StockID))
			continue
		}
		hv := HoldingView{
			StockID:     h.StockID,
			Name:        h.Name,
			Code:        h.Code,
			Quantity:    h.Quantity,
			AvgCost:     h.AvgCost,
			Price:       price,
			MarketValue: price * h.Quantity,
		}
		hv.UnrealizedPL = (float64(price) - h.AvgCost) * float64(h.Quantity)
		hv.UnrealizedPLPercent = (float64(price) - h.AvgCost) / h.AvgCost * 100
		view.MarketValue += hv.MarketValue
		view.Holdings = append(view.Holdings, hv)
	}
	sort.Slice(view.Holdings, func(i, j int) bool {
		return view.Holdings[i].Code < view.Holdings[j].Code
	})
	view.TotalAssets = view.Balance + view.MarketValue
	return view
}

// persistLocked writes the current account snapshot. A failed write is
// logged but does not undo the trade; the in-memory ledger stays
// authoritative.
func (s *TradingService) persistLocked() {
	if err := s.store.Save(s.account.Clone()); err != nil {
		s.logger.Warn("persisting account snapshot failed", slog.String("error", err.Error()))
	}
}

// mulPositive multiplies two positive int64 values, reporting whether
// the product stayed within range.
func mulPositive(a, b int64) (int64, bool) {
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

func (s *TradingService) newTrade(stockID string, side TradeSide, lots, shares, price, total int64) *Trade {
	return &Trade{
		TradeID:    uuid.New().String(),
		StockID:    stockID,
		Side:       side,
		Lots:       lots,
		Shares:     shares,
		Price:      price,
		Total:      total,
		ExecutedAt: time.Now(),
	}
}
