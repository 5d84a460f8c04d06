package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/starsim/papertrade/internal/domain"
)

// SnapshotSource is the slice of the market the commentary fetcher
// reads. Satisfied by *market.Market.
type SnapshotSource interface {
	Snapshot(id string) (domain.StockSnapshot, error)
}

// Generator produces a short text for a prompt. The production
// implementation calls Gemini; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Fixed fallback texts. Callers can always display the commentary field;
// service failures never surface as errors.
const (
	fallbackEmpty = "The AI advisor is glued to the tape right now. Check back in a moment."
	fallbackError = "Markets got too wild and the AI analyst stepped out for a coffee."
)

// SelectionStatus tracks whether the commentary for the current
// selection has arrived yet.
type SelectionStatus string

const (
	StatusPending SelectionStatus = "pending"
	StatusReady   SelectionStatus = "ready"
)

// Selection is the currently selected stock and its commentary state.
type Selection struct {
	StockID    string
	Status     SelectionStatus
	Commentary string

	token string
}

// CommentaryService fetches one advisory remark per instrument
// selection. Each selection carries a fresh token; a completing fetch
// applies its result only if its token still matches, so a rapid
// re-selection supersedes any in-flight request.
type CommentaryService struct {
	stocks  SnapshotSource
	gen     Generator
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	current *Selection
}

// NewCommentaryService creates the fetcher. A nil generator degrades
// every fetch to the error fallback, which keeps the rest of the system
// fully functional without an API key.
func NewCommentaryService(stocks SnapshotSource, gen Generator, timeout time.Duration, logger *slog.Logger) *CommentaryService {
	return &CommentaryService{
		stocks:  stocks,
		gen:     gen,
		timeout: timeout,
		logger:  logger,
	}
}

// Select makes the given stock the current selection and starts an
// asynchronous commentary fetch for it. It returns the pending selection
// state immediately; ErrStockNotFound is the only failure.
func (s *CommentaryService) Select(stockID string) (Selection, error) {
	snap, err := s.stocks.Snapshot(stockID)
	if err != nil {
		return Selection{}, err
	}

	sel := Selection{
		StockID: stockID,
		Status:  StatusPending,
		token:   uuid.New().String(),
	}
	s.mu.Lock()
	s.current = &sel
	s.mu.Unlock()

	go s.fetch(sel.token, snap)
	return sel, nil
}

// Current returns the latest selection state, or ErrNoSelection before
// the first Select.
func (s *CommentaryService) Current() (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Selection{}, domain.ErrNoSelection
	}
	return *s.current, nil
}

// fetch resolves the commentary text and applies it if the selection has
// not been superseded in the meantime. Stale completions are dropped.
func (s *CommentaryService) fetch(token string, snap domain.StockSnapshot) {
	text := s.generate(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.token != token {
		return
	}
	s.current.Status = StatusReady
	s.current.Commentary = text
}

// generate calls the generator and absorbs every failure mode into a
// fallback string: transport or service errors, and well-formed
// responses with no text.
func (s *CommentaryService) generate(snap domain.StockSnapshot) string {
	if s.gen == nil {
		return fallbackError
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	text, err := s.gen.Generate(ctx, buildPrompt(snap))
	if err != nil {
		s.logger.Warn("commentary generation failed",
			slog.String("stock_id", snap.ID),
			slog.String("error", err.Error()),
		)
		return fallbackError
	}
	if strings.TrimSpace(text) == "" {
		return fallbackEmpty
	}
	return text
}

// buildPrompt embeds the stock's identity and price into the fixed
// instruction for a short opinionated remark.
func buildPrompt(s domain.StockSnapshot) string {
	return fmt.Sprintf(
		"You are a seasoned equities trader. Current stock: %s (%s), sector: %s, last price: %.2f. "+
			"Give one witty, opinionated remark on how it is trading in this simulated market, "+
			"with a hint of investment advice, about 50 characters. Reply with the remark only.",
		s.Name, s.Code, s.Sector, domain.CentsToDollars(s.Price),
	)
}
