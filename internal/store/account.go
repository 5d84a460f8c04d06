// Package store persists the account as a single JSON snapshot on disk,
// the one piece of state that survives a restart.
package store

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/starsim/papertrade/internal/domain"
)

// jsonHolding is the on-disk representation of a holding. Monetary
// values are stored as dollars.
type jsonHolding struct {
	StockID     string  `json:"stockId"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Quantity    int64   `json:"quantity"`
	AverageCost float64 `json:"averageCost"`
}

// jsonAccount is the on-disk snapshot format.
type jsonAccount struct {
	Balance   float64       `json:"balance"`
	Portfolio []jsonHolding `json:"portfolio"`
}

// AccountStore reads and writes the account snapshot file. Writes are
// atomic (temp file + rename) and serialized by a mutex.
type AccountStore struct {
	path string
	mu   sync.Mutex
}

// NewAccountStore creates a store backed by the given file path.
func NewAccountStore(path string) *AccountStore {
	return &AccountStore{path: path}
}

// Load reads the persisted snapshot. A missing file is not an error; the
// second return value reports whether a snapshot was found.
func (s *AccountStore) Load() (*domain.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read account snapshot %q: %w", s.path, err)
	}

	var ja jsonAccount
	if err := json.Unmarshal(data, &ja); err != nil {
		return nil, false, fmt.Errorf("parse account snapshot %q: %w", s.path, err)
	}

	acct := domain.NewAccount(int64(math.Round(ja.Balance * 100)))
	for _, jh := range ja.Portfolio {
		acct.Holdings[jh.StockID] = &domain.Holding{
			StockID:  jh.StockID,
			Name:     jh.Name,
			Code:     jh.Code,
			Quantity: jh.Quantity,
			AvgCost:  jh.AverageCost * 100,
		}
	}
	return acct, true, nil
}

// Save writes the account snapshot, replacing any previous one.
func (s *AccountStore) Save(acct *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ja := jsonAccount{
		Balance:   domain.CentsToDollars(acct.Balance),
		Portfolio: make([]jsonHolding, 0, len(acct.Holdings)),
	}
	for _, h := range acct.Holdings {
		ja.Portfolio = append(ja.Portfolio, jsonHolding{
			StockID:     h.StockID,
			Name:        h.Name,
			Code:        h.Code,
			Quantity:    h.Quantity,
			AverageCost: h.AvgCost / 100,
		})
	}
	// Stable order keeps successive snapshots diffable.
	sort.Slice(ja.Portfolio, func(i, j int) bool {
		return ja.Portfolio[i].Code < ja.Portfolio[j].Code
	})

	data, err := json.MarshalIndent(ja, "", "  ")
	if err != nil {
		return fmt.Errorf("encode account snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".papertrade-*")
	if err != nil {
		return fmt.Errorf("write account snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write account snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write account snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace account snapshot %q: %w", s.path, err)
	}
	return nil
}

// Clear removes the persisted snapshot. A missing file is not an error.
func (s *AccountStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove account snapshot %q: %w", s.path, err)
	}
	return nil
}
