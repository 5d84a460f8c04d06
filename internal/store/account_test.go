package store

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/starsim/papertrade/internal/domain"
)

func newTestStore(t *testing.T) *AccountStore {
	t.Helper()
	return NewAccountStore(filepath.Join(t.TempDir(), "state.json"))
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestStore(t)

	acct, found, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected found=false for missing file")
	}
	if acct != nil {
		t.Fatalf("expected nil account, got %+v", acct)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	acct := domain.NewAccount(9_500_000)
	acct.Holdings["stock-3"] = &domain.Holding{
		StockID:  "stock-3",
		Name:     "Quantis Group",
		Code:     "600003",
		Quantity: 200,
		AvgCost:  5500, // $55.00
	}
	acct.Holdings["stock-7"] = &domain.Holding{
		StockID:  "stock-7",
		Name:     "Meridian Dynamics",
		Code:     "600007",
		Quantity: 100,
		AvgCost:  1234.5, // fractional cents survive the round trip
	}

	if err := s.Save(acct); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected found=true after save")
	}
	if got.Balance != 9_500_000 {
		t.Errorf("balance = %d, want 9500000", got.Balance)
	}
	if len(got.Holdings) != 2 {
		t.Fatalf("holdings = %d, want 2", len(got.Holdings))
	}

	h := got.Holdings["stock-3"]
	if h == nil || h.Quantity != 200 || h.Name != "Quantis Group" || h.Code != "600003" {
		t.Fatalf("stock-3 holding wrong: %+v", h)
	}
	if math.Abs(h.AvgCost-5500) > 1e-9 {
		t.Errorf("stock-3 avgCost = %v, want 5500", h.AvgCost)
	}
	if math.Abs(got.Holdings["stock-7"].AvgCost-1234.5) > 1e-6 {
		t.Errorf("stock-7 avgCost = %v, want 1234.5", got.Holdings["stock-7"].AvgCost)
	}
}

func TestSave_OverwritesPrevious(t *testing.T) {
	s := newTestStore(t)

	first := domain.NewAccount(100)
	if err := s.Save(first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := domain.NewAccount(200)
	if err := s.Save(second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Balance != 200 {
		t.Errorf("balance = %d, want 200", got.Balance)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	// Clearing an absent snapshot succeeds.
	if err := s.Clear(); err != nil {
		t.Fatalf("clear on missing file: %v", err)
	}

	if err := s.Save(domain.NewAccount(100)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(s.path); !os.IsNotExist(err) {
		t.Fatal("snapshot file still present after clear")
	}

	_, found, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatal("expected found=false after clear")
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, _, err := s.Load(); err == nil {
		t.Fatal("expected error for corrupt snapshot")
	}
}
