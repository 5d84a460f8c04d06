package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/starsim/papertrade/internal/domain"
)

// genFunc adapts a function to the Generator interface.
type genFunc func(ctx context.Context, prompt string) (string, error)

func (f genFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func newCommentaryMarket() *stubMarket {
	m := newStubMarket()
	m.add("stock-1", "Aurora Technologies", "600001", 5000)
	m.add("stock-2", "Helios Dynamics", "600002", 12000)
	return m
}

// waitReady polls until the current selection is ready or the deadline
// passes.
func waitReady(t *testing.T, svc *CommentaryService) Selection {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		sel, err := svc.Current()
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		if sel.Status == StatusReady {
			return sel
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("selection never became ready")
	return Selection{}
}

func TestSelect_FetchesCommentary(t *testing.T) {
	gen := genFunc(func(ctx context.Context, prompt string) (string, error) {
		if !strings.Contains(prompt, "Aurora Technologies") || !strings.Contains(prompt, "600001") {
			t.Errorf("prompt missing stock identity: %q", prompt)
		}
		if !strings.Contains(prompt, "50.00") {
			t.Errorf("prompt missing price: %q", prompt)
		}
		return "Buy the rumor, sell the coffee.", nil
	})
	svc := NewCommentaryService(newCommentaryMarket(), gen, time.Second, testLogger())

	sel, err := svc.Select("stock-1")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Status != StatusPending || sel.StockID != "stock-1" {
		t.Fatalf("initial selection wrong: %+v", sel)
	}

	got := waitReady(t, svc)
	if got.Commentary != "Buy the rumor, sell the coffee." {
		t.Errorf("commentary = %q", got.Commentary)
	}
}

func TestSelect_UnknownStock(t *testing.T) {
	svc := NewCommentaryService(newCommentaryMarket(), nil, time.Second, testLogger())

	if _, err := svc.Select("stock-99"); !errors.Is(err, domain.ErrStockNotFound) {
		t.Fatalf("expected ErrStockNotFound, got %v", err)
	}
}

func TestCurrent_BeforeAnySelection(t *testing.T) {
	svc := NewCommentaryService(newCommentaryMarket(), nil, time.Second, testLogger())

	if _, err := svc.Current(); !errors.Is(err, domain.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestFetch_GeneratorErrorFallsBack(t *testing.T) {
	gen := genFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("upstream down")
	})
	svc := NewCommentaryService(newCommentaryMarket(), gen, time.Second, testLogger())

	if _, err := svc.Select("stock-1"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	got := waitReady(t, svc)
	if got.Commentary != fallbackError {
		t.Errorf("commentary = %q, want error fallback", got.Commentary)
	}
}

func TestFetch_EmptyResponseFallsBack(t *testing.T) {
	for _, text := range []string{"", "   \n"} {
		gen := genFunc(func(ctx context.Context, prompt string) (string, error) {
			return text, nil
		})
		svc := NewCommentaryService(newCommentaryMarket(), gen, time.Second, testLogger())

		if _, err := svc.Select("stock-1"); err != nil {
			t.Fatalf("Select: %v", err)
		}
		got := waitReady(t, svc)
		if got.Commentary != fallbackEmpty {
			t.Errorf("commentary for %q = %q, want empty fallback", text, got.Commentary)
		}
	}
}

func TestFetch_NilGeneratorFallsBack(t *testing.T) {
	svc := NewCommentaryService(newCommentaryMarket(), nil, time.Second, testLogger())

	if _, err := svc.Select("stock-1"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	got := waitReady(t, svc)
	if got.Commentary != fallbackError {
		t.Errorf("commentary = %q, want error fallback", got.Commentary)
	}
}

func TestFetch_StaleTokenDoesNotOverwriteNewerSelection(t *testing.T) {
	gen := genFunc(func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "Helios") {
			return "fresh take", nil
		}
		return "stale take", nil
	})
	m := newCommentaryMarket()
	svc := NewCommentaryService(m, gen, time.Second, testLogger())

	// First selection; let its fetch complete.
	selA, err := svc.Select("stock-1")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	waitReady(t, svc)

	// Second selection supersedes the first.
	if _, err := svc.Select("stock-2"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	got := waitReady(t, svc)
	if got.StockID != "stock-2" || got.Commentary != "fresh take" {
		t.Fatalf("selection after supersede wrong: %+v", got)
	}

	// Replay the first selection's fetch as if it were slow and only
	// completing now. Its token no longer matches, so it must be dropped.
	snapA, _ := m.Snapshot("stock-1")
	svc.fetch(selA.token, snapA)

	got, err = svc.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got.StockID != "stock-2" || got.Commentary != "fresh take" {
		t.Fatalf("stale fetch overwrote newer selection: %+v", got)
	}
}
