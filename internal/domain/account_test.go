package domain

import "testing"

func TestNewAccount(t *testing.T) {
	a := NewAccount(10000000)
	if a.Balance != 10000000 {
		t.Errorf("Balance = %d, want 10000000", a.Balance)
	}
	if len(a.Holdings) != 0 {
		t.Errorf("expected no holdings, got %d", len(a.Holdings))
	}
}

func TestAccount_Clone_IsIndependent(t *testing.T) {
	a := NewAccount(500000)
	a.Holdings["stock-1"] = &Holding{
		StockID:  "stock-1",
		Name:     "Orion Technologies",
		Code:     "600001",
		Quantity: 200,
		AvgCost:  5500,
	}

	c := a.Clone()

	// Mutating the original must not leak into the clone.
	a.Balance = 0
	a.Holdings["stock-1"].Quantity = 100
	a.Holdings["stock-2"] = &Holding{StockID: "stock-2", Quantity: 100}

	if c.Balance != 500000 {
		t.Errorf("clone balance = %d, want 500000", c.Balance)
	}
	if len(c.Holdings) != 1 {
		t.Fatalf("clone holdings = %d, want 1", len(c.Holdings))
	}
	if c.Holdings["stock-1"].Quantity != 200 {
		t.Errorf("clone quantity = %d, want 200", c.Holdings["stock-1"].Quantity)
	}
}
