package domain

// Holding is the account's position in a single stock. Name and code are
// captured at first purchase and not re-synced afterwards. AvgCost is in
// cents but kept as float64 so the quantity-weighted mean stays exact
// across merges; it is only rounded for display at the JSON boundary.
type Holding struct {
	StockID  string
	Name     string
	Code     string
	Quantity int64
	AvgCost  float64
}

// Account is the user's trading account: cash balance in cents and at
// most one holding per stock, keyed by stock id. It is owned exclusively
// by the trading service, which serializes all mutations.
type Account struct {
	Balance  int64
	Holdings map[string]*Holding
}

// NewAccount creates an account with the given starting balance and no
// holdings.
func NewAccount(balance int64) *Account {
	return &Account{
		Balance:  balance,
		Holdings: make(map[string]*Holding),
	}
}

// Clone returns a deep copy of the account, used to hand snapshots to
// the persistence layer without racing later mutations.
func (a *Account) Clone() *Account {
	c := NewAccount(a.Balance)
	for id, h := range a.Holdings {
		dup := *h
		c.Holdings[id] = &dup
	}
	return c
}
