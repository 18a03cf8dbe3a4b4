package journal

// OrderRecord is one accepted fill as the episode journal stores it.
type OrderRecord struct {
	OrderID   string
	EpisodeID string
	Date      string // YYYYMMDD
	Side      string // "buy" or "sell"
	Code      string
	CashDelta float64
	Price     float64
	Volume    int64
}

// EquitySnapshot is one simulated day's portfolio state.
type EquitySnapshot struct {
	EpisodeID      string
	Date           string
	Cash           float64
	MarketValue    float64
	PortfolioValue float64
	DailyPnl       float64
	TotalPnl       float64
}

type Journal interface {
	RecordOrder(OrderRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards every record; useful in tests and dry runs.
type Nop struct{}

func (Nop) RecordOrder(OrderRecord) error { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error { return nil }
