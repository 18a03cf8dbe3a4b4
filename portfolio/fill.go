package portfolio

import "github.com/quantlab/stockgym/market"

// Fill is the result of one matching attempt. It is transient: only its
// cash and volume effect is folded into the ledger.
type Fill struct {
	Side      market.Side
	Code      string
	CashDelta float64 // >= 0 for sells, <= 0 for buys
	Price     float64 // clearing price
	Volume    int64
	Accepted  bool
}

// Action is one instrument's order intent for a simulated day. A zero
// price on either leg means no order on that leg.
type Action struct {
	SellPrice    float64
	SellFraction float64 // target post-trade value fraction after the sell
	BuyPrice     float64
	BuyFraction  float64 // target post-trade value fraction after the buy
}

// Snapshot is the per-step portfolio aggregate. It is recomputed every
// step and never mutated outside the Aggregator.
type Snapshot struct {
	Date               string
	Cash               float64
	MarketValue        float64
	PortfolioValue     float64
	DailyPnl           float64
	DailyReturn        float64 // 0 when the prior portfolio value is 0
	TotalPnl           float64
	TransactionCost    float64 // today's
	CumTransactionCost float64
	ValuePercent       map[string]float64
	Fills              []Fill // accepted fills with non-zero volume, sells first
}
