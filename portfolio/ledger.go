package portfolio

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/quantlab/stockgym/market"
)

// Ledger owns one instrument's position state and the order-execution
// primitives that call into the matching engine. Cash is not owned here:
// all instruments share a single pool managed by the Aggregator, which
// passes the available amount into each buy.
//
// Per simulated day the operations run in a fixed order, each at most once:
// Rebase, SellToTarget, BuyToTarget, MarkToMarket.
type Ledger struct {
	Code           string
	CommissionRate float64 // proportional, on traded notional

	Shares    int64   // no short selling: always >= 0
	CostBasis float64 // average acquisition cost per share, commissions included

	MarketValue        float64 // valuation at the last mark-to-market
	DailyPnl           float64
	DailyReturn        float64
	ValuePercent       float64
	CumPnl             float64
	TransactionCost    float64 // today's
	CumTransactionCost float64

	matcher *market.Matcher
}

func NewLedger(code string, m *market.Matcher, commissionRate float64) *Ledger {
	return &Ledger{Code: code, CommissionRate: commissionRate, matcher: m}
}

// Rebase applies the corporate-action ratio to the share count and opens
// the trading day: today's P&L and cost counters reset here. Cash and cost
// basis are untouched. Shares round to the nearest whole share so a 2.0
// ratio arriving as 1.9999999 from factor division still exactly doubles.
func (l *Ledger) Rebase(ratio float64) error {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return fmt.Errorf("%w: rebase ratio %v for %s", market.ErrInvalidOrder, ratio, l.Code)
	}
	if ratio != 1 {
		l.Shares = int64(math.Round(float64(l.Shares) * ratio))
		log.Debug().Str("code", l.Code).Float64("ratio", ratio).Int64("shares", l.Shares).
			Msg("rebase")
	}
	l.DailyPnl = 0
	l.DailyReturn = 0
	l.TransactionCost = 0
	return nil
}

// SellToTarget reduces the position toward targetFraction of the portfolio
// value, submitting the shortfall to the matching engine at bid. The
// returned fill has CashDelta >= 0; it is the zero Fill when the engine
// rejects or no reduction is needed. Rejections leave the ledger untouched.
func (l *Ledger) SellToTarget(date string, targetFraction, bid, portfolioValue, _ float64) (Fill, error) {
	if err := validFraction(targetFraction); err != nil {
		return Fill{}, err
	}

	ok, price, err := l.matcher.Check(market.Sell, l.Code, date, bid)
	if err != nil {
		return Fill{}, err
	}
	if !ok {
		return Fill{Side: market.Sell, Code: l.Code}, nil
	}

	target := targetFraction * portfolioValue
	current := float64(l.Shares) * price
	if target >= current {
		return Fill{Side: market.Sell, Code: l.Code, Accepted: true}, nil
	}

	// Floor with a tolerance: current is Shares*price, so a full
	// liquidation's quotient can land a few ulps under the integer and
	// must not leave one share behind.
	volume := int64((current-target)/price + 1e-9)
	if volume > l.Shares {
		volume = l.Shares
	}
	if volume <= 0 {
		return Fill{Side: market.Sell, Code: l.Code, Accepted: true}, nil
	}

	gross := float64(volume) * price
	cost := gross * l.CommissionRate

	l.Shares -= volume
	l.TransactionCost += cost
	l.CumTransactionCost += cost

	log.Debug().Str("code", l.Code).Str("date", date).Int64("volume", volume).
		Float64("price", price).Msg("sell filled")

	return Fill{
		Side:      market.Sell,
		Code:      l.Code,
		CashDelta: gross - cost,
		Price:     price,
		Volume:    volume,
		Accepted:  true,
	}, nil
}

// BuyToTarget grows the position toward targetFraction of the portfolio
// value. The buy notional, commission included, is capped at availableCash.
// The returned fill has CashDelta <= 0.
func (l *Ledger) BuyToTarget(date string, targetFraction, bid, portfolioValue, availableCash float64) (Fill, error) {
	if err := validFraction(targetFraction); err != nil {
		return Fill{}, err
	}

	ok, price, err := l.matcher.Check(market.Buy, l.Code, date, bid)
	if err != nil {
		return Fill{}, err
	}
	if !ok {
		return Fill{Side: market.Buy, Code: l.Code}, nil
	}

	target := targetFraction * portfolioValue
	shortfall := target - float64(l.Shares)*price
	if shortfall <= 0 {
		return Fill{Side: market.Buy, Code: l.Code, Accepted: true}, nil
	}

	notional := math.Min(shortfall, availableCash)
	volume := int64(notional / (price * (1 + l.CommissionRate)))
	if volume <= 0 {
		return Fill{Side: market.Buy, Code: l.Code, Accepted: true}, nil
	}

	gross := float64(volume) * price
	cost := gross * l.CommissionRate

	prevShares := l.Shares
	l.Shares += volume
	l.CostBasis = (l.CostBasis*float64(prevShares) + gross + cost) / float64(l.Shares)
	l.TransactionCost += cost
	l.CumTransactionCost += cost

	log.Debug().Str("code", l.Code).Str("date", date).Int64("volume", volume).
		Float64("price", price).Msg("buy filled")

	return Fill{
		Side:      market.Buy,
		Code:      l.Code,
		CashDelta: -(gross + cost),
		Price:     price,
		Volume:    volume,
		Accepted:  true,
	}, nil
}

// MarkToMarket revalues the position at the day's close. cashDelta is this
// instrument's net cash effect today, so the daily P&L is the change in
// total (position + cash) value attributable to this day's price move and
// trades. prevPortfolioValue is the whole portfolio's value before the day,
// used only for the daily return; zero yields a zero return.
func (l *Ledger) MarkToMarket(closePrice, cashDelta, prevPortfolioValue float64) {
	prev := l.MarketValue
	l.MarketValue = float64(l.Shares) * closePrice
	l.DailyPnl = l.MarketValue + cashDelta - prev
	l.CumPnl += l.DailyPnl
	if prevPortfolioValue == 0 {
		l.DailyReturn = 0
	} else {
		l.DailyReturn = l.DailyPnl / prevPortfolioValue
	}
}

// UpdateValuePercent records this instrument's share of the portfolio.
func (l *Ledger) UpdateValuePercent(portfolioValue float64) {
	if portfolioValue == 0 {
		l.ValuePercent = 0
		return
	}
	l.ValuePercent = l.MarketValue / portfolioValue
}

func validFraction(f float64) error {
	if f < 0 || f > 1 || math.IsNaN(f) {
		return fmt.Errorf("%w: target fraction %v outside [0,1]", market.ErrInvalidOrder, f)
	}
	return nil
}
