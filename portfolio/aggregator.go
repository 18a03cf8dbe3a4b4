package portfolio

import (
	"fmt"

	"github.com/quantlab/stockgym/market"
)

// State is the explicit mutable record for one episode: current date, the
// shared cash pool and running totals. It is owned by the Aggregator and
// passed nowhere implicitly; there are no ambient globals.
type State struct {
	Date               string
	Cash               float64
	StartingCash       float64
	PortfolioValue     float64
	PrevPortfolioValue float64
	TotalPnl           float64
}

// Aggregator orchestrates the per-day control flow over every instrument
// and folds the per-instrument ledgers into portfolio totals. Apart from
// State and the ledgers it holds no state of its own: each Snapshot is a
// pure function of the day's ledger states.
type Aggregator struct {
	State State

	codes    []string
	ledgers  map[string]*Ledger
	matcher  *market.Matcher
	adjuster *market.Adjuster
	ds       *market.Dataset

	commissionRate float64
}

// NewAggregator builds an aggregator over the dataset. limitRate <= 0
// selects market.DefaultLimitRate; commissionRate may be zero.
func NewAggregator(ds *market.Dataset, investment, limitRate, commissionRate float64) *Aggregator {
	a := &Aggregator{
		codes:          ds.Codes,
		matcher:        market.NewMatcher(ds.Histories, limitRate),
		adjuster:       market.NewAdjuster(ds.Histories),
		ds:             ds,
		commissionRate: commissionRate,
	}
	a.Reset(investment)
	return a
}

// Reset recreates every ledger with zero shares and restores the cash pool.
// Two consecutive resets yield identical state.
func (a *Aggregator) Reset(investment float64) {
	a.State = State{
		Cash:           investment,
		StartingCash:   investment,
		PortfolioValue: investment,
	}
	a.ledgers = make(map[string]*Ledger, len(a.codes))
	for _, code := range a.codes {
		a.ledgers[code] = NewLedger(code, a.matcher, a.commissionRate)
	}
}

// Ledger returns the ledger for code, or nil.
func (a *Aggregator) Ledger(code string) *Ledger { return a.ledgers[code] }

// Codes returns the instrument codes in their fixed iteration order.
func (a *Aggregator) Codes() []string { return a.codes }

// Matcher exposes the matching engine shared by all ledgers.
func (a *Aggregator) Matcher() *market.Matcher { return a.matcher }

// Step runs one simulated day: rebase every position, then all sells
// across all instruments, then all buys, then mark every ledger to market
// at the day's close, then fold the Snapshot.
//
// The sells-before-buys ordering is a deliberate invariant: a sell can
// never fail for lack of post-buy cash, and a buy may spend same-day
// proceeds from selling a different instrument.
//
// An instrument missing from actions, or a zero price on a leg, means no
// order on that leg. onlyUpdate skips both passes and applies the
// mark-to-market only. Days must be processed in historical order.
func (a *Aggregator) Step(date string, actions map[string]Action, onlyUpdate bool) (Snapshot, error) {
	// Validate the whole day's intents before mutating anything, so an
	// invalid order leaves every ledger untouched.
	for code, act := range actions {
		if err := validFraction(act.SellFraction); err != nil {
			return Snapshot{}, fmt.Errorf("%s sell: %w", code, err)
		}
		if err := validFraction(act.BuyFraction); err != nil {
			return Snapshot{}, fmt.Errorf("%s buy: %w", code, err)
		}
		if act.SellPrice < 0 || act.BuyPrice < 0 {
			return Snapshot{}, fmt.Errorf("%s: %w: negative price", code, market.ErrInvalidOrder)
		}
	}

	a.State.Date = date
	a.State.PrevPortfolioValue = a.State.PortfolioValue

	for _, code := range a.codes {
		ratio, err := a.adjuster.RebaseRatio(code, date)
		if err != nil {
			return Snapshot{}, err
		}
		if err := a.ledgers[code].Rebase(ratio); err != nil {
			return Snapshot{}, err
		}
	}

	cashDeltas := make(map[string]float64, len(a.codes))
	var fills []Fill

	if !onlyUpdate {
		for _, code := range a.codes {
			act, ok := actions[code]
			if !ok || act.SellPrice == 0 {
				continue
			}
			fill, err := a.ledgers[code].SellToTarget(
				date, act.SellFraction, act.SellPrice, a.State.PortfolioValue, a.State.Cash)
			if err != nil {
				return Snapshot{}, err
			}
			a.State.Cash += fill.CashDelta
			cashDeltas[code] += fill.CashDelta
			if fill.Volume != 0 {
				fills = append(fills, fill)
			}
		}

		for _, code := range a.codes {
			act, ok := actions[code]
			if !ok || act.BuyPrice == 0 {
				continue
			}
			fill, err := a.ledgers[code].BuyToTarget(
				date, act.BuyFraction, act.BuyPrice, a.State.PortfolioValue, a.State.Cash)
			if err != nil {
				return Snapshot{}, err
			}
			a.State.Cash += fill.CashDelta
			cashDeltas[code] += fill.CashDelta
			if fill.Volume != 0 {
				fills = append(fills, fill)
			}
		}
	}

	snap := Snapshot{
		Date:         date,
		ValuePercent: make(map[string]float64, len(a.codes)),
		Fills:        fills,
	}

	for _, code := range a.codes {
		l := a.ledgers[code]
		closePx, err := a.ds.Histories[code].ClosePrice(date)
		if err != nil {
			return Snapshot{}, err
		}
		l.MarkToMarket(closePx, cashDeltas[code], a.State.PrevPortfolioValue)

		snap.MarketValue += l.MarketValue
		snap.DailyPnl += l.DailyPnl
		snap.TransactionCost += l.TransactionCost
		snap.CumTransactionCost += l.CumTransactionCost
	}

	a.State.TotalPnl += snap.DailyPnl
	a.State.PortfolioValue = snap.MarketValue + a.State.Cash

	snap.Cash = a.State.Cash
	snap.PortfolioValue = a.State.PortfolioValue
	snap.TotalPnl = a.State.TotalPnl
	if a.State.PrevPortfolioValue == 0 {
		snap.DailyReturn = 0
	} else {
		snap.DailyReturn = snap.DailyPnl / a.State.PrevPortfolioValue
	}
	for _, code := range a.codes {
		l := a.ledgers[code]
		l.UpdateValuePercent(snap.PortfolioValue)
		snap.ValuePercent[code] = l.ValuePercent
	}

	return snap, nil
}
