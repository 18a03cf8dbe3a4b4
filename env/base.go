package env

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/quantlab/stockgym/market"
	"github.com/quantlab/stockgym/portfolio"
)

// priceScale maps an action value in [-1, 1] to a bid offset of ±10%
// against the previous close.
const priceScale = 0.1

// base carries the episode machinery shared by every variant: the open-date
// calendar walk, observation windows and the aggregator.
type base struct {
	ds   *market.Dataset
	agg  *portfolio.Aggregator
	opts Options

	reward RewardFunc
	dates  []string

	timeID int
	date   string
	done   bool
	obs    []Obs
}

func newBase(ds *market.Dataset, opts Options) (*base, error) {
	if len(ds.Codes) == 0 {
		return nil, fmt.Errorf("env: dataset has no instruments")
	}
	if opts.Investment <= 0 {
		return nil, fmt.Errorf("env: investment must be positive")
	}
	if opts.LookBackDays <= 0 {
		return nil, fmt.Errorf("env: look-back days must be positive")
	}
	dates := ds.Calendar.Dates()
	if len(dates) <= opts.LookBackDays {
		return nil, fmt.Errorf("env: calendar has %d dates, need more than %d look-back days",
			len(dates), opts.LookBackDays)
	}
	rf, err := Reward(opts.Reward)
	if err != nil {
		return nil, err
	}
	return &base{
		ds:     ds,
		agg:    portfolio.NewAggregator(ds, opts.Investment, opts.LimitRate, opts.CommissionRate),
		opts:   opts,
		reward: rf,
		dates:  dates,
	}, nil
}

func (b *base) Codes() []string { return b.ds.Codes }

// reset rewinds the episode to the first tradable date and rebuilds the
// initial observation windows: look-back market features with a flat
// position.
func (b *base) reset() []Obs {
	b.agg.Reset(b.opts.Investment)
	b.timeID = b.opts.LookBackDays
	b.date = b.dates[b.timeID]
	b.done = false

	b.obs = make([]Obs, len(b.ds.Codes))
	for i, code := range b.ds.Codes {
		window := make(Obs, b.opts.LookBackDays)
		for d := 0; d < b.opts.LookBackDays; d++ {
			window[d] = append(b.ds.Features(code, b.dates[d]), 0, 0)
		}
		b.obs[i] = window
	}
	return b.obs
}

// actionPrice converts an action value in [-1, 1] into a bid: the previous
// close moved by up to ±10%, rounded to the cent tick.
func (b *base) actionPrice(code string, v float64) (float64, error) {
	preClose, err := b.ds.Histories[code].PreClose(b.date)
	if err != nil {
		return 0, err
	}
	return math.Round(preClose*(1+v*priceScale)*100) / 100, nil
}

// actionFraction converts an action value in [-1, 1] into a target value
// fraction in [0, 1].
func actionFraction(v float64) float64 {
	return v*0.5 + 0.5
}

// step runs one day with the given intents and rolls the episode forward.
func (b *base) step(actions map[string]portfolio.Action, onlyUpdate bool) ([]Obs, float64, bool, StepInfo, error) {
	if b.done {
		return nil, 0, true, StepInfo{}, ErrEpisodeDone
	}
	if b.date == b.dates[len(b.dates)-1] {
		b.done = true
	}

	log.Debug().Str("date", b.date).Float64("portfolio", b.agg.State.PortfolioValue).
		Msg("env step")

	snap, err := b.agg.Step(b.date, actions, onlyUpdate)
	if err != nil {
		return nil, 0, b.done, StepInfo{}, err
	}

	reward := b.reward(b.rewardInput(snap, actions))
	info := StepInfo{
		Date:           b.date,
		Orders:         snap.Fills,
		Cash:           snap.Cash,
		MarketValue:    snap.MarketValue,
		PortfolioValue: snap.PortfolioValue,
		DailyPnl:       snap.DailyPnl,
		TotalPnl:       snap.TotalPnl,
		Reward:         reward,
	}

	for i, code := range b.ds.Codes {
		l := b.agg.Ledger(code)
		row := append(b.ds.Features(code, b.date), l.DailyReturn, l.ValuePercent)
		b.obs[i] = append(b.obs[i][1:], row)
	}

	if !b.done {
		b.timeID++
		b.date = b.dates[b.timeID]
	}

	return b.obs, reward, b.done, info, nil
}

// rewardInput gathers the day's bars and bid prices for richer reward
// functions. Suspended instruments are skipped.
func (b *base) rewardInput(snap portfolio.Snapshot, actions map[string]portfolio.Action) RewardInput {
	in := RewardInput{
		DailyReturn: snap.DailyReturn,
		DailyPnl:    snap.DailyPnl,
	}
	for _, code := range b.ds.Codes {
		bar, ok := b.ds.Histories[code].Bar(snap.Date)
		if !ok {
			continue
		}
		act := actions[code]
		in.Highs = append(in.Highs, bar.High)
		in.Lows = append(in.Lows, bar.Low)
		in.Closes = append(in.Closes, bar.Close)
		in.SellPrices = append(in.SellPrices, act.SellPrice)
		in.BuyPrices = append(in.BuyPrices, act.BuyPrice)
	}
	return in
}
