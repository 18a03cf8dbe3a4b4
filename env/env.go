// Package env wraps the matching/ledger core in gym-style episode
// environments for policy backtesting. Each variant maps a flat action
// vector to per-instrument order intents; matching and accounting live
// entirely in the portfolio package.
package env

import (
	"errors"
	"fmt"

	"github.com/quantlab/stockgym/market"
	"github.com/quantlab/stockgym/portfolio"
)

var (
	// ErrEpisodeDone is returned by Step after the last calendar date has
	// been processed; only Reset is valid afterwards.
	ErrEpisodeDone = errors.New("episode done")
)

// Obs is one instrument's observation window: LookBackDays rows of market
// features plus [daily return, value percent].
type Obs [][]float64

// StepInfo reports one step's bookkeeping for logging and reward shaping.
type StepInfo struct {
	Date           string
	Orders         []portfolio.Fill
	Cash           float64
	MarketValue    float64
	PortfolioValue float64
	DailyPnl       float64
	TotalPnl       float64
	Reward         float64
}

// Env is implemented by every scenario variant. Variant behavior is
// expressed only in how the action vector is assembled into target
// fractions; all variants share one ledger type underneath.
type Env interface {
	// Reset starts a new episode and returns one Obs per instrument.
	Reset() ([]Obs, error)
	// Step processes one trading day. onlyUpdate applies the
	// mark-to-market without trading (buy-and-hold baseline).
	Step(action []float64, onlyUpdate bool) ([]Obs, float64, bool, StepInfo, error)
	// ActionSize is the expected action vector length.
	ActionSize() int
	Codes() []string
}

// Options configure an episode environment.
type Options struct {
	Investment     float64
	LookBackDays   int
	Reward         string // reward function name, "" selects "simple"
	LimitRate      float64
	CommissionRate float64
}

// Make builds the environment variant for a scenario name.
func Make(scenario string, ds *market.Dataset, opts Options) (Env, error) {
	switch scenario {
	case "simple":
		return NewSimple(ds, opts)
	case "average":
		return NewAverage(ds, opts)
	case "multi_vol":
		return NewMultiVol(ds, opts)
	default:
		return nil, fmt.Errorf("unknown scenario %q", scenario)
	}
}
