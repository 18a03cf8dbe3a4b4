package env

import (
	"fmt"

	"github.com/quantlab/stockgym/market"
	"github.com/quantlab/stockgym/portfolio"
)

// MultiVolEnv trades n instruments with free per-instrument allocation:
// the action is [vSellPrice, vSellPct, vBuyPrice, vBuyPct] per instrument.
// Price values scale to bid offsets of ±10% against the previous close;
// pct values scale to target value fractions in [0, 1]. All sells run
// before all buys, so a buy may spend same-day proceeds from another
// instrument's sell.
type MultiVolEnv struct {
	*base
}

func NewMultiVol(ds *market.Dataset, opts Options) (*MultiVolEnv, error) {
	b, err := newBase(ds, opts)
	if err != nil {
		return nil, err
	}
	return &MultiVolEnv{base: b}, nil
}

func (e *MultiVolEnv) ActionSize() int { return 4 * len(e.ds.Codes) }

func (e *MultiVolEnv) Reset() ([]Obs, error) {
	return e.reset(), nil
}

func (e *MultiVolEnv) Step(action []float64, onlyUpdate bool) ([]Obs, float64, bool, StepInfo, error) {
	if len(action) != e.ActionSize() {
		return nil, 0, e.done, StepInfo{}, fmt.Errorf("%w: action length %d, want %d",
			market.ErrInvalidOrder, len(action), e.ActionSize())
	}

	actions := map[string]portfolio.Action{}
	if !onlyUpdate {
		for i, code := range e.ds.Codes {
			a := action[4*i : 4*(i+1)]
			sellPrice, err := e.actionPrice(code, a[0])
			if err != nil {
				return nil, 0, e.done, StepInfo{}, err
			}
			buyPrice, err := e.actionPrice(code, a[2])
			if err != nil {
				return nil, 0, e.done, StepInfo{}, err
			}
			actions[code] = portfolio.Action{
				SellPrice:    sellPrice,
				SellFraction: actionFraction(a[1]),
				BuyPrice:     buyPrice,
				BuyFraction:  actionFraction(a[3]),
			}
		}
	}
	return e.step(actions, onlyUpdate)
}
