package env

import (
	"fmt"

	"github.com/quantlab/stockgym/market"
	"github.com/quantlab/stockgym/portfolio"
)

// SimpleEnv trades a single instrument at full size intraday: the action is
// [vSell, vBuy] in [-1, 1], each a bid offset of ±10% against the previous
// close. The day sells the whole position first, then buys with all cash.
type SimpleEnv struct {
	*base
	code string
}

func NewSimple(ds *market.Dataset, opts Options) (*SimpleEnv, error) {
	if len(ds.Codes) != 1 {
		return nil, fmt.Errorf("simple env needs exactly one instrument, got %d", len(ds.Codes))
	}
	b, err := newBase(ds, opts)
	if err != nil {
		return nil, err
	}
	return &SimpleEnv{base: b, code: ds.Codes[0]}, nil
}

func (e *SimpleEnv) ActionSize() int { return 2 }

func (e *SimpleEnv) Reset() ([]Obs, error) {
	return e.reset(), nil
}

func (e *SimpleEnv) Step(action []float64, onlyUpdate bool) ([]Obs, float64, bool, StepInfo, error) {
	if len(action) != e.ActionSize() {
		return nil, 0, e.done, StepInfo{}, fmt.Errorf("%w: action length %d, want %d",
			market.ErrInvalidOrder, len(action), e.ActionSize())
	}

	actions := map[string]portfolio.Action{}
	if !onlyUpdate {
		sellPrice, err := e.actionPrice(e.code, action[0])
		if err != nil {
			return nil, 0, e.done, StepInfo{}, err
		}
		buyPrice, err := e.actionPrice(e.code, action[1])
		if err != nil {
			return nil, 0, e.done, StepInfo{}, err
		}
		actions[e.code] = portfolio.Action{
			SellPrice:    sellPrice,
			SellFraction: 0, // liquidate
			BuyPrice:     buyPrice,
			BuyFraction:  1, // full allocation
		}
	}
	return e.step(actions, onlyUpdate)
}
