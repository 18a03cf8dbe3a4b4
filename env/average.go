package env

import (
	"fmt"

	"github.com/quantlab/stockgym/market"
	"github.com/quantlab/stockgym/portfolio"
)

// AverageEnv trades n instruments with equal-split allocation: the action
// is [vSell, vBuy] per instrument. Each day every position is liquidated at
// its sell bid, then each instrument is bought back toward an equal 1/n
// share of the portfolio.
type AverageEnv struct {
	*base
}

func NewAverage(ds *market.Dataset, opts Options) (*AverageEnv, error) {
	b, err := newBase(ds, opts)
	if err != nil {
		return nil, err
	}
	return &AverageEnv{base: b}, nil
}

func (e *AverageEnv) ActionSize() int { return 2 * len(e.ds.Codes) }

func (e *AverageEnv) Reset() ([]Obs, error) {
	return e.reset(), nil
}

func (e *AverageEnv) Step(action []float64, onlyUpdate bool) ([]Obs, float64, bool, StepInfo, error) {
	if len(action) != e.ActionSize() {
		return nil, 0, e.done, StepInfo{}, fmt.Errorf("%w: action length %d, want %d",
			market.ErrInvalidOrder, len(action), e.ActionSize())
	}

	actions := map[string]portfolio.Action{}
	if !onlyUpdate {
		share := 1.0 / float64(len(e.ds.Codes))
		for i, code := range e.ds.Codes {
			sellPrice, err := e.actionPrice(code, action[2*i])
			if err != nil {
				return nil, 0, e.done, StepInfo{}, err
			}
			buyPrice, err := e.actionPrice(code, action[2*i+1])
			if err != nil {
				return nil, 0, e.done, StepInfo{}, err
			}
			actions[code] = portfolio.Action{
				SellPrice:    sellPrice,
				SellFraction: 0,
				BuyPrice:     buyPrice,
				BuyFraction:  share,
			}
		}
	}
	return e.step(actions, onlyUpdate)
}
