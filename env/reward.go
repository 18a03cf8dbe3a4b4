package env

import "fmt"

// RewardInput is everything a reward function may inspect for one step.
// The per-instrument slices are aligned and cover instruments that traded
// on the step's date.
type RewardInput struct {
	DailyReturn float64
	DailyPnl    float64
	Highs       []float64
	Lows        []float64
	Closes      []float64
	SellPrices  []float64
	BuyPrices   []float64
}

// RewardFunc shapes the per-step reward from the day's outcome.
type RewardFunc func(RewardInput) float64

// SimpleReward is the sign of the day: +1 on a profitable day, -1 otherwise.
func SimpleReward(in RewardInput) float64 {
	if in.DailyReturn <= 0 {
		return -1
	}
	return 1
}

// DailyReturnReward passes the day's return through unchanged.
func DailyReturnReward(in RewardInput) float64 {
	return in.DailyReturn
}

// CountRateReward adds order-quality terms to the daily return: the share
// of bids that could have filled, and among fills, the share that closed on
// the profitable side of the day's close.
func CountRateReward(in RewardInput) float64 {
	var fail, success, profit, loss float64
	for i := range in.Highs {
		if in.BuyPrices[i] >= in.Lows[i] {
			success++
			if in.BuyPrices[i] <= in.Closes[i] {
				profit++
			} else {
				loss++
			}
		} else {
			fail++
		}

		if in.SellPrices[i] <= in.Highs[i] {
			success++
			if in.SellPrices[i] > in.Closes[i] {
				profit++
			} else {
				loss++
			}
		} else {
			fail++
		}
	}

	reward := in.DailyReturn
	if success+fail > 0 {
		reward += success / (success + fail)
	}
	if profit+loss > 0 {
		reward += profit / (profit + loss)
	}
	return reward
}

// Reward resolves a reward function by name; "" selects "simple".
func Reward(name string) (RewardFunc, error) {
	switch name {
	case "", "simple":
		return SimpleReward, nil
	case "daily_return":
		return DailyReturnReward, nil
	case "daily_pnl_add_count_rate":
		return CountRateReward, nil
	default:
		return nil, fmt.Errorf("unknown reward function %q", name)
	}
}
