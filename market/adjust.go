package market

import "fmt"

// Adjuster computes the split/dividend rebasing ratio between consecutive
// trading days from cumulative adjustment factors. Both lookups fall back to
// the most recent record strictly before the requested date when the
// instrument is suspended, so a position held through a halt is still
// rebased when the action occurred during the halt.
type Adjuster struct {
	histories map[string]*History
}

func NewAdjuster(histories map[string]*History) *Adjuster {
	return &Adjuster{histories: histories}
}

// factor returns the adjustment factor effective on date, carrying the
// previous factor forward across suspended days.
func (a *Adjuster) factor(h *History, date string) (float64, error) {
	if b, ok := h.Bar(date); ok {
		return b.AdjFactor, nil
	}
	return a.prevFactor(h, date)
}

// prevFactor returns the adjustment factor of the last record strictly
// before date.
func (a *Adjuster) prevFactor(h *History, date string) (float64, error) {
	b, ok := h.LastBefore(date)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no adjustment factor before %s", ErrMissingHistory, h.Code, date)
	}
	return b.AdjFactor, nil
}

// RebaseRatio returns factor(date)/factor(previous trading date). A ratio
// other than 1 signals a split or dividend between the two dates; applied
// multiplicatively to shares it leaves shares*close economically unchanged
// modulo the corporate action.
func (a *Adjuster) RebaseRatio(code, date string) (float64, error) {
	h, ok := a.histories[code]
	if !ok {
		return 0, fmt.Errorf("%w: unknown instrument %s", ErrMissingHistory, code)
	}
	prev, err := a.prevFactor(h, date)
	if err != nil {
		return 0, err
	}
	cur, err := a.factor(h, date)
	if err != nil {
		return 0, err
	}
	if prev <= 0 {
		return 0, fmt.Errorf("%w: %s non-positive adjustment factor before %s", ErrMissingHistory, code, date)
	}
	return cur / prev, nil
}
