package market

import (
	"fmt"
	"sort"
)

// History holds one instrument's bars ordered by date. A date absent from
// the index means the instrument did not trade that day (suspension, halt,
// or not yet listed); no distinction is made between the two.
type History struct {
	Code string

	bars   []Bar
	byDate map[string]int
}

// NewHistory builds a History from bars sorted ascending by date.
func NewHistory(code string, bars []Bar) (*History, error) {
	byDate := make(map[string]int, len(bars))
	prev := ""
	for i, b := range bars {
		if b.Date <= prev {
			return nil, fmt.Errorf("history %s: bars not strictly ascending at %q", code, b.Date)
		}
		prev = b.Date
		byDate[b.Date] = i
	}
	return &History{Code: code, bars: bars, byDate: byDate}, nil
}

func (h *History) Len() int { return len(h.bars) }
func (h *History) At(i int) Bar { return h.bars[i] }

// Bar returns the bar for an exact trading date.
func (h *History) Bar(date string) (Bar, bool) {
	i, ok := h.byDate[date]
	if !ok {
		return Bar{}, false
	}
	return h.bars[i], true
}

// Dates returns all trading dates in ascending order.
func (h *History) Dates() []string {
	out := make([]string, len(h.bars))
	for i, b := range h.bars {
		out[i] = b.Date
	}
	return out
}

// LastBefore returns the most recent bar strictly before date.
// YYYYMMDD dates order lexically, so a binary search over bars suffices.
func (h *History) LastBefore(date string) (Bar, bool) {
	i := sort.Search(len(h.bars), func(i int) bool { return h.bars[i].Date >= date })
	if i == 0 {
		return Bar{}, false
	}
	return h.bars[i-1], true
}

// FirstAtOrAfter returns the index of the first bar whose date >= date,
// or h.Len() when none exists.
func (h *History) FirstAtOrAfter(date string) int {
	return sort.Search(len(h.bars), func(i int) bool { return h.bars[i].Date >= date })
}

// PreClose returns the previous-close price for date. On a suspended day it
// carries the most recent earlier bar's pre-close forward, never
// interpolating.
func (h *History) PreClose(date string) (float64, error) {
	if b, ok := h.Bar(date); ok {
		return b.PreClose, nil
	}
	b, ok := h.LastBefore(date)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no record before %s", ErrMissingHistory, h.Code, date)
	}
	return b.PreClose, nil
}

// ClosePrice returns the close for date, carrying the last traded close
// forward across suspended days.
func (h *History) ClosePrice(date string) (float64, error) {
	if b, ok := h.Bar(date); ok {
		return b.Close, nil
	}
	b, ok := h.LastBefore(date)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no record before %s", ErrMissingHistory, h.Code, date)
	}
	return b.Close, nil
}

// Dataset bundles the per-instrument histories with the union trading
// calendar. It is read-only for the lifetime of an episode.
type Dataset struct {
	Codes     []string
	Histories map[string]*History
	Calendar  *Calendar
}

// NewDataset derives the sorted code list and union calendar from the
// given histories.
func NewDataset(histories map[string]*History) *Dataset {
	codes := make([]string, 0, len(histories))
	for code := range histories {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return &Dataset{
		Codes:     codes,
		Histories: histories,
		Calendar:  NewCalendar(histories),
	}
}

// Features returns the observation vector for code on date, carrying the
// most recent earlier bar forward when the instrument is suspended. A code
// with no record on or before date yields zeros.
func (ds *Dataset) Features(code, date string) []float64 {
	h, ok := ds.Histories[code]
	if !ok {
		return make([]float64, FeatureSize)
	}
	if b, ok := h.Bar(date); ok {
		return b.Features()
	}
	if b, ok := h.LastBefore(date); ok {
		return b.Features()
	}
	return make([]float64, FeatureSize)
}
