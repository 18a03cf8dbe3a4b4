package market

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// Side of an order.
type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return fmt.Sprintf("side(%d)", int8(s))
}

// DefaultLimitRate is the daily price-limit threshold in percent. Main-board
// stocks cap at 10%; the matcher treats a locked single-price session moving
// more than this as untradable on the locked side.
const DefaultLimitRate = 9.8

// Matcher decides fill eligibility and clearing price for one instrument on
// one date against that day's bar. It is intentionally optimistic and
// symmetric: any bid inside [low, high] always fills. It does not model that
// a fully-invested account bidding the exact low-of-day tick may not clear
// in live trading.
type Matcher struct {
	histories map[string]*History
	limitRate float64 // percent
}

// NewMatcher builds a Matcher over the dataset's histories. limitRate <= 0
// selects DefaultLimitRate.
func NewMatcher(histories map[string]*History, limitRate float64) *Matcher {
	if limitRate <= 0 {
		limitRate = DefaultLimitRate
	}
	return &Matcher{histories: histories, limitRate: limitRate}
}

// Suspended reports whether code has no bar on date.
func (m *Matcher) Suspended(code, date string) bool {
	h, ok := m.histories[code]
	if !ok {
		return true
	}
	_, ok = h.Bar(date)
	return !ok
}

// Check validates a bid against the day's bar and returns the clearing
// price when the order would have filled.
//
// Rejections (ok=false, err=nil) are local and recoverable: suspension,
// limit lockout, bid outside the traded range. A non-positive bid or an
// unknown side is a caller contract violation and returns ErrInvalidOrder.
func (m *Matcher) Check(side Side, code, date string, bid float64) (ok bool, price float64, err error) {
	if bid <= 0 {
		return false, 0, fmt.Errorf("%w: %s %s bid %.4f", ErrInvalidOrder, side, code, bid)
	}

	h, found := m.histories[code]
	if !found {
		return false, 0, nil
	}
	bar, found := h.Bar(date)
	if !found {
		log.Debug().Str("code", code).Str("date", date).Msg("check: suspended")
		return false, 0, nil
	}

	switch side {
	case Buy:
		// A day locked limit-up cannot be bought into.
		if bar.Locked() && bar.PctChange > m.limitRate {
			log.Debug().Str("code", code).Str("date", date).Msg("check: limit-up lockout")
			return false, 0, nil
		}
		if bid < bar.Low {
			return false, 0, nil
		}
		return true, math.Min(bid, bar.High), nil

	case Sell:
		// A day locked limit-down cannot be sold out of.
		if bar.Locked() && bar.PctChange < -m.limitRate {
			log.Debug().Str("code", code).Str("date", date).Msg("check: limit-down lockout")
			return false, 0, nil
		}
		if bid > bar.High {
			return false, 0, nil
		}
		// An ask below the day's floor still realizes at least the low.
		return true, math.Max(bid, bar.Low), nil
	}

	return false, 0, fmt.Errorf("%w: unknown side %d", ErrInvalidOrder, int8(side))
}
