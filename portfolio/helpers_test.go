package portfolio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quantlab/stockgym/market"
)

func bar(date string, o, h, l, c, pre, pct, adj float64) market.Bar {
	return market.Bar{Date: date, Open: o, High: h, Low: l, Close: c, PreClose: pre, PctChange: pct, AdjFactor: adj, Volume: 1000}
}

func mustHistory(t *testing.T, code string, bars []market.Bar) *market.History {
	t.Helper()
	h, err := market.NewHistory(code, bars)
	require.NoError(t, err)
	return h
}

// singleDataset is one instrument trading 0102..0107; steps start at 0103
// so the adjuster always has a prior record.
func singleDataset(t *testing.T) *market.Dataset {
	t.Helper()
	h := mustHistory(t, "600000.SH", []market.Bar{
		bar("20190102", 10.0, 10.4, 9.9, 10.2, 10.0, 2.0, 1.0),
		bar("20190103", 10.2, 10.6, 10.1, 10.5, 10.2, 2.94, 1.0),
		bar("20190104", 10.5, 10.8, 10.3, 10.4, 10.5, -0.95, 1.0),
		bar("20190107", 10.4, 10.5, 10.2, 10.3, 10.4, -0.97, 1.0),
	})
	return market.NewDataset(map[string]*market.History{h.Code: h})
}

// pairDataset adds a second instrument on the same calendar.
func pairDataset(t *testing.T) *market.Dataset {
	t.Helper()
	a := mustHistory(t, "600000.SH", []market.Bar{
		bar("20190102", 10.0, 10.4, 9.9, 10.2, 10.0, 2.0, 1.0),
		bar("20190103", 10.2, 10.6, 10.1, 10.5, 10.2, 2.94, 1.0),
		bar("20190104", 10.5, 10.8, 10.3, 10.4, 10.5, -0.95, 1.0),
		bar("20190107", 10.4, 10.5, 10.2, 10.3, 10.4, -0.97, 1.0),
	})
	b := mustHistory(t, "000002.SZ", []market.Bar{
		bar("20190102", 20.0, 20.5, 19.8, 20.0, 20.0, 0.0, 1.0),
		bar("20190103", 20.0, 20.4, 19.9, 20.2, 20.0, 1.0, 1.0),
		bar("20190104", 20.2, 20.6, 20.1, 20.5, 20.2, 1.49, 1.0),
		bar("20190107", 20.5, 20.8, 20.3, 20.6, 20.5, 0.49, 1.0),
	})
	return market.NewDataset(map[string]*market.History{a.Code: a, b.Code: b})
}
