package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/stockgym/market"
)

func testBars() []market.Bar {
	return []market.Bar{
		{Date: "20190102", Open: 10.0, High: 10.4, Low: 9.9, Close: 10.2, PreClose: 10.0, PctChange: 2.0, AdjFactor: 1.0, Volume: 12345},
		{Date: "20190103", Open: 10.2, High: 10.6, Low: 10.1, Close: 10.5, PreClose: 10.2, PctChange: 2.94, AdjFactor: 1.0, Volume: 23456},
		{Date: "20190104", Open: 10.5, High: 10.8, Low: 10.3, Close: 10.4, PreClose: 10.5, PctChange: -0.95, AdjFactor: 1.0, Volume: 34567},
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	t.Parallel()
	l := &Loader{Dir: t.TempDir(), Start: "20190101", End: "20190131"}
	require.NoError(t, l.Write("600000.SH", testBars()))

	ds, err := l.Load([]string{"600000.SH"})
	require.NoError(t, err)
	require.Equal(t, []string{"600000.SH"}, ds.Codes)

	h := ds.Histories["600000.SH"]
	bar, ok := h.Bar("20190103")
	require.True(t, ok)
	assert.Equal(t, testBars()[1], bar)
	assert.Equal(t, 3, ds.Calendar.Len())
}

func TestLoadCompressedCache(t *testing.T) {
	t.Parallel()
	l := &Loader{Dir: t.TempDir(), Start: "20190101", End: "20190131"}
	require.NoError(t, l.Write("600000.SH", testBars()))
	require.NoError(t, l.Compress("600000.SH"))

	// The plain CSV is gone; Load falls back to the .xz sibling.
	_, err := os.Stat(filepath.Join(l.Dir, "600000.SH", "20190101-20190131.csv"))
	assert.True(t, os.IsNotExist(err))

	ds, err := l.Load([]string{"600000.SH"})
	require.NoError(t, err)
	bar, ok := ds.Histories["600000.SH"].Bar("20190104")
	require.True(t, ok)
	assert.Equal(t, testBars()[2], bar)
}

func TestLoadMissingCache(t *testing.T) {
	t.Parallel()
	l := &Loader{Dir: t.TempDir(), Start: "20190101", End: "20190131"}
	_, err := l.Load([]string{"600000.SH"})
	assert.Error(t, err)
}

func TestLoadToleratesBadAndDuplicateRows(t *testing.T) {
	t.Parallel()
	l := &Loader{Dir: t.TempDir(), Start: "20190101", End: "20190131"}

	dir := filepath.Join(l.Dir, "600000.SH")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	raw := "trade_date,open,high,low,close,pre_close,pct_chg,adj_factor,vol\n" +
		"20190102,10.0,10.4,9.9,10.2,10.0,2.0,1.0,12345\n" +
		"20190103,10.2,oops,10.1,10.5,10.2,2.94,1.0,23456\n" + // unparseable
		"20190103,10.2,10.6,10.1,10.5,10.2,2.94,1.0,23456\n" +
		"20190103,99,99,99,99,99,99,99,99\n" + // duplicate, first kept
		"2019-01-04,10.5,10.8,10.3,10.4,10.5,-0.95,1.0,34567\n" // bad date
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20190101-20190131.csv"), []byte(raw), 0o644))

	ds, err := l.Load([]string{"600000.SH"})
	require.NoError(t, err)

	h := ds.Histories["600000.SH"]
	assert.Equal(t, 2, ds.Calendar.Len())
	bar, ok := h.Bar("20190103")
	require.True(t, ok)
	assert.Equal(t, 10.6, bar.High)
}
