package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebaseRatio(t *testing.T) {
	t.Parallel()

	h, err := NewHistory("000001.SZ", []Bar{
		bar("20190102", 10.0, 10.4, 9.9, 10.2, 10.0, 2.0, 1.0),
		bar("20190103", 10.2, 10.6, 10.1, 10.5, 10.2, 2.94, 1.0),
		// 2:1 split between 0103 and 0107; suspended 0108.
		bar("20190107", 5.2, 5.4, 5.1, 5.25, 10.5, 0.0, 2.0),
		bar("20190109", 5.2, 5.4, 5.1, 5.3, 5.25, 0.95, 2.0),
	})
	require.NoError(t, err)
	a := NewAdjuster(map[string]*History{h.Code: h})

	tests := []struct {
		name string
		date string
		want float64
	}{
		{"no_action", "20190103", 1.0},
		{"split_doubles", "20190107", 2.0},
		{"suspended_carries_forward", "20190108", 1.0},
		{"after_suspension", "20190109", 1.0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ratio, err := a.RebaseRatio("000001.SZ", tt.date)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, ratio, 1e-12)
		})
	}
}

func TestRebaseRatioSplitDuringSuspension(t *testing.T) {
	t.Parallel()

	// The factor changes while the instrument is halted: the ratio must
	// surface on the requested (still suspended) date via carry-forward.
	h, err := NewHistory("X", []Bar{
		bar("20190102", 10, 10, 10, 10, 10, 0, 1.0),
		bar("20190107", 5, 5, 5, 5, 10, 0, 2.0),
	})
	require.NoError(t, err)
	a := NewAdjuster(map[string]*History{"X": h})

	// 0108: prev factor (strictly before) is 2.0, current carries 2.0.
	ratio, err := a.RebaseRatio("X", "20190108")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ratio, 1e-12)

	// 0107 itself: prev is 1.0, current 2.0.
	ratio, err = a.RebaseRatio("X", "20190107")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, ratio, 1e-12)
}

func TestRebaseRatioMissingHistory(t *testing.T) {
	t.Parallel()

	h, err := NewHistory("X", []Bar{
		bar("20190102", 10, 10, 10, 10, 10, 0, 1.0),
	})
	require.NoError(t, err)
	a := NewAdjuster(map[string]*History{"X": h})

	// Never traded before the first record.
	_, err = a.RebaseRatio("X", "20190102")
	assert.ErrorIs(t, err, ErrMissingHistory)

	_, err = a.RebaseRatio("unknown", "20190102")
	assert.ErrorIs(t, err, ErrMissingHistory)
}
