package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/stockgym/market"
)

func TestSimpleResetObservationShape(t *testing.T) {
	t.Parallel()
	e, err := NewSimple(envDataset(t), testOptions())
	require.NoError(t, err)

	obs, err := e.Reset()
	require.NoError(t, err)
	require.Len(t, obs, 1)
	require.Len(t, obs[0], 2)
	for _, row := range obs[0] {
		require.Len(t, row, market.FeatureSize+2)
		// Flat position before the first step.
		assert.Zero(t, row[market.FeatureSize])
		assert.Zero(t, row[market.FeatureSize+1])
	}
}

func TestSimpleEpisodeLifecycle(t *testing.T) {
	t.Parallel()
	e, err := NewSimple(envDataset(t), testOptions())
	require.NoError(t, err)
	_, err = e.Reset()
	require.NoError(t, err)

	dates := []string{"20190104", "20190107", "20190108"}
	for i, want := range dates {
		obs, _, done, info, err := e.Step([]float64{0, 0}, true)
		require.NoError(t, err)
		assert.Equal(t, want, info.Date)
		assert.Equal(t, i == len(dates)-1, done)
		require.Len(t, obs, 1)
		assert.Len(t, obs[0], 2)
	}

	_, _, done, _, err := e.Step([]float64{0, 0}, true)
	assert.ErrorIs(t, err, ErrEpisodeDone)
	assert.True(t, done)

	// Reset starts a fresh episode.
	_, err = e.Reset()
	require.NoError(t, err)
	_, _, done, info, err := e.Step([]float64{0, 0}, true)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "20190104", info.Date)
}

func TestSimpleBuyAndHold(t *testing.T) {
	t.Parallel()
	e, err := NewSimple(envDataset(t), testOptions())
	require.NoError(t, err)
	_, err = e.Reset()
	require.NoError(t, err)

	// Bid the previous close on 0104: 10.4, inside [10.3, 10.8].
	// floor(100000/10.4) = 9615 shares, cash 4.0 left.
	obs, _, done, info, err := e.Step([]float64{0, 0}, false)
	require.NoError(t, err)
	assert.False(t, done)
	require.Len(t, info.Orders, 1)
	assert.Equal(t, market.Buy, info.Orders[0].Side)
	assert.Equal(t, int64(9615), info.Orders[0].Volume)
	assert.InDelta(t, 4.0, info.Cash, 1e-9)
	assert.InDelta(t, 9615*10.4+4.0, info.PortfolioValue, 1e-9)

	// The rolled window carries the position into the newest row.
	last := obs[0][len(obs[0])-1]
	assert.InDelta(t, info.PortfolioValue/100000-1, last[market.FeatureSize], 1e-9)
	assert.InDelta(t, 9615*10.4/info.PortfolioValue, last[market.FeatureSize+1], 1e-9)

	_, _, _, _, err = e.Step([]float64{0, 0}, true)
	require.NoError(t, err)
	_, _, done, info, err = e.Step([]float64{0, 0}, true)
	require.NoError(t, err)
	assert.True(t, done)
	assert.InDelta(t, 9615*10.45+4.0, info.PortfolioValue, 1e-9)
	assert.InDelta(t, 9615*10.45+4.0-100000, info.TotalPnl, 1e-9)
}

func TestSimpleActionLengthError(t *testing.T) {
	t.Parallel()
	e, err := NewSimple(envDataset(t), testOptions())
	require.NoError(t, err)
	_, err = e.Reset()
	require.NoError(t, err)

	_, _, _, _, err = e.Step([]float64{0}, false)
	assert.ErrorIs(t, err, market.ErrInvalidOrder)
}

func TestSimpleRewardSign(t *testing.T) {
	t.Parallel()
	e, err := NewSimple(envDataset(t), testOptions())
	require.NoError(t, err)
	_, err = e.Reset()
	require.NoError(t, err)

	// 0104: no position yet, nothing trades, flat day scores -1.
	_, reward, _, _, err := e.Step([]float64{0, 0}, true)
	require.NoError(t, err)
	assert.Equal(t, -1.0, reward)
}
