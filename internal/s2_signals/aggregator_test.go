package s2_signals

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/testutil"
)

func TestCompute_InsufficientHistory(t *testing.T) {
	snap := testutil.Snapshot("SHORT", testutil.LinearHistory(199, 10, 20, 1000, 1000))
	assert.Nil(t, Compute(snap))
	assert.Nil(t, Compute(nil))
}

func TestCompute_Uptrend(t *testing.T) {
	b := Compute(testutil.Uptrend("UP"))
	require.NotNil(t, b)

	assert.Equal(t, 100.0, b.RSI)
	assert.True(t, b.Stage2)
	assert.True(t, b.Breakout)
	assert.True(t, b.Institutional)
	assert.False(t, b.VCP)
	assert.Greater(t, b.SMA5, b.SMA20)
	assert.Greater(t, b.SMA50, b.SMA200)
	assert.Greater(t, b.RSRating, 80.0)
	assert.Less(t, b.VolumeZScore, 2.0)
	assert.Equal(t, contracts.VolatilityBull, b.Regime)
	assert.InDelta(t, 151.5, b.High52Week, 1e-9)
}

func TestCompute_Idempotent(t *testing.T) {
	snap := testutil.Uptrend("UP")

	first, err := json.Marshal(Compute(snap))
	require.NoError(t, err)
	second, err := json.Marshal(Compute(snap))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_StressRegime(t *testing.T) {
	closes := testutil.Linear(240, 100, 110)
	// violent swings over the last 20 bars
	for i := 220; i < 240; i++ {
		if i%2 == 0 {
			closes[i] = 120
		} else {
			closes[i] = 90
		}
	}
	b := Compute(testutil.Snapshot("VOL", testutil.FromCloses(closes, nil)))
	require.NotNil(t, b)
	assert.Equal(t, contracts.VolatilityStress, b.Regime)
}

func TestAggregator_Memoizes(t *testing.T) {
	agg := NewAggregator(nil)
	snap := testutil.Uptrend("UP")

	b1 := agg.Bundle(snap)
	b2 := agg.Bundle(snap)
	require.NotNil(t, b1)
	assert.Same(t, b1, b2)

	hits, misses := agg.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	// a truncated snapshot is a different fingerprint
	b3 := agg.Bundle(snap.AsOf(230))
	require.NotNil(t, b3)
	assert.NotSame(t, b1, b3)

	agg.Reset()
	hits, misses = agg.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)

	assert.Nil(t, agg.Bundle(snap.AsOf(100)))
}

func TestAggregator_KeysOnWholeHistory(t *testing.T) {
	up := testutil.Snapshot("SAME", testutil.FromCloses(testutil.Linear(250, 50, 100), nil))
	down := testutil.Snapshot("SAME", testutil.FromCloses(testutil.Linear(250, 150, 100), nil))
	// 마지막 봉과 52주 범위가 같아도 이력이 다르면 다른 키
	down.High52Week, down.Low52Week = up.High52Week, up.Low52Week
	down.History[len(down.History)-1].Open = up.History.Last().Open
	require.Equal(t, up.History.Last(), down.History.Last())

	agg := NewAggregator(nil)
	bUp := agg.Bundle(up)
	bDown := agg.Bundle(down)
	require.NotNil(t, bUp)
	require.NotNil(t, bDown)

	assert.NotSame(t, bUp, bDown)
	assert.Equal(t, Compute(down).SMA50, bDown.SMA50)
	assert.Less(t, bDown.SMA50, 106.0)
	assert.Greater(t, bDown.SMA50, bUp.SMA50)

	hits, misses := agg.Stats()
	assert.Zero(t, hits)
	assert.Equal(t, 2, misses)
}

func TestAggregator_CapacityClearsCache(t *testing.T) {
	agg := NewAggregator(nil)
	agg.capacity = 2
	snap := testutil.Uptrend("UP")

	agg.Bundle(snap.AsOf(210))
	agg.Bundle(snap.AsOf(211))
	assert.Equal(t, 2, agg.Len())

	agg.Bundle(snap.AsOf(212))
	assert.Equal(t, 1, agg.Len(), "full cache is cleared before insert")

	agg.Bundle(snap.AsOf(212))
	hits, misses := agg.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 3, misses)
}
