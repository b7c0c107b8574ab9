package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/s2_signals"
	"github.com/wonny/aegis-quant/internal/testutil"
)

func TestEngineScore_Errors(t *testing.T) {
	engine := NewEngine(nil, nil)
	up := testutil.Uptrend("UPTR")
	short := testutil.Snapshot("SHRT", testutil.LinearHistory(50, 10, 20, 1e6, 1e6))

	tests := []struct {
		name      string
		snap      *contracts.StockSnapshot
		algorithm string
		tf        contracts.Timeframe
		want      error
	}{
		{"unknown algorithm", up, "magic", "", contracts.ErrUnknownAlgorithm},
		{"bad timeframe", up, "composite_rating", contracts.Timeframe24h, contracts.ErrUnknownTimeframe},
		{"no data", nil, "canslim", "", contracts.ErrNoData},
		{"short history", short, "canslim", "", contracts.ErrInsufficientHistory},
		{"filtered out", up, "penny_sniper", "", contracts.ErrNoScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Score(tt.snap, tt.algorithm, contracts.RegimeNeutral, tt.tf)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestEngineScore_Memoizes(t *testing.T) {
	engine := NewEngine(nil, nil)
	up := testutil.Uptrend("UPTR")

	first, err := engine.Score(up, "canslim", contracts.RegimeBull, "")
	require.NoError(t, err)
	second, err := engine.Score(up, "composite_rating", contracts.RegimeBull, contracts.Timeframe1m)
	require.NoError(t, err)

	assert.Equal(t, "canslim", first.Algorithm)
	assert.Equal(t, "composite_rating", second.Algorithm)

	hits, misses := engine.Aggregator().Stats()
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, hits)
}

func TestEngineScoreAll(t *testing.T) {
	engine := NewEngine(nil, nil)
	up := testutil.Uptrend("UPTR")

	scores := engine.ScoreAll(up, All(), contracts.RegimeBull)
	require.NotEmpty(t, scores)

	perAlgo := map[string]int{}
	for _, s := range scores {
		perAlgo[s.Algorithm]++
		assert.GreaterOrEqual(t, s.Score, 0.0)
		assert.LessOrEqual(t, s.Score, 100.0)
		assert.NotNil(t, s.Indicators)
	}
	assert.Equal(t, 1, perAlgo["canslim"], "self-selected timeframe is emitted once")
	assert.Equal(t, 3, perAlgo["technical_momentum"])
	assert.Equal(t, 1, perAlgo["composite_rating"])
	assert.Zero(t, perAlgo["penny_sniper"], "price 150 is outside the penny band")

	assert.Nil(t, engine.ScoreAll(testutil.Snapshot("S", testutil.LinearHistory(10, 1, 2, 1, 1)), All(), contracts.RegimeBull))
}

func TestEngineScore_CanSlimTimeframeMismatch(t *testing.T) {
	engine := NewEngine(nil, nil)
	up := testutil.Uptrend("UPTR")

	chosen, err := engine.Score(up, "canslim", contracts.RegimeBull, "")
	require.NoError(t, err)

	same, err := engine.Score(up, "canslim", contracts.RegimeBull, chosen.Timeframe)
	require.NoError(t, err)
	assert.Equal(t, chosen.Timeframe, same.Timeframe)

	for _, tf := range (CanSlim{}).Timeframes() {
		if tf == chosen.Timeframe {
			continue
		}
		_, err := engine.Score(up, "canslim", contracts.RegimeBull, tf)
		assert.True(t, errors.Is(err, contracts.ErrNoScore), "%s: got %v", tf, err)
	}
}

func TestEvaluateBundle_UsesGivenBundle(t *testing.T) {
	up := testutil.Uptrend("UPTR")
	bundle := s2_signals.Compute(up)
	require.NotNil(t, bundle)

	shared := EvaluateBundle(Composite{}, up, bundle, contracts.RegimeNeutral, "")
	fresh := Evaluate(Composite{}, up, contracts.RegimeNeutral, "")
	require.NotNil(t, shared)
	require.NotNil(t, fresh)
	assert.Equal(t, fresh.Score, shared.Score)

	assert.Nil(t, EvaluateBundle(Composite{}, up, nil, contracts.RegimeNeutral, ""), "nil bundle scores nothing")
}
