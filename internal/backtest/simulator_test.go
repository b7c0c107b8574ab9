package backtest

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/scoring"
	"github.com/wonny/aegis-quant/internal/testutil"
)

const sentinel = 1e6

// probeScorer returns a fixed score and records what it was shown
type probeScorer struct {
	value float64

	mu      sync.Mutex
	lengths []int
	leaked  bool
}

func (p *probeScorer) Name() string                         { return "probe" }
func (p *probeScorer) DisplayName() string                  { return "Probe" }
func (p *probeScorer) Timeframes() []contracts.Timeframe    { return []contracts.Timeframe{contracts.Timeframe7d} }
func (p *probeScorer) Score(in scoring.Input) *contracts.Score {
	snap := in.Snapshot
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lengths = append(p.lengths, len(snap.History))
	if snap.High52Week >= sentinel || snap.Price != snap.History.Last().Close {
		p.leaked = true
	}
	for _, b := range snap.History {
		if b.Close >= sentinel {
			p.leaked = true
		}
	}
	return &contracts.Score{Symbol: snap.Symbol, Algorithm: p.Name(), Score: p.value, Rating: contracts.RatingBuy}
}

func linearSnapshot(symbol string, n int) *contracts.StockSnapshot {
	return testutil.Snapshot(symbol, testutil.LinearHistory(n, 100, float64(100+n-1), 1_000_000, 1_000_000))
}

func TestPositions(t *testing.T) {
	s := NewSimulator(Config{}, nil)

	pos := s.Positions(600)
	require.Len(t, pos, 50)
	assert.Equal(t, 96, pos[0])
	assert.Equal(t, 586, pos[len(pos)-1])

	short := s.Positions(100)
	assert.Equal(t, 0, short[0])
	assert.LessOrEqual(t, short[len(short)-1], 92)

	assert.Empty(t, s.Positions(7))
}

func TestRun_NeverShowsFutureBars(t *testing.T) {
	snap := linearSnapshot("SENT", 300)
	snap.History[299].Close = sentinel
	snap.History[299].High = sentinel
	snap.High52Week = sentinel

	probe := &probeScorer{value: 90}
	s := NewSimulator(Config{Workers: 1}, nil)

	results, err := s.Run(context.Background(), []*contracts.StockSnapshot{snap}, []scoring.Scorer{probe}, []float64{50})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.False(t, probe.leaked, "scorer saw a bar or quote field from after the replay position")

	sort.Ints(probe.lengths)
	assert.Equal(t, []int{201, 211, 221, 231, 241, 251, 261, 271, 281, 291}, probe.lengths)
	assert.Equal(t, 10, results[0].TotalTrades)
	assert.Less(t, results[0].AvgReturn, 10.0, "forward window stops before the sentinel bar")
}

func TestRun_ForwardReturnsAndThresholds(t *testing.T) {
	snap := linearSnapshot("LIN", 300)
	probe := &probeScorer{value: 65}
	s := NewSimulator(Config{Workers: 2}, nil)

	results, err := s.Run(context.Background(), []*contracts.StockSnapshot{snap}, []scoring.Scorer{probe}, []float64{50, 60, 70})
	require.NoError(t, err)
	require.Len(t, results, 3)

	var want []float64
	for i := 200; i <= 290; i += 10 {
		c := float64(100 + i)
		want = append(want, (c+7-c)/c*100)
	}
	expected := summarize(want)

	for _, r := range results[:2] {
		assert.Equal(t, "probe", r.Algorithm)
		assert.Equal(t, 10, r.TotalTrades)
		assert.Equal(t, 1.0, r.WinRate)
		assert.InDelta(t, expected.Mean, r.AvgReturn, 1e-9)
		assert.InDelta(t, expected.Sharpe, r.SharpeRatio, 1e-9)
	}
	assert.Equal(t, 50.0, results[0].Threshold)
	assert.Equal(t, 60.0, results[1].Threshold)

	assert.Equal(t, 70.0, results[2].Threshold)
	assert.Zero(t, results[2].TotalTrades)
	assert.Zero(t, results[2].SharpeRatio)
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	histories := []*contracts.StockSnapshot{
		testutil.Uptrend("UP"),
		testutil.Downtrend("DOWN"),
		linearSnapshot("LIN", 400),
		nil,
	}
	scorers := scoring.All()

	one, err := NewSimulator(Config{Workers: 1}, nil).Run(context.Background(), histories, scorers, DefaultThresholds)
	require.NoError(t, err)
	many, err := NewSimulator(Config{Workers: 8}, nil).Run(context.Background(), histories, scorers, DefaultThresholds)
	require.NoError(t, err)

	require.Len(t, one, len(scorers)*len(DefaultThresholds))
	assert.Equal(t, one, many)

	assert.Equal(t, scorers[0].Name(), one[0].Algorithm)
	assert.Equal(t, DefaultThresholds[1], one[1].Threshold)
}

func TestRun_Errors(t *testing.T) {
	s := NewSimulator(Config{}, nil)

	_, err := s.Run(context.Background(), nil, nil, nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Run(ctx, []*contracts.StockSnapshot{linearSnapshot("X", 300)}, []scoring.Scorer{&probeScorer{}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	stats := summarize([]float64{2, -1, 3, 0})

	assert.Equal(t, 4, stats.Trades)
	assert.Equal(t, 0.5, stats.WinRate)
	assert.InDelta(t, 1.0, stats.Mean, 1e-12)
	assert.InDelta(t, 1.5811388, stats.StdDev, 1e-6)
	assert.InDelta(t, 1.0/1.5811388, stats.Sharpe, 1e-6)

	flat := summarize([]float64{1, 1})
	assert.Zero(t, flat.Sharpe)

	empty := summarize(nil)
	assert.Zero(t, empty.Trades)
	assert.Zero(t, empty.WinRate)
}
