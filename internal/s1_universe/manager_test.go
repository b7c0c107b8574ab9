package s1_universe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-quant/internal/contracts"
)

func TestManager_Names(t *testing.T) {
	m := NewManager(Config{})
	assert.Equal(t, []string{"crypto_exposed", "growth", "micro_cap", "reits", "sector_etfs", "value"}, m.Names())
}

func TestManager_List(t *testing.T) {
	m := NewManager(Config{})

	u, err := m.List(ListREITs)
	require.NoError(t, err)
	assert.Equal(t, ListREITs, u.Name)
	assert.True(t, u.Contains("PLD"))
	assert.Equal(t, u.Count(), u.TotalCount)
	assert.Empty(t, u.Excluded)

	_, err = m.List("bonds")
	assert.True(t, errors.Is(err, contracts.ErrUnknownUniverse))
}

func TestManager_ForAlgorithm(t *testing.T) {
	m := NewManager(Config{ExcludeSymbols: []string{" tsla "}})

	for algo := range algorithmLists {
		u, err := m.ForAlgorithm(algo)
		require.NoError(t, err, algo)
		assert.NotEmpty(t, u.Stocks, algo)
	}

	u, err := m.ForAlgorithm("alpha_predator")
	require.NoError(t, err)
	excluded, reason := u.IsExcluded("TSLA")
	assert.True(t, excluded)
	assert.Equal(t, "excluded by config", reason)
	assert.False(t, u.Contains("TSLA"))

	momentum, err := m.ForAlgorithm("technical_momentum")
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, s := range momentum.Stocks {
		assert.False(t, seen[s], "duplicate %s", s)
		seen[s] = true
	}

	_, err = m.ForAlgorithm("astrology")
	assert.True(t, errors.Is(err, contracts.ErrUnknownAlgorithm))
}

func TestManager_AllIsSortedAndUnique(t *testing.T) {
	u := NewManager(Config{}).All()

	seen := map[string]bool{}
	for i, s := range u.Stocks {
		assert.False(t, seen[s], "duplicate %s", s)
		seen[s] = true
		if i > 0 {
			assert.Less(t, u.Stocks[i-1], s)
		}
	}
	// RIOT is in micro_cap and crypto_exposed
	assert.True(t, u.Contains("RIOT"))
}

func TestManager_Build_Hygiene(t *testing.T) {
	m := NewManager(Config{ExcludeSymbols: []string{"GME"}})
	u := m.build("custom", []string{"aapl", "AAPL", " ", "brk-b", "TOO-LONG-SYMBOL", "GME"})

	assert.Equal(t, []string{"AAPL", "BRK-B"}, u.Stocks)
	assert.Equal(t, "blank symbol", u.Excluded[""])
	assert.Equal(t, "invalid symbol", u.Excluded["TOO-LONG-SYMBOL"])
	assert.Equal(t, "excluded by config", u.Excluded["GME"])
	assert.Equal(t, 2, u.TotalCount)
}

func TestDiff(t *testing.T) {
	prev := &contracts.Universe{Name: "growth", Stocks: []string{"AAPL", "MSFT", "SNOW"}}
	cur := &contracts.Universe{Name: "growth", Stocks: []string{"AAPL", "NVDA", "MSFT", "PLTR"}}

	added, removed := Diff(prev, cur)
	assert.Equal(t, []string{"NVDA", "PLTR"}, added)
	assert.Equal(t, []string{"SNOW"}, removed)

	added, removed = Diff(cur, cur)
	assert.Empty(t, added)
	assert.Empty(t, removed)
}
