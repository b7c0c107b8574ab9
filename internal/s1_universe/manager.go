package s1_universe

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// symbolPattern accepts exchange tickers like BRK-B or RDS.A
var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,5}([.-][A-Z])?$`)

// Config holds universe filter criteria
type Config struct {
	ExcludeSymbols []string `yaml:"exclude_symbols"` // never scanned
}

// Manager hands out the static candidate lists
// ⭐ SSOT: S1 → 스코어링 후보 종목
type Manager struct {
	config  Config
	exclude map[string]bool
	now     func() time.Time
}

// NewManager creates a Manager
func NewManager(config Config) *Manager {
	exclude := make(map[string]bool, len(config.ExcludeSymbols))
	for _, s := range config.ExcludeSymbols {
		exclude[strings.ToUpper(strings.TrimSpace(s))] = true
	}
	return &Manager{config: config, exclude: exclude, now: time.Now}
}

// Names returns every list name, sorted
func (m *Manager) Names() []string {
	names := make([]string, 0, len(lists))
	for name := range lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns one named list after hygiene filtering
func (m *Manager) List(name string) (*contracts.Universe, error) {
	symbols, ok := lists[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", contracts.ErrUnknownUniverse, name)
	}
	return m.build(name, symbols), nil
}

// ForAlgorithm returns the merged candidate set for an algorithm
func (m *Manager) ForAlgorithm(algorithm string) (*contracts.Universe, error) {
	names, ok := algorithmLists[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: no universe for %q", contracts.ErrUnknownAlgorithm, algorithm)
	}
	var symbols []string
	for _, n := range names {
		symbols = append(symbols, lists[n]...)
	}
	return m.build(algorithm, symbols), nil
}

// All returns the deduplicated union of every list, sorted
func (m *Manager) All() *contracts.Universe {
	var symbols []string
	for _, name := range m.Names() {
		symbols = append(symbols, lists[name]...)
	}
	u := m.build("all", symbols)
	sort.Strings(u.Stocks)
	return u
}

// build filters a raw list, keeping first-seen order
func (m *Manager) build(name string, raw []string) *contracts.Universe {
	u := &contracts.Universe{
		Name:     name,
		Date:     m.now().UTC().Truncate(24 * time.Hour),
		Stocks:   make([]string, 0, len(raw)),
		Excluded: make(map[string]string),
	}
	seen := make(map[string]bool, len(raw))

	for _, s := range raw {
		symbol := strings.ToUpper(strings.TrimSpace(s))
		if seen[symbol] {
			continue
		}
		seen[symbol] = true

		if reason := m.checkExclusion(symbol); reason != "" {
			u.Excluded[symbol] = reason
			continue
		}
		u.Stocks = append(u.Stocks, symbol)
	}

	u.TotalCount = len(u.Stocks)
	return u
}

// checkExclusion returns the reason a symbol is dropped, or ""
func (m *Manager) checkExclusion(symbol string) string {
	switch {
	case symbol == "":
		return "blank symbol"
	case !symbolPattern.MatchString(symbol):
		return "invalid symbol"
	case m.exclude[symbol]:
		return "excluded by config"
	}
	return ""
}
