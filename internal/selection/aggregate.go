package selection

import (
	"fmt"
	"sort"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// MaxPicks bounds the published list
const MaxPicks = 30

// Aggregate folds per-(scorer, timeframe) scores into one ranked score per symbol.
// The highest score wins per symbol, ties go to the longer timeframe and then to the
// first seen. The winner is relabeled "{primary} + {N}" when N other algorithms fired.
// Output is sorted by rating then score (stable over first appearance) and
// truncated to topN (MaxPicks when topN <= 0). Inputs are not mutated.
// ⭐ SSOT: 종목별 중복 제거 + 순위 결정은 여기서만
func Aggregate(scores []*contracts.Score, topN int) []contracts.Score {
	if topN <= 0 || topN > MaxPicks {
		topN = MaxPicks
	}

	type group struct {
		best       contracts.Score
		algorithms []string
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, sc := range scores {
		if sc == nil {
			continue
		}

		g, ok := groups[sc.Symbol]
		if !ok {
			g = &group{best: *sc}
			groups[sc.Symbol] = g
			order = append(order, sc.Symbol)
		} else if better(sc, &g.best) {
			g.best = *sc
		}

		if !containsString(g.algorithms, sc.Algorithm) {
			g.algorithms = append(g.algorithms, sc.Algorithm)
		}
	}

	out := make([]contracts.Score, 0, len(order))
	for _, symbol := range order {
		g := groups[symbol]
		kept := g.best
		kept.AllAlgorithms = nil
		if others := len(g.algorithms) - 1; others > 0 {
			kept.Algorithm = fmt.Sprintf("%s + %d", kept.Algorithm, others)
			kept.AllAlgorithms = append([]string(nil), g.algorithms...)
		}
		out = append(out, kept)
	}

	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i].Rating.Ordinal(), out[j].Rating.Ordinal()
		if oi != oj {
			return oi > oj
		}
		return out[i].Score > out[j].Score
	})

	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// better reports whether candidate replaces current within one symbol
func better(candidate, current *contracts.Score) bool {
	if candidate.Score != current.Score {
		return candidate.Score > current.Score
	}
	return candidate.Timeframe.Ordinal() > current.Timeframe.Ordinal()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
