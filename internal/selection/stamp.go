package selection

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/indicators"
)

// DefaultSlippageBps is the simulated entry slippage (0.5%)
const DefaultSlippageBps = 50

// Stamp turns ranked scores into picks with a shared timestamp, a simulated
// entry price and a content hash
func Stamp(scores []contracts.Score, now time.Time, slippageBps float64) []contracts.Pick {
	now = now.UTC()
	slippage := slippageBps / 10_000

	picks := make([]contracts.Pick, len(scores))
	for i, sc := range scores {
		picks[i] = contracts.Pick{
			Score:               sc,
			PickedAt:            now,
			SlippageSimulated:   slippage,
			SimulatedEntryPrice: indicators.Round2(sc.Price * (1 + slippage)),
			PickHash:            PickHash(sc, now),
		}
	}
	return picks
}

// PickHash is sha256(symbol|score|algorithm|rating|timestamp) in hex
func PickHash(sc contracts.Score, at time.Time) string {
	payload := fmt.Sprintf("%s|%.2f|%s|%s|%s",
		sc.Symbol, sc.Score, sc.Algorithm, sc.Rating, at.UTC().Format(time.RFC3339Nano))
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
