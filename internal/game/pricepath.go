package game

import (
	"math"
	"math/rand"
	"time"
)

// TradeTick is the result of advancing a trade one pricing interval.
type TradeTick struct {
	Rugged  bool
	Outcome string
}

// StepTrade evolves the trade price for one tick. elapsed is the time since
// the trade opened.
//
// Order of effects:
//  1. A pre-decided rug past its hidden delay collapses the price and wins
//     over everything else.
//  2. With probability 0.05*volMod the move comes from the outcome table
//     (rug excluded; its mass stays reserved).
//  3. Otherwise a drift of two slow sine components plus mood-scaled noise,
//     all scaled by 0.02*sqrt(skill).
func StepTrade(rng *rand.Rand, t *ActiveTrade, skill int, mood Mood, elapsed time.Duration) TradeTick {
	secs := elapsed.Seconds()
	profile := Profile(mood)

	if t.IsRugPull && elapsed > t.RugPullDelay {
		t.rug()
		return TradeTick{Rugged: true, Outcome: OutcomeRugPull}
	}

	var change float64
	var label string
	if rng.Float64() < 0.05*profile.VolMod {
		if o, ok := SampleOutcome(rng, TradeOutcomes, profile.ProbMod); ok {
			change = o.Roll(rng)
			label = o.Label
		}
	} else {
		baseVolatility := 0.02 * math.Sqrt(float64(skill))
		trend := math.Sin(secs*0.05) * 0.005
		noise := (rng.Float64() - 0.5) * 0.01 * profile.VolMod
		momentum := math.Sin(secs*0.02) * 0.008
		change = (trend + noise + momentum) * baseVolatility
	}

	t.reprice(t.CurrentPrice * (1 + change))
	return TradeTick{Outcome: label}
}
