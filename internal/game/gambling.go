package game

import "math/rand"

// GambleResult is one auto-gambling payout.
type GambleResult struct {
	Amount float64
	Won    bool
}

// RollGamble draws a payout from the mood's odds. FOMO mostly loses big,
// insiders mostly win big, everyone else coin-flips half a SOL.
func RollGamble(rng *rand.Rand, mood Mood) GambleResult {
	switch mood {
	case MoodFomo:
		if rng.Float64() < 0.8 {
			return GambleResult{Amount: -(rng.Float64()*2 + 1)}
		}
		return GambleResult{Amount: rng.Float64() * 0.5, Won: true}
	case MoodInsider:
		if rng.Float64() < 0.7 {
			return GambleResult{Amount: rng.Float64()*3 + 1, Won: true}
		}
		return GambleResult{Amount: -(rng.Float64() * 0.5)}
	default:
		amount := rng.Float64() - 0.5
		return GambleResult{Amount: amount, Won: amount > 0}
	}
}
