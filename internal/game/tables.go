package game

import "math/rand"

// Outcome is one weighted entry in a move table. The multiplier is a range,
// redrawn uniformly on every hit: two MOON outcomes in a row land different
// multipliers.
type Outcome struct {
	Label    string
	Chance   float64
	Min, Max float64
}

func (o Outcome) Roll(rng *rand.Rand) float64 {
	if o.Max == o.Min {
		return o.Min
	}
	return o.Min + rng.Float64()*(o.Max-o.Min)
}

const OutcomeRugPull = "rug_pull"

// TradeOutcomes is the significant-move table for open trades. The rug pull
// entry never comes out of the sampler: rugs are pre-decided at open and
// fired by the hidden delay instead.
var TradeOutcomes = []Outcome{
	{Label: OutcomeRugPull, Chance: 0.15, Min: -0.99, Max: -0.99},
	{Label: "heavy_dump", Chance: 0.10, Min: -0.8, Max: -0.6},
	{Label: "dump", Chance: 0.15, Min: -0.6, Max: -0.3},
	{Label: "small_move", Chance: 0.40, Min: -0.2, Max: 0.3},
	{Label: "pump", Chance: 0.12, Min: 0.5, Max: 2},
	{Label: "moon", Chance: 0.05, Min: 3, Max: 10},
	{Label: "super_moon", Chance: 0.01, Min: 10, Max: 50},
}

// pickOutcome walks the table accumulating probability mass and selects the
// first entry whose cumulative mass reaches the draw. Probabilities need not
// sum to 1; a draw landing past the total means no significant move.
func pickOutcome(draw float64, outcomes []Outcome, probMod float64, skip string) (Outcome, bool) {
	cumulative := 0.0
	for _, o := range outcomes {
		if o.Label == skip {
			continue
		}
		cumulative += o.Chance * probMod
		if draw <= cumulative {
			return o, true
		}
	}
	return Outcome{}, false
}

// SampleOutcome draws from the table, excluding the reserved rug entry.
func SampleOutcome(rng *rand.Rand, outcomes []Outcome, probMod float64) (Outcome, bool) {
	return pickOutcome(rng.Float64(), outcomes, probMod, OutcomeRugPull)
}

var moodWeights = []struct {
	Mood   Mood
	Weight float64
}{
	{MoodSmart, 0.31},
	{MoodFader, 0.25},
	{MoodFomo, 0.25},
	{MoodInsider, 0.15},
	{MoodGrass, 0.04},
}

func pickMood(draw float64) Mood {
	cumulative := 0.0
	for _, mw := range moodWeights {
		cumulative += mw.Weight
		if draw <= cumulative {
			return mw.Mood
		}
	}
	return moodWeights[len(moodWeights)-1].Mood
}

// RollMood samples the daily trading mood from the weighted table.
func RollMood(rng *rand.Rand) Mood {
	return pickMood(rng.Float64())
}
