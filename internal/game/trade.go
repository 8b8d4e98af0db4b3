package game

import (
	"math"
	"math/rand"
	"time"
)

// ActiveTrade is the one optional open position. PnL is always derived from
// the price ratio, never set independently.
type ActiveTrade struct {
	Coin         string        `json:"coin"`
	EntryPrice   float64       `json:"entry_price"`
	CurrentPrice float64       `json:"current_price"`
	Size         float64       `json:"size"`
	OpenedAt     time.Time     `json:"opened_at"`
	PnL          float64       `json:"pnl"`
	IsRugPull    bool          `json:"-"`
	RugPullDelay time.Duration `json:"-"`
	ATH          float64       `json:"-"`
}

// NewTrade opens a position. The committed size is adjusted by the day's
// mood, the entry price is a fresh draw in (0, 0.01), and the rug fate is
// sealed here: 15% of trades are doomed with a hidden delay of 5-15 seconds.
func NewTrade(rng *rand.Rand, coin string, size float64, mood Mood, now time.Time) *ActiveTrade {
	entry := rng.Float64() * 0.01
	if entry <= 0 {
		entry = 1e-9
	}
	isRug := rng.Float64() < TradeRugChance
	var delay time.Duration
	if isRug {
		delay = time.Duration((5 + rng.Float64()*10) * float64(time.Second))
	}
	return &ActiveTrade{
		Coin:         coin,
		EntryPrice:   entry,
		CurrentPrice: entry,
		Size:         size * Profile(mood).SizeMult,
		OpenedAt:     now,
		IsRugPull:    isRug,
		RugPullDelay: delay,
	}
}

// reprice moves the position to a new price, applying the floor at 0.01% of
// entry and the optional ATH ceiling, then recomputes the clamped PnL.
func (t *ActiveTrade) reprice(newPrice float64) {
	floor := t.EntryPrice * 0.0001
	if newPrice < floor {
		newPrice = floor
	}
	if t.ATH > 0 && newPrice > t.ATH {
		newPrice = t.ATH
	}
	t.CurrentPrice = newPrice
	t.PnL = clampPnL(t.Size*(newPrice/t.EntryPrice-1), t.Size)
}

func clampPnL(pnl, size float64) float64 {
	maxGain := size * MaxGainMultiple
	maxLoss := -size * MaxLossFraction
	return math.Min(math.Max(pnl, maxLoss), maxGain)
}

// rug collapses the position to 1% of entry. The PnL lands exactly on the
// max-loss clamp.
func (t *ActiveTrade) rug() {
	t.CurrentPrice = t.EntryPrice * 0.01
	t.PnL = -t.Size * MaxLossFraction
}

// closeXP is the award for realizing a position: 10 base, plus a point per
// whole SOL of profit.
func closeXP(pnl float64) float64 {
	if pnl > 0 {
		return 10 + math.Floor(pnl)
	}
	return 10
}
