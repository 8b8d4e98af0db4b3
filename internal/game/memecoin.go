package game

import (
	"math"
	"math/rand"
	"time"
)

// Memecoin is the one optional token launched by the player. Its price walks
// a four-phase arc toward an ATH fixed at launch from the follower count.
type Memecoin struct {
	Name       string    `json:"name"`
	Trend      Trend     `json:"trend"`
	Liquidity  float64   `json:"liquidity"`
	IsRugPull  bool      `json:"is_rug_pull"`
	LaunchedAt time.Time `json:"launched_at"`
	Price      float64   `json:"price"`
	Holders    int       `json:"holders"`
	ATH        float64   `json:"ath"`
	Phase      CoinPhase `json:"phase"`
}

// MemecoinConfig is the launch request from the player.
type MemecoinConfig struct {
	Name             string  `json:"name"`
	Trend            Trend   `json:"trend"`
	InitialLiquidity float64 `json:"initial_liquidity"`
	IsRugPull        bool    `json:"is_rug_pull"`
}

// NewMemecoin builds a freshly launched token. The ATH ceiling is 10x the
// launch price plus 1x per thousand followers, capped at +40x.
func NewMemecoin(cfg MemecoinConfig, followerCount int, now time.Time) *Memecoin {
	bonus := followerCount / 1000
	if bonus > 40 {
		bonus = 40
	}
	return &Memecoin{
		Name:       cfg.Name,
		Trend:      cfg.Trend,
		Liquidity:  cfg.InitialLiquidity,
		IsRugPull:  cfg.IsRugPull,
		LaunchedAt: now,
		Price:      InitialCoinPrice,
		Holders:    1,
		ATH:        InitialCoinPrice * float64(10+bonus),
		Phase:      CoinLaunch,
	}
}

// StepMemecoin advances the coin one tick. elapsed is time since launch.
// A planned rug past rugAfter collapses price and holders and overrides the
// phase engine; otherwise movement and phase transitions follow the arc:
//
//	launch:       follower-fed climb, to pump at 50% of ATH or after 300s
//	pump:         strength min(1, f/5000) times distance-to-ATH, to
//	              distribution at 90% of ATH
//	distribution: small noise damped by follower depth, 10%/tick to decline
//	decline:      monotonic bleed, terminal
//
// Returns true the tick the rug fires.
func StepMemecoin(rng *rand.Rand, c *Memecoin, followerCount int, elapsed, rugAfter time.Duration) bool {
	if c.IsRugPull && elapsed > rugAfter {
		c.Price = math.Max(c.Price*0.01, InitialCoinPrice)
		c.Holders -= int(math.Floor(float64(c.Holders) * 0.9))
		if c.Holders < 0 {
			c.Holders = 0
		}
		return true
	}

	f := float64(followerCount)
	var movement float64
	switch c.Phase {
	case CoinLaunch:
		if elapsed < rugAfter {
			movement = rng.Float64() * 0.2 * (f / 1000)
			if c.Price >= c.ATH*0.5 {
				c.Phase = CoinPump
			}
		} else {
			c.Phase = CoinPump
		}
	case CoinPump:
		distanceToATH := (c.ATH - c.Price) / c.ATH
		strength := math.Min(1, f/5000)
		movement = (rng.Float64()*0.15 - 0.05) * strength * distanceToATH
		if c.Price >= c.ATH*0.9 {
			c.Phase = CoinDistribution
		}
	case CoinDistribution:
		movement = (rng.Float64()*0.1 - 0.05) * (1 - f/10000)
		if rng.Float64() < 0.1 {
			c.Phase = CoinDecline
		}
	case CoinDecline:
		movement = -(rng.Float64() * 0.1) * (1 - f/20000)
	}

	c.Price = math.Max(InitialCoinPrice, math.Min(c.ATH, c.Price*(1+movement)))

	// Holders chase price asymmetrically: growth outruns decay, and a thin
	// follower base bleeds one holder a tick.
	var holderChange int
	switch {
	case followerCount < 500:
		holderChange = -1
	case movement > 0:
		holderChange = int(math.Floor(math.Min(100, f/10) * movement))
	default:
		holderChange = int(math.Floor(math.Max(-10, f/20*movement)))
	}
	c.Holders += holderChange
	if c.Holders < 1 {
		c.Holders = 1
	}
	return false
}

// RugProfit is the payout for executing a planned rug: 90% of the pooled
// liquidity walks away with the dev.
func (c *Memecoin) RugProfit() float64 {
	return c.Liquidity * 0.9
}

// SettleProfit is the end-of-day settlement for a still-live coin. The
// formula treats the price as relative to unit cost, not the live 2e-8
// scale; the mismatch is long-standing observed behavior and is kept as is.
func (c *Memecoin) SettleProfit() float64 {
	return (c.Price - 1) * c.Liquidity
}
