package game

import (
	"math"
	"math/rand"
	"time"
)

// SimConfig fully describes a deterministic day simulation.
type SimConfig struct {
	Seed    int64
	Skill   int
	Mood    Mood
	Tuning  Tuning
	Equip   Equipment
	Twitter bool
	Day     int

	// TradeSize > 0 opens a trade on the first tick.
	TradeSize float64

	// Coin, if set, is live from the first tick.
	Coin *MemecoinConfig

	Followers int
	Referrals bool
	Gambling  bool
}

// SimResult summarizes one scripted day.
type SimResult struct {
	Ticks        int
	FinalSol     float64
	FinalHealth  float64
	DailyProfit  float64
	TradePnL     float64
	MinTradePx   float64
	MaxTradePnL  float64
	MinTradePnL  float64
	CoinProfit   float64
	MinCoinPx    float64
	MaxCoinPx    float64
	CoinPhases   []CoinPhase
	TradeRugged  bool
	CoinRugged   bool
	GamblingNet  float64
	ReferralGain float64
	Busted       bool
}

// RunDay executes one full day without goroutines, channels, or wall-clock
// reads. Time is discrete day ticks; the slower effects fire whenever a whole
// multiple of their interval has elapsed.
//
// Processing order per tick: trade step, coin step, gambling, referrals,
// health decay, bust check. Settlement runs once the day's tick count is
// spent.
func RunDay(cfg SimConfig) SimResult {
	tune := cfg.Tuning
	if tune.DayDuration == 0 {
		tune = DefaultTuning()
	}
	if tune.StartingSol <= 0 {
		tune.StartingSol = StartingSol
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	state := NewPlayerState(tune.StartingSol)
	state.TradingSkill = max(1, cfg.Skill)
	state.TradingMood = cfg.Mood
	state.HasTwitter = cfg.Twitter
	state.ReferralFarming = cfg.Referrals
	state.GamblingMode = cfg.Gambling
	state.CanGamble = cfg.Gambling
	state.Followers.Count = cfg.Followers
	state.Followers.Multiplier = 1
	if cfg.Day > 0 {
		state.Day = cfg.Day
	}
	if cfg.Equip != (Equipment{}) {
		state.Equipment = cfg.Equip
	}
	state.DayStartSol = state.Sol

	var trade *ActiveTrade
	if cfg.TradeSize > 0 {
		trade = NewTrade(rng, "SIM", cfg.TradeSize, cfg.Mood, time.Time{})
	}
	var coin *Memecoin
	if cfg.Coin != nil {
		coin = NewMemecoin(*cfg.Coin, cfg.Followers, time.Time{})
	}

	res := SimResult{
		MinTradePx: math.Inf(1),
		MinCoinPx:  math.Inf(1),
	}
	totalTicks := int(tune.DayDuration / tune.DayTickEvery)
	everyCoin := ticksPer(tune.CoinTickEvery, tune.DayTickEvery)
	everyGamble := ticksPer(tune.GamblingTickEvery, tune.DayTickEvery)
	everyReferral := ticksPer(tune.ReferralTickEvery, tune.DayTickEvery)

	for tick := 1; tick <= totalTicks; tick++ {
		elapsed := time.Duration(tick) * tune.DayTickEvery
		res.Ticks = tick

		if trade != nil {
			step := StepTrade(rng, trade, state.TradingSkill, state.TradingMood, elapsed)
			res.MinTradePx = math.Min(res.MinTradePx, trade.CurrentPrice)
			res.MaxTradePnL = math.Max(res.MaxTradePnL, trade.PnL)
			res.MinTradePnL = math.Min(res.MinTradePnL, trade.PnL)
			if step.Rugged {
				res.TradeRugged = true
			}
		}

		if coin != nil && tick%everyCoin == 0 {
			rugged := StepMemecoin(rng, coin, state.Followers.Count, elapsed, tune.CoinRugAfter)
			res.MinCoinPx = math.Min(res.MinCoinPx, coin.Price)
			res.MaxCoinPx = math.Max(res.MaxCoinPx, coin.Price)
			if rugged {
				res.CoinRugged = true
			}
			if n := len(res.CoinPhases); n == 0 || res.CoinPhases[n-1] != coin.Phase {
				res.CoinPhases = append(res.CoinPhases, coin.Phase)
			}
		}

		if state.GamblingMode && tick%everyGamble == 0 {
			roll := RollGamble(rng, state.TradingMood)
			state.Sol = math.Max(0, state.Sol+roll.Amount)
			res.GamblingNet += roll.Amount
			state.GrantXP(1)
			state.Health = math.Max(0, state.Health-1)
		}

		if state.ReferralFarming && tick%everyReferral == 0 {
			rt := StepReferrals(rng, state.Followers.Count, state.Followers.Multiplier, tune.DayDuration, tune.ReferralTickEvery)
			state.Followers.Count += rt.NewReferrals
			state.Sol += rt.Earnings
			res.ReferralGain += rt.Earnings
		}

		state.Health = math.Max(0, state.Health-state.healthDecayPerTick())
		if state.Sol <= 0 || state.Health <= 0 {
			res.Busted = true
			break
		}
	}

	additional := 0.0
	if trade != nil {
		res.TradePnL = trade.PnL
		additional += trade.PnL
	}
	if coin != nil {
		res.CoinProfit = coin.SettleProfit()
		additional += res.CoinProfit
	}
	state.Sol += additional
	res.DailyProfit = state.Sol - state.DayStartSol
	res.FinalSol = state.Sol
	res.FinalHealth = state.Health
	if state.Sol <= 0 {
		res.Busted = true
	}
	return res
}

func ticksPer(interval, tickEvery time.Duration) int {
	n := int(interval / tickEvery)
	if n < 1 {
		return 1
	}
	return n
}
