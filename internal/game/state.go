package game

import "math"

type Equipment struct {
	Computer int `json:"computer"`
	Internet int `json:"internet"`
	Desk     int `json:"desk"`
	Chair    int `json:"chair"`
}

type Followers struct {
	Count      int     `json:"count"`
	Multiplier float64 `json:"multiplier"`
	LastGrowth int     `json:"last_growth"`
}

type Referrals struct {
	Count      int `json:"count"`
	LastGrowth int `json:"last_growth"`
}

// PlayerState is the single mutable aggregate every subsystem reads and
// writes. The day cycle controller owns it; all mutation happens under the
// controller's lock.
type PlayerState struct {
	Sol                   float64   `json:"sol"`
	Day                   int       `json:"day"`
	TradingSkill          int       `json:"trading_skill"`
	XP                    float64   `json:"xp"`
	Health                float64   `json:"health"`
	Equipment             Equipment `json:"equipment"`
	DailyProfits          []float64 `json:"daily_profits"`
	TradingMood           Mood      `json:"trading_mood,omitempty"`
	GamblingMode          bool      `json:"gambling_mode"`
	CanGamble             bool      `json:"can_gamble"`
	Followers             Followers `json:"followers"`
	Referrals             Referrals `json:"referrals"`
	HasTwitter            bool      `json:"has_twitter"`
	TwitterUsername       string    `json:"twitter_username,omitempty"`
	CanCreateMemecoins    bool      `json:"can_create_memecoins"`
	Trendscope            bool      `json:"trendscope"`
	Bundler               bool      `json:"bundler"`
	TwitterGiveaway       bool      `json:"twitter_giveaway"`
	ReferralFarming       bool      `json:"referral_farming"`
	ReferralEarnings      float64   `json:"referral_earnings"`
	MemecoinLaunchesToday int       `json:"memecoin_launches_today"`
	CreatedMemecoinToday  bool      `json:"created_memecoin_today"`
	DayStartSol           float64   `json:"day_start_sol"`
	ActiveMemecoin        *Memecoin `json:"active_memecoin,omitempty"`
}

func NewPlayerState(startingSol float64) *PlayerState {
	return &PlayerState{
		Sol:          startingSol,
		Day:          1,
		TradingSkill: 1,
		Health:       StartingHealth,
		Equipment:    Equipment{Computer: 1, Internet: 1, Desk: 1, Chair: 1},
		DailyProfits: []float64{},
		Followers:    Followers{Multiplier: 1},
		DayStartSol:  startingSol,
	}
}

// GrantXP adds points and applies the level-up rule until the residual XP is
// below the next threshold. Returns the number of levels gained; a single
// award can produce several.
func (p *PlayerState) GrantXP(points float64) int {
	p.XP += points
	levels := 0
	for p.XP >= float64(p.TradingSkill*100) {
		p.XP -= float64(p.TradingSkill * 100)
		p.TradingSkill++
		levels++
	}
	return levels
}

// EquipmentTier is the floor of the mean of the four counters. It governs
// health decay and the upgrade cost ladder.
func (p *PlayerState) EquipmentTier() int {
	sum := p.Equipment.Computer + p.Equipment.Internet + p.Equipment.Desk + p.Equipment.Chair
	return sum / 4
}

// EquipmentUpgradeCost returns the cost of the next tier, or ok=false once
// the ladder tops out at tier 4.
func (p *PlayerState) EquipmentUpgradeCost() (float64, bool) {
	switch p.EquipmentTier() {
	case 1:
		return 12, true
	case 2:
		return 24, true
	case 3:
		return 50, true
	}
	return 0, false
}

// DailyLaunchLimit is how many memecoins can be launched per day.
func (p *PlayerState) DailyLaunchLimit() int {
	if p.TradingSkill >= 3 {
		return 2
	}
	return 1
}

// healthDecayPerTick returns the active-day decay applied every day tick.
// Better chairs halve it.
func (p *PlayerState) healthDecayPerTick() float64 {
	if p.Equipment.Chair == 1 {
		return 0.01
	}
	return 0.005
}

// Busted reports whether a fatal condition has been reached.
func (p *PlayerState) Busted() bool {
	return p.Sol <= 0 || p.Health <= 0
}

func clampHealth(h float64) float64 {
	return math.Min(StartingHealth, math.Max(0, h))
}

// PlayerTitle maps a trading skill level to its display rank.
func PlayerTitle(level int) string {
	titles := []string{
		"Exit Liquidity",
		"Jeeter",
		"Trencher",
		"Casual Caller",
		"Alpha Caller",
		"Tier 3 KOL",
		"Tier 2 KOL",
		"Elite KOL",
		"Exchange CEO",
	}
	if level < 1 {
		return titles[0]
	}
	if level > len(titles) {
		return titles[len(titles)-1]
	}
	return titles[level-1]
}

// clone returns a deep copy safe to hand to callers outside the lock.
func (p *PlayerState) clone() *PlayerState {
	cp := *p
	cp.DailyProfits = append([]float64(nil), p.DailyProfits...)
	if p.ActiveMemecoin != nil {
		coin := *p.ActiveMemecoin
		cp.ActiveMemecoin = &coin
	}
	return &cp
}
