package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Game is the day cycle controller. It owns the player aggregate, the one
// optional trade, and the per-day goroutines driving the periodic effects.
// A single mutex guards everything, including the rng; the effects re-check
// their gates under the lock on every firing because the phase may have
// moved between ticks.
type Game struct {
	mu   sync.Mutex
	cfg  Tuning
	log  *slog.Logger
	rng  *rand.Rand
	feed *Feed

	phase       Phase
	state       *PlayerState
	trade       *ActiveTrade
	dayStarted  time.Time
	dayProgress float64
	cancelDay   context.CancelFunc
}

func New(cfg Tuning, log *slog.Logger, feed *Feed, seed int64) *Game {
	return &Game{
		cfg:   cfg,
		log:   log,
		rng:   rand.New(rand.NewSource(seed)),
		feed:  feed,
		phase: PhaseLobby,
	}
}

// Events exposes the console feed for the API layer.
func (g *Game) Events() *Feed { return g.feed }

// Snapshot is the full client-visible view of the session.
type Snapshot struct {
	Phase       Phase        `json:"phase"`
	DayProgress float64      `json:"day_progress"`
	Title       string       `json:"title"`
	Player      *PlayerState `json:"player,omitempty"`
	Trade       *ActiveTrade `json:"trade,omitempty"`
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	snap := Snapshot{Phase: g.phase, DayProgress: g.dayProgress}
	if g.state != nil {
		snap.Player = g.state.clone()
		snap.Title = PlayerTitle(g.state.TradingSkill)
	}
	if g.trade != nil {
		t := *g.trade
		snap.Trade = &t
	}
	return snap
}

// Start resets everything and enters mood selection. It is the only action
// allowed after a game over.
func (g *Game) Start() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopDayLocked()
	g.state = NewPlayerState(g.cfg.StartingSol)
	g.trade = nil
	g.dayProgress = 0
	g.phase = PhaseMoodSelect

	g.feed.Publish(EventInfo, "Welcome to the trenches. Pick your mood for day 1.")
	g.log.Info("game started", "starting_sol", g.cfg.StartingSol)
	return g.snapshotLocked()
}

// SelectMood records the day's stance and starts the day clock. Passing the
// unset mood draws one from the weighted table instead.
func (g *Game) SelectMood(mood Mood) (Mood, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardLocked(PhaseMoodSelect); err != nil {
		return MoodNone, err
	}
	if mood == MoodNone {
		mood = RollMood(g.rng)
	}

	g.state.TradingMood = mood
	g.state.DayStartSol = g.state.Sol
	g.feed.Publish(EventMeme, pickPhrase(g.rng, memePhrases))
	g.feed.Publish(EventInfo, fmt.Sprintf("Mood selected: %s", mood))
	g.log.Info("day started", "day", g.state.Day, "mood", string(mood))

	g.beginDayLocked()
	return mood, nil
}

// OpenTrade opens the single position. The raw size must fit the balance;
// the mood multiplier is applied on top of it.
func (g *Game) OpenTrade(coin string, size float64) (*ActiveTrade, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardLocked(PhaseActive); err != nil {
		return nil, err
	}
	if g.trade != nil {
		return nil, ErrTradeOpen
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: trade size must be positive", ErrInvalidInput)
	}
	if size > g.state.Sol {
		return nil, ErrInsufficientFunds
	}
	if coin == "" {
		coin = RandomTicker(g.rng)
	}

	g.trade = NewTrade(g.rng, coin, size, g.state.TradingMood, time.Now())
	g.feed.Publish(EventInfo, fmt.Sprintf("Opening trade: %s with %.2f SOL", coin, size))
	t := *g.trade
	return &t, nil
}

// CloseTrade realizes the open position.
func (g *Game) CloseTrade() (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardLocked(PhaseActive); err != nil {
		return 0, err
	}
	if g.trade == nil {
		return 0, ErrNoTrade
	}
	return g.closeTradeLocked(), nil
}

// closeTradeLocked realizes pnl into the balance and daily profits, awards
// XP, and clears the trade. Used by the explicit close and the rug expiry;
// day-end settlement folds pnl directly instead.
func (g *Game) closeTradeLocked() float64 {
	pnl := g.trade.PnL
	g.state.Sol += pnl
	g.state.DailyProfits = append(g.state.DailyProfits, pnl)
	levels := g.state.GrantXP(closeXP(pnl))

	if pnl > 0 {
		g.feed.Publish(EventSuccess, pickPhrase(g.rng, winMessages))
	} else {
		g.feed.Publish(EventError, pickPhrase(g.rng, lossMessages))
	}
	g.feed.Publish(EventPnL, fmt.Sprintf("Closed %s: %+.2f SOL", g.trade.Coin, pnl))
	if levels > 0 {
		g.feed.Publish(EventSuccess, pickPhrase(g.rng, levelUpMessages))
	}
	g.log.Info("trade closed", "coin", g.trade.Coin, "pnl", pnl, "skill", g.state.TradingSkill)
	g.trade = nil

	if g.state.Sol <= 0 {
		g.gameOverLocked("balance hit zero")
	}
	return pnl
}

// LaunchMemecoin deducts the dev buy and puts the coin live.
func (g *Game) LaunchMemecoin(cfg MemecoinConfig) (*Memecoin, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardLocked(PhaseActive); err != nil {
		return nil, err
	}
	if !g.state.CanCreateMemecoins {
		return nil, ErrFeatureLocked
	}
	if g.state.ActiveMemecoin != nil {
		return nil, ErrCoinActive
	}
	if g.state.CreatedMemecoinToday || g.state.MemecoinLaunchesToday >= g.state.DailyLaunchLimit() {
		return nil, ErrLaunchLimit
	}
	if cfg.InitialLiquidity <= 0 || cfg.InitialLiquidity > MaxCoinLiquidity {
		return nil, fmt.Errorf("%w: liquidity must be in (0, %.2f]", ErrInvalidInput, MaxCoinLiquidity)
	}
	if g.state.Sol < cfg.InitialLiquidity {
		return nil, ErrInsufficientFunds
	}
	if cfg.Name == "" {
		cfg.Name = RandomTicker(g.rng)
	}
	if _, err := ParseTrend(string(cfg.Trend)); err != nil {
		return nil, err
	}

	coin := NewMemecoin(cfg, g.state.Followers.Count, time.Now())
	g.state.Sol -= cfg.InitialLiquidity
	g.state.ActiveMemecoin = coin
	g.state.MemecoinLaunchesToday++

	g.feed.Publish(EventSuccess, fmt.Sprintf("🚀 Launched %s!", coin.Name))
	g.feed.Publish(EventInfo, fmt.Sprintf("💎 Target ATH: %.8f", coin.ATH))
	g.log.Info("memecoin launched", "name", coin.Name, "liquidity", coin.Liquidity, "ath", coin.ATH)
	c := *coin
	return &c, nil
}

// RugMemecoin executes a planned rug: the dev walks with 90% of the
// liquidity and the coin is gone. The launch flag stays set for the day, so
// no second coin can go out after a rug even with a slot left.
func (g *Game) RugMemecoin() (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardLocked(PhaseActive); err != nil {
		return 0, err
	}
	coin := g.state.ActiveMemecoin
	if coin == nil {
		return 0, ErrNoMemecoin
	}
	if !coin.IsRugPull {
		return 0, ErrNotRuggable
	}

	profit := coin.RugProfit()
	g.state.Sol += profit
	g.state.ActiveMemecoin = nil
	g.state.CreatedMemecoinToday = true

	g.feed.Publish(EventRugPull, "RUGGED! Thanks for the liquidity ser! 🏃")
	g.feed.Publish(EventPnL, fmt.Sprintf("Rug pull on %s: %+.2f SOL", coin.Name, profit))
	g.log.Info("memecoin rugged", "name", coin.Name, "profit", profit)
	return profit, nil
}

// ToggleGambling flips auto-gambling. The mode survives across phases; the
// payouts only fire while a day is active.
func (g *Game) ToggleGambling() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardStartedLocked(); err != nil {
		return false, err
	}
	if !g.state.CanGamble {
		return false, ErrFeatureLocked
	}
	g.state.GamblingMode = !g.state.GamblingMode
	mode := "OFF"
	if g.state.GamblingMode {
		mode = "ON"
	}
	g.feed.Publish(EventInfo, "Auto Gambling Mode turned "+mode)
	return g.state.GamblingMode, nil
}

// Purchase buys a one-time unlock. Username is only meaningful for the
// twitter upgrade.
func (g *Game) Purchase(kind UpgradeKind, username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardStartedLocked(); err != nil {
		return err
	}
	p := g.state

	switch kind {
	case UpgradeGambling:
		if p.CanGamble {
			return ErrAlreadyOwned
		}
		if p.TradingSkill < GamblingUnlockLevel {
			return ErrFeatureLocked
		}
		if p.Sol < GamblingUnlockCost {
			return ErrInsufficientFunds
		}
		p.Sol -= GamblingUnlockCost
		p.CanGamble = true
		g.feed.Publish(EventSuccess, "Auto Gambling Mode unlocked! Use with caution... 🎲")

	case UpgradeEquipment:
		cost, ok := p.EquipmentUpgradeCost()
		if !ok {
			return fmt.Errorf("%w: equipment fully upgraded", ErrAlreadyOwned)
		}
		if p.Sol < cost {
			return ErrInsufficientFunds
		}
		p.Sol -= cost
		p.Equipment.Computer++
		p.Equipment.Internet++
		p.Equipment.Desk++
		p.Equipment.Chair++
		g.feed.Publish(EventSuccess, fmt.Sprintf("Equipment upgraded! Cost: %.2f SOL", cost))

	case UpgradeTwitter:
		if p.HasTwitter {
			return ErrAlreadyOwned
		}
		if strings.TrimSpace(username) == "" {
			return fmt.Errorf("%w: twitter username required", ErrInvalidInput)
		}
		p.HasTwitter = true
		p.TwitterUsername = strings.TrimPrefix(strings.TrimSpace(username), "@")
		p.Followers = Followers{Multiplier: 1}
		g.feed.Publish(EventSuccess, "Twitter account created! Start building your social presence! 🐦")

	case UpgradeTrendscope:
		if p.Trendscope {
			return ErrAlreadyOwned
		}
		if !p.CanCreateMemecoins {
			return ErrFeatureLocked
		}
		if p.Sol < TrendscopeCost {
			return ErrInsufficientFunds
		}
		p.Sol -= TrendscopeCost
		p.Trendscope = true
		g.feed.Publish(EventSuccess, "Purchased Trendscope! Enhanced memecoin analysis unlocked.")

	case UpgradeTwitterGiveaway:
		if p.TwitterGiveaway {
			return ErrAlreadyOwned
		}
		if p.Day < TwitterGiveawayDay {
			return ErrFeatureLocked
		}
		if p.Sol < TwitterGiveawayCost {
			return ErrInsufficientFunds
		}
		p.Sol -= TwitterGiveawayCost
		p.TwitterGiveaway = true
		p.Followers.Count += 200
		g.feed.Publish(EventSuccess, "Giveaway live! 200 new followers rush in.")

	case UpgradeBundler:
		if p.Bundler {
			return ErrAlreadyOwned
		}
		if p.Day < BundlerDay {
			return ErrFeatureLocked
		}
		if p.Sol < BundlerCost {
			return ErrInsufficientFunds
		}
		p.Sol -= BundlerCost
		p.Bundler = true
		g.feed.Publish(EventSuccess, "Bundler acquired. Launches will look very organic.")

	case UpgradeReferralFarming:
		if p.ReferralFarming {
			return ErrAlreadyOwned
		}
		if p.TradingSkill < ReferralUnlockLevel {
			return ErrFeatureLocked
		}
		p.ReferralFarming = true
		g.feed.Publish(EventSuccess, "Referral farming enabled. Passive SOL incoming.")

	case UpgradeMemecoinLearn:
		if p.CanCreateMemecoins {
			return ErrAlreadyOwned
		}
		if p.Sol < MemecoinLearnCost {
			return ErrInsufficientFunds
		}
		p.Sol -= MemecoinLearnCost
		p.CanCreateMemecoins = true
		g.feed.Publish(EventSuccess, "Learned how to launch memecoins! You can now create your own tokens. 🚀")

	default:
		return fmt.Errorf("%w: unknown upgrade %q", ErrInvalidInput, kind)
	}

	g.log.Info("upgrade purchased", "kind", string(kind), "sol", p.Sol)
	return nil
}

// Sleep moves from the recap into the night.
func (g *Game) Sleep() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardLocked(PhaseRecap); err != nil {
		return err
	}
	g.phase = PhaseSleeping
	g.feed.Publish(EventInfo, "Lights out. The charts never sleep, but you do.")
	return nil
}

// WakeUp rolls the session into the next day: health back, mood cleared,
// launch counters reset, and a full day of referral earnings paid as one
// lump. The day-start snapshot is taken before the lump lands.
func (g *Game) WakeUp() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardLocked(PhaseSleeping); err != nil {
		return err
	}
	p := g.state
	p.Day++
	p.Health = clampHealth(p.Health + SleepHealthRestore)
	p.TradingMood = MoodNone
	p.CreatedMemecoinToday = false
	p.MemecoinLaunchesToday = 0
	p.DayStartSol = p.Sol
	p.Followers.LastGrowth = p.Followers.Count

	if p.ReferralFarming {
		lump := referralLump(p.Followers.Count)
		p.Sol += lump
		p.ReferralEarnings += lump
		if lump > 0 {
			g.feed.Publish(EventSuccess, fmt.Sprintf("Overnight referral earnings: %+.2f SOL", lump))
		}
	}

	g.dayProgress = 0
	g.phase = PhaseMoodSelect
	g.feed.Publish(EventInfo, fmt.Sprintf("Day %d. Pick your mood.", p.Day))
	g.log.Info("new day", "day", p.Day, "sol", p.Sol)
	return nil
}

// guardLocked rejects actions from the wrong phase or a dead session.
func (g *Game) guardLocked(want Phase) error {
	if err := g.guardStartedLocked(); err != nil {
		return err
	}
	if g.phase != want {
		return fmt.Errorf("%w: in %s", ErrWrongPhase, g.phase)
	}
	return nil
}

func (g *Game) guardStartedLocked() error {
	if g.phase == PhaseGameOver {
		return ErrGameOver
	}
	if g.state == nil {
		return fmt.Errorf("%w: game not started", ErrWrongPhase)
	}
	return nil
}

// beginDayLocked enters the active phase and spawns the periodic effects
// under a fresh per-day context.
func (g *Game) beginDayLocked() {
	g.phase = PhaseActive
	g.dayStarted = time.Now()
	g.dayProgress = 0

	ctx, cancel := context.WithCancel(context.Background())
	g.cancelDay = cancel
	go g.runDayClock(ctx)
	go g.runTradeTicks(ctx)
	go g.runCoinTicks(ctx)
	go g.runGamblingTicks(ctx)
	go g.runReferralTicks(ctx)
	go g.runIdleChatter(ctx)
}

// stopDayLocked cancels the day goroutines. Safe to call when no day runs.
func (g *Game) stopDayLocked() {
	if g.cancelDay != nil {
		g.cancelDay()
		g.cancelDay = nil
	}
}

func (g *Game) gameOverLocked(reason string) {
	g.phase = PhaseGameOver
	g.state.GamblingMode = false
	g.stopDayLocked()
	g.feed.Publish(EventError, "GAME OVER. "+reason+". Rekt.")
	g.log.Info("game over", "reason", reason, "day", g.state.Day)
}

// settleDayLocked is the end-of-day reconciliation. The open trade's pnl and
// the live coin's settlement profit fold into one additional-profit figure,
// follower growth lands if the player has Twitter, and the daily profit is
// the delta against the day-start snapshot.
func (g *Game) settleDayLocked() {
	p := g.state
	additional := 0.0

	if g.trade != nil {
		additional += g.trade.PnL
		g.feed.Publish(EventPnL, fmt.Sprintf("Day closed %s: %+.2f SOL", g.trade.Coin, g.trade.PnL))
		g.trade = nil
	}
	if p.ActiveMemecoin != nil {
		profit := p.ActiveMemecoin.SettleProfit()
		additional += profit
		g.feed.Publish(EventPnL, fmt.Sprintf("%s settled: %+.2f SOL", p.ActiveMemecoin.Name, profit))
		p.ActiveMemecoin = nil
	}

	growthMin := 5 + (p.Day-1)*5
	growthMax := 20 + (p.Day-1)*5
	growth := int(math.Floor(g.rng.Float64()*float64(growthMax-growthMin+1))) + growthMin
	if p.HasTwitter {
		p.Followers.Count += growth
		p.Followers.LastGrowth = growth
	}

	newSol := p.Sol + additional
	dailyProfit := newSol - p.DayStartSol

	if newSol <= 0 {
		p.Sol = newSol
		g.gameOverLocked("balance hit zero")
		return
	}

	p.Sol = newSol
	p.DailyProfits = append(p.DailyProfits, dailyProfit)
	g.dayProgress = 1
	g.phase = PhaseRecap
	g.stopDayLocked()

	g.feed.Publish(EventInfo, fmt.Sprintf("Day %d over. Daily P&L: %+.2f SOL", p.Day, dailyProfit))
	g.log.Info("day settled", "day", p.Day, "daily_profit", dailyProfit, "sol", p.Sol)
}

func (g *Game) runDayClock(ctx context.Context) {
	ticker := time.NewTicker(g.cfg.DayTickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		g.mu.Lock()
		if g.phase != PhaseActive {
			g.mu.Unlock()
			return
		}
		elapsed := time.Since(g.dayStarted)
		g.dayProgress = math.Min(1, float64(elapsed)/float64(g.cfg.DayDuration))
		g.state.Health = math.Max(0, g.state.Health-g.state.healthDecayPerTick())

		if g.state.Health <= 0 {
			g.gameOverLocked("health hit zero")
			g.mu.Unlock()
			return
		}
		if g.dayProgress >= 1 {
			g.settleDayLocked()
			g.mu.Unlock()
			return
		}
		g.mu.Unlock()
	}
}

func (g *Game) runTradeTicks(ctx context.Context) {
	ticker := time.NewTicker(g.cfg.TradeTickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		g.mu.Lock()
		if g.phase != PhaseActive || g.trade == nil {
			g.mu.Unlock()
			continue
		}
		tick := StepTrade(g.rng, g.trade, g.state.TradingSkill, g.state.TradingMood, time.Since(g.trade.OpenedAt))
		if tick.Rugged {
			g.feed.Publish(EventRugPull, fmt.Sprintf("%s just got rugged! 🚨", g.trade.Coin))
			g.closeTradeLocked()
		}
		g.mu.Unlock()
	}
}

func (g *Game) runCoinTicks(ctx context.Context) {
	ticker := time.NewTicker(g.cfg.CoinTickEvery)
	defer ticker.Stop()
	rugAnnounced := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		g.mu.Lock()
		coin := g.state.ActiveMemecoin
		if g.phase != PhaseActive || coin == nil {
			g.mu.Unlock()
			continue
		}
		rugged := StepMemecoin(g.rng, coin, g.state.Followers.Count, time.Since(coin.LaunchedAt), g.cfg.CoinRugAfter)
		if rugged && !rugAnnounced {
			rugAnnounced = true
			g.feed.Publish(EventRugPull, fmt.Sprintf("%s dev pulled the plug. Holders down 90%%.", coin.Name))
		}
		g.mu.Unlock()
	}
}

func (g *Game) runGamblingTicks(ctx context.Context) {
	ticker := time.NewTicker(g.cfg.GamblingTickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		g.mu.Lock()
		if g.phase != PhaseActive || !g.state.CanGamble || !g.state.GamblingMode {
			g.mu.Unlock()
			continue
		}
		res := RollGamble(g.rng, g.state.TradingMood)
		g.state.Sol = math.Max(0, g.state.Sol+res.Amount)
		if res.Won {
			g.feed.Publish(EventSuccess, fmt.Sprintf("Won %.2f SOL gambling! 🎲", res.Amount))
		} else {
			g.feed.Publish(EventError, fmt.Sprintf("Lost %.2f SOL gambling! 💸", -res.Amount))
		}
		if levels := g.state.GrantXP(1); levels > 0 {
			g.feed.Publish(EventSuccess, pickPhrase(g.rng, levelUpMessages))
		}
		g.state.Health = math.Max(0, g.state.Health-1)

		if g.state.Sol <= 0 || g.state.Health <= 0 {
			g.gameOverLocked("gambled it all away")
			g.mu.Unlock()
			return
		}
		g.mu.Unlock()
	}
}

func (g *Game) runReferralTicks(ctx context.Context) {
	ticker := time.NewTicker(g.cfg.ReferralTickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		g.mu.Lock()
		if g.phase != PhaseActive || !g.state.ReferralFarming {
			g.mu.Unlock()
			continue
		}
		tick := StepReferrals(g.rng, g.state.Followers.Count, g.state.Followers.Multiplier, g.cfg.DayDuration, g.cfg.ReferralTickEvery)
		g.state.Followers.Count += tick.NewReferrals
		g.state.Referrals.Count += tick.NewReferrals
		g.state.Referrals.LastGrowth = tick.NewReferrals
		g.state.Sol += tick.Earnings
		g.state.ReferralEarnings += tick.Earnings
		g.mu.Unlock()
	}
}

func (g *Game) runIdleChatter(ctx context.Context) {
	ticker := time.NewTicker(g.cfg.IdleChatterEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		g.mu.Lock()
		if g.phase == PhaseActive {
			g.feed.Publish(EventMeme, pickPhrase(g.rng, idlePhrases))
		}
		g.mu.Unlock()
	}
}
