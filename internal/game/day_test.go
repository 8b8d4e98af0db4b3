package game

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

// quietTuning keeps every ticker far beyond the test's lifetime so the
// controller's state only moves when the test drives it.
func quietTuning() Tuning {
	t := DefaultTuning()
	t.DayDuration = time.Hour
	t.DayTickEvery = time.Hour
	t.TradeTickEvery = time.Hour
	t.CoinTickEvery = time.Hour
	t.GamblingTickEvery = time.Hour
	t.ReferralTickEvery = time.Hour
	t.IdleChatterEvery = time.Hour
	return t
}

func newTestGame(t *testing.T, tune Tuning) *Game {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := New(tune, log, NewFeed(), 42)
	t.Cleanup(func() {
		g.mu.Lock()
		g.stopDayLocked()
		g.mu.Unlock()
	})
	return g
}

func startActiveDay(t *testing.T, g *Game, mood Mood) {
	t.Helper()
	g.Start()
	if _, err := g.SelectMood(mood); err != nil {
		t.Fatalf("select mood: %v", err)
	}
}

func TestStartResetsEverything(t *testing.T) {
	g := newTestGame(t, quietTuning())
	snap := g.Start()
	if snap.Phase != PhaseMoodSelect {
		t.Fatalf("phase=%s want mood_select", snap.Phase)
	}
	p := snap.Player
	if p.Sol != StartingSol || p.Day != 1 || p.TradingSkill != 1 || p.Health != StartingHealth {
		t.Fatalf("fresh player wrong: %+v", p)
	}
	if p.TradingMood != MoodNone || len(p.DailyProfits) != 0 {
		t.Fatalf("fresh player carries leftovers: %+v", p)
	}
}

func TestSelectMoodStartsDay(t *testing.T) {
	g := newTestGame(t, quietTuning())
	g.Start()

	mood, err := g.SelectMood(MoodFomo)
	if err != nil || mood != MoodFomo {
		t.Fatalf("mood=%s err=%v", mood, err)
	}
	snap := g.Snapshot()
	if snap.Phase != PhaseActive {
		t.Fatalf("phase=%s want active", snap.Phase)
	}
	if snap.Player.DayStartSol != snap.Player.Sol {
		t.Fatalf("day start snapshot not taken")
	}

	if _, err := g.SelectMood(MoodFader); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("second mood select err=%v want wrong phase", err)
	}
}

func TestSelectMoodRolls(t *testing.T) {
	g := newTestGame(t, quietTuning())
	g.Start()
	mood, err := g.SelectMood(MoodNone)
	if err != nil {
		t.Fatalf("roll mood: %v", err)
	}
	if _, perr := ParseMood(string(mood)); perr != nil {
		t.Fatalf("rolled mood %q not a real mood", mood)
	}
}

func TestOpenTradeGuards(t *testing.T) {
	g := newTestGame(t, quietTuning())
	g.Start()
	if _, err := g.OpenTrade("WIF", 1); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("open in mood_select err=%v", err)
	}

	startActiveDay(t, g, MoodSmart)
	if _, err := g.OpenTrade("WIF", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero size err=%v", err)
	}
	if _, err := g.OpenTrade("WIF", 100); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("oversized err=%v", err)
	}

	tr, err := g.OpenTrade("WIF", 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if tr.Coin != "WIF" || tr.Size != 1 {
		t.Fatalf("trade wrong: %+v", tr)
	}
	if _, err := g.OpenTrade("BONK", 1); !errors.Is(err, ErrTradeOpen) {
		t.Fatalf("double open err=%v", err)
	}
}

func TestCloseTradeRealizes(t *testing.T) {
	g := newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodSmart)
	if _, err := g.CloseTrade(); !errors.Is(err, ErrNoTrade) {
		t.Fatalf("close without trade err=%v", err)
	}

	if _, err := g.OpenTrade("WIF", 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	g.mu.Lock()
	g.trade.reprice(g.trade.EntryPrice * 3)
	g.mu.Unlock()

	pnl, err := g.CloseTrade()
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if pnl <= 0 {
		t.Fatalf("pnl=%f want profit after 3x reprice", pnl)
	}
	snap := g.Snapshot()
	if snap.Trade != nil {
		t.Fatalf("trade still open after close")
	}
	if got := snap.Player.DailyProfits; len(got) != 1 || got[0] != pnl {
		t.Fatalf("daily profits %v want [%f]", got, pnl)
	}
	if snap.Player.XP == 0 && snap.Player.TradingSkill == 1 {
		t.Fatalf("close awarded no xp")
	}
}

func TestLaunchMemecoinGuards(t *testing.T) {
	g := newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodSmart)
	cfg := MemecoinConfig{Name: "DOG", Trend: TrendDog, InitialLiquidity: 1}

	if _, err := g.LaunchMemecoin(cfg); !errors.Is(err, ErrFeatureLocked) {
		t.Fatalf("launch before learning err=%v", err)
	}
	if err := g.Purchase(UpgradeMemecoinLearn, ""); err != nil {
		t.Fatalf("learn: %v", err)
	}

	bad := cfg
	bad.InitialLiquidity = MaxCoinLiquidity + 1
	if _, err := g.LaunchMemecoin(bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("oversized liquidity err=%v", err)
	}
	bad.InitialLiquidity = 100
	if _, err := g.LaunchMemecoin(bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("liquidity above cap err=%v", err)
	}

	before := g.Snapshot().Player.Sol
	coin, err := g.LaunchMemecoin(cfg)
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if coin.Phase != CoinLaunch || coin.Holders != 1 {
		t.Fatalf("coin wrong: %+v", coin)
	}
	after := g.Snapshot().Player
	if after.Sol != before-1 {
		t.Fatalf("sol=%f want %f after dev buy", after.Sol, before-1)
	}
	if after.MemecoinLaunchesToday != 1 {
		t.Fatalf("launches today=%d want 1", after.MemecoinLaunchesToday)
	}

	if _, err := g.LaunchMemecoin(cfg); !errors.Is(err, ErrCoinActive) {
		t.Fatalf("second live coin err=%v", err)
	}
}

func TestDailyLaunchLimitEnforced(t *testing.T) {
	g := newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodSmart)
	if err := g.Purchase(UpgradeMemecoinLearn, ""); err != nil {
		t.Fatalf("learn: %v", err)
	}

	g.mu.Lock()
	g.state.MemecoinLaunchesToday = g.state.DailyLaunchLimit()
	g.mu.Unlock()

	cfg := MemecoinConfig{Name: "DOG", Trend: TrendDog, InitialLiquidity: 0.5}
	if _, err := g.LaunchMemecoin(cfg); !errors.Is(err, ErrLaunchLimit) {
		t.Fatalf("limit reached err=%v", err)
	}
}

func TestRugBlocksRelaunch(t *testing.T) {
	g := newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodSmart)
	if err := g.Purchase(UpgradeMemecoinLearn, ""); err != nil {
		t.Fatalf("learn: %v", err)
	}
	g.mu.Lock()
	g.state.TradingSkill = 3 // two launch slots
	g.mu.Unlock()

	if _, err := g.RugMemecoin(); !errors.Is(err, ErrNoMemecoin) {
		t.Fatalf("rug without coin err=%v", err)
	}

	honest := MemecoinConfig{Name: "DOG", Trend: TrendDog, InitialLiquidity: 0.5}
	if _, err := g.LaunchMemecoin(honest); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if _, err := g.RugMemecoin(); !errors.Is(err, ErrNotRuggable) {
		t.Fatalf("rug on honest coin err=%v", err)
	}
	g.mu.Lock()
	g.state.ActiveMemecoin = nil
	g.mu.Unlock()

	rugged := MemecoinConfig{Name: "RUG", Trend: TrendCat, InitialLiquidity: 1, IsRugPull: true}
	if _, err := g.LaunchMemecoin(rugged); err != nil {
		t.Fatalf("launch rug coin: %v", err)
	}
	before := g.Snapshot().Player.Sol
	profit, err := g.RugMemecoin()
	if err != nil {
		t.Fatalf("rug: %v", err)
	}
	if profit != 0.9 {
		t.Fatalf("rug profit=%f want 0.9", profit)
	}
	snap := g.Snapshot().Player
	if snap.Sol != before+profit {
		t.Fatalf("sol=%f want %f", snap.Sol, before+profit)
	}
	if snap.ActiveMemecoin != nil {
		t.Fatalf("coin still live after rug")
	}

	// A slot remains, but the rug burned the day.
	if _, err := g.LaunchMemecoin(honest); !errors.Is(err, ErrLaunchLimit) {
		t.Fatalf("relaunch after rug err=%v", err)
	}
}

func TestSettlementIdentity(t *testing.T) {
	g := newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodSmart)

	g.mu.Lock()
	g.trade = &ActiveTrade{Coin: "WIF", EntryPrice: 0.005, CurrentPrice: 0.005, Size: 1, PnL: 2}
	g.settleDayLocked()
	g.mu.Unlock()

	snap := g.Snapshot()
	if snap.Phase != PhaseRecap {
		t.Fatalf("phase=%s want recap", snap.Phase)
	}
	p := snap.Player
	if p.Sol != 7 {
		t.Fatalf("sol=%f want 7", p.Sol)
	}
	last := p.DailyProfits[len(p.DailyProfits)-1]
	if last != 2 {
		t.Fatalf("daily profit=%f want 2", last)
	}
	if last != p.Sol-p.DayStartSol {
		t.Fatalf("daily profit %f != post - dayStart %f", last, p.Sol-p.DayStartSol)
	}
	if snap.Trade != nil || p.ActiveMemecoin != nil {
		t.Fatalf("positions survived settlement")
	}
}

func TestSettlementFoldsMemecoinQuirk(t *testing.T) {
	g := newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodSmart)

	g.mu.Lock()
	g.state.ActiveMemecoin = &Memecoin{Name: "DOG", Price: 1.5, Liquidity: 2}
	g.settleDayLocked()
	g.mu.Unlock()

	p := g.Snapshot().Player
	if p.Sol != StartingSol+1 {
		t.Fatalf("sol=%f want %f", p.Sol, StartingSol+1)
	}
	if p.ActiveMemecoin != nil {
		t.Fatalf("memecoin survived settlement")
	}
}

func TestSettlementFollowerGrowthNeedsTwitter(t *testing.T) {
	g := newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodSmart)
	g.mu.Lock()
	g.settleDayLocked()
	g.mu.Unlock()
	if got := g.Snapshot().Player.Followers.Count; got != 0 {
		t.Fatalf("followers grew to %d without twitter", got)
	}

	g = newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodSmart)
	if err := g.Purchase(UpgradeTwitter, "@degen"); err != nil {
		t.Fatalf("twitter: %v", err)
	}
	g.mu.Lock()
	g.settleDayLocked()
	g.mu.Unlock()
	p := g.Snapshot().Player
	// Day 1 growth draws from [5, 20].
	if p.Followers.Count < 5 || p.Followers.Count > 20 {
		t.Fatalf("day-1 growth %d outside [5, 20]", p.Followers.Count)
	}
	if p.Followers.LastGrowth != p.Followers.Count {
		t.Fatalf("last growth %d != count %d on first day", p.Followers.LastGrowth, p.Followers.Count)
	}
}

func TestSettlementBustEndsGame(t *testing.T) {
	g := newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodSmart)

	g.mu.Lock()
	g.trade = &ActiveTrade{Coin: "WIF", Size: 10, PnL: -10}
	g.settleDayLocked()
	g.mu.Unlock()

	if got := g.Snapshot().Phase; got != PhaseGameOver {
		t.Fatalf("phase=%s want game_over", got)
	}
}

func TestSleepWakeCycle(t *testing.T) {
	g := newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodFomo)

	g.mu.Lock()
	g.state.Health = 50
	g.state.ReferralFarming = true
	g.state.Followers.Count = 1000
	g.state.CreatedMemecoinToday = true
	g.state.MemecoinLaunchesToday = 2
	g.settleDayLocked()
	g.mu.Unlock()

	if err := g.WakeUp(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("wake from recap err=%v", err)
	}
	if err := g.Sleep(); err != nil {
		t.Fatalf("sleep: %v", err)
	}
	if err := g.Sleep(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("double sleep err=%v", err)
	}

	solBeforeWake := g.Snapshot().Player.Sol
	if err := g.WakeUp(); err != nil {
		t.Fatalf("wake: %v", err)
	}
	p := g.Snapshot().Player
	if p.Day != 2 {
		t.Fatalf("day=%d want 2", p.Day)
	}
	if p.Health != 80 {
		t.Fatalf("health=%f want 80 after +30", p.Health)
	}
	if p.TradingMood != MoodNone {
		t.Fatalf("mood %q not cleared", p.TradingMood)
	}
	if p.CreatedMemecoinToday || p.MemecoinLaunchesToday != 0 {
		t.Fatalf("launch counters not reset: %+v", p)
	}
	// The day-start snapshot is taken before the referral lump lands.
	if p.DayStartSol != solBeforeWake {
		t.Fatalf("dayStartSol=%f want pre-lump %f", p.DayStartSol, solBeforeWake)
	}
	lump := referralLump(1000)
	if p.Sol != solBeforeWake+lump {
		t.Fatalf("sol=%f want %f with lump", p.Sol, solBeforeWake+lump)
	}
	if p.ReferralEarnings != lump {
		t.Fatalf("referral earnings=%f want %f", p.ReferralEarnings, lump)
	}
	if g.Snapshot().Phase != PhaseMoodSelect {
		t.Fatalf("wake should land in mood_select")
	}
}

func TestSleepHealthCap(t *testing.T) {
	g := newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodSmart)
	g.mu.Lock()
	g.state.Health = 90
	g.settleDayLocked()
	g.mu.Unlock()
	if err := g.Sleep(); err != nil {
		t.Fatalf("sleep: %v", err)
	}
	if err := g.WakeUp(); err != nil {
		t.Fatalf("wake: %v", err)
	}
	if got := g.Snapshot().Player.Health; got != StartingHealth {
		t.Fatalf("health=%f want cap %f", got, StartingHealth)
	}
}

func TestPurchaseGuards(t *testing.T) {
	g := newTestGame(t, quietTuning())
	g.Start()

	if err := g.Purchase(UpgradeGambling, ""); !errors.Is(err, ErrFeatureLocked) {
		t.Fatalf("gambling at level 1 err=%v", err)
	}
	g.mu.Lock()
	g.state.TradingSkill = 3
	g.state.Sol = 1
	g.mu.Unlock()
	if err := g.Purchase(UpgradeGambling, ""); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("gambling broke err=%v", err)
	}
	g.mu.Lock()
	g.state.Sol = 10
	g.mu.Unlock()
	if err := g.Purchase(UpgradeGambling, ""); err != nil {
		t.Fatalf("gambling unlock: %v", err)
	}
	if err := g.Purchase(UpgradeGambling, ""); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("double gambling err=%v", err)
	}
	if got := g.Snapshot().Player.Sol; got != 8 {
		t.Fatalf("sol=%f want 8 after 2.0 unlock", got)
	}

	if err := g.Purchase(UpgradeTwitter, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank username err=%v", err)
	}
	if err := g.Purchase(UpgradeTwitter, "@degen"); err != nil {
		t.Fatalf("twitter: %v", err)
	}
	if got := g.Snapshot().Player.TwitterUsername; got != "degen" {
		t.Fatalf("username=%q want handle without @", got)
	}

	if err := g.Purchase(UpgradeTrendscope, ""); !errors.Is(err, ErrFeatureLocked) {
		t.Fatalf("trendscope before learning err=%v", err)
	}
	if err := g.Purchase(UpgradeBundler, ""); !errors.Is(err, ErrFeatureLocked) {
		t.Fatalf("bundler on day 1 err=%v", err)
	}
	if err := g.Purchase(UpgradeKind("jetski"), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown upgrade err=%v", err)
	}
}

func TestEquipmentPurchase(t *testing.T) {
	g := newTestGame(t, quietTuning())
	g.Start()
	if err := g.Purchase(UpgradeEquipment, ""); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("equipment on starting sol err=%v", err)
	}

	g.mu.Lock()
	g.state.Sol = 20
	g.mu.Unlock()
	if err := g.Purchase(UpgradeEquipment, ""); err != nil {
		t.Fatalf("equipment: %v", err)
	}
	p := g.Snapshot().Player
	if p.Sol != 8 || p.EquipmentTier() != 2 {
		t.Fatalf("sol=%f tier=%d want 8/2", p.Sol, p.EquipmentTier())
	}

	g.mu.Lock()
	g.state.Equipment = Equipment{Computer: 4, Internet: 4, Desk: 4, Chair: 4}
	g.state.Sol = 1000
	g.mu.Unlock()
	if err := g.Purchase(UpgradeEquipment, ""); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("maxed equipment err=%v", err)
	}
}

func TestToggleGambling(t *testing.T) {
	g := newTestGame(t, quietTuning())
	g.Start()
	if _, err := g.ToggleGambling(); !errors.Is(err, ErrFeatureLocked) {
		t.Fatalf("toggle before unlock err=%v", err)
	}
	g.mu.Lock()
	g.state.CanGamble = true
	g.mu.Unlock()
	on, err := g.ToggleGambling()
	if err != nil || !on {
		t.Fatalf("toggle on: %v %v", on, err)
	}
	on, _ = g.ToggleGambling()
	if on {
		t.Fatalf("second toggle should turn it off")
	}
}

func TestGameOverExclusivity(t *testing.T) {
	g := newTestGame(t, quietTuning())
	startActiveDay(t, g, MoodSmart)
	g.mu.Lock()
	g.gameOverLocked("test bust")
	g.mu.Unlock()

	if _, err := g.OpenTrade("WIF", 1); !errors.Is(err, ErrGameOver) {
		t.Fatalf("open err=%v", err)
	}
	if _, err := g.CloseTrade(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("close err=%v", err)
	}
	if _, err := g.SelectMood(MoodFomo); !errors.Is(err, ErrGameOver) {
		t.Fatalf("mood err=%v", err)
	}
	if err := g.Purchase(UpgradeMemecoinLearn, ""); !errors.Is(err, ErrGameOver) {
		t.Fatalf("purchase err=%v", err)
	}
	if err := g.Sleep(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("sleep err=%v", err)
	}

	// Only a restart revives the session.
	if snap := g.Start(); snap.Phase != PhaseMoodSelect || snap.Player.Sol != StartingSol {
		t.Fatalf("restart snapshot wrong: %+v", snap)
	}
}

func TestDayRunsToRecap(t *testing.T) {
	tune := quietTuning()
	tune.DayDuration = 300 * time.Millisecond
	tune.DayTickEvery = 10 * time.Millisecond
	g := newTestGame(t, tune)
	startActiveDay(t, g, MoodSmart)

	deadline := time.After(3 * time.Second)
	for {
		snap := g.Snapshot()
		if snap.Phase == PhaseRecap {
			if len(snap.Player.DailyProfits) != 1 {
				t.Fatalf("settlement appended %d profits", len(snap.Player.DailyProfits))
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("day never reached recap, phase=%s progress=%f", snap.Phase, snap.DayProgress)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
