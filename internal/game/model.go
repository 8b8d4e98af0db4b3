package game

import (
	"errors"
	"fmt"
	"time"
)

const (
	StartingSol    = 5.0
	StartingHealth = 100.0

	InitialCoinPrice = 0.00000002
	TradeRugChance   = 0.15
	MaxGainMultiple  = 50.0
	MaxLossFraction  = 0.99

	GamblingUnlockCost  = 2.0
	GamblingUnlockLevel = 3
	ReferralUnlockLevel = 3
	TrendscopeCost      = 0.5
	MemecoinLearnCost   = 0.5
	TwitterGiveawayCost = 1.0
	TwitterGiveawayDay  = 4
	BundlerCost         = 20.0
	BundlerDay          = 4

	SleepHealthRestore = 30.0
	MaxCoinLiquidity   = 1.5
)

var (
	ErrGameOver          = errors.New("game over: restart to play again")
	ErrWrongPhase        = errors.New("action not available in current phase")
	ErrInsufficientFunds = errors.New("insufficient SOL")
	ErrFeatureLocked     = errors.New("feature locked")
	ErrTradeOpen         = errors.New("a trade is already open")
	ErrNoTrade           = errors.New("no open trade")
	ErrNoMemecoin        = errors.New("no active memecoin")
	ErrCoinActive        = errors.New("a memecoin is already live")
	ErrNotRuggable       = errors.New("memecoin has no rug pull planned")
	ErrLaunchLimit       = errors.New("daily memecoin launch limit reached")
	ErrAlreadyOwned      = errors.New("upgrade already owned")
	ErrInvalidMood       = errors.New("unknown trading mood")
	ErrInvalidInput      = errors.New("invalid input")
)

// Phase is the day cycle controller state.
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseMoodSelect Phase = "mood_select"
	PhaseActive     Phase = "active"
	PhaseRecap      Phase = "recap"
	PhaseSleeping   Phase = "sleeping"
	PhaseGameOver   Phase = "game_over"
)

// Mood is the per-day trading stance. The zero value means unset.
type Mood string

const (
	MoodNone    Mood = ""
	MoodFomo    Mood = "fomo"
	MoodInsider Mood = "insider"
	MoodFader   Mood = "fader"
	MoodGrass   Mood = "grass"
	MoodSmart   Mood = "smart"
)

func ParseMood(s string) (Mood, error) {
	switch Mood(s) {
	case MoodFomo, MoodInsider, MoodFader, MoodGrass, MoodSmart:
		return Mood(s), nil
	}
	return MoodNone, fmt.Errorf("%w: %q", ErrInvalidMood, s)
}

// Trend is the narrative a memecoin rides.
type Trend string

const (
	TrendTrump Trend = "trump"
	TrendDog   Trend = "dog"
	TrendCat   Trend = "cat"
	TrendElon  Trend = "elon"
)

func ParseTrend(s string) (Trend, error) {
	switch Trend(s) {
	case TrendTrump, TrendDog, TrendCat, TrendElon:
		return Trend(s), nil
	}
	return "", fmt.Errorf("%w: unknown trend %q", ErrInvalidInput, s)
}

// CoinPhase is the memecoin lifecycle stage. Transitions are one-directional.
type CoinPhase string

const (
	CoinLaunch       CoinPhase = "launch"
	CoinPump         CoinPhase = "pump"
	CoinDistribution CoinPhase = "distribution"
	CoinDecline      CoinPhase = "decline"
)

// UpgradeKind names a purchasable unlock.
type UpgradeKind string

const (
	UpgradeGambling        UpgradeKind = "gambling"
	UpgradeEquipment       UpgradeKind = "equipment"
	UpgradeTwitter         UpgradeKind = "twitter"
	UpgradeTrendscope      UpgradeKind = "trendscope"
	UpgradeTwitterGiveaway UpgradeKind = "twitterGiveaway"
	UpgradeBundler         UpgradeKind = "bundler"
	UpgradeReferralFarming UpgradeKind = "referralFarming"
	UpgradeMemecoinLearn   UpgradeKind = "memecoinLearn"
)

func ParseUpgradeKind(s string) (UpgradeKind, error) {
	switch UpgradeKind(s) {
	case UpgradeGambling, UpgradeEquipment, UpgradeTwitter, UpgradeTrendscope,
		UpgradeTwitterGiveaway, UpgradeBundler, UpgradeReferralFarming, UpgradeMemecoinLearn:
		return UpgradeKind(s), nil
	}
	return "", fmt.Errorf("%w: unknown upgrade %q", ErrInvalidInput, s)
}

// Tuning holds the engine's timing and balance knobs. The defaults reproduce
// the canonical 40-second day; tests and operators override via the config
// package's tuning file.
type Tuning struct {
	StartingSol       float64
	DayDuration       time.Duration
	DayTickEvery      time.Duration
	TradeTickEvery    time.Duration
	CoinTickEvery     time.Duration
	GamblingTickEvery time.Duration
	ReferralTickEvery time.Duration
	IdleChatterEvery  time.Duration
	CoinRugAfter      time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		StartingSol:       StartingSol,
		DayDuration:       40 * time.Second,
		DayTickEvery:      100 * time.Millisecond,
		TradeTickEvery:    100 * time.Millisecond,
		CoinTickEvery:     time.Second,
		GamblingTickEvery: 5 * time.Second,
		ReferralTickEvery: 5 * time.Second,
		IdleChatterEvery:  15 * time.Second,
		CoinRugAfter:      300 * time.Second,
	}
}
