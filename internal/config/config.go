package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"trench/internal/game"
)

type APIConfig struct {
	Addr       string
	Seed       int64
	TuningPath string
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() APIConfig {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("TRENCH_API_ADDR", ":8080")
	}

	return APIConfig{
		Addr:       addr,
		Seed:       envInt64Default("TRENCH_SEED", time.Now().UnixNano()),
		TuningPath: strings.TrimSpace(os.Getenv("TRENCH_TUNING_FILE")),
	}
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("TRENCH_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

// tuningFile is the YAML schema for engine overrides. Durations are Go
// duration strings ("40s", "100ms"); absent fields keep their defaults.
type tuningFile struct {
	StartingSol       *float64 `yaml:"starting_sol"`
	DayDuration       string   `yaml:"day_duration"`
	DayTickEvery      string   `yaml:"day_tick_every"`
	TradeTickEvery    string   `yaml:"trade_tick_every"`
	CoinTickEvery     string   `yaml:"coin_tick_every"`
	GamblingTickEvery string   `yaml:"gambling_tick_every"`
	ReferralTickEvery string   `yaml:"referral_tick_every"`
	IdleChatterEvery  string   `yaml:"idle_chatter_every"`
	CoinRugAfter      string   `yaml:"coin_rug_after"`
}

// LoadTuning returns the default engine tuning, overlaid with the YAML file
// at path when one is given.
func LoadTuning(path string) (game.Tuning, error) {
	tune := game.DefaultTuning()
	if path == "" {
		return tune, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return tune, fmt.Errorf("read tuning file: %w", err)
	}
	var file tuningFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return tune, fmt.Errorf("parse tuning file %s: %w", path, err)
	}

	if file.StartingSol != nil {
		if *file.StartingSol <= 0 {
			return tune, fmt.Errorf("tuning file %s: starting_sol must be positive", path)
		}
		tune.StartingSol = *file.StartingSol
	}
	durs := []struct {
		raw string
		dst *time.Duration
		key string
	}{
		{file.DayDuration, &tune.DayDuration, "day_duration"},
		{file.DayTickEvery, &tune.DayTickEvery, "day_tick_every"},
		{file.TradeTickEvery, &tune.TradeTickEvery, "trade_tick_every"},
		{file.CoinTickEvery, &tune.CoinTickEvery, "coin_tick_every"},
		{file.GamblingTickEvery, &tune.GamblingTickEvery, "gambling_tick_every"},
		{file.ReferralTickEvery, &tune.ReferralTickEvery, "referral_tick_every"},
		{file.IdleChatterEvery, &tune.IdleChatterEvery, "idle_chatter_every"},
		{file.CoinRugAfter, &tune.CoinRugAfter, "coin_rug_after"},
	}
	for _, d := range durs {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil || v <= 0 {
			return tune, fmt.Errorf("tuning file %s: bad %s %q", path, d.key, d.raw)
		}
		*d.dst = v
	}
	return tune, nil
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
