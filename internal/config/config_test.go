package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadTuningDefaults(t *testing.T) {
	tune, err := LoadTuning("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tune.DayDuration != 40*time.Second || tune.StartingSol != 5 {
		t.Fatalf("defaults wrong: %+v", tune)
	}
}

func TestLoadTuningOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "starting_sol: 10\nday_duration: 2s\ngambling_tick_every: 250ms\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}

	tune, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tune.StartingSol != 10 {
		t.Fatalf("starting_sol=%f want 10", tune.StartingSol)
	}
	if tune.DayDuration != 2*time.Second {
		t.Fatalf("day_duration=%s want 2s", tune.DayDuration)
	}
	if tune.GamblingTickEvery != 250*time.Millisecond {
		t.Fatalf("gambling_tick_every=%s want 250ms", tune.GamblingTickEvery)
	}
	// Untouched fields keep their defaults.
	if tune.DayTickEvery != 100*time.Millisecond {
		t.Fatalf("day_tick_every=%s want default 100ms", tune.DayTickEvery)
	}
}

func TestLoadTuningRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("day_duration: fast\n"), 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}
	if _, err := LoadTuning(path); err == nil {
		t.Fatalf("expected error for unparseable duration")
	}
}

func TestLoadCLIFromEnv(t *testing.T) {
	t.Setenv("TRENCH_API_BASE_URL", "http://example.test:9000/")
	cfg := LoadCLIFromEnv()
	if cfg.APIBaseURL != "http://example.test:9000" {
		t.Fatalf("base url %q should drop trailing slash", cfg.APIBaseURL)
	}
}
