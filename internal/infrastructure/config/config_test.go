package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.App.TickSec != 2 {
		t.Errorf("tick_sec default: expected 2, got %d", cfg.App.TickSec)
	}
	if cfg.Strategy.ThresholdPct != 0.3 {
		t.Errorf("threshold_pct default: expected 0.3, got %f", cfg.Strategy.ThresholdPct)
	}
	if cfg.Strategy.BufferSec != 10 {
		t.Errorf("buffer_sec default: expected 10, got %d", cfg.Strategy.BufferSec)
	}
	if cfg.Strategy.FeeMultiplier != 3 {
		t.Errorf("fee_multiplier default: expected 3, got %f", cfg.Strategy.FeeMultiplier)
	}
	if cfg.Strategy.Leverage != "3" {
		t.Errorf("leverage default: expected 3, got %s", cfg.Strategy.Leverage)
	}
	if cfg.Exchange.Gate.BaseURL != "https://api.gateio.ws" {
		t.Errorf("base_url default wrong: %s", cfg.Exchange.Gate.BaseURL)
	}
	if cfg.Exchange.Gate.Settle != "usdt" {
		t.Errorf("settle default wrong: %s", cfg.Exchange.Gate.Settle)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[app]
tick_sec = 5

[strategy]
threshold_pct = 0.8
target_balance = 500.0
blacklist = ["br_usdt", " BR_USDT ", "luna_usdt"]
`))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.App.TickSec != 5 {
		t.Errorf("tick_sec: expected 5, got %d", cfg.App.TickSec)
	}
	if cfg.Strategy.TargetBalance != 500 {
		t.Errorf("target_balance: expected 500, got %f", cfg.Strategy.TargetBalance)
	}
	// normalized and deduplicated
	if len(cfg.Strategy.Blacklist) != 2 {
		t.Fatalf("blacklist: expected 2 entries, got %v", cfg.Strategy.Blacklist)
	}
	if cfg.Strategy.Blacklist[0] != "BR_USDT" || cfg.Strategy.Blacklist[1] != "LUNA_USDT" {
		t.Errorf("blacklist not normalized: %v", cfg.Strategy.Blacklist)
	}
}

func TestLoadRejectsEnabledRedisWithoutAddr(t *testing.T) {
	_, err := Load(writeConfig(t, `
[redis]
enabled = true
addr = ""
`))
	if err == nil {
		t.Error("enabled redis without addr must fail validation")
	}
}

func TestLoadRejectsEnabledPostgresWithoutDSN(t *testing.T) {
	_, err := Load(writeConfig(t, `
[postgres]
enabled = true
`))
	if err == nil {
		t.Error("enabled postgres without dsn must fail validation")
	}
}

func TestLoadRejectsHugeSlippage(t *testing.T) {
	_, err := Load(writeConfig(t, `
[strategy]
slippage_buffer = 0.5
`))
	if err == nil {
		t.Error("slippage buffer of 50% must fail validation")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing config file must fail")
	}
}
