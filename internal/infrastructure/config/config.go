package config

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		TickSec       int `toml:"tick_sec"`        // scheduling loop interval
		PrintEveryMin int `toml:"print_every_min"` // watch-mode snapshot cadence
	} `toml:"app"`

	Strategy struct {
		ThresholdPct   float64  `toml:"threshold_pct"`    // min abs funding rate, percent
		BufferSec      int64    `toml:"buffer_sec"`       // pre-settlement window
		TargetBalance  float64  `toml:"target_balance"`   // single-leg notional, USDT
		Leverage       string   `toml:"leverage"`
		FeeMultiplier  float64  `toml:"fee_multiplier"`   // spot fee x this = round-trip cost
		SlippageBuffer float64  `toml:"slippage_buffer"`  // spot quote padding, 0.01 = 1%
		SettlePauseSec int      `toml:"settle_pause_sec"` // pause after both legs fill
		Blacklist      []string `toml:"blacklist"`
	} `toml:"strategy"`

	Exchange struct {
		Gate struct {
			BaseURL string `toml:"base_url"` // e.g. https://api.gateio.ws
			WsURL   string `toml:"ws_url"`   // e.g. wss://fx-ws.gateio.ws/v4/ws/usdt
			Settle  string `toml:"settle"`   // "usdt"
		} `toml:"gate"`
	} `toml:"exchange"`

	Redis struct {
		Enabled       bool   `toml:"enabled"`
		Addr          string `toml:"addr"`
		Password      string `toml:"password"`
		DB            int    `toml:"db"`
		Prefix        string `toml:"prefix"`
		TTLSeconds    int    `toml:"ttl_seconds"`
		SignalStream  string `toml:"signal_stream"`
		SignalChannel string `toml:"signal_channel"`
	} `toml:"redis"`

	SQLite struct {
		Enabled bool   `toml:"enabled"`
		Path    string `toml:"path"`
	} `toml:"sqlite"`

	Postgres struct {
		Enabled bool   `toml:"enabled"`
		DSN     string `toml:"dsn"`
	} `toml:"postgres"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.TickSec <= 0 {
		cfg.App.TickSec = 2
	}
	if cfg.App.PrintEveryMin <= 0 {
		cfg.App.PrintEveryMin = 5
	}
	if cfg.Strategy.ThresholdPct <= 0 {
		cfg.Strategy.ThresholdPct = 0.3
	}
	if cfg.Strategy.BufferSec <= 0 {
		cfg.Strategy.BufferSec = 10
	}
	if cfg.Strategy.TargetBalance <= 0 {
		cfg.Strategy.TargetBalance = 200
	}
	if strings.TrimSpace(cfg.Strategy.Leverage) == "" {
		cfg.Strategy.Leverage = "3"
	}
	if cfg.Strategy.FeeMultiplier <= 0 {
		cfg.Strategy.FeeMultiplier = 3
	}
	if cfg.Strategy.SlippageBuffer <= 0 {
		cfg.Strategy.SlippageBuffer = 0.01
	}
	if cfg.Strategy.SettlePauseSec <= 0 {
		cfg.Strategy.SettlePauseSec = 30
	}
	if strings.TrimSpace(cfg.Exchange.Gate.BaseURL) == "" {
		cfg.Exchange.Gate.BaseURL = "https://api.gateio.ws"
	}
	if strings.TrimSpace(cfg.Exchange.Gate.WsURL) == "" {
		cfg.Exchange.Gate.WsURL = "wss://fx-ws.gateio.ws/v4/ws/usdt"
	}
	if strings.TrimSpace(cfg.Exchange.Gate.Settle) == "" {
		cfg.Exchange.Gate.Settle = "usdt"
	}
	if strings.TrimSpace(cfg.SQLite.Path) == "" {
		cfg.SQLite.Path = "data/fundarb.db"
	}
	if strings.TrimSpace(cfg.Redis.Prefix) == "" {
		cfg.Redis.Prefix = "fundarb"
	}
	cfg.Strategy.Blacklist = normalizeContracts(cfg.Strategy.Blacklist)
}

func validate(cfg *Config) error {
	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return errors.New("redis.addr empty but enabled")
	}
	if cfg.Postgres.Enabled && strings.TrimSpace(cfg.Postgres.DSN) == "" {
		return errors.New("postgres.dsn empty but enabled")
	}
	if cfg.Strategy.SlippageBuffer >= 0.2 {
		return errors.New("strategy.slippage_buffer implausibly large")
	}
	return nil
}

func normalizeContracts(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		u := strings.ToUpper(strings.TrimSpace(s))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
