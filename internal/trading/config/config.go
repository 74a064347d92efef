package config

import (
	"time"

	"golang-paper-trader/pkg/config"
)

// Trading holds trading-service specific configuration.
type Trading struct {
	// Watchlist is the fixed symbol universe, evaluated in listed order.
	Watchlist []string `mapstructure:"watchlist"`
	// HedgeSymbol receives budget from unadmitted momentum slots. Empty
	// disables hedging and parks the budget in cash.
	HedgeSymbol string `mapstructure:"hedge_symbol"`
	// MaxConcurrentEvaluations bounds the per-symbol indicator workers.
	MaxConcurrentEvaluations int `mapstructure:"max_concurrent_evaluations"`
	// HistoryBars is how many daily bars are loaded per symbol.
	HistoryBars int `mapstructure:"history_bars"`

	RedisStreamPhaseTimeout time.Duration `mapstructure:"redis_stream_phase_timeout"`
	CycleTimeout            time.Duration `mapstructure:"cycle_timeout"`
}

// WithDefaults fills zero fields with workable defaults.
func (t Trading) WithDefaults() Trading {
	if t.MaxConcurrentEvaluations <= 0 {
		t.MaxConcurrentEvaluations = 8
	}
	if t.HistoryBars <= 0 {
		t.HistoryBars = 120
	}
	if t.RedisStreamPhaseTimeout <= 0 {
		t.RedisStreamPhaseTimeout = 30 * time.Second
	}
	if t.CycleTimeout <= 0 {
		t.CycleTimeout = 5 * time.Minute
	}
	return t
}

// Config holds the full configuration for the trading service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	Market   config.Market   `mapstructure:"market"`
	Telegram config.Telegram `mapstructure:"telegram"`
	Trading  Trading         `mapstructure:"trading"`
}

// Load loads the trading service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.Market = cfg.Market.WithDefaults()
	cfg.Trading = cfg.Trading.WithDefaults()
	return &cfg, nil
}
