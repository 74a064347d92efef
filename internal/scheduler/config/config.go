package config

import (
	"golang-paper-trader/pkg/config"
)

// Scheduler holds the per-phase cron expressions. Both run in the exchange
// timezone.
type Scheduler struct {
	PreMarketCron  string `mapstructure:"pre_market_cron"`
	PostMarketCron string `mapstructure:"post_market_cron"`
}

// WithDefaults fills empty cron fields with the standard session times:
// signals before the 09:00 open, settlement after the 13:30 close.
func (s Scheduler) WithDefaults() Scheduler {
	if s.PreMarketCron == "" {
		s.PreMarketCron = "30 8 * * 1-5"
	}
	if s.PostMarketCron == "" {
		s.PostMarketCron = "0 15 * * 1-5"
	}
	return s
}

// Config holds the full configuration for the scheduling service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Market    config.Market   `mapstructure:"market"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
}

// Load loads the scheduler configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.Market = cfg.Market.WithDefaults()
	cfg.Scheduler = cfg.Scheduler.WithDefaults()
	return &cfg, nil
}
