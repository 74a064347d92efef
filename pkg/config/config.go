package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// App holds application configuration.
type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

// Logger holds logger configuration.
type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Database holds database configuration.
type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

// Redis holds Redis configuration.
type Redis struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	StreamMaxLen int64  `mapstructure:"stream_max_len"`
}

// API holds API server configuration.
type API struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled             bool   `mapstructure:"enabled"`
	BotToken            string `mapstructure:"bot_token"`
	ChatID              int64  `mapstructure:"chat_id"`
	MaxMessagePerMinute int    `mapstructure:"max_message_per_minute"`
}

// Market holds the market-convention constants shared by the trading engine
// and the portfolio API. They are part of the simulation contract and stay
// configurable per market rather than baked into the engine.
type Market struct {
	FeeRate        float64 `mapstructure:"fee_rate"`
	TaxRate        float64 `mapstructure:"tax_rate"`
	MinimumFee     float64 `mapstructure:"minimum_fee"`
	LotSize        int64   `mapstructure:"lot_size"`
	InitialCapital float64 `mapstructure:"initial_capital"`
}

// WithDefaults fills empty market fields with the Taiwan-market conventions.
func (m Market) WithDefaults() Market {
	if m.FeeRate <= 0 {
		m.FeeRate = 0.001425
	}
	if m.TaxRate <= 0 {
		m.TaxRate = 0.003
	}
	if m.MinimumFee <= 0 {
		m.MinimumFee = 20
	}
	if m.LotSize <= 0 {
		m.LotSize = 1000
	}
	if m.InitialCapital <= 0 {
		m.InitialCapital = 1_000_000
	}
	return m
}

// Load loads configuration from a file into the given config struct.
func Load(path string, config interface{}) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Failed to read config file, falling back to environment variables")
	}

	return viper.Unmarshal(config)
}
