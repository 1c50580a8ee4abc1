// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Arbitrage ArbitrageConfig `mapstructure:"arbitrage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// FeedConfig holds price feed configuration.
type FeedConfig struct {
	Venues         []string      `mapstructure:"venues"`
	ReferenceVenue string        `mapstructure:"reference_venue"` // venue whose SOL quote prices gas
	JitterPct      float64       `mapstructure:"jitter_pct"`      // per-quote fluctuation, e.g. 0.5 for ±0.5%
	StaleTimeout   time.Duration `mapstructure:"stale_timeout"`
}

// StrategiesConfig toggles the strategy classes scanned per detection tick.
type StrategiesConfig struct {
	Direct        bool `mapstructure:"direct"`
	Triangular    bool `mapstructure:"triangular"`
	Quadrilateral bool `mapstructure:"quadrilateral"`
}

// ArbitrageConfig holds detection and execution configuration.
type ArbitrageConfig struct {
	Strategies          StrategiesConfig `mapstructure:"strategies"`
	Intelligence        string           `mapstructure:"intelligence"` // low | medium | high
	InvestmentAmount    float64          `mapstructure:"investment_amount"`
	MaxPerTrade         float64          `mapstructure:"max_per_trade"`
	DetectInterval      time.Duration    `mapstructure:"detect_interval"`
	ExecuteInterval     time.Duration    `mapstructure:"execute_interval"`
	AutoRun             bool             `mapstructure:"auto_run"`
	MaxTradesPerMinute  int              `mapstructure:"max_trades_per_minute"`
	HistorySize         int              `mapstructure:"history_size"`
	QuadSamplesPerCycle int              `mapstructure:"quad_samples_per_cycle"`
	TUIMode             bool             `mapstructure:"-"` // Set at runtime, not from config file
}

// InvestmentAmountDecimal returns the investment amount as decimal.Decimal.
func (c *ArbitrageConfig) InvestmentAmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.InvestmentAmount)
}

// MaxPerTradeDecimal returns the per-trade cap as decimal.Decimal.
func (c *ArbitrageConfig) MaxPerTradeDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxPerTrade)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Feed
	v.BindEnv("feed.venues", "ARB_FEED_VENUES")
	v.BindEnv("feed.reference_venue", "ARB_FEED_REFERENCE_VENUE")
	v.BindEnv("feed.jitter_pct", "ARB_FEED_JITTER_PCT")

	// Arbitrage
	v.BindEnv("arbitrage.intelligence", "ARB_INTELLIGENCE")
	v.BindEnv("arbitrage.investment_amount", "ARB_INVESTMENT_AMOUNT")
	v.BindEnv("arbitrage.max_per_trade", "ARB_MAX_PER_TRADE")
	v.BindEnv("arbitrage.auto_run", "ARB_AUTO_RUN")
	v.BindEnv("arbitrage.strategies.direct", "ARB_STRATEGY_DIRECT")
	v.BindEnv("arbitrage.strategies.triangular", "ARB_STRATEGY_TRIANGULAR")
	v.BindEnv("arbitrage.strategies.quadrilateral", "ARB_STRATEGY_QUADRILATERAL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "solarb-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Feed defaults
	v.SetDefault("feed.venues", []string{"Raydium", "Jupiter", "Orca", "Meteora"})
	v.SetDefault("feed.reference_venue", "Raydium")
	v.SetDefault("feed.jitter_pct", 0.5)
	v.SetDefault("feed.stale_timeout", "30s")

	// Arbitrage defaults
	v.SetDefault("arbitrage.strategies.direct", true)
	v.SetDefault("arbitrage.strategies.triangular", true)
	v.SetDefault("arbitrage.strategies.quadrilateral", false)
	v.SetDefault("arbitrage.intelligence", "medium")
	v.SetDefault("arbitrage.investment_amount", 100)
	v.SetDefault("arbitrage.max_per_trade", 50)
	v.SetDefault("arbitrage.detect_interval", "10s")
	v.SetDefault("arbitrage.execute_interval", "2s")
	v.SetDefault("arbitrage.auto_run", false)
	v.SetDefault("arbitrage.max_trades_per_minute", 10)
	v.SetDefault("arbitrage.history_size", 100)
	v.SetDefault("arbitrage.quad_samples_per_cycle", 3)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "solarb-engine")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Feed.Venues) < 2 {
		return fmt.Errorf("feed.venues requires at least two venues, got %d", len(c.Feed.Venues))
	}
	refFound := false
	for _, venue := range c.Feed.Venues {
		if venue == c.Feed.ReferenceVenue {
			refFound = true
			break
		}
	}
	if !refFound {
		return fmt.Errorf("feed.reference_venue %q is not one of feed.venues", c.Feed.ReferenceVenue)
	}
	switch c.Arbitrage.Intelligence {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("arbitrage.intelligence must be low, medium or high, got %q", c.Arbitrage.Intelligence)
	}
	if c.Arbitrage.InvestmentAmount < 0 {
		return fmt.Errorf("arbitrage.investment_amount must be >= 0")
	}
	if c.Arbitrage.MaxPerTrade < 0 {
		return fmt.Errorf("arbitrage.max_per_trade must be >= 0")
	}
	if c.Arbitrage.DetectInterval <= 0 || c.Arbitrage.ExecuteInterval <= 0 {
		return fmt.Errorf("arbitrage intervals must be positive")
	}
	if c.Arbitrage.HistorySize <= 0 {
		return fmt.Errorf("arbitrage.history_size must be positive")
	}
	return nil
}
