package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Reports  ReportsConfig  `mapstructure:"reports"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MigrationsPath string `mapstructure:"migrations_path"`
	MaxConnections int    `mapstructure:"max_connections"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ReportsConfig holds reporting policy knobs. The cross-sell/upsell splits
// partition estimated AI-assisted conversions per category and must sum
// to 1.0.
type ReportsConfig struct {
	CrossSellSplit      float64 `mapstructure:"cross_sell_split"`
	UpsellSplit         float64 `mapstructure:"upsell_split"`
	InteractionLimit    int     `mapstructure:"interaction_limit"`
	ProductLimit        int     `mapstructure:"product_limit"`
	RecommendedLimit    int     `mapstructure:"recommended_limit"`
	CategoryLimit       int     `mapstructure:"category_limit"`
	PaymentHistoryLimit int     `mapstructure:"payment_history_limit"`
	AlertsLimit         int     `mapstructure:"alerts_limit"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()

	// Override specific values from env
	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("server.mode", "GIN_MODE")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.mode", "release")

	// Database defaults
	viper.SetDefault("database.path", "./data/analytics.db")
	viper.SetDefault("database.migrations_path", "./migrations")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.auto_migrate", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	// CORS defaults
	viper.SetDefault("cors.allowed_origins", []string{"*"})

	// Report policy defaults
	viper.SetDefault("reports.cross_sell_split", 0.6)
	viper.SetDefault("reports.upsell_split", 0.4)
	viper.SetDefault("reports.interaction_limit", 10)
	viper.SetDefault("reports.product_limit", 20)
	viper.SetDefault("reports.recommended_limit", 5)
	viper.SetDefault("reports.category_limit", 8)
	viper.SetDefault("reports.payment_history_limit", 12)
	viper.SetDefault("reports.alerts_limit", 20)
}

// Validate checks the configuration for completeness and correctness
func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errors = append(errors, "server.port must be between 1 and 65535")
	}
	if c.Server.Host == "" {
		errors = append(errors, "server.host cannot be empty")
	}
	if c.Database.Path == "" {
		errors = append(errors, "database.path cannot be empty")
	}
	if c.Database.MaxConnections <= 0 {
		errors = append(errors, "database.max_connections must be positive")
	}
	if c.Reports.CrossSellSplit < 0 || c.Reports.UpsellSplit < 0 {
		errors = append(errors, "reports splits cannot be negative")
	}
	if sum := c.Reports.CrossSellSplit + c.Reports.UpsellSplit; sum > 1.0001 {
		errors = append(errors, "reports.cross_sell_split and reports.upsell_split cannot sum above 1.0")
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errors, "; "))
	}
	return nil
}
