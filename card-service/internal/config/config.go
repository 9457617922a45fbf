/**
 * @description
 * Configuration management for the card-service, loaded from environment
 * variables via viper. REDIS_URL is optional; without it issuance throttling
 * is disabled and only the holding rules apply.
 */
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the card-service.
type Config struct {
	ServerPort         string        `mapstructure:"SERVER_PORT"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	AccountServiceURL  string        `mapstructure:"ACCOUNT_SERVICE_URL"`
	RabbitMQURL        string        `mapstructure:"RABBITMQ_URL"`
	RedisURL           string        `mapstructure:"REDIS_URL"`
	IssueRateLimit     int           `mapstructure:"ISSUE_RATE_LIMIT"`
	IssueRateWindow    time.Duration `mapstructure:"ISSUE_RATE_WINDOW"`
	RateLimitKeyPrefix string        `mapstructure:"RATE_LIMIT_KEY_PREFIX"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8083")
	viper.SetDefault("ISSUE_RATE_LIMIT", 5)
	viper.SetDefault("ISSUE_RATE_WINDOW", "1m")
	viper.SetDefault("RATE_LIMIT_KEY_PREFIX", "lumenbank:rate_limit")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal.
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("ACCOUNT_SERVICE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("ISSUE_RATE_LIMIT")
	_ = viper.BindEnv("ISSUE_RATE_WINDOW")
	_ = viper.BindEnv("RATE_LIMIT_KEY_PREFIX")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if config.AccountServiceURL == "" {
		return nil, fmt.Errorf("ACCOUNT_SERVICE_URL is required")
	}

	return &config, nil
}
