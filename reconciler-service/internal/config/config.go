/**
 * @description
 * Configuration management for the reconciler-service, loaded from
 * environment variables via viper.
 */
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the reconciler-service.
type Config struct {
	SweepSchedule      string `mapstructure:"SWEEP_SCHEDULE"`
	SweepPageSize      int    `mapstructure:"SWEEP_PAGE_SIZE"`
	CustomerServiceURL string `mapstructure:"CUSTOMER_SERVICE_URL"`
	AccountServiceURL  string `mapstructure:"ACCOUNT_SERVICE_URL"`
	CardServiceURL     string `mapstructure:"CARD_SERVICE_URL"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("SWEEP_SCHEDULE", "0 * * * *")
	viper.SetDefault("SWEEP_PAGE_SIZE", 100)
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal.
	_ = viper.BindEnv("SWEEP_SCHEDULE")
	_ = viper.BindEnv("SWEEP_PAGE_SIZE")
	_ = viper.BindEnv("CUSTOMER_SERVICE_URL")
	_ = viper.BindEnv("ACCOUNT_SERVICE_URL")
	_ = viper.BindEnv("CARD_SERVICE_URL")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.CustomerServiceURL == "" {
		return nil, fmt.Errorf("CUSTOMER_SERVICE_URL is required")
	}
	if config.AccountServiceURL == "" {
		return nil, fmt.Errorf("ACCOUNT_SERVICE_URL is required")
	}
	if config.CardServiceURL == "" {
		return nil, fmt.Errorf("CARD_SERVICE_URL is required")
	}

	return &config, nil
}
