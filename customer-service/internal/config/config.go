/**
 * @description
 * Configuration management for the customer-service, loaded from environment
 * variables via viper.
 */
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the customer-service.
type Config struct {
	ServerPort        string `mapstructure:"SERVER_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	AccountServiceURL string `mapstructure:"ACCOUNT_SERVICE_URL"`
	RabbitMQURL       string `mapstructure:"RABBITMQ_URL"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8081")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal.
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("ACCOUNT_SERVICE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")

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
