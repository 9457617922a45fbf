/**
 * @description
 * Configuration management for the account-service, loaded from environment
 * variables via viper.
 */
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the account-service.
type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	DatabaseURL        string `mapstructure:"DATABASE_URL"`
	CustomerServiceURL string `mapstructure:"CUSTOMER_SERVICE_URL"`
	CardServiceURL     string `mapstructure:"CARD_SERVICE_URL"`
	RabbitMQURL        string `mapstructure:"RABBITMQ_URL"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8082")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal.
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("CUSTOMER_SERVICE_URL")
	_ = viper.BindEnv("CARD_SERVICE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if config.CustomerServiceURL == "" {
		return nil, fmt.Errorf("CUSTOMER_SERVICE_URL is required")
	}
	if config.CardServiceURL == "" {
		return nil, fmt.Errorf("CARD_SERVICE_URL is required")
	}

	return &config, nil
}
