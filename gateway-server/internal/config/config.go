/**
 * @description
 * Configuration management for the gateway-server, loaded from environment
 * variables via viper. JWKS_URL is optional; without it the gateway proxies
 * requests unauthenticated, which is only appropriate for local development.
 */
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the gateway-server.
type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	CustomerServiceURL string `mapstructure:"CUSTOMER_SERVICE_URL"`
	AccountServiceURL  string `mapstructure:"ACCOUNT_SERVICE_URL"`
	CardServiceURL     string `mapstructure:"CARD_SERVICE_URL"`
	JWKSURL            string `mapstructure:"JWKS_URL"`
	ExpectedAudience   string `mapstructure:"JWT_AUDIENCE"`
	ExpectedIssuer     string `mapstructure:"JWT_ISSUER"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal.
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("CUSTOMER_SERVICE_URL")
	_ = viper.BindEnv("ACCOUNT_SERVICE_URL")
	_ = viper.BindEnv("CARD_SERVICE_URL")
	_ = viper.BindEnv("JWKS_URL")
	_ = viper.BindEnv("JWT_AUDIENCE")
	_ = viper.BindEnv("JWT_ISSUER")

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
