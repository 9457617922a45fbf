package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CUSTOMER_SERVICE_URL", "http://localhost:8081")
	t.Setenv("ACCOUNT_SERVICE_URL", "http://localhost:8082")
	t.Setenv("CARD_SERVICE_URL", "http://localhost:8083")
}

func TestLoadConfigDefaultsPort(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.JWKSURL != "" {
		t.Fatalf("expected JWKS_URL to be optional, got %q", cfg.JWKSURL)
	}
}

func TestLoadConfigRequiredKeys(t *testing.T) {
	keys := []string{"CUSTOMER_SERVICE_URL", "ACCOUNT_SERVICE_URL", "CARD_SERVICE_URL"}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			setRequiredEnv(t)
			t.Setenv(key, "")

			_, err := LoadConfig()
			if err == nil {
				t.Fatalf("expected missing %s error", key)
			}
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected error to mention %s, got %v", key, err)
			}
		})
	}
}
