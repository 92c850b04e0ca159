package util

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AllowedOrigins          []string      `mapstructure:"ALLOWED_ORIGINS"`
	DatabaseURL             string        `mapstructure:"DATABASE_URL"`
	HTTPServerAddress       string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	RedisServerAddress      string        `mapstructure:"REDIS_SERVER_ADDRESS"`
	LalamoveAPIKey          string        `mapstructure:"LALAMOVE_API_KEY"`
	LalamoveAPISecret       string        `mapstructure:"LALAMOVE_API_SECRET"`
	LalamoveWebhookSecret   string        `mapstructure:"LALAMOVE_WEBHOOK_SECRET"`
	LalamoveSandboxURL      string        `mapstructure:"LALAMOVE_SANDBOX_URL"`
	LalamoveMarket          string        `mapstructure:"LALAMOVE_MARKET"`
	LalamoveAPIUser         string        `mapstructure:"LALAMOVE_API_USER"`
	DeliveryRedispatchDelay time.Duration `mapstructure:"DELIVERY_REDISPATCH_DELAY"`
	NgrokAuthToken          string        `mapstructure:"NGROK_AUTHTOKEN"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	// Set defaults for non-sensitive config
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("LALAMOVE_SANDBOX_URL", "https://rest.sandbox.lalamove.com")
	viper.SetDefault("LALAMOVE_MARKET", "PH")
	viper.SetDefault("DELIVERY_REDISPATCH_DELAY", "5m")

	// Prefer environment variables over config file
	viper.AutomaticEnv()

	// Load config file
	viper.SetConfigFile(path)
	if err = viper.ReadInConfig(); err != nil {
		return
	}

	// Unmarshal config into struct
	err = viper.UnmarshalExact(&config)
	if err != nil {
		return
	}

	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if config.RedisServerAddress == "" {
		return fmt.Errorf("REDIS_SERVER_ADDRESS is required")
	}
	if config.LalamoveAPIKey == "" {
		return fmt.Errorf("LALAMOVE_API_KEY is required")
	}
	if config.LalamoveAPISecret == "" {
		return fmt.Errorf("LALAMOVE_API_SECRET is required")
	}
	if config.LalamoveWebhookSecret == "" {
		return fmt.Errorf("LALAMOVE_WEBHOOK_SECRET is required")
	}

	return nil
}
