package config

import (
	"log/slog"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	ServerAddr  string `mapstructure:"SERVER_ADDR"`

	JWTSecret       string `mapstructure:"JWT_SECRET"`
	JWTExpiresHours int    `mapstructure:"JWT_EXPIRES_HOURS"`

	GoogleClientID string `mapstructure:"GOOGLE_CLIENT_ID"`
	// GoogleAllowUnverified permits the insecure fallback decode of Google
	// tokens when the verifier is unreachable. Off unless explicitly enabled.
	GoogleAllowUnverified bool `mapstructure:"GOOGLE_ALLOW_UNVERIFIED"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("JWT_EXPIRES_HOURS", 168)
	viper.SetDefault("GOOGLE_ALLOW_UNVERIFIED", false)

	if err := viper.ReadInConfig(); err != nil {
		slog.Warn(".env file not found, loading from environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		slog.Error("unable to decode config", "error", err)
		panic(err)
	}
}
