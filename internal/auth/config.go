package auth

import (
	"fmt"
	"time"

	"deployment-tracker/internal/config"
)

// AuthConfig holds the token settings used by the auth service
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

// NewAuthConfig derives the auth settings from the application configuration
func NewAuthConfig(cfg *config.Config) *AuthConfig {
	ttl := time.Duration(cfg.JWTExpiryMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  ttl,
		Issuer:    "deployment-tracker",
	}
}

// ValidateConfig validates the authentication configuration
func (c *AuthConfig) ValidateConfig() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token lifetime must be positive")
	}
	return nil
}
