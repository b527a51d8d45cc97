// Package config holds the environment-sourced process configuration. It is
// loaded and validated exactly once at startup and treated as read-only
// afterwards; any missing or invalid required setting prevents the process
// from starting.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8000"`

	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"postgres"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`

	SecretKey             string `env:"SECRET_KEY"`
	Algorithm             string `env:"ALGORITHM" envDefault:"HS256"`
	JWTIssuer             string `env:"JWT_ISSUER" envDefault:"naturkart"`
	AccessTokenExpireDays int    `env:"ACCESS_TOKEN_EXPIRE_DAYS" envDefault:"7"`

	KeycloakURL          string `env:"KEYCLOAK_URL"`
	KeycloakPublicURL    string `env:"KEYCLOAK_PUBLIC_URL"`
	KeycloakRealm        string `env:"KEYCLOAK_REALM"`
	KeycloakClientID     string `env:"KEYCLOAK_CLIENT_ID"`
	KeycloakClientSecret string `env:"KEYCLOAK_CLIENT_SECRET"`

	// FrontendURL doubles as the CORS allow-origin and the base of the OAuth
	// redirect URI.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// DisableAuth swaps the session resolver for a fixed test user. Only for
	// non-production test environments; resolved once at startup, never per
	// request.
	DisableAuth bool `env:"DISABLE_AUTH" envDefault:"false"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate runs validation rules for required and well-formed settings.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.PostgresUser, validation.Required),
		validation.Field(&c.PostgresPassword, validation.Required),
		validation.Field(&c.PostgresDB, validation.Required),
		validation.Field(&c.PostgresHost, validation.Required),
		validation.Field(&c.PostgresPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.SecretKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.Algorithm, validation.Required, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&c.JWTIssuer, validation.Required),
		validation.Field(&c.AccessTokenExpireDays, validation.Required, validation.Min(1)),
		validation.Field(&c.KeycloakURL, validation.Required, is.URL),
		validation.Field(&c.KeycloakPublicURL, validation.Required, is.URL),
		validation.Field(&c.KeycloakRealm, validation.Required),
		validation.Field(&c.KeycloakClientID, validation.Required),
		validation.Field(&c.KeycloakClientSecret, validation.Required),
		validation.Field(&c.FrontendURL, validation.Required, is.URL),
	)
}

// DatabaseDSN builds the Postgres connection string.
func (c Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
	)
}

// RedirectURI is the fixed OAuth callback location on the frontend.
func (c Config) RedirectURI() string {
	return c.FrontendURL + "/auth/callback"
}
