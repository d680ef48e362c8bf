// Package config handles configuration for the server and the admin tool:
// defaults, an optional JSON file, environment variables (.env aware) and
// command-line flags, applied in that order.
package config

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the task tracker.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the web UI.
//   - BaseURL: public origin used to build password reset links.
//   - DatabaseDriver: "sqlite" or "pgx".
//   - DatabaseDSN: driver-specific DSN.
//   - SecretKey: HMAC secret for session tokens (HS256). Do not use the default in prod.
//   - SessionValidityDuration: lifetime of a login session.
//   - ResetTokenValidityDuration: how long a reset link can be used.
//   - ResetTokenRetention: age after which sweep-resets removes reset rows.
//   - RevokeSiblingResetTokens: a successful reset also kills the user's other links.
//   - BcryptCost: bcrypt work factor for password hashes.
//   - LogLevel: debug, info, warn or error.
//   - SecureCookies: mark cookies Secure (serve over HTTPS).
type Config struct {
	EndpointAddrHTTP           string
	BaseURL                    string
	DatabaseDriver             string
	DatabaseDSN                string
	SecretKey                  string
	SessionValidityDuration    time.Duration
	ResetTokenValidityDuration time.Duration
	ResetTokenRetention        time.Duration
	RevokeSiblingResetTokens   bool
	BcryptCost                 int
	LogLevel                   string
	SecureCookies              bool
}

// DefaultSecretKey is the development session secret. Anyone who knows it
// can mint sessions, so the server warns when it is in effect.
const DefaultSecretKey = "secretKey"

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = "127.0.0.1:5000"
	c.BaseURL = "http://127.0.0.1:5000"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:tasks.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	c.SecretKey = DefaultSecretKey
	c.SessionValidityDuration = 7 * 24 * time.Hour
	c.ResetTokenValidityDuration = 15 * time.Minute
	c.ResetTokenRetention = 24 * time.Hour
	c.RevokeSiblingResetTokens = false
	c.BcryptCost = bcrypt.DefaultCost
	c.LogLevel = "info"
	c.SecureCookies = false
}

// UsesDefaultSecret reports whether SecretKey was left at DefaultSecretKey.
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// LoadConfig builds a Config from defaults, then the optional JSON file,
// then the environment, then command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
