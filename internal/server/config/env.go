package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the process environment. A .env file in
// the working directory is loaded first if present; variables already set
// in the environment win over the file.
//
// Recognised variables:
//
//	ADDRESS, BASE_URL, DATABASE_DRIVER, DATABASE_DSN, SECRET_KEY,
//	SESSION_TTL, RESET_TOKEN_TTL, RESET_TOKEN_RETENTION (Go durations, e.g. "15m"),
//	REVOKE_SIBLING_RESET_TOKENS, SECURE_COOKIES (booleans),
//	BCRYPT_COST (integer), LOG_LEVEL.
//
// Malformed values panic, like the other loaders.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	envString("ADDRESS", &config.EndpointAddrHTTP)
	envString("BASE_URL", &config.BaseURL)
	envString("DATABASE_DRIVER", &config.DatabaseDriver)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("SECRET_KEY", &config.SecretKey)
	envString("LOG_LEVEL", &config.LogLevel)

	envDuration("SESSION_TTL", &config.SessionValidityDuration)
	envDuration("RESET_TOKEN_TTL", &config.ResetTokenValidityDuration)
	envDuration("RESET_TOKEN_RETENTION", &config.ResetTokenRetention)

	envBool("REVOKE_SIBLING_RESET_TOKENS", &config.RevokeSiblingResetTokens)
	envBool("SECURE_COOKIES", &config.SecureCookies)

	if v, ok := os.LookupEnv("BCRYPT_COST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("BCRYPT_COST: %w", err))
		}
		config.BcryptCost = n
	}
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = d
}

func envBool(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = b
}
