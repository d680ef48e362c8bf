package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/flagx"
	"github.com/dmitrijs2005/tasktracker/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration, so both "15m" and integer nanoseconds are accepted.
// Pointer fields distinguish "absent" from an explicit false or zero.
type JsonConfig struct {
	EndpointAddrHTTP           string         `json:"endpoint_addr_http"`
	BaseURL                    string         `json:"base_url"`
	DatabaseDriver             string         `json:"database_driver"`
	DatabaseDSN                string         `json:"database_dsn"`
	SecretKey                  string         `json:"secret_key"`
	SessionValidityDuration    timex.Duration `json:"session_validity_duration"`
	ResetTokenValidityDuration timex.Duration `json:"reset_token_validity_duration"`
	ResetTokenRetention        timex.Duration `json:"reset_token_retention"`
	RevokeSiblingResetTokens   *bool          `json:"revoke_sibling_reset_tokens"`
	BcryptCost                 int            `json:"bcrypt_cost"`
	LogLevel                   string         `json:"log_level"`
	SecureCookies              *bool          `json:"secure_cookies"`
}

// parseJson overlays values from the file named by -c/-config. Fields
// missing from the file keep their current value. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.BaseURL, c.BaseURL)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)

	if c.SessionValidityDuration.Duration > 0 {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.ResetTokenValidityDuration.Duration > 0 {
		config.ResetTokenValidityDuration = c.ResetTokenValidityDuration.Duration
	}
	if c.ResetTokenRetention.Duration > 0 {
		config.ResetTokenRetention = c.ResetTokenRetention.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.RevokeSiblingResetTokens != nil {
		config.RevokeSiblingResetTokens = *c.RevokeSiblingResetTokens
	}
	if c.SecureCookies != nil {
		config.SecureCookies = *c.SecureCookies
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
