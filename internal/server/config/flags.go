package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/flagx"
)

var valueFlags = []string{"-a", "-b", "-m", "-d", "-s", "-t", "-e", "-n", "-k", "-l"}

// ValueFlags lists every flag that takes a separate value argument, the
// config file flags included. The admin tool uses it to find its
// positional command words.
var ValueFlags = append([]string{"-c", "-config"}, valueFlags...)

// BoolFlags lists the boolean flags.
var BoolFlags = []string{"-x", "-secure"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., "127.0.0.1:5000")
//	-b string   public base URL for reset links
//	-m string   database driver: sqlite or pgx
//	-d string   database DSN
//	-s string   session HMAC secret key
//	-t int      session validity, minutes
//	-e int      reset token validity, minutes
//	-n int      reset token retention, minutes
//	-k int      bcrypt cost
//	-l string   log level
//	-x          revoke the user's other reset tokens on a successful reset
//	-secure     mark cookies Secure
//
// Duration flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	allowed := append(append([]string{}, valueFlags...), BoolFlags...)
	args := flagx.FilterArgs(os.Args[1:], allowed, BoolFlags...)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.BaseURL, "b", config.BaseURL, "public base URL")
	fs.StringVar(&config.DatabaseDriver, "m", config.DatabaseDriver, "database driver (sqlite|pgx)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session_validity_duration (in minutes)")
	resetValidity := fs.Int("e", int(config.ResetTokenValidityDuration.Minutes()), "reset_token_validity_duration (in minutes)")
	resetRetention := fs.Int("n", int(config.ResetTokenRetention.Minutes()), "reset_token_retention (in minutes)")

	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.RevokeSiblingResetTokens, "x", config.RevokeSiblingResetTokens, "revoke sibling reset tokens")
	fs.BoolVar(&config.SecureCookies, "secure", config.SecureCookies, "secure cookies")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
	config.ResetTokenValidityDuration = time.Duration(*resetValidity) * time.Minute
	config.ResetTokenRetention = time.Duration(*resetRetention) * time.Minute
}
