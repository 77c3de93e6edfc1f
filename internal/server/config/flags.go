package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/identitykeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line
// flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-x string   Redis address for distributed locks
//	-s string   JWT HMAC signing key
//	-i string   JWT issuer (empty skips issuer validation)
//	-u string   JWT audience (empty skips audience validation)
//	-t int      access token lifetime, minutes
//	-r int      refresh token lifetime, days
//	-n int      refresh token entropy, bytes
//
// The function first filters os.Args to only the flags it recognizes
// using flagx.FilterArgs, avoiding collisions with other components.
// Lock tuning has no flags; it is configured via the JSON file.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-x", "-s", "-i", "-u", "-t", "-r", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "x", config.RedisAddr, "redis address")
	fs.StringVar(&config.JwtSigningKey, "s", config.JwtSigningKey, "JWT signing key")
	fs.StringVar(&config.Issuer, "i", config.Issuer, "JWT issuer")
	fs.StringVar(&config.Audience, "u", config.Audience, "JWT audience")
	fs.IntVar(&config.AccessTokenExpirationMinutes, "t", config.AccessTokenExpirationMinutes, "access token expiration (in minutes)")
	fs.IntVar(&config.RefreshTokenExpirationDays, "r", config.RefreshTokenExpirationDays, "refresh token expiration (in days)")
	fs.IntVar(&config.RefreshTokenBytesLength, "n", config.RefreshTokenBytesLength, "refresh token length (in bytes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
