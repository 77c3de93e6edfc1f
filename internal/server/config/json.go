package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/identitykeeper/internal/flagx"
	"github.com/dmitrijs2005/identitykeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. Lock intervals use timex.Duration, which accepts both
// string values such as "30s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files; after unmarshalling, its non-zero fields are
// copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	DatabaseDSN      string `json:"database_dsn"`
	RedisAddr        string `json:"redis_addr"`

	JwtSigningKey string `json:"jwt_signing_key"`
	Issuer        string `json:"issuer"`
	Audience      string `json:"audience"`

	AccessTokenExpirationMinutes int `json:"access_token_expiration_minutes"`
	RefreshTokenExpirationDays   int `json:"refresh_token_expiration_days"`
	RefreshTokenBytesLength      int `json:"refresh_token_bytes_length"`

	LockExpiry    timex.Duration `json:"lock_expiry"`
	LockWaitTime  timex.Duration `json:"lock_wait_time"`
	LockRetryTime timex.Duration `json:"lock_retry_time"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config
// command-line flags; when neither is set, no JSON file is loaded.
//
// If the file cannot be read or contains invalid JSON, the function
// panics: a requested-but-broken config file is not a condition to start
// under.
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

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	// Only keys present in the file override the defaults; an omitted
	// key must not reset its setting to the zero value.
	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.JwtSigningKey != "" {
		config.JwtSigningKey = c.JwtSigningKey
	}
	if c.Issuer != "" {
		config.Issuer = c.Issuer
	}
	if c.Audience != "" {
		config.Audience = c.Audience
	}
	if c.AccessTokenExpirationMinutes != 0 {
		config.AccessTokenExpirationMinutes = c.AccessTokenExpirationMinutes
	}
	if c.RefreshTokenExpirationDays != 0 {
		config.RefreshTokenExpirationDays = c.RefreshTokenExpirationDays
	}
	if c.RefreshTokenBytesLength != 0 {
		config.RefreshTokenBytesLength = c.RefreshTokenBytesLength
	}
	if c.LockExpiry.Duration != 0 {
		config.LockExpiry = time.Duration(c.LockExpiry.Duration)
	}
	if c.LockWaitTime.Duration != 0 {
		config.LockWaitTime = time.Duration(c.LockWaitTime.Duration)
	}
	if c.LockRetryTime.Duration != 0 {
		config.LockRetryTime = time.Duration(c.LockRetryTime.Duration)
	}
}
