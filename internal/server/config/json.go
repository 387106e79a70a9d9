package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/pivault/internal/flagx"
	"github.com/dmitrijs2005/pivault/internal/timex"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
// Duration fields accept both strings such as "24h" and integer nanoseconds
// via timex.Duration. After unmarshalling, non-zero fields are copied into
// the runtime Config, so an absent field keeps its default.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	TOTPIssuer            string         `json:"totp_issuer"`
	Argon2Time            uint32         `json:"argon2_time"`
	Argon2MemoryKB        uint32         `json:"argon2_memory_kb"`
	Argon2Parallelism     uint8          `json:"argon2_parallelism"`
	BruteForceWindow      timex.Duration `json:"brute_force_window"`
	BruteForceMaxAttempts int            `json:"brute_force_max_attempts"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, if any. A missing flag means no JSON overlay; an
// unreadable or invalid file panics, since starting with a half-applied
// security configuration is worse than not starting.
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

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.TOTPIssuer != "" {
		config.TOTPIssuer = c.TOTPIssuer
	}
	if c.Argon2Time != 0 {
		config.Argon2Time = c.Argon2Time
	}
	if c.Argon2MemoryKB != 0 {
		config.Argon2MemoryKB = c.Argon2MemoryKB
	}
	if c.Argon2Parallelism != 0 {
		config.Argon2Parallelism = c.Argon2Parallelism
	}
	if c.BruteForceWindow.Duration != 0 {
		config.BruteForceWindow = c.BruteForceWindow.Duration
	}
	if c.BruteForceMaxAttempts != 0 {
		config.BruteForceMaxAttempts = c.BruteForceMaxAttempts
	}
}
