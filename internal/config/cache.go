package config

import "time"

// AccountCacheConfig defines settings for the Redis cache that sits in front
// of account lookups by email. When Enabled is false or no Redis client could
// be created, lookups go straight to the database. TTL bounds how long a
// cached account may be served; Prefix namespaces the keys.
type AccountCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadAccountCacheConfig reads environment variables to build an
// AccountCacheConfig. Defaults are used when variables are not set.
func LoadAccountCacheConfig() AccountCacheConfig {
	cfg := AccountCacheConfig{
		Enabled: envBool("ACCOUNT_CACHE_ENABLED", false),
		TTL:     envDur("ACCOUNT_CACHE_TTL", 30*time.Second),
		Prefix:  getenv("ACCOUNT_CACHE_PREFIX", "acct"),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
}
