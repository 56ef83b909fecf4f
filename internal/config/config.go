package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Only JWT_SECRET is mandatory; every other value has
// a development default.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	DBDriver       string        // "mysql" or "sqlite3"
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	DBPath         string        // sqlite file (or file: URI) when DBDriver is sqlite3
	JWTSecret      string        // secret used to sign JWTs
	JWTIssuer      string        // "iss" claim written to and required on tokens
	AccessTTL      time.Duration // access token time-to-live
	BcryptCost     int           // bcrypt cost for password hashing
	RequestTimeout time.Duration // upper bound for store calls made by a request

	Cache  AccountCacheConfig
	Redis  RedisConfig
	Events EventsConfig
}

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" when none are
// given) into the process environment. Variables that are already set win,
// and a missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// Load reads configuration values from environment variables and returns a
// Config. An error is returned when a required variable is missing or a
// value cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           getenv("APP_PORT", "8000"),
		DBDriver:       getenv("DB_DRIVER", "mysql"),
		DBUser:         getenv("DB_USER", "root"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         getenv("DB_HOST", "127.0.0.1"),
		DBPort:         getenv("DB_PORT", "3306"),
		DBName:         getenv("DB_NAME", "scoped_auth"),
		DBPath:         getenv("DB_PATH", "scoped_auth.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTIssuer:      getenv("JWT_ISSUER", "scoped-auth"),
		RequestTimeout: envDur("REQUEST_TIMEOUT", 5*time.Second),
		Cache:          LoadAccountCacheConfig(),
		Redis:          LoadRedisConfig(),
		Events:         LoadEventsConfig(),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	ttlMin, err := getenvInt("ACCESS_TOKEN_TTL_MIN", 30)
	if err != nil {
		return Config{}, err
	}
	if ttlMin <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL_MIN must be positive, got %d", ttlMin)
	}
	cfg.AccessTTL = time.Duration(ttlMin) * time.Minute

	if cfg.BcryptCost, err = getenvInt("BCRYPT_COST", 12); err != nil {
		return Config{}, err
	}

	switch cfg.DBDriver {
	case "mysql", "sqlite3":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

// String returns a representation safe for logs (secrets masked).
func (c Config) String() string {
	return fmt.Sprintf("Config{env=%s port=%s db=%s/%s token_ttl=%s jwt_secret=*** cache=%t events=%t}",
		c.Env, c.Port, c.DBDriver, c.DBName, c.AccessTTL, c.Cache.Enabled, c.Events.Enabled)
}
