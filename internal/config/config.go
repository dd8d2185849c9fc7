package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Config struct {
	HTTPAddr        string
	StoreDriver     string
	MySQLDSN        string
	RedisAddr       string
	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
	CORSOrigin      string
	LogLevel        slog.Level
	LogFormat       string

	// JWTSecretGenerated is set when Validate filled in a random JWT secret.
	JWTSecretGenerated bool
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverMySQL)),
		MySQLDSN:    getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/inventory"),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = getDuration("REFRESH_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	cfg.BcryptCost, err = strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret != "" {
		cfg.JWTSecret = []byte(secret)
	}

	return cfg, cfg.Validate()
}

// Validate checks settings shared by every command. With the memory driver a
// missing JWT secret is replaced by a random one for the process lifetime and
// JWTSecretGenerated is set so the caller can warn once logging is configured.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMySQL:
		if c.MySQLDSN == "" {
			return errors.New("MYSQL_DSN is not set")
		}
	case DriverMemory:
		if len(c.JWTSecret) == 0 {
			c.JWTSecret = generateRandomBytes(32)
			c.JWTSecretGenerated = true
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}

// RequireJWTSecret reports whether tokens can be signed.
func (c *Config) RequireJWTSecret() error {
	if len(c.JWTSecret) == 0 {
		return errors.New("JWT_SECRET is not set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(raw) == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return b
}
