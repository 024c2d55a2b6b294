// Package config builds runtime configuration from environment variables so
// main stays lean. A .env file is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the server needs to wire itself.
type Config struct {
	Addr string

	// KVBackend selects the durable key-value store: memory, redis, postgres.
	KVBackend string

	Redis    RedisConfig
	Postgres PostgresConfig

	// JWTSigningKey signs the bearer tokens minted at sign-in.
	JWTSigningKey string
	// SessionTokenTTL bounds how long a minted bearer token stays valid.
	SessionTokenTTL time.Duration

	// GoogleClientID identifies the OAuth client the redirect flow belongs to.
	GoogleClientID string

	// AuditBrokers enables the Kafka audit publisher when non-empty.
	AuditBrokers []string
	AuditTopic   string
	AuditBuffer  int

	// SeedUserEmail provisions one password-directory account at startup.
	// Meant for local development; leave empty in real deployments.
	SeedUserEmail    string
	SeedUserPassword string
	SeedUserName     string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// RedisConfig holds connection settings for the redis KV backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds connection settings for the postgres KV backend.
type PostgresConfig struct {
	DSN string
}

// FromEnv builds a Config from environment variables. A local .env file is
// loaded first when one exists.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Addr:      getEnv("GOFINANCES_ADDR", ":8080"),
		KVBackend: getEnv("KV_BACKEND", "memory"),
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: getEnv("POSTGRES_DSN", ""),
		},
		JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SessionTokenTTL: getEnvDuration("SESSION_TOKEN_TTL", 24*time.Hour),
		GoogleClientID:  getEnv("GOOGLE_CLIENT_ID", ""),
		AuditBrokers:    splitList(getEnv("AUDIT_BROKERS", "")),
		AuditTopic:      getEnv("AUDIT_TOPIC", "gofinances.audit"),
		AuditBuffer:     getEnvInt("AUDIT_BUFFER", 256),

		SeedUserEmail:    getEnv("SEED_USER_EMAIL", ""),
		SeedUserPassword: getEnv("SEED_USER_PASSWORD", ""),
		SeedUserName:     getEnv("SEED_USER_NAME", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate returns an error describing every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	switch c.KVBackend {
	case "memory":
	case "redis":
		if c.Redis.URL == "" {
			problems = append(problems, "KV_BACKEND=redis requires REDIS_URL")
		}
	case "postgres":
		if c.Postgres.DSN == "" {
			problems = append(problems, "KV_BACKEND=postgres requires POSTGRES_DSN")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown KV_BACKEND %q (want memory, redis or postgres)", c.KVBackend))
	}

	if c.SessionTokenTTL <= 0 {
		problems = append(problems, "SESSION_TOKEN_TTL must be positive")
	}
	if len(c.AuditBrokers) > 0 && c.AuditTopic == "" {
		problems = append(problems, "AUDIT_BROKERS set but AUDIT_TOPIC empty")
	}
	if c.SeedUserEmail != "" && c.SeedUserPassword == "" {
		problems = append(problems, "SEED_USER_EMAIL set but SEED_USER_PASSWORD empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown LOG_LEVEL %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
