package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	JWTSigningKey  string
	AdminToken     string
	DataDir        string
	SessionTimeout time.Duration

	Email    Email
	Redis    RedisConfig
	Postgres PostgresConfig
}

// Email configures the transactional email relay. When neither SendGrid nor
// SMTP is configured the relay logs messages instead of sending them.
type Email struct {
	SendGridAPIKey string
	FromEmail      string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
}

// RedisConfig configures the optional Redis-backed document store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional Postgres user store.
type PostgresConfig struct {
	DSN string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SHOPFOLIO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	dataDir := os.Getenv("SHOPFOLIO_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	return Server{
		Addr:           addr,
		JWTSigningKey:  jwtSigningKey,
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		DataDir:        dataDir,
		SessionTimeout: durationEnv("SESSION_TIMEOUT", 30*time.Minute),
		Email: Email{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			FromEmail:      os.Getenv("FROM_EMAIL"),
			SMTPHost:       os.Getenv("SMTP_HOST"),
			SMTPPort:       intEnv("SMTP_PORT", 587),
			SMTPUsername:   os.Getenv("SMTP_USERNAME"),
			SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
	}
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}
