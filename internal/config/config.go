package config

import (
	"os"
	"strings"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server
	Port        string
	CORSOrigins string

	// Well-known accounts, resolved by email. DefaultFollowEmails are
	// auto-followed at sign-up; AnonymousStreamEmail backs the stream
	// for unauthenticated viewers.
	DefaultFollowEmails  string
	AnonymousStreamEmail string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "snowball"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		DefaultFollowEmails:  getEnv("DEFAULT_FOLLOW_EMAILS", "hello@snowball.is,onboarding@snowball.is"),
		AnonymousStreamEmail: getEnv("ANONYMOUS_STREAM_EMAIL", "onboarding@snowball.is"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// DefaultFollows returns the configured default-follow emails, trimmed
// and with blanks dropped.
func (c *Config) DefaultFollows() []string {
	parts := strings.Split(c.DefaultFollowEmails, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
