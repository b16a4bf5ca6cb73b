package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string // base64-encoded signing key
	JWTExpiry time.Duration

	// Optimistic-lock retry policy
	RetryMaxAttempts uint64
	RetryBackoff     time.Duration

	// Async dispatch
	WorkerCount int

	// User lookup cache
	UserCacheSize int

	// Server
	Port string

	// CORS
	CORSOrigins          string
	CORSHeaders          string
	CORSMethods          string
	CORSAllowCredentials bool
	CORSMaxAge           time.Duration

	// Log retention
	LogRetentionDays int
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "skyward_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "1h"), time.Hour),

		RetryMaxAttempts: parseUint(getEnv("RETRY_MAX_ATTEMPTS", "3"), 3),
		RetryBackoff:     parseDuration(getEnv("RETRY_BACKOFF", "50ms"), 50*time.Millisecond),

		WorkerCount:   parseInt(getEnv("WORKER_COUNT", "16"), 16),
		UserCacheSize: parseInt(getEnv("USER_CACHE_SIZE", "256"), 256),

		Port: getEnv("PORT", "8080"),

		CORSOrigins:          getEnv("CORS_ORIGINS", "*"),
		CORSHeaders:          getEnv("CORS_HEADERS", "Origin, Content-Type, Authorization, Accept"),
		CORSMethods:          getEnv("CORS_METHODS", "GET, POST, PUT, DELETE, OPTIONS"),
		CORSAllowCredentials: parseBool(getEnv("CORS_ALLOW_CREDENTIALS", "false")),
		CORSMaxAge:           parseDuration(getEnv("CORS_MAX_AGE", "1h"), time.Hour),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
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

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseUint(s string, fallback uint64) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
