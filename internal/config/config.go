package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	DatabaseURL        string
	RunMigrations      bool
	RedisAddr          string
	RedisPassword      string
	RosterCacheTTL     time.Duration
	JWTSecret          string
	JWTTTL             time.Duration
	CORSAllowedOrigins []string
	ClinicTimezone     string

	// Admin account ensured at startup; public signup only creates patients
	AdminUsername string
	AdminPassword string

	// Telegram delivery of appointment slips
	TelegramBotToken string
	ClinicChatID     int64

	ReportFontPaths []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RunMigrations:      getEnvAsBool("RUN_MIGRATIONS", true),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RosterCacheTTL:     getEnvAsDuration("ROSTER_CACHE_TTL", 5*time.Minute),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTTL:             getEnvAsDuration("JWT_TTL", 24*time.Hour),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ClinicTimezone:     getEnv("CLINIC_TIMEZONE", "UTC"),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		ClinicChatID:     getEnvAsInt64("CLINIC_CHAT_ID", 0),

		ReportFontPaths: getEnvAsList("REPORT_FONT_PATHS", []string{
			"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		}),
	}
}

// Location resolves ClinicTimezone, falling back to UTC for unknown names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate rejects settings the service must not start with.
func (c *Config) Validate() error {
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return errors.New("config: ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required in production")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
