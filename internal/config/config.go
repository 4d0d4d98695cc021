package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	AllowedOrigins []string

	DBDriver             string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int

	RedisURL      string
	RedisPassword string
	MoveCacheTTL  time.Duration

	JWTSecret    string
	GameTokenTTL time.Duration

	BotDepthMedium int
	BotDepthHard   int

	SessionIdleTimeout time.Duration
	CleanupInterval    time.Duration

	SelfPlayOutDir string
}

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	allowedOrigins := []string{
		"http://localhost:5173", // Local development
	}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	// Database Config
	driver := GetEnv("DB_DRIVER", "postgres")
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	if driver == "pgx" {
		dbURL = withSimpleProtocol(dbURL)
	}

	return &Config{
		Port:           port,
		AllowedOrigins: allowedOrigins,

		DBDriver:             driver,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),

		RedisURL:      GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		MoveCacheTTL:  GetEnvAsDuration("MOVE_CACHE_TTL_MINUTES", 60, time.Minute),

		// Security
		JWTSecret:    GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		GameTokenTTL: GetEnvAsDuration("GAME_TOKEN_TTL_MINUTES", 120, time.Minute),

		BotDepthMedium: GetEnvAsInt("BOT_DEPTH_MEDIUM", 2),
		BotDepthHard:   GetEnvAsInt("BOT_DEPTH_HARD", 5),

		SessionIdleTimeout: GetEnvAsDuration("SESSION_IDLE_TIMEOUT_MINUTES", 30, time.Minute),
		CleanupInterval:    GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 5, time.Minute),

		SelfPlayOutDir: GetEnv("SELFPLAY_OUT_DIR", "selfplay"),
	}
}

// withSimpleProtocol appends simple_protocol for PgBouncer compatibility (pgx driver)
func withSimpleProtocol(dbURL string) string {
	if dbURL == "" {
		return dbURL
	}
	u, err := url.Parse(dbURL)
	if err != nil {
		return dbURL
	}
	q := u.Query()
	if q.Get("default_query_exec_mode") == "" {
		q.Set("default_query_exec_mode", "simple_protocol")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit.
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetEnvAsInt(key, defaultValue)) * unit
}
