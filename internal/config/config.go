package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	AppEnv       string
	DBDriver     string
	MySQLDSN     string
	SQLitePath   string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	SessionStore string
	SessionTTL   time.Duration
	JWTSecret    string
	BcryptCost   int
	CookieSecure bool
	CSRFEnabled  bool
	LogLevel     string
	LogFormat    string
	PerPage      int
	SwaggerHost  string
}

// Load builds Config from a .env file (when present) and the environment,
// falling back to development defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		AppEnv:       getEnv("APP_ENV", "development"),
		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		MySQLDSN:     getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/sampleapp?charset=utf8mb4&parseTime=True&loc=Local"),
		SQLitePath:   getEnv("SQLITE_PATH", "sampleapp.db"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		SessionStore: getEnv("SESSION_STORE", "redis"),
		SessionTTL:   getEnvDuration("SESSION_TTL", 24*time.Hour),
		JWTSecret:    getEnv("JWT_SECRET", "change-me"),
		BcryptCost:   getEnvInt("BCRYPT_COST", 10),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		CSRFEnabled:  getEnvBool("CSRF_ENABLED", true),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		PerPage:      getEnvInt("PER_PAGE", 30),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
	}
}

// Production reports whether the app runs with production settings.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
