package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is loaded once at startup and
// passed by injection; nothing re-reads the environment per call.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string
	HTTPAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	NetSuite NetSuiteConfig
}

// NetSuiteConfig carries the token-based-auth credentials for the NetSuite
// REST endpoint. When Mock is set the live client is never constructed and
// the credential fields may be empty.
type NetSuiteConfig struct {
	AccountID      string
	ConsumerKey    string
	ConsumerSecret string
	TokenID        string
	TokenSecret    string
	BaseURL        string
	Mock           bool
	TimeoutMs      int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "quotesync"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "quotesync"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		NetSuite: NetSuiteConfig{
			AccountID:      strings.TrimSpace(getenv("NETSUITE_ACCOUNT_ID", "")),
			ConsumerKey:    strings.TrimSpace(getenv("NETSUITE_CONSUMER_KEY", "")),
			ConsumerSecret: strings.TrimSpace(getenv("NETSUITE_CONSUMER_SECRET", "")),
			TokenID:        strings.TrimSpace(getenv("NETSUITE_TOKEN_ID", "")),
			TokenSecret:    strings.TrimSpace(getenv("NETSUITE_TOKEN_SECRET", "")),
			BaseURL:        strings.TrimSpace(getenv("NETSUITE_BASE_URL", "")),
			Mock:           getenvBool("NETSUITE_MOCK", false),
			TimeoutMs:      getenvInt("NETSUITE_TIMEOUT_MS", 30000),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
