package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey string
	GeminiModel  string

	RapidAPIKey      string
	StreamingAPIURL  string
	StreamingCountry string

	HTTPPort           string
	CORSAllowedOrigins []string
	RateLimitPerMinute int

	ServerURL    string
	StoreBackend string
	StorePath    string

	LogLevel  string
	LogFormat string

	// EnvFileLoaded and Warnings are reported by main once logging is set up.
	EnvFileLoaded bool
	Warnings      []string
}

var AppConfig Config

// Load reads an optional .env file and the process environment into AppConfig.
func Load() Config {
	envErr := godotenv.Load()

	AppConfig = Config{
		EnvFileLoaded:      envErr == nil,
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		RapidAPIKey:        getEnv("RAPIDAPI_KEY", ""),
		StreamingAPIURL:    getEnv("STREAMING_API_URL", "https://streaming-availability.p.rapidapi.com"),
		StreamingCountry:   getEnv("STREAMING_COUNTRY", "us"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ServerURL:          getEnv("MANGO_SERVER_URL", "http://localhost:8080"),
		StoreBackend:       getEnv("MANGO_STORE_BACKEND", "sqlite"),
		StorePath:          getEnv("MANGO_STORE_PATH", "mango.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}
	return AppConfig
}

// LoadServerConfig loads the configuration and checks the keys the proxy
// server cannot run without.
func LoadServerConfig() (Config, error) {
	cfg := Load()
	if cfg.GeminiAPIKey == "" {
		return cfg, errors.New("GEMINI_API_KEY environment variable is required")
	}
	if cfg.RapidAPIKey == "" {
		cfg.Warnings = append(cfg.Warnings, "RAPIDAPI_KEY not set, streaming lookups will be unavailable")
	}
	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
