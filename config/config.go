package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Flags are the command line options shared by the connekt binaries.
type Flags struct {
	EnvFile  string `long:"env-file" description:"path to a .env file" default:".env"`
	Port     int    `long:"port" description:"HTTP listen port, overrides PORT"`
	LogLevel string `long:"log-level" description:"log level, overrides LOG_LEVEL"`
}

type AppConfig struct {
	DatabaseURL    string
	RedisURL       string
	RabbitMQURL    string
	LogLevel       string
	ServiceName    string
	Port           int
	IdentityHeader string

	Presence  PresenceConfig
	Telemetry TelemetryConfig
	Gemini    GeminiConfig
}

type PresenceConfig struct {
	TTL time.Duration
}

type TelemetryConfig struct {
	Enabled bool
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// Addr is the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func LoadConfig(flags Flags) (*AppConfig, error) {
	// use a temporary logger for now
	logger := zap.NewExample().Named("config")

	envFile := flags.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		logger.Info("No .env file found", zap.String("path", envFile))
	}

	config := &AppConfig{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		ServiceName:    os.Getenv("SERVICE_NAME"),
		Port:           parseInt(os.Getenv("PORT"), 8080),
		IdentityHeader: os.Getenv("IDENTITY_HEADER"),
		Presence: PresenceConfig{
			TTL: parseDuration(os.Getenv("PRESENCE_TTL"), 2*time.Minute),
		},
		Telemetry: TelemetryConfig{
			Enabled: parseBool(os.Getenv("OTEL_ENABLED"), false),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  os.Getenv("GEMINI_MODEL"),
		},
	}

	if flags.Port != 0 {
		config.Port = flags.Port
	}
	if flags.LogLevel != "" {
		config.LogLevel = flags.LogLevel
	}

	if config.LogLevel == "" {
		config.LogLevel = "info" // Set default log level
	}
	if config.ServiceName == "" {
		config.ServiceName = "connekt"
	}
	if config.IdentityHeader == "" {
		config.IdentityHeader = "X-User-ID"
	}
	if config.Gemini.Model == "" {
		config.Gemini.Model = "gemini-2.0-flash"
	}

	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return config, nil
}

func parseDuration(val string, defaultVal time.Duration) time.Duration {
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func parseInt(val string, defaultVal int) int {
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func parseBool(val string, defaultVal bool) bool {
	if val == "" {
		return defaultVal
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultVal
}
