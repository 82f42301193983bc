package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	RedisURL    string
	DataDir     string        // Root of quest definition files; quests live under DataDir/quests
	SessionTTL  time.Duration // How long an idle session survives in Redis
}

// rawEnv holds the environment values before conversion.
type rawEnv struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	Environment string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	RedisURL    string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	DataDir     string        `env:"DATA_DIR" envDefault:"./data"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if raw.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", raw.SessionTTL)
	}

	return &Config{
		Port:        raw.Port,
		Environment: raw.Environment,
		LogLevel:    parseLogLevel(raw.LogLevel),
		RedisURL:    raw.RedisURL,
		DataDir:     raw.DataDir,
		SessionTTL:  raw.SessionTTL,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
