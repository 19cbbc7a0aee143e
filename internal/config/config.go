package config

import (
	"log/slog"
	"os"

	"github.com/arenakit/match-replay-service/internal/observability/logging"
)

type Config struct {
	Port     string
	LogLevel slog.Level
	Replay   *ReplayConfig
	Backend  *BackendConfig
	Redis    *RedisConfig
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		Replay:   LoadReplayConfig(),
		Backend:  LoadBackendConfig(),
		Redis:    redisConfig,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
