package config

import (
	"os"
	"strconv"
)

const (
	replayEnabledEnv      = "REPLAY_ENABLED"
	maxReplaysPerUserEnv  = "MAX_REPLAYS_PER_USER"
	maxDurationSecondsEnv = "REPLAY_MAX_DURATION_SECONDS"
	replayStoreEnv        = "REPLAY_STORE"

	defaultMaxReplaysPerUser  = 10
	defaultMaxDurationSeconds = 600

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type ReplayConfig struct {
	Enabled            bool
	MaxReplaysPerUser  int
	MaxDurationSeconds int
	Store              string
}

func LoadReplayConfig() *ReplayConfig {
	maxReplays := defaultMaxReplaysPerUser
	if v := os.Getenv(maxReplaysPerUserEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxReplays = parsed
		}
	}

	// 0 means unlimited, so non-positive overrides are only rejected below zero.
	maxDuration := defaultMaxDurationSeconds
	if v := os.Getenv(maxDurationSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			maxDuration = parsed
		}
	}

	storeKind := getEnvOrDefault(replayStoreEnv, StoreMemory)

	return &ReplayConfig{
		Enabled:            os.Getenv(replayEnabledEnv) == "true",
		MaxReplaysPerUser:  maxReplays,
		MaxDurationSeconds: maxDuration,
		Store:              storeKind,
	}
}
