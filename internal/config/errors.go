package config

import "errors"

var (
	ErrRedisAddrMissing    = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB      = errors.New("REDIS_DB must be a valid integer")
	ErrReplayConfigMissing = errors.New("replay configuration missing")
	ErrUnknownStoreKind    = errors.New("REPLAY_STORE must be memory or redis")
)
