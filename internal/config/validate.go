package config

func ValidateForRun(cfg *Config) error {
	if cfg.Replay == nil {
		return ErrReplayConfigMissing
	}
	switch cfg.Replay.Store {
	case StoreMemory:
	case StoreRedis:
		if err := cfg.Redis.Validate(); err != nil {
			return err
		}
	default:
		return ErrUnknownStoreKind
	}
	return nil
}
