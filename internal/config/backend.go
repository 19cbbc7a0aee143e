package config

import (
	"os"
	"strconv"
	"time"
)

const (
	backendURLEnv         = "REPLAY_BACKEND_URL"
	backendTimeoutEnv     = "REPLAY_BACKEND_TIMEOUT_SECONDS"
	defaultBackendTimeout = 10
)

// BackendConfig locates the optional external replay backend. An empty URL
// means the capability is absent for this process.
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

func LoadBackendConfig() *BackendConfig {
	timeoutSeconds := defaultBackendTimeout
	if v := os.Getenv(backendTimeoutEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			timeoutSeconds = parsed
		}
	}

	return &BackendConfig{
		URL:     os.Getenv(backendURLEnv),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}
