package config

import (
	"os"
	"strings"
	"time"
)

const (
	appNameVar     = "APP_NAME"
	usernameVar    = "IMPLICIT_USERNAME"
	passwordVar    = "IMPLICIT_PASSWORD"
	clientIDVar    = "IMPLICIT_CLIENT_ID"
	redirectURIVar = "IMPLICIT_REDIRECT_URI"
	cacheDirVar    = "IMPLICIT_CACHE_DIR"
	cacheKeyVar    = "IMPLICIT_CACHE_KEY"
	cacheTTLVar    = "IMPLICIT_CACHE_TTL"
	envVar         = "ENV"
)

// EnvVars reads overrides from the environment. Every getter falls back to
// the value it is given.
type EnvVars struct{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Implicit Auth")
}

func (EnvVars) GetUsername(fallback string) string {
	return GetEnv(usernameVar, fallback)
}

func (EnvVars) GetPassword(fallback string) string {
	return GetEnv(passwordVar, fallback)
}

func (EnvVars) GetClientID(fallback string) string {
	return GetEnv(clientIDVar, fallback)
}

func (EnvVars) GetRedirectURI(fallback string) string {
	return GetEnv(redirectURIVar, fallback)
}

func (EnvVars) GetCacheDir(fallback string) string {
	return GetEnv(cacheDirVar, fallback)
}

func (EnvVars) GetCacheKey(fallback string) string {
	return GetEnv(cacheKeyVar, fallback)
}

// GetCacheTTL ignores values that do not parse as a duration.
func (EnvVars) GetCacheTTL(fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnv(cacheTTLVar, ""))
	if err != nil {
		return fallback
	}
	return d
}

func (EnvVars) GetEnv() string {
	return strings.ToUpper(GetEnv(envVar, "DEV"))
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
