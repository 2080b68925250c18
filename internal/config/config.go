// Package config resolves the command line configuration: an optional YAML
// file, then environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jrsteele09/go-implicit-auth/implicit"
	"github.com/jrsteele09/go-implicit-auth/webauth"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCacheTTL  = time.Hour
	defaultCacheName = "implicitauth"
)

// Cache configures where harvested tokens are kept between runs.
type Cache struct {
	Dir string `yaml:"dir"`
	// Key encrypts the cache files. An empty key keeps tokens in memory only.
	Key string `yaml:"key"`
	// TTL applies to tokens that carry no expiry of their own.
	TTL time.Duration `yaml:"ttl"`
}

// Config is the resolved configuration.
type Config struct {
	AppName  string          `yaml:"-"`
	Env      string          `yaml:"-"`
	Implicit implicit.Config `yaml:"implicit"`
	WebAuth  webauth.Config  `yaml:"webauth"`
	Cache    Cache           `yaml:"cache"`
}

// Load reads path when it is not empty and applies environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("[config Load] read file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("[config Load] parse YAML: %w", err)
		}
	}

	env := EnvVars{}
	cfg.AppName = env.GetAppName()
	cfg.Env = env.GetEnv()

	cfg.Implicit.Username = env.GetUsername(cfg.Implicit.Username)
	cfg.Implicit.Password = env.GetPassword(cfg.Implicit.Password)
	cfg.Implicit.ClientID = env.GetClientID(cfg.Implicit.ClientID)
	cfg.Implicit.RedirectURI = env.GetRedirectURI(cfg.Implicit.RedirectURI)

	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = defaultCacheDir()
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	cfg.Cache.Dir = env.GetCacheDir(cfg.Cache.Dir)
	cfg.Cache.Key = env.GetCacheKey(cfg.Cache.Key)
	cfg.Cache.TTL = env.GetCacheTTL(cfg.Cache.TTL)

	return &cfg, nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "." + defaultCacheName
	}
	return filepath.Join(dir, defaultCacheName)
}
