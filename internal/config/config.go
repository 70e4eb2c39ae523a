// Package config centralizes how LinguaShelf reads environment variables and
// exposes them as strongly typed Go values. A YAML profile can supply values
// that the environment does not set.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents runtime configuration for the client and the development
// backend.
type Config struct {
	// BackendURL is the compiled-in origin used until the runtime resource
	// has been resolved.
	BackendURL string
	// RuntimeConfig names the runtime resource: a relative or absolute file
	// path, or an http(s) URL.
	RuntimeConfig string
	ViewCacheTTL  time.Duration
	ViewCacheSize int

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
	S3Region    string

	DevAddress     string
	DevPublicURL   string
	MaxFileSize    int64
	SigningSecret  []byte
	SignedURLTTL   time.Duration
	ProcessingPool int
}

const (
	defaultBackendURL    = "http://localhost:8000"
	defaultRuntimeConfig = "config.json"
	defaultViewCacheTTL  = 2 * time.Minute
	defaultViewCacheSize = 128
	defaultS3Region      = "us-east-1"
	defaultDevAddress    = ":8000"
	defaultMaxFileSize   = 25 << 20 // 25 MiB
	defaultSignedTTL     = 5 * time.Minute
	defaultWorkerCount   = 2
)

// Profile mirrors the subset of Config that may come from a YAML file.
type Profile struct {
	BackendURL    string `yaml:"backend_url"`
	RuntimeConfig string `yaml:"runtime_config"`
	ViewCacheTTL  string `yaml:"view_cache_ttl"`
	ViewCacheSize int    `yaml:"view_cache_size"`
	S3            struct {
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		UseSSL    bool   `yaml:"use_ssl"`
		Region    string `yaml:"region"`
	} `yaml:"s3"`
	Dev struct {
		Address   string `yaml:"address"`
		PublicURL string `yaml:"public_url"`
		Workers   int    `yaml:"workers"`
	} `yaml:"dev"`
}

// Load reads configuration from the optional profile named by
// LINGUASHELF_PROFILE and then from environment variables, falling back to
// defaults. Environment values win over the profile.
func Load() (*Config, error) {
	cfg := defaults()
	if path := readEnv("LINGUASHELF_PROFILE", ""); path != "" {
		p, err := LoadProfile(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.apply(p); err != nil {
			return nil, err
		}
	}
	cfg.BackendURL = readEnv("LINGUASHELF_BACKEND_URL", cfg.BackendURL)
	cfg.RuntimeConfig = readEnv("LINGUASHELF_RUNTIME_CONFIG", cfg.RuntimeConfig)
	cfg.ViewCacheTTL = parseDuration("LINGUASHELF_VIEW_CACHE_TTL", cfg.ViewCacheTTL)
	cfg.ViewCacheSize = parseInt("LINGUASHELF_VIEW_CACHE_SIZE", cfg.ViewCacheSize)
	cfg.S3Endpoint = readEnv("LINGUASHELF_S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3AccessKey = readEnv("LINGUASHELF_S3_ACCESS_KEY", cfg.S3AccessKey)
	cfg.S3SecretKey = readEnv("LINGUASHELF_S3_SECRET_KEY", cfg.S3SecretKey)
	cfg.S3UseSSL = parseBool("LINGUASHELF_S3_USE_SSL", cfg.S3UseSSL)
	cfg.S3Region = readEnv("LINGUASHELF_S3_REGION", cfg.S3Region)
	cfg.DevAddress = readEnv("LINGUASHELF_DEV_ADDRESS", cfg.DevAddress)
	cfg.DevPublicURL = readEnv("LINGUASHELF_DEV_PUBLIC_URL", cfg.DevPublicURL)
	cfg.MaxFileSize = parseInt64("LINGUASHELF_MAX_FILE_BYTES", cfg.MaxFileSize)
	cfg.SigningSecret = parseSecret("LINGUASHELF_SIGNING_SECRET")
	cfg.SignedURLTTL = parseDuration("LINGUASHELF_SIGNED_TTL", cfg.SignedURLTTL)
	cfg.ProcessingPool = parseInt("LINGUASHELF_WORKERS", cfg.ProcessingPool)

	if cfg.SigningSecret == nil {
		cfg.SigningSecret = randomSecret()
	}
	if cfg.ProcessingPool <= 0 {
		cfg.ProcessingPool = defaultWorkerCount
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = defaultSignedTTL
	}
	if cfg.ViewCacheSize <= 0 {
		cfg.ViewCacheSize = defaultViewCacheSize
	}
	if cfg.DevPublicURL == "" {
		cfg.DevPublicURL = publicURL(cfg.DevAddress)
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		BackendURL:     defaultBackendURL,
		RuntimeConfig:  defaultRuntimeConfig,
		ViewCacheTTL:   defaultViewCacheTTL,
		ViewCacheSize:  defaultViewCacheSize,
		S3Region:       defaultS3Region,
		DevAddress:     defaultDevAddress,
		MaxFileSize:    defaultMaxFileSize,
		SignedURLTTL:   defaultSignedTTL,
		ProcessingPool: defaultWorkerCount,
	}
}

// LoadProfile decodes a YAML profile from disk.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}

func (c *Config) apply(p *Profile) error {
	if p.BackendURL != "" {
		c.BackendURL = p.BackendURL
	}
	if p.RuntimeConfig != "" {
		c.RuntimeConfig = p.RuntimeConfig
	}
	if p.ViewCacheTTL != "" {
		ttl, err := time.ParseDuration(p.ViewCacheTTL)
		if err != nil {
			return fmt.Errorf("profile view_cache_ttl: %w", err)
		}
		c.ViewCacheTTL = ttl
	}
	if p.ViewCacheSize > 0 {
		c.ViewCacheSize = p.ViewCacheSize
	}
	if p.S3.Endpoint != "" {
		c.S3Endpoint = p.S3.Endpoint
		c.S3AccessKey = p.S3.AccessKey
		c.S3SecretKey = p.S3.SecretKey
		c.S3UseSSL = p.S3.UseSSL
	}
	if p.S3.Region != "" {
		c.S3Region = p.S3.Region
	}
	if p.Dev.Address != "" {
		c.DevAddress = p.Dev.Address
	}
	if p.Dev.PublicURL != "" {
		c.DevPublicURL = p.Dev.PublicURL
	}
	if p.Dev.Workers > 0 {
		c.ProcessingPool = p.Dev.Workers
	}
	return nil
}

func publicURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func parseInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseSecret(key string) []byte {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return []byte(v)
	}
	return nil
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return []byte(hex.EncodeToString([]byte("fallbacksecret")))
	}
	return buf
}
