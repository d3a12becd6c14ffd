package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit config path is given. It is optional.
const DefaultFile = "wayfarer.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config holds the host settings shared by every wayfarer command.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	HTTP     HTTPConfig    `yaml:"http"`
	Store    StoreConfig   `yaml:"store"`
	Redis    RedisConfig   `yaml:"redis"`
	Catalog  CatalogConfig `yaml:"catalog"`
	Planner  PlannerConfig `yaml:"planner"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`

	// EncryptionKey is a base64 AES-256 key. When set, trip requests are sealed at rest.
	EncryptionKey string `yaml:"encryption_key"`

	// FallbackKeys decrypt sessions sealed before a key rotation.
	FallbackKeys []string `yaml:"fallback_keys"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// CatalogConfig points at optional catalog overrides.
// Path is a YAML catalog file; DestinationsDir is a markdown directory read through loam.
type CatalogConfig struct {
	Path            string `yaml:"path"`
	DestinationsDir string `yaml:"destinations_dir"`
}

// PlannerConfig selects an external itinerary planner. An empty Command keeps the built-in sample planner.
type PlannerConfig struct {
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel: "warn",
		HTTP:     HTTPConfig{Port: 8080},
		Store:    StoreConfig{Backend: BackendFile, Path: ".wayfarer/sessions"},
		Redis:    RedisConfig{Addr: "localhost:6379", Prefix: "wayfarer:session:"},
	}
}

// Load reads the YAML file at path over the defaults, then applies WAYFARER_* environment overrides.
// An empty path means DefaultFile, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.LogLevel = getEnv("WAYFARER_LOG_LEVEL", cfg.LogLevel)
	cfg.Store.Backend = getEnv("WAYFARER_STORE", cfg.Store.Backend)
	cfg.Store.Path = getEnv("WAYFARER_STORE_PATH", cfg.Store.Path)
	cfg.Store.EncryptionKey = getEnv("WAYFARER_ENCRYPTION_KEY", cfg.Store.EncryptionKey)
	cfg.Redis.Addr = getEnv("WAYFARER_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("WAYFARER_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.Prefix = getEnv("WAYFARER_REDIS_PREFIX", cfg.Redis.Prefix)
	cfg.Catalog.Path = getEnv("WAYFARER_CATALOG", cfg.Catalog.Path)
	cfg.Catalog.DestinationsDir = getEnv("WAYFARER_DESTINATIONS_DIR", cfg.Catalog.DestinationsDir)
	cfg.Planner.Command = getEnv("WAYFARER_PLANNER", cfg.Planner.Command)

	var err error
	if cfg.HTTP.Port, err = getEnvInt("WAYFARER_HTTP_PORT", cfg.HTTP.Port); err != nil {
		return err
	}
	if cfg.Redis.DB, err = getEnvInt("WAYFARER_REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}
	if v := os.Getenv("WAYFARER_REDIS_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WAYFARER_REDIS_TTL: %w", err)
		}
		cfg.Redis.TTL = ttl
	}
	return nil
}

// Validate reports settings no command can run with.
func (c Config) Validate() error {
	var missing []string
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Path == "" {
			missing = append(missing, "store.path")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			missing = append(missing, "redis.addr")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want memory, file or redis)", c.Store.Backend)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %v", missing)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.HTTP.Port)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	if c.Planner.Timeout < 0 {
		return fmt.Errorf("planner.timeout must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
