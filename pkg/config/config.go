// Package config loads familytree settings from a TOML file and the
// environment.
//
// A missing file at the default location is not an error; every field has
// a default. Values are applied in order: defaults, file, environment,
// command-line flags (the last by the caller).
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"          # file | redis | none
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"          # memory | file | mongo
//	mongo_uri = "mongodb://localhost:27017"
//
//	[layout]
//	node_width = 180
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/store"
)

const appName = "familytree"

// Environment overrides.
const (
	EnvRedisAddr = "FAMILYTREE_REDIS_ADDR"
	EnvMongoURI  = "FAMILYTREE_MONGO_URI"
)

// Backends.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Config is the full configuration.
type Config struct {
	Server ServerConfig   `toml:"server"`
	Cache  CacheConfig    `toml:"cache"`
	Store  StoreConfig    `toml:"store"`
	Layout layout.Options `toml:"layout"`
	Render RenderConfig   `toml:"render"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	// MaxBodyBytes limits request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// CacheConfig selects the layout cache.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	// Prefix scopes keys when several deployments share one Redis.
	Prefix string `toml:"prefix"`
}

// StoreConfig selects the tree store.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Style string `toml:"style"`
}

// Duration is a time.Duration written as "30s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{30 * time.Second},
			WriteTimeout:    Duration{60 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
			MaxBodyBytes:    10 << 20,
		},
		Cache: CacheConfig{Backend: BackendFile},
		Store: StoreConfig{Backend: BackendMemory, Database: store.DefaultDatabase},
		Render: RenderConfig{
			Style: "simple",
		},
	}
}

// Load reads the file at path over the defaults and applies environment
// overrides. An empty path loads DefaultPath if it exists.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
}

// Validate checks backend names and layout options.
func (c Config) Validate() error {
	if err := errors.ValidateFormat(c.Cache.Backend, BackendFile, BackendRedis, BackendNone); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "cache backend")
	}
	if err := errors.ValidateFormat(c.Store.Backend, BackendMemory, BackendFile, BackendMongo); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "store backend")
	}
	if c.Store.Backend == BackendMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store backend mongo needs mongo_uri or %s", EnvMongoURI)
	}
	return c.Layout.Validate()
}

// OpenCache builds the configured cache. Redis connection failures are
// returned, not downgraded.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.RedisAddr)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir := c.Dir
	if dir == "" {
		d, err := CacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// Keyer returns the cache keyer, scoped when a prefix is set.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Prefix+":")
}

// OpenStore builds the configured tree store. logger receives store
// warnings; it may be nil.
func (c StoreConfig) OpenStore(ctx context.Context, logger *log.Logger) (store.Store, error) {
	switch c.Backend {
	case BackendMongo:
		ms, err := store.NewMongoStore(ctx, c.MongoURI, c.Database)
		if err != nil {
			return nil, err
		}
		return ms, nil
	case BackendFile:
		fs, err := store.NewFileStore(c.Dir)
		if err != nil {
			return nil, err
		}
		fs.SetLogger(logger)
		return fs, nil
	}
	return store.NewMemoryStore(), nil
}

// DefaultPath is $XDG_CONFIG_HOME/familytree/config.toml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// CacheDir is $XDG_CACHE_HOME/familytree (~/.cache/familytree).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}
