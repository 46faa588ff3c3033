// Package config loads the portal configuration from config/<env>.yaml.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverMongo  = "mongo"
	DriverValkey = "valkey"
	DriverMemory = "memory"
)

// Config holds the portal configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Collections CollectionsConfig `yaml:"collections"`
	Auth        AuthConfig        `yaml:"auth"`
	Search      SearchConfig      `yaml:"search"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig selects and configures the document store.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // mongo, valkey, memory (default: mongo)
	Name             string   `yaml:"name"`   // database holding the collections
	URI              string   `yaml:"uri"`    // mongo
	Addrs            []string `yaml:"addrs"`  // valkey
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"` // valkey
	SeedFile         string   `yaml:"seed_file"`  // memory
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CollectionsConfig names the collections the portal reads.
type CollectionsConfig struct {
	Images string `yaml:"images"`
	Users  string `yaml:"users"`
}

// AuthConfig holds login and session settings.
type AuthConfig struct {
	// Salt is prepended to passwords before hashing. Hex-encoded when it
	// starts with "hex:", raw bytes otherwise.
	Salt          string `yaml:"salt"`
	SessionTTLMin int    `yaml:"session_ttl_min"`
	CookieName    string `yaml:"cookie_name"`
	SecureCookie  bool   `yaml:"secure_cookie"`
}

// SearchConfig bounds result sizes.
type SearchConfig struct {
	DefaultLimit   int  `yaml:"default_limit"`
	MaxLimit       int  `yaml:"max_limit"`
	AllowUnbounded bool `yaml:"allow_unbounded"`
}

// Load reads configuration from a YAML file by environment name (local, test, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates one YAML file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse substitutes environment references, decodes YAML, applies defaults
// and validates.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMongo
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Collections.Images == "" {
		c.Collections.Images = "images"
	}
	if c.Collections.Users == "" {
		c.Collections.Users = "users"
	}
	if c.Auth.SessionTTLMin <= 0 {
		c.Auth.SessionTTLMin = 12 * 60
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "pfin_session"
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 24
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 200
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.URI == "" {
			return fmt.Errorf("database.uri is required for driver %q", DriverMongo)
		}
	case DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", DriverValkey)
		}
		if strings.Contains(c.Database.Name, ":") {
			return fmt.Errorf("database.name must not contain ':' for driver %q", DriverValkey)
		}
	case DriverMemory:
		// seed_file is optional
	default:
		return fmt.Errorf("database.driver must be one of %s, got %q",
			strings.Join([]string{DriverMongo, DriverValkey, DriverMemory}, ", "), c.Database.Driver)
	}
	if c.Auth.Salt == "" {
		return fmt.Errorf("auth.salt is required")
	}
	if _, err := c.Auth.SaltBytes(); err != nil {
		return err
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) exceeds search.max_limit (%d)",
			c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Collections.Images == c.Collections.Users {
		return fmt.Errorf("collections.images and collections.users must differ")
	}
	return nil
}

// SaltBytes decodes the configured salt.
func (a AuthConfig) SaltBytes() ([]byte, error) {
	if hexSalt, ok := strings.CutPrefix(a.Salt, "hex:"); ok {
		b, err := hex.DecodeString(hexSalt)
		if err != nil {
			return nil, fmt.Errorf("auth.salt: invalid hex: %w", err)
		}
		return b, nil
	}
	return []byte(a.Salt), nil
}

// findConfigPath locates <env>.yaml. PFIN_CONFIG wins when set; otherwise
// ./config is tried before the repository's config directory, which lets tests
// run from any package directory.
func findConfigPath(env string) string {
	if p := os.Getenv("PFIN_CONFIG"); p != "" {
		return p
	}
	name := env + ".yaml"
	candidates := []string{filepath.Join("config", name)}
	if _, self, _, ok := runtime.Caller(0); ok {
		root := filepath.Join(filepath.Dir(self), "..", "..")
		candidates = append(candidates, filepath.Join(root, "config", name))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return candidates[0]
}

// envRef matches ${NAME} and ${NAME:-fallback}. Bare $NAME is left alone so
// secrets containing '$' survive.
var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(resolveEnv(string(envRef.FindSubmatch(ref)[1])))
	})
}

// resolveEnv evaluates the body of one reference. An empty variable counts as
// unset for the fallback.
func resolveEnv(expr string) string {
	name, fallback, _ := strings.Cut(expr, ":-")
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
