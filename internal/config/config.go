// Package config loads the tendril.yaml configuration, the optional .env file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config path is given. It may be absent.
const DefaultFile = "tendril.yaml"

// Environment variables.
const (
	EnvAPIKey       = "OPENAI_API_KEY"
	EnvBaseURL      = "OPENAI_BASE_URL"
	EnvModel        = "TENDRIL_MODEL"
	EnvStore        = "TENDRIL_STORE"
	EnvRedisAddr    = "TENDRIL_REDIS_ADDR"
	EnvLogLevel     = "TENDRIL_LOG_LEVEL"
	EnvMaxInputSize = "TENDRIL_MAX_INPUT_SIZE"
)

// Agent modes.
const (
	ModeChat  = "chat"
	ModeTools = "tools"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// ErrMissingCredential is returned when the model API key is not configured.
var ErrMissingCredential = errors.New("missing credential: " + EnvAPIKey + " is not set")

// Config is the top-level configuration.
type Config struct {
	Model  ModelConfig  `yaml:"model"`
	Agent  AgentConfig  `yaml:"agent"`
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
	Search SearchConfig `yaml:"search"`
	Log    LogConfig    `yaml:"log"`
}

// ModelConfig describes the chat model endpoint.
type ModelConfig struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	// ChatTemperature applies to the conversation graph, ToolTemperature to the tool graph.
	ChatTemperature float32 `yaml:"chat_temperature"`
	ToolTemperature float32 `yaml:"tool_temperature"`
}

// AgentConfig selects and tunes the graph.
type AgentConfig struct {
	Mode         string `yaml:"mode"`
	MaxRounds    int    `yaml:"max_rounds"` // round cap per invocation; always enforced
	PromptDir    string `yaml:"prompt_dir"`
	Prompt       string `yaml:"prompt"`
	MaxInputSize int    `yaml:"max_input_size"`
}

// StoreConfig selects the thread store.
type StoreConfig struct {
	Driver string      `yaml:"driver"`
	Path   string      `yaml:"path"`
	Redis  RedisConfig `yaml:"redis"`
	// EncryptionKey is a base64 AES-256 key. Empty disables encryption.
	EncryptionKey string   `yaml:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys"`
	// Redact lists regular expressions masked before saving.
	Redact []string `yaml:"redact"`
}

// RedisConfig configures the redis driver.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"` //nolint:gosec // configuration field
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Metrics bool   `yaml:"metrics"`
}

// SearchConfig configures the web search backend.
type SearchConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model: ModelConfig{
			Name:            "gpt-4o-mini",
			ChatTemperature: 0.7,
			ToolTemperature: 0,
		},
		Agent: AgentConfig{
			Mode:         ModeTools,
			MaxRounds:    10,
			MaxInputSize: 4096,
		},
		Store: StoreConfig{
			Driver: DriverFile,
			Path:   ".tendril/threads",
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				LockTTL: 30 * time.Second,
			},
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
		Search: SearchConfig{
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path reads DefaultFile when it exists. References such as
// ${VAR} in the file are expanded before parsing.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from path. Missing files are ignored.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Model.BaseURL = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Model.Name = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		c.Store.Driver = strings.ToLower(v)
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvMaxInputSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvMaxInputSize, err)
		}
		c.Agent.MaxInputSize = n
	}
	return nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	switch c.Agent.Mode {
	case ModeChat, ModeTools:
	default:
		return fmt.Errorf("config: agent.mode %q: want %q or %q", c.Agent.Mode, ModeChat, ModeTools)
	}
	if c.Agent.MaxRounds < 1 {
		return fmt.Errorf("config: agent.max_rounds must be at least 1, got %d", c.Agent.MaxRounds)
	}
	if c.Agent.MaxInputSize < 0 {
		return fmt.Errorf("config: agent.max_input_size must not be negative")
	}
	for name, t := range map[string]float32{
		"chat_temperature": c.Model.ChatTemperature,
		"tool_temperature": c.Model.ToolTemperature,
	} {
		if t < 0 || t > 2 {
			return fmt.Errorf("config: model.%s %.2f out of range [0, 2]", name, t)
		}
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Store.Path == "" {
			return fmt.Errorf("config: store.path is required for the file driver")
		}
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("config: store.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// RequireCredential fails with ErrMissingCredential when no API key is set.
// Commands that call the model check it before building any graph.
func (c Config) RequireCredential() error {
	if strings.TrimSpace(c.Model.APIKey) == "" {
		return ErrMissingCredential
	}
	return nil
}

// Temperature returns the sampling temperature for the configured mode.
func (c Config) Temperature(mode string) float32 {
	if mode == ModeChat {
		return c.Model.ChatTemperature
	}
	return c.Model.ToolTemperature
}
