package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"bybitconn/pkg/bybit"
	"bybitconn/pkg/core"
)

// Environment variables read for credentials, after the dotenv file is loaded.
const (
	envAPIKey    = "BYBIT_API_KEY"
	envAPISecret = "BYBIT_API_SECRET"
)

type LogConfig struct {
	Level      string `toml:"level" validate:"oneof=trace debug info warn error"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" validate:"min=0"`
	MaxBackups int    `toml:"max_backups" validate:"min=0"`
	MaxAgeDays int    `toml:"max_age_days" validate:"min=0"`
	Compress   bool   `toml:"compress"`
}

type StreamConfig struct {
	Endpoint       string        `toml:"endpoint" validate:"omitempty,url"`
	Topics         []string      `toml:"topics"`
	PingInterval   time.Duration `toml:"ping_interval" validate:"min=0"`
	RestartOnError bool          `toml:"restart_on_error"`
	BufferSize     int           `toml:"buffer_size" validate:"min=0"`
}

// Config is the bybitctl config file.
type Config struct {
	Log    LogConfig    `toml:"log"`
	REST   core.Config  `toml:"rest"`
	Stream StreamConfig `toml:"stream"`
}

func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 7,
		},
		REST: *core.DefaultConfig(core.ContractLinear),
		Stream: StreamConfig{
			Endpoint:       bybit.LinearPublicWSURL,
			PingInterval:   20 * time.Second,
			RestartOnError: true,
			BufferSize:     bybit.DefaultBufferSize,
		},
	}
}

// Load decodes path over the defaults and validates the result. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	applyDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Stream.PingInterval <= 0 {
		cfg.Stream.PingInterval = 20 * time.Second
	}
	if cfg.Stream.BufferSize <= 0 {
		cfg.Stream.BufferSize = bybit.DefaultBufferSize
	}
}

var validate = validator.New()

func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := validate.Struct(cfg.Stream); err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	if err := cfg.REST.Validate(); err != nil {
		return fmt.Errorf("rest: %w", err)
	}
	if len(cfg.Stream.Topics) > 0 && strings.TrimSpace(cfg.Stream.Endpoint) == "" {
		return errors.New("stream.endpoint empty but topics set")
	}
	return nil
}

// credentialsFromEnv returns nil unless both halves of the key pair are set.
func credentialsFromEnv() *core.Credentials {
	creds := &core.Credentials{
		APIKey:    strings.TrimSpace(os.Getenv(envAPIKey)),
		SecretKey: strings.TrimSpace(os.Getenv(envAPISecret)),
	}
	if !creds.Valid() {
		return nil
	}
	return creds
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
