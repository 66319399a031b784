package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config is the process configuration. Values come from the environment, with
// an optional TOML file layered on top for deployments that prefer files over
// env vars. The relay credential is the only toggle with behavioral weight:
// when absent, fetching degrades to direct-only and everything else still
// runs.
type Config struct {
	// RelayKey is the relay/proxy service credential. Optional.
	RelayKey string `env:"SCRAPERAPI_KEY" toml:"relay_key"`
	// DataDir holds the persisted snapshot files.
	DataDir string `env:"DATA_DIR" envDefault:"~/.local/share/fastpitch-events" toml:"data_dir"`
	// ListenAddr is the query service bind address.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":5000" toml:"listen_addr"`
	// Workers above 1 runs source adapters on a bounded pool.
	Workers int `env:"WORKERS" envDefault:"1" toml:"workers"`

	RelayRetries  int           `env:"RELAY_RETRIES" toml:"relay_retries"`
	DirectRetries int           `env:"DIRECT_RETRIES" toml:"direct_retries"`
	RelayTimeout  time.Duration `env:"RELAY_TIMEOUT" toml:"-"`
	DirectTimeout time.Duration `env:"DIRECT_TIMEOUT" toml:"-"`

	Verbose bool `env:"VERBOSE" toml:"verbose"`
}

// Load builds the configuration from the environment, then overlays the TOML
// file at path when one is given. A missing file at the default path is fine;
// an explicitly named file must exist.
func Load(path string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if path == "" {
		return cfg, nil
	}

	var file Config
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config file %s not found", path)
		}
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.overlay(file)

	return cfg, nil
}

// overlay applies the file's non-zero values over the env-derived config.
func (c *Config) overlay(file Config) {
	if file.RelayKey != "" {
		c.RelayKey = file.RelayKey
	}
	if file.DataDir != "" {
		c.DataDir = file.DataDir
	}
	if file.ListenAddr != "" {
		c.ListenAddr = file.ListenAddr
	}
	if file.Workers != 0 {
		c.Workers = file.Workers
	}
	if file.RelayRetries != 0 {
		c.RelayRetries = file.RelayRetries
	}
	if file.DirectRetries != 0 {
		c.DirectRetries = file.DirectRetries
	}
	if file.Verbose {
		c.Verbose = true
	}
}

// RelayEnabled reports whether a relay credential is configured.
func (c Config) RelayEnabled() bool { return c.RelayKey != "" }
