// Package config loads threadstone's optional TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/threadstone/threadstone/workload"
)

// DefaultPath is the config file read when --config is not given. A missing
// default file is not an error.
const DefaultPath = "threadstone.toml"

// Config is the full configuration surface.
type Config struct {
	Run     RunConfig     `toml:"run"`
	Stream  StreamConfig  `toml:"stream"`
	Signing SigningConfig `toml:"signing"`
	Upload  UploadConfig  `toml:"upload"`
}

// RunConfig holds the defaults for the run command.
type RunConfig struct {
	Workload string `toml:"workload"`
	// Threads of 0 selects one per logical CPU.
	Threads int    `toml:"threads"`
	Samples int    `toml:"samples"`
	Output  string `toml:"output"`
	Sign    bool   `toml:"sign"`
}

// StreamConfig tunes the STREAM triad workload.
type StreamConfig struct {
	Size       int `toml:"size"`
	Iterations int `toml:"iterations"`
}

// SigningConfig locates the Ed25519 key files.
type SigningConfig struct {
	PrivateKey string `toml:"private_key"`
	PublicKey  string `toml:"public_key"`
}

// UploadConfig configures the result collection server.
type UploadConfig struct {
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

// Duration is a time.Duration that decodes from strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a time.ParseDuration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = v

	return nil
}

// MarshalText renders the duration as time.Duration.String does.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Workload: "dhrystone",
			Threads:  0,
			Samples:  5,
		},
		Stream: StreamConfig{
			Size:       workload.DefaultStreamSize,
			Iterations: workload.DefaultStreamIterations,
		},
		Signing: SigningConfig{
			PrivateKey: filepath.Join("keys", "threadstone.key"),
			PublicKey:  filepath.Join("keys", "threadstone.pub"),
		},
		Upload: UploadConfig{
			Timeout: Duration{30 * time.Second},
		},
	}
}

// Load reads path over the defaults. An empty path means DefaultPath, which
// may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	if filepath.Ext(path) != ".toml" {
		return nil, fmt.Errorf("config must be a .toml file: %s", path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in config %s: %v", path, undecoded)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.Run.Workload = strings.ToLower(strings.TrimSpace(c.Run.Workload))
	c.Upload.Endpoint = strings.TrimSpace(c.Upload.Endpoint)
}

// Validate checks value ranges. It is also called after flag overrides.
func (c *Config) Validate() error {
	if c.Run.Threads < 0 {
		return fmt.Errorf("run.threads must not be negative, got %d", c.Run.Threads)
	}
	if c.Run.Samples < 1 {
		return fmt.Errorf("run.samples must be at least 1, got %d", c.Run.Samples)
	}
	if c.Stream.Size < 1 {
		return fmt.Errorf("stream.size must be positive, got %d", c.Stream.Size)
	}
	if c.Stream.Iterations < 1 {
		return fmt.Errorf("stream.iterations must be positive, got %d", c.Stream.Iterations)
	}
	if c.Upload.Timeout.Duration < 0 {
		return fmt.Errorf("upload.timeout must not be negative")
	}

	return nil
}

// WorkloadOptions maps the stream section onto workload tuning.
func (c *Config) WorkloadOptions() workload.Options {
	return workload.Options{
		StreamSize:       c.Stream.Size,
		StreamIterations: c.Stream.Iterations,
	}
}
