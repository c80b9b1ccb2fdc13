package persist

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for an Updater.
type Config struct {
	// JoinByDefault is the process-wide default for whether a nested
	// Atomically call joins the enclosing block's pending write. A call may
	// override it with AtomicOptions.Join.
	// Default: true
	JoinByDefault bool `yaml:"join_by_default"`

	// WriteRetryMax bounds the total time NewMongoCollection spends retrying
	// a transient write failure before giving up. Zero disables retries.
	// Default: 10s
	WriteRetryMax time.Duration `yaml:"write_retry_max"`
}

// DefaultConfig returns the defaults: nested blocks join their parent and
// transient write errors are retried for up to ten seconds.
func DefaultConfig() Config {
	return Config{
		JoinByDefault: true,
		WriteRetryMax: 10 * time.Second,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.WriteRetryMax < 0 {
		c.WriteRetryMax = 0
	}
}

// UnmarshalYAML fills only the keys present in the document, so defaults
// survive partial configs; durations use Go syntax ("500ms", "2s").
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		JoinByDefault *bool   `yaml:"join_by_default"`
		WriteRetryMax *string `yaml:"write_retry_max"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.JoinByDefault != nil {
		c.JoinByDefault = *raw.JoinByDefault
	}
	if raw.WriteRetryMax != nil {
		d, err := time.ParseDuration(*raw.WriteRetryMax)
		if err != nil {
			return fmt.Errorf("write_retry_max: %w", err)
		}
		c.WriteRetryMax = d
	}
	return nil
}

// ParseConfig reads a Config from YAML, filling unset fields from
// DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.validate()
	return cfg, nil
}

// LoadConfig reads a YAML config file from disk.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}
