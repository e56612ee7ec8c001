// Package config loads engine tuning knobs from YAML.
package config

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds the engine's tunable parameters. Load starts from Default,
// so a partial YAML document only overrides the fields it sets.
type Config struct {
	// StatementTimeout bounds how long a query may run before its
	// context's cancellation signal fires, checked at stage boundaries.
	// Zero means no timeout.
	StatementTimeout time.Duration `yaml:"statement_timeout"`
	// JoinHashThreshold is the minimum hash-side document count below
	// which the join engine skips bucketing and compares directly.
	// Zero means always bucket.
	JoinHashThreshold int `yaml:"join_hash_threshold"`
}

// Default returns the engine's built-in configuration.
func Default() Config {
	return Config{StatementTimeout: 30 * time.Second}
}

// Load reads a YAML config document, applying it on top of Default.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	raw, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("config: read: %w", err)
	}
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}
