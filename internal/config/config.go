// YAML config loader with CUE schema validation
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"deconflict-sim/internal/engine"
)

// Config is the root configuration: engine constants plus server identity.
type Config struct {
	// SimID tags all emitted telemetry rows.
	SimID string `yaml:"sim_id"`
	// ListenAddr is the API server bind address.
	ListenAddr string `yaml:"listen_addr"`
	// Engine holds detection thresholds and mitigation offsets.
	Engine engine.Config `yaml:"engine"`
}

// Default returns a configuration with the reference constants.
func Default() *Config {
	return &Config{
		SimID:      "deconflict-01",
		ListenAddr: ":8080",
		Engine:     engine.DefaultConfig(),
	}
}

// Load reads a YAML config and validates it against a CUE schema first.
// Zero-valued engine fields fall back to the defaults when the engine is
// constructed, so a partial config is fine.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
