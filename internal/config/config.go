// Package config loads gcodeopt configuration from an optional YAML file,
// with environment variables taking precedence. A .env file in the working
// directory is honored before the environment is read.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all gcodeopt configuration.
type Config struct {
	// SpindleDelaySeconds is the dwell inserted after each spindle start.
	// Zero disables the insertion.
	SpindleDelaySeconds int `yaml:"spindle_delay_seconds"`

	// MinZLimit is the machine's minimum-Z travel limit. Omitting it
	// disables the Z-limit check entirely.
	MinZLimit *float64 `yaml:"min_z_limit"`

	// StateFile is where the last-used tool is remembered between runs.
	StateFile string `yaml:"state_file"`

	Machine MachineConfig `yaml:"machine"`
	Logging LoggingConfig `yaml:"logging"`
}

// MachineConfig describes the machine facts the safety checks need.
type MachineConfig struct {
	// ZOffset is the active work offset on the Z axis.
	ZOffset float64 `yaml:"z_offset"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		SpindleDelaySeconds: 3,
		StateFile:           ".gcodeopt_state.json",
	}
}

// Load reads the YAML file at path when it exists, then applies environment
// overrides. An empty path skips the file and uses defaults plus overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No file is fine, defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GCODEOPT_SPINDLE_DELAY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SpindleDelaySeconds = n
		}
	}
	if v := os.Getenv("GCODEOPT_MIN_Z_LIMIT"); v != "" {
		if v == "off" {
			c.MinZLimit = nil
		} else if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MinZLimit = &f
		}
	}
	if v := os.Getenv("GCODEOPT_Z_OFFSET"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Machine.ZOffset = f
		}
	}
	if v := os.Getenv("GCODEOPT_STATE_FILE"); v != "" {
		c.StateFile = v
	}
	if v := os.Getenv("GCODEOPT_DEBUG"); v == "1" || v == "true" {
		c.Logging.Debug = true
	}
}
