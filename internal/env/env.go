// Package env reads the process-level settings shared by the microgen
// binaries from the environment.
package env

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are knobs which are awkward to pass on every command line.
type Settings struct {
	// LogLevel is one of debug, info, warn, or error.
	LogLevel string `env:"MICROGEN_LOG_LEVEL" envDefault:"info"`
	// MatFile is the control-point file used when -m isn't given.
	MatFile string `env:"MICROGEN_MAT_FILE" envDefault:"GeoGen.mat"`
}

// Parse loads configuration from environment variables into target.
func Parse(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the current Settings.
func Load() (*Settings, error) {
	s := &Settings{}
	if err := Parse(s); err != nil {
		return nil, err
	}
	return s, nil
}
