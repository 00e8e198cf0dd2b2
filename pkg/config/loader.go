// Package config loads typed configuration structs from environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates dst from environment variables declared with `env` tags,
// applying `envDefault` values for unset variables.
func Load(dst any) error {
	if err := env.Parse(dst); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
