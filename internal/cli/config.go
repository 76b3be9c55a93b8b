package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds flag defaults taken from the environment. Flags given on the
// command line win.
type Env struct {
	Format string `env:"DOCSKEMA_FORMAT" envDefault:"json"`
	Lang   string `env:"DOCSKEMA_LANG" envDefault:"en"`
	DB     string `env:"DOCSKEMA_DB" envDefault:"sqlite://docskema.db"`
}

// ParseEnv loads Env from environment variables.
func ParseEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
