package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Validator is implemented by config structs that check their own invariants
// after parsing.
type Validator interface {
	Validate() error
}

// Load reads the given .env files (or ./.env when none are named) into the
// process environment, parses it into v and runs v.Validate when available.
//
// A missing default .env is ignored; explicitly named files must exist.
// Variables already set in the environment are never overridden.
//
//	type Config struct {
//		AppDomain string `env:"APP_DOMAIN,required"`
//		Locales   []string `env:"SUPPORTED_LOCALES" envDefault:"en"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T, files ...string) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := LoadEnv(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return Parse(v, nil)
}

// Parse fills v from environ, or from the process environment when environ
// is nil, then validates it.
func Parse[T any](v *T, environ map[string]string) error {
	if v == nil {
		return ErrNilPointer
	}

	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(v, opts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	if val, ok := any(v).(Validator); ok {
		if err := val.Validate(); err != nil {
			return errors.Join(ErrInvalidConfig, err)
		}
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, files ...string) {
	if err := Load(v, files...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnv loads .env files into the process environment.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadingEnvFile, err)
	}
	return nil
}
