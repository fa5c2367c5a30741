// Package config loads application configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct parsing:
//
//	type Config struct {
//	    AppDomain string   `env:"APP_DOMAIN,required"`
//	    Locales   []string `env:"SUPPORTED_LOCALES" envDefault:"en" envSeparator:","`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Structs implementing Validator are checked right after parsing, so Load
// either returns a usable value or an error wrapping ErrInvalidConfig.
// Parse accepts an explicit environment map, which keeps tests independent of
// the process environment.
package config
