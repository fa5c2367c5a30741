package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/gatekeeper"
	"github.com/dmitrymomot/gatekeeper/pkg/config"
	"github.com/dmitrymomot/gatekeeper/pkg/httpserver"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
	"github.com/dmitrymomot/gatekeeper/pkg/pg"
	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
	"github.com/dmitrymomot/gatekeeper/pkg/redis"
	"github.com/dmitrymomot/gatekeeper/pkg/telemetry"
)

var envFiles []string

// Directory backends and tenant caches selectable at startup.
const (
	storeMemory   = "memory"
	storePostgres = "postgres"

	cacheNone   = "none"
	cacheMemory = "memory"
	cacheRedis  = "redis"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"gatekeeper"`
	LogLevel    string `env:"LOG_LEVEL"`

	Store     string        `env:"DIRECTORY_STORE" envDefault:"memory"`
	Cache     string        `env:"TENANT_CACHE" envDefault:"memory"`
	CacheSize int           `env:"TENANT_CACHE_SIZE" envDefault:"1024"`
	CacheTTL  time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`

	Gatekeeper gatekeeper.Config
	HTTP       httpserver.Config
	Telemetry  telemetry.Config
}

func loadConfig() (appConfig, error) {
	var cfg appConfig
	err := config.Load(&cfg, envFiles...)
	return cfg, err
}

// pgConfig and redisConfig are loaded on demand so their required
// variables are only enforced when the backend is selected.
func pgConfig() (pg.Config, error) {
	var cfg pg.Config
	return cfg, config.Parse(&cfg, nil)
}

func redisConfig() (redis.Config, error) {
	var cfg redis.Config
	return cfg, config.Parse(&cfg, nil)
}

func newLogger(cfg appConfig) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(logger.ParseEnvironment(cfg.Env), cfg.ServiceName),
		logger.WithOutput(os.Stdout),
		logger.WithRequestID(),
	}
	for _, ex := range pipeline.LoggerExtractors() {
		opts = append(opts, logger.WithContextExtractors(ex))
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)
	return log
}
