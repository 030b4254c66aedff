// Package config loads application configuration from config.yaml and the
// environment, and initializes the global logger.
package config

import (
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arokua/job-hunter/internal/store"
	"github.com/arokua/job-hunter/pkg/mailer"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig      `yaml:"server" mapstructure:"server"`
	Worker    WorkerConfig      `yaml:"worker" mapstructure:"worker"`
	Scrape    ScrapeConfig      `yaml:"scrape" mapstructure:"scrape"`
	Email     mailer.Config     `yaml:"email" mapstructure:"email"`
	Store     StoreConfig       `yaml:"store" mapstructure:"store"`
	Log       LogConfig         `yaml:"log" mapstructure:"log"`
	Locations map[string]string `yaml:"locations" mapstructure:"locations"`
}

// ServerConfig configures the worker HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// WorkerConfig configures authentication, callbacks, and the background pool.
type WorkerConfig struct {
	// Secret is the shared bearer token. Required for serving; requests fail
	// closed when it is absent.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// CallbackURL is the optional terminal-outcome endpoint. Empty disables
	// the callback step.
	CallbackURL string `yaml:"callback_url" mapstructure:"callback_url"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
	QueueSize   int    `yaml:"queue_size" mapstructure:"queue_size"`
	// JobTimeoutSecs bounds one submission's whole pipeline run.
	JobTimeoutSecs int `yaml:"job_timeout_secs" mapstructure:"job_timeout_secs"`
}

// ScrapeConfig configures the scraping collaborator client.
type ScrapeConfig struct {
	BaseURL string   `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string   `yaml:"api_key" mapstructure:"api_key"`
	Sites   []string `yaml:"sites" mapstructure:"sites"`
	// PaceSeconds spaces successive search calls to one per this interval.
	PaceSeconds int `yaml:"pace_seconds" mapstructure:"pace_seconds"`
}

// StoreConfig configures the optional submission record store.
type StoreConfig struct {
	// Driver is "sqlite", "postgres", or "" to disable recording.
	Driver      string            `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string            `yaml:"database_url" mapstructure:"database_url"`
	Pool        *store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("JOBHUNTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The deployment platform exports these under their historical names.
	_ = v.BindEnv("worker.secret", "JOBHUNTER_WORKER_SECRET", "WORKER_SECRET")
	_ = v.BindEnv("worker.callback_url", "JOBHUNTER_WORKER_CALLBACK_URL", "CALLBACK_URL")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("worker.concurrency", 2)
	v.SetDefault("worker.queue_size", 32)
	v.SetDefault("worker.job_timeout_secs", 1800)
	v.SetDefault("scrape.base_url", "http://localhost:8000")
	v.SetDefault("scrape.sites", []string{"indeed"})
	v.SetDefault("scrape.pace_seconds", 2)
	v.SetDefault("email.port", 587)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "jobhunter.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine: env and defaults cover everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
