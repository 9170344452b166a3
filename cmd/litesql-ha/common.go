package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/viant/litesql-ha/client"
	"github.com/viant/litesql-ha/config"
	"github.com/viant/litesql-ha/ha"
)

// loadConfiguration builds the effective configuration: defaults, then the
// configuration file, then the environment, then command line flags.
func loadConfiguration() (config.Config, error) {
	cfg := config.Default()
	if path := rootConfiguration.config; path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if path := rootConfiguration.envFile; path != "" {
		if err := godotenv.Load(path); err != nil {
			return cfg, errors.Wrapf(err, "unable to load environment file %s", path)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if rootConfiguration.url != "" {
		cfg.URL = rootConfiguration.url
	}
	if rootConfiguration.token != "" {
		cfg.Token = rootConfiguration.token
	}
	if rootConfiguration.tls {
		cfg.EnableSSL = true
	}
	if rootConfiguration.timeout > 0 {
		cfg.Timeout = rootConfiguration.timeout
	}
	if rootConfiguration.logLevel != "" {
		cfg.LogLevel = rootConfiguration.logLevel
	}
	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// withClient runs fn with a client connected to the configured URL and
// shuts the registry down afterwards.
func withClient(fn func(context.Context, *client.Client) error) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}
	if cfg.URL == "" {
		return errors.Errorf("connection URL required, expected URL formats: %s", config.URLExamples)
	}
	ctx, cancel := signalContext()
	defer cancel()

	registry := ha.New(cfg)
	defer registry.Shutdown(context.Background())
	c, err := registry.Connect(ctx, "")
	if err != nil {
		return err
	}
	return fn(ctx, c)
}
