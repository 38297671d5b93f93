package main

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/meetings-backend/internal/app"
	"github.com/heartmarshall/meetings-backend/internal/config"
)

// commandContext loads configuration and dependencies on first use so that
// commands like --help never touch the database.
type commandContext struct {
	configPath *string

	cfg    *config.Config
	logger *slog.Logger
	deps   *app.Deps
}

func newCommandContext(configPath *string) *commandContext {
	return &commandContext{configPath: configPath}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.LoadFrom(*c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.logger = app.NewLogger(cfg.Log)
	return cfg, nil
}

func (c *commandContext) ensureDeps(ctx context.Context) (*app.Deps, error) {
	if c.deps != nil {
		return c.deps, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	deps, err := app.NewDeps(ctx, cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.deps = deps
	return deps, nil
}

func (c *commandContext) close() {
	if c.deps != nil {
		c.deps.Close()
		c.deps = nil
	}
}
