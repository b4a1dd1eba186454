package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vidladder/internal/codec"
	"vidladder/internal/config"
	"vidladder/internal/ladder"
	"vidladder/internal/logging"
	"vidladder/internal/metrics"
	"vidladder/internal/services"
	"vidladder/internal/transcode"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger

	runID   string
	metrics *metrics.Collector
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		runID:        uuid.NewString(),
		metrics:      metrics.New(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", resolved, err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// loggerValue builds the run logger from config on first use. Setup failures
// fall back to a no-op logger so logging never blocks a conversion.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger.With(logging.String(logging.FieldCorrelationID, c.runID))
	})
	return c.logger
}

// runContext returns the command context annotated with the run id and stage.
func (c *commandContext) runContext(cmd *cobra.Command, stage string) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return services.WithStage(services.WithRequestID(ctx, c.runID), stage)
}

func (c *commandContext) registry() (*codec.Registry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "config", "codecs", "", err)
	}
	return reg, nil
}

// converter wires the builder and executor from config.
func (c *commandContext) converter() (*transcode.Converter, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	reg, err := c.registry()
	if err != nil {
		return nil, err
	}
	builder := transcode.NewBuilder(reg, cfg.Transcoder.Binary, cfg.Paths.OutputDir)
	executor := transcode.NewExecutor(
		transcode.WithTimeout(cfg.Timeout()),
		transcode.WithLogger(c.loggerValue()),
		transcode.WithObserver(c.metrics),
	)
	return transcode.NewConverter(builder, executor), nil
}

func (c *commandContext) orchestrator(workers int, progress func(ladder.RungResult)) (*ladder.Orchestrator, error) {
	conv, err := c.converter()
	if err != nil {
		return nil, err
	}
	return ladder.New(conv,
		ladder.WithWorkers(workers),
		ladder.WithLogger(c.loggerValue()),
		ladder.WithProgress(progress),
	), nil
}

// flushMetrics writes the metrics textfile when one is configured.
func (c *commandContext) flushMetrics() {
	cfg := c.configValue()
	if cfg == nil || cfg.Metrics.Textfile == "" {
		return
	}
	if err := c.metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logging.WarnWithContext(c.loggerValue(), "metrics export failed", "metrics_write_failed",
			logging.String("path", cfg.Metrics.Textfile),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check metrics.textfile permissions"),
			logging.String(logging.FieldImpact, "metrics for this run are not exported"),
		)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
