package container

import (
	"context"
	"fmt"
	"io"

	"gobioact/adapters/chem/heuristic"
	"gobioact/app"
	"gobioact/internal"
	"gobioact/internal/cache"
	"gobioact/internal/config"
	"gobioact/internal/metrics"
	"gobioact/internal/telemetry"
	"gobioact/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Cache     *cache.Cache
	Metrics   *metrics.Metrics
	Telemetry *telemetry.Provider

	// Domain
	Parser   ports.StructureParser
	Pipeline *app.PipelineService
}

// Options overrides container wiring; zero values select defaults
type Options struct {
	// LogWriter receives log output (stderr when nil)
	LogWriter io.Writer
	// TraceWriter receives stdout-exported spans when tracing to stdout
	TraceWriter io.Writer
	// Parser replaces the built-in SMILES reader
	Parser ports.StructureParser
}

// New creates a new dependency injection container
func New(cfg *config.Config, opts Options) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg}

	if opts.LogWriter != nil {
		c.Logger = internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level), opts.LogWriter)
	} else {
		c.Logger = internal.NewDefaultLogger()
	}

	var err error
	c.Cache, err = cache.New(cfg.Cache.Size)
	if err != nil {
		return nil, err
	}
	c.Metrics = metrics.New()

	c.Telemetry, err = telemetry.Setup(telemetry.Config{Stdout: cfg.Telemetry.TraceStdout, Writer: opts.TraceWriter})
	if err != nil {
		return nil, err
	}

	c.Parser = opts.Parser
	if c.Parser == nil {
		c.Parser = heuristic.NewParser()
	}

	c.Pipeline, err = app.NewPipelineService(c.Parser,
		app.WithCache(c.Cache),
		app.WithMetrics(c.Metrics),
		app.WithTracer(c.Telemetry.Tracer),
		app.WithLogger(c.Logger),
	)
	if err != nil {
		return nil, err
	}

	c.Logger.WithComponent("container").Debug("initialized: parser %s, cache size %d, trace stdout %t",
		c.Parser.Name(), cfg.Cache.Size, cfg.Telemetry.TraceStdout)
	return c, nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Telemetry != nil {
		return c.Telemetry.Shutdown(ctx)
	}
	return nil
}
