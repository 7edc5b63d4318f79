package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/armory/internal/config"
	"github.com/osse101/armory/internal/ecs"
	"github.com/osse101/armory/internal/event"
	"github.com/osse101/armory/internal/logger"
	"github.com/osse101/armory/internal/materialize"
	"github.com/osse101/armory/internal/script"
	"github.com/osse101/armory/internal/validation"
	"github.com/osse101/armory/internal/weapon"
)

// StartupDependencies holds what the startup pipeline needs besides config
type StartupDependencies struct {
	Config *config.Config
	Bus    event.Bus
	World  *ecs.World
	// Sink receives compile diagnostics. Nil picks one from the log format.
	Sink script.DiagnosticSink
}

// RunStartup loads the configured scripts, compiles them against the weapon
// module and materializes the weapons into the world.
// It handles the complete lifecycle: read sources → compile → execute → spawn.
func RunStartup(ctx context.Context, deps StartupDependencies) (*materialize.Result, error) {
	cfg := deps.Config
	log := logger.FromContext(ctx)

	log.Info(LogMsgLoadingScripts, "scripts", cfg.ScriptPaths())
	sources, err := script.SourcesFromFiles(cfg.ScriptPaths()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadScripts, err)
	}

	mod, err := weapon.Module()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildModule, err)
	}

	sink := deps.Sink
	if sink == nil {
		sink = diagnosticSink(cfg)
	}

	sc, err := script.NewContext(ctx, sources,
		script.WithModules(mod),
		script.WithSink(sink),
		script.WithBus(deps.Bus),
		script.WithEntryPoint(cfg.EntryPoint))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCompile, err)
	}

	svc := materialize.NewService(
		materialize.Config{EntryPoint: cfg.EntryPoint, ExecTimeout: cfg.ExecTimeout},
		validation.NewAttributePolicy(cfg.StrictAttributes),
		deps.Bus)

	result, err := svc.Startup(ctx, sc, deps.World)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMaterialize, err)
	}

	log.Info(LogMsgStartupCompleted, "entities", len(result.Entities), "violations", len(result.Violations))
	return result, nil
}

// diagnosticSink logs diagnostics as structured records when logs are JSON and
// prints them to stderr otherwise
func diagnosticSink(cfg *config.Config) script.DiagnosticSink {
	if cfg.LoggerConfig().IsJSON() {
		return script.NewLogSink(slog.Default())
	}
	return script.NewWriterSink(nil)
}

// HandleStartupError applies the configured startup error policy. It returns
// err when the host should abort and nil when it should log and continue.
func HandleStartupError(ctx context.Context, cfg *config.Config, err error) error {
	if err == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	if cfg.AbortOnStartupError {
		log.Error(LogMsgStartupAborted, "error", err)
		return err
	}
	log.Error(LogMsgStartupFailed, "error", err)
	return nil
}
