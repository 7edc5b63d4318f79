package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/pkg/profile"

	"github.com/osse101/armory/internal/bootstrap"
	"github.com/osse101/armory/internal/config"
	"github.com/osse101/armory/internal/ecs"
	"github.com/osse101/armory/internal/event"
	"github.com/osse101/armory/internal/inspect"
	"github.com/osse101/armory/internal/logger"
	"github.com/osse101/armory/internal/scheduler"
	"github.com/osse101/armory/internal/worker"
)

// flags override the matching environment settings when set
type flags struct {
	script  string
	report  string
	profile string
	ticks   uint64
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("armory", flag.ContinueOnError)
	fs.StringVar(&f.script, "script", "", "comma separated weapon scripts (overrides "+config.EnvScriptPath+")")
	fs.StringVar(&f.report, "report", "", "write the final inspection report to this file (overrides "+config.EnvReportPath+")")
	fs.StringVar(&f.profile, "profile", "", "enable profiling: "+profileCPU+" or "+profileMem)
	fs.Uint64Var(&f.ticks, "ticks", 0, "stop after this many inspection passes (0 runs until interrupted)")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	switch f.profile {
	case "", profileCPU, profileMem:
	default:
		return flags{}, fmt.Errorf("unknown profile mode %q", f.profile)
	}
	return f, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}

	switch f.profile {
	case profileCPU:
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case profileMem:
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if f.script != "" {
		cfg.ScriptPath = f.script
	}
	if f.report != "" {
		cfg.ReportPath = f.report
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRunID(ctx, logger.GenerateRunID())

	bus, err := bootstrap.InitializeEventSystem()
	if err != nil {
		slog.Error(logMsgEventSystemFailed, "error", err)
		return err
	}

	world := ecs.NewWorld(ecs.WithCapacity(cfg.WorldCapacity))

	_, err = bootstrap.RunStartup(ctx, bootstrap.StartupDependencies{
		Config: cfg,
		Bus:    bus,
		World:  world,
	})
	if err := bootstrap.HandleStartupError(ctx, cfg, err); err != nil {
		return err
	}

	pass, err := inspect.NewPass(world, inspect.Config{CacheSize: cfg.InspectCacheSize}, bus)
	if err != nil {
		return err
	}

	// The tick limit is enforced on completed passes, so a skipped tick never counts.
	if f.ticks > 0 {
		var completed atomic.Uint64
		bus.Subscribe(event.InspectionCompleted, func(context.Context, event.Event) error {
			if completed.Add(1) >= f.ticks {
				stop()
			}
			return nil
		})
	}

	pool := worker.NewPool(cfg.Workers, poolQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(cfg.TickInterval, pass)
	slog.Info(logMsgRunning, "tick_interval", cfg.TickInterval, "entities", world.Len(), "tick_limit", f.ticks)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.DefaultShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Scheduler:       sched,
		Pool:            pool,
		Pass:            pass,
		ReportPath:      cfg.ReportPath,
		MetricsTextfile: cfg.MetricsTextfile,
	})
	return nil
}
