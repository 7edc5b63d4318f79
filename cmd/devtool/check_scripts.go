package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/osse101/armory/internal/bootstrap"
	"github.com/osse101/armory/internal/config"
	"github.com/osse101/armory/internal/ecs"
	"github.com/osse101/armory/internal/event"
	"github.com/osse101/armory/internal/inspect"
	"github.com/osse101/armory/internal/script"
	"github.com/osse101/armory/internal/weapon"
)

// CheckScriptsCommand compiles weapon scripts and reports their diagnostics.
// With -run it also materializes the weapons into a scratch world and prints
// the inspection report.
type CheckScriptsCommand struct {
	out io.Writer
}

func (c *CheckScriptsCommand) Name() string {
	return "check-scripts"
}

func (c *CheckScriptsCommand) Description() string {
	return "Compile weapon scripts and print diagnostics ([-run] [-strict] [-entry name] [files...])"
}

func (c *CheckScriptsCommand) Run(args []string) error {
	out := stdout
	if c.out != nil {
		out = newConsole(c.out)
	}

	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	runEntry := fs.Bool("run", false, "execute the entry point and print the inspection report")
	strict := fs.Bool("strict", false, "treat attribute violations as errors")
	entry := fs.String("entry", config.DefaultEntryPoint, "entry point function")
	if err := fs.Parse(args); err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = (&config.Config{ScriptPath: os.Getenv(config.EnvScriptPath)}).ScriptPaths()
	}
	if len(paths) == 0 {
		return fmt.Errorf("no scripts given and %s is not set", config.EnvScriptPath)
	}

	ctx := context.Background()
	if !*runEntry {
		return c.compile(ctx, out, paths, *entry)
	}
	return c.materialize(ctx, out, &config.Config{
		ScriptPath:       strings.Join(paths, config.ScriptPathSeparator),
		EntryPoint:       *entry,
		ExecTimeout:      config.DefaultExecTimeout,
		StrictAttributes: *strict,
	})
}

func (c *CheckScriptsCommand) compile(ctx context.Context, out *console, paths []string, entry string) error {
	sources, err := script.SourcesFromFiles(paths...)
	if err != nil {
		return err
	}
	mod, err := weapon.Module()
	if err != nil {
		return err
	}

	sc := script.New(script.WithModules(mod), script.WithSink(out), script.WithEntryPoint(entry))
	err = sc.Compile(ctx, sources)
	diags := sc.Diagnostics()
	fmt.Fprintf(out.w, "%d source(s), %d error(s), %d warning(s)\n", sources.Len(), diags.Errors(), diags.Warnings())
	if err != nil {
		return err
	}
	out.line(statusOK, "Scripts compiled (%s)", sc.State())
	return nil
}

func (c *CheckScriptsCommand) materialize(ctx context.Context, out *console, cfg *config.Config) error {
	world := ecs.NewWorld()
	result, err := bootstrap.RunStartup(ctx, bootstrap.StartupDependencies{
		Config: cfg,
		Bus:    event.NopBus{},
		World:  world,
		Sink:   out,
	})
	if err != nil {
		return err
	}
	for _, v := range result.Violations {
		out.line(statusWarn, "%s", v)
	}

	pass, err := inspect.NewPass(world, inspect.Config{}, nil)
	if err != nil {
		return err
	}
	report, err := pass.Run(ctx)
	if err != nil {
		return err
	}
	data, err := inspect.EncodeReport(report)
	if err != nil {
		return errors.Join(errors.New("report does not match its schema"), err)
	}
	fmt.Fprintln(out.w, string(data))
	out.line(statusOK, "%d weapon(s) materialized in %s", len(result.Entities), result.Duration)
	return nil
}
