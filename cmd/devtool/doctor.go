package main

import (
	"fmt"
	"strings"

	"github.com/osse101/armory/internal/config"
)

type DoctorCommand struct{}

func (c *DoctorCommand) Name() string {
	return "doctor"
}

func (c *DoctorCommand) Description() string {
	return "Diagnose environment issues (toolchain + configuration)"
}

func (c *DoctorCommand) Run(args []string) error {
	stdout.header("Running Doctor...")

	hasError := false

	if version, err := output("go", "version"); err == nil {
		// Output: go version go1.24.0 linux/amd64
		if parts := strings.Fields(version); len(parts) >= 3 {
			version = parts[2]
		}
		stdout.line(statusOK, "Go installed: %s", version)
	} else {
		stdout.line(statusFail, "Go not found! Install from: https://go.dev/dl/")
		hasError = true
	}

	if _, err := output("go", "tool", "-n", "benchstat"); err == nil {
		stdout.line(statusOK, "benchstat available")
	} else {
		stdout.line(statusWarn, "benchstat not installed (optional, used by 'bench compare')")
	}

	cfg, err := config.Load()
	if err != nil {
		stdout.line(statusFail, "Configuration failed to load: %v", err)
		return fmt.Errorf("doctor found issues")
	}
	if err := cfg.Validate(); err != nil {
		stdout.line(statusFail, "Configuration invalid: %v", err)
		hasError = true
	} else {
		stdout.line(statusOK, "Configuration OK (%d script(s))", len(cfg.ScriptPaths()))
	}
	for _, w := range cfg.Warnings() {
		stdout.line(statusWarn, "%s", w)
	}

	if hasError {
		return fmt.Errorf("doctor found issues")
	}

	stdout.line(statusOK, "All systems operational!")
	return nil
}
