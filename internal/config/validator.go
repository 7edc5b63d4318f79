package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/osse101/armory/internal/logger"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// Validate checks required values and ranges. Call it after command-line
// overrides have been applied.
func (c *Config) Validate() error {
	var errs []error

	if len(c.ScriptPaths()) == 0 {
		errs = append(errs, errors.New(ErrMsgScriptPathMissing))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf(ErrMsgMustBePositive, EnvTickInterval, c.TickInterval))
	}
	if c.ExecTimeout <= 0 {
		errs = append(errs, fmt.Errorf(ErrMsgMustBePositive, EnvExecTimeout, c.ExecTimeout))
	}
	if c.WorldCapacity <= 0 {
		errs = append(errs, fmt.Errorf(ErrMsgMustBePositive, EnvWorldCapacity, c.WorldCapacity))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf(ErrMsgMustBePositive, EnvWorkers, c.Workers))
	}
	if c.InspectCacheSize <= 0 {
		errs = append(errs, fmt.Errorf(ErrMsgMustBePositive, EnvInspectCacheSize, c.InspectCacheSize))
	}

	if v := os.Getenv(EnvSchemaVersion); v != "" && v != ExpectedEnvSchemaVersion {
		errs = append(errs, fmt.Errorf("%s mismatch: expected %s, got %s - your .env file may be outdated",
			EnvSchemaVersion, ExpectedEnvSchemaVersion, v))
	}

	return errors.Join(errs...)
}

// Warnings returns non-fatal configuration concerns
func (c *Config) Warnings() []string {
	var warnings []string

	if os.Getenv(EnvSchemaVersion) == "" {
		warnings = append(warnings, fmt.Sprintf("%s is not set (expected: %s)", EnvSchemaVersion, ExpectedEnvSchemaVersion))
	}
	if c.ExecTimeout >= c.TickInterval {
		warnings = append(warnings, fmt.Sprintf("%s (%s) is not shorter than %s (%s)",
			EnvExecTimeout, c.ExecTimeout, EnvTickInterval, c.TickInterval))
	}
	if c.Environment == logger.EnvironmentProd && !c.StrictAttributes {
		warnings = append(warnings, fmt.Sprintf("%s is off in prod: suspicious weapon attributes are only logged", EnvStrictAttributes))
	}

	return warnings
}
