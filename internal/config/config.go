package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/armory/internal/logger"
)

// Config holds the application configuration
type Config struct {
	ScriptPath          string
	EntryPoint          string
	TickInterval        time.Duration
	ExecTimeout         time.Duration
	StrictAttributes    bool
	AbortOnStartupError bool
	WorldCapacity       int
	Workers             int
	InspectCacheSize    int

	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	ServiceName string
	Version     string

	MetricsTextfile string // empty disables the metrics export
	ReportPath      string // empty disables the final report export
}

// Load loads the configuration from environment variables.
// Malformed numbers, booleans and durations are errors; required values are
// checked by Validate so that command-line flags can fill them in first.
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		ScriptPath:      getEnv(EnvScriptPath, ""),
		EntryPoint:      getEnv(EnvEntryPoint, DefaultEntryPoint),
		LogLevel:        getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:       getEnv(EnvLogFormat, DefaultLogFormat),
		LogDir:          getEnv(EnvLogDir, DefaultLogDir),
		Environment:     getEnv(EnvEnvironment, DefaultEnvironment),
		ServiceName:     getEnv(EnvServiceName, DefaultServiceName),
		Version:         getEnv(EnvVersion, DefaultVersion),
		MetricsTextfile: getEnv(EnvMetricsTextfile, ""),
		ReportPath:      getEnv(EnvReportPath, ""),
	}

	var err error
	if cfg.TickInterval, err = getEnvAsDuration(EnvTickInterval, DefaultTickInterval); err != nil {
		return nil, err
	}
	if cfg.ExecTimeout, err = getEnvAsDuration(EnvExecTimeout, DefaultExecTimeout); err != nil {
		return nil, err
	}
	if cfg.StrictAttributes, err = getEnvAsBool(EnvStrictAttributes, false); err != nil {
		return nil, err
	}
	if cfg.AbortOnStartupError, err = getEnvAsBool(EnvAbortOnStartupError, false); err != nil {
		return nil, err
	}
	if cfg.WorldCapacity, err = getEnvAsInt(EnvWorldCapacity, DefaultWorldCapacity); err != nil {
		return nil, err
	}
	if cfg.Workers, err = getEnvAsInt(EnvWorkers, DefaultWorkers); err != nil {
		return nil, err
	}
	if cfg.InspectCacheSize, err = getEnvAsInt(EnvInspectCacheSize, DefaultInspectCacheSize); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ScriptPaths splits ScriptPath into its source files, in order
func (c *Config) ScriptPaths() []string {
	var out []string
	for _, p := range strings.Split(c.ScriptPath, ScriptPathSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoggerConfig returns the logger settings carried by c
func (c *Config) LoggerConfig() logger.Config {
	return logger.NewConfig(c.LogLevel, c.LogFormat, c.ServiceName, c.Version, c.Environment)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgInvalidValue, key, raw, err)
	}
	return v, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf(ErrMsgInvalidValue, key, raw, err)
	}
	return v, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgInvalidValue, key, raw, err)
	}
	return v, nil
}
