package config

import "time"

// Environment variable names
const (
	EnvScriptPath          = "SCRIPT_PATH"
	EnvEntryPoint          = "ENTRY_POINT"
	EnvTickInterval        = "TICK_INTERVAL"
	EnvExecTimeout         = "EXEC_TIMEOUT"
	EnvStrictAttributes    = "STRICT_ATTRIBUTES"
	EnvAbortOnStartupError = "ABORT_ON_STARTUP_ERROR"
	EnvWorldCapacity       = "WORLD_CAPACITY"
	EnvWorkers             = "WORKERS"
	EnvInspectCacheSize    = "INSPECT_CACHE_SIZE"
	EnvLogLevel            = "LOG_LEVEL"
	EnvLogFormat           = "LOG_FORMAT"
	EnvLogDir              = "LOG_DIR"
	EnvEnvironment         = "ENVIRONMENT"
	EnvServiceName         = "SERVICE_NAME"
	EnvVersion             = "VERSION"
	EnvMetricsTextfile     = "METRICS_TEXTFILE"
	EnvReportPath          = "REPORT_PATH"
	EnvSchemaVersion       = "ENV_SCHEMA_VERSION"
)

// Defaults
const (
	DefaultEntryPoint       = "main"
	DefaultTickInterval     = time.Second
	DefaultExecTimeout      = 5 * time.Second
	DefaultWorldCapacity    = 256
	DefaultWorkers          = 1
	DefaultInspectCacheSize = 1024
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultLogDir           = "logs"
	DefaultEnvironment      = "dev"
	DefaultServiceName      = "armory"
	DefaultVersion          = "dev"
)

// ScriptPathSeparator splits SCRIPT_PATH into several source files
const ScriptPathSeparator = ","

// Error messages
const (
	ErrMsgInvalidValue      = "invalid %s value %q: %w"
	ErrMsgMustBePositive    = "%s must be positive, got %v"
	ErrMsgScriptPathMissing = "SCRIPT_PATH must be set (or pass -script)"
)
