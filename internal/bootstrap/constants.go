package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionLimit is the number of log files that triggers cleanup
	LogFileRetentionLimit = 10

	// LogFileRetentionCount is the number of older log files kept by cleanup
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingArmory      = "Starting armory"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Event System
// =============================================================================

const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// =============================================================================
// Pipeline Startup
// =============================================================================

const (
	LogMsgLoadingScripts    = "Loading weapon scripts"
	LogMsgStartupFailed     = "Startup pipeline failed, continuing without weapons"
	LogMsgStartupAborted    = "Startup pipeline failed, aborting"
	LogMsgStartupCompleted  = "Startup pipeline completed"
	ErrMsgFailedLoadScripts = "failed to load scripts"
	ErrMsgFailedBuildModule = "failed to build weapon module"
	ErrMsgFailedCompile     = "failed to compile scripts"
	ErrMsgFailedMaterialize = "failed to materialize weapons"
)

// =============================================================================
// Shutdown
// =============================================================================

// DefaultShutdownTimeout bounds GracefulShutdown when the caller sets no deadline
const DefaultShutdownTimeout = 10 * time.Second

const (
	LogMsgShuttingDown        = "Shutting down..."
	LogMsgSchedulerStopped    = "Scheduler stopped"
	LogMsgWorkerPoolStopped   = "Worker pool stopped"
	LogMsgReportExported      = "Final inspection report exported"
	LogMsgReportExportFailed  = "Final inspection report export failed"
	LogMsgMetricsExported     = "Metrics textfile exported"
	LogMsgMetricsExportFailed = "Metrics textfile export failed"
	LogMsgShutdownComplete    = "Shutdown complete"
	LogMsgShutdownTimeout     = "Shutdown timed out"
	LogMsgNoReportToExport    = "No inspection pass completed, report skipped"
)
