package materialize

import "time"

// DefaultExecTimeout bounds one entry point run when no timeout is configured
const DefaultExecTimeout = 5 * time.Second

// Log messages
const (
	LogMsgRunStarted       = "Materialization started"
	LogMsgRunCompleted     = "Materialization completed"
	LogMsgRunFailed        = "Materialization failed"
	LogMsgWeaponSpawned    = "Weapon entity spawned"
	LogMsgContextInserted  = "Script context stored as world resource"
	LogMsgEventFailed      = "Failed to publish materialization event"
	LogMsgAttributePolicy  = "Attribute policy rejected weapons"
	LogMsgDecodeFailed     = "Entry point output could not be decoded"
	LogMsgExecutionFailed  = "Entry point execution failed"
	LogMsgResourceConflict = "Script context resource already present"
)

// Error messages
const (
	ErrMsgNilWorld       = "world is nil"
	ErrMsgNilExecutor    = "executor is nil"
	ErrMsgNilContext     = "script context is nil"
	ErrMsgUnknownVariant = "unknown variant"
	ErrMsgSpawnFailed    = "failed to materialize weapon %d: %w"
)
