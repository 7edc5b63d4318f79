package script

// Log message constants
const (
	LogMsgCompileStarted   = "Compiling script sources"
	LogMsgCompileSucceeded = "Script sources compiled"
	LogMsgCompileFailed    = "Script compilation failed"
	LogMsgDiagnosticsFound = "Script diagnostics emitted"
	LogMsgSinkFailed       = "Failed to emit script diagnostics"
	LogMsgExecuteStarted   = "Executing script entry point"
	LogMsgExecuteFailed    = "Script entry point faulted"
	LogMsgEventFailed      = "Failed to publish script event"
)

// Error message constants
const (
	ErrMsgEmptyModuleName   = "module name must not be empty"
	ErrMsgEmptySymbol       = "symbol name must not be empty"
	ErrMsgNilFunction       = "function must not be nil"
	ErrMsgDuplicateSymbol   = "duplicate symbol"
	ErrMsgDuplicateModule   = "duplicate module"
	ErrMsgNilModule         = "nil module"
	ErrMsgMethodWithoutType = "methods require a userdata type"
	ErrMsgTypeAlreadySet    = "userdata type already declared"
	ErrMsgEmptySourceName   = "source name must not be empty"
	ErrMsgDuplicateSource   = "duplicate source"
	ErrMsgNoSources         = "no script sources"
	ErrMsgAlreadyCompiled   = "context has already been compiled"
	ErrMsgNotReady          = "context is not ready"
	ErrMsgEntryNotFunction  = "entry point is not a function"
	ErrMsgVMClosed          = "vm is closed"
)

// Lint messages
const (
	LintMsgUnknownMember   = "%s has no member %q"
	LintMsgShadowedModule  = "assignment replaces the %s module"
	LintMsgModuleMutated   = "assignment modifies the %s module"
	LintMsgMissingEntry    = "entry point %q is not declared at top level"
	LintMsgSourceEntryHint = "declare it as: function %s() ... end"
)
