package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Pipeline errors
	ErrMsgBridgeRegistration = "bridge registration failed"
	ErrMsgCompile            = "script compilation failed"
	ErrMsgExecution          = "script execution failed"
	ErrMsgDecode             = "script output could not be decoded"

	// Attribute policy errors
	ErrMsgInvalidAttribute = "invalid weapon attribute"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Pipeline errors
// Every failure of the script-to-entity pipeline wraps exactly one of these.
// Wrap them with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrBridgeRegistration is fatal at module setup and prevents any context from being built
	ErrBridgeRegistration = errors.New(ErrMsgBridgeRegistration)

	// ErrCompile means the script cannot execute; see script.CompileError for diagnostics
	ErrCompile = errors.New(ErrMsgCompile)

	// ErrExecution means the VM faulted while running the entry point
	ErrExecution = errors.New(ErrMsgExecution)

	// ErrDecode means the entry point returned something other than a sequence of weapons
	ErrDecode = errors.New(ErrMsgDecode)

	// ErrInvalidAttribute is raised by strict attribute validation
	ErrInvalidAttribute = errors.New(ErrMsgInvalidAttribute)

	// ErrInvalidInput is returned for malformed caller input
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
