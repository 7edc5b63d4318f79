package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "weapon.materialized")
const (
	// EventTypeScriptCompiled is published after a script context finished compiling, successfully or not
	EventTypeScriptCompiled = "script.compiled"

	// EventTypeScriptExecuted is published after an entry point ran to completion or faulted
	EventTypeScriptExecuted = "script.executed"

	// EventTypeWeaponMaterialized is published once per spawned weapon entity
	EventTypeWeaponMaterialized = "weapon.materialized"

	// EventTypeInspectionCompleted is published after each inspection pass
	EventTypeInspectionCompleted = "inspection.completed"
)
