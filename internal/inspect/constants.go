package inspect

import "time"

// View names
const (
	ViewWand          = "wand"
	ViewWandDamage    = "wand_damage"
	ViewMelee         = "melee"
	ViewDistance      = "distance"
	ViewDistanceBreak = "distance_break"
)

// Cache defaults
const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = 10 * time.Minute
)

// VariantUnknown is reported for an entity without a variant marker
const VariantUnknown = "unknown"

// ReportSchemaPath locates the report schema inside the embedded schema FS
const ReportSchemaPath = "schemas/report.schema.json"

// Log messages
const (
	LogMsgRow           = "Inspection row"
	LogMsgPassCompleted = "Inspection pass completed"
	LogMsgEventFailed   = "Failed to publish inspection event"
)

// Error messages
const (
	ErrMsgNilWorld      = "world is nil"
	ErrMsgNoReport      = "no inspection pass has completed"
	ErrMsgEncodeReport  = "failed to encode inspection report: %w"
	ErrMsgInvalidReport = "inspection report does not match schema: %w"
	ErrMsgWriteReport   = "failed to write inspection report: %w"
	ErrMsgReportSchema  = "inspection report schema unusable: %w"
)
