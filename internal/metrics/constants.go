package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Script metric names
const (
	MetricNameScriptCompilations      = "armory_script_compilations_total"
	MetricNameScriptCompileDuration   = "armory_script_compile_duration_seconds"
	MetricNameScriptExecutions        = "armory_script_executions_total"
	MetricNameScriptExecutionDuration = "armory_script_execution_duration_seconds"
	MetricNameScriptDiagnostics       = "armory_script_diagnostics_total"
)

// World metric names
const (
	MetricNameWeaponsMaterialized = "armory_weapons_materialized_total"
	MetricNameAttributesAttached  = "armory_weapon_attributes_attached_total"
	MetricNameInspectionPasses    = "armory_inspection_passes_total"
	MetricNameInspectionMatches   = "armory_inspection_view_matches"
)

// Event metric names
const (
	MetricNameEventsPublished = "armory_events_published_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextScriptCompilations      = "Total number of script context compilations by result"
	HelpTextScriptCompileDuration   = "Script compilation latency in seconds"
	HelpTextScriptExecutions        = "Total number of entry point executions by result"
	HelpTextScriptExecutionDuration = "Entry point execution latency in seconds"
	HelpTextScriptDiagnostics       = "Total number of script diagnostics by severity"
	HelpTextWeaponsMaterialized     = "Total number of weapon entities spawned by variant"
	HelpTextAttributesAttached      = "Total number of optional attributes attached by attribute"
	HelpTextInspectionPasses        = "Total number of inspection passes"
	HelpTextInspectionMatches       = "Entities matched by each inspection view in the last pass"
	HelpTextEventsPublished         = "Total number of events published by type"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelResult    = "result"
	LabelSeverity  = "severity"
	LabelVariant   = "variant"
	LabelAttribute = "attribute"
	LabelView      = "view"
	LabelType      = "type"
)

// Label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Histogram buckets, in seconds
var ScriptLatencyBuckets = []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventPayloadInvalid = "Event payload could not be decoded for metrics"
	LogMsgTextfileWritten     = "Metrics textfile written"
)
