package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Script Metrics
var (
	ScriptCompilations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameScriptCompilations,
			Help: HelpTextScriptCompilations,
		},
		[]string{LabelResult},
	)

	ScriptCompileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameScriptCompileDuration,
			Help:    HelpTextScriptCompileDuration,
			Buckets: ScriptLatencyBuckets,
		},
	)

	ScriptExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameScriptExecutions,
			Help: HelpTextScriptExecutions,
		},
		[]string{LabelResult},
	)

	ScriptExecutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameScriptExecutionDuration,
			Help:    HelpTextScriptExecutionDuration,
			Buckets: ScriptLatencyBuckets,
		},
	)

	ScriptDiagnostics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameScriptDiagnostics,
			Help: HelpTextScriptDiagnostics,
		},
		[]string{LabelSeverity},
	)
)

// World Metrics
var (
	WeaponsMaterialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWeaponsMaterialized,
			Help: HelpTextWeaponsMaterialized,
		},
		[]string{LabelVariant},
	)

	AttributesAttached = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAttributesAttached,
			Help: HelpTextAttributesAttached,
		},
		[]string{LabelAttribute},
	)

	InspectionPasses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameInspectionPasses,
			Help: HelpTextInspectionPasses,
		},
	)

	InspectionMatches = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameInspectionMatches,
			Help: HelpTextInspectionMatches,
		},
		[]string{LabelView},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)
)

// WriteTextfile writes every registered metric to path in the text exposition
// format, for collection by a node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
