package metrics

import (
	"context"
	"time"

	"github.com/osse101/armory/internal/event"
	"github.com/osse101/armory/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all pipeline events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.ScriptCompiled,
		event.ScriptExecuted,
		event.WeaponMaterialized,
		event.InspectionCompleted,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.ScriptCompiled:
		err = recordCompiled(evt)
	case event.ScriptExecuted:
		err = recordExecuted(evt)
	case event.WeaponMaterialized:
		err = recordMaterialized(evt)
	case event.InspectionCompleted:
		err = recordInspection(evt)
	}

	if err != nil {
		logger.FromContext(ctx).Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
	}
	return nil
}

func recordCompiled(evt event.Event) error {
	p, err := event.Payload[event.ScriptCompiledPayloadV1](evt)
	if err != nil {
		return err
	}
	ScriptCompilations.WithLabelValues(result(p.Success)).Inc()
	ScriptCompileDuration.Observe(seconds(p.DurationMs))
	ScriptDiagnostics.WithLabelValues(SeverityError).Add(float64(p.Errors))
	ScriptDiagnostics.WithLabelValues(SeverityWarning).Add(float64(p.Warnings))
	return nil
}

func recordExecuted(evt event.Event) error {
	p, err := event.Payload[event.ScriptExecutedPayloadV1](evt)
	if err != nil {
		return err
	}
	ScriptExecutions.WithLabelValues(result(p.Success)).Inc()
	ScriptExecutionDuration.Observe(seconds(p.DurationMs))
	return nil
}

func recordMaterialized(evt event.Event) error {
	p, err := event.Payload[event.WeaponMaterializedPayloadV1](evt)
	if err != nil {
		return err
	}
	WeaponsMaterialized.WithLabelValues(p.Variant).Inc()
	for _, attr := range p.Attributes {
		AttributesAttached.WithLabelValues(attr).Inc()
	}
	return nil
}

func recordInspection(evt event.Event) error {
	p, err := event.Payload[event.InspectionCompletedPayloadV1](evt)
	if err != nil {
		return err
	}
	InspectionPasses.Inc()
	for view, n := range p.ViewCounts {
		InspectionMatches.WithLabelValues(view).Set(float64(n))
	}
	return nil
}

func result(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}

func seconds(ms int64) float64 {
	return (time.Duration(ms) * time.Millisecond).Seconds()
}
