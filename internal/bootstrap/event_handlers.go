package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/armory/internal/event"
	"github.com/osse101/armory/internal/metrics"
)

// RegisterEventHandlers sets up all event subscribers. Currently this is the
// metrics collector for script, weapon and inspection events.
func RegisterEventHandlers(bus event.Bus) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)
	return nil
}
