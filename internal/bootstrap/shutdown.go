package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/armory/internal/inspect"
	"github.com/osse101/armory/internal/metrics"
	"github.com/osse101/armory/internal/scheduler"
	"github.com/osse101/armory/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil components and empty paths are skipped.
type ShutdownComponents struct {
	Scheduler       *scheduler.Scheduler
	Pool            *worker.Pool
	Pass            *inspect.Pass
	ReportPath      string
	MetricsTextfile string
}

// GracefulShutdown stops the application components in order:
// 1. Scheduler (no new inspection ticks)
// 2. Worker pool (cancel and wait for the running pass)
// 3. Final inspection report export
// 4. Metrics textfile export, last so it includes everything above
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDown)

	done := make(chan struct{})
	go func() {
		defer close(done)
		stopComponents(components)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn(LogMsgShutdownTimeout, "error", ctx.Err())
		return
	}

	exportReport(components)
	exportMetrics(components)

	slog.Info(LogMsgShutdownComplete)
}

func stopComponents(components ShutdownComponents) {
	if components.Scheduler != nil {
		components.Scheduler.Stop()
		slog.Info(LogMsgSchedulerStopped, "skipped_ticks", components.Scheduler.Skipped())
	}
	if components.Pool != nil {
		components.Pool.Stop()
		slog.Info(LogMsgWorkerPoolStopped, "processed", components.Pool.Processed(), "failed", components.Pool.Failed())
	}
}

func exportReport(components ShutdownComponents) {
	if components.ReportPath == "" || components.Pass == nil {
		return
	}
	report := components.Pass.Last()
	if report == nil {
		slog.Warn(LogMsgNoReportToExport, "path", components.ReportPath)
		return
	}
	if err := inspect.WriteReportFile(components.ReportPath, report); err != nil {
		slog.Error(LogMsgReportExportFailed, "path", components.ReportPath, "error", err)
		return
	}
	slog.Info(LogMsgReportExported, "path", components.ReportPath, "tick", report.Tick)
}

func exportMetrics(components ShutdownComponents) {
	if components.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(components.MetricsTextfile); err != nil {
		slog.Error(LogMsgMetricsExportFailed, "path", components.MetricsTextfile, "error", err)
		return
	}
	slog.Info(LogMsgMetricsExported, "path", components.MetricsTextfile)
}
