package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Severity ranks a diagnostic
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is a compiler or lint message tied to a source location.
// Line and Column are 1-based; zero means unknown.
type Diagnostic struct {
	Severity Severity
	Source   string
	Line     int
	Column   int
	Message  string
}

// String renders the diagnostic as "<severity>: <source>:<line>:<col>: <message>"
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	if d.Source != "" {
		b.WriteString(d.Source)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
			if d.Column > 0 {
				fmt.Fprintf(&b, ":%d", d.Column)
			}
		}
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// Diagnostics is an ordered list of diagnostics
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic is an error
func (ds Diagnostics) HasErrors() bool {
	return ds.Errors() > 0
}

// Errors counts error diagnostics
func (ds Diagnostics) Errors() int {
	n := 0
	for _, d := range ds {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings counts warning diagnostics
func (ds Diagnostics) Warnings() int {
	return len(ds) - ds.Errors()
}

// DiagnosticSink receives the diagnostics of a compilation before its result is inspected
type DiagnosticSink interface {
	Emit(ctx context.Context, diags Diagnostics) error
}

// WriterSink writes one human-readable line per diagnostic
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink writing to w, or to stderr when w is nil
func NewWriterSink(w io.Writer) *WriterSink {
	if w == nil {
		w = os.Stderr
	}
	return &WriterSink{w: w}
}

// Emit implements DiagnosticSink
func (s *WriterSink) Emit(_ context.Context, diags Diagnostics) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(s.w, d.String()); err != nil {
			return err
		}
	}
	return nil
}

// LogSink reports diagnostics as structured log records
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a sink logging through l, or the default logger when l is nil
func NewLogSink(l *slog.Logger) *LogSink {
	if l == nil {
		l = slog.Default()
	}
	return &LogSink{log: l}
}

// Emit implements DiagnosticSink
func (s *LogSink) Emit(ctx context.Context, diags Diagnostics) error {
	for _, d := range diags {
		level := slog.LevelWarn
		if d.Severity == SeverityError {
			level = slog.LevelError
		}
		s.log.Log(ctx, level, d.Message,
			"source", d.Source,
			"line", d.Line,
			"column", d.Column)
	}
	return nil
}
