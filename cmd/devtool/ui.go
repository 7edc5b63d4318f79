package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/osse101/armory/internal/script"
)

// status selects the marker and color of one console line
type status int

const (
	statusOK status = iota
	statusWarn
	statusFail
)

const colorReset = "\033[0m"

var statusStyles = map[status]struct{ color, mark string }{
	statusOK:   {"\033[0;32m", "✓"},
	statusWarn: {"\033[1;33m", "⚠"},
	statusFail: {"\033[0;31m", "✗"},
}

// console writes devtool output. Colors are used only on a terminal and never
// when NO_COLOR is set.
type console struct {
	w     io.Writer
	color bool
}

func newConsole(w io.Writer) *console {
	return &console{w: w, color: isTerminal(w) && os.Getenv("NO_COLOR") == ""}
}

var stdout = newConsole(os.Stdout)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func (c *console) paint(color, text string) string {
	if !c.color {
		return text
	}
	return color + text + colorReset
}

func (c *console) line(s status, format string, a ...any) {
	style := statusStyles[s]
	fmt.Fprintln(c.w, c.paint(style.color, style.mark+" "+fmt.Sprintf(format, a...)))
}

func (c *console) header(title string) {
	fmt.Fprintln(c.w, "\n"+c.paint(statusStyles[statusWarn].color, "=== "+title+" ==="))
}

// Emit implements script.DiagnosticSink, marking errors and warnings apart
func (c *console) Emit(_ context.Context, diags script.Diagnostics) error {
	for _, d := range diags {
		s := statusWarn
		if d.Severity == script.SeverityError {
			s = statusFail
		}
		c.line(s, "%s", d)
	}
	return nil
}

// checkHostile rejects arguments that could split or redirect a command line.
// Benchmark patterns legitimately contain regexp characters, so only shell
// control sequences are refused.
func checkHostile(inputs ...string) error {
	for _, s := range inputs {
		if strings.ContainsAny(s, "\n\r\x00") {
			return fmt.Errorf("hostile input detected: control character in %q", s)
		}
		for _, p := range []string{"`", "$(", "&&", "||", ";", ">", "<"} {
			if strings.Contains(s, p) {
				return fmt.Errorf("hostile input detected: pattern %q in %q", p, s)
			}
		}
	}
	return nil
}

// run executes a tool with stdout and stderr sent to w
func run(w io.Writer, name string, args ...string) error {
	if err := checkHostile(append([]string{name}, args...)...); err != nil {
		return err
	}
	// #nosec G204 - arguments are checked above
	cmd := exec.Command(name, args...)
	cmd.Stdout = w
	cmd.Stderr = w
	return cmd.Run()
}

// output executes a tool and returns its trimmed stdout
func output(name string, args ...string) (string, error) {
	var b strings.Builder
	if err := checkHostile(append([]string{name}, args...)...); err != nil {
		return "", err
	}
	// #nosec G204 - arguments are checked above
	cmd := exec.Command(name, args...)
	cmd.Stdout = &b
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
