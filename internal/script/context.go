package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/ast"
	"github.com/yuin/gopher-lua/parse"

	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/event"
	"github.com/osse101/armory/internal/logger"
)

// State is the lifecycle stage of a Context
type State int

const (
	StateUninitialized State = iota
	StateCompiling
	StateReady
	StateCompileFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCompiling:
		return "compiling"
	case StateReady:
		return "ready"
	case StateCompileFailed:
		return "compile_failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Context owns the compiled unit and the resolved runtime of a script source set.
// Once Ready it is read-only and safe for concurrent use; each VM it creates is independent.
type Context struct {
	mu          sync.RWMutex
	state       State
	libraries   []Library
	modules     []*Module
	sink        DiagnosticSink
	bus         event.Bus
	entryPoint  string
	runtime     *Runtime
	unit        *Unit
	diagnostics Diagnostics
}

// Option configures a Context
type Option func(*Context)

// WithModules installs bridge modules, in order
func WithModules(modules ...*Module) Option {
	return func(c *Context) {
		c.modules = append(c.modules, modules...)
	}
}

// WithSink sets where diagnostics are emitted. Defaults to a stderr WriterSink.
func WithSink(sink DiagnosticSink) Option {
	return func(c *Context) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// WithBus publishes compile events on bus
func WithBus(bus event.Bus) Option {
	return func(c *Context) {
		if bus != nil {
			c.bus = bus
		}
	}
}

// WithEntryPoint names the function the sources are expected to declare
func WithEntryPoint(name string) Option {
	return func(c *Context) {
		if name != "" {
			c.entryPoint = name
		}
	}
}

// New creates an Uninitialized context
func New(opts ...Option) *Context {
	c := &Context{
		state:      StateUninitialized,
		libraries:  DefaultLibraries(),
		sink:       NewWriterSink(nil),
		bus:        event.NopBus{},
		entryPoint: domain.DefaultEntryPoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewContext creates a context and compiles sources into it
func NewContext(ctx context.Context, sources *Sources, opts ...Option) (*Context, error) {
	c := New(opts...)
	if err := c.Compile(ctx, sources); err != nil {
		return nil, err
	}
	return c, nil
}

// Compile builds the runtime, then parses, lints and compiles every source.
// Diagnostics are emitted to the sink before the outcome is decided. A bridge
// registration error leaves the context Uninitialized.
func (c *Context) Compile(ctx context.Context, sources *Sources) error {
	log := logger.FromContext(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUninitialized {
		return fmt.Errorf("%w: %s (state %s)", domain.ErrInvalidInput, ErrMsgAlreadyCompiled, c.state)
	}
	if sources == nil || sources.Len() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNoSources)
	}

	rt, err := newRuntime(c.libraries, c.modules)
	if err != nil {
		return err
	}

	c.state = StateCompiling
	start := time.Now()
	log.Info(LogMsgCompileStarted, "sources", sources.Len(), "modules", rt.Modules())

	unit, diags := compileSources(ctx, sources, rt, c.entryPoint)
	c.diagnostics = diags

	if len(diags) > 0 {
		log.Debug(LogMsgDiagnosticsFound, "errors", diags.Errors(), "warnings", diags.Warnings())
		if err := c.sink.Emit(ctx, diags); err != nil {
			log.Warn(LogMsgSinkFailed, "error", err)
		}
	}

	success := !diags.HasErrors()
	c.publish(ctx, event.NewScriptCompiledEvent(sources.Names(), success, diags.Errors(), diags.Warnings(), time.Since(start)))

	if !success {
		c.state = StateCompileFailed
		log.Error(LogMsgCompileFailed, "errors", diags.Errors())
		return &CompileError{Diagnostics: diags}
	}

	c.runtime = rt
	c.unit = unit
	c.state = StateReady
	log.Info(LogMsgCompileSucceeded, "sources", unit.Len(), "warnings", diags.Warnings(), "duration", time.Since(start))
	return nil
}

func (c *Context) publish(ctx context.Context, evt event.Event) {
	if err := c.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgEventFailed, "type", evt.Type, "error", err)
	}
}

// compileSources never stops at the first failing source so that every
// diagnostic of the set is reported in one pass.
func compileSources(ctx context.Context, sources *Sources, rt *Runtime, entry string) (*Unit, Diagnostics) {
	var diags Diagnostics
	unit := &Unit{}
	entryDeclared := false

	chunks := make([][]ast.Stmt, len(sources.items))
	parseErrs := make([]error, len(sources.items))
	for i, src := range sources.items {
		chunks[i], parseErrs[i] = parse.Parse(strings.NewReader(src.Text), src.Name)
	}
	defined := collectMembers(rt.byName, chunks...)

	for i, src := range sources.items {
		if err := ctx.Err(); err != nil {
			diags = append(diags, Diagnostic{Severity: SeverityError, Source: src.Name, Message: err.Error()})
			break
		}
		if parseErrs[i] != nil {
			diags = append(diags, parseDiagnostic(src.Name, parseErrs[i]))
			continue
		}
		chunk := chunks[i]

		lint := lintChunk(src.Name, chunk, rt.byName, defined)
		diags = append(diags, lint...)
		if declaresEntry(chunk, entry) {
			entryDeclared = true
		}

		proto, err := lua.Compile(chunk, src.Name)
		if err != nil {
			diags = append(diags, compileDiagnostic(src.Name, err))
			continue
		}
		if lint.HasErrors() {
			continue
		}
		unit.names = append(unit.names, src.Name)
		unit.protos = append(unit.protos, proto)
	}

	if !entryDeclared && !diags.HasErrors() {
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Source:   sources.items[len(sources.items)-1].Name,
			Message:  fmt.Sprintf(LintMsgMissingEntry+"; "+LintMsgSourceEntryHint, entry, entry),
		})
	}
	return unit, diags
}

func parseDiagnostic(source string, err error) Diagnostic {
	d := Diagnostic{Severity: SeverityError, Source: source, Message: err.Error()}
	var perr *parse.Error
	if errors.As(err, &perr) {
		d.Message = perr.Message
		if perr.Pos.Line != parse.EOF {
			d.Line = perr.Pos.Line
			d.Column = perr.Pos.Column
			if perr.Token != "" {
				d.Message = fmt.Sprintf("%s near '%s'", perr.Message, perr.Token)
			}
		} else {
			d.Message = perr.Message + " at end of input"
		}
	}
	return d
}

func compileDiagnostic(source string, err error) Diagnostic {
	d := Diagnostic{Severity: SeverityError, Source: source, Message: err.Error()}
	var cerr *lua.CompileError
	if errors.As(err, &cerr) {
		d.Line = cerr.Line
		d.Message = cerr.Message
	}
	return d
}

// State returns the current lifecycle stage
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Diagnostics returns the diagnostics of the last compilation
func (c *Context) Diagnostics() Diagnostics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(Diagnostics(nil), c.diagnostics...)
}

// EntryPoint returns the configured entry function name
func (c *Context) EntryPoint() string {
	return c.entryPoint
}

// Runtime returns the shared runtime, or nil unless Ready
func (c *Context) Runtime() *Runtime {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.runtime
}

// Unit returns the shared compiled unit, or nil unless Ready
func (c *Context) Unit() *Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unit
}

// VM creates a fresh, independent VM bound to the shared runtime and unit.
// It never parses or compiles.
func (c *Context) VM() (*VM, error) {
	c.mu.RLock()
	state, rt, unit := c.state, c.runtime, c.unit
	c.mu.RUnlock()

	if state != StateReady {
		return nil, fmt.Errorf("%w: %s (state %s)", domain.ErrInvalidInput, ErrMsgNotReady, state)
	}
	return newVM(rt, unit), nil
}
