// Package materialize runs a compiled script's entry point and turns the
// weapons it returns into entities.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/ecs"
	"github.com/osse101/armory/internal/event"
	"github.com/osse101/armory/internal/logger"
	"github.com/osse101/armory/internal/script"
	"github.com/osse101/armory/internal/validation"
	"github.com/osse101/armory/internal/weapon"
)

// Executor runs a named entry point and returns its single result.
// *script.VM implements it.
type Executor interface {
	Execute(ctx context.Context, entry string) (lua.LValue, error)
}

// Config tunes a materialization run
type Config struct {
	// EntryPoint is invoked by Run. Startup uses the context's own entry point.
	EntryPoint  string
	ExecTimeout time.Duration
}

// Result describes one successful run
type Result struct {
	RunID      string
	Entities   []ecs.Entity
	Violations []validation.Violation
	Duration   time.Duration
}

// Service executes scripts and materializes their weapons
type Service interface {
	// Run executes the entry point on exec, decodes the weapons and spawns one
	// entity per weapon. Nothing is spawned unless execution, decoding and the
	// attribute policy all succeed.
	Run(ctx context.Context, exec Executor, world *ecs.World) (*Result, error)
	// Startup runs the entry point of sc on a fresh VM and closes the VM
	// afterwards. Once every weapon is spawned, sc is stored in the world's
	// resources; a failed run leaves the resources untouched.
	Startup(ctx context.Context, sc *script.Context, world *ecs.World) (*Result, error)
}

type service struct {
	cfg    Config
	policy *validation.AttributePolicy
	bus    event.Bus
}

// NewService creates a materialization service. A nil policy is lenient and a
// nil bus discards events.
func NewService(cfg Config, policy *validation.AttributePolicy, bus event.Bus) Service {
	if cfg.EntryPoint == "" {
		cfg.EntryPoint = domain.DefaultEntryPoint
	}
	if cfg.ExecTimeout <= 0 {
		cfg.ExecTimeout = DefaultExecTimeout
	}
	if policy == nil {
		policy = validation.NewAttributePolicy(false)
	}
	if bus == nil {
		bus = event.NopBus{}
	}
	return &service{cfg: cfg, policy: policy, bus: bus}
}

func (s *service) Startup(ctx context.Context, sc *script.Context, world *ecs.World) (*Result, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNilContext)
	}
	if world == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNilWorld)
	}
	ctx = withRunID(ctx)
	log := logger.FromContext(ctx)

	vm, err := sc.VM()
	if err != nil {
		log.Error(LogMsgRunFailed, "error", err)
		return nil, err
	}
	defer vm.Close()

	result, err := s.run(ctx, vm, sc.EntryPoint(), world)
	if err != nil {
		return nil, err
	}

	if err := ecs.InsertResource(world, sc); err != nil {
		log.Warn(LogMsgResourceConflict, "error", err)
	} else {
		log.Debug(LogMsgContextInserted)
	}
	return result, nil
}

func (s *service) Run(ctx context.Context, exec Executor, world *ecs.World) (*Result, error) {
	if exec == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNilExecutor)
	}
	if world == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNilWorld)
	}
	return s.run(withRunID(ctx), exec, s.cfg.EntryPoint, world)
}

func (s *service) run(ctx context.Context, exec Executor, entry string, world *ecs.World) (*Result, error) {
	log := logger.FromContext(ctx)
	start := time.Now()
	log.Info(LogMsgRunStarted, "entry_point", entry, "timeout", s.cfg.ExecTimeout)

	weapons, err := s.execute(ctx, exec, entry)
	if err != nil {
		s.publish(ctx, event.NewScriptExecutedEvent(entry, false, 0, time.Since(start)))
		log.Error(LogMsgRunFailed, "entry_point", entry, "error", err)
		return nil, err
	}

	violations := s.policy.Check(weapons)
	if err := s.policy.Enforce(ctx, violations); err != nil {
		s.publish(ctx, event.NewScriptExecutedEvent(entry, false, len(weapons), time.Since(start)))
		log.Error(LogMsgAttributePolicy, "violations", len(violations), "error", err)
		return nil, err
	}

	result := &Result{
		Entities:   make([]ecs.Entity, 0, len(weapons)),
		Violations: violations,
	}
	result.RunID, _ = logger.RunIDFromContext(ctx)

	for _, w := range weapons {
		e, err := spawn(world, w)
		if err != nil {
			log.Error(LogMsgRunFailed, "weapon", w.String(), "error", err)
			return nil, err
		}
		result.Entities = append(result.Entities, e)
		log.Debug(LogMsgWeaponSpawned, "entity", e.String(), "weapon", w.String(), "attributes", w.Attributes())
		s.publish(ctx, event.NewWeaponMaterializedEvent(w.ID, w.Variant.String(), e.String(), w.Attributes()))
	}

	result.Duration = time.Since(start)
	s.publish(ctx, event.NewScriptExecutedEvent(entry, true, len(weapons), result.Duration))
	log.Info(LogMsgRunCompleted, "entry_point", entry, "entities", len(result.Entities), "violations", len(violations), "duration", result.Duration)
	return result, nil
}

// execute runs the entry point under the configured deadline and decodes the
// result. Decoding finishes before anything is spawned.
func (s *service) execute(ctx context.Context, exec Executor, entry string) ([]domain.Weapon, error) {
	execCtx, cancel := context.WithTimeout(ctx, s.cfg.ExecTimeout)
	defer cancel()

	lv, err := exec.Execute(execCtx, entry)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgExecutionFailed, "entry_point", entry, "error", err)
		if !errors.Is(err, domain.ErrExecution) {
			err = fmt.Errorf("%w: %w", domain.ErrExecution, err)
		}
		return nil, err
	}

	weapons, err := weapon.Decode(lv)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgDecodeFailed, "entry_point", entry, "error", err)
		return nil, err
	}
	return weapons, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgEventFailed, "type", evt.Type, "error", err)
	}
}

func withRunID(ctx context.Context) context.Context {
	if _, ok := logger.RunIDFromContext(ctx); ok {
		return ctx
	}
	return logger.WithRunID(ctx, logger.GenerateRunID())
}
