// Package inspect reports materialized weapons once per host tick.
// A pass only reads the world.
package inspect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/ecs"
	"github.com/osse101/armory/internal/event"
	"github.com/osse101/armory/internal/logger"
	"github.com/osse101/armory/internal/script"
)

// Config tunes an inspection pass
type Config struct {
	// CacheSize bounds the number of rendered rows kept between ticks
	CacheSize int
	Views     []View
}

// Pass evaluates a fixed set of views over the world. It implements
// worker.Job so a scheduler can run it every tick.
type Pass struct {
	mu    sync.Mutex
	world *ecs.World
	views []View
	cache *rowCache
	bus   event.Bus
	caser cases.Caser
	tick  uint64
	last  *Report
}

// NewPass creates a pass over world. A nil bus discards events.
func NewPass(world *ecs.World, cfg Config, bus event.Bus) (*Pass, error) {
	if world == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNilWorld)
	}
	if err := reportValidator.Precompile(ReportSchemaPath); err != nil {
		return nil, fmt.Errorf(ErrMsgReportSchema, err)
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if len(cfg.Views) == 0 {
		cfg.Views = DefaultViews()
	}
	if bus == nil {
		bus = event.NopBus{}
	}
	return &Pass{
		world: world,
		views: cfg.Views,
		cache: newRowCache(cfg.CacheSize),
		bus:   bus,
		caser: cases.Title(language.English),
	}, nil
}

// Run evaluates every view once, logs one line per matched entity and returns
// the report. Passes are serialized.
func (p *Pass) Run(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.tick++
	log := logger.FromContext(ctx)
	start := time.Now()
	report := &Report{
		Tick:      p.tick,
		Timestamp: start.UTC(),
		Script:    scriptInfo(p.world),
		Views:     make([]ViewResult, 0, len(p.views)),
	}

	for _, v := range p.views {
		entities := v.Match(p.world)
		result := ViewResult{Name: v.Name, Rows: make([]Row, 0, len(entities))}
		for _, e := range entities {
			row := p.row(e)
			result.Rows = append(result.Rows, row)
			log.Info(LogMsgRow,
				"tick", p.tick,
				"view", v.Name,
				"entity", row.Entity,
				"weapon", row.Weapon,
				slogGroup(row.Attributes))
		}
		report.Views = append(report.Views, result)
	}

	p.last = report
	counts := report.Counts()
	if err := p.bus.Publish(ctx, event.NewInspectionCompletedEvent(p.tick, counts)); err != nil {
		log.Warn(LogMsgEventFailed, "error", err)
	}
	log.Debug(LogMsgPassCompleted, "tick", p.tick, "views", counts, "duration", time.Since(start))
	return report, nil
}

// Process implements worker.Job
func (p *Pass) Process(ctx context.Context) error {
	_, err := p.Run(ctx)
	return err
}

// Last returns the most recent report, or nil before the first pass
func (p *Pass) Last() *Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Ticks returns the number of completed passes
func (p *Pass) Ticks() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tick
}

// CachedRows returns the number of rendered rows held in the cache
func (p *Pass) CachedRows() int {
	return p.cache.len()
}

// scriptInfo describes the stored script context, or returns nil when startup
// has not stored one
func scriptInfo(w *ecs.World) *ScriptInfo {
	sc, ok := ecs.GetResource[script.Context](w)
	if !ok {
		return nil
	}
	info := &ScriptInfo{EntryPoint: sc.EntryPoint(), Sources: []string{}}
	if unit := sc.Unit(); unit != nil {
		info.Sources = unit.Sources()
	}
	return info
}

func (p *Pass) row(e ecs.Entity) Row {
	if r, ok := p.cache.get(e); ok {
		return r
	}
	r := render(p.world, e, p.caser)
	p.cache.add(e, r)
	return r
}
