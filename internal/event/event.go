package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/armory/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Pipeline event types
const (
	ScriptCompiled      Type = domain.EventTypeScriptCompiled
	ScriptExecuted      Type = domain.EventTypeScriptExecuted
	WeaponMaterialized  Type = domain.EventTypeWeaponMaterialized
	InspectionCompleted Type = domain.EventTypeInspectionCompleted
)

// Typed event payloads for type safety

// ScriptCompiledPayloadV1 is the typed payload for script.compiled events
type ScriptCompiledPayloadV1 struct {
	Sources     []string `json:"sources"`
	Success     bool     `json:"success"`
	Errors      int      `json:"errors"`
	Warnings    int      `json:"warnings"`
	DurationMs  int64    `json:"duration_ms"`
	CompletedAt int64    `json:"completed_at"`
}

// ScriptExecutedPayloadV1 is the typed payload for script.executed events
type ScriptExecutedPayloadV1 struct {
	EntryPoint  string `json:"entry_point"`
	Success     bool   `json:"success"`
	Weapons     int    `json:"weapons"`
	DurationMs  int64  `json:"duration_ms"`
	CompletedAt int64  `json:"completed_at"`
}

// WeaponMaterializedPayloadV1 is the typed payload for weapon.materialized events
type WeaponMaterializedPayloadV1 struct {
	WeaponID   uint32   `json:"weapon_id"`
	Variant    string   `json:"variant"`
	Entity     string   `json:"entity"`
	Attributes []string `json:"attributes"`
}

// InspectionCompletedPayloadV1 is the typed payload for inspection.completed events
type InspectionCompletedPayloadV1 struct {
	Tick       uint64         `json:"tick"`
	ViewCounts map[string]int `json:"view_counts"`
	Timestamp  int64          `json:"timestamp"`
}

// Type-safe event constructors

// NewScriptCompiledEvent creates a new script compiled event
func NewScriptCompiledEvent(sources []string, success bool, errs, warnings int, took time.Duration) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ScriptCompiled,
		Payload: ScriptCompiledPayloadV1{
			Sources:     sources,
			Success:     success,
			Errors:      errs,
			Warnings:    warnings,
			DurationMs:  took.Milliseconds(),
			CompletedAt: time.Now().Unix(),
		},
	}
}

// NewScriptExecutedEvent creates a new script executed event
func NewScriptExecutedEvent(entryPoint string, success bool, weapons int, took time.Duration) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ScriptExecuted,
		Payload: ScriptExecutedPayloadV1{
			EntryPoint:  entryPoint,
			Success:     success,
			Weapons:     weapons,
			DurationMs:  took.Milliseconds(),
			CompletedAt: time.Now().Unix(),
		},
		Metadata: map[string]interface{}{
			MetadataKeyEntryPoint: entryPoint,
		},
	}
}

// NewWeaponMaterializedEvent creates a new weapon materialized event
func NewWeaponMaterializedEvent(weaponID uint32, variant, entity string, attributes []string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WeaponMaterialized,
		Payload: WeaponMaterializedPayloadV1{
			WeaponID:   weaponID,
			Variant:    variant,
			Entity:     entity,
			Attributes: attributes,
		},
	}
}

// NewInspectionCompletedEvent creates a new inspection completed event
func NewInspectionCompletedEvent(tick uint64, viewCounts map[string]int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    InspectionCompleted,
		Payload: InspectionCompletedPayloadV1{
			Tick:       tick,
			ViewCounts: viewCounts,
			Timestamp:  time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers.
// Handlers run synchronously in subscription order.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// NopBus discards every event. Used when a component runs without a bus.
type NopBus struct{}

// Publish implements Bus
func (NopBus) Publish(context.Context, Event) error { return nil }

// Subscribe implements Bus
func (NopBus) Subscribe(Type, Handler) {}
