package bootstrap

import (
	"log/slog"

	"github.com/osse101/armory/internal/event"
)

// InitializeEventSystem creates the in-process event bus and registers the
// event handlers on it.
func InitializeEventSystem() (event.Bus, error) {
	eventBus := event.NewMemoryBus()
	if err := RegisterEventHandlers(eventBus); err != nil {
		return nil, err
	}
	slog.Info(LogMsgEventSystemInitialized)
	return eventBus, nil
}
