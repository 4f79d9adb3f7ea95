// Package events defines the domain events exchanged between modules.
// The bus implementation lives in platform/events.
package events

import (
	platformevents "cardshare_backend/platform/events"
	"cardshare_backend/platform/logger"
)

// InMemoryBus is a type alias to the platform InMemoryBus
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
