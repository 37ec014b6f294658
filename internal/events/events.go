// Package events fans build lifecycle notifications out to in-process
// subscribers, durable storage, and (optionally) NATS.
package events

import (
	"sync"
	"time"
)

// Event types emitted during a pipeline run.
const (
	TypeStageStarted   = "build.stage_started"
	TypeStageCompleted = "build.stage_completed"
	TypeBuildCompleted = "build.completed"
	TypeBuildFailed    = "build.failed"
)

// Event is one build lifecycle notification.
type Event struct {
	Type       string    `json:"type"`
	BuildID    string    `json:"buildId"`
	SiteID     string    `json:"siteId,omitempty"`
	Stage      string    `json:"stage,omitempty"`
	Status     string    `json:"status,omitempty"`
	DurationMS int64     `json:"durationMs,omitempty"`
	At         time.Time `json:"at"`
}

// Handler processes an Event. Handler errors are the handler's problem;
// the bus never fails a build over them.
type Handler func(Event)

// Bus is a simple synchronous pub/sub bus. Delivery order matches
// subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus { return &Bus{} }

// Subscribe registers a handler for all events.
func (b *Bus) Subscribe(h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
}

// Publish delivers an event to all handlers synchronously.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()
	for _, h := range hs {
		h(e)
	}
}
