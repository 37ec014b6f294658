package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/siteforge/internal/pipeline"
	"git.home.luguber.info/inful/siteforge/internal/storage"
)

// BusObserver adapts pipeline lifecycle callbacks into bus events and,
// when a sink is configured, durable build_events rows. Persistence
// failures are logged, never propagated: events are diagnostics, not
// build state.
type BusObserver struct {
	bus  *Bus
	sink storage.EventSink
}

// NewBusObserver creates an observer publishing to bus. sink may be nil.
func NewBusObserver(bus *Bus, sink storage.EventSink) *BusObserver {
	return &BusObserver{bus: bus, sink: sink}
}

func (o *BusObserver) OnStageStart(buildID string, stage pipeline.StageName) {
	o.emit(Event{Type: TypeStageStarted, BuildID: buildID, Stage: string(stage), At: time.Now()})
}

func (o *BusObserver) OnStageComplete(buildID string, stage pipeline.StageName, status pipeline.StageStatus, d time.Duration) {
	o.emit(Event{
		Type:       TypeStageCompleted,
		BuildID:    buildID,
		Stage:      string(stage),
		Status:     string(status),
		DurationMS: d.Milliseconds(),
		At:         time.Now(),
	})
}

func (o *BusObserver) OnBuildComplete(st *pipeline.State, err error) {
	typ := TypeBuildCompleted
	status := "success"
	if err != nil {
		typ = TypeBuildFailed
		status = "failed"
	}
	o.emit(Event{Type: typ, BuildID: st.BuildID, SiteID: st.SiteID, Status: status, At: time.Now()})
}

func (o *BusObserver) emit(e Event) {
	o.bus.Publish(e)
	if o.sink == nil {
		return
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := o.sink.AppendBuildEvent(context.Background(), e.BuildID, e.Type, payload); err != nil {
		slog.Warn("Failed to persist build event", "type", e.Type, "build", e.BuildID, "error", err)
	}
}
