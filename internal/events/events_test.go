package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/siteforge/internal/ai"
	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/pipeline"
	"git.home.luguber.info/inful/siteforge/internal/storage"
)

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.Subscribe(func(e Event) { order = append(order, "first") })
	bus.Subscribe(func(e Event) { order = append(order, "second") })

	bus.Publish(Event{Type: TypeStageStarted, BuildID: "b1", At: time.Now()})

	require.Equal(t, []string{"first", "second"}, order)
}

func TestBusIgnoresNilHandler(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(nil)
	bus.Publish(Event{Type: TypeBuildCompleted})
}

func TestBusObserverMapsCallbacks(t *testing.T) {
	bus := NewBus()
	var got []Event
	bus.Subscribe(func(e Event) { got = append(got, e) })
	obs := NewBusObserver(bus, nil)

	obs.OnStageStart("b1", pipeline.StageInit)
	obs.OnStageComplete("b1", pipeline.StageInit, pipeline.StatusCompleted, 150*time.Millisecond)

	require.Len(t, got, 2)
	require.Equal(t, TypeStageStarted, got[0].Type)
	require.Equal(t, "init", got[0].Stage)
	require.Equal(t, TypeStageCompleted, got[1].Type)
	require.Equal(t, "completed", got[1].Status)
	require.Equal(t, int64(150), got[1].DurationMS)
}

func TestBusObserverBuildOutcome(t *testing.T) {
	bus := NewBus()
	var got []Event
	bus.Subscribe(func(e Event) { got = append(got, e) })
	obs := NewBusObserver(bus, nil)

	st := &pipeline.State{BuildID: "b1", SiteID: "s1"}
	obs.OnBuildComplete(st, nil)
	obs.OnBuildComplete(st, context.DeadlineExceeded)

	require.Len(t, got, 2)
	require.Equal(t, TypeBuildCompleted, got[0].Type)
	require.Equal(t, "success", got[0].Status)
	require.Equal(t, "s1", got[0].SiteID)
	require.Equal(t, TypeBuildFailed, got[1].Type)
	require.Equal(t, "failed", got[1].Status)
}

func TestBusObserverPersistsToSink(t *testing.T) {
	store := storage.NewMemoryStore()
	obs := NewBusObserver(NewBus(), store)

	obs.OnStageStart("b1", pipeline.StagePages)
	obs.OnStageComplete("b1", pipeline.StagePages, pipeline.StatusCompleted, time.Second)

	require.Equal(t, 2, store.EventCount("b1"))
}

func TestBusObserverThroughPipelineRun(t *testing.T) {
	store := storage.NewMemoryStore()
	bus := NewBus()
	count := 0
	bus.Subscribe(func(e Event) { count++ })

	o := pipeline.New(store, ai.NewTemplateProvider()).WithObserver(NewBusObserver(bus, store))
	st, err := o.Execute(context.Background(), bundle.BuildContext{
		Prompt:     "a bakery",
		BusinessID: "biz-1",
		OwnerID:    "owner-1",
		Mode:       bundle.ModeTemplate,
	})
	require.NoError(t, err)

	// 7 starts + 8 completions + 1 build completion.
	require.Equal(t, 16, count)
	require.Equal(t, 16, store.EventCount(st.BuildID))
}
