package pipeline

import "time"

// Observer receives pipeline lifecycle notifications. Implementations
// must be safe for use from a single run goroutine; the orchestrator
// never calls an observer concurrently for one run.
type Observer interface {
	OnStageStart(buildID string, stage StageName)
	OnStageComplete(buildID string, stage StageName, status StageStatus, d time.Duration)
	OnBuildComplete(st *State, err error)
}

// NoopObserver ignores all notifications.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(string, StageName)                               {}
func (NoopObserver) OnStageComplete(string, StageName, StageStatus, time.Duration) {}
func (NoopObserver) OnBuildComplete(*State, error)                                {}
