package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/siteforge/internal/ai"
	"git.home.luguber.info/inful/siteforge/internal/automation"
	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/intent"
	"git.home.luguber.info/inful/siteforge/internal/metrics"
	"git.home.luguber.info/inful/siteforge/internal/storage"
)

// stageFn mutates the run state; an error fails the stage and the run.
type stageFn func(ctx context.Context, st *State, bc bundle.BuildContext) error

// Orchestrator drives one build pipeline run: eight fixed stages, first
// failure aborts. One Orchestrator may serve many sequential runs; each
// run owns its own State, so concurrent runs need one Orchestrator (or
// one State) each only in the sense that nothing here is shared mutable.
type Orchestrator struct {
	store     storage.Store
	provider  ai.Provider
	catalog   *intent.Catalog
	rules     *intent.RuleEngine
	installer *automation.Installer
	recorder  metrics.Recorder
	observer  Observer
}

// New creates an Orchestrator with the default catalog, rule table, and
// recipe tables. Use the With* methods to override collaborators.
func New(store storage.Store, provider ai.Provider) *Orchestrator {
	return &Orchestrator{
		store:     store,
		provider:  provider,
		catalog:   intent.DefaultCatalog(),
		rules:     intent.NewRuleEngine(intent.DefaultRules()),
		installer: automation.NewInstaller(),
		recorder:  metrics.NoopRecorder{},
		observer:  NoopObserver{},
	}
}

// WithRecorder injects a metrics recorder.
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r != nil {
		o.recorder = r
	}
	return o
}

// WithObserver injects a lifecycle observer.
func (o *Orchestrator) WithObserver(obs Observer) *Orchestrator {
	if obs != nil {
		o.observer = obs
	}
	return o
}

// WithCatalog replaces the intent catalog used for new runs.
func (o *Orchestrator) WithCatalog(c *intent.Catalog) *Orchestrator {
	if c != nil {
		o.catalog = c
	}
	return o
}

// WithRules replaces the wiring rule engine used for new runs.
func (o *Orchestrator) WithRules(r *intent.RuleEngine) *Orchestrator {
	if r != nil {
		o.rules = r
	}
	return o
}

// Execute runs the full pipeline for one build context. On success the
// returned State has every stage completed or skipped. On failure the
// error is returned together with the partial State whose failed stage
// carries the error detail; durable writes from earlier stages are not
// rolled back.
func (o *Orchestrator) Execute(ctx context.Context, bc bundle.BuildContext) (*State, error) {
	siteID := uuid.NewString()
	buildID := uuid.NewString()
	skeleton := bundle.NewSkeleton(siteID, buildID, bc.BusinessID, bc.OwnerID, bc.Prompt, bc.Mode, o.catalog)
	st := newState(siteID, buildID, bc.Mode, skeleton)

	slog.Info("Pipeline run starting", "site", siteID, "build", buildID, "mode", bc.Mode)

	executors := map[StageName]stageFn{
		StageInit:         o.stageInit,
		StageBlueprint:    o.stageBlueprint,
		StageBrand:        o.stageBrand,
		StagePages:        o.stagePages,
		StageIntents:      o.stageIntents,
		StageAutomations:  o.stageAutomations,
		StageEntitlements: o.stageEntitlements,
		StagePersist:      o.stagePersist,
	}

	for _, name := range StageOrder() {
		sr := st.Stages[name]

		if name == StageBlueprint && bc.Mode != bundle.ModeSystemsAI {
			sr.Status = StatusSkipped
			st.Bundle.AppendTrace("info", string(name), "stage skipped: mode does not request an AI blueprint")
			o.recorder.IncStageResult(string(name), metrics.ResultSkipped)
			o.observer.OnStageComplete(buildID, name, StatusSkipped, 0)
			continue
		}

		st.CurrentStage = name
		sr.Status = StatusRunning
		sr.StartedAt = time.Now()
		st.Bundle.AppendTrace("info", string(name), "stage started")
		o.observer.OnStageStart(buildID, name)

		err := executors[name](ctx, st, bc)
		dur := time.Since(sr.StartedAt)
		o.recorder.ObserveStageDuration(string(name), dur)

		if err != nil {
			se := newStageExecutionError(name, err)
			sr.Status = StatusFailed
			sr.CompletedAt = time.Now()
			sr.Error = &StageError{Code: se.Code, Message: err.Error()}
			st.Bundle.AppendTrace("error", string(name), fmt.Sprintf("stage failed: %v", err))
			st.Bundle.Build.Errors = append(st.Bundle.Build.Errors, se.Error())
			o.recorder.IncStageResult(string(name), metrics.ResultFailed)
			o.recorder.IncBuildOutcome("failed")
			o.observer.OnStageComplete(buildID, name, StatusFailed, dur)
			o.observer.OnBuildComplete(st, se)
			slog.Error("Pipeline stage failed", "build", buildID, "stage", name, "error", err)
			return st, se
		}

		sr.Status = StatusCompleted
		sr.CompletedAt = time.Now()
		st.Bundle.AppendTrace("info", string(name), "stage completed")
		o.recorder.IncStageResult(string(name), metrics.ResultCompleted)
		o.observer.OnStageComplete(buildID, name, StatusCompleted, dur)
	}

	st.CompletedAt = time.Now()
	o.recorder.ObserveBuildDuration(st.CompletedAt.Sub(st.StartedAt))
	o.recorder.IncBuildOutcome("success")
	o.observer.OnBuildComplete(st, nil)
	slog.Info("Pipeline run completed", "build", buildID,
		"pages", len(st.Bundle.Pages), "bindings", len(st.Bundle.Intents.Bindings),
		"warnings", len(st.Bundle.Build.Warnings))
	return st, nil
}
