package pipeline

import (
	"time"

	"git.home.luguber.info/inful/siteforge/internal/ai"
	"git.home.luguber.info/inful/siteforge/internal/bundle"
)

// StageName is a strongly-typed identifier for a pipeline stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageInit         StageName = "init"
	StageBlueprint    StageName = "blueprint"
	StageBrand        StageName = "brand"
	StagePages        StageName = "pages"
	StageIntents      StageName = "intents"
	StageAutomations  StageName = "automations"
	StageEntitlements StageName = "entitlements"
	StagePersist      StageName = "persist"
)

// StageOrder returns the fixed, linear stage order. Stage order is not
// data-dependency-driven; it never changes between runs.
func StageOrder() []StageName {
	return []StageName{
		StageInit, StageBlueprint, StageBrand, StagePages,
		StageIntents, StageAutomations, StageEntitlements, StagePersist,
	}
}

// StageStatus is the lifecycle state of one stage in one run.
type StageStatus string

const (
	StatusPending   StageStatus = "pending"
	StatusRunning   StageStatus = "running"
	StatusCompleted StageStatus = "completed"
	StatusFailed    StageStatus = "failed"
	StatusSkipped   StageStatus = "skipped"
)

// StageError is the recorded failure detail for a failed stage.
type StageError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StageResult tracks one stage through one run. Initialized to pending
// for all stages before execution begins.
type StageResult struct {
	Name        StageName   `json:"name"`
	Status      StageStatus `json:"status"`
	StartedAt   time.Time   `json:"startedAt,omitzero"`
	CompletedAt time.Time   `json:"completedAt,omitzero"`
	Error       *StageError `json:"error,omitempty"`
}

// State is the orchestration-only run state: created at run start,
// mutated stage by stage, handed back to the caller at run end. It is
// never shared across concurrent runs.
type State struct {
	BuildID      string
	SiteID       string
	Mode         string
	CurrentStage StageName
	Stages       map[StageName]*StageResult
	Bundle       *bundle.SiteBundle

	// Blueprint is run-scoped scratch shared between stages: the
	// AI-authored blueprint, or the default one resolved on first use.
	Blueprint *ai.Blueprint

	StartedAt   time.Time
	CompletedAt time.Time
}

func newState(siteID, buildID, mode string, b *bundle.SiteBundle) *State {
	stages := make(map[StageName]*StageResult, len(StageOrder()))
	for _, name := range StageOrder() {
		stages[name] = &StageResult{Name: name, Status: StatusPending}
	}
	return &State{
		BuildID:   buildID,
		SiteID:    siteID,
		Mode:      mode,
		Stages:    stages,
		Bundle:    b,
		StartedAt: time.Now(),
	}
}

// effectiveBlueprint resolves the blueprint for stages that need one:
// the AI-generated blueprint when present, otherwise the deterministic
// default, memoized so every stage sees the same value.
func (s *State) effectiveBlueprint(bc bundle.BuildContext) *ai.Blueprint {
	if s.Blueprint == nil {
		s.Blueprint = ai.DefaultBlueprint(bc)
	}
	return s.Blueprint
}
