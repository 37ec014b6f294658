package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/siteforge/internal/ai"
	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/intent"
	"git.home.luguber.info/inful/siteforge/internal/storage"
)

// scriptedProvider wraps the deterministic template provider, counting
// calls and injecting failures per method.
type scriptedProvider struct {
	inner ai.Provider

	blueprintCalls int
	pageCalls      int
	inferCalls     int

	blueprintErr error
	brandErr     error
	pageErr      error
	inferResult  *intent.WiringResult
	inferErr     error
}

func newScriptedProvider() *scriptedProvider {
	return &scriptedProvider{inner: ai.NewTemplateProvider()}
}

func (p *scriptedProvider) GenerateBlueprint(ctx context.Context, bc bundle.BuildContext) (*ai.Blueprint, error) {
	p.blueprintCalls++
	if p.blueprintErr != nil {
		return nil, p.blueprintErr
	}
	return p.inner.GenerateBlueprint(ctx, bc)
}

func (p *scriptedProvider) GenerateBrandKit(ctx context.Context, bp *ai.Blueprint, bc bundle.BuildContext) (bundle.Brand, error) {
	if p.brandErr != nil {
		return bundle.Brand{}, p.brandErr
	}
	return p.inner.GenerateBrandKit(ctx, bp, bc)
}

func (p *scriptedProvider) GeneratePage(ctx context.Context, route bundle.RouteDef, bp *ai.Blueprint, brand bundle.Brand, bc bundle.BuildContext) (*bundle.PageBundle, error) {
	p.pageCalls++
	if p.pageErr != nil {
		return nil, p.pageErr
	}
	return p.inner.GeneratePage(ctx, route, bp, brand, bc)
}

func (p *scriptedProvider) InferIntent(ctx context.Context, text, elementContext string, available []intent.Definition) (*intent.WiringResult, error) {
	p.inferCalls++
	return p.inferResult, p.inferErr
}

// recordingObserver captures lifecycle callbacks in order.
type recordingObserver struct {
	started   []StageName
	completed []StageName
	statuses  []StageStatus
	buildErr  error
	buildDone bool
}

func (r *recordingObserver) OnStageStart(buildID string, stage StageName) {
	r.started = append(r.started, stage)
}

func (r *recordingObserver) OnStageComplete(buildID string, stage StageName, status StageStatus, d time.Duration) {
	r.completed = append(r.completed, stage)
	r.statuses = append(r.statuses, status)
}

func (r *recordingObserver) OnBuildComplete(st *State, err error) {
	r.buildDone = true
	r.buildErr = err
}

func templateContext() bundle.BuildContext {
	return bundle.BuildContext{
		Prompt:     "a family-run italian restaurant",
		BusinessID: "biz-1",
		OwnerID:    "owner-1",
		Mode:       bundle.ModeTemplate,
		Industry:   "restaurant",
	}
}

func TestExecuteTemplateModeHappyPath(t *testing.T) {
	store := storage.NewMemoryStore()
	provider := newScriptedProvider()
	o := New(store, provider)

	st, err := o.Execute(context.Background(), templateContext())
	require.NoError(t, err)

	// Blueprint is skipped outside AI mode and the provider is never
	// asked for one.
	require.Equal(t, StatusSkipped, st.Stages[StageBlueprint].Status)
	require.Zero(t, provider.blueprintCalls)

	for _, name := range StageOrder() {
		if name == StageBlueprint {
			continue
		}
		require.Equal(t, StatusCompleted, st.Stages[name].Status, "stage %s", name)
	}

	// Default blueprint yields four pages; the first route is home.
	require.Len(t, st.Bundle.Manifest.Routes, 4)
	require.Equal(t, "/", st.Bundle.Manifest.Routes[0].Path)
	require.True(t, st.Bundle.Manifest.Routes[0].IsHome)
	require.Equal(t, "home", st.Bundle.Runtime.Entry.PageID)
	require.Equal(t, 4, provider.pageCalls)
	require.Len(t, st.Bundle.Pages, 4)

	require.Equal(t, bundle.SiteStatusPreview, st.Bundle.Site.Status)
	require.Equal(t, "free", st.Bundle.Entitlements.Plan)
	require.Equal(t, 5, st.Bundle.Entitlements.Limits.PagesMax)
	require.False(t, st.CompletedAt.IsZero())
}

func TestExecuteWiresTemplateElements(t *testing.T) {
	store := storage.NewMemoryStore()
	provider := newScriptedProvider()
	o := New(store, provider)

	st, err := o.Execute(context.Background(), templateContext())
	require.NoError(t, err)

	bindings := st.Bundle.Intents.Bindings
	require.Len(t, bindings, 6)

	// Every template element is covered by a deterministic rule, so the
	// inference fallback is never consulted.
	require.Zero(t, provider.inferCalls)
	for _, b := range bindings {
		require.Equal(t, intent.ProvenanceDeterministic, b.Provenance)
	}

	// Sequence numbers run monotonically across pages in route order.
	require.Equal(t, "ut-home-1", bindings[0].ID)
	require.Equal(t, "booking.request", bindings[0].IntentID)
	require.Equal(t, "Schedule Appointment", bindings[0].Label)
	require.Equal(t, "ut-home-2", bindings[1].ID)
	require.Equal(t, "nav.go", bindings[1].IntentID)
	require.Equal(t, "ut-about-3", bindings[2].ID)
	require.Equal(t, "ut-services-4", bindings[3].ID)
	require.Equal(t, "lead.capture", bindings[3].IntentID)
	require.Equal(t, "ut-services-5", bindings[4].ID)
	require.Equal(t, "contact.submit", bindings[4].IntentID)
	require.Equal(t, "ut-contact-6", bindings[5].ID)
	require.Equal(t, "form.submit", bindings[5].IntentID)

	// Each page holds exactly its own subset.
	require.Len(t, st.Bundle.Pages["home"].IntentBindings, 2)
	require.Len(t, st.Bundle.Pages["about"].IntentBindings, 1)
	require.Len(t, st.Bundle.Pages["services"].IntentBindings, 2)
	require.Len(t, st.Bundle.Pages["contact"].IntentBindings, 1)
}

func TestExecutePersistsBundleAndRows(t *testing.T) {
	store := storage.NewMemoryStore()
	o := New(store, newScriptedProvider())
	ctx := context.Background()

	st, err := o.Execute(ctx, templateContext())
	require.NoError(t, err)

	site, err := store.GetSite(ctx, st.SiteID)
	require.NoError(t, err)
	require.Equal(t, bundle.SiteStatusPreview, site.Status)

	build, err := store.GetBuild(ctx, st.BuildID)
	require.NoError(t, err)
	require.Equal(t, "completed", build.Status)
	require.Equal(t, len(st.Bundle.Build.Warnings), build.Warnings)
	require.False(t, build.FinishedAt.IsZero())

	row, err := store.GetBundle(ctx, st.SiteID, st.BuildID)
	require.NoError(t, err)
	require.Equal(t, bundle.Version, row.Version)
	require.NotEmpty(t, row.BundleJSON)
}

func TestExecuteSystemsAIModeRunsBlueprint(t *testing.T) {
	store := storage.NewMemoryStore()
	provider := newScriptedProvider()
	o := New(store, provider)

	bc := templateContext()
	bc.Mode = bundle.ModeSystemsAI

	st, err := o.Execute(context.Background(), bc)
	require.NoError(t, err)
	require.Equal(t, 1, provider.blueprintCalls)
	require.Equal(t, StatusCompleted, st.Stages[StageBlueprint].Status)
	require.NotNil(t, st.Blueprint)
	require.Equal(t, "restaurant", st.Blueprint.Industry)
}

func TestExecuteBlueprintFailureAborts(t *testing.T) {
	store := storage.NewMemoryStore()
	provider := newScriptedProvider()
	provider.blueprintErr = errors.New("model timeout")
	o := New(store, provider)

	bc := templateContext()
	bc.Mode = bundle.ModeSystemsAI

	st, err := o.Execute(context.Background(), bc)
	require.Error(t, err)

	var se *StageExecutionError
	require.ErrorAs(t, err, &se)
	require.Equal(t, StageBlueprint, se.Stage)
	require.Equal(t, "BLUEPRINT_FAILED", se.Code)

	require.Equal(t, StatusFailed, st.Stages[StageBlueprint].Status)
	require.NotNil(t, st.Stages[StageBlueprint].Error)
	require.Equal(t, "BLUEPRINT_FAILED", st.Stages[StageBlueprint].Error.Code)

	// Later stages never started.
	require.Equal(t, StatusPending, st.Stages[StageBrand].Status)
	require.Equal(t, StatusPending, st.Stages[StagePersist].Status)
	require.Zero(t, provider.pageCalls)
}

func TestExecutePersistFailureKeepsEarlierWrites(t *testing.T) {
	store := storage.NewMemoryStore()
	store.FailSaveBundle = errors.New("disk full")
	o := New(store, newScriptedProvider())
	ctx := context.Background()

	st, err := o.Execute(ctx, templateContext())
	require.Error(t, err)

	var se *StageExecutionError
	require.ErrorAs(t, err, &se)
	require.Equal(t, StagePersist, se.Stage)
	require.Equal(t, "PERSIST_FAILED", se.Code)

	require.Equal(t, StatusFailed, st.Stages[StagePersist].Status)
	for _, name := range []StageName{StageInit, StageBrand, StagePages, StageIntents, StageAutomations, StageEntitlements} {
		require.Equal(t, StatusCompleted, st.Stages[name].Status, "stage %s", name)
	}

	// Durable writes from earlier stages are not rolled back.
	_, err = store.GetSite(ctx, st.SiteID)
	require.NoError(t, err)
	_, err = store.GetBuild(ctx, st.BuildID)
	require.NoError(t, err)

	// The bundle itself never landed.
	_, err = store.GetBundle(ctx, st.SiteID, st.BuildID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExecutePageFailureRecordsError(t *testing.T) {
	store := storage.NewMemoryStore()
	provider := newScriptedProvider()
	provider.pageErr = errors.New("generation refused")
	o := New(store, provider)

	st, err := o.Execute(context.Background(), templateContext())
	require.Error(t, err)
	require.Equal(t, StatusFailed, st.Stages[StagePages].Status)
	require.Equal(t, StatusPending, st.Stages[StageIntents].Status)
	require.NotEmpty(t, st.Bundle.Build.Errors)
	require.Contains(t, st.Bundle.Build.Errors[0], "PAGES_FAILED")
}

func TestExecuteInferenceFailureIsWarningOnly(t *testing.T) {
	store := storage.NewMemoryStore()
	provider := newScriptedProvider()
	provider.inferErr = errors.New("model unavailable")
	// Strip the rule table so every element falls through to inference.
	o := New(store, provider).WithRules(intent.NewRuleEngine(nil))

	st, err := o.Execute(context.Background(), templateContext())
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, st.Stages[StageIntents].Status)
	require.Empty(t, st.Bundle.Intents.Bindings)
	require.NotEmpty(t, st.Bundle.Build.Warnings)
	require.Equal(t, 6, provider.inferCalls)
}

func TestExecuteAppliesPagesMaxConstraint(t *testing.T) {
	store := storage.NewMemoryStore()
	o := New(store, newScriptedProvider())

	bc := templateContext()
	bc.Constraints = map[string]any{"pagesMax": float64(3)}

	st, err := o.Execute(context.Background(), bc)
	require.NoError(t, err)
	require.Equal(t, 3, st.Bundle.Entitlements.Limits.PagesMax)
	require.Equal(t, 10, st.Bundle.Entitlements.Limits.AutomationsMax)
}

func TestExecuteRecordsSecretWarnings(t *testing.T) {
	store := storage.NewMemoryStore()
	o := New(store, newScriptedProvider())

	st, err := o.Execute(context.Background(), templateContext())
	require.NoError(t, err)

	// Restaurant installs review-responder (google-business) and the base
	// form-forwarder (smtp), both gated on missing secrets.
	require.Len(t, st.Bundle.Automations.SecretsRequired, 2)
	require.Len(t, st.Bundle.Build.Warnings, 2)
	require.Contains(t, st.Bundle.Build.Warnings[0], "automation secret missing")

	installed := map[string]bool{}
	for _, a := range st.Bundle.Automations.Installed {
		installed[a.RecipeID] = a.Enabled
	}
	require.Contains(t, installed, "reservation-handler")
	require.True(t, installed["reservation-handler"])
	require.False(t, installed["form-forwarder"])
}

func TestExecuteNotifiesObserver(t *testing.T) {
	store := storage.NewMemoryStore()
	obs := &recordingObserver{}
	o := New(store, newScriptedProvider()).WithObserver(obs)

	_, err := o.Execute(context.Background(), templateContext())
	require.NoError(t, err)

	require.True(t, obs.buildDone)
	require.NoError(t, obs.buildErr)

	// Seven stages start (blueprint is skipped), eight complete.
	require.Len(t, obs.started, 7)
	require.Len(t, obs.completed, 8)
	require.Equal(t, StageInit, obs.completed[0])
	require.Equal(t, StageBlueprint, obs.completed[1])
	require.Equal(t, StatusSkipped, obs.statuses[1])
	require.Equal(t, StagePersist, obs.completed[7])
}

func TestExecuteFailureNotifiesObserverWithError(t *testing.T) {
	store := storage.NewMemoryStore()
	store.FailSaveBundle = errors.New("disk full")
	obs := &recordingObserver{}
	o := New(store, newScriptedProvider()).WithObserver(obs)

	_, err := o.Execute(context.Background(), templateContext())
	require.Error(t, err)
	require.True(t, obs.buildDone)
	require.Error(t, obs.buildErr)
}

func TestStageOrderIsFixed(t *testing.T) {
	want := []StageName{
		StageInit, StageBlueprint, StageBrand, StagePages,
		StageIntents, StageAutomations, StageEntitlements, StagePersist,
	}
	require.Equal(t, want, StageOrder())
}

func TestStageExecutionErrorWrapsCause(t *testing.T) {
	cause := errors.New("root cause")
	se := newStageExecutionError(StageBrand, cause)

	require.Equal(t, "BRAND_FAILED", se.Code)
	require.ErrorIs(t, se, cause)
	require.Contains(t, se.Error(), "BRAND_FAILED")
}
