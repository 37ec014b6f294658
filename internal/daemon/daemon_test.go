package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/config"
	"git.home.luguber.info/inful/siteforge/internal/pipeline"
)

// countingRunner records the build contexts it was asked to execute.
type countingRunner struct {
	mu   sync.Mutex
	got  []bundle.BuildContext
	fail error
}

func (r *countingRunner) Execute(_ context.Context, bc bundle.BuildContext) (*pipeline.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, bc)
	return &pipeline.State{BuildID: "b", SiteID: "s"}, r.fail
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Builds = []config.BuildSpec{
		{Name: "one", Prompt: "a bakery", BusinessID: "biz-1", OwnerID: "own-1"},
		{Name: "two", Prompt: "a gym", BusinessID: "biz-2", OwnerID: "own-2", Mode: "systems_ai", Industry: "fitness"},
	}
	return cfg
}

func TestRunConfiguredBuilds(t *testing.T) {
	runner := &countingRunner{}
	d, err := New(testConfig(), "siteforge.yaml", runner, nil)
	require.NoError(t, err)

	d.runConfiguredBuilds()

	require.Equal(t, 2, runner.count())
	require.Equal(t, "a bakery", runner.got[0].Prompt)

	// An unset mode defaults to template; explicit modes pass through.
	require.Equal(t, bundle.ModeTemplate, runner.got[0].Mode)
	require.Equal(t, "systems_ai", runner.got[1].Mode)
	require.Equal(t, "fitness", runner.got[1].Industry)
}

func TestRunConfiguredBuildsContinuesOnFailure(t *testing.T) {
	runner := &countingRunner{fail: context.DeadlineExceeded}
	d, err := New(testConfig(), "siteforge.yaml", runner, nil)
	require.NoError(t, err)

	d.runConfiguredBuilds()

	// The first build's failure does not stop the second.
	require.Equal(t, 2, runner.count())
}

func TestReloadConfigSwapsBuilds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "siteforge.yaml")

	cfg := testConfig()
	d, err := New(cfg, path, &countingRunner{}, nil)
	require.NoError(t, err)

	next := config.Default()
	next.Builds = []config.BuildSpec{{Name: "solo", Prompt: "a florist", BusinessID: "biz-9", OwnerID: "own-9"}}
	require.NoError(t, next.Write(path))

	d.reloadConfig()

	d.mu.RLock()
	defer d.mu.RUnlock()
	require.Len(t, d.cfg.Builds, 1)
	require.Equal(t, "solo", d.cfg.Builds[0].Name)
}

func TestReloadConfigKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "siteforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("builds: [not a build"), 0o600))

	d, err := New(testConfig(), path, &countingRunner{}, nil)
	require.NoError(t, err)

	d.reloadConfig()

	d.mu.RLock()
	defer d.mu.RUnlock()
	require.Len(t, d.cfg.Builds, 2)
}

func TestSchedulerRunsTaskImmediately(t *testing.T) {
	runner := &countingRunner{}
	done := make(chan struct{}, 1)
	sched, err := NewScheduler(func() {
		runner.Execute(context.Background(), bundle.BuildContext{})
		select {
		case done <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	require.NoError(t, sched.SchedulePeriodic(time.Hour))
	sched.Start()
	defer func() { require.NoError(t, sched.Stop()) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled task never ran")
	}
	require.Equal(t, 1, runner.count())
}

func TestConfigWatcherLifecycle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "siteforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	cw, err := NewConfigWatcher(path, func() {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cw.Start(ctx)
	cw.Stop()
}
