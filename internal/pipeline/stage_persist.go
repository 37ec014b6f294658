package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/storage"
)

// stagePersist stamps the build as finished, updates the durable site
// and build rows, and writes the full serialized bundle. This is the
// only stage that persists the bundle itself.
func (o *Orchestrator) stagePersist(ctx context.Context, st *State, _ bundle.BuildContext) error {
	now := time.Now()
	st.Bundle.Build.FinishedAt = now

	if err := o.store.UpdateSite(ctx, storage.SiteRow{
		ID:        st.SiteID,
		Status:    st.Bundle.Site.Status,
		UpdatedAt: st.Bundle.Site.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("update site record: %w", err)
	}

	if err := o.store.UpdateBuild(ctx, storage.BuildRow{
		ID:         st.BuildID,
		Status:     "completed",
		Warnings:   len(st.Bundle.Build.Warnings),
		Errors:     len(st.Bundle.Build.Errors),
		FinishedAt: now,
	}); err != nil {
		return fmt.Errorf("update build record: %w", err)
	}

	bundleJSON, err := json.Marshal(st.Bundle)
	if err != nil {
		return fmt.Errorf("serialize bundle: %w", err)
	}
	if err := o.store.SaveBundle(ctx, storage.BundleRow{
		SiteID:     st.SiteID,
		BuildID:    st.BuildID,
		Version:    bundle.Version,
		BundleJSON: bundleJSON,
		CreatedAt:  now,
	}); err != nil {
		return fmt.Errorf("save bundle: %w", err)
	}
	return nil
}
