package pipeline

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/storage"
)

// stageInit creates the durable site and build rows using the ids from
// the skeleton bundle. These rows stay in place even if a later stage
// fails.
func (o *Orchestrator) stageInit(ctx context.Context, st *State, _ bundle.BuildContext) error {
	site := st.Bundle.Site
	if err := o.store.CreateSite(ctx, storage.SiteRow{
		ID:         site.ID,
		BusinessID: site.BusinessID,
		OwnerID:    site.OwnerID,
		Status:     site.Status,
		CreatedAt:  site.CreatedAt,
		UpdatedAt:  site.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("create site record: %w", err)
	}

	build := st.Bundle.Build
	if err := o.store.CreateBuild(ctx, storage.BuildRow{
		ID:        build.ID,
		SiteID:    site.ID,
		Mode:      build.Mode,
		Prompt:    build.Prompt,
		Status:    "running",
		StartedAt: build.StartedAt,
	}); err != nil {
		return fmt.Errorf("create build record: %w", err)
	}
	return nil
}
