package pipeline

import (
	"context"
	"time"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
)

// stageEntitlements applies the fixed free-tier defaults, honoring a
// pagesMax constraint override, and moves the site to preview. Pure
// default-application; this stage has no failure mode of its own.
func (o *Orchestrator) stageEntitlements(_ context.Context, st *State, bc bundle.BuildContext) error {
	ent := bundle.DefaultEntitlements()
	if pagesMax, ok := bc.ConstraintInt("pagesMax"); ok && pagesMax > 0 {
		ent.Limits.PagesMax = pagesMax
	}
	st.Bundle.Entitlements = ent
	st.Bundle.Site.Status = bundle.SiteStatusPreview
	st.Bundle.Site.UpdatedAt = time.Now()
	return nil
}
