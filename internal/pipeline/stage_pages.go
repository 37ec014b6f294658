package pipeline

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
)

// stagePages rebuilds the manifest from the blueprint and generates one
// page per route. Routes and nav are replaced wholesale; the first
// blueprint page becomes the home route and the runtime entry point.
// Pages are generated strictly in blueprint order, so page N's prompt
// context may assume pages 0..N-1 already exist in the bundle.
func (o *Orchestrator) stagePages(ctx context.Context, st *State, bc bundle.BuildContext) error {
	bp := st.effectiveBlueprint(bc)
	if len(bp.Pages) == 0 {
		return fmt.Errorf("blueprint has no pages")
	}

	routes := make([]bundle.RouteDef, 0, len(bp.Pages))
	nav := make([]bundle.NavItem, 0, len(bp.Pages))
	for i, page := range bp.Pages {
		pageID := bundle.PageID(page.Title)
		path := "/" + pageID
		if i == 0 {
			path = "/"
		}
		routes = append(routes, bundle.RouteDef{PageID: pageID, Path: path, Title: page.Title, IsHome: i == 0})
		nav = append(nav, bundle.NavItem{Label: page.Title, PageID: pageID, Order: i})
	}
	st.Bundle.Manifest.Routes = routes
	st.Bundle.Manifest.Nav = nav
	st.Bundle.Runtime.Entry.PageID = routes[0].PageID

	for _, route := range routes {
		page, err := o.provider.GeneratePage(ctx, route, bp, st.Bundle.Brand, bc)
		if err != nil {
			return fmt.Errorf("generate page %s: %w", route.PageID, err)
		}
		if page.PageID == "" {
			page.PageID = route.PageID
		}
		st.Bundle.Pages[route.PageID] = page
	}
	st.Bundle.AppendTrace("info", string(StagePages), fmt.Sprintf("%d pages generated", len(routes)))
	return nil
}
