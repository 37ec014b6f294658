package pipeline

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/intent"
)

// stageIntents wires interactive elements to intents, page by page in
// route order. The binding sequence counter is shared across all pages;
// ids are assigned in document-scan order. Inference failures for
// single elements are recovered inside the wirer and surface only as
// build warnings.
func (o *Orchestrator) stageIntents(ctx context.Context, st *State, _ bundle.BuildContext) error {
	wirer := intent.NewWirer(o.rules, o.catalog, o.provider)

	var all []intent.Binding
	for _, route := range st.Bundle.Manifest.Routes {
		page, ok := st.Bundle.Pages[route.PageID]
		if !ok {
			return fmt.Errorf("page %s listed in manifest but not generated", route.PageID)
		}

		bindings, warnings, err := wirer.WirePage(ctx, route.PageID, page.Markup)
		if err != nil {
			return fmt.Errorf("wire page %s: %w", route.PageID, err)
		}
		for _, w := range warnings {
			st.Bundle.AddWarning(w)
		}
		all = append(all, bindings...)

		// Scope the page's subset from the run-wide list.
		pageBindings := make([]intent.Binding, 0, len(bindings))
		for _, b := range all {
			if b.PageID == route.PageID {
				pageBindings = append(pageBindings, b)
			}
		}
		page.IntentBindings = pageBindings
	}

	st.Bundle.Intents.Bindings = all

	byProvenance := map[string]int{}
	for _, b := range all {
		byProvenance[b.Provenance]++
	}
	for prov, n := range byProvenance {
		o.recorder.IncBindingsWired(prov, n)
	}
	st.Bundle.AppendTrace("info", string(StageIntents), fmt.Sprintf("%d bindings wired", len(all)))
	return nil
}
