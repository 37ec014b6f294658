package pipeline

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
)

// stageAutomations installs the base and industry automation recipes.
// Recipes whose secrets are missing are installed disabled and reported
// as warnings, never omitted.
func (o *Orchestrator) stageAutomations(_ context.Context, st *State, bc bundle.BuildContext) error {
	industry := ""
	if st.Blueprint != nil {
		industry = st.Blueprint.Industry
	}
	if industry == "" {
		industry = bc.Industry
	}
	if industry == "" {
		industry = "general"
	}

	installs, required := o.installer.InstallAll(industry)
	st.Bundle.Automations.Installed = installs
	st.Bundle.Automations.SecretsRequired = required
	for _, s := range required {
		st.Bundle.AddWarning(fmt.Sprintf("automation secret missing: %s (%s)", s.Provider, s.Reason))
	}
	st.Bundle.AppendTrace("info", string(StageAutomations),
		fmt.Sprintf("%d automations installed for industry %s, %d secrets required", len(installs), industry, len(required)))
	return nil
}
