package pipeline

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
)

// stageBlueprint asks the provider for an AI-authored business
// blueprint. Only entered when the run mode requests one; all other
// modes skip this stage and resolve the deterministic default later.
func (o *Orchestrator) stageBlueprint(ctx context.Context, st *State, bc bundle.BuildContext) error {
	bp, err := o.provider.GenerateBlueprint(ctx, bc)
	if err != nil {
		return fmt.Errorf("generate blueprint: %w", err)
	}
	st.Blueprint = bp
	st.Bundle.AppendTrace("info", string(StageBlueprint),
		fmt.Sprintf("blueprint generated: industry=%s pages=%d", bp.Industry, len(bp.Pages)))
	return nil
}
