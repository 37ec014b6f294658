package pipeline

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
)

// stageBrand generates the brand kit and overwrites the skeleton brand
// block in place.
func (o *Orchestrator) stageBrand(ctx context.Context, st *State, bc bundle.BuildContext) error {
	bp := st.effectiveBlueprint(bc)
	brand, err := o.provider.GenerateBrandKit(ctx, bp, bc)
	if err != nil {
		return fmt.Errorf("generate brand kit: %w", err)
	}
	st.Bundle.Brand = brand
	return nil
}
