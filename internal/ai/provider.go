// Package ai defines the content-generation collaborator consumed by the
// build pipeline, plus its concrete adapters. The pipeline treats the
// provider as opaque: any implementation with this method set plugs in.
package ai

import (
	"context"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/intent"
)

// BlueprintPage is one candidate page in a business blueprint.
type BlueprintPage struct {
	Title   string `json:"title"`
	Purpose string `json:"purpose,omitempty"`
}

// Blueprint is the structured business description driving page and
// brand generation.
type Blueprint struct {
	Industry    string          `json:"industry"`
	PrimaryGoal string          `json:"primaryGoal"`
	Locale      string          `json:"locale"`
	Pages       []BlueprintPage `json:"pages"`
}

// Provider generates site content. GenerateBlueprint, GenerateBrandKit
// and GeneratePage failures abort their stage; InferIntent failures are
// recovered per element by the caller.
type Provider interface {
	GenerateBlueprint(ctx context.Context, bc bundle.BuildContext) (*Blueprint, error)
	GenerateBrandKit(ctx context.Context, bp *Blueprint, bc bundle.BuildContext) (bundle.Brand, error)
	GeneratePage(ctx context.Context, route bundle.RouteDef, bp *Blueprint, brand bundle.Brand, bc bundle.BuildContext) (*bundle.PageBundle, error)
	InferIntent(ctx context.Context, text, elementContext string, available []intent.Definition) (*intent.WiringResult, error)
}

// DefaultBlueprint is the fixed four-page blueprint used whenever an
// AI-authored blueprint was not requested.
func DefaultBlueprint(bc bundle.BuildContext) *Blueprint {
	industry := bc.Industry
	if industry == "" {
		industry = "general"
	}
	return &Blueprint{
		Industry:    industry,
		PrimaryGoal: "generate_leads",
		Locale:      "en-US",
		Pages: []BlueprintPage{
			{Title: "Home", Purpose: "Introduce the business and surface the primary call to action"},
			{Title: "About", Purpose: "Tell the story behind the business"},
			{Title: "Services", Purpose: "List what the business offers"},
			{Title: "Contact", Purpose: "Let visitors get in touch"},
		},
	}
}
