package bundle

import (
	"time"

	"git.home.luguber.info/inful/siteforge/internal/automation"
	"git.home.luguber.info/inful/siteforge/internal/intent"
)

// NewSkeleton builds the initial bundle every run starts from: a draft
// site, one home route, the default intent catalog, and free-tier
// entitlements. Stages mutate this in place.
func NewSkeleton(siteID, buildID, businessID, ownerID, prompt, mode string, catalog *intent.Catalog) *SiteBundle {
	now := time.Now()
	return &SiteBundle{
		Site: Site{
			ID:         siteID,
			BusinessID: businessID,
			OwnerID:    ownerID,
			Status:     SiteStatusDraft,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Build: Build{
			ID:        buildID,
			Mode:      mode,
			Prompt:    prompt,
			Trace:     []TraceEntry{},
			Warnings:  []string{},
			Errors:    []string{},
			StartedAt: now,
		},
		Brand: Brand{
			Name: "Untitled",
			Colors: map[string]string{
				"primary":    "#1f2937",
				"accent":     "#2563eb",
				"background": "#ffffff",
			},
			Typography: Typography{Heading: "Inter", Body: "Inter"},
			Tone:       "neutral",
		},
		Manifest: Manifest{
			Routes:  []RouteDef{{PageID: "home", Path: "/", Title: "Home", IsHome: true}},
			Nav:     []NavItem{{Label: "Home", PageID: "home", Order: 0}},
			Layouts: []string{"standard"},
		},
		Pages: map[string]*PageBundle{},
		Intents: Intents{
			CatalogVersion: intent.CatalogVersion,
			Catalog:        catalog.Definitions(),
			Bindings:       []intent.Binding{},
		},
		Automations: Automations{
			Installed:       []automation.Install{},
			SecretsRequired: []automation.SecretRequirement{},
		},
		Entitlements: DefaultEntitlements(),
		Runtime: Runtime{
			Engine:         "static",
			AllowedEngines: []string{"static", "ssr"},
			Entry:          EntryPoint{PageID: "home"},
		},
	}
}
