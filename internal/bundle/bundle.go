package bundle

import (
	"time"

	"git.home.luguber.info/inful/siteforge/internal/automation"
	"git.home.luguber.info/inful/siteforge/internal/intent"
)

// Version is the persisted bundle schema version.
const Version = "1.0.0"

// Site lifecycle statuses.
const (
	SiteStatusDraft   = "draft"
	SiteStatusPreview = "preview"
)

// Build modes. ModeSystemsAI requests an AI-authored business blueprint;
// every other mode uses the deterministic default blueprint.
const (
	ModeSystemsAI = "systems_ai"
	ModeTemplate  = "template"
)

// Site identifies the site being generated and who owns it.
type Site struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	OwnerID    string    `json:"ownerId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TraceEntry is one line of the build trace log.
type TraceEntry struct {
	Level   string    `json:"level"`
	Stage   string    `json:"stage,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Build carries per-run metadata and the accumulated trace.
type Build struct {
	ID         string       `json:"id"`
	Mode       string       `json:"mode"`
	Prompt     string       `json:"prompt"`
	Trace      []TraceEntry `json:"trace"`
	Warnings   []string     `json:"warnings"`
	Errors     []string     `json:"errors"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt,omitzero"`
}

// Typography names the font pairing for a brand.
type Typography struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Brand holds the visual identity applied across all pages.
type Brand struct {
	Name       string            `json:"name"`
	Colors     map[string]string `json:"colors"`
	Typography Typography        `json:"typography"`
	Tone       string            `json:"tone"`
}

// RouteDef is one ordered entry in the site manifest. The first route is
// always the home route whenever any route exists.
type RouteDef struct {
	PageID string `json:"pageId"`
	Path   string `json:"path"`
	Title  string `json:"title"`
	IsHome bool   `json:"isHome"`
}

// NavItem is one navigation entry shown on every page.
type NavItem struct {
	Label  string `json:"label"`
	PageID string `json:"pageId"`
	Order  int    `json:"order"`
}

// Manifest describes the page structure of the generated site.
type Manifest struct {
	Routes   []RouteDef        `json:"routes"`
	Nav      []NavItem         `json:"nav"`
	Layouts  []string          `json:"layouts"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// PageBundle is one generated page plus the intent bindings scoped to it.
// Owned exclusively by its bundle; never shared across pages.
type PageBundle struct {
	PageID         string           `json:"pageId"`
	Title          string           `json:"title"`
	Markup         string           `json:"markup"`
	IntentBindings []intent.Binding `json:"intentBindings"`
}

// Intents groups the catalog snapshot and all bindings for the run.
type Intents struct {
	CatalogVersion string                       `json:"catalogVersion"`
	Catalog        map[string]intent.Definition `json:"catalog"`
	Bindings       []intent.Binding             `json:"bindings"`
}

// Automations lists installed automations and the secrets still needed.
type Automations struct {
	Installed       []automation.Install           `json:"installed"`
	SecretsRequired []automation.SecretRequirement `json:"secretsRequired"`
}

// Limits are the numeric entitlement caps for a plan.
type Limits struct {
	PagesMax       int `json:"pagesMax"`
	AutomationsMax int `json:"automationsMax"`
	StorageMB      int `json:"storageMb"`
}

// Entitlements gate what the generated site may use.
type Entitlements struct {
	Plan     string          `json:"plan"`
	Features map[string]bool `json:"features"`
	Limits   Limits          `json:"limits"`
}

// EntryPoint names the page the runtime loads first. Always equal to the
// first manifest route.
type EntryPoint struct {
	PageID string `json:"pageId"`
}

// Runtime records execution-engine preferences for the site.
type Runtime struct {
	Engine         string     `json:"engine"`
	AllowedEngines []string   `json:"allowedEngines"`
	Entry          EntryPoint `json:"entry"`
}

// SiteBundle is the complete generated-site artifact assembled by the
// build pipeline and persisted at the end of a successful run.
type SiteBundle struct {
	Site         Site                   `json:"site"`
	Build        Build                  `json:"build"`
	Brand        Brand                  `json:"brand"`
	Manifest     Manifest               `json:"manifest"`
	Pages        map[string]*PageBundle `json:"pages"`
	Intents      Intents                `json:"intents"`
	Automations  Automations            `json:"automations"`
	Entitlements Entitlements           `json:"entitlements"`
	Runtime      Runtime                `json:"runtime"`
}

// AppendTrace adds one entry to the build trace log.
func (b *SiteBundle) AppendTrace(level, stage, message string) {
	b.Build.Trace = append(b.Build.Trace, TraceEntry{Level: level, Stage: stage, Message: message, At: time.Now()})
}

// AddWarning records a non-fatal problem. Warnings never abort a run.
func (b *SiteBundle) AddWarning(msg string) {
	b.Build.Warnings = append(b.Build.Warnings, msg)
}
