package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
)

func TestDefaultBlueprint(t *testing.T) {
	bp := DefaultBlueprint(bundle.BuildContext{})

	require.Equal(t, "general", bp.Industry)
	require.Equal(t, "generate_leads", bp.PrimaryGoal)
	require.Equal(t, "en-US", bp.Locale)
	require.Len(t, bp.Pages, 4)
	require.Equal(t, "Home", bp.Pages[0].Title)
}

func TestDefaultBlueprintUsesIndustryHint(t *testing.T) {
	bp := DefaultBlueprint(bundle.BuildContext{Industry: "restaurant"})
	require.Equal(t, "restaurant", bp.Industry)
}

func TestTemplateProviderBrandKit(t *testing.T) {
	p := NewTemplateProvider()
	bc := bundle.BuildContext{Prompt: "a cozy italian restaurant in town"}

	brand, err := p.GenerateBrandKit(context.Background(), DefaultBlueprint(bundle.BuildContext{Industry: "restaurant"}), bc)
	require.NoError(t, err)
	require.Equal(t, "A Cozy Italian", brand.Name)
	require.Equal(t, "warm", brand.Tone)
	require.NotEmpty(t, brand.Colors["primary"])
	require.NotEmpty(t, brand.Typography.Heading)
}

func TestTemplateProviderBrandKitEmptyPrompt(t *testing.T) {
	p := NewTemplateProvider()

	brand, err := p.GenerateBrandKit(context.Background(), DefaultBlueprint(bundle.BuildContext{}), bundle.BuildContext{})
	require.NoError(t, err)
	require.Equal(t, "Untitled", brand.Name)
	require.Equal(t, "friendly", brand.Tone)
}

func TestTemplateProviderGeneratePageHome(t *testing.T) {
	p := NewTemplateProvider()
	bp := DefaultBlueprint(bundle.BuildContext{})
	brand := bundle.Brand{Name: "Acme"}
	route := bundle.RouteDef{PageID: "home", Path: "/", Title: "Home", IsHome: true}

	page, err := p.GeneratePage(context.Background(), route, bp, brand, bundle.BuildContext{})
	require.NoError(t, err)
	require.Equal(t, "home", page.PageID)
	require.Equal(t, "Home", page.Title)

	// Markdown headings render to HTML and the page carries its
	// interactive elements.
	require.True(t, strings.HasPrefix(page.Markup, "<main>"))
	require.Contains(t, page.Markup, "<h1")
	require.Contains(t, page.Markup, "Acme")
	require.Contains(t, page.Markup, "<button>Schedule Appointment</button>")
	require.Contains(t, page.Markup, `<a href="/about">Learn More</a>`)
}

func TestTemplateProviderGeneratePageContactHasForm(t *testing.T) {
	p := NewTemplateProvider()
	route := bundle.RouteDef{PageID: "contact", Path: "/contact", Title: "Contact"}

	page, err := p.GeneratePage(context.Background(), route, DefaultBlueprint(bundle.BuildContext{}), bundle.Brand{Name: "Acme"}, bundle.BuildContext{})
	require.NoError(t, err)
	require.Contains(t, page.Markup, `<input type="submit" value="Send Message">`)
}

func TestTemplateProviderGeneratePageDefaultKind(t *testing.T) {
	p := NewTemplateProvider()
	route := bundle.RouteDef{PageID: "gallery", Path: "/gallery", Title: "Gallery"}

	page, err := p.GeneratePage(context.Background(), route, DefaultBlueprint(bundle.BuildContext{}), bundle.Brand{Name: "Acme"}, bundle.BuildContext{})
	require.NoError(t, err)
	require.Contains(t, page.Markup, `<a href="/">Back to Home</a>`)
}

func TestTemplateProviderInferIntentDeclines(t *testing.T) {
	p := NewTemplateProvider()

	result, err := p.InferIntent(context.Background(), "Zorblify", "button", nil)
	require.NoError(t, err)
	require.Nil(t, result)
}
