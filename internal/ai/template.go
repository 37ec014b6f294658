package ai

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/intent"
)

// TemplateProvider is a fully deterministic Provider: page copy comes
// from built-in Markdown templates rendered to HTML, brand kits from a
// fixed palette, and intent inference always declines. It makes the
// pipeline runnable offline and is the default for non-AI modes.
type TemplateProvider struct {
	md goldmark.Markdown
}

// NewTemplateProvider constructs a TemplateProvider.
func NewTemplateProvider() *TemplateProvider {
	return &TemplateProvider{md: goldmark.New()}
}

// GenerateBlueprint returns the deterministic default blueprint. The
// orchestrator only calls this in AI mode, but templates answer it too
// so the provider is usable standalone.
func (p *TemplateProvider) GenerateBlueprint(_ context.Context, bc bundle.BuildContext) (*Blueprint, error) {
	return DefaultBlueprint(bc), nil
}

// GenerateBrandKit derives a brand name from the prompt and pairs it
// with the fixed template palette.
func (p *TemplateProvider) GenerateBrandKit(_ context.Context, bp *Blueprint, bc bundle.BuildContext) (bundle.Brand, error) {
	return bundle.Brand{
		Name: brandNameFromPrompt(bc.Prompt),
		Colors: map[string]string{
			"primary":    "#0f172a",
			"accent":     "#0ea5e9",
			"background": "#f8fafc",
		},
		Typography: bundle.Typography{Heading: "Fraunces", Body: "Inter"},
		Tone:       toneForIndustry(bp.Industry),
	}, nil
}

// GeneratePage renders the built-in Markdown copy for the route and
// appends the template's interactive elements for that page kind.
func (p *TemplateProvider) GeneratePage(_ context.Context, route bundle.RouteDef, bp *Blueprint, brand bundle.Brand, _ bundle.BuildContext) (*bundle.PageBundle, error) {
	copySrc := pageCopy(route, bp, brand)
	var body bytes.Buffer
	if err := p.md.Convert([]byte(copySrc), &body); err != nil {
		return nil, fmt.Errorf("render page copy for %s: %w", route.PageID, err)
	}

	var markup strings.Builder
	markup.WriteString("<main>\n")
	markup.WriteString(body.String())
	markup.WriteString(pageActions(route))
	markup.WriteString("</main>\n")

	return &bundle.PageBundle{
		PageID: route.PageID,
		Title:  route.Title,
		Markup: markup.String(),
	}, nil
}

// InferIntent always declines: the deterministic provider never guesses.
func (p *TemplateProvider) InferIntent(context.Context, string, string, []intent.Definition) (*intent.WiringResult, error) {
	return nil, nil
}

func pageCopy(route bundle.RouteDef, bp *Blueprint, brand bundle.Brand) string {
	switch route.PageID {
	case "home":
		return fmt.Sprintf("# %s\n\nWelcome to %s. We serve the %s space with one goal: %s.\n", brand.Name, brand.Name, bp.Industry, strings.ReplaceAll(bp.PrimaryGoal, "_", " "))
	case "about":
		return fmt.Sprintf("# About %s\n\n%s was built around a simple idea: do %s work that customers talk about.\n", brand.Name, brand.Name, bp.Industry)
	case "contact":
		return fmt.Sprintf("# Contact\n\nQuestions for %s? Use the form below and we will get back to you.\n", brand.Name)
	default:
		return fmt.Sprintf("# %s\n\nEverything %s offers under %s, in one place.\n", route.Title, brand.Name, route.Title)
	}
}

// pageActions returns the interactive elements for a page kind. These
// are plain HTML so the intents stage has real elements to wire.
func pageActions(route bundle.RouteDef) string {
	switch route.PageID {
	case "home":
		return "<button>Schedule Appointment</button>\n<a href=\"/about\">Learn More</a>\n"
	case "contact":
		return "<form method=\"post\"><input type=\"text\" name=\"name\"><input type=\"email\" name=\"email\"><input type=\"submit\" value=\"Send Message\"></form>\n"
	case "services":
		return "<button>Request a Quote</button>\n<a href=\"/contact\">Contact Us</a>\n"
	default:
		return "<a href=\"/\">Back to Home</a>\n"
	}
}

func brandNameFromPrompt(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) == 0 {
		return "Untitled"
	}
	n := min(len(words), 3)
	name := strings.Join(words[:n], " ")
	return cases.Title(language.English).String(name)
}

func toneForIndustry(industry string) string {
	switch industry {
	case "restaurant", "salon":
		return "warm"
	case "legal", "finance":
		return "formal"
	default:
		return "friendly"
	}
}
