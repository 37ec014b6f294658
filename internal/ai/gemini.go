package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/intent"
	"git.home.luguber.info/inful/siteforge/internal/retry"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements Provider against the Gemini API. All calls
// request JSON output and decode it into the pipeline's own types.
type GeminiProvider struct {
	client *genai.Client
	model  string
	policy retry.Policy
}

// NewGeminiProvider creates a Gemini-backed provider. model may be empty
// to use the default.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{
		client: client,
		model:  model,
		policy: retry.DefaultPolicy(),
	}, nil
}

// GenerateBlueprint asks the model for a structured business blueprint.
func (p *GeminiProvider) GenerateBlueprint(ctx context.Context, bc bundle.BuildContext) (*Blueprint, error) {
	prompt := fmt.Sprintf(`You are planning a small-business website.
Business description: %s
Industry hint: %s

Return JSON: {"industry": string, "primaryGoal": string, "locale": string, "pages": [{"title": string, "purpose": string}]}.
Between 3 and 6 pages. The first page must be the home page.`, bc.Prompt, bc.Industry)

	var bp Blueprint
	if err := p.generateJSON(ctx, prompt, &bp); err != nil {
		return nil, fmt.Errorf("generate blueprint: %w", err)
	}
	if len(bp.Pages) == 0 {
		return nil, fmt.Errorf("generate blueprint: model returned no pages")
	}
	return &bp, nil
}

// GenerateBrandKit asks the model for brand primitives matching the
// blueprint.
func (p *GeminiProvider) GenerateBrandKit(ctx context.Context, bp *Blueprint, bc bundle.BuildContext) (bundle.Brand, error) {
	prompt := fmt.Sprintf(`Create a brand kit for this business.
Description: %s
Industry: %s
Primary goal: %s

Return JSON: {"name": string, "colors": {"primary": hex, "accent": hex, "background": hex}, "typography": {"heading": string, "body": string}, "tone": string}.`,
		bc.Prompt, bp.Industry, bp.PrimaryGoal)

	var brand bundle.Brand
	if err := p.generateJSON(ctx, prompt, &brand); err != nil {
		return bundle.Brand{}, fmt.Errorf("generate brand kit: %w", err)
	}
	if brand.Name == "" {
		return bundle.Brand{}, fmt.Errorf("generate brand kit: model returned no brand name")
	}
	return brand, nil
}

// GeneratePage asks the model for one page of semantic HTML.
func (p *GeminiProvider) GeneratePage(ctx context.Context, route bundle.RouteDef, bp *Blueprint, brand bundle.Brand, bc bundle.BuildContext) (*bundle.PageBundle, error) {
	prompt := fmt.Sprintf(`Write the "%s" page for the website of %s (%s industry, tone: %s).
Page purpose within the site: primary goal is %s.
Business description: %s

Return JSON: {"title": string, "markup": string}. markup is the page body as semantic HTML.
Use <button> for calls to action, <a> for internal navigation, and <input type="submit"> for form submissions. No scripts, no external links for navigation.`,
		route.Title, brand.Name, bp.Industry, brand.Tone, bp.PrimaryGoal, bc.Prompt)

	var page struct {
		Title  string `json:"title"`
		Markup string `json:"markup"`
	}
	if err := p.generateJSON(ctx, prompt, &page); err != nil {
		return nil, fmt.Errorf("generate page %s: %w", route.PageID, err)
	}
	if page.Title == "" {
		page.Title = route.Title
	}
	return &bundle.PageBundle{PageID: route.PageID, Title: page.Title, Markup: page.Markup}, nil
}

// InferIntent asks the model to map one element label to a catalog
// intent. A null response means no binding should be created.
func (p *GeminiProvider) InferIntent(ctx context.Context, text, elementContext string, available []intent.Definition) (*intent.WiringResult, error) {
	ids := make([]string, 0, len(available))
	for _, d := range available {
		ids = append(ids, fmt.Sprintf("%s (%s)", d.ID, d.Description))
	}
	prompt := fmt.Sprintf(`A website has an interactive element labeled %q (element kind: %s).
Available intents:
%s

Pick the single best intent for the element, or decline.
Return JSON: {"intentId": string, "params": object}, or {"intentId": null} to decline.`,
		text, elementContext, strings.Join(ids, "\n"))

	var result struct {
		IntentID *string        `json:"intentId"`
		Params   map[string]any `json:"params"`
	}
	if err := p.generateJSON(ctx, prompt, &result); err != nil {
		return nil, fmt.Errorf("infer intent for %q: %w", text, err)
	}
	if result.IntentID == nil || *result.IntentID == "" {
		return nil, nil
	}
	return &intent.WiringResult{
		IntentID:   *result.IntentID,
		Params:     result.Params,
		Provenance: intent.ProvenanceAI,
	}, nil
}

// generateJSON runs one JSON-mode generation with bounded retry and
// decodes the response into out.
func (p *GeminiProvider) generateJSON(ctx context.Context, prompt string, out any) error {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	var lastErr error
	for attempt := 0; attempt <= p.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			slog.Debug("Retrying Gemini call", "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.policy.Delay(attempt)):
			}
		}

		resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
		if err != nil {
			lastErr = err
			continue
		}
		text := responseText(resp)
		if text == "" {
			lastErr = fmt.Errorf("empty model response")
			continue
		}
		if err := json.Unmarshal([]byte(text), out); err != nil {
			lastErr = fmt.Errorf("decode model response: %w", err)
			continue
		}
		return nil
	}
	return lastErr
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
