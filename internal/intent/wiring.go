package intent

import (
	"context"
	"fmt"
	"log/slog"
)

// BindingTarget locates the element a binding is attached to.
type BindingTarget struct {
	Strategy string `json:"strategy"` // selection strategy, currently css-attribute
	Selector string `json:"selector"`
}

// Binding associates one page element with one intent. Created only
// during wiring; never mutated afterward.
type Binding struct {
	ID         string         `json:"id"`
	PageID     string         `json:"pageId"`
	Target     BindingTarget  `json:"target"`
	IntentID   string         `json:"intentId"`
	Params     map[string]any `json:"params,omitempty"`
	Label      string         `json:"label"`
	Provenance string         `json:"provenance"`
}

// WiringResult is the outcome of an inference fallback call.
type WiringResult struct {
	IntentID   string         `json:"intentId"`
	Params     map[string]any `json:"params,omitempty"`
	Provenance string         `json:"provenance"`
}

// Fallback resolves an element to an intent when no deterministic rule
// matches. A nil result with nil error means no binding should be made.
type Fallback interface {
	InferIntent(ctx context.Context, text, elementContext string, available []Definition) (*WiringResult, error)
}

// Wirer turns interactive elements into intent bindings: deterministic
// rules first, inference fallback second. One Wirer serves one run; the
// binding sequence counter is shared across all pages and never reset.
type Wirer struct {
	rules    *RuleEngine
	catalog  *Catalog
	fallback Fallback
	seq      int
}

// NewWirer constructs a Wirer. fallback may be nil, in which case
// unmatched elements simply produce no binding.
func NewWirer(rules *RuleEngine, catalog *Catalog, fallback Fallback) *Wirer {
	return &Wirer{rules: rules, catalog: catalog, fallback: fallback}
}

// WirePage extracts interactive elements from markup and produces one
// binding per resolved element, in document-scan order. A fallback
// failure for one element never fails the page; it yields no binding and
// a warning. Sequence numbers are assigned in scan order.
func (w *Wirer) WirePage(ctx context.Context, pageID, markup string) ([]Binding, []string, error) {
	elements, err := ExtractElements(markup)
	if err != nil {
		return nil, nil, err
	}

	var bindings []Binding
	var warnings []string
	for _, el := range elements {
		var result *WiringResult
		if intentID, ok := w.rules.Match(el.Text); ok {
			result = &WiringResult{IntentID: intentID, Provenance: ProvenanceDeterministic}
		} else if w.fallback != nil {
			inferred, inferErr := w.fallback.InferIntent(ctx, el.Text, el.Context, w.catalog.AsList())
			if inferErr != nil {
				// Inference failures are local to the element: no
				// binding, the page keeps wiring.
				slog.Warn("Intent inference failed for element", "page", pageID, "text", el.Text, "error", inferErr)
				warnings = append(warnings, fmt.Sprintf("intent inference failed for %q on page %s: %v", el.Text, pageID, inferErr))
				continue
			}
			if inferred == nil {
				continue
			}
			result = inferred
			if result.Provenance == "" {
				result.Provenance = ProvenanceAI
			}
		} else {
			continue
		}

		w.seq++
		id := fmt.Sprintf("ut-%s-%d", pageID, w.seq)
		bindings = append(bindings, Binding{
			ID:     id,
			PageID: pageID,
			Target: BindingTarget{
				Strategy: "css-attribute",
				Selector: fmt.Sprintf("[data-ut=%q]", id),
			},
			IntentID:   result.IntentID,
			Params:     result.Params,
			Label:      el.Text,
			Provenance: result.Provenance,
		})
	}
	return bindings, warnings, nil
}

// Sequence reports the last sequence number assigned.
func (w *Wirer) Sequence() int { return w.seq }
