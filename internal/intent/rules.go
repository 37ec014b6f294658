package intent

import (
	"regexp"
	"sort"
)

// ProvenanceDeterministic tags bindings produced by the rule engine;
// ProvenanceAI tags bindings produced by the inference fallback.
const (
	ProvenanceDeterministic = "deterministic"
	ProvenanceAI            = "ai"
)

// WiringRule maps a case-insensitive text pattern to an intent id.
// Higher priority rules are evaluated first; ties keep table order.
type WiringRule struct {
	Pattern    string
	IntentID   string
	Priority   int
	Provenance string
}

type compiledRule struct {
	WiringRule
	re *regexp.Regexp
}

// RuleEngine evaluates wiring rules against element label text. It holds
// its own compiled copy of the rule table, so concurrent runs may share
// one engine or own one each without coordination.
type RuleEngine struct {
	rules []compiledRule
}

// NewRuleEngine compiles the given rules, sorted by descending priority.
// The sort is stable: rules with equal priority keep their table order.
// Rules with invalid patterns are dropped.
func NewRuleEngine(rules []WiringRule) *RuleEngine {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			continue
		}
		if r.Provenance == "" {
			r.Provenance = ProvenanceDeterministic
		}
		compiled = append(compiled, compiledRule{WiringRule: r, re: re})
	}
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})
	return &RuleEngine{rules: compiled}
}

// Match returns the intent id of the first rule matching text, in
// priority order. The second return is false when no rule matches.
// Matching is a pure function of text; no external calls are made.
func (e *RuleEngine) Match(text string) (string, bool) {
	for i := range e.rules {
		if e.rules[i].re.MatchString(text) {
			return e.rules[i].IntentID, true
		}
	}
	return "", false
}

// Rules returns a copy of the compiled rule table in evaluation order.
func (e *RuleEngine) Rules() []WiringRule {
	out := make([]WiringRule, len(e.rules))
	for i := range e.rules {
		out[i] = e.rules[i].WiringRule
	}
	return out
}

// DefaultRules is the static wiring rule table. Loaded once per engine;
// never mutated at runtime.
func DefaultRules() []WiringRule {
	return []WiringRule{
		{Pattern: `\b(book|booking|appointment|schedule|reserve|reservation)\b`, IntentID: "booking.request", Priority: 90},
		{Pattern: `\b(contact( us)?|get in touch|reach out)\b`, IntentID: "contact.submit", Priority: 80},
		{Pattern: `\b(subscribe|newsletter)\b`, IntentID: "newsletter.subscribe", Priority: 80},
		{Pattern: `\b(quote|estimate)\b`, IntentID: "lead.capture", Priority: 75},
		{Pattern: `\b(sign up|signup|register|create account|get started|join)\b`, IntentID: "account.signup", Priority: 70},
		{Pattern: `\b(log ?in|sign in)\b`, IntentID: "account.login", Priority: 70},
		{Pattern: `\b(buy|purchase|order( now)?|add to cart|checkout|shop)\b`, IntentID: "commerce.checkout", Priority: 70},
		{Pattern: `\b(call( us)?|phone)\b`, IntentID: "phone.call", Priority: 60},
		{Pattern: `\bdownload\b`, IntentID: "asset.download", Priority: 55},
		{Pattern: `\b(submit|send( message)?)\b`, IntentID: "form.submit", Priority: 40},
		{Pattern: `\b(learn more|read more|see more|view|explore|discover|about|services|menu|gallery|home|back)\b`, IntentID: "nav.go", Priority: 20},
	}
}
