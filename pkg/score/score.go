package score

import (
	"fmt"
	"slices"

	"github.com/rulectx/rulectx/pkg/detect"
	"github.com/rulectx/rulectx/pkg/prompt"
	"github.com/rulectx/rulectx/pkg/rule"
)

// Request is everything the scorer knows about one selection: the detected
// project context, the classified prompt, and the budget.
type Request struct {
	Context  *detect.Context
	Category prompt.Category
	Intent   prompt.Intent

	// MaxTokens is the total budget; a zero budget selects nothing.
	MaxTokens int

	// MaxRules caps the number of selected rules. Zero or negative means
	// no cap.
	MaxRules int
}

// ScoredRule is one candidate with its computed score and the human-readable
// reasons behind it. Reasons are for transparency in output and logs; they
// carry no semantics.
type ScoredRule struct {
	Rule    rule.RuleInfo `json:"rule"`
	Score   int           `json:"score"`
	Reasons []string      `json:"reasons"`
}

// categoryTopics maps a prompt category to the rule topics it boosts.
// Categories absent here get no boost.
var categoryTopics = map[prompt.Category][]string{
	prompt.CategoryCodeImplementation: {"testing", "api", "code-quality"},
	prompt.CategoryCodeDebugging:      {"debugging", "error-handling", "logging"},
	prompt.CategoryCodeReview:         {"code-quality", "testing", "security"},
	prompt.CategoryArchitecture:       {"architecture", "database", "api"},
	prompt.CategoryDevOps:             {"deployment", "infrastructure", "monitoring", "configuration"},
	prompt.CategoryDocumentation:      {"documentation"},
}

// Score computes one rule's score against the request. It never rejects;
// filtering against the relevance floor happens in [Select].
func Score(r rule.RuleInfo, req Request, w Weights) ScoredRule {
	scored := ScoredRule{Rule: r}

	add := func(points int, reason string) {
		scored.Score += points
		scored.Reasons = append(scored.Reasons, reason)
	}

	switch r.Category {
	case rule.CategoryBase:
		add(w.Base, "base rule")

	case rule.CategoryLanguage:
		if req.Context.HasLanguage(r.Language) {
			add(w.Language, fmt.Sprintf("language match: %s", r.Language))
		}

	case rule.CategoryFramework:
		if req.Context.HasFramework(r.Framework) {
			add(w.Framework, fmt.Sprintf("framework match: %s", r.Framework))
		}

	case rule.CategoryCloud:
		if req.Context.HasCloudProvider(r.CloudProvider) {
			add(w.CloudProvider, fmt.Sprintf("cloud match: %s", r.CloudProvider))
		}
	}

	if r.HasMaturity(string(req.Context.Maturity)) {
		add(w.Maturity, fmt.Sprintf("maturity match: %s", req.Context.Maturity))
	}

	for _, topic := range req.Intent.Topics {
		if slices.Contains(r.Topics, topic) {
			add(w.TopicOverlap, fmt.Sprintf("topic match: %s", topic))
		}
	}

	for _, topic := range categoryTopics[req.Category] {
		if slices.Contains(r.Topics, topic) {
			add(w.CategoryBoost, fmt.Sprintf("category boost: %s", topic))
		}
	}

	if req.Intent.Urgency == prompt.UrgencyHigh && slices.Contains(r.Topics, "security") {
		add(w.UrgencySecurity, "urgent security escalation")
	}

	return scored
}
