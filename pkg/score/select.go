package score

import (
	"sort"

	"github.com/rulectx/rulectx/pkg/rule"
)

// Selection is the outcome of one budgeted pick.
type Selection struct {
	// Rules is the selected set, highest score first.
	Rules []ScoredRule `json:"rules"`

	// TotalTokens is the summed estimate of the selected rules. It never
	// exceeds the request's budget.
	TotalTokens int `json:"totalTokens"`

	// Considered counts candidates that passed the relevance floor.
	Considered int `json:"considered"`

	// SkippedForBudget counts relevant rules that did not fit the budget.
	SkippedForBudget int `json:"skippedForBudget"`
}

// Select scores every candidate, drops those below the relevance floor, and
// greedily packs the remainder into the token budget in descending score
// order. A rule that does not fit is skipped, never revisited, and the walk
// continues with cheaper rules. Ties in score keep catalog order, so the
// selection is deterministic for a given catalog and request.
func Select(candidates []rule.RuleInfo, req Request, w Weights) Selection {
	relevant := make([]ScoredRule, 0, len(candidates))

	for _, r := range candidates {
		scored := Score(r, req, w)
		if scored.Score >= w.RelevanceFloor {
			relevant = append(relevant, scored)
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Score > relevant[j].Score
	})

	selection := Selection{
		Rules:      []ScoredRule{},
		Considered: len(relevant),
	}

	for i, scored := range relevant {
		if req.MaxRules > 0 && len(selection.Rules) >= req.MaxRules {
			selection.SkippedForBudget += len(relevant) - i

			break
		}

		if selection.TotalTokens+scored.Rule.EstimatedTokens > req.MaxTokens {
			selection.SkippedForBudget++

			continue
		}

		selection.Rules = append(selection.Rules, scored)
		selection.TotalTokens += scored.Rule.EstimatedTokens
	}

	return selection
}
