package prompt

import "strings"

// keywordWeights drives the phase-2 fallback: each keyword hit adds its
// weight to the category's tally. A category wins only with a strict,
// unique maximum of at least minKeywordScore.
var keywordWeights = map[Category]map[string]int{
	CategoryCodeImplementation: {
		"implement": 2, "build": 1, "create": 1, "code": 1, "function": 1,
		"feature": 1, "endpoint": 1, "library": 1,
	},
	CategoryCodeDebugging: {
		"bug": 2, "error": 2, "fix": 2, "crash": 2, "broken": 1,
		"fails": 1, "exception": 2, "debug": 2,
	},
	CategoryCodeReview: {
		"review": 2, "feedback": 1, "quality": 1, "readability": 1,
		"maintainability": 1,
	},
	CategoryArchitecture: {
		"architecture": 2, "design": 1, "scalability": 2, "microservice": 2,
		"schema": 1, "pattern": 1,
	},
	CategoryDevOps: {
		"deploy": 2, "deployment": 2, "docker": 2, "kubernetes": 2,
		"pipeline": 1, "infrastructure": 2, "terraform": 2, "monitoring": 1,
	},
	CategoryDocumentation: {
		"documentation": 2, "readme": 2, "docs": 1, "document": 1,
		"changelog": 1, "guide": 1,
	},
	CategoryLegalBusiness: {
		"contract": 2, "legal": 2, "compliance": 1, "agreement": 2,
		"policy": 1, "license": 1,
	},
	CategoryGeneralQuestion: {
		"what": 1, "how": 1, "why": 1, "explain": 1, "understand": 1,
	},
}

const minKeywordScore = 2

// Classify assigns exactly one category to the text. Phase 1 walks the
// ordered pattern list and returns on first match; phase 2 falls back to
// keyword scoring. Ties and sub-threshold scores yield [CategoryUnclear].
func Classify(text string) Category {
	if strings.TrimSpace(text) == "" {
		return CategoryUnclear
	}

	for _, rule := range classifierPatterns {
		if rule.re.MatchString(text) {
			return rule.category
		}
	}

	return classifyByKeywords(text)
}

func classifyByKeywords(text string) Category {
	words := tokenize(text)

	scores := make(map[Category]int, len(keywordWeights))
	for category, weights := range keywordWeights {
		for _, w := range words {
			if weight, ok := weights[w]; ok {
				scores[category] += weight
			}
		}
	}

	var (
		best      Category
		bestScore int
		tied      bool
	)

	// Iterate categories in their declared order so the walk itself is
	// deterministic; a strict unique maximum is still required to win.
	for _, category := range AllCategories {
		score := scores[category]

		switch {
		case score > bestScore:
			best = category
			bestScore = score
			tied = false

		case score == bestScore && score > 0:
			tied = true
		}
	}

	if tied || bestScore < minKeywordScore {
		return CategoryUnclear
	}

	return best
}

// tokenize lowercases and splits on non-alphanumeric boundaries.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
