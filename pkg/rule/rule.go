package rule

import (
	"path"
	"strings"
)

// Category groups rules by the kind of affinity they carry.
type Category string

const (
	CategoryBase      Category = "base"
	CategoryLanguage  Category = "language"
	CategoryFramework Category = "framework"
	CategoryCloud     Category = "cloud"
)

// Default token estimates, applied when an index entry omits its own.
const (
	defaultBaseTokens   = 800
	defaultScopedTokens = 1000
)

// AllMaturities is the default maturity set for entries that omit one.
var AllMaturities = []string{"mvp", "pre-production", "production"}

// RuleInfo is one catalog entry. Path is the globally unique identity.
// Entries are value types; the catalog never hands out pointers into its
// arena.
type RuleInfo struct {
	Path            string   `json:"path"`
	Name            string   `json:"name"`
	Category        Category `json:"category"`
	Language        string   `json:"language,omitempty"`
	Framework       string   `json:"framework,omitempty"`
	CloudProvider   string   `json:"cloudProvider,omitempty"`
	Maturity        []string `json:"maturity"`
	Topics          []string `json:"topics"`
	EstimatedTokens int      `json:"estimatedTokens"`
}

// HasMaturity reports whether the rule applies at the given maturity tier.
func (r *RuleInfo) HasMaturity(m string) bool {
	for _, rm := range r.Maturity {
		if rm == m {
			return true
		}
	}

	return false
}

// TopicsFromPath derives topic tags from the path's file name when an entry
// declares none: "python-error-handling.md" yields [python, error, handling].
// Short connective segments are dropped.
func TopicsFromPath(rulePath string) []string {
	base := path.Base(rulePath)
	base = strings.TrimSuffix(base, path.Ext(base))

	segments := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})

	topics := make([]string, 0, len(segments))
	for _, s := range segments {
		if len(s) > 2 {
			topics = append(topics, strings.ToLower(s))
		}
	}

	return topics
}
