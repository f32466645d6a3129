package rule

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/rulectx/rulectx/pkg/yaml"
)

var (
	ErrDuplicatePath   = errors.New("duplicate rule path")
	ErrEmptyPath       = errors.New("rule path must not be empty")
	ErrInvalidTokens   = errors.New("estimatedTokens must be positive")
	ErrInvalidMaturity = errors.New("unknown maturity tier")
	ErrEmptyCatalog    = errors.New("catalog contains no rules")
)

// Catalog is an immutable set of validated rules. Construct one with [Load]
// or [NewCatalog]; never modify the slice returned by [Catalog.Rules].
type Catalog struct {
	rules  []RuleInfo
	byPath map[string]int
}

// indexDocument mirrors the on-disk index shape. All sections are optional;
// the document as a whole must still yield at least one rule.
type indexDocument struct {
	Rules struct {
		Base       []indexEntry            `yaml:"base"`
		Languages  map[string][]indexEntry `yaml:"languages"`
		Frameworks map[string][]indexEntry `yaml:"frameworks"`
		Cloud      map[string][]indexEntry `yaml:"cloud"`
	} `yaml:"rules"`
}

type indexEntry struct {
	Name            string   `yaml:"name"`
	Path            string   `yaml:"path"`
	Topics          []string `yaml:"topics"`
	Maturity        []string `yaml:"maturity"`
	EstimatedTokens int      `yaml:"estimatedTokens"`
}

// Load reads a rule index from path. The file may be YAML or JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule index: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a rule index document.
func Parse(data []byte) (*Catalog, error) {
	var doc indexDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode rule index: %w", err)
	}

	rules := make([]RuleInfo, 0, len(doc.Rules.Base))

	for _, e := range doc.Rules.Base {
		rules = append(rules, e.toRule(CategoryBase, ""))
	}

	for _, scope := range sortedKeys(doc.Rules.Languages) {
		for _, e := range doc.Rules.Languages[scope] {
			rules = append(rules, e.toRule(CategoryLanguage, scope))
		}
	}

	for _, scope := range sortedKeys(doc.Rules.Frameworks) {
		for _, e := range doc.Rules.Frameworks[scope] {
			rules = append(rules, e.toRule(CategoryFramework, scope))
		}
	}

	for _, scope := range sortedKeys(doc.Rules.Cloud) {
		for _, e := range doc.Rules.Cloud[scope] {
			rules = append(rules, e.toRule(CategoryCloud, scope))
		}
	}

	return NewCatalog(rules)
}

// NewCatalog validates rules and builds the catalog. The input slice is
// retained; callers must not mutate it afterwards.
func NewCatalog(rules []RuleInfo) (*Catalog, error) {
	if len(rules) == 0 {
		return nil, ErrEmptyCatalog
	}

	byPath := make(map[string]int, len(rules))

	for i := range rules {
		r := &rules[i]

		if r.Path == "" {
			return nil, fmt.Errorf("%w: rule %q", ErrEmptyPath, r.Name)
		}

		if _, ok := byPath[r.Path]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePath, r.Path)
		}

		if r.EstimatedTokens <= 0 {
			return nil, fmt.Errorf("%w: %q has %d", ErrInvalidTokens, r.Path, r.EstimatedTokens)
		}

		for _, m := range r.Maturity {
			if !slices.Contains(AllMaturities, m) {
				return nil, fmt.Errorf("%w: %q in %q", ErrInvalidMaturity, m, r.Path)
			}
		}

		byPath[r.Path] = i
	}

	return &Catalog{rules: rules, byPath: byPath}, nil
}

// Rules returns the full rule arena, read-only.
func (c *Catalog) Rules() []RuleInfo {
	return c.rules
}

// Len reports the number of rules in the catalog.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Get looks a rule up by its path.
func (c *Catalog) Get(path string) (RuleInfo, bool) {
	i, ok := c.byPath[path]
	if !ok {
		return RuleInfo{}, false
	}

	return c.rules[i], true
}

// Paths returns every rule path in catalog order.
func (c *Catalog) Paths() []string {
	paths := make([]string, len(c.rules))
	for i := range c.rules {
		paths[i] = c.rules[i].Path
	}

	return paths
}

// toRule converts an index entry into a validated-ready rule, applying the
// catalog defaults for the fields the entry omits.
func (e indexEntry) toRule(category Category, scope string) RuleInfo {
	r := RuleInfo{
		Path:            e.Path,
		Name:            e.Name,
		Category:        category,
		Maturity:        e.Maturity,
		Topics:          e.Topics,
		EstimatedTokens: e.EstimatedTokens,
	}

	switch category {
	case CategoryLanguage:
		r.Language = scope
	case CategoryFramework:
		r.Framework = scope
	case CategoryCloud:
		r.CloudProvider = scope
	case CategoryBase:
	}

	if r.Name == "" {
		r.Name = r.Path
	}

	if r.EstimatedTokens == 0 {
		if category == CategoryBase {
			r.EstimatedTokens = defaultBaseTokens
		} else {
			r.EstimatedTokens = defaultScopedTokens
		}
	}

	if len(r.Maturity) == 0 {
		r.Maturity = slices.Clone(AllMaturities)
	}

	if len(r.Topics) == 0 {
		r.Topics = TopicsFromPath(r.Path)
	}

	return r
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
