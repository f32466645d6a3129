package score

// Weights tunes how much each affinity contributes to a rule's score. All
// weights are additive integers so scores stay exact and comparable.
type Weights struct {
	// Base is granted to every rule in the base category.
	Base int `json:"base,omitempty" yaml:"base,omitempty"`

	// Language, Framework, and CloudProvider are granted when a scoped
	// rule's scope appears in the detected context.
	Language      int `json:"language,omitempty" yaml:"language,omitempty"`
	Framework     int `json:"framework,omitempty" yaml:"framework,omitempty"`
	CloudProvider int `json:"cloudProvider,omitempty" yaml:"cloudProvider,omitempty"`

	// Maturity is granted when the rule applies at the detected tier.
	Maturity int `json:"maturity,omitempty" yaml:"maturity,omitempty"`

	// TopicOverlap is granted once per topic shared between the rule and
	// the extracted intent.
	TopicOverlap int `json:"topicOverlap,omitempty" yaml:"topicOverlap,omitempty"`

	// CategoryBoost is granted once per rule topic associated with the
	// prompt's category.
	CategoryBoost int `json:"categoryBoost,omitempty" yaml:"categoryBoost,omitempty"`

	// UrgencySecurity is granted to security-tagged rules when the request
	// is urgent.
	UrgencySecurity int `json:"urgencySecurity,omitempty" yaml:"urgencySecurity,omitempty"`

	// RelevanceFloor drops rules scoring below it before selection.
	RelevanceFloor int `json:"relevanceFloor,omitempty" yaml:"relevanceFloor,omitempty"`
}

// DefaultWeights returns the stock weighting. Context affinities dominate,
// topic overlap is a strong nudge, and maturity is a tiebreaker.
func DefaultWeights() Weights {
	return Weights{
		Base:            2,
		Language:        10,
		Framework:       10,
		CloudProvider:   6,
		Maturity:        3,
		TopicOverlap:    5,
		CategoryBoost:   4,
		UrgencySecurity: 8,
		RelevanceFloor:  5,
	}
}
