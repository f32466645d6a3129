// Package prompt classifies a free-text request into exactly one category
// and extracts the user's intent (topics, action, urgency). Classification
// is deterministic and total: the same text always yields the same category,
// and unrecognizable text yields CategoryUnclear rather than an error.
package prompt
