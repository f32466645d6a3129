// Package score ranks catalog rules against a detected project context and
// a classified prompt, then selects the best set that fits a token budget.
// Scoring and selection are pure functions over their inputs; the same
// request against the same catalog always yields the same selection.
package score
