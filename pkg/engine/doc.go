// Package engine orchestrates the selection pipeline: detect the project
// context, classify the prompt, score and select rules, fetch their content,
// and format it for injection. A run never fails; anything that goes wrong
// degrades to an empty result with a reason attached.
package engine
