// Package detect inspects a project directory and produces a technology
// profile: languages, frameworks, cloud providers, maturity, and a
// confidence score. Detection is best effort; a missing or partial project
// yields an empty profile, never an error.
package detect
