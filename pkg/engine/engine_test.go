package engine_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulectx/rulectx/pkg/engine"
	"github.com/rulectx/rulectx/pkg/fetch"
	"github.com/rulectx/rulectx/pkg/rule"
)

const testIndex = `
rules:
  base:
    - name: Coding Standards
      path: base/coding-standards.md
      topics: [code-quality, style]
    - name: Security Baseline
      path: base/security-baseline.md
      topics: [security]
  languages:
    python:
      - name: Python Error Handling
        path: languages/python/error-handling.md
        topics: [error-handling, debugging]
    go:
      - name: Go Concurrency
        path: languages/go/concurrency.md
  frameworks:
    fastapi:
      - name: FastAPI Patterns
        path: frameworks/fastapi/patterns.md
        topics: [api, security]
`

var testDocs = map[string]string{
	"base/coding-standards.md":           "# Coding Standards\n\nKeep it simple.",
	"base/security-baseline.md":          "# Security Baseline\n\nValidate inputs.",
	"languages/python/error-handling.md": "# Python Error Handling\n\nUse exceptions sparingly.",
	"languages/go/concurrency.md":        "# Go Concurrency\n\nShare by communicating.",
	"frameworks/fastapi/patterns.md":     "# FastAPI Patterns\n\nUse dependency injection.",
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}

	return dir
}

func newTestEngine(t *testing.T, opts ...engine.EngineOpt) *engine.Engine {
	t.Helper()

	rulesDir := writeTree(t, testDocs)

	catalog, err := rule.Parse([]byte(testIndex))
	require.NoError(t, err)

	store, err := fetch.NewFileStore(rulesDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return engine.New(
		engine.StaticCatalog{C: catalog},
		fetch.NewFetcher(store),
		opts...,
	)
}

func pythonProject(t *testing.T) string {
	t.Helper()

	return writeTree(t, map[string]string{
		"requirements.txt": "fastapi==0.110.0\nuvicorn\n",
		"app/main.py":      "print('hi')\n",
	})
}

func TestEngine_Run_FastAPIScenario(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	dir := pythonProject(t)

	res := e.Run(t.Context(), "Implement a new API endpoint for user signup", dir)

	require.False(t, res.Metadata.Degraded)
	assert.Equal(t, "code-implementation", string(res.Metadata.Category))
	assert.Contains(t, res.Metadata.Context.Languages, "python")
	assert.Contains(t, res.Metadata.Context.Frameworks, "fastapi")

	assert.Contains(t, res.Metadata.RulePaths, "frameworks/fastapi/patterns.md")
	assert.Contains(t, res.Metadata.RulePaths, "languages/python/error-handling.md")
	assert.NotContains(t, res.Metadata.RulePaths, "languages/go/concurrency.md")

	assert.Contains(t, res.Injected, "FastAPI Patterns")
	assert.Contains(t, res.Injected, "_Source: frameworks/fastapi/patterns.md_")
	assert.LessOrEqual(t, res.Metadata.TotalTokens, 5000)

	for _, stage := range []string{"detect", "classify", "intent", "select", "fetch", "format"} {
		assert.Contains(t, res.Metadata.Timing, stage)
	}
}

func TestEngine_Run_EarlyExit(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	dir := pythonProject(t)

	res := e.Run(t.Context(), "What is dependency injection?", dir)

	assert.False(t, res.Metadata.Degraded)
	assert.Equal(t, "general-question", string(res.Metadata.Category))
	assert.Empty(t, res.Injected)
	assert.Empty(t, res.Metadata.RulePaths)
	assert.Contains(t, res.Metadata.Reason, "skips rule loading")
	assert.NotContains(t, res.Metadata.Timing, "select")
}

func TestEngine_Run_AutoLoadDisabled(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, engine.WithAutoLoad(false))

	res := e.Run(t.Context(), "Fix the bug in auth.py", t.TempDir())

	assert.Empty(t, res.Injected)
	assert.Equal(t, "auto-load disabled", res.Metadata.Reason)
}

func TestEngine_Run_ZeroBudget(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, engine.WithBudget(5, 0))
	dir := pythonProject(t)

	res := e.Run(t.Context(), "Implement a new API endpoint", dir)

	assert.Empty(t, res.Injected)
	assert.Zero(t, res.Metadata.RulesLoaded)
	assert.Equal(t, "no rules passed selection", res.Metadata.Reason)
}

func TestEngine_Run_AllFetchesFail(t *testing.T) {
	t.Parallel()

	// Catalog points at documents that do not exist in the store.
	catalog, err := rule.Parse([]byte(testIndex))
	require.NoError(t, err)

	store, err := fetch.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	e := engine.New(engine.StaticCatalog{C: catalog}, fetch.NewFetcher(store))

	res := e.Run(t.Context(), "Implement a new API endpoint", pythonProject(t))

	assert.Empty(t, res.Injected)
	assert.Zero(t, res.Metadata.RulesLoaded)
	assert.Equal(t, "all rule fetches failed", res.Metadata.Reason)
	assert.False(t, res.Metadata.Degraded)
}

func TestEngine_Run_EmptyProject(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	res := e.Run(t.Context(), "Fix the crash when the input is empty", t.TempDir())

	require.False(t, res.Metadata.Degraded)
	assert.Equal(t, "code-debugging", string(res.Metadata.Category))
	assert.Empty(t, res.Metadata.Context.Languages)

	// Base rules still load without language evidence; rules scoped to
	// undetected languages only qualify through topical relevance.
	assert.Contains(t, res.Metadata.RulePaths, "base/coding-standards.md")
	assert.NotContains(t, res.Metadata.RulePaths, "languages/go/concurrency.md")
}

func TestEngine_Run_LatencyWarnDoesNotAffectResult(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, engine.WithLatencyWarn(time.Nanosecond))

	res := e.Run(t.Context(), "Implement a new API endpoint", pythonProject(t))

	assert.False(t, res.Metadata.Degraded)
}
