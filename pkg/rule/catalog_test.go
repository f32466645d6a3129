package rule_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
      estimatedTokens: 1200
      maturity: [pre-production, production]
  languages:
    python:
      - name: Python Error Handling
        path: languages/python/python-error-handling.md
    go:
      - name: Go Concurrency
        path: languages/go/go-concurrency.md
        estimatedTokens: 1500
  frameworks:
    fastapi:
      - name: FastAPI Patterns
        path: frameworks/fastapi/fastapi-patterns.md
        topics: [api, security]
  cloud:
    aws:
      - name: AWS IAM
        path: cloud/aws/aws-iam.md
`

func TestParse(t *testing.T) {
	t.Parallel()

	c, err := rule.Parse([]byte(testIndex))
	require.NoError(t, err)
	require.Equal(t, 6, c.Len())

	t.Run("base defaults", func(t *testing.T) {
		t.Parallel()

		r, ok := c.Get("base/coding-standards.md")
		require.True(t, ok)
		assert.Equal(t, rule.CategoryBase, r.Category)
		assert.Equal(t, 800, r.EstimatedTokens)
		assert.Equal(t, rule.AllMaturities, r.Maturity)
		assert.Equal(t, []string{"code-quality", "style"}, r.Topics)
	})

	t.Run("explicit fields win over defaults", func(t *testing.T) {
		t.Parallel()

		r, ok := c.Get("base/security-baseline.md")
		require.True(t, ok)
		assert.Equal(t, 1200, r.EstimatedTokens)
		assert.Equal(t, []string{"pre-production", "production"}, r.Maturity)
	})

	t.Run("scoped entries carry their scope", func(t *testing.T) {
		t.Parallel()

		r, ok := c.Get("languages/python/python-error-handling.md")
		require.True(t, ok)
		assert.Equal(t, rule.CategoryLanguage, r.Category)
		assert.Equal(t, "python", r.Language)
		assert.Equal(t, 1000, r.EstimatedTokens)

		r, ok = c.Get("frameworks/fastapi/fastapi-patterns.md")
		require.True(t, ok)
		assert.Equal(t, "fastapi", r.Framework)

		r, ok = c.Get("cloud/aws/aws-iam.md")
		require.True(t, ok)
		assert.Equal(t, "aws", r.CloudProvider)
	})

	t.Run("topics derived from path when omitted", func(t *testing.T) {
		t.Parallel()

		r, ok := c.Get("languages/python/python-error-handling.md")
		require.True(t, ok)
		assert.Equal(t, []string{"python", "error", "handling"}, r.Topics)
	})
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		err   error
	}{
		"empty document": {
			input: `rules: {}`,
			err:   rule.ErrEmptyCatalog,
		},
		"duplicate path": {
			input: `
rules:
  base:
    - {name: A, path: base/a.md}
    - {name: B, path: base/a.md}
`,
			err: rule.ErrDuplicatePath,
		},
		"missing path": {
			input: `
rules:
  base:
    - {name: A}
`,
			err: rule.ErrEmptyPath,
		},
		"negative tokens": {
			input: `
rules:
  base:
    - {name: A, path: base/a.md, estimatedTokens: -10}
`,
			err: rule.ErrInvalidTokens,
		},
		"unknown maturity": {
			input: `
rules:
  base:
    - {name: A, path: base/a.md, maturity: [beta]}
`,
			err: rule.ErrInvalidMaturity,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := rule.Parse([]byte(tc.input))
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestParse_DeterministicOrder(t *testing.T) {
	t.Parallel()

	a, err := rule.Parse([]byte(testIndex))
	require.NoError(t, err)

	b, err := rule.Parse([]byte(testIndex))
	require.NoError(t, err)

	assert.Equal(t, a.Paths(), b.Paths())
}

func TestTopicsFromPath(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		path string
		want []string
	}{
		"hyphenated": {
			path: "languages/python/python-error-handling.md",
			want: []string{"python", "error", "handling"},
		},
		"underscored": {
			path: "base/api_design.md",
			want: []string{"api", "design"},
		},
		"short segments dropped": {
			path: "cloud/aws/s3-vs-db.md",
			want: []string{},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, rule.TopicsFromPath(tc.path))
		})
	}
}

func TestHolder_Reload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	indexPath := filepath.Join(dir, "index.yaml")
	require.NoError(t, os.WriteFile(indexPath, []byte(testIndex), 0o600))

	h, err := rule.NewHolder(indexPath)
	require.NoError(t, err)
	require.Equal(t, 6, h.Catalog().Len())

	t.Run("successful reload swaps the catalog", func(t *testing.T) {
		updated := `
rules:
  base:
    - {name: Only Rule, path: base/only.md}
`
		require.NoError(t, os.WriteFile(indexPath, []byte(updated), 0o600))
		require.NoError(t, h.Reload())
		assert.Equal(t, 1, h.Catalog().Len())
	})

	t.Run("failed reload keeps the previous catalog", func(t *testing.T) {
		require.NoError(t, os.WriteFile(indexPath, []byte(`rules: {}`), 0o600))

		err := h.Reload()
		require.ErrorIs(t, err, rule.ErrEmptyCatalog)
		assert.Equal(t, 1, h.Catalog().Len())
	})
}

func TestHasMaturity(t *testing.T) {
	t.Parallel()

	r := rule.RuleInfo{Maturity: []string{"production"}}
	assert.True(t, r.HasMaturity("production"))
	assert.False(t, r.HasMaturity("mvp"))
}
