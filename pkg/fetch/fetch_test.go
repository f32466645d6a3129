package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulectx/rulectx/pkg/fetch"
	"github.com/rulectx/rulectx/pkg/rule"
)

func writeRuleFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}

	return dir
}

func ruleFor(path string) rule.RuleInfo {
	return rule.RuleInfo{Path: path, Name: path, EstimatedTokens: 100}
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	dir := writeRuleFiles(t, map[string]string{
		"base/standards.md":          "# Coding Standards\n\nbody",
		"languages/python/errors.md": "no heading here",
	})

	store, err := fetch.NewFileStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	t.Run("get", func(t *testing.T) {
		t.Parallel()

		data, err := store.Get(t.Context(), "base/standards.md")
		require.NoError(t, err)
		assert.Contains(t, string(data), "Coding Standards")
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := store.Get(t.Context(), "base/nope.md")
		require.ErrorIs(t, err, fetch.ErrNotFound)
	})

	t.Run("escape attempt is contained", func(t *testing.T) {
		t.Parallel()

		_, err := store.Get(t.Context(), "../outside.md")
		require.Error(t, err)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		paths, err := store.List(t.Context())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"base/standards.md",
			"languages/python/errors.md",
		}, paths)
	})
}

func TestHTTPStore(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/base/standards.md", r.URL.Path)
			_, _ = w.Write([]byte("# Standards\n"))
		}))
		t.Cleanup(srv.Close)

		store, err := fetch.NewHTTPStore(srv.URL)
		require.NoError(t, err)

		data, err := store.Get(t.Context(), "base/standards.md")
		require.NoError(t, err)
		assert.Equal(t, "# Standards\n", string(data))
	})

	t.Run("not found is permanent", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(srv.Close)

		store, err := fetch.NewHTTPStore(srv.URL)
		require.NoError(t, err)

		_, err = store.Get(t.Context(), "base/nope.md")
		require.ErrorIs(t, err, fetch.ErrNotFound)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)

				return
			}

			_, _ = w.Write([]byte("recovered"))
		}))
		t.Cleanup(srv.Close)

		store, err := fetch.NewHTTPStore(srv.URL, fetch.WithMaxTries(3))
		require.NoError(t, err)

		data, err := store.Get(t.Context(), "base/flaky.md")
		require.NoError(t, err)
		assert.Equal(t, "recovered", string(data))
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestCache(t *testing.T) {
	t.Parallel()

	t.Run("roundtrip and stats", func(t *testing.T) {
		t.Parallel()

		c := fetch.NewCache(8, time.Minute)

		_, ok := c.Get("a.md")
		assert.False(t, ok)

		c.Set("a.md", []byte("body"))

		data, ok := c.Get("a.md")
		require.True(t, ok)
		assert.Equal(t, "body", string(data))

		stats := c.Stats()
		assert.Equal(t, int64(1), stats.Hits)
		assert.Equal(t, int64(1), stats.Misses)
		assert.Equal(t, 1, stats.Size)
		assert.InDelta(t, 0.5, stats.HitRate, 0.001)
	})

	t.Run("expiry", func(t *testing.T) {
		t.Parallel()

		c := fetch.NewCache(8, 10*time.Millisecond)
		c.Set("a.md", []byte("body"))

		require.Eventually(t, func() bool {
			return !c.Has("a.md")
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()

		c := fetch.NewCache(8, time.Minute)
		c.Set("a.md", []byte("body"))
		c.Clear()

		assert.False(t, c.Has("a.md"))
	})
}

func TestFetcher_FetchAll(t *testing.T) {
	t.Parallel()

	dir := writeRuleFiles(t, map[string]string{
		"base/standards.md":          "# Coding Standards\n\nbody",
		"languages/python/errors.md": "plain body without heading",
	})

	store, err := fetch.NewFileStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	t.Run("preserves input order and tolerates failures", func(t *testing.T) {
		t.Parallel()

		f := fetch.NewFetcher(store, fetch.WithConcurrency(2))

		results := f.FetchAll(t.Context(), []rule.RuleInfo{
			ruleFor("languages/python/errors.md"),
			ruleFor("base/standard.md"),
			ruleFor("base/standards.md"),
		})

		require.Len(t, results, 3)

		assert.Equal(t, fetch.StatusFetched, results[0].Status)
		assert.Equal(t, "languages/python/errors.md", results[0].Title)

		assert.Equal(t, fetch.StatusFailed, results[1].Status)
		require.ErrorIs(t, results[1].Err, fetch.ErrNotFound)
		assert.Equal(t, "base/standards.md", results[1].Hint)

		assert.Equal(t, fetch.StatusFetched, results[2].Status)
		assert.Equal(t, "Coding Standards", results[2].Title)
	})

	t.Run("second batch hits the cache", func(t *testing.T) {
		t.Parallel()

		cache := fetch.NewCache(8, time.Minute)
		f := fetch.NewFetcher(store, fetch.WithCache(cache))
		rules := []rule.RuleInfo{ruleFor("base/standards.md")}

		first := f.FetchAll(t.Context(), rules)
		require.Equal(t, fetch.StatusFetched, first[0].Status)

		second := f.FetchAll(t.Context(), rules)
		require.Equal(t, fetch.StatusCacheHit, second[0].Status)
		assert.Equal(t, first[0].Content, second[0].Content)
		assert.Equal(t, "Coding Standards", second[0].Title)
	})
}

func TestFetcher_AllFailures(t *testing.T) {
	t.Parallel()

	store, err := fetch.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := fetch.NewFetcher(store)

	results := f.FetchAll(context.Background(), []rule.RuleInfo{
		ruleFor("a.md"),
		ruleFor("b.md"),
	})

	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, fetch.StatusFailed, res.Status)
	}
}
