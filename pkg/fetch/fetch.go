package fetch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/rulectx/rulectx/pkg/rule"
)

// Status tags how one document was obtained.
type Status string

const (
	StatusCacheHit Status = "cache-hit"
	StatusFetched  Status = "fetched"
	StatusFailed   Status = "failed"
)

// Result is the outcome for one rule in a batch. Results come back in the
// same order as the input rules regardless of fetch concurrency.
type Result struct {
	Rule    rule.RuleInfo `json:"rule"`
	Status  Status        `json:"status"`
	Title   string        `json:"title,omitempty"`
	Content string        `json:"content,omitempty"`

	// Hint names the closest known path when the lookup missed entirely.
	Hint string `json:"hint,omitempty"`

	Err error `json:"-"`
}

const defaultConcurrency = 4

// Fetcher retrieves batches of rule documents through an optional cache.
type Fetcher struct {
	store       Store
	cache       *Cache
	concurrency int
}

// FetcherOpt configures a [Fetcher].
type FetcherOpt func(*Fetcher)

// WithCache enables caching of fetched documents.
func WithCache(c *Cache) FetcherOpt {
	return func(f *Fetcher) { f.cache = c }
}

// WithConcurrency bounds parallel store requests.
func WithConcurrency(n int) FetcherOpt {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// NewFetcher creates a fetcher over store.
func NewFetcher(store Store, opts ...FetcherOpt) *Fetcher {
	f := &Fetcher{
		store:       store,
		concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FetchAll retrieves every rule's document. Individual failures do not stop
// the batch; each failed result carries its error and, for missing paths, a
// closest-match hint when the store can enumerate its contents.
func (f *Fetcher) FetchAll(ctx context.Context, rules []rule.RuleInfo) []Result {
	results := make([]Result, len(rules))

	var wg sync.WaitGroup

	sem := make(chan struct{}, f.concurrency)

	for i := range rules {
		wg.Add(1)

		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = f.fetchOne(ctx, rules[i])
		}()
	}

	wg.Wait()

	f.addHints(ctx, results)

	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, r rule.RuleInfo) Result {
	res := Result{Rule: r}

	if f.cache != nil {
		if data, ok := f.cache.Get(r.Path); ok {
			res.Status = StatusCacheHit
			res.Content = string(data)
			res.Title = parseTitle(data, r.Name)

			return res
		}
	}

	data, err := f.store.Get(ctx, r.Path)
	if err != nil {
		slog.Warn("rule document fetch failed",
			slog.String("path", r.Path),
			slog.Any("error", err),
		)

		res.Status = StatusFailed
		res.Err = err

		return res
	}

	if f.cache != nil {
		f.cache.Set(r.Path, data)
	}

	res.Status = StatusFetched
	res.Content = string(data)
	res.Title = parseTitle(data, r.Name)

	return res
}

// addHints resolves closest-match suggestions for not-found failures in one
// pass, so the store is listed at most once per batch.
func (f *Fetcher) addHints(ctx context.Context, results []Result) {
	lister, ok := f.store.(Lister)
	if !ok {
		return
	}

	var known []string

	for i := range results {
		if results[i].Status != StatusFailed || !errors.Is(results[i].Err, ErrNotFound) {
			continue
		}

		if known == nil {
			paths, err := lister.List(ctx)
			if err != nil || len(paths) == 0 {
				return
			}

			known = paths
		}

		// Match on the filename stem; full paths rarely survive a
		// subsequence match against their neighbors.
		stem := strings.TrimSuffix(path.Base(results[i].Rule.Path), path.Ext(results[i].Rule.Path))
		if matches := fuzzy.Find(stem, known); len(matches) > 0 {
			results[i].Hint = matches[0].Str
		}
	}
}

// parseTitle takes the first level-one markdown heading, falling back to the
// catalog name.
func parseTitle(data []byte, fallback string) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if after, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(after)
		}

		if line != "" && !strings.HasPrefix(line, "#") {
			break
		}
	}

	return fallback
}
