package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rulectx/rulectx/pkg/config"
	"github.com/rulectx/rulectx/pkg/detect"
	"github.com/rulectx/rulectx/pkg/fetch"
	"github.com/rulectx/rulectx/pkg/log"
	"github.com/rulectx/rulectx/pkg/prompt"
	"github.com/rulectx/rulectx/pkg/rule"
	"github.com/rulectx/rulectx/pkg/score"
)

// CatalogProvider yields the current rule catalog. [rule.Holder] satisfies
// this; a fixed catalog can be wrapped with [StaticCatalog].
type CatalogProvider interface {
	Catalog() *rule.Catalog
}

// StaticCatalog adapts a fixed catalog to [CatalogProvider].
type StaticCatalog struct {
	C *rule.Catalog
}

func (s StaticCatalog) Catalog() *rule.Catalog { return s.C }

// Metadata describes one run for logs, JSON output, and MCP responses.
type Metadata struct {
	Context     *detect.Context          `json:"context"`
	Category    prompt.Category          `json:"category"`
	Intent      prompt.Intent            `json:"intent"`
	RulesLoaded int                      `json:"rulesLoaded"`
	RulePaths   []string                 `json:"rulePaths"`
	TotalTokens int                      `json:"totalTokens"`
	Timing      map[string]time.Duration `json:"timing"`
	Degraded    bool                     `json:"degraded"`
	Reason      string                   `json:"reason,omitempty"`
}

// Result is the outcome of one pipeline run.
type Result struct {
	Injected string   `json:"injected"`
	Metadata Metadata `json:"metadata"`
}

// Engine runs the selection pipeline.
type Engine struct {
	catalog     CatalogProvider
	detector    *detect.Detector
	fetcher     *fetch.Fetcher
	cache       *fetch.Cache
	weights     score.Weights
	earlyExit   map[prompt.Category]struct{}
	maxRules    int
	maxTokens   int
	latencyWarn time.Duration
	autoLoad    bool
	tracer      trace.Tracer
}

// EngineOpt configures an [Engine].
type EngineOpt func(*Engine)

// WithDetector replaces the default context detector.
func WithDetector(d *detect.Detector) EngineOpt {
	return func(e *Engine) { e.detector = d }
}

// WithWeights replaces the default scoring weights.
func WithWeights(w score.Weights) EngineOpt {
	return func(e *Engine) { e.weights = w }
}

// WithBudget sets the rule count and token budget.
func WithBudget(maxRules, maxTokens int) EngineOpt {
	return func(e *Engine) {
		e.maxRules = maxRules
		e.maxTokens = maxTokens
	}
}

// WithEarlyExitCategories replaces the categories that skip rule loading.
func WithEarlyExitCategories(categories ...prompt.Category) EngineOpt {
	return func(e *Engine) {
		e.earlyExit = make(map[prompt.Category]struct{}, len(categories))
		for _, c := range categories {
			e.earlyExit[c] = struct{}{}
		}
	}
}

// WithLatencyWarn sets the duration above which a run logs a warning.
func WithLatencyWarn(d time.Duration) EngineOpt {
	return func(e *Engine) { e.latencyWarn = d }
}

// WithCacheStats lets the engine log cache effectiveness after each run.
func WithCacheStats(c *fetch.Cache) EngineOpt {
	return func(e *Engine) { e.cache = c }
}

// WithAutoLoad toggles the pipeline; when disabled every run yields an
// empty result immediately.
func WithAutoLoad(enabled bool) EngineOpt {
	return func(e *Engine) { e.autoLoad = enabled }
}

// New creates an engine over the given catalog and fetcher.
func New(catalog CatalogProvider, fetcher *fetch.Fetcher, opts ...EngineOpt) *Engine {
	e := &Engine{
		catalog:     catalog,
		detector:    detect.MustNew(),
		fetcher:     fetcher,
		weights:     score.DefaultWeights(),
		maxRules:    5,
		maxTokens:   5000,
		latencyWarn: 500 * time.Millisecond,
		autoLoad:    true,
		tracer:      otel.Tracer("engine"),
	}

	WithEarlyExitCategories(
		prompt.CategoryLegalBusiness,
		prompt.CategoryGeneralQuestion,
		prompt.CategoryUnclear,
	)(e)

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// FromConfig wires an engine, its store, cache, and catalog from a loaded
// configuration. The returned holder is non-nil so callers can start an
// index watch when the configuration asks for one.
func FromConfig(cfg *config.Config) (*Engine, *rule.Holder, error) {
	holder, err := rule.NewHolder(cfg.Rules.Index)
	if err != nil {
		return nil, nil, err
	}

	var store fetch.Store

	switch cfg.Rules.Source {
	case "http":
		store, err = fetch.NewHTTPStore(cfg.Rules.BaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("create http store: %w", err)
		}

	default:
		store, err = fetch.NewFileStore(cfg.Rules.Repo)
		if err != nil {
			return nil, nil, fmt.Errorf("create file store: %w", err)
		}
	}

	fetchOpts := []fetch.FetcherOpt{}

	var cache *fetch.Cache

	if *cfg.Cache.Enabled {
		cache = fetch.NewCache(cfg.Cache.MaxEntries, cfg.Cache.TTL())
		fetchOpts = append(fetchOpts, fetch.WithCache(cache))
	}

	earlyExit := make([]prompt.Category, len(cfg.Classifier.EarlyExitCategories))
	for i, c := range cfg.Classifier.EarlyExitCategories {
		earlyExit[i] = prompt.Category(c)
	}

	detector, err := DetectorFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	e := New(holder, fetch.NewFetcher(store, fetchOpts...),
		WithDetector(detector),
		WithWeights(*cfg.Selection.Weights),
		WithBudget(cfg.Selection.MaxRules, cfg.Selection.MaxTokens),
		WithEarlyExitCategories(earlyExit...),
		WithLatencyWarn(cfg.Engine.LatencyWarn()),
		WithAutoLoad(*cfg.Engine.EnableAutoLoad),
	)
	if cache != nil {
		WithCacheStats(cache)(e)
	}

	return e, holder, nil
}

// DetectorFromConfig builds a context detector with any custom marker rules
// and depth limit from the configuration.
func DetectorFromConfig(cfg *config.Config) (*detect.Detector, error) {
	detector, err := detect.New(
		detect.WithExtraMarkerRules(cfg.Detection.Rules),
		detect.WithMaxDepth(cfg.Detection.MaxDepth),
	)
	if err != nil {
		return nil, fmt.Errorf("create detector: %w", err)
	}

	return detector, nil
}

// Run executes the pipeline for one request. It never returns an error: any
// stage failure or panic degrades to an empty injection with a reason.
func (e *Engine) Run(ctx context.Context, requestText, workingDir string) (result *Result) {
	start := time.Now()

	result = &Result{
		Metadata: Metadata{
			RulePaths: []string{},
			Timing:    make(map[string]time.Duration),
		},
	}

	defer func() {
		if r := recover(); r != nil {
			result.Injected = ""
			result.Metadata.Degraded = true
			result.Metadata.Reason = fmt.Sprintf("panic: %v", r)
		}

		e.finish(ctx, result, time.Since(start))
	}()

	if !e.autoLoad {
		result.Metadata.Reason = "auto-load disabled"

		return result
	}

	ctx, span := e.tracer.Start(ctx, "run")
	defer span.End()

	result.Metadata.Context = timedStage(e, ctx, result, "detect", func(ctx context.Context) *detect.Context {
		return e.detector.Detect(workingDir)
	})

	result.Metadata.Category = timedStage(e, ctx, result, "classify", func(_ context.Context) prompt.Category {
		return prompt.Classify(requestText)
	})
	span.SetAttributes(attribute.String("category", string(result.Metadata.Category)))

	if _, skip := e.earlyExit[result.Metadata.Category]; skip {
		result.Metadata.Reason = fmt.Sprintf("category %s skips rule loading", result.Metadata.Category)

		return result
	}

	result.Metadata.Intent = timedStage(e, ctx, result, "intent", func(_ context.Context) prompt.Intent {
		return prompt.ExtractIntent(requestText)
	})

	selection := timedStage(e, ctx, result, "select", func(_ context.Context) score.Selection {
		return score.Select(e.catalog.Catalog().Rules(), score.Request{
			Context:   result.Metadata.Context,
			Category:  result.Metadata.Category,
			Intent:    result.Metadata.Intent,
			MaxTokens: e.maxTokens,
			MaxRules:  e.maxRules,
		}, e.weights)
	})

	if len(selection.Rules) == 0 {
		result.Metadata.Reason = "no rules passed selection"

		return result
	}

	selected := make([]rule.RuleInfo, len(selection.Rules))
	for i, sr := range selection.Rules {
		selected[i] = sr.Rule
	}

	results := timedStage(e, ctx, result, "fetch", func(ctx context.Context) []fetch.Result {
		return e.fetcher.FetchAll(ctx, selected)
	})

	loaded := make([]fetch.Result, 0, len(results))

	for _, res := range results {
		if res.Status == fetch.StatusFailed {
			continue
		}

		loaded = append(loaded, res)
		result.Metadata.RulePaths = append(result.Metadata.RulePaths, res.Rule.Path)
		result.Metadata.TotalTokens += res.Rule.EstimatedTokens
	}

	result.Metadata.RulesLoaded = len(loaded)

	if len(loaded) == 0 {
		result.Metadata.Reason = "all rule fetches failed"

		return result
	}

	result.Injected = timedStage(e, ctx, result, "format", func(_ context.Context) string {
		return formatInjected(result.Metadata.Context, loaded, result.Metadata.TotalTokens)
	})

	return result
}

// timed runs one stage under a span and records its duration.
func timedStage[T any](e *Engine, ctx context.Context, result *Result, stage string, fn func(context.Context) T) T {
	ctx, span := e.tracer.Start(ctx, stage)
	defer span.End()

	start := time.Now()
	out := fn(ctx)
	result.Metadata.Timing[stage] = time.Since(start)

	return out
}

func (e *Engine) finish(ctx context.Context, result *Result, elapsed time.Duration) {
	logger := log.WithContext(ctx)

	if elapsed > e.latencyWarn {
		logger.Warn("rule selection exceeded latency threshold",
			"elapsed", elapsed,
			"threshold", e.latencyWarn,
		)
	}

	attrs := []any{
		"category", string(result.Metadata.Category),
		"rulesLoaded", result.Metadata.RulesLoaded,
		"totalTokens", result.Metadata.TotalTokens,
		"elapsed", elapsed,
	}

	if e.cache != nil {
		stats := e.cache.Stats()
		attrs = append(attrs, "cacheHitRate", stats.HitRate)
	}

	if result.Metadata.Degraded {
		attrs = append(attrs, "reason", result.Metadata.Reason)
		logger.Warn("rule selection degraded", attrs...)

		return
	}

	logger.Debug("rule selection complete", attrs...)
}
