package detect

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const defaultMaxDepth = 10

// Detector scans a project directory and builds a [Context]. It is safe for
// concurrent use once constructed; all state is read-only after New.
type Detector struct {
	rules    []*MarkerRule
	maxDepth int
}

type Option func(d *Detector) error

// WithMarkerRules replaces the built-in language marker rules.
func WithMarkerRules(rules []*MarkerRule) Option {
	return func(d *Detector) error {
		for _, r := range rules {
			if err := r.CompileMatch(); err != nil {
				return err
			}
		}

		d.rules = rules

		return nil
	}
}

// WithExtraMarkerRules prepends custom rules to the built-in list, so custom
// markers win when both would detect the same language.
func WithExtraMarkerRules(rules []*MarkerRule) Option {
	return func(d *Detector) error {
		for _, r := range rules {
			if err := r.CompileMatch(); err != nil {
				return err
			}
		}

		d.rules = append(slices.Clone(rules), d.rules...)

		return nil
	}
}

// WithMaxDepth bounds directory traversal. Zero means no limit.
func WithMaxDepth(depth int) Option {
	return func(d *Detector) error {
		d.maxDepth = depth

		return nil
	}
}

// New creates a [Detector] with the built-in marker rules.
func New(opts ...Option) (*Detector, error) {
	d := &Detector{
		rules:    DefaultMarkerRules,
		maxDepth: defaultMaxDepth,
	}

	for _, opt := range opts {
		err := opt(d)
		if err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	return d, nil
}

// MustNew creates a [Detector] and panics if an option fails. The built-in
// rules always compile, so this is safe without custom options.
func MustNew(opts ...Option) *Detector {
	d, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return d
}

// Detect inspects the directory and returns its technology profile.
// It never fails: an unreadable or empty directory yields an empty profile.
func (d *Detector) Detect(dir string) *Context {
	pc := NewContext()

	files := d.collectFiles(dir)
	if len(files) == 0 {
		return pc
	}

	d.detectLanguages(pc, dir, files)
	resolveLanguageOverlap(pc, files)

	deps := d.detectFrameworks(pc, dir, files)
	d.detectCloudProviders(pc, files, deps)

	pc.Maturity = detectMaturity(dir, files)
	pc.Confidence = confidence(pc)

	slices.Sort(pc.Languages)
	slices.Sort(pc.Frameworks)
	slices.Sort(pc.CloudProviders)

	return pc
}

// collectFiles walks the directory and returns relative, slash-separated
// file paths. Well-known dependency and VCS directories are skipped.
func (d *Detector) collectFiles(dir string) []string {
	var files []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("skip unreadable path",
				slog.String("path", path),
				slog.Any("error", err),
			)

			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}

		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if _, skip := skipDirs[entry.Name()]; skip {
				return fs.SkipDir
			}
			if d.maxDepth > 0 && strings.Count(rel, "/") >= d.maxDepth {
				return fs.SkipDir
			}

			return nil
		}

		files = append(files, rel)

		return nil
	})
	if err != nil {
		slog.Debug("walk directory",
			slog.String("dir", dir),
			slog.Any("error", err),
		)
	}

	return files
}

func (d *Detector) detectLanguages(pc *Context, dir string, files []string) {
	for _, r := range d.rules {
		if pc.HasLanguage(r.Language) {
			continue // First matching rule wins per language.
		}

		if r.MatchFiles(dir, files) {
			pc.addLanguage(r.Language)
		}
	}
}

// resolveLanguageOverlap drops a subset language when its superset was also
// detected and the superset's unambiguous marker file is present.
func resolveLanguageOverlap(pc *Context, files []string) {
	for _, o := range languageOverlap {
		if !pc.HasLanguage(o.Superset) || !pc.HasLanguage(o.Subset) {
			continue
		}

		if !slices.ContainsFunc(files, func(f string) bool {
			return filepath.Base(f) == o.Marker
		}) {
			continue
		}

		pc.Languages = slices.DeleteFunc(pc.Languages, func(l string) bool {
			return l == o.Subset
		})
	}
}

// detectFrameworks parses dependency manifests for detected languages only.
// It returns every parsed dependency token for reuse by cloud detection.
// A malformed manifest is logged and skipped; it never aborts detection.
func (d *Detector) detectFrameworks(pc *Context, dir string, files []string) []string {
	var allDeps []string

	for _, spec := range manifestSpecs {
		if !pc.HasLanguage(spec.Language) {
			continue
		}

		for _, f := range files {
			if filepath.Base(f) != spec.File {
				continue
			}

			content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(f))) //nolint:gosec // G304
			if err != nil {
				slog.Warn("read manifest",
					slog.String("file", f),
					slog.Any("error", err),
				)

				continue
			}

			deps, err := spec.Parse(content)
			if err != nil {
				slog.Warn("parse manifest",
					slog.String("file", f),
					slog.Any("error", err),
				)

				continue
			}

			allDeps = append(allDeps, deps...)

			for _, fw := range matchFrameworks(spec.Language, deps, spec.Substring) {
				pc.addFramework(fw)
			}
		}
	}

	return allDeps
}

func (d *Detector) detectCloudProviders(pc *Context, files, deps []string) {
	for _, marker := range cloudFileMarkers {
		for _, f := range files {
			matched, err := doublestar.Match(marker.Pattern, f)
			if err != nil {
				continue
			}

			if matched {
				pc.addCloudProvider(marker.Provider)

				break
			}
		}
	}

	for _, provider := range matchCloudDeps(deps) {
		pc.addCloudProvider(provider)
	}
}

// confidence is a bounded additive heuristic: language evidence contributes
// most, then frameworks, then cloud, then maturity evidence. It is
// informational only and monotonic; adding evidence never lowers it.
func confidence(pc *Context) float64 {
	score := 0.0

	score += min(0.2*float64(len(pc.Languages)), 0.4)
	score += min(0.15*float64(len(pc.Frameworks)), 0.3)
	score += min(0.1*float64(len(pc.CloudProviders)), 0.2)

	if pc.Maturity != MaturityMVP {
		score += 0.1
	}

	return min(score, 1.0)
}
