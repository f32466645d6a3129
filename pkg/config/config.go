package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/rulectx/rulectx/pkg/detect"
	"github.com/rulectx/rulectx/pkg/prompt"
	"github.com/rulectx/rulectx/pkg/score"
	"github.com/rulectx/rulectx/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/main.go -o config.v1alpha1.json

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed config.v1alpha1.json
	schemaJSON []byte

	ValidAPIVersions = []string{
		"rulectx.dev/v1alpha1",
	}
	ValidKinds = []string{
		"Configuration",
	}

	DefaultValidator = yaml.MustNewValidator("/config.v1alpha1.json", schemaJSON)
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	Rules      *RulesConfig      `json:"rules,omitempty"      jsonschema:"title=Rules"`
	Selection  *SelectionConfig  `json:"selection,omitempty"  jsonschema:"title=Selection"`
	Cache      *CacheConfig      `json:"cache,omitempty"      jsonschema:"title=Cache"`
	Classifier *ClassifierConfig `json:"classifier,omitempty" jsonschema:"title=Classifier"`
	Detection  *DetectionConfig  `json:"detection,omitempty"  jsonschema:"title=Detection"`
	Engine     *EngineConfig     `json:"engine,omitempty"     jsonschema:"title=Engine"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// RulesConfig locates the rule index and the document store behind it.
type RulesConfig struct {
	// Source selects the document store backend.
	Source string `json:"source,omitempty" jsonschema:"title=Source,enum=file,enum=http,default=file"`
	// Repo is the store root: a directory for the file source, or an
	// owner/name slug or full base URL for the http source.
	Repo string `json:"repo,omitempty" jsonschema:"title=Repository"`
	// Branch is the ref fetched from for the http source.
	Branch string `json:"branch,omitempty" jsonschema:"title=Branch"`
	// Index is the path of the rule index document.
	Index string `json:"index,omitempty" jsonschema:"title=Index Path"`
	// Watch reloads the catalog when the index file changes.
	Watch bool `json:"watch,omitempty" jsonschema:"title=Watch Index"`
}

// BaseURL resolves the http source's document base URL. An owner/name slug
// is resolved against raw.githubusercontent.com; anything else is treated as
// a base URL and gets the branch appended.
func (r *RulesConfig) BaseURL() string {
	repo := strings.TrimSuffix(r.Repo, "/")
	if strings.Contains(repo, "://") {
		return repo + "/" + r.Branch
	}

	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s", repo, r.Branch)
}

// SelectionConfig bounds and tunes rule selection.
type SelectionConfig struct {
	Weights *score.Weights `json:"weights,omitempty" jsonschema:"title=Weights"`
	// MaxRules caps the number of selected rules.
	MaxRules int `json:"maxRules,omitempty" jsonschema:"title=Max Rules,minimum=0"`
	// MaxTokens is the total token budget for injected content.
	MaxTokens int `json:"maxTokens,omitempty" jsonschema:"title=Max Tokens,minimum=0"`
}

// CacheConfig tunes the document cache.
type CacheConfig struct {
	// Enabled turns the cache on. Defaults to true.
	Enabled *bool `json:"enabled,omitempty" jsonschema:"title=Enabled"`
	// TTLSeconds is how long a cached document stays fresh.
	TTLSeconds int `json:"ttlSeconds,omitempty" jsonschema:"title=TTL Seconds,minimum=1"`
	// MaxEntries bounds the number of cached documents.
	MaxEntries int `json:"maxEntries,omitempty" jsonschema:"title=Max Entries,minimum=1"`
}

// TTL returns the configured freshness window.
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ClassifierConfig tunes prompt classification behavior.
type ClassifierConfig struct {
	// EarlyExitCategories skip selection and fetch entirely.
	EarlyExitCategories []string `json:"earlyExitCategories,omitempty" jsonschema:"title=Early Exit Categories"`
}

// DetectionConfig tunes project context detection.
type DetectionConfig struct {
	// MaxDepth bounds the directory walk.
	MaxDepth int `json:"maxDepth,omitempty" jsonschema:"title=Max Depth,minimum=1"`
	// Rules adds custom language marker rules on top of the built-ins.
	Rules []*detect.MarkerRule `json:"rules,omitempty" jsonschema:"title=Marker Rules"`
}

// EngineConfig tunes the selection pipeline itself.
type EngineConfig struct {
	// EnableAutoLoad runs the pipeline on incoming prompts. Defaults to true.
	EnableAutoLoad *bool `json:"enableAutoLoad,omitempty" jsonschema:"title=Enable Auto Load"`
	// LatencyWarnMillis logs a warning when a run exceeds this duration.
	LatencyWarnMillis int `json:"latencyWarnMillis,omitempty" jsonschema:"title=Latency Warn Millis,minimum=1"`
}

// LatencyWarn returns the configured warning threshold.
func (e *EngineConfig) LatencyWarn() time.Duration {
	return time.Duration(e.LatencyWarnMillis) * time.Millisecond
}

func NewConfig() *Config {
	c := &Config{
		APIVersion: "rulectx.dev/v1alpha1",
		Kind:       "Configuration",
	}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.Rules == nil {
		c.Rules = &RulesConfig{}
	}

	if c.Rules.Source == "" {
		c.Rules.Source = "file"
	}

	if c.Rules.Repo == "" {
		c.Rules.Repo = "./rules"
	}

	if c.Rules.Branch == "" {
		c.Rules.Branch = "main"
	}

	if c.Rules.Index == "" {
		c.Rules.Index = "./rules/index.yaml"
	}

	if c.Selection == nil {
		c.Selection = &SelectionConfig{}
	}

	if c.Selection.MaxRules == 0 {
		c.Selection.MaxRules = 5
	}

	if c.Selection.MaxTokens == 0 {
		c.Selection.MaxTokens = 5000
	}

	if c.Selection.Weights == nil {
		w := score.DefaultWeights()
		c.Selection.Weights = &w
	}

	if c.Cache == nil {
		c.Cache = &CacheConfig{}
	}

	if c.Cache.Enabled == nil {
		enabled := true
		c.Cache.Enabled = &enabled
	}

	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}

	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 256
	}

	if c.Classifier == nil {
		c.Classifier = &ClassifierConfig{}
	}

	if c.Classifier.EarlyExitCategories == nil {
		c.Classifier.EarlyExitCategories = []string{
			string(prompt.CategoryLegalBusiness),
			string(prompt.CategoryGeneralQuestion),
			string(prompt.CategoryUnclear),
		}
	}

	if c.Detection == nil {
		c.Detection = &DetectionConfig{}
	}

	if c.Detection.MaxDepth == 0 {
		c.Detection.MaxDepth = 10
	}

	if c.Engine == nil {
		c.Engine = &EngineConfig{}
	}

	if c.Engine.EnableAutoLoad == nil {
		enabled := true
		c.Engine.EnableAutoLoad = &enabled
	}

	if c.Engine.LatencyWarnMillis == 0 {
		c.Engine.LatencyWarnMillis = 500
	}
}

// Validate covers the requirements the JSON schema cannot express.
func (c *Config) Validate() error {
	switch c.Rules.Source {
	case "file":
		if c.Rules.Repo == "" {
			return fmt.Errorf("rules.repo: %w", ErrEmptyRepo)
		}

	case "http":
		base := c.Rules.BaseURL()
		if _, err := url.ParseRequestURI(base); err != nil {
			return fmt.Errorf("rules.repo %q: %w", base, err)
		}

	default:
		return fmt.Errorf("rules.source %q: %w", c.Rules.Source, ErrUnknownSource)
	}

	if c.Selection.MaxRules < 0 || c.Selection.MaxTokens < 0 {
		return ErrNegativeBudget
	}

	validCategories := make([]string, len(prompt.AllCategories))
	for i, cat := range prompt.AllCategories {
		validCategories[i] = string(cat)
	}

	for _, cat := range c.Classifier.EarlyExitCategories {
		if !slices.Contains(validCategories, cat) {
			return fmt.Errorf("classifier.earlyExitCategories %q: %w", cat, ErrUnknownCategory)
		}
	}

	for _, mr := range c.Detection.Rules {
		if err := mr.CompileMatch(); err != nil {
			return fmt.Errorf("detection.rules[%s]: %w", mr.Language, err)
		}
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range ValidAPIVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range ValidKinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)
}

func (c *Config) MarshalYAML() ([]byte, error) {
	b := &bytes.Buffer{}
	enc := yaml.NewEncoder(b)

	err := enc.Encode(*c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b.Bytes(), nil
}

// WriteDefaultConfig writes the embedded default config.yaml and jsonschema
// to the specified path.
func WriteDefaultConfig(path string, force bool) error {
	configExists := false

	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			configExists = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing config file",
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	if !configExists {
		slog.Info("write default configuration",
			slog.String("path", path),
		)

		err = os.WriteFile(path, defaultConfigYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	} else {
		slog.Debug("configuration file already exists, skipping write",
			slog.String("path", path),
		)
	}

	schemaPath := filepath.Join(filepath.Dir(path), "config.v1alpha1.json")
	slog.Debug("write JSON schema",
		slog.String("path", schemaPath),
	)

	err = os.WriteFile(schemaPath, schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "rulectx", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "rulectx", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "rulectx", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}
