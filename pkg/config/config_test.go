package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulectx/rulectx/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	c := config.NewConfig()

	assert.Equal(t, "rulectx.dev/v1alpha1", c.APIVersion)
	assert.Equal(t, "Configuration", c.Kind)
	assert.Equal(t, "file", c.Rules.Source)
	assert.Equal(t, 5, c.Selection.MaxRules)
	assert.Equal(t, 5000, c.Selection.MaxTokens)
	require.NotNil(t, c.Cache.Enabled)
	assert.True(t, *c.Cache.Enabled)
	assert.Equal(t, 300, c.Cache.TTLSeconds)
	assert.Equal(t, 500, c.Engine.LatencyWarnMillis)
	assert.NotEmpty(t, c.Classifier.EarlyExitCategories)
	require.NoError(t, c.Validate())
}

func TestConfigLoader_Load(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		wantErr error
		check   func(t *testing.T, c *config.Config)
	}{
		"minimal document gets defaults": {
			input: `
apiVersion: rulectx.dev/v1alpha1
kind: Configuration
`,
			check: func(t *testing.T, c *config.Config) {
				t.Helper()
				assert.Equal(t, 5000, c.Selection.MaxTokens)
				assert.Equal(t, "./rules/index.yaml", c.Rules.Index)
			},
		},
		"explicit values win": {
			input: `
apiVersion: rulectx.dev/v1alpha1
kind: Configuration
selection:
  maxRules: 3
  maxTokens: 2000
  weights:
    language: 20
cache:
  enabled: false
`,
			check: func(t *testing.T, c *config.Config) {
				t.Helper()
				assert.Equal(t, 3, c.Selection.MaxRules)
				assert.Equal(t, 2000, c.Selection.MaxTokens)
				assert.Equal(t, 20, c.Selection.Weights.Language)
				assert.False(t, *c.Cache.Enabled)
			},
		},
		"http source": {
			input: `
apiVersion: rulectx.dev/v1alpha1
kind: Configuration
rules:
  source: http
  repo: acme/rules
  branch: main
`,
			check: func(t *testing.T, c *config.Config) {
				t.Helper()
				assert.Equal(t,
					"https://raw.githubusercontent.com/acme/rules/main",
					c.Rules.BaseURL(),
				)
			},
		},
		"unknown source": {
			input: `
apiVersion: rulectx.dev/v1alpha1
kind: Configuration
rules:
  source: ftp
`,
			wantErr: config.ErrUnknownSource,
		},
		"unknown early-exit category": {
			input: `
apiVersion: rulectx.dev/v1alpha1
kind: Configuration
classifier:
  earlyExitCategories: [nonsense]
`,
			wantErr: config.ErrUnknownCategory,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cl := config.NewConfigLoaderFromBytes([]byte(tc.input))

			c, err := cl.Load()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}

func TestConfigLoader_Load_BadMarkerRule(t *testing.T) {
	t.Parallel()

	cl := config.NewConfigLoaderFromBytes([]byte(`
apiVersion: rulectx.dev/v1alpha1
kind: Configuration
detection:
  rules:
    - language: zig
      match: "files.exists(f, pathBase(f"
`))

	_, err := cl.Load()
	require.ErrorContains(t, err, "detection.rules[zig]")
}

func TestConfigLoader_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		wantErr bool
	}{
		"valid": {
			input: `
apiVersion: rulectx.dev/v1alpha1
kind: Configuration
selection:
  maxTokens: 5000
`,
		},
		"wrong apiVersion": {
			input: `
apiVersion: rulectx.dev/v9
kind: Configuration
`,
			wantErr: true,
		},
		"wrong kind": {
			input: `
apiVersion: rulectx.dev/v1alpha1
kind: Rules
`,
			wantErr: true,
		},
		"unknown top-level key": {
			input: `
apiVersion: rulectx.dev/v1alpha1
kind: Configuration
bogus: true
`,
			wantErr: true,
		},
		"negative budget": {
			input: `
apiVersion: rulectx.dev/v1alpha1
kind: Configuration
selection:
  maxTokens: -1
`,
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cl := config.NewConfigLoaderFromBytes([]byte(tc.input))

			err := cl.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	require.NoError(t, config.WriteDefaultConfig(path, false))

	cl, err := config.NewConfigLoaderFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cl.Validate())

	c, err := cl.Load()
	require.NoError(t, err)
	assert.Equal(t, "rulectx.dev/v1alpha1", c.APIVersion)

	// Schema is written alongside.
	_, err = os.Stat(filepath.Join(dir, "nested", "config.v1alpha1.json"))
	require.NoError(t, err)

	t.Run("does not overwrite without force", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("# custom\napiVersion: rulectx.dev/v1alpha1\nkind: Configuration\n"), 0o600))
		require.NoError(t, config.WriteDefaultConfig(path, false))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# custom")
	})
}

func TestGetPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	assert.Equal(t, filepath.Join("/custom/config", "rulectx", "config.yaml"), config.GetPath())
}
