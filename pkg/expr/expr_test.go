package expr_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulectx/rulectx/pkg/expr"
)

func TestCELFilepathFunctions(t *testing.T) {
	t.Parallel()

	env, err := expr.CreateEnvironment()
	require.NoError(t, err)

	tcs := map[string]struct {
		expression string
		files      []string
		expected   bool
	}{
		"pathBase with in operator": {
			expression: `files.exists(f, pathBase(f) in ["go.mod", "go.sum"])`,
			files: []string{
				"cmd/app/main.go",
				"go.mod",
				"go.sum",
			},
			expected: true,
		},
		"pathExt match": {
			expression: `files.exists(f, pathExt(f) in [".ts", ".tsx"])`,
			files: []string{
				"src/app.tsx",
				"src/index.html",
			},
			expected: true,
		},
		"pathDir match": {
			expression: `files.exists(f, pathDir(f).endsWith("tests"))`,
			files: []string{
				"pkg/tests/unit.py",
				"main.py",
			},
			expected: true,
		},
		"glob match": {
			expression: `files.exists(f, glob("**/*.csproj", f))`,
			files: []string{
				"src/App/App.csproj",
				"README.md",
			},
			expected: true,
		},
		"glob at root": {
			expression: `files.exists(f, glob("**/*.csproj", f))`,
			files: []string{
				"App.csproj",
			},
			expected: true,
		},
		"no matches": {
			expression: `files.exists(f, pathBase(f) == "Cargo.toml")`,
			files: []string{
				"go.mod",
				"main.go",
			},
			expected: false,
		},
		"combined functions": {
			expression: `files.exists(f, pathExt(f) == ".py" && !pathBase(f).startsWith("test_"))`,
			files: []string{
				"test_app.py",
				"app.py",
			},
			expected: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tc.expression)
			require.NoError(t, err)

			result, _, err := program.Eval(map[string]any{
				"files": tc.files,
				"dir":   ".",
			})
			require.NoError(t, err)

			boolResult, ok := result.Value().(bool)
			require.True(t, ok, "result should be a boolean")
			assert.Equal(t, tc.expected, boolResult)
		})
	}
}

func TestCELYamlPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pkgJSON := filepath.Join(dir, "package.json")

	err := os.WriteFile(pkgJSON, []byte(`{"dependencies": {"react": "^18.0.0"}}`), 0o600)
	require.NoError(t, err)

	env, err := expr.CreateEnvironment()
	require.NoError(t, err)

	tcs := map[string]struct {
		expression string
		expected   bool
	}{
		"existing key": {
			expression: `yamlPath("` + filepath.ToSlash(pkgJSON) + `", "$.dependencies.react") != null`,
			expected:   true,
		},
		"missing key": {
			expression: `yamlPath("` + filepath.ToSlash(pkgJSON) + `", "$.dependencies.vue") != null`,
			expected:   false,
		},
		"missing file": {
			expression: `yamlPath("` + filepath.ToSlash(filepath.Join(dir, "nope.json")) + `", "$.dependencies") != null`,
			expected:   false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tc.expression)
			require.NoError(t, err)

			result, _, err := program.Eval(map[string]any{
				"files": []string{},
				"dir":   dir,
			})
			require.NoError(t, err)

			boolResult, ok := result.Value().(bool)
			require.True(t, ok, "result should be a boolean")
			assert.Equal(t, tc.expected, boolResult)
		})
	}
}

func TestEnvironment_CompileError(t *testing.T) {
	t.Parallel()

	env, err := expr.CreateEnvironment()
	require.NoError(t, err)

	_, err = env.Compile(`files.exists(`)
	require.Error(t, err)
}
