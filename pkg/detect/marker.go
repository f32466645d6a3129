package detect

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/rulectx/rulectx/pkg/expr"
)

// MarkerRule maps a CEL match expression to a language. Expressions are
// evaluated against:
//   - `files` (list<string>): relative paths of all files in the directory
//   - `dir` (string): the directory path being inspected
//
// and must return a boolean. Examples:
//   - files.exists(f, pathBase(f) == "go.mod")
//   - files.exists(f, pathExt(f) == ".py") || files.exists(f, pathBase(f) == "requirements.txt")
//   - files.exists(f, glob("**/*.csproj", f))
//
// The helper functions pathBase, pathDir, pathExt, glob, and yamlPath are
// available, along with the CEL strings and lists extensions.
type MarkerRule struct {
	matchProgram cel.Program

	// Language is the language this rule detects.
	Language string `json:"language" jsonschema:"title=Language"`
	// Match is a CEL expression over the directory's file list.
	Match string `json:"match" jsonschema:"title=Match Expression"`
}

// NewMarkerRule creates a new rule with the given language and match expression.
func NewMarkerRule(language, match string) (*MarkerRule, error) {
	r := &MarkerRule{
		Language: language,
		Match:    match,
	}
	if err := r.CompileMatch(); err != nil {
		return nil, fmt.Errorf("marker rule %q: %w", match, err)
	}

	return r, nil
}

// MustNewMarkerRule creates a new rule and panics if there's an error.
func MustNewMarkerRule(language, match string) *MarkerRule {
	r, err := NewMarkerRule(language, match)
	if err != nil {
		panic(err)
	}

	return r
}

// CompileMatch compiles the rule's match expression into a CEL program.
func (r *MarkerRule) CompileMatch() error {
	if r.matchProgram == nil {
		env, err := expr.CreateEnvironment()
		if err != nil {
			return fmt.Errorf("create CEL environment: %w", err)
		}

		program, err := env.Compile(r.Match)
		if err != nil {
			return fmt.Errorf("compile match expression: %w", err)
		}

		r.matchProgram = program
	}

	return nil
}

// MatchFiles evaluates the rule against the collection of files in a
// directory. Evaluation failures are treated as non-matches so one bad rule
// never aborts detection.
func (r *MarkerRule) MatchFiles(dirPath string, files []string) bool {
	if r.matchProgram == nil {
		panic(errors.New("marker rule missing a match expression"))
	}

	result, _, err := r.matchProgram.Eval(map[string]any{
		"files": files,
		"dir":   dirPath,
	})
	if err != nil {
		return false
	}

	if boolVal, ok := result.Value().(bool); ok {
		return boolVal
	}

	return false
}
