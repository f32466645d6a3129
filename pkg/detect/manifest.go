package detect

import (
	"regexp"
	"strings"

	"github.com/rulectx/rulectx/pkg/yaml"
)

// manifestSpec describes one dependency manifest: which language it belongs
// to, the file base name that identifies it, and how to extract dependency
// tokens from its content. Parsing is only attempted for languages that were
// already detected, so an unrelated manifest never produces false positives.
type manifestSpec struct {
	Parse    func(content []byte) ([]string, error)
	Language string
	File     string

	// Substring marks line-based fallbacks whose tokens are matched by
	// substring rather than exact dependency name.
	Substring bool
}

var manifestSpecs = []manifestSpec{
	{Language: "python", File: "requirements.txt", Parse: parseRequirementsTxt},
	{Language: "python", File: "pyproject.toml", Parse: parseDependencyLines, Substring: true},
	{Language: "javascript", File: "package.json", Parse: parsePackageJSON},
	{Language: "typescript", File: "package.json", Parse: parsePackageJSON},
	{Language: "go", File: "go.mod", Parse: parseGoMod, Substring: true},
	{Language: "ruby", File: "Gemfile", Parse: parseGemfile},
	{Language: "java", File: "pom.xml", Parse: parseDependencyLines, Substring: true},
	{Language: "java", File: "build.gradle", Parse: parseDependencyLines, Substring: true},
}

// parseRequirementsTxt extracts package names from pip requirement lines.
// Version specifiers, extras, and environment markers are stripped.
func parseRequirementsTxt(content []byte) ([]string, error) {
	var deps []string

	for line := range strings.Lines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}

		name := line
		if idx := strings.IndexAny(name, "=<>!~[; "); idx >= 0 {
			name = name[:idx]
		}

		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			deps = append(deps, name)
		}
	}

	return deps, nil
}

type packageJSON struct {
	Dependencies    map[string]string `yaml:"dependencies"`
	DevDependencies map[string]string `yaml:"devDependencies"`
	Version         string            `yaml:"version"`
}

// parsePackageJSON extracts dependency names from package.json.
// JSON is parsed with the YAML decoder, since YAML is a superset.
func parsePackageJSON(content []byte) ([]string, error) {
	var pkg packageJSON

	err := yaml.Unmarshal(content, &pkg)
	if err != nil {
		return nil, err
	}

	deps := make([]string, 0, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name := range pkg.Dependencies {
		deps = append(deps, strings.ToLower(name))
	}
	for name := range pkg.DevDependencies {
		deps = append(deps, strings.ToLower(name))
	}

	return deps, nil
}

var goModRequireRe = regexp.MustCompile(`(?m)^\s*(?:require\s+)?([\w.\-/]+\.[\w.\-/]+)\s+v[\w.\-+]+`)

// parseGoMod extracts required module paths from a go.mod file.
func parseGoMod(content []byte) ([]string, error) {
	var deps []string

	for _, m := range goModRequireRe.FindAllStringSubmatch(string(content), -1) {
		deps = append(deps, strings.ToLower(m[1]))
	}

	return deps, nil
}

var gemfileRe = regexp.MustCompile(`(?m)^\s*gem\s+['"]([\w\-]+)['"]`)

// parseGemfile extracts gem names from a Gemfile.
func parseGemfile(content []byte) ([]string, error) {
	var deps []string

	for _, m := range gemfileRe.FindAllStringSubmatch(string(content), -1) {
		deps = append(deps, strings.ToLower(m[1]))
	}

	return deps, nil
}

// parseDependencyLines is the permissive fallback for formats without a
// parser in the stack (TOML, XML, Gradle). It returns lowercased lines so
// framework and cloud tokens can be matched by substring.
func parseDependencyLines(content []byte) ([]string, error) {
	var deps []string

	for line := range strings.Lines(string(content)) {
		line = strings.ToLower(strings.TrimSpace(line))
		if line != "" {
			deps = append(deps, line)
		}
	}

	return deps, nil
}

// matchFrameworks resolves dependency tokens against the per-language
// framework index. Exact manifests match on the full dependency name;
// line-based fallbacks match by substring.
func matchFrameworks(language string, deps []string, substring bool) []string {
	index, ok := frameworkDeps[language]
	if !ok {
		return nil
	}

	var found []string

	for _, dep := range deps {
		for token, framework := range index {
			if dep == token || (substring && strings.Contains(dep, token)) {
				found = append(found, framework)
			}
		}
	}

	return found
}

// matchCloudDeps resolves dependency tokens against cloud provider
// substrings.
func matchCloudDeps(deps []string) []string {
	var found []string

	for _, dep := range deps {
		for token, provider := range cloudDepSubstrings {
			if strings.Contains(dep, token) {
				found = append(found, provider)
			}
		}
	}

	return found
}
