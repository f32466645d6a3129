package detect

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rulectx/rulectx/pkg/yaml"
)

// maturityEvidence is the input to the maturity decision table.
type maturityEvidence struct {
	stableVersion bool
	hasCI         bool
	hasDocker     bool
	hasTests      bool
	hasMonitoring bool
}

var (
	ciMarkers = []string{
		".github/workflows/",
		".gitlab-ci.yml",
		".circleci/",
		"Jenkinsfile",
	}
	dockerMarkers = []string{
		"Dockerfile",
		"docker-compose.yml",
		"docker-compose.yaml",
		"compose.yaml",
	}
	testDirMarkers = []string{
		"tests/",
		"test/",
		"__tests__/",
		"spec/",
	}
	monitoringMarkers = []string{
		"prometheus.yml",
		"prometheus.yaml",
		"grafana/",
		"datadog.yaml",
		"otel-collector",
	}
)

// detectMaturity derives the maturity tier from a small decision table.
// Ambiguous combinations default to the lowest tier; the value only nudges
// scoring so precision is not required.
func detectMaturity(dir string, files []string) Maturity {
	ev := maturityEvidence{
		stableVersion: hasStableVersion(dir, files),
		hasCI:         anyFileMatches(files, ciMarkers),
		hasDocker:     anyFileMatches(files, dockerMarkers),
		hasTests:      anyFileMatches(files, testDirMarkers) || anyTestFile(files),
		hasMonitoring: anyFileMatches(files, monitoringMarkers),
	}

	switch {
	case ev.hasCI && ev.hasDocker && ev.hasTests && (ev.stableVersion || ev.hasMonitoring):
		return MaturityProduction

	case ev.hasCI && (ev.hasDocker || ev.hasTests):
		return MaturityPreProduction

	default:
		return MaturityMVP
	}
}

func anyFileMatches(files, markers []string) bool {
	for _, f := range files {
		for _, m := range markers {
			if strings.HasSuffix(m, "/") {
				if strings.HasPrefix(f, m) || strings.Contains(f, "/"+m) {
					return true
				}
			} else if filepath.Base(f) == m || strings.Contains(f, m) {
				return true
			}
		}
	}

	return false
}

var testFileRe = regexp.MustCompile(`(_test\.go|\.test\.[jt]sx?|_spec\.rb|^test_.*\.py)$`)

func anyTestFile(files []string) bool {
	for _, f := range files {
		if testFileRe.MatchString(filepath.Base(f)) {
			return true
		}
	}

	return false
}

var versionRe = regexp.MustCompile(`(?m)^\s*version\s*[=:]\s*["']?(\d+)\.`)

// hasStableVersion reports whether the project declares a >= 1.x version in
// package.json, pyproject.toml, or a VERSION file. Read or parse failures
// count as "no evidence".
func hasStableVersion(dir string, files []string) bool {
	for _, f := range files {
		base := filepath.Base(f)

		switch base {
		case "package.json":
			content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(f))) //nolint:gosec // G304
			if err != nil {
				continue
			}

			var pkg packageJSON
			if yaml.Unmarshal(content, &pkg) != nil {
				continue
			}

			v := strings.TrimPrefix(pkg.Version, "v")
			if v != "" && !strings.HasPrefix(v, "0.") {
				return true
			}

		case "pyproject.toml", "VERSION", "Cargo.toml":
			content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(f))) //nolint:gosec // G304
			if err != nil {
				continue
			}

			if base == "VERSION" {
				v := strings.TrimSpace(strings.TrimPrefix(string(content), "v"))
				if v != "" && !strings.HasPrefix(v, "0.") {
					return true
				}

				continue
			}

			m := versionRe.FindStringSubmatch(string(content))
			if len(m) == 2 && m[1] != "0" {
				return true
			}
		}
	}

	return false
}
