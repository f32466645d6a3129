package detect

const (
	existsPythonProject = `files.exists(f,
  pathBase(f) in ["requirements.txt", "pyproject.toml", "setup.py", "Pipfile"]) ||
files.exists(f, pathExt(f) == ".py")`

	existsTypeScriptProject = `files.exists(f,
  pathBase(f) == "tsconfig.json") ||
files.exists(f, pathExt(f) in [".ts", ".tsx"])`

	existsJavaScriptProject = `files.exists(f,
  pathBase(f) == "package.json") ||
files.exists(f, pathExt(f) in [".js", ".jsx", ".mjs"])`

	existsGoProject = `files.exists(f, pathBase(f) == "go.mod") ||
files.exists(f, pathExt(f) == ".go")`

	existsRustProject = `files.exists(f, pathBase(f) == "Cargo.toml")`

	existsJavaProject = `files.exists(f,
  pathBase(f) in ["pom.xml", "build.gradle", "build.gradle.kts"]) ||
files.exists(f, pathExt(f) == ".java")`

	existsRubyProject = `files.exists(f, pathBase(f) == "Gemfile") ||
files.exists(f, pathExt(f) == ".rb")`

	existsCSharpProject = `files.exists(f, glob("**/*.csproj", f)) ||
files.exists(f, glob("**/*.sln", f))`

	existsPHPProject = `files.exists(f, pathBase(f) == "composer.json") ||
files.exists(f, pathExt(f) == ".php")`

	existsTerraformProject = `files.exists(f, pathExt(f) == ".tf")`
)

// DefaultMarkerRules is the built-in, ordered language marker list. Order
// matters only for reproducibility of the resulting language list; each rule
// detects at most its own language.
var DefaultMarkerRules = []*MarkerRule{
	MustNewMarkerRule("python", existsPythonProject),
	MustNewMarkerRule("typescript", existsTypeScriptProject),
	MustNewMarkerRule("javascript", existsJavaScriptProject),
	MustNewMarkerRule("go", existsGoProject),
	MustNewMarkerRule("rust", existsRustProject),
	MustNewMarkerRule("java", existsJavaProject),
	MustNewMarkerRule("ruby", existsRubyProject),
	MustNewMarkerRule("csharp", existsCSharpProject),
	MustNewMarkerRule("php", existsPHPProject),
	MustNewMarkerRule("terraform", existsTerraformProject),
}

// languageOverlap resolves subset/superset language pairs: when both are
// detected and the superset's unambiguous marker file exists, the subset is
// dropped.
var languageOverlap = []struct {
	Superset string
	Subset   string
	Marker   string
}{
	{Superset: "typescript", Subset: "javascript", Marker: "tsconfig.json"},
}

// frameworkDeps maps, per language, a dependency token found in that
// language's manifests to a framework name.
var frameworkDeps = map[string]map[string]string{
	"python": {
		"fastapi": "fastapi",
		"django":  "django",
		"flask":   "flask",
	},
	"javascript": {
		"react":         "react",
		"next":          "nextjs",
		"express":       "express",
		"vue":           "vue",
		"@angular/core": "angular",
		"@nestjs/core":  "nestjs",
		"svelte":        "svelte",
	},
	"typescript": {
		"react":         "react",
		"next":          "nextjs",
		"express":       "express",
		"vue":           "vue",
		"@angular/core": "angular",
		"@nestjs/core":  "nestjs",
		"svelte":        "svelte",
	},
	"go": {
		"github.com/gin-gonic/gin": "gin",
		"github.com/labstack/echo": "echo",
		"github.com/gofiber/fiber": "fiber",
		"github.com/go-chi/chi":    "chi",
	},
	"ruby": {
		"rails":   "rails",
		"sinatra": "sinatra",
	},
	"java": {
		"spring-boot": "spring-boot",
		"quarkus":     "quarkus",
	},
}

// cloudFileMarkers map dedicated config files (doublestar patterns) to a
// cloud provider.
var cloudFileMarkers = []struct {
	Provider string
	Pattern  string
}{
	{Provider: "aws", Pattern: "**/.aws/**"},
	{Provider: "aws", Pattern: "**/cloudformation*.{yml,yaml,json}"},
	{Provider: "aws", Pattern: "**/template.{yml,yaml}"}, // SAM
	{Provider: "aws", Pattern: "**/samconfig.toml"},
	{Provider: "gcp", Pattern: "**/app.yaml"},
	{Provider: "gcp", Pattern: "**/cloudbuild.{yml,yaml}"},
	{Provider: "azure", Pattern: "**/azure-pipelines.yml"},
	{Provider: "azure", Pattern: "**/host.json"},
}

// cloudDepSubstrings map dependency-list substrings to a cloud provider.
var cloudDepSubstrings = map[string]string{
	"boto3":            "aws",
	"aws-sdk":          "aws",
	"aws-cdk":          "aws",
	"google-cloud":     "gcp",
	"cloud.google.com": "gcp",
	"azure-":           "azure",
	"@azure/":          "azure",
}

// skipDirs are never descended into while collecting files.
var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"target":       {},
	"__pycache__":  {},
	".venv":        {},
	"venv":         {},
	".idea":        {},
}
