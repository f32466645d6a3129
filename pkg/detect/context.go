package detect

import (
	"slices"
	"strings"
)

// Maturity is the rough lifecycle stage of a project. It only nudges rule
// scoring, so precision is not required; ambiguity resolves to [MaturityMVP].
type Maturity string

const (
	MaturityMVP           Maturity = "mvp"
	MaturityPreProduction Maturity = "pre-production"
	MaturityProduction    Maturity = "production"
)

// AllMaturities lists every maturity tier, lowest first.
var AllMaturities = []Maturity{
	MaturityMVP,
	MaturityPreProduction,
	MaturityProduction,
}

// Context is the detected technology profile of a project directory.
// It is created fresh per request and never mutated after [Detector.Detect]
// returns.
type Context struct {
	Maturity       Maturity `json:"maturity"`
	Languages      []string `json:"languages"`
	Frameworks     []string `json:"frameworks"`
	CloudProviders []string `json:"cloudProviders"`
	Confidence     float64  `json:"confidence"`
}

// NewContext returns an empty profile with the lowest maturity tier.
func NewContext() *Context {
	return &Context{
		Maturity:       MaturityMVP,
		Languages:      []string{},
		Frameworks:     []string{},
		CloudProviders: []string{},
	}
}

func (c *Context) HasLanguage(lang string) bool {
	return slices.Contains(c.Languages, lang)
}

func (c *Context) HasFramework(fw string) bool {
	return slices.Contains(c.Frameworks, fw)
}

func (c *Context) HasCloudProvider(cp string) bool {
	return slices.Contains(c.CloudProviders, cp)
}

func (c *Context) addLanguage(lang string) {
	if !c.HasLanguage(lang) {
		c.Languages = append(c.Languages, lang)
	}
}

func (c *Context) addFramework(fw string) {
	if !c.HasFramework(fw) {
		c.Frameworks = append(c.Frameworks, fw)
	}
}

func (c *Context) addCloudProvider(cp string) {
	if !c.HasCloudProvider(cp) {
		c.CloudProviders = append(c.CloudProviders, cp)
	}
}

func (c *Context) String() string {
	var b strings.Builder

	b.WriteString("languages=[")
	b.WriteString(strings.Join(c.Languages, ", "))
	b.WriteString("] frameworks=[")
	b.WriteString(strings.Join(c.Frameworks, ", "))
	b.WriteString("] cloud=[")
	b.WriteString(strings.Join(c.CloudProviders, ", "))
	b.WriteString("] maturity=")
	b.WriteString(string(c.Maturity))

	return b.String()
}
