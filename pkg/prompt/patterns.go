package prompt

import "regexp"

// patternRule pairs one compiled pattern with the category it implies.
type patternRule struct {
	re       *regexp.Regexp
	category Category
}

func p(pattern string, category Category) patternRule {
	return patternRule{
		re:       regexp.MustCompile(`(?i)` + pattern),
		category: category,
	}
}

// classifierPatterns is the phase-1 pattern list, evaluated top to bottom
// with first-match-wins semantics. ORDER IS LOAD-BEARING: more specific and
// less ambiguous patterns come first, so a later, broader pattern can never
// shadow an earlier, narrower one. Treat this list as versioned data; append
// with care and never reorder casually.
var classifierPatterns = []patternRule{
	// Legal and business documents. These must precede generic "review" and
	// "write" patterns: vocabulary like SLA or terms overlaps with
	// monitoring and API phrasing.
	p(`\b(nda|non[- ]disclosure)\b`, CategoryLegalBusiness),
	p(`\bterms\s+(of|and)\s+(service|use|conditions)\b`, CategoryLegalBusiness),
	p(`\bprivacy\s+policy\b`, CategoryLegalBusiness),
	p(`\b(draft|review|prepare|sign)\b.{0,40}\b(contract|agreement)\b`, CategoryLegalBusiness),
	p(`\b(contract|agreement)\b.{0,40}\b(clause|liability|indemnif|breach)\b`, CategoryLegalBusiness),
	p(`\bservice[- ]level\s+agreement\b`, CategoryLegalBusiness),
	p(`\bsla\b.{0,40}\b(negotiat|penalt|legal|vendor|customer)\b`, CategoryLegalBusiness),
	p(`\b(gdpr|hipaa|ccpa)\s+(complian|requirement)`, CategoryLegalBusiness),
	p(`\b(licens(e|ing))\b.{0,30}\b(terms|commercial|open[- ]source)\b`, CategoryLegalBusiness),
	p(`\b(business\s+plan|pitch\s+deck|investor)\b`, CategoryLegalBusiness),

	// Debugging. Error-shaped phrasing beats the broader implementation verbs.
	p(`\b(fix|debug|resolve|solve)\b.{0,50}\b(bug|error|issue|crash|failure|exception)\b`, CategoryCodeDebugging),
	p(`\b(bug|error|exception|crash)\b.{0,40}\b(in|on|when|while|at)\b`, CategoryCodeDebugging),
	p(`\bwhy\s+(is|does|do|did|isn't|doesn't|won't)\b.{0,60}\b(fail|break|crash|error|not\s+work)`, CategoryCodeDebugging),
	p(`\b(stack\s*trace|traceback|segfault|core\s+dump|panic)\b`, CategoryCodeDebugging),
	p(`\bnot\s+working\b`, CategoryCodeDebugging),
	p(`\b(throws?|threw|raising|raised)\s+(an?\s+)?(error|exception)\b`, CategoryCodeDebugging),
	p(`\b(nullpointerexception|typeerror|keyerror|segmentation\s+fault|undefined\s+is\s+not)\b`, CategoryCodeDebugging),
	p(`\b(sql\s+injection|xss|csrf|vulnerabilit(y|ies)|security\s+(hole|flaw|breach))\b`, CategoryCodeDebugging),
	p(`\b(memory\s+leak|race\s+condition|deadlock|infinite\s+loop)\b`, CategoryCodeDebugging),
	p(`\b(troubleshoot|diagnose)\b`, CategoryCodeDebugging),
	p(`\b(broken|failing)\s+(test|build|pipeline|deploy)`, CategoryCodeDebugging),
	p(`\bregression\b`, CategoryCodeDebugging),

	// Code review. Must come after legal review phrasing.
	p(`\b(review|audit)\b.{0,40}\b(code|pr|pull\s+request|diff|changes|commit)\b`, CategoryCodeReview),
	p(`\b(code|pr|pull\s+request)\s+review\b`, CategoryCodeReview),
	p(`\bis\s+(this|my|the)\s+code\b.{0,40}\b(good|correct|idiomatic|clean|secure|ok)\b`, CategoryCodeReview),
	p(`\b(feedback|comments?)\s+on\s+(my|this|the)\s+(code|implementation|function|class)\b`, CategoryCodeReview),
	p(`\b(any|spot)\s+(issues|problems|smells)\b.{0,30}\b(code|implementation)\b`, CategoryCodeReview),
	p(`\brefactor(ing)?\s+suggestions?\b`, CategoryCodeReview),
	p(`\bcode\s+quality\b`, CategoryCodeReview),
	p(`\b(lgtm|nit:)\b`, CategoryCodeReview),

	// Architecture and design.
	p(`\b(design|architect)\b.{0,50}\b(system|architecture|microservice|schema|data\s+model)\b`, CategoryArchitecture),
	p(`\b(system|software|application)\s+architecture\b`, CategoryArchitecture),
	p(`\b(monolith|microservices?)\b.{0,40}\b(vs|versus|or|migrat|split|compar)`, CategoryArchitecture),
	p(`\b(event[- ]driven|cqrs|hexagonal|domain[- ]driven)\b`, CategoryArchitecture),
	p(`\b(scalab(le|ility)|high\s+availability|fault[- ]toleran)\b`, CategoryArchitecture),
	p(`\b(choose|pick|compare|decide)\b.{0,40}\b(database|queue|framework|stack|technology)\b`, CategoryArchitecture),
	p(`\b(design\s+pattern|architectural\s+decision|adr)\b`, CategoryArchitecture),
	p(`\btrade[- ]?offs?\b.{0,40}\b(between|of)\b`, CategoryArchitecture),
	p(`\bapi\s+design\b`, CategoryArchitecture),

	// DevOps and infrastructure.
	p(`\b(deploy(ment)?|release|rollout|rollback)\b.{0,40}\b(to|on|in)?\s*(prod(uction)?|staging|k8s|kubernetes|cluster|aws|gcp|azure)\b`, CategoryDevOps),
	p(`\b(ci/?cd|continuous\s+(integration|delivery|deployment))\b`, CategoryDevOps),
	p(`\b(dockerfile|docker[- ]compose|containeriz)\b`, CategoryDevOps),
	p(`\b(kubernetes|k8s|helm\s+chart|kustomize)\b`, CategoryDevOps),
	p(`\b(terraform|cloudformation|pulumi|infrastructure\s+as\s+code|iac)\b`, CategoryDevOps),
	p(`\b(github\s+actions?|gitlab\s+ci|jenkins(file)?|circleci)\b`, CategoryDevOps),
	p(`\b(set\s*up|configure|provision)\b.{0,40}\b(server|cluster|pipeline|environment|vpc|load\s+balancer)\b`, CategoryDevOps),
	p(`\b(monitor(ing)?|alert(ing)?|observability)\b.{0,40}\b(set\s*up|configure|stack|dashboard)\b`, CategoryDevOps),
	p(`\b(autoscal|blue[- ]green|canary\s+(deploy|release))\b`, CategoryDevOps),
	p(`\bsecrets?\s+manage(ment|r)\b`, CategoryDevOps),

	// Documentation.
	p(`\b(write|create|draft|update|improve)\b.{0,40}\b(readme|docs?|documentation|changelog|runbook|user\s+guide)\b`, CategoryDocumentation),
	p(`\bdocument\s+(this|the|my)\b.{0,40}\b(api|function|module|code|endpoint|process)\b`, CategoryDocumentation),
	p(`\b(api\s+reference|docstrings?|javadoc|godoc)\b`, CategoryDocumentation),
	p(`\b(onboarding|getting[- ]started)\s+(guide|docs?|documentation)\b`, CategoryDocumentation),
	p(`\brelease\s+notes\b`, CategoryDocumentation),
	p(`\b(tutorial|how[- ]to\s+guide)\b.{0,30}\b(write|create|draft)\b`, CategoryDocumentation),

	// Implementation. Broad creation verbs; these would shadow nearly
	// everything above if they appeared earlier.
	p(`\b(implement|build|create|add|write|develop)\b.{0,50}\b(function|method|class|endpoint|api|feature|component|module|service|handler|middleware|parser|cli|script)\b`, CategoryCodeImplementation),
	p(`\b(add|implement)\s+(support|functionality)\s+for\b`, CategoryCodeImplementation),
	p(`\b(write|create)\b.{0,30}\b(unit\s+)?tests?\b`, CategoryCodeImplementation),
	p(`\brefactor\b`, CategoryCodeImplementation),
	p(`\b(integrate|hook\s+up|wire\s+up|connect)\b.{0,40}\b(api|service|database|library|sdk)\b`, CategoryCodeImplementation),
	p(`\b(optimize|speed\s+up|improve\s+performance)\b`, CategoryCodeImplementation),
	p(`\b(migrate|port|upgrade)\b.{0,40}\b(from|to)\b`, CategoryCodeImplementation),
	p(`\b(parse|serialize|validate)\b.{0,40}\b(json|yaml|xml|csv|input|request)\b`, CategoryCodeImplementation),
	p(`\bimplement\b`, CategoryCodeImplementation),

	// General questions. Interrogative openers with no code-shaped noun
	// nearby; kept near the bottom so every specific pattern wins first.
	p(`^\s*(what|what's)\s+(is|are|does)\b`, CategoryGeneralQuestion),
	p(`^\s*(how|how's)\s+(do|does|can|should|would)\b.{0,60}\bwork`, CategoryGeneralQuestion),
	p(`^\s*(explain|describe|summarize)\b`, CategoryGeneralQuestion),
	p(`\b(difference|differences)\s+between\b`, CategoryGeneralQuestion),
	p(`\b(can|could|should)\s+you\s+(explain|clarify|elaborate)\b`, CategoryGeneralQuestion),
	p(`\b(pros\s+and\s+cons|advantages\s+and\s+disadvantages)\b`, CategoryGeneralQuestion),
	p(`\bwhat\s+(is|are)\s+the\s+best\s+practices?\b`, CategoryGeneralQuestion),
}
