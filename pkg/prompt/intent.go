package prompt

import (
	"slices"
	"strings"
)

// Action is the kind of change the user is asking for.
type Action string

const (
	ActionImplement Action = "implement"
	ActionFix       Action = "fix"
	ActionRefactor  Action = "refactor"
	ActionReview    Action = "review"
	ActionGeneral   Action = "general"
)

// Urgency flags time-sensitive requests so safety-relevant rules can be
// escalated by the scorer.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Intent is what the user wants, extracted once per request from the same
// text used for classification. It is consumed only by the scorer.
type Intent struct {
	Action  Action   `json:"action"`
	Urgency Urgency  `json:"urgency"`
	Topics  []string `json:"topics"`
}

// topicKeywords is the topic dictionary: a topic is extracted when any of
// its keywords appears in the text.
var topicKeywords = map[string][]string{
	"security": {
		"security", "vulnerability", "vulnerabilities", "auth", "authentication",
		"authorization", "injection", "xss", "csrf", "encryption", "password",
		"secret", "token",
	},
	"testing": {
		"test", "tests", "testing", "coverage", "mock", "fixture", "assertion",
	},
	"performance": {
		"performance", "slow", "latency", "optimize", "optimization", "profiling",
		"throughput", "memory",
	},
	"database": {
		"database", "sql", "query", "migration", "index", "postgres", "mysql",
		"transaction",
	},
	"api": {
		"api", "endpoint", "rest", "graphql", "grpc", "request", "response",
	},
	"deployment": {
		"deploy", "deployment", "release", "rollout", "docker", "kubernetes",
		"container",
	},
	"logging": {
		"log", "logs", "logging", "trace", "tracing",
	},
	"error-handling": {
		"error", "errors", "exception", "exceptions", "panic", "retry",
	},
	"debugging": {
		"bug", "debug", "debugging", "crash", "broken", "fix",
	},
	"documentation": {
		"documentation", "docs", "readme", "changelog", "comment",
	},
	"architecture": {
		"architecture", "design", "microservice", "microservices", "scalability",
	},
	"configuration": {
		"config", "configuration", "settings", "environment",
	},
	"monitoring": {
		"monitoring", "metrics", "alerting", "observability", "dashboard",
	},
	"code-quality": {
		"quality", "readability", "refactor", "lint", "style",
	},
	"infrastructure": {
		"infrastructure", "terraform", "provisioning", "cluster", "server",
	},
}

var urgencyKeywords = []string{
	"urgent", "asap", "immediately", "critical", "emergency", "outage",
	"production down", "right now", "vulnerability", "exploit", "breach",
}

// ExtractIntent derives topics, action, and urgency from the request text.
// Like classification it is total and deterministic.
func ExtractIntent(text string) Intent {
	lower := strings.ToLower(text)
	words := tokenize(text)

	intent := Intent{
		Action:  extractAction(lower, words),
		Urgency: extractUrgency(lower),
		Topics:  extractTopics(words),
	}

	return intent
}

func extractTopics(words []string) []string {
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
	}

	var topics []string

	for topic, keywords := range topicKeywords {
		for _, kw := range keywords {
			if _, ok := wordSet[kw]; ok {
				topics = append(topics, topic)

				break
			}
		}
	}

	slices.Sort(topics)

	return topics
}

func extractAction(lower string, words []string) Action {
	has := func(kws ...string) bool {
		for _, kw := range kws {
			if slices.Contains(words, kw) {
				return true
			}
		}

		return false
	}

	switch {
	case has("fix", "debug", "resolve", "repair") || strings.Contains(lower, "not working"):
		return ActionFix

	case has("refactor", "restructure", "cleanup", "simplify"):
		return ActionRefactor

	case has("review", "audit", "feedback"):
		return ActionReview

	case has("implement", "build", "create", "add", "write", "develop"):
		return ActionImplement

	default:
		return ActionGeneral
	}
}

func extractUrgency(lower string) Urgency {
	for _, kw := range urgencyKeywords {
		if strings.Contains(lower, kw) {
			return UrgencyHigh
		}
	}

	return UrgencyNormal
}
