package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rulectx/rulectx/pkg/prompt"
)

func TestExtractIntent(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		text        string
		wantAction  prompt.Action
		wantUrgency prompt.Urgency
		wantTopics  []string
	}{
		"auth bugfix": {
			text:        "Fix the authentication bug in auth.py",
			wantAction:  prompt.ActionFix,
			wantUrgency: prompt.UrgencyNormal,
			wantTopics:  []string{"debugging", "security"},
		},
		"urgent vulnerability": {
			text:        "URGENT: SQL injection vulnerability in the login endpoint",
			wantAction:  prompt.ActionGeneral,
			wantUrgency: prompt.UrgencyHigh,
			wantTopics:  []string{"api", "database", "security"},
		},
		"refactor": {
			text:        "Refactor the session handling for readability",
			wantAction:  prompt.ActionRefactor,
			wantUrgency: prompt.UrgencyNormal,
			wantTopics:  []string{"code-quality"},
		},
		"review": {
			text:        "Review this pull request",
			wantAction:  prompt.ActionReview,
			wantUrgency: prompt.UrgencyNormal,
			wantTopics:  []string{"api"},
		},
		"implement with tests": {
			text:        "Implement the export endpoint and write tests",
			wantAction:  prompt.ActionImplement,
			wantUrgency: prompt.UrgencyNormal,
			wantTopics:  []string{"api", "testing"},
		},
		"production outage": {
			text:        "Production down, we need logs right now",
			wantAction:  prompt.ActionGeneral,
			wantUrgency: prompt.UrgencyHigh,
			wantTopics:  []string{"logging"},
		},
		"no signals": {
			text:        "hello there",
			wantAction:  prompt.ActionGeneral,
			wantUrgency: prompt.UrgencyNormal,
			wantTopics:  nil,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			intent := prompt.ExtractIntent(tc.text)

			assert.Equal(t, tc.wantAction, intent.Action)
			assert.Equal(t, tc.wantUrgency, intent.Urgency)
			assert.Equal(t, tc.wantTopics, intent.Topics)
		})
	}
}

func TestExtractIntent_FixBeatsImplement(t *testing.T) {
	t.Parallel()

	// Both verb families appear; fix-shaped verbs take precedence.
	intent := prompt.ExtractIntent("fix and then build the importer")

	assert.Equal(t, prompt.ActionFix, intent.Action)
}
