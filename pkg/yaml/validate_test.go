package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulectx/rulectx/pkg/yaml"
)

var testSchema = []byte(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"maxTokens": {"type": "integer", "minimum": 0}
	},
	"required": ["name"],
	"additionalProperties": false
}`)

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	v, err := yaml.NewValidator("schema.json", testSchema)
	require.NoError(t, err)

	tcs := map[string]struct {
		data    any
		wantErr bool
	}{
		"valid document": {
			data: map[string]any{"name": "base/coding-standards.md", "maxTokens": 800},
		},
		"missing required field": {
			data:    map[string]any{"maxTokens": 800},
			wantErr: true,
		},
		"unknown field": {
			data:    map[string]any{"name": "x", "extra": true},
			wantErr: true,
		},
		"violates minimum": {
			data:    map[string]any{"name": "x", "maxTokens": -1},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(tc.data)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewValidator_BadSchema(t *testing.T) {
	t.Parallel()

	_, err := yaml.NewValidator("schema.json", []byte(`{not json`))
	require.Error(t, err)
}

func TestUnmarshal_JSONIsYAML(t *testing.T) {
	t.Parallel()

	var out map[string]any

	err := yaml.Unmarshal([]byte(`{"a": 1, "b": ["x"]}`), &out)
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, out["b"])
}
