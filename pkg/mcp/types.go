package mcp

import (
	"github.com/rulectx/rulectx/pkg/detect"
	"github.com/rulectx/rulectx/pkg/engine"
)

// LoadRulesParams are the arguments for the load_rules tool.
type LoadRulesParams struct {
	Prompt string `json:"prompt"`
	Dir    string `json:"dir,omitempty"`
}

// LoadRulesResult is the load_rules tool response payload.
type LoadRulesResult struct {
	Injected string          `json:"injected"`
	Metadata engine.Metadata `json:"metadata"`
}

// DetectContextParams are the arguments for the detect_context tool.
type DetectContextParams struct {
	Dir string `json:"dir"`
}

// DetectContextResult is the detect_context tool response payload.
type DetectContextResult struct {
	Context *detect.Context `json:"context"`
}
