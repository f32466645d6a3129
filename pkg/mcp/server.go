// Package mcp exposes the selection pipeline over the Model Context
// Protocol, so assistants can load rules for a prompt without shelling out.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/rulectx/rulectx/pkg/detect"
	"github.com/rulectx/rulectx/pkg/engine"
	"github.com/rulectx/rulectx/pkg/version"
)

// Server implements the MCP server for rulectx.
type Server struct {
	engine   *engine.Engine
	detector *detect.Detector
	server   *mcp.Server
	tracer   trace.Tracer
	address  string
}

// NewServer creates an MCP server over the given engine. An empty address
// selects the stdio transport.
func NewServer(address string, eng *engine.Engine, detector *detect.Detector) *Server {
	impl := &mcp.Implementation{
		Name:    "rulectx",
		Version: version.GetVersion(),
	}

	opts := &mcp.ServerOptions{
		Instructions: "MCP server for context-aware rule selection. Use load_rules with the user's prompt and the project directory to get relevant knowledge documents within a token budget. Use detect_context to inspect a project's technology profile without loading rules.",
	}

	s := &Server{
		engine:   eng,
		detector: detector,
		server:   mcp.NewServer(impl, opts),
		tracer:   otel.Tracer("mcp"),
		address:  address,
	}

	s.registerTools()

	return s
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_rules",
		Description: "Select and load the knowledge documents most relevant to a prompt and project directory, within the configured token budget. Returns the injectable text plus selection metadata.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"prompt": {
					Type:        "string",
					Description: "The user's request text.",
				},
				"dir": {
					Type:        "string",
					Description: "The project directory to detect context from. Defaults to the server's working directory.",
				},
			},
			Required: []string{"prompt"},
		},
	}, WithTracing(s.tracer, s.handleLoadRules))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_context",
		Description: "Detect a project directory's technology profile: languages, frameworks, cloud providers, and maturity.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"dir": {
					Type:        "string",
					Description: "The project directory to inspect.",
				},
			},
			Required: []string{"dir"},
		},
	}, WithTracing(s.tracer, s.handleDetectContext))
}

func (s *Server) handleLoadRules(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[LoadRulesParams],
) (*mcp.CallToolResultFor[LoadRulesResult], error) {
	startTime := time.Now()

	dir := params.Arguments.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}

		dir = wd
	}

	res := s.engine.Run(ctx, params.Arguments.Prompt, dir)

	result := LoadRulesResult{
		Injected: res.Injected,
		Metadata: res.Metadata,
	}

	slog.DebugContext(ctx, "load_rules execution completed",
		slog.String("category", string(res.Metadata.Category)),
		slog.Int("rules_loaded", res.Metadata.RulesLoaded),
		slog.Duration("duration", time.Since(startTime)),
	)

	return toolResult(result)
}

func (s *Server) handleDetectContext(
	_ context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[DetectContextParams],
) (*mcp.CallToolResultFor[DetectContextResult], error) {
	result := DetectContextResult{
		Context: s.detector.Detect(params.Arguments.Dir),
	}

	return toolResult(result)
}

// toolResult renders the structured payload as JSON text content alongside
// the typed result.
func toolResult[T any](result T) (*mcp.CallToolResultFor[T], error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}

	return &mcp.CallToolResultFor[T]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
		StructuredContent: result,
	}, nil
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve Stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP()
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP() error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)

	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
