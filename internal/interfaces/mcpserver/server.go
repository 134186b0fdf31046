// Package mcpserver exposes league awards and manager pulse as Model Context
// Protocol tools over streamable HTTP.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/fpl-pulse/internal/platform/logging"
	"github.com/riskibarqy/fpl-pulse/internal/platform/metrics"
	"github.com/riskibarqy/fpl-pulse/internal/usecase"
)

const (
	ToolLeagueAwards = "league_awards"
	ToolManagerPulse = "manager_pulse"
)

type AwardsComputer interface {
	Compute(ctx context.Context, in usecase.LeagueAwardsInput) (usecase.LeagueAwards, error)
}

type PulseGenerator interface {
	Generate(ctx context.Context, entryID int) (usecase.ManagerPulse, error)
}

type LeagueAwardsArgs struct {
	LeagueID int    `json:"league_id" jsonschema:"Classic league id (required)"`
	EntryID  int    `json:"entry_id,omitempty" jsonschema:"Focus entry id for the league summary"`
	Source   string `json:"source,omitempty" jsonschema:"Season source: bulk or incremental"`
}

type ManagerPulseArgs struct {
	EntryID int `json:"entry_id" jsonschema:"Entry id (required)"`
}

type Options struct {
	Name    string
	Version string
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Server struct {
	awards   AwardsComputer
	pulse    PulseGenerator
	logger   *logging.Logger
	metrics  *metrics.Manager
	server   *mcp.Server
	registry []toolInfo
}

func New(awards AwardsComputer, pulse PulseGenerator, opts Options, logger *logging.Logger, m *metrics.Manager) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(opts.Name) == "" {
		opts.Name = "fpl-pulse-mcp"
	}

	s := &Server{
		awards:   awards,
		pulse:    pulse,
		logger:   logger.Named("mcp"),
		metrics:  m,
		server:   mcp.NewServer(&mcp.Implementation{Name: opts.Name, Version: opts.Version}, nil),
		registry: make([]toolInfo, 0, 2),
	}

	addTool(s, &mcp.Tool{
		Name:        ToolLeagueAwards,
		Description: "Season awards for every category of a classic league, with optional focus-entry summary",
	}, s.leagueAwards)
	addTool(s, &mcp.Tool{
		Name:        ToolManagerPulse,
		Description: "Ten page season recap for one entry",
	}, s.managerPulse)

	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Handler serves /health, /tools and the streamable MCP endpoint at /mcp.
func (s *Server) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /tools", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tools": s.registry})
	})
	mux.Handle("/mcp", s.logRequests(streamable))

	return otelhttp.NewHandler(mux, "fpl-pulse-mcp",
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/health" }),
	)
}

// logRequests records each MCP round trip at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.DebugContext(r.Context(), "mcp request",
			"method", r.Method,
			"session", r.Header.Get("Mcp-Session-Id"),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) leagueAwards(ctx context.Context, _ *mcp.CallToolRequest, args LeagueAwardsArgs) (*mcp.CallToolResult, any, error) {
	if args.LeagueID <= 0 {
		return s.toolError(ToolLeagueAwards, fmt.Errorf("league_id is required")), nil, nil
	}
	source := strings.ToLower(strings.TrimSpace(args.Source))
	if source != "" && source != usecase.SourceBulk && source != usecase.SourceIncremental {
		return s.toolError(ToolLeagueAwards, fmt.Errorf("source must be bulk or incremental, got %q", args.Source)), nil, nil
	}

	result, err := s.awards.Compute(ctx, usecase.LeagueAwardsInput{
		LeagueID:   args.LeagueID,
		FocusEntry: args.EntryID,
		Source:     source,
	})
	if err != nil {
		s.logFailure(ctx, ToolLeagueAwards, err, "league_id", args.LeagueID)
		return s.toolError(ToolLeagueAwards, err), nil, nil
	}
	return s.toolJSON(ToolLeagueAwards, result)
}

func (s *Server) managerPulse(ctx context.Context, _ *mcp.CallToolRequest, args ManagerPulseArgs) (*mcp.CallToolResult, any, error) {
	if args.EntryID <= 0 {
		return s.toolError(ToolManagerPulse, fmt.Errorf("entry_id is required")), nil, nil
	}

	result, err := s.pulse.Generate(ctx, args.EntryID)
	if err != nil {
		s.logFailure(ctx, ToolManagerPulse, err, "entry_id", args.EntryID)
		return s.toolError(ToolManagerPulse, err), nil, nil
	}
	return s.toolJSON(ToolManagerPulse, result)
}

func (s *Server) logFailure(ctx context.Context, tool string, err error, args ...any) {
	if errors.Is(err, context.Canceled) {
		return
	}
	args = append(args, "tool", tool, "error", err)
	if errors.Is(err, usecase.ErrInvalidInput) || errors.Is(err, usecase.ErrNotFound) || errors.Is(err, usecase.ErrNotReady) {
		s.logger.WarnContext(ctx, "mcp tool rejected", args...)
		return
	}
	s.logger.ErrorContext(ctx, "mcp tool failed", args...)
}

func (s *Server) toolJSON(tool string, v any) (*mcp.CallToolResult, any, error) {
	body, err := sonic.Marshal(v)
	if err != nil {
		return s.toolError(tool, fmt.Errorf("encode result: %w", err)), nil, nil
	}
	s.metrics.IncToolCall(tool, metrics.OutcomeSuccess)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
	}, nil, nil
}

func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	s.metrics.IncToolCall(tool, metrics.OutcomeError)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)}},
	}
}

func addTool[T any](s *Server, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	s.registry = append(s.registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(s.server, tool, handler)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
