// Package mcpserver exposes the document service as MCP tools. One server
// owns one dashboard session for its whole lifetime.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appdocs "github.com/bryanwahyu/insights-workspace/internal/application/documents"
	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
	"github.com/bryanwahyu/insights-workspace/internal/infra/localfs"
)

const (
	ToolAnalyze = "insights_analyze"
	ToolStats   = "insights_stats"
	ToolList    = "insights_list"
	ToolReport  = "insights_report"
)

type Server struct {
	docs    *appdocs.Service
	session string
}

// New opens the session the tools operate on.
func New(ctx context.Context, docs *appdocs.Service) (*Server, error) {
	sess, err := docs.CreateSession(ctx)
	if err != nil {
		return nil, err
	}
	return &Server{docs: docs, session: sess.ID}, nil
}

// Session returns the id of the backing session.
func (s *Server) Session() string { return s.session }

// NewMCPServer builds an MCP server with every tool registered.
func (s *Server) NewMCPServer(version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "insights", Version: version}, nil)
	s.Register(srv)
	return srv
}

// Register adds the insights tools to srv.
func (s *Server) Register(srv *mcp.Server) {
	register(srv, &mcp.Tool{
		Name:        ToolAnalyze,
		Description: "Analyze documents (pdf, doc, docx, txt; max 10MB each) for biases, fallacies and heuristics. Waits until the batch settles.",
		InputSchema: inputSchema(map[string]any{
			"paths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "File paths to analyze together as one batch",
			},
		}, []string{"paths"}),
	}, s.analyze)

	register(srv, &mcp.Tool{
		Name:        ToolStats,
		Description: "Aggregate statistics over every analyzed document.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}, s.stats)

	register(srv, &mcp.Tool{
		Name:        ToolList,
		Description: "List analyzed documents with optional search, sort and category filter.",
		InputSchema: inputSchema(map[string]any{
			"search": map[string]any{"type": "string", "description": "Case-insensitive substring of the document name"},
			"sort":   map[string]any{"type": "string", "enum": []string{"name", "issues", "date"}},
			"asc":    map[string]any{"type": "boolean"},
			"filter": map[string]any{"type": "string", "enum": []string{"all", "bias", "fallacy", "heuristic"}},
		}, nil),
	}, s.list)

	register(srv, &mcp.Tool{
		Name:        ToolReport,
		Description: "Detailed report for one analyzed document: descriptions, implications, mitigation and recommendations.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Document id from insights_analyze or insights_list"},
		}, []string{"id"}),
	}, s.report)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

type toolFunc func(ctx context.Context, args json.RawMessage) (any, error)

// register adapts fn to an MCP handler: errors become tool errors and
// results are returned as JSON text.
func register(srv *mcp.Server, tool *mcp.Tool, fn toolFunc) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := fn(ctx, req.Params.Arguments)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

type analyzeArgs struct {
	Paths []string `json:"paths"`
}

func (s *Server) analyze(ctx context.Context, raw json.RawMessage) (any, error) {
	var args analyzeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	files, err := localfs.Load(args.Paths)
	if err != nil {
		return nil, err
	}
	return s.docs.SubmitAndWait(ctx, s.session, files)
}

func (s *Server) stats(ctx context.Context, _ json.RawMessage) (any, error) {
	return s.docs.Stats(ctx, s.session)
}

type listArgs struct {
	Search string `json:"search"`
	Sort   string `json:"sort"`
	Asc    *bool  `json:"asc"`
	Filter string `json:"filter"`
}

func (s *Server) list(ctx context.Context, raw json.RawMessage) (any, error) {
	var args listArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	asc := ""
	if args.Asc != nil {
		asc = strconv.FormatBool(*args.Asc)
	}
	q, err := domain.ParseQuery(args.Search, args.Sort, asc, args.Filter)
	if err != nil {
		return nil, err
	}
	return s.docs.List(ctx, s.session, q)
}

type reportArgs struct {
	ID string `json:"id"`
}

func (s *Server) report(ctx context.Context, raw json.RawMessage) (any, error) {
	var args reportArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.ID == "" {
		return nil, errors.New("id is required")
	}
	return s.docs.Report(ctx, s.session, domain.DocumentID(args.ID))
}
