// Package mcp provides an MCP (Model Context Protocol) server that exposes
// trello-sankey report generation as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/valter-silva-au/trello-sankey/internal/core"
	"github.com/valter-silva-au/trello-sankey/internal/integration"
)

// Server wraps trello-sankey services and exposes them as MCP tools.
type Server struct {
	server    *gomcp.Server
	generator core.SankeyGenerator
	client    integration.TrelloClient
}

// NewServer creates a new MCP server over the given generator and client.
func NewServer(generator core.SankeyGenerator, client integration.TrelloClient, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		generator: generator,
		client:    client,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "tsg", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type generateSankeyInput struct {
	BoardID string `json:"board_id" jsonschema:"required,the Trello board ID to analyze"`
}

type flowOutput struct {
	FromStage string `json:"from_stage"`
	ToStage   string `json:"to_stage"`
	Count     int    `json:"count"`
}

type generateSankeyOutput struct {
	Output     string       `json:"output"`
	Flows      []flowOutput `json:"flows"`
	TotalCards int          `json:"total_cards"`
}

type listBoardsInput struct{}

type boardOutput struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Closed bool   `json:"closed"`
}

type listBoardsOutput struct {
	Boards []boardOutput `json:"boards"`
	Count  int           `json:"count"`
}

type previewStagesInput struct {
	BoardID string `json:"board_id" jsonschema:"required,the Trello board ID whose lists should be previewed"`
}

type stagePreviewOutput struct {
	ListName string `json:"list_name"`
	Stage    string `json:"stage"`
}

type previewStagesOutput struct {
	Stages []stagePreviewOutput `json:"stages"`
	Count  int                  `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "generate_sankey",
		Description: "Generate SankeyMATIC flow data for a Trello job board. Returns the formatted report text plus the individual stage-to-stage flows.",
	}, s.handleGenerateSankey)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_boards",
		Description: "List the authenticated member's Trello boards with their IDs.",
	}, s.handleListBoards)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "preview_stages",
		Description: "Show how each list on a board maps to a canonical pipeline or terminal stage.",
	}, s.handlePreviewStages)
}

// --- Tool handlers ---

func (s *Server) handleGenerateSankey(ctx context.Context, _ *gomcp.CallToolRequest, input generateSankeyInput) (*gomcp.CallToolResult, generateSankeyOutput, error) {
	if input.BoardID == "" {
		return errorResult("board_id is required"), generateSankeyOutput{}, nil
	}

	report, err := s.generator.GenerateReport(ctx, input.BoardID)
	if err != nil {
		return errorResult(fmt.Sprintf("generating sankey data for board %s: %s", input.BoardID, err)), generateSankeyOutput{}, nil
	}

	out := generateSankeyOutput{
		Output:     report.Output,
		Flows:      make([]flowOutput, len(report.Flows)),
		TotalCards: report.TotalCards,
	}
	for i, flow := range report.Flows {
		out.Flows[i] = flowOutput{FromStage: flow.FromStage, ToStage: flow.ToStage, Count: flow.Count}
	}

	return nil, out, nil
}

func (s *Server) handleListBoards(ctx context.Context, _ *gomcp.CallToolRequest, _ listBoardsInput) (*gomcp.CallToolResult, listBoardsOutput, error) {
	boards, err := s.client.GetMemberBoards(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("listing boards: %s", err)), listBoardsOutput{}, nil
	}

	out := listBoardsOutput{
		Boards: make([]boardOutput, len(boards)),
		Count:  len(boards),
	}
	for i, b := range boards {
		out.Boards[i] = boardOutput{ID: b.ID, Name: b.Name, URL: b.URL, Closed: b.Closed}
	}

	return nil, out, nil
}

func (s *Server) handlePreviewStages(ctx context.Context, _ *gomcp.CallToolRequest, input previewStagesInput) (*gomcp.CallToolResult, previewStagesOutput, error) {
	if input.BoardID == "" {
		return errorResult("board_id is required"), previewStagesOutput{}, nil
	}

	previews, err := s.generator.PreviewStages(ctx, input.BoardID)
	if err != nil {
		return errorResult(fmt.Sprintf("previewing stages for board %s: %s", input.BoardID, err)), previewStagesOutput{}, nil
	}

	out := previewStagesOutput{
		Stages: make([]stagePreviewOutput, len(previews)),
		Count:  len(previews),
	}
	for i, p := range previews {
		out.Stages[i] = stagePreviewOutput{ListName: p.ListName, Stage: p.Stage}
	}

	return nil, out, nil
}

// errorResult builds a CallToolResult carrying an error message.
func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
