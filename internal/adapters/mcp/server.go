// Package mcp exposes the analytics pipeline as MCP tools over streamable
// HTTP.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/pldash/internal/domain/aggregate"
	"github.com/okian/pldash/internal/domain/export"
	"github.com/okian/pldash/internal/domain/insight"
	"github.com/okian/pldash/internal/domain/model"
	"github.com/okian/pldash/internal/domain/types"
	"github.com/okian/pldash/pkg/logger"
)

// Implementation identity reported to MCP clients.
const (
	ServerName    = "pldash"
	ServerVersion = "1.0.0"
)

// Dependencies are the pipeline operations the tools call.
type Dependencies interface {
	Seasons(ctx context.Context) (types.SeasonsInfo, error)
	ResolveRequest(ctx context.Context, season string, teams []string) (model.FilterRequest, error)
	View(ctx context.Context, req model.FilterRequest) (aggregate.View, error)
	Insights(ctx context.Context, req model.FilterRequest) (insight.Result, error)
	Trends(ctx context.Context, teams []string) (aggregate.Trends, error)
	Export(ctx context.Context, w io.Writer, f export.Format, req model.FilterRequest) error
}

// SeasonsArgs is the input schema of the seasons tool.
type SeasonsArgs struct{}

// SelectionArgs is the input schema of the selection based tools.
type SelectionArgs struct {
	Season string   `json:"season,omitempty" jsonschema:"Season label such as 2024-25 (default current season)"`
	Teams  []string `json:"teams,omitempty" jsonschema:"Team names (omit for every team, empty list for none)"`
}

// TrendsArgs is the input schema of the revenue_trends tool.
type TrendsArgs struct {
	Teams []string `json:"teams,omitempty" jsonschema:"Team names (omit for every team)"`
}

// Tools implements the MCP tool handlers.
type Tools struct {
	deps Dependencies
	log  logger.Logger
}

// NewTools creates the tool handlers.
func NewTools(deps Dependencies, log logger.Logger) *Tools {
	if log == nil {
		log = logger.Nop()
	}
	return &Tools{deps: deps, log: log}
}

// NewServer registers every tool on a new MCP server.
func NewServer(t *Tools) *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{Name: ServerName, Version: ServerVersion}, nil)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "seasons",
		Description: "Seasons, current season and teams of the dataset",
	}, t.Seasons)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "team_view",
		Description: "Revenue KPIs, per-team rows and FEI scores for a season and team selection",
	}, t.TeamView)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "insights",
		Description: "Risk warnings and strategic recommendations for a season and team selection",
	}, t.Insights)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "revenue_trends",
		Description: "Total revenue and year-over-year growth per team across all seasons",
	}, t.RevenueTrends)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "export_csv",
		Description: "Scored view of a season and team selection as CSV",
	}, t.ExportCSV)

	return server
}

// NewHandler serves server over streamable HTTP with JSON responses.
func NewHandler(server *sdk.Server) http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return server
	}, &sdk.StreamableHTTPOptions{JSONResponse: true})
}

// Seasons handles the seasons tool.
func (t *Tools) Seasons(ctx context.Context, _ *sdk.CallToolRequest, _ SeasonsArgs) (*sdk.CallToolResult, any, error) {
	info, err := t.deps.Seasons(ctx)
	if err != nil {
		return t.toolError(ctx, "seasons", err), nil, nil
	}
	return toolJSON(info)
}

// TeamView handles the team_view tool.
func (t *Tools) TeamView(ctx context.Context, _ *sdk.CallToolRequest, args SelectionArgs) (*sdk.CallToolResult, any, error) {
	req, err := t.deps.ResolveRequest(ctx, args.Season, args.Teams)
	if err != nil {
		return t.toolError(ctx, "team_view", err), nil, nil
	}
	view, err := t.deps.View(ctx, req)
	if errors.Is(err, model.ErrEmptySelection) {
		return toolJSON(types.EmptyNoticeFor(req.Season, err))
	}
	if err != nil {
		return t.toolError(ctx, "team_view", err), nil, nil
	}
	return toolJSON(view)
}

// Insights handles the insights tool.
func (t *Tools) Insights(ctx context.Context, _ *sdk.CallToolRequest, args SelectionArgs) (*sdk.CallToolResult, any, error) {
	req, err := t.deps.ResolveRequest(ctx, args.Season, args.Teams)
	if err != nil {
		return t.toolError(ctx, "insights", err), nil, nil
	}
	res, err := t.deps.Insights(ctx, req)
	if errors.Is(err, model.ErrEmptySelection) {
		return toolJSON(types.EmptyNoticeFor(req.Season, err))
	}
	if err != nil {
		return t.toolError(ctx, "insights", err), nil, nil
	}
	return toolJSON(res)
}

// RevenueTrends handles the revenue_trends tool.
func (t *Tools) RevenueTrends(ctx context.Context, _ *sdk.CallToolRequest, args TrendsArgs) (*sdk.CallToolResult, any, error) {
	trends, err := t.deps.Trends(ctx, args.Teams)
	if err != nil {
		return t.toolError(ctx, "revenue_trends", err), nil, nil
	}
	return toolJSON(trends)
}

// ExportCSV handles the export_csv tool.
func (t *Tools) ExportCSV(ctx context.Context, _ *sdk.CallToolRequest, args SelectionArgs) (*sdk.CallToolResult, any, error) {
	req, err := t.deps.ResolveRequest(ctx, args.Season, args.Teams)
	if err != nil {
		return t.toolError(ctx, "export_csv", err), nil, nil
	}
	var buf bytes.Buffer
	if err := t.deps.Export(ctx, &buf, export.FormatCSV, req); err != nil {
		if errors.Is(err, model.ErrEmptySelection) {
			return toolJSON(types.EmptyNoticeFor(req.Season, err))
		}
		return t.toolError(ctx, "export_csv", err), nil, nil
	}
	return toolText(buf.String()), nil, nil
}

func (t *Tools) toolError(ctx context.Context, tool string, err error) *sdk.CallToolResult {
	t.log.Warn(ctx, "mcp tool failed", logger.String("tool", tool), logger.Error(err))
	return &sdk.CallToolResult{
		IsError: true,
		Content: []sdk.Content{
			&sdk.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

func toolJSON(v any) (*sdk.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode tool result: %w", err)
	}
	return toolText(string(b)), nil, nil
}

func toolText(s string) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{
			&sdk.TextContent{Text: s},
		},
	}
}
