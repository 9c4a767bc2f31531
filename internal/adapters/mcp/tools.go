// Package mcp exposes the search request surface as MCP tools
package mcp

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"tokentrace/internal/adapters/report"
	"tokentrace/internal/application/commands"
	"tokentrace/internal/application/search"
	"tokentrace/internal/domain"
	"tokentrace/internal/ports"
)

// Notifier sends a notification to the client that made the current request
type Notifier func(ctx context.Context, method string, params map[string]any) error

// Notification methods sent while a search runs
const (
	MethodProgress        = "notifications/progress"
	MethodStreamingResult = "notifications/tokentrace/streaming_result"
	MethodSearchComplete  = "notifications/tokentrace/search_complete"
)

// Tools holds the dependencies of the tool handlers
type Tools struct {
	doc    ports.Document
	svc    *search.Service
	logger zerolog.Logger
	notify Notifier
}

// NewTools creates the tool handlers. Notifications go to the client of the
// request being served.
func NewTools(doc ports.Document, svc *search.Service, logger zerolog.Logger) *Tools {
	return &Tools{doc: doc, svc: svc, logger: logger, notify: clientNotifier}
}

func clientNotifier(ctx context.Context, method string, params map[string]any) error {
	srv := server.ServerFromContext(ctx)
	if srv == nil {
		return nil
	}
	return srv.SendNotificationToClient(ctx, method, params)
}

// Register adds every tool to the MCP server
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(listCollectionsTool(), t.listCollections)
	s.AddTool(listPagesTool(), t.listPages)
	s.AddTool(listColorVariablesTool(), t.listColorVariables)
	s.AddTool(findBoundNodesTool(), t.findBoundNodes)
	s.AddTool(cancelSearchTool(), t.cancelSearch)
}

// --- list_collections ---

func listCollectionsTool() mcp.Tool {
	return mcp.NewTool("list_collections",
		mcp.WithDescription("List the document's local variable collections with their modes."),
	)
}

func (t *Tools) listCollections(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cols, err := commands.NewListCollectionsCommand(t.doc).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return formatEntities(cols, formatCollection)
}

// --- list_pages ---

func listPagesTool() mcp.Tool {
	return mcp.NewTool("list_pages",
		mcp.WithDescription("List the document's pages. The current page is marked with *."),
	)
}

func (t *Tools) listPages(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := commands.NewListPagesCommand(t.doc).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return formatEntities(res.Pages, func(p domain.PageInfo) string {
		marker := " "
		if p.ID == res.CurrentPageID {
			marker = "*"
		}
		return fmt.Sprintf("%s %s  %s", marker, p.ID, p.Name)
	})
}

// --- list_color_variables ---

func listColorVariablesTool() mcp.Tool {
	return mcp.NewTool("list_color_variables",
		mcp.WithDescription("List local color variables with the resolved value for every mode."),
		mcp.WithString("collection_id",
			mcp.Description("Restrict the listing to one collection. Omit to list all."),
		),
	)
}

func (t *Tools) listColorVariables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collectionID := req.GetString("collection_id", "")

	vars, err := commands.NewListColorVariablesCommand(t.doc, t.logger, collectionID).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return formatEntities(vars, formatColorVariable)
}

// --- find_bound_nodes ---

func findBoundNodesTool() mcp.Tool {
	return mcp.NewTool("find_bound_nodes",
		mcp.WithDescription("Find every node bound to the given color variables, including library copies sharing the same key. Matches collapse onto their component instance unless all_nodes is set. Progress and each newly found instance are sent as notifications."),
		mcp.WithString("variable_ids",
			mcp.Description("Comma-separated variable IDs"),
			mcp.Required(),
		),
		mcp.WithString("page_id",
			mcp.Description("Search only this page. Omit to search every page."),
		),
		mcp.WithBoolean("all_nodes",
			mcp.Description("Report every bound node instead of their enclosing instances"),
		),
	)
}

func (t *Tools) findBoundNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := splitIDs(req.GetString("variable_ids", ""))
	pageID := req.GetString("page_id", "")
	allNodes := req.GetBool("all_nodes", false)

	obs := &observer{ctx: ctx, notify: t.notify, logger: t.logger}
	if req.Params.Meta != nil {
		obs.token = req.Params.Meta.ProgressToken
	}

	cmd := commands.NewFindBoundNodesCommand(t.svc, obs, ids, pageID, allNodes)
	results, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No variables found."), nil
	}

	var buf bytes.Buffer
	if err := report.New(&buf, t.doc, t.logger, report.Plain()).Render(ctx, results); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// --- cancel_search ---

func cancelSearchTool() mcp.Tool {
	return mcp.NewTool("cancel_search",
		mcp.WithDescription("Cancel the running find_bound_nodes search. Results found so far are still returned by that call."),
	)
}

func (t *Tools) cancelSearch(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	running, err := commands.NewCancelSearchCommand(t.svc).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	if !running {
		return mcp.NewToolResultText("No search in progress."), nil
	}
	return mcp.NewToolResultText("Search cancelled."), nil
}

// --- helpers ---

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatCollection(c domain.VariableCollection) string {
	modes := make([]string, 0, len(c.Modes))
	for _, m := range c.Modes {
		name := m.Name
		if m.ModeID == c.DefaultModeID {
			name += " (default)"
		}
		modes = append(modes, name)
	}
	return fmt.Sprintf("%s  %s  [%s]", c.ID, c.Name, strings.Join(modes, ", "))
}

func formatColorVariable(v domain.ColorVariable) string {
	values := make([]string, 0, len(v.Modes))
	for _, m := range v.Modes {
		values = append(values, fmt.Sprintf("%s=%s", m.Name, v.Values[m.ModeID]))
	}
	line := fmt.Sprintf("%s  %s  %s", v.ID, v.Name, strings.Join(values, " "))
	if v.Description != "" {
		line += "  # " + v.Description
	}
	return line
}
