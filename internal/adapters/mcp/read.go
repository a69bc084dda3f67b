package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"cardbox/internal/ports"
)

// RegisterReadTools adds all read-only index tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, index ports.CardIndex) {
	s.AddTool(listRootsTool(), listRootsHandler(index))
	s.AddTool(searchTool(), searchHandler(index))
	s.AddTool(outlineTool(), outlineHandler(index))
	s.AddTool(filePreviewTool(), filePreviewHandler(index))
	s.AddTool(sectionTool(), sectionHandler(index))
}

// --- list_roots ---

func listRootsTool() mcp.Tool {
	return mcp.NewTool("list_roots",
		mcp.WithDescription("List the registered card roots with file and heading counts."),
	)
}

func listRootsHandler(index ports.CardIndex) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		roots, err := index.ListRoots()
		if err != nil {
			return toolError(err)
		}
		if len(roots) == 0 {
			return mcp.NewToolResultText("No roots registered."), nil
		}
		var sb strings.Builder
		for _, r := range roots {
			fmt.Fprintf(&sb, "%s  %d files, %d headings\n", r.Path, r.FileCount, r.HeadingCount)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search headings, file names, and author citations across indexed cards. Returns ranked hits with file ids and heading orders."),
		mcp.WithString("query",
			mcp.Description("Search query, at least two characters"),
			mcp.Required(),
		),
		mcp.WithString("root",
			mcp.Description("Root path to scope the search to. Omit to search every root."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of hits (default 50)"),
		),
	)
}

func searchHandler(index ports.CardIndex) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}
		root := req.GetString("root", "")
		limit := req.GetInt("limit", 50)

		hits, err := index.Search(query, root, limit)
		if err != nil {
			return toolError(err)
		}
		if len(hits) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, h := range hits {
			switch h.Kind {
			case "heading":
				fmt.Fprintf(&sb, "heading  file=%d order=%d  %s  (%s)\n",
					h.FileID, h.HeadingOrder, h.HeadingText, h.RelativePath)
			case "author":
				fmt.Fprintf(&sb, "author   file=%d  %s  (%s)\n",
					h.FileID, h.HeadingText, h.RelativePath)
			default:
				fmt.Fprintf(&sb, "file     file=%d  %s\n", h.FileID, h.RelativePath)
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- outline ---

func outlineTool() mcp.Tool {
	return mcp.NewTool("outline",
		mcp.WithDescription("Display the indexed folder and file structure of a root as a tree."),
		mcp.WithString("root",
			mcp.Description("Root path"),
			mcp.Required(),
		),
	)
}

func outlineHandler(index ports.CardIndex) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root := req.GetString("root", "")
		if root == "" {
			return toolError(fmt.Errorf("root is required"))
		}

		snap, err := index.Snapshot(root)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		for _, folder := range snap.Folders {
			indent := strings.Repeat("  ", folder.Depth)
			fmt.Fprintf(&sb, "%s%s/ (%d files)\n", indent, folder.Name, folder.FileCount)
			for _, file := range snap.Files {
				if file.FolderPath != folder.Path {
					continue
				}
				fmt.Fprintf(&sb, "%s  [%d] %s (%d headings)\n",
					indent, file.ID, file.FileName, file.HeadingCount)
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- file_preview ---

func filePreviewTool() mcp.Tool {
	return mcp.NewTool("file_preview",
		mcp.WithDescription("Read a card file's heading outline and cite blocks by file id."),
		mcp.WithNumber("file_id",
			mcp.Description("File id from search or outline"),
			mcp.Required(),
		),
	)
}

func filePreviewHandler(index ports.CardIndex) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fileID := req.GetInt("file_id", 0)
		if fileID == 0 {
			return toolError(fmt.Errorf("file_id is required"))
		}

		pv, err := index.FilePreview(int64(fileID))
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s (%d headings)\n", pv.RelativePath, pv.HeadingCount)
		for _, h := range pv.Headings {
			fmt.Fprintf(&sb, "%sorder=%d %s\n", strings.Repeat("  ", int(h.Level)), h.Order, h.Text)
		}
		for _, b := range pv.CiteBlocks {
			fmt.Fprintf(&sb, "  [%s] %s\n", b.StyleLabel, b.Text)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- section ---

func sectionTool() mcp.Tool {
	return mcp.NewTool("section",
		mcp.WithDescription("Read the full text of one heading's section by file id and heading order."),
		mcp.WithNumber("file_id",
			mcp.Description("File id"),
			mcp.Required(),
		),
		mcp.WithNumber("heading_order",
			mcp.Description("Heading order from file_preview or search"),
			mcp.Required(),
		),
	)
}

func sectionHandler(index ports.CardIndex) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fileID := req.GetInt("file_id", 0)
		if fileID == 0 {
			return toolError(fmt.Errorf("file_id is required"))
		}
		order := req.GetInt("heading_order", -1)

		text, err := index.HeadingPreview(int64(fileID), int64(order))
		if err != nil {
			return toolError(err)
		}
		if text == "" {
			return mcp.NewToolResultText("Section is empty."), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
