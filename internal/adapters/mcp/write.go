package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"cardbox/internal/ports"
)

// RegisterWriteTools adds capture and indexing tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, index ports.CardIndex, capture ports.CaptureEngine) {
	s.AddTool(reindexTool(), reindexHandler(index))
	s.AddTool(captureInsertTool(), captureInsertHandler(capture))
	s.AddTool(captureDeleteTool(), captureDeleteHandler(capture))
	s.AddTool(captureMoveTool(), captureMoveHandler(capture))
}

// --- reindex ---

func reindexTool() mcp.Tool {
	return mcp.NewTool("reindex",
		mcp.WithDescription("Reindex one root, or every registered root when no root is given."),
		mcp.WithString("root",
			mcp.Description("Root path to reindex. Omit to reindex all roots."),
		),
	)
}

func reindexHandler(index ports.CardIndex) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root := req.GetString("root", "")

		if root != "" {
			stats, err := index.IndexRoot(root, nil)
			if err != nil {
				return toolError(err)
			}
			return mcp.NewToolResultText(fmt.Sprintf(
				"Indexed %s: %d updated, %d skipped, %d removed, %d headings in %dms",
				root, stats.Updated, stats.Skipped, stats.Removed,
				stats.HeadingsExtracted, stats.ElapsedMs)), nil
		}

		stats, failed, err := index.IndexAll(nil)
		if err != nil {
			return toolError(err)
		}
		msg := fmt.Sprintf("Indexed all roots: %d updated, %d skipped, %d removed in %dms",
			stats.Updated, stats.Skipped, stats.Removed, stats.ElapsedMs)
		if failed > 0 {
			msg += fmt.Sprintf(" (%d roots failed)", failed)
		}
		return mcp.NewToolResultText(msg), nil
	}
}

// --- capture_insert ---

func captureInsertTool() mcp.Tool {
	return mcp.NewTool("capture_insert",
		mcp.WithDescription("Insert content into a capture document as a new section. Optionally nest it under an existing heading given by its order."),
		mcp.WithString("root",
			mcp.Description("Root path the capture document lives under"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("Content to insert"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("Section title for the inserted content"),
		),
		mcp.WithString("target",
			mcp.Description("Capture document path relative to the root. Omit for the default capture.md."),
		),
		mcp.WithString("source",
			mcp.Description("Source card path to credit in the inserted section"),
		),
		mcp.WithNumber("context_order",
			mcp.Description("Heading order to nest the section under. Omit to append at the end."),
		),
	)
}

func captureInsertHandler(capture ports.CaptureEngine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root := req.GetString("root", "")
		content := req.GetString("content", "")
		if root == "" || content == "" {
			return toolError(fmt.Errorf("root and content are required"))
		}

		result, err := capture.Insert(ports.CaptureRequest{
			RootPath:     root,
			SourcePath:   req.GetString("source", ""),
			SectionTitle: req.GetString("title", "Captured"),
			Content:      content,
			TargetPath:   req.GetString("target", ""),
			ContextOrder: int64(req.GetInt("context_order", -1)),
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Inserted into %s", result.TargetRelativePath)), nil
	}
}

// --- capture_delete ---

func captureDeleteTool() mcp.Tool {
	return mcp.NewTool("capture_delete",
		mcp.WithDescription("Delete a heading and its subtree from a capture document."),
		mcp.WithString("root",
			mcp.Description("Root path the capture document lives under"),
			mcp.Required(),
		),
		mcp.WithString("target",
			mcp.Description("Capture document path relative to the root"),
			mcp.Required(),
		),
		mcp.WithNumber("heading_order",
			mcp.Description("Order of the heading to delete"),
			mcp.Required(),
		),
	)
}

func captureDeleteHandler(capture ports.CaptureEngine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root := req.GetString("root", "")
		target := req.GetString("target", "")
		if root == "" || target == "" {
			return toolError(fmt.Errorf("root and target are required"))
		}

		pv, err := capture.DeleteHeading(root, target, int64(req.GetInt("heading_order", -1)))
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Deleted; %s now has %d headings", pv.RelativePath, pv.HeadingCount)), nil
	}
}

// --- capture_move ---

func captureMoveTool() mcp.Tool {
	return mcp.NewTool("capture_move",
		mcp.WithDescription("Move a heading's subtree to sit after another heading's subtree within a capture document."),
		mcp.WithString("root",
			mcp.Description("Root path the capture document lives under"),
			mcp.Required(),
		),
		mcp.WithString("target",
			mcp.Description("Capture document path relative to the root"),
			mcp.Required(),
		),
		mcp.WithNumber("source_order",
			mcp.Description("Order of the heading to move"),
			mcp.Required(),
		),
		mcp.WithNumber("destination_order",
			mcp.Description("Order of the heading to place it after"),
			mcp.Required(),
		),
	)
}

func captureMoveHandler(capture ports.CaptureEngine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root := req.GetString("root", "")
		target := req.GetString("target", "")
		if root == "" || target == "" {
			return toolError(fmt.Errorf("root and target are required"))
		}

		pv, err := capture.MoveHeading(root, target,
			int64(req.GetInt("source_order", -1)),
			int64(req.GetInt("destination_order", -1)))
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Moved; %s now has %d headings", pv.RelativePath, pv.HeadingCount)), nil
	}
}
