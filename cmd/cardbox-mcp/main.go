package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"cardbox/internal/adapters/markdown"
	mcpadapter "cardbox/internal/adapters/mcp"
	"cardbox/internal/adapters/sqlite"
	"cardbox/internal/config"
)

func main() {
	defaultDB, err := config.DatabasePath()
	if err != nil {
		log.Fatalf("cardbox-mcp: %v", err)
	}
	dbFlag := flag.String("db", defaultDB, "path to the index database")
	flag.Parse()

	index, err := sqlite.Open(*dbFlag)
	if err != nil {
		log.Fatalf("cardbox-mcp: %v", err)
	}
	defer index.Close()

	mcpServer := server.NewMCPServer(
		"cardbox-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, index)
	mcpadapter.RegisterWriteTools(mcpServer, index, markdown.NewCaptureEngine())

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("cardbox-mcp: %v", err)
	}
}
