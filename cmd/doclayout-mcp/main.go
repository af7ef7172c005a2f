// Command doclayout-mcp is an MCP (Model Context Protocol) server that
// exposes layout template validation, rendering and inspection to AI
// assistants.
//
// # Installation
//
//	go install github.com/lvillar/doclayout/cmd/doclayout-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "doclayout": {
//	      "command": "doclayout-mcp"
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - validate_layout: Validate a template and report errors, warnings and statistics
//   - render_layout: Render a template against data into draw instructions
//   - layout_stats: Compute structural statistics and a complexity score
//   - list_components: List supported component kinds and their properties
//
// # Available Resources
//
//   - doclayout://components : Component catalog with property specifications
//   - doclayout://example : Example template using expressions and repeats
package main

import (
	"log/slog"
	"os"

	"github.com/lvillar/doclayout/mcp"
)

func main() {
	// stdout carries the protocol, diagnostics go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	server := mcp.NewServer(mcp.WithLogger(logger))
	if err := server.Run(); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	if os.Getenv("DOCLAYOUT_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
