// Command mcp-tools serves the secure-agent workspace tools over MCP stdio.
//
// MCP clients (an MCP-aware desktop assistant, or a gateway such as the
// Archestra platform) can discover and call read_file, get_github_issue and
// send_email through it. Tool console output goes to stderr since stdout
// carries the protocol.
//
// Environment (a .env file is loaded if present):
//
//	GITHUB_TOKEN     - Token for the GitHub issues API (optional)
//	MCP_LOG_LEVEL    - debug, info, warn or error (default: warn)
//
// Usage:
//
//	go run ./cmd/mcp-tools
//
// Client configuration:
//
//	{
//	    "mcpServers": {
//	        "secure-agent-tools": {
//	            "command": "go",
//	            "args": ["run", "./cmd/mcp-tools"],
//	            "cwd": "/path/to/secure-agent"
//	        }
//	    }
//	}
package main

import (
	"log/slog"
	"os"

	"github.com/archestra-ai/secure-agent/mcp"
	"github.com/archestra-ai/secure-agent/tool"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("MCP_LOG_LEVEL"))); err != nil {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	registry := tool.NewRegistry().Add(tool.Workspace(
		tool.WithOutput(os.Stderr),
		tool.WithGitHubOptions(tool.WithGitHubToken(os.Getenv("GITHUB_TOKEN"))),
	)...)

	slog.Info("serving tools over stdio", "tools", registry.Names())

	if err := mcp.ServeStdio(registry,
		mcp.WithName("secure-agent-tools"),
		mcp.WithVersion("1.0.0"),
	); err != nil {
		slog.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
