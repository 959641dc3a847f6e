package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thoughtful-solutions/metrics/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analyses over the Model Context Protocol on stdio",
	Long: `Run as an MCP server so editor agents can call the truck factor and
hotspot analyses as tools. The server speaks JSON-RPC on stdin/stdout
and exits when the client closes the stream.

Example Claude Desktop entry:
  {"mcpServers": {"gitmetrics": {"command": "gitmetrics", "args": ["mcp"]}}}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcp.NewServer(cfg, logger, Version).Run(context.Background())
	},
}
