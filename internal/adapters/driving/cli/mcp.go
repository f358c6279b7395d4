package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finqa/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose the document session to AI assistants over the Model Context Protocol.

Tools: load_document, ask_question, document_summary, system_status and
clear_history. The loaded document text and metadata are also published as
the finqa://document and finqa://metadata resources.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead, for example to test with MCP Inspector.

Examples:
  # Stdio mode (default, for desktop assistants)
  finqa mcp serve

  # HTTP mode
  finqa mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "finqa": {
        "command": "/path/to/finqa",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

var mcpPort int

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Document: documentService,
		Chat:     chatService,
		Limiter:  askLimiter,
	})
	if err != nil {
		return err
	}

	if mcpPort <= 0 {
		// Stdout carries the protocol, so nothing else may be printed there.
		return server.Run(cmd.Context())
	}

	addr := fmt.Sprintf(":%d", mcpPort)
	cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
