package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve MCP over stdio",
	Long: `Serve MCP over standard input/output, for clients that spawn the
server binary directly instead of connecting over HTTP. Logs go to stderr;
stdout carries only protocol traffic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStdio()
	},
}

func init() {
	rootCmd.AddCommand(stdioCmd)
}

// runStdio starts the MCP server on the stdio transport.
func runStdio() error {
	_, server, logger, err := setup()
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("MCP server ready", "name", ServerName, "version", Version, "transport", "stdio")

	if err := server.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	logger.Info("MCP server shut down gracefully")
	return nil
}
