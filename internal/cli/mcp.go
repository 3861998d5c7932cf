package cli

import (
	"github.com/spf13/cobra"

	"github.com/ainori-ai/mlagent/internal/mcp"
)

func newMCPCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve agent tools to MCP clients on stdio",
		Long: `Serve agent tools to MCP clients on stdio. Each agent operation is
exposed as a tool, and the D-Bus interface definition as a resource.
Blocks until the client closes the stream.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mcp.New(app.Client, app.Logger, app.Version)
			app.Logger.Info("serving MCP on stdio")
			return srv.ServeStdio()
		},
	}
	return cmd
}
