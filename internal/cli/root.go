// Package cli implements the mlagentctl command tree.
//
// Every command is a thin cobra wrapper over the public client: parse
// flags, call the matching Client method through App.runOp, print the
// reply. Output payloads the agent returns as JSON print verbatim so
// the tool composes with jq and friends.
package cli

import (
	"github.com/spf13/cobra"
)

// New builds the root command for mlagentctl.
func New(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mlagentctl",
		Short: "Control the on-device ML orchestration agent",
		Long: `mlagentctl talks to the on-device ML orchestration agent over D-Bus.

It manages pipeline descriptions and live pipeline instances, the model
registry, and shared resources. The agent is looked up on the system bus
first, then the session bus.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newPipelineCommand(app))
	cmd.AddCommand(newModelCommand(app))
	cmd.AddCommand(newResourceCommand(app))
	cmd.AddCommand(newStatusCommand(app))
	cmd.AddCommand(newHistoryCommand(app))
	cmd.AddCommand(newMCPCommand(app))

	return cmd
}
