package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent agent invocations from the local journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Journal == nil {
				return errors.New("invocation journal is disabled")
			}

			entries, err := app.Journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no recorded invocations")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "AT\tCOMMAND\tTARGET\tOUTCOME\tDURATION\tERROR")
			for _, e := range entries {
				errStr := "-"
				if e.Error != "" {
					errStr = e.Error
				}
				outcome := e.Outcome
				if e.RemoteCode != 0 {
					outcome = fmt.Sprintf("%s (code %d)", e.Outcome, e.RemoteCode)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.At.UTC().Format(time.RFC3339),
					e.Command,
					e.Target,
					outcome,
					e.Duration.Round(time.Millisecond),
					errStr,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")

	return cmd
}
