package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ainori-ai/mlagent"
)

func newResourceCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Manage shared resources",
	}

	cmd.AddCommand(newResourceAddCommand(app))
	cmd.AddCommand(newResourceGetCommand(app))
	cmd.AddCommand(newResourceDeleteCommand(app))

	return cmd
}

func newResourceAddCommand(app *App) *cobra.Command {
	var name, path, desc, appInfo string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a resource under a name",
		Long: `Add a resource under a name. Adding to an existing name appends
another record; records accumulate in order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOp(cmd.Context(), "resource add", name, func(ctx context.Context) error {
				return app.Client.AddResource(ctx, mlagent.AddResourceRequest{
					Name:        name,
					Path:        path,
					Description: desc,
					AppInfo:     appInfo,
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "resource name")
	cmd.Flags().StringVar(&path, "path", "", "resource path")
	cmd.Flags().StringVar(&desc, "desc", "", "resource description")
	cmd.Flags().StringVar(&appInfo, "app-info", "", "packaging context as JSON")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func newResourceGetCommand(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print every record stored under a resource name",
		RunE: func(cmd *cobra.Command, args []string) error {
			var info string
			err := app.runOp(cmd.Context(), "resource get", name, func(ctx context.Context) error {
				var err error
				info, err = app.Client.GetResource(ctx, name)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "resource name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newResourceDeleteCommand(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete every record stored under a resource name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOp(cmd.Context(), "resource delete", name, func(ctx context.Context) error {
				return app.Client.DeleteResource(ctx, name)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "resource name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
