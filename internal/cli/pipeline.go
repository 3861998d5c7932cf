package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ainori-ai/mlagent"
)

func newPipelineCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Manage pipeline descriptions and live instances",
	}

	cmd.AddCommand(newPipelineSetCommand(app))
	cmd.AddCommand(newPipelineGetCommand(app))
	cmd.AddCommand(newPipelineDeleteCommand(app))
	cmd.AddCommand(newPipelineLaunchCommand(app))
	cmd.AddCommand(newPipelineStartCommand(app))
	cmd.AddCommand(newPipelineStopCommand(app))
	cmd.AddCommand(newPipelineDestroyCommand(app))
	cmd.AddCommand(newPipelineStateCommand(app))

	return cmd
}

func newPipelineSetCommand(app *App) *cobra.Command {
	var name, desc string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a pipeline description under a name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOp(cmd.Context(), "pipeline set", name, func(ctx context.Context) error {
				return app.Client.SetPipelineDescription(ctx, name, desc)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "pipeline name")
	cmd.Flags().StringVar(&desc, "desc", "", "pipeline description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("desc")

	return cmd
}

func newPipelineGetCommand(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print a stored pipeline description",
		RunE: func(cmd *cobra.Command, args []string) error {
			var desc string
			err := app.runOp(cmd.Context(), "pipeline get", name, func(ctx context.Context) error {
				var err error
				desc, err = app.Client.GetPipelineDescription(ctx, name)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), desc)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "pipeline name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPipelineDeleteCommand(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a stored pipeline description",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOp(cmd.Context(), "pipeline delete", name, func(ctx context.Context) error {
				return app.Client.DeletePipeline(ctx, name)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "pipeline name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPipelineLaunchCommand(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Construct a pipeline instance from a stored description",
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			err := app.runOp(cmd.Context(), "pipeline launch", name, func(ctx context.Context) error {
				var err error
				id, err = app.Client.LaunchPipeline(ctx, name)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "pipeline name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPipelineStartCommand(app *App) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a launched pipeline instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOp(cmd.Context(), "pipeline start", fmt.Sprint(id), func(ctx context.Context) error {
				return app.Client.StartPipeline(ctx, id)
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "pipeline instance id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newPipelineStopCommand(app *App) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop a running pipeline instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOp(cmd.Context(), "pipeline stop", fmt.Sprint(id), func(ctx context.Context) error {
				return app.Client.StopPipeline(ctx, id)
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "pipeline instance id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newPipelineDestroyCommand(app *App) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a pipeline instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOp(cmd.Context(), "pipeline destroy", fmt.Sprint(id), func(ctx context.Context) error {
				return app.Client.DestroyPipeline(ctx, id)
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "pipeline instance id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newPipelineStateCommand(app *App) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print the current state of a pipeline instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var state mlagent.PipelineState
			err := app.runOp(cmd.Context(), "pipeline state", fmt.Sprint(id), func(ctx context.Context) error {
				var err error
				state, err = app.Client.GetPipelineState(ctx, id)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), state)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "pipeline instance id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
