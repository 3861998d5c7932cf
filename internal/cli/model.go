package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ainori-ai/mlagent"
)

func newModelCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage the agent's model registry",
	}

	cmd.AddCommand(newModelRegisterCommand(app))
	cmd.AddCommand(newModelUpdateCommand(app))
	cmd.AddCommand(newModelActivateCommand(app))
	cmd.AddCommand(newModelGetCommand(app))
	cmd.AddCommand(newModelGetActivatedCommand(app))
	cmd.AddCommand(newModelListCommand(app))
	cmd.AddCommand(newModelDeleteCommand(app))

	return cmd
}

func newModelRegisterCommand(app *App) *cobra.Command {
	var (
		name, path, desc, appInfo string
		activate                  bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a model file under a name",
		Long: `Register a model file under a name. The agent assigns the version;
the new version prints on stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var version uint32
			err := app.runOp(cmd.Context(), "model register", name, func(ctx context.Context) error {
				var err error
				version, err = app.Client.RegisterModel(ctx, mlagent.RegisterModelRequest{
					Name:        name,
					Path:        path,
					Activate:    activate,
					Description: desc,
					AppInfo:     appInfo,
				})
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "model name")
	cmd.Flags().StringVar(&path, "path", "", "model file path")
	cmd.Flags().BoolVar(&activate, "activate", false, "activate this version on registration")
	cmd.Flags().StringVar(&desc, "desc", "", "model description")
	cmd.Flags().StringVar(&appInfo, "app-info", "", "packaging context as JSON")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func newModelUpdateCommand(app *App) *cobra.Command {
	var (
		name, desc string
		version    uint32
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the description of a registered model version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOp(cmd.Context(), "model update", name, func(ctx context.Context) error {
				return app.Client.UpdateModelDescription(ctx, name, version, desc)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "model name")
	cmd.Flags().Uint32Var(&version, "version", 0, "model version")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("version")
	_ = cmd.MarkFlagRequired("desc")

	return cmd
}

func newModelActivateCommand(app *App) *cobra.Command {
	var (
		name    string
		version uint32
	)

	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Mark one version of a model as the active one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOp(cmd.Context(), "model activate", name, func(ctx context.Context) error {
				return app.Client.ActivateModel(ctx, name, version)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "model name")
	cmd.Flags().Uint32Var(&version, "version", 0, "model version")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}

func newModelGetCommand(app *App) *cobra.Command {
	var (
		name    string
		version uint32
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the record of one model version",
		RunE: func(cmd *cobra.Command, args []string) error {
			var info string
			err := app.runOp(cmd.Context(), "model get", name, func(ctx context.Context) error {
				var err error
				info, err = app.Client.GetModel(ctx, name, version)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "model name")
	cmd.Flags().Uint32Var(&version, "version", 0, "model version")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}

func newModelGetActivatedCommand(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "get-activated",
		Short: "Print the record of the activated version of a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			var info string
			err := app.runOp(cmd.Context(), "model get-activated", name, func(ctx context.Context) error {
				var err error
				info, err = app.Client.GetActivatedModel(ctx, name)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "model name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newModelListCommand(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the records of every registered version of a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			var info string
			err := app.runOp(cmd.Context(), "model list", name, func(ctx context.Context) error {
				var err error
				info, err = app.Client.ListModels(ctx, name)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "model name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newModelDeleteCommand(app *App) *cobra.Command {
	var (
		name    string
		version uint32
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one version of a model, or all versions",
		Long: `Delete one version of a model. With --version 0 every version is
deleted. An activated version only deletes with --force.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOp(cmd.Context(), "model delete", name, func(ctx context.Context) error {
				return app.Client.DeleteModel(ctx, name, version, force)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "model name")
	cmd.Flags().Uint32Var(&version, "version", 0, "model version, 0 for all")
	cmd.Flags().BoolVar(&force, "force", false, "delete even if activated")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
