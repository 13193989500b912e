package cli

import (
	"github.com/spf13/cobra"

	"formctl/internal/model"
	"formctl/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and edit ~/.formctl/config.yaml",
	}
	cmd.AddCommand(newConfigListCmd(app))
	cmd.AddCommand(newConfigGetCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show effective settings (file plus environment)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := map[string]string{}
			for _, k := range store.ConfigKeys() {
				v, _ := app.cfg.Get(k)
				out[k] = v
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newConfigGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show one effective setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.cfg.Get(args[0])
			if err != nil {
				return model.InvalidArgument("key", "%v", err)
			}
			return writeOut(cmd, app, map[string]string{"key": args[0], "value": v})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write one setting to the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Edit the file alone so environment overrides are not persisted.
			cfg, err := store.LoadConfigFile()
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return model.InvalidArgument("key", "%v", err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return err
			}
			v, _ := cfg.Get(args[0])
			return writeOut(cmd, app, map[string]string{"key": args[0], "value": v})
		},
	}
}
