package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/proxyforge/internal/cli/render"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage proxyforge local config",
		Long: `Manage proxyforge local config stored in .proxyforge/config.local.json

The config holds defaults for profile, network and factory that are used
when the matching flags are not given.

Available subcommands:
  config           Show current config
  config set       Set a config value
  config remove    Remove a config value

When run without subcommands, displays the current config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	}

	cmd.AddCommand(NewConfigSetCmd())
	cmd.AddCommand(NewConfigRemoveCmd())

	return cmd
}

// NewConfigSetCmd creates the config set subcommand
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: `Set a config value in .proxyforge/config.local.json.
Available keys: ` + validKeys() + `

Examples:
  proxyforge config set network sepolia
  proxyforge config set factory 0x...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.SetConfig.Run(cmd.Context(), usecase.SetConfigParams{
				Key:   args[0],
				Value: args[1],
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), result)
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderSet(result)
		},
	}
}

// NewConfigRemoveCmd creates the config remove subcommand
func NewConfigRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove a config value",
		Long: `Remove a config value from .proxyforge/config.local.json.
Removing profile reverts it to 'default'.

Examples:
  proxyforge config remove network
  proxyforge config remove factory`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RemoveConfig.Run(cmd.Context(), usecase.RemoveConfigParams{Key: args[0]})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), result)
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderRemove(result)
		},
	}
}

// showConfig displays the current configuration
func showConfig(cmd *cobra.Command) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ShowConfig.Run(cmd.Context())
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return render.WriteJSON(cmd.OutOrStdout(), result)
	}
	return render.NewConfigRenderer(cmd.OutOrStdout()).RenderConfig(result)
}

func validKeys() string {
	keys := config.ValidConfigKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
