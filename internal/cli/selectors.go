package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/proxyforge/internal/cli/render"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// NewSelectorsCmd creates the selectors command
func NewSelectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selectors [contract]",
		Short: "List function, event and error selectors",
		Long: `List the selectors of ProxyForge, TransparentProxy and MinimalAdmin.

TransparentProxy only answers upgradeToAndCall, and only for its admin.
Every other call is delegated to the implementation, so a function in the
implementation with the same selector is unreachable from the admin.`,
		Example: `  proxyforge selectors
  proxyforge selectors ProxyForge --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListSelectorsParams{}
			if len(args) == 1 {
				params.Contract = args[0]
			}

			selectors, err := app.ListSelectors.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), selectors)
			}
			return render.NewSelectorsRenderer(cmd.OutOrStdout()).RenderSelectors(selectors)
		},
	}
}
