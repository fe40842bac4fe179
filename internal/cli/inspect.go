package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/proxyforge/internal/cli/render"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var rpcURL, factory string

	cmd := &cobra.Command{
		Use:   "inspect <proxy>",
		Short: "Read a deployed proxy's slots, admin and factory records",
		Long: `Read a transparent proxy over JSON-RPC and check it is consistent.

The implementation and admin slots are read directly from storage. The
admin is expected at CREATE(proxy, 1) and its owner is read from it. When
a factory is known, through --factory or the profile, its records for the
proxy are compared with the slots as well.

The command exits non-zero when records and slots disagree.`,
		Example: `  proxyforge inspect 0x... --network sepolia
  proxyforge inspect 0x... --rpc http://127.0.0.1:8545 --factory 0x...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.InspectProxyParams{RPCURL: rpcURL}
			if params.Proxy, err = parseAddress("proxy", args[0]); err != nil {
				return err
			}
			if factory != "" {
				addr, err := parseAddress("factory", factory)
				if err != nil {
					return err
				}
				params.Factory = &addr
			}

			result, err := app.InspectProxy.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				if err := render.WriteJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else if err := render.NewProxyRenderer(cmd.OutOrStdout()).RenderInspection(result); err != nil {
				return err
			}

			if len(result.Mismatches) > 0 {
				return fmt.Errorf("%s: %w", params.Proxy.Hex(), domain.ErrRecordMismatch)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rpcURL, "rpc", "", "JSON-RPC endpoint (overrides --network)")
	cmd.Flags().StringVar(&factory, "factory", "", "Factory holding the proxy's records")

	return cmd
}
