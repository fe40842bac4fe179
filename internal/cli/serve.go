package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulated factory over HTTP",
		Long: `Start an HTTP API over a factory deployed on an in-process EVM.

Routes live under /v1: accounts and implementations can be created,
proxies deployed, upgraded and handed to new owners, and addresses
predicted. State is kept in memory until the server stops.`,
		Example: `  proxyforge serve --addr 127.0.0.1:8080
  curl -s localhost:8080/v1/factory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Factory %s listening on http://%s\n",
				app.ManageProxies.Factory().Hex(), app.Server.Addr())
			return app.Server.Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to server.addr, 127.0.0.1:8545)")

	return cmd
}
