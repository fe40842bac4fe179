package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/proxyforge/internal/adapters/progress"
	"github.com/trebuchet-org/proxyforge/internal/app"
	"github.com/trebuchet-org/proxyforge/internal/config"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "proxyforge",
		Short: "Deterministic transparent proxy factory toolkit",
		Long: `proxyforge predicts CREATE and CREATE2 addresses, runs proxy factory
scenarios on an in-process EVM, inspects deployed proxies over RPC and
serves the factory as an HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot := config.ResolveProjectRoot()
			v := config.SetupViper(projectRoot, cmd)

			sink := newProgressSink(v.GetBool("json"))

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			var cancel context.CancelFunc = func() {}
			if appInstance.Config.Timeout > 0 && cmd.Name() != "serve" {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			// PostRun is skipped on error, so cleanup wraps RunE instead
			if run := cmd.RunE; run != nil {
				cmd.RunE = func(cmd *cobra.Command, args []string) error {
					defer cancel()
					defer stopSink(sink)
					return run(cmd, args)
				}
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network from proxyforge.toml or an RPC URL")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "Profile from proxyforge.toml (defaults to 'default')")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	for _, cmd := range []*cobra.Command{
		NewPredictCmd(),
		NewSimulateCmd(),
		NewInspectCmd(),
		NewServeCmd(),
	} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}

	// Management commands
	for _, cmd := range []*cobra.Command{
		NewSelectorsCmd(),
		NewConfigCmd(),
	} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newProgressSink shows a spinner on interactive terminals and stays quiet
// for JSON output or redirected stderr
func newProgressSink(jsonOutput bool) usecase.ProgressSink {
	if jsonOutput || !isatty.IsTerminal(os.Stderr.Fd()) {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerProgressReporter()
}

func stopSink(sink usecase.ProgressSink) {
	if s, ok := sink.(interface{ Stop() }); ok {
		s.Stop()
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
