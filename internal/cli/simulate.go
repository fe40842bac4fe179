package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/proxyforge/internal/adapters/fs"
	"github.com/trebuchet-org/proxyforge/internal/cli/render"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// NewSimulateCmd creates the simulate command
func NewSimulateCmd() *cobra.Command {
	var reportPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "simulate [scenario.yaml]",
		Short: "Run a proxy factory scenario on an in-process EVM",
		Long: `Run a scenario against a freshly deployed factory.

A scenario names accounts and implementations, then lists deploy, upgrade,
change_owner and call steps with their expected reverts, return values and
events. Every proxy saved by a step is checked at the end: its storage
slots, its admin's owner and the factory records must agree.

Without an argument the scenario is picked from the project's scenarios/
directory, with a prompt when there is more than one.

The command exits non-zero when any expectation fails.`,
		Example: `  proxyforge simulate scenarios/upgrade.yaml
  proxyforge simulate scenarios/upgrade.yaml --report out/upgrade.json -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.RunScenarioParams{ReportPath: reportPath}
			if len(args) == 1 {
				params.Path = args[0]
			}

			result, err := app.RunScenario.Run(cmd.Context(), params)
			var expectations *domain.ExpectationError
			if err != nil && !errors.As(err, &expectations) {
				return err
			}

			if app.Config.JSON {
				data, err := fs.MarshalReport(result)
				if err != nil {
					return err
				}
				if _, err := cmd.OutOrStdout().Write(data); err != nil {
					return err
				}
			} else if err := render.NewScenarioRenderer(cmd.OutOrStdout(), verbose).RenderScenario(result); err != nil {
				return err
			}

			if expectations != nil {
				return fmt.Errorf("scenario %q: %w", expectations.Scenario, domain.ErrScenarioFailed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON report to this path")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show events of passing steps")

	return cmd
}
