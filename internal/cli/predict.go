package cli

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/proxyforge/internal/cli/render"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// NewPredictCmd creates the predict command group
func NewPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict deployment addresses",
		Long: `Derive the address a contract will be created at, without a chain.

Salts are either a hex word of up to 32 bytes or "<address>:<n>", which
places the address in the upper 20 bytes and n (below 2^96) in the rest.
Only that address, or anyone when the prefix is zero, can use such a salt
with the proxy factory.`,
	}

	cmd.AddCommand(newPredictCreateCmd())
	cmd.AddCommand(newPredictCreate2Cmd())
	cmd.AddCommand(newPredictProxyCmd())

	return cmd
}

func newPredictCreateCmd() *cobra.Command {
	var deployer, nonce string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Predict a CREATE address from deployer and nonce",
		Example: `  proxyforge predict create --deployer 0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0 --nonce 0`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := usecase.PredictAddressParams{Mode: models.PredictCreate}

			var err error
			if params.Deployer, err = parseAddress("deployer", deployer); err != nil {
				return err
			}
			if params.Nonce, err = parseUint("nonce", nonce); err != nil {
				return err
			}
			return runPrediction(cmd, params)
		},
	}

	cmd.Flags().StringVar(&deployer, "deployer", "", "Deploying account")
	cmd.Flags().StringVar(&nonce, "nonce", "0", "Deployer nonce")
	_ = cmd.MarkFlagRequired("deployer")

	return cmd
}

func newPredictCreate2Cmd() *cobra.Command {
	var deployer, salt, initCode, initCodeHash string

	cmd := &cobra.Command{
		Use:   "create2",
		Short: "Predict a CREATE2 address from deployer, salt and init code",
		Example: `  proxyforge predict create2 --deployer 0x4e59b44847b379578588920ca78fbf26c0b4956c \
    --salt 0x01 --init-code-hash 0x...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := usecase.PredictAddressParams{Mode: models.PredictCreate2}

			var err error
			if params.Deployer, err = parseAddress("deployer", deployer); err != nil {
				return err
			}
			if params.Salt, err = parseSalt(salt); err != nil {
				return err
			}
			if initCodeHash != "" {
				b, err := parseHexData("init-code-hash", initCodeHash)
				if err != nil {
					return err
				}
				hash := common.BytesToHash(b)
				params.InitCodeHash = &hash
			} else if params.InitCode, err = parseHexData("init-code", initCode); err != nil {
				return err
			}
			return runPrediction(cmd, params)
		},
	}

	cmd.Flags().StringVar(&deployer, "deployer", "", "Deploying contract")
	cmd.Flags().StringVar(&salt, "salt", "0x0", "Salt word or <address>:<n>")
	cmd.Flags().StringVar(&initCode, "init-code", "", "Creation code with constructor arguments")
	cmd.Flags().StringVar(&initCodeHash, "init-code-hash", "", "keccak256 of the creation code")
	cmd.MarkFlagsMutuallyExclusive("init-code", "init-code-hash")
	cmd.MarkFlagsOneRequired("init-code", "init-code-hash")
	_ = cmd.MarkFlagRequired("deployer")

	return cmd
}

func newPredictProxyCmd() *cobra.Command {
	var factory, implementation, salt, data, caller string

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Predict the address of a factory-deployed proxy",
		Long: `Predict where the factory will place a transparent proxy.

The factory defaults to the profile's factory, and otherwise to the one
deployed on the in-process simulation. With --caller the output also
says whether the salt is usable by that caller.`,
		Example: `  proxyforge predict proxy --implementation 0x... --salt 0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0:1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.PredictAddressParams{Mode: models.PredictProxy}
			switch {
			case factory != "":
				if params.Deployer, err = parseAddress("factory", factory); err != nil {
					return err
				}
			case app.Config.Simulation.Factory != "":
				if params.Deployer, err = parseAddress("factory", app.Config.Simulation.Factory); err != nil {
					return err
				}
			default:
				params.Deployer = app.ManageProxies.Factory()
			}
			if params.Implementation, err = parseAddress("implementation", implementation); err != nil {
				return err
			}
			if params.Salt, err = parseSalt(salt); err != nil {
				return err
			}
			if params.Data, err = parseHexData("data", data); err != nil {
				return err
			}
			if caller != "" {
				addr, err := parseAddress("caller", caller)
				if err != nil {
					return err
				}
				params.Caller = &addr
			}
			return runPrediction(cmd, params)
		},
	}

	cmd.Flags().StringVar(&factory, "factory", "", "Factory address")
	cmd.Flags().StringVar(&implementation, "implementation", "", "Implementation the proxy starts with")
	cmd.Flags().StringVar(&salt, "salt", "0x0", "Salt word or <address>:<n>")
	cmd.Flags().StringVar(&data, "data", "", "Initializer calldata")
	cmd.Flags().StringVar(&caller, "caller", "", "Account that will call the factory")
	_ = cmd.MarkFlagRequired("implementation")

	return cmd
}

func runPrediction(cmd *cobra.Command, params usecase.PredictAddressParams) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	prediction, err := app.PredictAddress.Run(cmd.Context(), params)
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return render.WriteJSON(cmd.OutOrStdout(), prediction)
	}
	return render.NewPredictionRenderer(cmd.OutOrStdout()).RenderPrediction(prediction)
}
