package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
)

// ProjectFile is the project configuration file name
const ProjectFile = "proxyforge.toml"

// DefaultProfile is used when no profile is selected
const DefaultProfile = "default"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = ResolveProjectRoot()
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".proxyforge"),
		Profile:        v.GetString("profile"),
		Debug:          v.GetBool("debug"),
		JSON:           v.GetBool("json"),
		NonInteractive: v.GetBool("non_interactive"),
		Timeout:        v.GetDuration("timeout"),
		ServerAddr:     v.GetString("server.addr"),
	}
	if cfg.Profile == "" {
		cfg.Profile = DefaultProfile
	}

	projectConfig, err := LoadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	cfg.ProjectConfig = projectConfig

	profile := projectConfig.Profile[cfg.Profile]
	if cfg.Simulation, err = resolveSimulation(profile); err != nil {
		return nil, fmt.Errorf("profile %s: %w", cfg.Profile, err)
	}
	if factory := v.GetString("factory"); factory != "" {
		cfg.Simulation.Factory = factory
	}

	if networkName := v.GetString("network"); networkName != "" {
		network, err := ResolveNetwork(projectConfig, networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		network.ChainID = profile.ChainID
		cfg.Network = network
	}

	return cfg, nil
}

func resolveSimulation(profile config.ProfileConfig) (config.SimulationConfig, error) {
	sim := config.SimulationConfig{
		Deployer: profile.Deployer,
		Factory:  profile.Factory,
	}
	if profile.Balance != "" {
		balance, ok := new(big.Int).SetString(profile.Balance, 0)
		if !ok || balance.Sign() < 0 {
			return sim, fmt.Errorf("invalid balance %q", profile.Balance)
		}
		sim.Balance = balance
	}
	return sim, nil
}

// FindProjectRoot walks up from current directory to find proxyforge.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a proxyforge project (%s not found)", ProjectFile)
		}
		dir = parent
	}
}

// ResolveProjectRoot is FindProjectRoot falling back to the working
// directory, since no command requires a project file.
func ResolveProjectRoot() string {
	if root, err := FindProjectRoot(); err == nil {
		return root
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".proxyforge"))

	v.SetEnvPrefix("PROXYFORGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("profile", DefaultProfile)
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("json", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("server.addr", "127.0.0.1:8545")
	v.SetDefault("project_root", projectRoot)

	// Missing config file is fine
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(flagKey(f.Name), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// flagKey maps flag names to config keys where they differ
func flagKey(name string) string {
	switch name {
	case "addr":
		return "server.addr"
	default:
		return strings.ReplaceAll(name, "-", "_")
	}
}
