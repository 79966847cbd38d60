// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/collectachain/deploy/pkg/application"
	"github.com/collectachain/deploy/pkg/config"
	"github.com/collectachain/deploy/pkg/constants"
	"github.com/collectachain/deploy/pkg/deployer"
	"github.com/collectachain/deploy/pkg/ux"
	luxlog "github.com/luxfi/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	app        *application.Collecta
	logFactory luxlog.Factory

	Version  = "0.1.0"
	cfgFile  string
	logLevel string

	// newFactoryProvider is replaced in tests to avoid a live network.
	newFactoryProvider = func(app *application.Collecta) (deployer.FactoryProvider, func(), error) {
		p, err := app.ContractProvider()
		if err != nil {
			return nil, nil, err
		}
		app.Log.Debug("deploying", zap.String("network", p.Network()))
		return deployer.FromContractProvider(p), p.Close, nil
	}
)

func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:   constants.CLIName,
		Short: "Deploy the CollectaChain contract",
		Long: `Deploys the compiled CollectaChain contract to an EVM network and prints
its address.

The target network and deployer account come from collecta.config.{yaml,json,toml}
in the working directory (or --config) and the COLLECTA_* environment:

  COLLECTA_NETWORK         network to deploy to (default: defaultNetwork, then localhost)
  COLLECTA_RPC_URL         rpc url of the selected network
  COLLECTA_PRIVATE_KEY     hex private key of the deployer
  COLLECTA_MNEMONIC        BIP-39 mnemonic, used when no private key is set
  COLLECTA_CHAIN_ID        expected chain id
  COLLECTA_DEPLOY_TIMEOUT  overall deploy timeout, e.g. 5m (default: none)
  COLLECTA_ARTIFACTS       compiled artifacts directory (default: artifacts)

On success a single line is printed:

  CollectaChain contract deployed to: <address>

Every run sends a new deployment transaction.`,
		Args:          cobra.NoArgs,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return createApp(v, stdout, stderr)
		},
		RunE: deploy,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	addFlags(rootCmd.PersistentFlags(), v)

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd
}

func addFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.StringVar(&cfgFile, constants.ConfigKey, "", "config file (default is ./collecta.config.{yaml,json,toml})")
	fs.StringVar(&logLevel, constants.LogLevelKey, constants.DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.String(constants.NetworkKey, "", "network to deploy to")
	_ = v.BindPFlag(constants.NetworkKey, fs.Lookup(constants.NetworkKey))
}

func createApp(v *viper.Viper, stdout, stderr io.Writer) error {
	log, err := setupLogging(logLevel)
	if err != nil {
		return err
	}
	conf, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	if f := conf.ConfigFileUsed(); f != "" {
		log.Debug("using config file", zap.String("config-file", f))
	}
	log.Debug("selected network", zap.String("network", conf.Selected()))
	app.Setup(
		log,
		conf,
		ux.NewUserLog(log, stdout),
		ux.NewProgressTracker(stderr, constants.ProgressWarnAfter),
	)
	return nil
}

// logDir is where the log file is written, under the user cache dir.
func logDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache dir: %w", err)
	}
	return filepath.Join(cacheDir, constants.CLIName, constants.LogDir), nil
}

func setupLogging(level string) (luxlog.Logger, error) {
	lvl, err := luxlog.ToLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", constants.LogLevelKey, err)
	}

	logConfig := luxlog.Config{}
	logConfig.LogLevel = lvl
	logConfig.DisplayLevel = lvl

	logConfig.Directory, err = logDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logConfig.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}

	logConfig.LogFormat = luxlog.Colors
	logConfig.MaxSize = constants.MaxLogFileSize
	logConfig.MaxFiles = constants.MaxNumOfLogFiles
	logConfig.MaxAge = constants.RetainOldFiles

	// caller tracking should show the call site, not the ux wrapper
	luxlog.RegisterInternalPackages("github.com/collectachain/deploy/pkg/ux")

	factory := luxlog.NewFactoryWithConfig(logConfig)
	log, err := factory.Make(constants.CLIName)
	if err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed setting up logging: %w", err)
	}
	logFactory = factory
	return log, nil
}

func deploy(cmd *cobra.Command, _ []string) error {
	provider, closeProvider, err := newFactoryProvider(app)
	if err != nil {
		return err
	}
	defer closeProvider()

	ctx, cancel := app.DeployContext(cmd.Context())
	defer cancel()
	return app.NewRunner(provider).Run(ctx)
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app = application.New()
	rootCmd := NewRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if logFactory != nil {
		logFactory.Close()
		logFactory = nil
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %s\n", err)
		return deployer.ExitFailure
	}
	return deployer.ExitSuccess
}

// Execute runs the root command against the process arguments and exits.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
