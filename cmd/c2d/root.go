package main

import (
	"github.com/spf13/cobra"

	"github.com/shamank/ocean-c2d-go/pkg/config"
	"github.com/shamank/ocean-c2d-go/pkg/sdk"
)

var flags struct {
	configFile     string
	envFile        string
	nodeURI        string
	providerURL    string
	aquariusURL    string
	addressFile    string
	addressNetwork string
	ipfsURL        string
	debug          bool
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(envsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(healthCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "YAML config file; environment and flags override it")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.StringVar(&flags.nodeURI, "node-uri", "", "Ethereum RPC endpoint (env "+config.EnvNodeURI+")")
	pf.StringVar(&flags.providerURL, "provider-url", "", "Ocean Provider URL (env "+config.EnvProviderURL+")")
	pf.StringVar(&flags.aquariusURL, "aquarius-url", "", "Aquarius URL (env "+config.EnvAquariusURL+")")
	pf.StringVar(&flags.addressFile, "address-file", "", "contract address file (env "+config.EnvAddressFile+")")
	pf.StringVar(&flags.addressNetwork, "address-network", "", "section of the address file (env "+config.EnvAddressNetwork+")")
	pf.StringVar(&flags.ipfsURL, "ipfs-url", "", "IPFS HTTP API used for local files (env "+config.EnvIpfsURL+")")
	pf.BoolVar(&flags.debug, "debug", false, "verbose logging (env "+config.EnvDebug+")")
}

var rootCmd = &cobra.Command{
	Use:           "c2d",
	Short:         "Ocean compute-to-data",
	Long:          `Publish a dataset and an algorithm on Ocean, order them and run a compute job.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfig reads the optional config file, overlays the environment and
// applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if flags.configFile != "" {
		file, err := config.LoadFile(flags.configFile)
		if err != nil {
			return nil, err
		}
		cfg = file
	}
	cfg.Overlay(config.FromEnv(flags.envFile))
	override(&cfg.NodeURI, flags.nodeURI)
	override(&cfg.ProviderURL, flags.providerURL)
	override(&cfg.AquariusURL, flags.aquariusURL)
	override(&cfg.AddressFile, flags.addressFile)
	override(&cfg.AddressNetwork, flags.addressNetwork)
	override(&cfg.IpfsURL, flags.ipfsURL)
	if flags.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func newCore(cmd *cobra.Command) (*sdk.Core, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return sdk.NewSDK(cmd.Context(), cfg)
}
