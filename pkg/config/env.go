package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Environment variables read by FromEnv.
const (
	EnvNodeURI        = "NODE_URI"
	EnvProviderURL    = "PROVIDER_URL"
	EnvAquariusURL    = "AQUARIUS_URL"
	EnvAddressFile    = "ADDRESS_FILE"
	EnvAddressNetwork = "ADDRESS_NETWORK"
	EnvPublisherKey   = "PUBLISHER_PRIVATE_KEY"
	EnvConsumerKey    = "CONSUMER_PRIVATE_KEY"
	EnvIpfsURL        = "IPFS_API_URL"
	EnvProviderRPS    = "PROVIDER_RPS"
	EnvDebug          = "DEBUG"
)

// FromEnv builds a Config from the process environment. When envFiles are
// given they are loaded first with godotenv; variables already set in the
// environment win. Missing files are ignored. The result is not validated.
func FromEnv(envFiles ...string) *Config {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			zap.L().Debug("env file not loaded", zap.String("file", f), zap.Error(err))
		}
	}

	cfg := &Config{
		NodeURI:        os.Getenv(EnvNodeURI),
		ProviderURL:    os.Getenv(EnvProviderURL),
		AquariusURL:    os.Getenv(EnvAquariusURL),
		AddressFile:    os.Getenv(EnvAddressFile),
		AddressNetwork: os.Getenv(EnvAddressNetwork),
		PublisherKey:   os.Getenv(EnvPublisherKey),
		ConsumerKey:    os.Getenv(EnvConsumerKey),
		IpfsURL:        os.Getenv(EnvIpfsURL),
	}
	if v, err := strconv.ParseFloat(os.Getenv(EnvProviderRPS), 64); err == nil {
		cfg.ProviderRPS = v
	}
	if v, err := strconv.ParseBool(os.Getenv(EnvDebug)); err == nil {
		cfg.Debug = v
	}
	return cfg
}
