// Package config provides configuration management for the compute-to-data
// workflow.
//
// # Basic Configuration
//
// With a local Barge deployment no settings are needed: Validate selects the
// Development network and its node endpoint, and ApplyNetwork fills the
// Provider and Aquarius URLs once the node has reported its chain id.
//
//	cfg := &config.Config{
//		PublisherKey: "PUBLISHER_PRIVATE_KEY",
//		ConsumerKey:  "CONSUMER_PRIVATE_KEY",
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("invalid config: %v", err)
//	}
//
// # Environment
//
// FromEnv reads NODE_URI, PROVIDER_URL, AQUARIUS_URL, ADDRESS_FILE,
// ADDRESS_NETWORK, PUBLISHER_PRIVATE_KEY, CONSUMER_PRIVATE_KEY, IPFS_API_URL,
// PROVIDER_RPS and DEBUG, optionally loading .env files first:
//
//	cfg := config.FromEnv(".env")
//
// # Config File
//
// LoadFile reads the same settings from YAML. Overlay merges a second
// Config over it, so the environment can take precedence over the file:
//
//	cfg, err := config.LoadFile("c2d.yaml")
//	if err != nil {
//		return err
//	}
//	cfg.Overlay(config.FromEnv(".env"))
//
// # Contract Addresses
//
// Deployed contracts are read from the address file written by
// ocean-contracts (default ~/.ocean/ocean-contracts/artifacts/address.json).
// LoadAddresses returns one network section and fails with ErrAddressFile or
// ErrMissingAddress when the file or a required contract is unusable.
//
// # Timeouts
//
// Zero values are replaced with defaults via WithDefaults():
//
//	cfg.Timeouts = config.Timeouts{
//		ReceiptWait: 3 * time.Minute,
//		JobWait:     30 * time.Minute,
//	}
package config
