// Package config defines the runtime configuration of the compute-to-data
// workflow: node, Provider and Aquarius endpoints, the contract address file,
// account keys, IPFS API, debug mode and operation timeouts. It also provides
// validation and defaulting helpers.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// DefaultAddressFile is where a local Barge deployment writes contract addresses.
const DefaultAddressFile = "~/.ocean/ocean-contracts/artifacts/address.json"

// Config holds all settings required to initialize chain and service clients.
// Use Validate to fill implicit defaults and to check for required fields.
type Config struct {
	// Network selects the default endpoints for a chain. Defaults to Development.
	Network Network `json:"network" yaml:"network"`
	// NodeURI is the Ethereum RPC endpoint URL.
	NodeURI string `json:"node_uri" yaml:"node_uri"`
	// ProviderURL is the Ocean Provider base URL.
	ProviderURL string `json:"provider_url" yaml:"provider_url"`
	// AquariusURL is the metadata cache base URL.
	AquariusURL string `json:"aquarius_url" yaml:"aquarius_url"`
	// AddressFile is the JSON file with deployed contract addresses.
	AddressFile string `json:"address_file" yaml:"address_file"`
	// AddressNetwork is the top-level section of AddressFile to read.
	AddressNetwork string `json:"address_network" yaml:"address_network"`
	// PublisherKey is the hex-encoded key of the account that publishes assets.
	PublisherKey string `json:"publisher_key" yaml:"publisher_key"`
	// ConsumerKey is the hex-encoded key of the account that orders and computes.
	ConsumerKey string `json:"consumer_key" yaml:"consumer_key"`
	// IpfsURL is the HTTP API endpoint of an IPFS node (optional).
	IpfsURL string `json:"ipfs_url" yaml:"ipfs_url"`
	// ProviderRPS caps Provider requests per second; 0 means no limit.
	ProviderRPS float64 `json:"provider_rps" yaml:"provider_rps"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
	// Timeouts configures per-operation timeouts. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// Timeouts controls operation deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	Dial         time.Duration `json:"dial" yaml:"dial"`                   // node dial/connect
	ChainRead    time.Duration `json:"chain_read" yaml:"chain_read"`       // eth_call, chain id, allowance
	ReceiptWait  time.Duration `json:"receipt_wait" yaml:"receipt_wait"`   // wait tx
	HTTP         time.Duration `json:"http" yaml:"http"`                   // single Provider/Aquarius request
	IndexWait    time.Duration `json:"index_wait" yaml:"index_wait"`       // wait for Aquarius to index an asset
	JobWait      time.Duration `json:"job_wait" yaml:"job_wait"`           // wait for a compute job to finish
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"` // first polling interval
}

// Validate normalizes the configuration by applying implicit defaults for
// Network (Development), NodeURI, AddressFile and AddressNetwork, and verifies
// that a node endpoint is known. Provider and Aquarius URLs stay empty until
// ApplyNetwork fills them from the chain the node reports.
func (c *Config) Validate() error {
	if c.Network.ChainID == "" {
		c.Network = Development
	}

	if c.NodeURI == "" {
		c.NodeURI = c.Network.NodeURI
	}

	if c.AddressFile == "" {
		c.AddressFile = DefaultAddressFile
	}
	c.AddressFile = expandHome(c.AddressFile)

	if c.AddressNetwork == "" {
		c.AddressNetwork = Development.Name
	}

	if c.NodeURI == "" {
		return errors.New("node URI is required")
	}

	c.Timeouts = c.Timeouts.WithDefaults()
	return nil
}

// ApplyNetwork fills ProviderURL and AquariusURL from the network known for
// chainID when they were not set explicitly. Unknown chains fall back to the
// configured Network.
func (c *Config) ApplyNetwork(chainID string) {
	if n, ok := NetworkForChainID(chainID); ok {
		c.Network = n
	}
	if c.ProviderURL == "" {
		c.ProviderURL = c.Network.ProviderURI
	}
	if c.AquariusURL == "" {
		c.AquariusURL = c.Network.MetadataCacheURI
	}
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Dial:         5s
//	ChainRead:    12s
//	ReceiptWait:  90s
//	HTTP:         30s
//	IndexWait:    150s
//	JobWait:      10m
//	PollInterval: 1.5s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Dial == 0 {
		tt.Dial = 5 * time.Second
	}
	if tt.ChainRead == 0 {
		tt.ChainRead = 12 * time.Second
	}
	if tt.ReceiptWait == 0 {
		tt.ReceiptWait = 90 * time.Second
	}
	if tt.HTTP == 0 {
		tt.HTTP = 30 * time.Second
	}
	if tt.IndexWait == 0 {
		tt.IndexWait = 150 * time.Second
	}
	if tt.JobWait == 0 {
		tt.JobWait = 10 * time.Minute
	}
	if tt.PollInterval == 0 {
		tt.PollInterval = 1500 * time.Millisecond
	}
	return tt
}

func expandHome(p string) string {
	if p == "~" || len(p) > 1 && p[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[1:])
	}
	return p
}
