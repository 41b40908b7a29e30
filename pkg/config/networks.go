package config

// Network describes a chain and the default service endpoints used on it.
// ChainID is the decimal chain id; Name is the address file section.
type Network struct {
	ChainID          string `json:"chain_id" yaml:"chain_id"`
	Name             string `json:"network_name" yaml:"network_name"`
	NodeURI          string `json:"node_uri" yaml:"node_uri"`
	ProviderURI      string `json:"provider_uri" yaml:"provider_uri"`
	MetadataCacheURI string `json:"metadata_cache_uri" yaml:"metadata_cache_uri"`
}

const remoteAquarius = "https://v4.aquarius.oceanprotocol.com"

// Development is a local Barge deployment.
var Development = Network{
	ChainID:          "8996",
	Name:             "development",
	NodeURI:          "http://127.0.0.1:8545",
	ProviderURI:      "http://172.15.0.4:8030",
	MetadataCacheURI: "http://172.15.0.5:5000",
}

// Main is Ethereum mainnet.
var Main = Network{
	ChainID:          "1",
	Name:             "mainnet",
	ProviderURI:      "https://v4.provider.mainnet.oceanprotocol.com",
	MetadataCacheURI: remoteAquarius,
}

// Goerli is the Goerli testnet.
var Goerli = Network{
	ChainID:          "5",
	Name:             "goerli",
	ProviderURI:      "https://v4.provider.goerli.oceanprotocol.com",
	MetadataCacheURI: remoteAquarius,
}

// Polygon is Polygon mainnet.
var Polygon = Network{
	ChainID:          "137",
	Name:             "polygon",
	NodeURI:          "https://polygon-rpc.com",
	ProviderURI:      "https://v4.provider.polygon.oceanprotocol.com",
	MetadataCacheURI: remoteAquarius,
}

// Mumbai is the Polygon Mumbai testnet.
var Mumbai = Network{
	ChainID:          "80001",
	Name:             "mumbai",
	ProviderURI:      "https://v4.provider.mumbai.oceanprotocol.com",
	MetadataCacheURI: remoteAquarius,
}

// Sepolia is the Ethereum Sepolia testnet.
var Sepolia = Network{
	ChainID:          "11155111",
	Name:             "sepolia",
	ProviderURI:      "https://v4.provider.oceanprotocol.com",
	MetadataCacheURI: remoteAquarius,
}

var networks = []Network{Development, Main, Goerli, Polygon, Mumbai, Sepolia}

// NetworkForChainID returns the predefined network for chainID.
func NetworkForChainID(chainID string) (Network, bool) {
	for _, n := range networks {
		if n.ChainID == chainID {
			return n, true
		}
	}
	return Network{}, false
}
