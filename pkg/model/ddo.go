package model

import (
	"github.com/ethereum/go-ethereum/common"
)

// Asset types used in Metadata.Type.
const (
	AssetTypeDataset   = "dataset"
	AssetTypeAlgorithm = "algorithm"
)

// Service types used in Service.Type.
const (
	ServiceTypeCompute = "compute"
	ServiceTypeAccess  = "access"
)

// DDO is the asset descriptor published on chain and indexed by Aquarius.
// Fields below Services are filled by Aquarius on resolution and are never
// sent when publishing.
type DDO struct {
	Context    []string  `json:"@context"`
	ID         string    `json:"id"`
	Version    string    `json:"version"`
	ChainID    uint64    `json:"chainId"`
	NftAddress string    `json:"nftAddress"`
	Metadata   Metadata  `json:"metadata"`
	Services   []Service `json:"services"`

	Event      *Event          `json:"event,omitempty"`
	NFT        *NFT            `json:"nft,omitempty"`
	Datatokens []DatatokenInfo `json:"datatokens,omitempty"`
	Purgatory  *Purgatory      `json:"purgatory,omitempty"`
}

// Metadata holds the descriptive part of a DDO.
type Metadata struct {
	Created               string             `json:"created"`
	Updated               string             `json:"updated"`
	Type                  string             `json:"type"`
	Name                  string             `json:"name"`
	Description           string             `json:"description"`
	Author                string             `json:"author"`
	License               string             `json:"license"`
	Tags                  []string           `json:"tags,omitempty"`
	AdditionalInformation map[string]any     `json:"additionalInformation,omitempty"`
	Algorithm             *AlgorithmMetadata `json:"algorithm,omitempty"`
}

// AlgorithmMetadata describes how the Provider runs an algorithm asset.
type AlgorithmMetadata struct {
	Language  string    `json:"language,omitempty"`
	Version   string    `json:"version,omitempty"`
	Container Container `json:"container"`
}

// Container is the docker image an algorithm runs in.
type Container struct {
	Entrypoint string `json:"entrypoint"`
	Image      string `json:"image"`
	Tag        string `json:"tag"`
	Checksum   string `json:"checksum"`
}

// Service is a capability exposed by an asset. Files always carries the
// Provider ciphertext, never a plaintext Files document.
type Service struct {
	ID               string         `json:"id"`
	Type             string         `json:"type"`
	Files            string         `json:"files"`
	DatatokenAddress string         `json:"datatokenAddress"`
	ServiceEndpoint  string         `json:"serviceEndpoint"`
	Timeout          int            `json:"timeout"`
	Name             string         `json:"name,omitempty"`
	Description      string         `json:"description,omitempty"`
	Compute          *ComputePolicy `json:"compute,omitempty"`
}

// ComputePolicy restricts which algorithms may run against a dataset.
type ComputePolicy struct {
	AllowRawAlgorithm                   bool                        `json:"allowRawAlgorithm"`
	AllowNetworkAccess                  bool                        `json:"allowNetworkAccess"`
	PublisherTrustedAlgorithmPublishers []string                    `json:"publisherTrustedAlgorithmPublishers"`
	PublisherTrustedAlgorithms          []PublisherTrustedAlgorithm `json:"publisherTrustedAlgorithms"`
}

// PublisherTrustedAlgorithm pins an algorithm by DID and checksums.
type PublisherTrustedAlgorithm struct {
	DID                      string `json:"did"`
	FilesChecksum            string `json:"filesChecksum"`
	ContainerSectionChecksum string `json:"containerSectionChecksum"`
}

// Event is the publication event recorded by Aquarius.
type Event struct {
	Tx       string `json:"tx"`
	Block    uint64 `json:"block"`
	From     string `json:"from"`
	Contract string `json:"contract"`
	Datetime string `json:"datetime"`
}

// NFT is the data NFT summary recorded by Aquarius.
type NFT struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	State   int    `json:"state"`
	Owner   string `json:"owner"`
	Created string `json:"created"`
}

// DatatokenInfo is a datatoken summary recorded by Aquarius.
type DatatokenInfo struct {
	Address   string `json:"address"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	ServiceID string `json:"serviceId"`
}

// Purgatory reports whether Aquarius has flagged the asset.
type Purgatory struct {
	State  bool   `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// Clone returns a deep copy of the publishable part of d.
func (d *DDO) Clone() *DDO {
	out := *d
	out.Context = append([]string(nil), d.Context...)
	out.Services = make([]Service, len(d.Services))
	for i, s := range d.Services {
		if s.Compute != nil {
			c := *s.Compute
			c.PublisherTrustedAlgorithmPublishers = append([]string{}, s.Compute.PublisherTrustedAlgorithmPublishers...)
			c.PublisherTrustedAlgorithms = append([]PublisherTrustedAlgorithm{}, s.Compute.PublisherTrustedAlgorithms...)
			s.Compute = &c
		}
		out.Services[i] = s
	}
	if d.Metadata.Algorithm != nil {
		a := *d.Metadata.Algorithm
		out.Metadata.Algorithm = &a
	}
	if d.Metadata.AdditionalInformation != nil {
		out.Metadata.AdditionalInformation = make(map[string]any, len(d.Metadata.AdditionalInformation))
		for k, v := range d.Metadata.AdditionalInformation {
			out.Metadata.AdditionalInformation[k] = v
		}
	}
	out.Metadata.Tags = append([]string(nil), d.Metadata.Tags...)
	out.Event, out.NFT, out.Datatokens, out.Purgatory = nil, nil, nil, nil
	return &out
}

// FirstService returns the first service entry or nil when there is none.
func (d *DDO) FirstService() *Service {
	if len(d.Services) == 0 {
		return nil
	}
	return &d.Services[0]
}

// GetDatatokenAddress returns the datatoken address of the first service.
func (d *DDO) GetDatatokenAddress() common.Address {
	s := d.FirstService()
	if s == nil {
		return common.Address{}
	}
	return common.HexToAddress(s.DatatokenAddress)
}
