// Package model defines the documents exchanged with the Ocean Protocol
// services used by the compute-to-data workflow.
//
// This package contains:
//   - Asset descriptors (DDO) with their metadata and service entries
//   - File descriptors that are encrypted by the Provider before publication
//   - Compute environments, compute initialization results and provider fees
//   - Compute jobs and their status codes
//   - Document identifier (DID) derivation
//
// # Asset Descriptors
//
// A DDO describes a dataset or an algorithm:
//
//	ddo := &model.DDO{
//		Context: []string{"https://w3id.org/did/v1"},
//		Version: "4.1.0",
//		Metadata: model.Metadata{
//			Type: model.AssetTypeDataset,
//			Name: "dataset-name",
//		},
//		Services: []model.Service{{
//			ID:      "notAnId",
//			Type:    model.ServiceTypeCompute,
//			Timeout: 300,
//			Compute: &model.ComputePolicy{AllowRawAlgorithm: true},
//		}},
//	}
//
// The DDO identifier is only known once the data NFT exists on chain:
//
//	ddo.ID = model.GenerateDID(nftAddress, chainID)
//
// # File Descriptors
//
// Files lists the raw locations of an asset. It is bound to the asset's NFT
// and datatoken addresses and must be encrypted by the Provider; only the
// ciphertext is ever stored in Service.Files.
//
// # Provider Fees
//
// ProviderFees is returned by the Provider's initializeCompute endpoint and
// passed unchanged to the datatoken's startOrder/reuseOrder calls. Amounts
// accept both JSON strings and numbers.
package model
