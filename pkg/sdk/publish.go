package sdk

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/shamank/ocean-c2d-go/pkg/blockchain"
	"github.com/shamank/ocean-c2d-go/pkg/model"
)

// Default publication inputs.
const (
	DefaultFileURL = "https://raw.githubusercontent.com/oceanprotocol/testdatasets/main/shs_dataset_test.txt"

	DefaultDatasetName   = "D1Min"
	DefaultDatasetSymbol = "D1M"
	DefaultAlgoName      = "D1Min"
	DefaultAlgoSymbol    = "D1M"

	ddoVersion     = "4.1.0"
	serviceTimeout = 300
	publishedAt    = "2021-12-20T14:35:20Z"
	algoChecksum   = "sha256:2d7ecc9c5e08953d586a6e50c29b91479a48f69ac1ba1f9dc0420d18a728dfc5"
)

func defaultMetadata(kind, name, description string) model.Metadata {
	return model.Metadata{
		Created:               publishedAt,
		Updated:               publishedAt,
		Type:                  kind,
		Name:                  name,
		Description:           description,
		Author:                "oceanprotocol-team",
		License:               "https://market.oceanprotocol.com/terms",
		AdditionalInformation: map[string]any{"termsAndConditions": true},
	}
}

// DefaultDatasetDDO returns a dataset template with one compute service that
// accepts raw algorithms.
func DefaultDatasetDDO() *model.DDO {
	return &model.DDO{
		Context:  []string{"https://w3id.org/did/v1"},
		Version:  ddoVersion,
		Metadata: defaultMetadata(model.AssetTypeDataset, "dataset-name", "Ocean protocol test dataset description"),
		Services: []model.Service{{
			ID:      "notAnId",
			Type:    model.ServiceTypeCompute,
			Timeout: serviceTimeout,
			Compute: &model.ComputePolicy{
				AllowRawAlgorithm:                   true,
				AllowNetworkAccess:                  true,
				PublisherTrustedAlgorithmPublishers: []string{},
				PublisherTrustedAlgorithms:          []model.PublisherTrustedAlgorithm{},
			},
		}},
	}
}

// DefaultAlgorithmDDO returns an algorithm template with one access service
// running in the ubuntu image.
func DefaultAlgorithmDDO() *model.DDO {
	md := defaultMetadata(model.AssetTypeAlgorithm, "algorithm-name", "Ocean protocol test algorithm description")
	md.Algorithm = &model.AlgorithmMetadata{
		Language: "Node.js",
		Version:  "1.0.0",
		Container: model.Container{
			Entrypoint: "node $ALGO",
			Image:      "ubuntu",
			Tag:        "latest",
			Checksum:   algoChecksum,
		},
	}
	return &model.DDO{
		Context:  []string{"https://w3id.org/did/v1"},
		Version:  ddoVersion,
		Metadata: md,
		Services: []model.Service{{
			ID:      "notAnId",
			Type:    model.ServiceTypeAccess,
			Timeout: serviceTimeout,
		}},
	}
}

// CreateAsset publishes ddo as a new asset owned by owner and returns its DID.
//
// It deploys a data NFT with one datatoken, encrypts files scoped to those
// contracts through the Provider, stores only the ciphertext in the first
// service, validates the DDO with Aquarius and writes the encrypted DDO and
// its validation hash to the NFT. The caller's ddo is not modified.
func (c *Core) CreateAsset(ctx context.Context, name, symbol string, owner *blockchain.Account, files *model.Files, ddo *model.DDO) (string, error) {
	if owner == nil {
		return "", fmt.Errorf("create asset %s: owner account required", name)
	}
	if ddo == nil || ddo.FirstService() == nil {
		return "", fmt.Errorf("create asset %s: ddo needs a service", name)
	}
	if files == nil {
		return "", fmt.Errorf("create asset %s: files required", name)
	}
	if err := files.Validate(); err != nil {
		return "", fmt.Errorf("create asset %s: %w", name, err)
	}

	ddo = ddo.Clone()
	ddo.ChainID = c.chainID.Uint64()
	log := c.log.With(zap.String("asset", name))

	created, err := c.chain.CreateNftWithDatatoken(ctx, c.addresses.ERC721Factory, owner,
		blockchain.DefaultNftCreateData(name, symbol, owner.Address),
		blockchain.DefaultErcCreateData("Datatoken "+name, symbol+"DT", owner.Address))
	if err != nil {
		return "", fmt.Errorf("create nft: %w", err)
	}
	log.Info("data nft created",
		zap.String("nft", created.NftAddress.Hex()),
		zap.String("datatoken", created.DatatokenAddress.Hex()),
		zap.String("tx", created.TxHash.Hex()))

	scoped := *files
	scoped.NftAddress = created.NftAddress.Hex()
	scoped.DatatokenAddress = created.DatatokenAddress.Hex()
	encryptedFiles, err := c.provider.Encrypt(ctx, &scoped, c.chainID)
	if err != nil {
		return "", fmt.Errorf("encrypt files: %w", err)
	}

	svc := ddo.FirstService()
	svc.Files = encryptedFiles
	svc.DatatokenAddress = created.DatatokenAddress.Hex()
	svc.ServiceEndpoint = c.provider.URL()
	ddo.NftAddress = created.NftAddress.Hex()
	ddo.ID = model.GenerateDID(created.NftAddress, c.chainID)

	encryptedDDO, err := c.provider.Encrypt(ctx, ddo, c.chainID)
	if err != nil {
		return "", fmt.Errorf("encrypt ddo: %w", err)
	}
	data, err := decodeCiphertext(encryptedDDO)
	if err != nil {
		return "", fmt.Errorf("decode encrypted ddo: %w", err)
	}
	if containsPlaintext(data, &scoped) {
		return "", fmt.Errorf("encrypted ddo still contains the file location")
	}

	validation, err := c.aquarius.Validate(ctx, ddo)
	if err != nil {
		return "", fmt.Errorf("validate ddo: %w", err)
	}

	tx, err := c.chain.SetMetadata(ctx, created.NftAddress, owner, blockchain.MetadataUpdate{
		State:        blockchain.MetadataActive,
		DecryptorURL: c.provider.URL(),
		Flags:        blockchain.MetadataFlagEncrypted,
		Data:         data,
		Hash:         common.HexToHash(validation.Hash),
	})
	if err != nil {
		return "", fmt.Errorf("set metadata: %w", err)
	}
	log.Info("asset published", zap.String("did", ddo.ID), zap.String("tx", tx.Hex()))
	return ddo.ID, nil
}

// decodeCiphertext accepts the Provider's hex output with or without 0x.
func decodeCiphertext(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

// containsPlaintext reports whether any raw location of files appears in data.
func containsPlaintext(data []byte, files *model.Files) bool {
	for _, f := range files.Files {
		for _, loc := range []string{f.URL, f.Hash} {
			if loc != "" && bytes.Contains(data, []byte(loc)) {
				return true
			}
		}
	}
	return false
}

// PublishFile adds the content to IPFS and returns a descriptor for it.
func (c *Core) PublishFile(ctx context.Context, content []byte) (*model.Files, error) {
	if c.storage == nil {
		return nil, fmt.Errorf("ipfs storage not configured")
	}
	hash, err := c.storage.UploadFile(ctx, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("upload to ipfs: %w", err)
	}
	c.log.Info("file added to ipfs", zap.String("cid", hash))
	return model.NewIPFSFiles(hash), nil
}
