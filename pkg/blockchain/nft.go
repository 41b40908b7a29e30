package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Metadata states accepted by setMetaData.
const (
	MetadataActive     uint8 = 0
	MetadataEndOfLife  uint8 = 1
	MetadataDeprecated uint8 = 2
	MetadataRevoked    uint8 = 3
)

// MetadataFlagEncrypted marks the data field as Provider-encrypted.
var MetadataFlagEncrypted = []byte{0x02}

// MetadataUpdate is the argument set of ERC721Template.setMetaData.
type MetadataUpdate struct {
	State            uint8
	DecryptorURL     string
	DecryptorAddress string
	Flags            []byte
	Data             []byte
	Hash             common.Hash
	Proofs           []MetadataProof
}

// SetMetadata publishes md on the data NFT at nft, signed by owner.
func (evm *EVMClient) SetMetadata(ctx context.Context, nft common.Address, owner *Account, md MetadataUpdate) (common.Hash, error) {
	proofs := md.Proofs
	if proofs == nil {
		proofs = []MetadataProof{}
	}

	receipt, err := evm.transact(ctx, evm.bound(nft, NFTTemplateABI), owner, "setMetaData",
		md.State, md.DecryptorURL, md.DecryptorAddress, md.Flags, md.Data, [32]byte(md.Hash), proofs)
	if err != nil {
		return common.Hash{}, fmt.Errorf("set metadata on %s: %w", nft.Hex(), err)
	}
	zap.L().Debug("metadata set", zap.String("nft", nft.Hex()), zap.String("tx", receipt.TxHash.Hex()))
	return receipt.TxHash, nil
}
