package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// CreatedAsset holds the contracts deployed by one createNftWithErc20 call.
type CreatedAsset struct {
	NftAddress       common.Address
	DatatokenAddress common.Address
	TxHash           common.Hash
}

// CreateNftWithDatatoken deploys a data NFT and its first datatoken in a
// single ERC721Factory transaction sent by owner. The deployed addresses are
// read from the NFTCreated and TokenCreated events of the receipt.
func (evm *EVMClient) CreateNftWithDatatoken(ctx context.Context, factory common.Address, owner *Account, nft NftCreateData, erc ErcCreateData) (*CreatedAsset, error) {
	contract := evm.bound(factory, FactoryABI)

	receipt, err := evm.transact(ctx, contract, owner, "createNftWithErc20", nft, erc)
	if err != nil {
		return nil, err
	}

	created, err := ParseCreatedAsset(contract, receipt)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("data NFT created",
		zap.String("nft", created.NftAddress.Hex()),
		zap.String("datatoken", created.DatatokenAddress.Hex()),
		zap.String("tx", created.TxHash.Hex()))
	return created, nil
}

// ParseCreatedAsset extracts the NFT and datatoken addresses from a factory
// receipt. A receipt missing either event yields ErrEventNotFound.
func ParseCreatedAsset(factory *bind.BoundContract, receipt *types.Receipt) (*CreatedAsset, error) {
	var (
		nftEvent   *NFTCreatedEvent
		tokenEvent *TokenCreatedEvent
	)
	for _, l := range receipt.Logs {
		if l == nil || len(l.Topics) == 0 {
			continue
		}
		switch l.Topics[0] {
		case FactoryABI.Events["NFTCreated"].ID:
			ev := new(NFTCreatedEvent)
			if err := factory.UnpackLog(ev, "NFTCreated", *l); err != nil {
				return nil, fmt.Errorf("decode NFTCreated: %w", err)
			}
			nftEvent = ev
		case FactoryABI.Events["TokenCreated"].ID:
			ev := new(TokenCreatedEvent)
			if err := factory.UnpackLog(ev, "TokenCreated", *l); err != nil {
				return nil, fmt.Errorf("decode TokenCreated: %w", err)
			}
			if tokenEvent == nil {
				tokenEvent = ev
			}
		}
	}

	if nftEvent == nil {
		return nil, fmt.Errorf("NFTCreated: %w", ErrEventNotFound)
	}
	if tokenEvent == nil {
		return nil, fmt.Errorf("TokenCreated: %w", ErrEventNotFound)
	}
	return &CreatedAsset{
		NftAddress:       nftEvent.NewTokenAddress,
		DatatokenAddress: tokenEvent.NewTokenAddress,
		TxHash:           receipt.TxHash,
	}, nil
}

// DefaultNftCreateData returns the NFT parameters used for published assets:
// template 1, a transferable token owned by owner.
func DefaultNftCreateData(name, symbol string, owner common.Address) NftCreateData {
	return NftCreateData{
		Name:          name,
		Symbol:        symbol,
		TemplateIndex: big.NewInt(1),
		TokenURI:      "aaa",
		Transferable:  true,
		Owner:         owner,
	}
}

// DefaultErcCreateData returns datatoken parameters with template 1, a cap of
// 100000 tokens, no publish fee and minter as the only minter.
func DefaultErcCreateData(name, symbol string, minter common.Address) ErcCreateData {
	zero := common.Address{}
	return ErcCreateData{
		TemplateIndex: big.NewInt(1),
		Strings:       []string{name, symbol},
		Addresses:     []common.Address{minter, zero, zero, zero},
		Uints:         []*big.Int{MustToWei("100000", 18), big.NewInt(0)},
		Bytess:        [][]byte{},
	}
}
