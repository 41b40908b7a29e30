package blockchain

import (
	"bytes"
	"embed"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

//go:embed abi/*.json
var abiFS embed.FS

// Parsed ABIs of the Ocean contracts used by the workflow.
var (
	FactoryABI     = mustLoadABI("ERC721Factory")
	NFTTemplateABI = mustLoadABI("ERC721Template")
	DatatokenABI   = mustLoadABI("ERC20Template")
)

func mustLoadABI(name string) abi.ABI {
	raw, err := abiFS.ReadFile("abi/" + name + ".json")
	if err != nil {
		panic(fmt.Sprintf("read %s abi: %v", name, err))
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("parse %s abi: %v", name, err))
	}
	return parsed
}

// bound returns a contract handle for addr. A nil client is allowed for
// packing and log decoding only.
func (evm *EVMClient) bound(addr common.Address, parsed abi.ABI) *bind.BoundContract {
	if evm == nil || evm.Client == nil {
		return bind.NewBoundContract(addr, parsed, nil, nil, nil)
	}
	return bind.NewBoundContract(addr, parsed, evm.Client, evm.Client, evm.Client)
}

// NftCreateData is the ERC721 part of a createNftWithErc20 call.
type NftCreateData struct {
	Name          string         `abi:"name"`
	Symbol        string         `abi:"symbol"`
	TemplateIndex *big.Int       `abi:"templateIndex"`
	TokenURI      string         `abi:"tokenURI"`
	Transferable  bool           `abi:"transferable"`
	Owner         common.Address `abi:"owner"`
}

// ErcCreateData is the datatoken part of a createNftWithErc20 call.
//
// Strings are [name, symbol]; Addresses are [minter, paymentCollector,
// mpFeeAddress, feeToken]; Uints are [cap, feeAmount].
type ErcCreateData struct {
	TemplateIndex *big.Int         `abi:"templateIndex"`
	Strings       []string         `abi:"strings"`
	Addresses     []common.Address `abi:"addresses"`
	Uints         []*big.Int       `abi:"uints"`
	Bytess        [][]byte         `abi:"bytess"`
}

// MetadataProof is a validator signature over published metadata.
type MetadataProof struct {
	ValidatorAddress common.Address `abi:"validatorAddress"`
	V                uint8          `abi:"v"`
	R                [32]byte       `abi:"r"`
	S                [32]byte       `abi:"s"`
}

// ProviderFee is the on-chain form of a Provider fee quote.
type ProviderFee struct {
	ProviderFeeAddress common.Address `abi:"providerFeeAddress"`
	ProviderFeeToken   common.Address `abi:"providerFeeToken"`
	ProviderFeeAmount  *big.Int       `abi:"providerFeeAmount"`
	V                  uint8          `abi:"v"`
	R                  [32]byte       `abi:"r"`
	S                  [32]byte       `abi:"s"`
	ValidUntil         *big.Int       `abi:"validUntil"`
	ProviderData       []byte         `abi:"providerData"`
}

// ConsumeMarketFee is the on-chain form of a marketplace fee.
type ConsumeMarketFee struct {
	ConsumeMarketFeeAddress common.Address `abi:"consumeMarketFeeAddress"`
	ConsumeMarketFeeToken   common.Address `abi:"consumeMarketFeeToken"`
	ConsumeMarketFeeAmount  *big.Int       `abi:"consumeMarketFeeAmount"`
}

// NFTCreatedEvent mirrors ERC721Factory.NFTCreated.
type NFTCreatedEvent struct {
	NewTokenAddress common.Address
	TemplateAddress common.Address
	TokenName       string
	Admin           common.Address
	Symbol          string
	TokenURI        string
	Transferable    bool
	Creator         common.Address
}

// TokenCreatedEvent mirrors ERC721Factory.TokenCreated.
type TokenCreatedEvent struct {
	NewTokenAddress common.Address
	TemplateAddress common.Address
	Name            string
	Symbol          string
	Cap             *big.Int
	Creator         common.Address
}
