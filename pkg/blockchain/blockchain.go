// Package blockchain provides helpers to interact with Ocean Protocol
// contracts on EVM chains. It dials an Ethereum node, binds the
// ERC721Factory, ERC721Template and ERC20Template contracts from embedded
// ABIs, waits for transaction receipts, and includes utilities for token
// amounts and Ethereum-compatible message signatures.
package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

var (
	// HashPrefix32Bytes is the standard Ethereum personal-sign prefix for 32-byte
	// messages: "\x19Ethereum Signed Message:\n32".
	// See Geth reference:
	// https://github.com/ethereum/go-ethereum/blob/bf468a81ec261745b25206b2a596eb0ee0a24a74/internal/ethapi/api.go#L361
	HashPrefix32Bytes = []byte("\x19Ethereum Signed Message:\n32")

	// ErrEventNotFound is returned when a receipt lacks an expected event.
	ErrEventNotFound = errors.New("event not found in receipt")
)

// EVMClient holds a connected ethclient.Client and the chain id it reported
// at dial time.
type EVMClient struct {
	Client *ethclient.Client

	chainID     *big.Int
	readTimeout time.Duration
	receiptWait time.Duration
}

// Account is a local signing account.
type Account struct {
	Address common.Address
	Key     *ecdsa.PrivateKey
}

// NewAccount parses a hex-encoded private key, with or without 0x prefix.
func NewAccount(hexKey string) (*Account, error) {
	addr, pk, err := ParsePrivateKeyECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return &Account{Address: addr, Key: pk}, nil
}

// InitEvm dials endpoint and queries the chain id so an unreachable node is
// reported here rather than on the first transaction.
//
// Parameters:
//   - endpoint: RPC/WS endpoint URL to dial.
//   - dial: deadline for dialing and the chain id query.
//   - readTimeout: deadline for single contract reads (zero disables).
//   - receiptWait: deadline for a transaction to be mined (zero disables).
func InitEvm(ctx context.Context, endpoint string, dial, readTimeout, receiptWait time.Duration) (*EVMClient, error) {
	dctx, cancel := withTimeout(ctx, dial)
	defer cancel()

	client, err := ethclient.DialContext(dctx, endpoint)
	if err != nil {
		zap.L().Error("Failed to ethdial", zap.Error(err))
		return nil, err
	}

	chainID, err := client.ChainID(dctx)
	if err != nil {
		client.Close()
		zap.L().Error("Failed to get chain ID", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("query chain id: %w", err)
	}

	return &EVMClient{
		Client:      client,
		chainID:     chainID,
		readTimeout: readTimeout,
		receiptWait: receiptWait,
	}, nil
}

// ChainID returns the chain id reported by the node at dial time.
func (evm *EVMClient) ChainID() *big.Int {
	return new(big.Int).Set(evm.chainID)
}

// Close releases the underlying RPC connection.
func (evm *EVMClient) Close() {
	if evm != nil && evm.Client != nil {
		evm.Client.Close()
	}
}

// WaitForTransaction polls for a transaction receipt with exponential backoff,
// until receipt is available, context is done, or an error occurs. If maxBackoff
// is non-zero, backoff will not exceed it. It returns an error if the tx is reverted.
func (evm *EVMClient) WaitForTransaction(ctx context.Context, txHash common.Hash, maxBackoff time.Duration) (*types.Receipt, error) {
	backoff := 100 * time.Millisecond
	for {
		receipt, err := evm.Client.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return nil, fmt.Errorf("tx reverted: %s", txHash)
			}
			return receipt, nil
		case errors.Is(err, ethereum.NotFound):
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if maxBackoff == 0 || backoff < maxBackoff {
				backoff *= 2
			}
			if maxBackoff != 0 && backoff > maxBackoff {
				backoff = maxBackoff
			}
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			return nil, fmt.Errorf("receipt error: %w", err)
		}
	}
}

// transact signs and sends a call to method on contract, then waits for the
// receipt.
func (evm *EVMClient) transact(ctx context.Context, contract *bind.BoundContract, from *Account, method string, params ...any) (*types.Receipt, error) {
	opts, err := from.TransactOpts(ctx, evm.chainID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	tx, err := contract.Transact(opts, method, params...)
	if err != nil {
		zap.L().Error("transaction failed", zap.String("method", method), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	zap.L().Debug("transaction sent", zap.String("method", method), zap.String("tx", tx.Hash().Hex()))

	wctx, cancel := withTimeout(ctx, evm.receiptWait)
	defer cancel()
	receipt, err := evm.WaitForTransaction(wctx, tx.Hash(), 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return receipt, nil
}

// call runs a read-only method and returns its first output.
func (evm *EVMClient) call(ctx context.Context, contract *bind.BoundContract, method string, params ...any) (any, error) {
	ctx, cancel := withTimeout(ctx, evm.readTimeout)
	defer cancel()

	var out []any
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	return out[0], nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
