package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Mint mints amount base units of token to `to`. The caller must be a minter
// (datatokens) or the owner (the development OCEAN token).
func (evm *EVMClient) Mint(ctx context.Context, token common.Address, minter *Account, to common.Address, amount *big.Int) (common.Hash, error) {
	receipt, err := evm.transact(ctx, evm.bound(token, DatatokenABI), minter, "mint", to, amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("mint %s: %w", token.Hex(), err)
	}
	return receipt.TxHash, nil
}

// Transfer moves amount base units of token from `from` to `to`.
func (evm *EVMClient) Transfer(ctx context.Context, token common.Address, from *Account, to common.Address, amount *big.Int) (common.Hash, error) {
	receipt, err := evm.transact(ctx, evm.bound(token, DatatokenABI), from, "transfer", to, amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("transfer %s: %w", token.Hex(), err)
	}
	return receipt.TxHash, nil
}

// ApproveWei lets spender move amount base units of token on behalf of owner.
// No transaction is sent when the current allowance already covers amount;
// the returned hash is then zero.
func (evm *EVMClient) ApproveWei(ctx context.Context, token common.Address, owner *Account, spender common.Address, amount *big.Int) (common.Hash, error) {
	current, err := evm.Allowance(ctx, token, owner.Address, spender)
	if err != nil {
		return common.Hash{}, err
	}
	if current.Cmp(amount) >= 0 {
		zap.L().Debug("allowance sufficient",
			zap.String("token", token.Hex()),
			zap.String("spender", spender.Hex()),
			zap.String("allowance", current.String()))
		return common.Hash{}, nil
	}

	receipt, err := evm.transact(ctx, evm.bound(token, DatatokenABI), owner, "approve", spender, amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("approve %s: %w", token.Hex(), err)
	}
	return receipt.TxHash, nil
}

// Allowance returns how much spender may move from owner.
func (evm *EVMClient) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	out, err := evm.call(ctx, evm.bound(token, DatatokenABI), "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out, new(*big.Int)).(**big.Int), nil
}

// BalanceOf returns the token balance of account in base units.
func (evm *EVMClient) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	out, err := evm.call(ctx, evm.bound(token, DatatokenABI), "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out, new(*big.Int)).(**big.Int), nil
}

// Decimals returns the token's decimals.
func (evm *EVMClient) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := evm.call(ctx, evm.bound(token, DatatokenABI), "decimals")
	if err != nil {
		return 0, err
	}
	return *abi.ConvertType(out, new(uint8)).(*uint8), nil
}

// IsMinter reports whether account may mint the datatoken.
func (evm *EVMClient) IsMinter(ctx context.Context, datatoken, account common.Address) (bool, error) {
	out, err := evm.call(ctx, evm.bound(datatoken, DatatokenABI), "isMinter", account)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out, new(bool)).(*bool), nil
}

// StartOrder pays one datatoken plus the provider fee for serviceIndex and
// returns the order transaction hash.
func (evm *EVMClient) StartOrder(ctx context.Context, datatoken common.Address, payer *Account, consumer common.Address, serviceIndex *big.Int, fee ProviderFee, market ConsumeMarketFee) (common.Hash, error) {
	receipt, err := evm.transact(ctx, evm.bound(datatoken, DatatokenABI), payer, "startOrder",
		consumer, serviceIndex, fee.normalized(), market.normalized())
	if err != nil {
		return common.Hash{}, fmt.Errorf("start order on %s: %w", datatoken.Hex(), err)
	}
	return receipt.TxHash, nil
}

// ReuseOrder extends a still-valid order with a fresh provider fee and
// returns the reuse transaction hash.
func (evm *EVMClient) ReuseOrder(ctx context.Context, datatoken common.Address, payer *Account, orderTxID common.Hash, fee ProviderFee) (common.Hash, error) {
	receipt, err := evm.transact(ctx, evm.bound(datatoken, DatatokenABI), payer, "reuseOrder",
		[32]byte(orderTxID), fee.normalized())
	if err != nil {
		return common.Hash{}, fmt.Errorf("reuse order on %s: %w", datatoken.Hex(), err)
	}
	return receipt.TxHash, nil
}

// normalized replaces nil integers and byte slices so the tuple packs.
func (f ProviderFee) normalized() ProviderFee {
	if f.ProviderFeeAmount == nil {
		f.ProviderFeeAmount = new(big.Int)
	}
	if f.ValidUntil == nil {
		f.ValidUntil = new(big.Int)
	}
	if f.ProviderData == nil {
		f.ProviderData = []byte{}
	}
	return f
}

func (f ConsumeMarketFee) normalized() ConsumeMarketFee {
	if f.ConsumeMarketFeeAmount == nil {
		f.ConsumeMarketFeeAmount = new(big.Int)
	}
	return f
}
