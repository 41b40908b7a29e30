package blockchain

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"go.uber.org/zap"
)

// ErrNoSigner is returned when a transaction is requested without a key.
var ErrNoSigner = errors.New("private key is required for transactions")

// TransactOpts returns a transactor signing with the account key for chainID,
// bound to ctx.
func (a *Account) TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	if a == nil || a.Key == nil {
		return nil, ErrNoSigner
	}
	opts, err := bind.NewKeyedTransactorWithChainID(a.Key, chainID)
	if err != nil {
		zap.L().Error("failed to create transactor", zap.String("account", a.Address.Hex()), zap.Error(err))
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}
