package blockchain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func testSigner(t *testing.T) *Account {
	t.Helper()
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return &Account{Address: crypto.PubkeyToAddress(priv.PublicKey), Key: priv}
}

type ctxKey struct{}

func TestTransactOpts(t *testing.T) {
	acc := testSigner(t)
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")

	opts, err := acc.TransactOpts(ctx, big.NewInt(8996))
	if err != nil {
		t.Fatalf("TransactOpts failed: %v", err)
	}
	if opts.From != acc.Address {
		t.Fatalf("unexpected From address: got %s, want %s", opts.From.Hex(), acc.Address.Hex())
	}
	if opts.Context != ctx {
		t.Fatal("transactor not bound to the caller context")
	}
}

func TestTransactOpts_NoKey(t *testing.T) {
	for name, acc := range map[string]*Account{
		"nil account":  nil,
		"address only": {Address: testSigner(t).Address},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := acc.TransactOpts(context.Background(), big.NewInt(1))
			if !errors.Is(err, ErrNoSigner) {
				t.Fatalf("err = %v; want ErrNoSigner", err)
			}
		})
	}
}

func TestTransactOpts_NilChainID(t *testing.T) {
	opts, err := testSigner(t).TransactOpts(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for nil chainID")
	}
	if opts != nil {
		t.Fatal("expected nil opts on error")
	}
}

func TestTransactOpts_SignsForChain(t *testing.T) {
	acc := testSigner(t)
	for _, id := range []int64{1, 137, 8996, 11155111} {
		opts, err := acc.TransactOpts(context.Background(), big.NewInt(id))
		if err != nil {
			t.Fatalf("chain %d: %v", id, err)
		}
		if opts.Signer == nil {
			t.Fatalf("chain %d: no signer", id)
		}
	}
}
