package blockchain

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
)

func TestInitEvm_Unreachable(t *testing.T) {
	start := time.Now()
	_, err := InitEvm(context.Background(), "http://127.0.0.1:1", 2*time.Second, 0, 0)
	if err == nil {
		t.Fatal("expected error dialing")
	}
	if time.Since(start) > 6*time.Second {
		t.Fatalf("InitEvm took too long")
	}
}

func TestNewAccount(t *testing.T) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	hexKey := "0x" + hex.EncodeToString(crypto.FromECDSA(priv))

	acct, err := NewAccount(hexKey)
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	if acct.Address != crypto.PubkeyToAddress(priv.PublicKey) {
		t.Fatalf("unexpected address %s", acct.Address.Hex())
	}

	if _, err := NewAccount("not-a-key"); err == nil {
		t.Fatal("expected error for malformed key")
	}
}

func TestTransact_RequiresKey(t *testing.T) {
	evm := &EVMClient{}
	_, err := evm.transact(context.Background(), evm.bound(testAddr(1), DatatokenABI), nil, "mint")
	if err == nil {
		t.Fatal("expected error for missing account")
	}
	_, err = evm.transact(context.Background(), evm.bound(testAddr(1), DatatokenABI), &Account{}, "mint")
	if err == nil {
		t.Fatal("expected error for account without key")
	}
}
