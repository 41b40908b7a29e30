package payment

import (
	"context"
	"errors"
	"math/big"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/shamank/ocean-c2d-go/internal/testutil/fakechain"
	"github.com/shamank/ocean-c2d-go/pkg/blockchain"
	"github.com/shamank/ocean-c2d-go/pkg/model"
)

const (
	priorOrder = "0x7a3c9e0f1b2d4c5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6"
	feeToken   = "0x00000000000000000000000000000000000000aa"
	feeTo      = "0x00000000000000000000000000000000000000bb"
)

// mustAccount generates a throwaway secp256k1 account.
func mustAccount(t *testing.T) *blockchain.Account {
	t.Helper()
	k, err := gethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return &blockchain.Account{Address: gethcrypto.PubkeyToAddress(k.PublicKey), Key: k}
}

func fee(amount int64) *model.ProviderFees {
	return &model.ProviderFees{
		ProviderFeeAddress: feeTo,
		ProviderFeeToken:   feeToken,
		ProviderFeeAmount:  model.NewAmount(big.NewInt(amount)),
		ProviderData:       "0x7b7d",
		V:                  27,
		R:                  "0x01",
		S:                  "0x02",
		ValidUntil:         1700000000,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		init *model.ProviderComputeInitialize
		want OrderState
	}{
		{"nil", nil, OrderFresh},
		{"empty", &model.ProviderComputeInitialize{}, OrderFresh},
		{"fee only", &model.ProviderComputeInitialize{ProviderFee: fee(1)}, OrderFresh},
		{"valid no fee", &model.ProviderComputeInitialize{ValidOrder: priorOrder}, OrderValid},
		{"valid with fee", &model.ProviderComputeInitialize{ValidOrder: priorOrder, ProviderFee: fee(5)}, OrderReuseWithFee},
		{"valid with zero fee", &model.ProviderComputeInitialize{ValidOrder: priorOrder, ProviderFee: fee(0)}, OrderReuseWithFee},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.init); got != tt.want {
				t.Fatalf("Classify = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestNewStrategySelects(t *testing.T) {
	chain := fakechain.New(8996)
	cases := map[OrderState]Strategy{
		OrderFresh:        NewStrategy(chain, Order{}),
		OrderValid:        NewStrategy(chain, Order{Init: &model.ProviderComputeInitialize{ValidOrder: priorOrder}}),
		OrderReuseWithFee: NewStrategy(chain, Order{Init: &model.ProviderComputeInitialize{ValidOrder: priorOrder, ProviderFee: fee(1)}}),
	}
	for want, s := range cases {
		if s.State() != want {
			t.Fatalf("strategy state = %v; want %v", s.State(), want)
		}
	}
}

func TestHandleOrderValidNoFee(t *testing.T) {
	chain := fakechain.New(8996)
	payer := mustAccount(t)

	tx, err := HandleOrder(context.Background(), chain, Order{
		Init:      &model.ProviderComputeInitialize{ValidOrder: priorOrder},
		Datatoken: common.HexToAddress("0x01"),
		Payer:     payer,
		Consumer:  common.HexToAddress("0x02"),
	})
	if err != nil {
		t.Fatalf("HandleOrder: %v", err)
	}
	if tx != priorOrder {
		t.Fatalf("tx = %s; want prior order %s", tx, priorOrder)
	}
	if calls := chain.Calls(); len(calls) != 0 {
		t.Fatalf("expected no chain calls, got %v", chain.Methods())
	}
}

func TestHandleOrderReuseWithFee(t *testing.T) {
	chain := fakechain.New(8996)
	payer := mustAccount(t)
	datatoken := common.HexToAddress("0x01")

	tx, err := HandleOrder(context.Background(), chain, Order{
		Init:      &model.ProviderComputeInitialize{ValidOrder: priorOrder, ProviderFee: fee(5)},
		Datatoken: datatoken,
		Payer:     payer,
	})
	if err != nil {
		t.Fatalf("HandleOrder: %v", err)
	}

	if got, want := chain.Methods(), []string{"approve", "reuseOrder"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v; want %v", got, want)
	}
	calls := chain.Calls()
	approve, reuse := calls[0], calls[1]
	if approve.Target != common.HexToAddress(feeToken) || approve.To != datatoken || approve.Amount.Int64() != 5 {
		t.Fatalf("approve = %+v", approve)
	}
	if approve.From != payer.Address {
		t.Fatalf("approve from %s; want payer", approve.From.Hex())
	}
	if reuse.Order != common.HexToHash(priorOrder) {
		t.Fatalf("reuse order id = %s", reuse.Order.Hex())
	}
	if reuse.Fee.ProviderFeeAmount.Int64() != 5 || reuse.Fee.ProviderFeeAddress != common.HexToAddress(feeTo) {
		t.Fatalf("reuse fee = %+v", reuse.Fee)
	}
	if tx == priorOrder || tx == "" {
		t.Fatalf("expected new reuse tx hash, got %q", tx)
	}
}

func TestHandleOrderReuseZeroFeeSkipsApprove(t *testing.T) {
	chain := fakechain.New(8996)

	_, err := HandleOrder(context.Background(), chain, Order{
		Init:      &model.ProviderComputeInitialize{ValidOrder: priorOrder, ProviderFee: fee(0)},
		Datatoken: common.HexToAddress("0x01"),
		Payer:     mustAccount(t),
	})
	if err != nil {
		t.Fatalf("HandleOrder: %v", err)
	}
	if got, want := chain.Methods(), []string{"reuseOrder"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v; want %v", got, want)
	}
}

func TestHandleOrderStart(t *testing.T) {
	tests := []struct {
		name    string
		fee     *model.ProviderFees
		methods []string
	}{
		{"no fee", nil, []string{"startOrder"}},
		{"zero fee", fee(0), []string{"startOrder"}},
		{"fee owed", fee(7), []string{"approve", "startOrder"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := fakechain.New(8996)
			consumer := common.HexToAddress("0xc0")
			tx, err := HandleOrder(context.Background(), chain, Order{
				Init:         &model.ProviderComputeInitialize{ProviderFee: tt.fee},
				Datatoken:    common.HexToAddress("0x01"),
				Payer:        mustAccount(t),
				Consumer:     consumer,
				ServiceIndex: 0,
			})
			if err != nil {
				t.Fatalf("HandleOrder: %v", err)
			}
			if got := chain.Methods(); !reflect.DeepEqual(got, tt.methods) {
				t.Fatalf("calls = %v; want %v", got, tt.methods)
			}
			calls := chain.Calls()
			start := calls[len(calls)-1]
			if start.To != consumer {
				t.Fatalf("startOrder consumer = %s", start.To.Hex())
			}
			if start.Index.Sign() != 0 {
				t.Fatalf("service index = %s", start.Index)
			}
			if start.Market.ConsumeMarketFeeAmount == nil || start.Market.ConsumeMarketFeeAmount.Sign() != 0 {
				t.Fatalf("market fee = %+v; want zero fee", start.Market)
			}
			if tt.fee == nil && start.Fee.ProviderFeeAmount.Sign() != 0 {
				t.Fatalf("absent provider fee not encoded as zero: %+v", start.Fee)
			}
			if tx == "" {
				t.Fatal("empty tx")
			}
		})
	}
}

func TestHandleOrderErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("approve failure stops order", func(t *testing.T) {
		chain := fakechain.New(8996)
		chain.Fail["approve"] = boom
		_, err := HandleOrder(context.Background(), chain, Order{
			Init:      &model.ProviderComputeInitialize{ProviderFee: fee(3)},
			Datatoken: common.HexToAddress("0x01"),
			Payer:     mustAccount(t),
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v; want boom", err)
		}
		if chain.Count("startOrder") != 0 {
			t.Fatal("startOrder must not run after failed approve")
		}
	})

	t.Run("bad prior order id", func(t *testing.T) {
		chain := fakechain.New(8996)
		_, err := HandleOrder(context.Background(), chain, Order{
			Init:      &model.ProviderComputeInitialize{ValidOrder: "0x1234", ProviderFee: fee(0)},
			Datatoken: common.HexToAddress("0x01"),
			Payer:     mustAccount(t),
		})
		if !errors.Is(err, ErrInvalidOrderID) {
			t.Fatalf("err = %v; want ErrInvalidOrderID", err)
		}
	})

	t.Run("missing payer", func(t *testing.T) {
		_, err := HandleOrder(context.Background(), fakechain.New(1), Order{Init: &model.ProviderComputeInitialize{}})
		if err == nil {
			t.Fatal("expected error for missing payer")
		}
	})

	t.Run("start failure", func(t *testing.T) {
		chain := fakechain.New(8996)
		chain.Fail["startOrder"] = boom
		_, err := HandleOrder(context.Background(), chain, Order{
			Init:      &model.ProviderComputeInitialize{},
			Datatoken: common.HexToAddress("0x01"),
			Payer:     mustAccount(t),
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v; want boom", err)
		}
	})
}
