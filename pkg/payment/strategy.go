package payment

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/shamank/ocean-c2d-go/pkg/blockchain"
	"github.com/shamank/ocean-c2d-go/pkg/model"
)

// OrderState tells how an asset's access has to be paid for, derived from the
// Provider's initialize answer.
type OrderState int

const (
	// OrderFresh means no usable order exists; a new one must be started.
	OrderFresh OrderState = iota
	// OrderReuseWithFee means a prior order exists but a new provider fee
	// must be paid through reuseOrder.
	OrderReuseWithFee
	// OrderValid means a prior order is still valid and nothing is owed.
	OrderValid
)

func (s OrderState) String() string {
	switch s {
	case OrderFresh:
		return "fresh"
	case OrderReuseWithFee:
		return "reuse"
	case OrderValid:
		return "valid"
	default:
		return fmt.Sprintf("OrderState(%d)", int(s))
	}
}

// Classify maps an initialize answer to its OrderState.
func Classify(init *model.ProviderComputeInitialize) OrderState {
	if init == nil || init.ValidOrder == "" {
		return OrderFresh
	}
	if init.ProviderFee == nil {
		return OrderValid
	}
	return OrderReuseWithFee
}

// Payer is the on-chain surface needed to settle an order. *blockchain.EVMClient
// satisfies it.
type Payer interface {
	ApproveWei(ctx context.Context, token common.Address, owner *blockchain.Account, spender common.Address, amount *big.Int) (common.Hash, error)
	StartOrder(ctx context.Context, datatoken common.Address, payer *blockchain.Account, consumer common.Address, serviceIndex *big.Int, fee blockchain.ProviderFee, market blockchain.ConsumeMarketFee) (common.Hash, error)
	ReuseOrder(ctx context.Context, datatoken common.Address, payer *blockchain.Account, orderTxID common.Hash, fee blockchain.ProviderFee) (common.Hash, error)
}

// Order describes one asset access to settle.
type Order struct {
	Init         *model.ProviderComputeInitialize
	Datatoken    common.Address
	Payer        *blockchain.Account
	Consumer     common.Address
	ServiceIndex int
	MarketFee    *model.ConsumeMarketFee
}

// Strategy settles an Order in one of the ways an OrderState allows.
//
// Pay returns the transaction id the Provider should accept as proof of
// payment: either a new order transaction or the still-valid prior one.
type Strategy interface {
	State() OrderState
	Pay(ctx context.Context) (string, error)
}

// ErrInvalidOrderID is returned when the Provider reports a prior order that
// is not a 32-byte transaction hash.
var ErrInvalidOrderID = errors.New("invalid order transaction id")

// NewStrategy selects the strategy for o.
func NewStrategy(payer Payer, o Order) Strategy {
	switch Classify(o.Init) {
	case OrderValid:
		return &ValidStrategy{order: o}
	case OrderReuseWithFee:
		return &ReuseStrategy{payer: payer, order: o}
	default:
		return &StartStrategy{payer: payer, order: o}
	}
}

func parseOrderID(id string) (common.Hash, error) {
	b, err := hexutil.Decode(id)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: %q", ErrInvalidOrderID, id)
	}
	return common.BytesToHash(b), nil
}
