// Package fakechain is an in-memory stand-in for the on-chain operations used
// by the compute-to-data workflow. It records every call for later assertions.
package fakechain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/shamank/ocean-c2d-go/pkg/blockchain"
)

// Call is one recorded operation.
type Call struct {
	Method string
	Target common.Address
	From   common.Address
	To     common.Address
	Amount *big.Int
	Order  common.Hash
	Fee    blockchain.ProviderFee
	Market blockchain.ConsumeMarketFee
	Meta   *blockchain.MetadataUpdate
	Index  *big.Int
}

// Chain records calls and hands out deterministic addresses and hashes.
// Setting Fail[method] makes that method return the error. Reads
// (balanceOf, decimals, isMinter) are tracked apart from transactions.
type Chain struct {
	ID   *big.Int
	Fail map[string]error
	// Balances is keyed by account; missing accounts hold zero.
	Balances map[common.Address]*big.Int
	// NotMinter lists accounts refused by isMinter.
	NotMinter map[common.Address]bool

	mu     sync.Mutex
	calls  []Call
	reads  []string
	seq    uint64
	closed bool
}

// New returns a Chain reporting chainID.
func New(chainID int64) *Chain {
	return &Chain{
		ID:        big.NewInt(chainID),
		Fail:      map[string]error{},
		Balances:  map[common.Address]*big.Int{},
		NotMinter: map[common.Address]bool{},
	}
}

// Reads returns the read-only methods called, in order.
func (c *Chain) Reads() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.reads...)
}

func (c *Chain) read(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads = append(c.reads, method)
	return c.Fail[method]
}

// Calls returns a copy of the recorded calls.
func (c *Chain) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Count returns how many times method was called.
func (c *Chain) Count(method string) int {
	n := 0
	for _, call := range c.Calls() {
		if call.Method == method {
			n++
		}
	}
	return n
}

// Methods returns recorded method names in call order.
func (c *Chain) Methods() []string {
	var out []string
	for _, call := range c.Calls() {
		out = append(out, call.Method)
	}
	return out
}

// Closed reports whether Close was called.
func (c *Chain) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Chain) record(call Call) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	if err := c.Fail[call.Method]; err != nil {
		return common.Hash{}, err
	}
	c.seq++
	return crypto.Keccak256Hash([]byte(fmt.Sprintf("%s-%d", call.Method, c.seq))), nil
}

func sender(a *blockchain.Account) common.Address {
	if a == nil {
		return common.Address{}
	}
	return a.Address
}

func (c *Chain) ChainID() *big.Int { return new(big.Int).Set(c.ID) }

func (c *Chain) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Chain) CreateNftWithDatatoken(_ context.Context, factory common.Address, owner *blockchain.Account, nft blockchain.NftCreateData, erc blockchain.ErcCreateData) (*blockchain.CreatedAsset, error) {
	tx, err := c.record(Call{Method: "createNftWithErc20", Target: factory, From: sender(owner), To: nft.Owner})
	if err != nil {
		return nil, err
	}
	return &blockchain.CreatedAsset{
		NftAddress:       common.BytesToAddress(crypto.Keccak256([]byte("nft"), tx.Bytes())),
		DatatokenAddress: common.BytesToAddress(crypto.Keccak256([]byte("erc20"), tx.Bytes())),
		TxHash:           tx,
	}, nil
}

func (c *Chain) SetMetadata(_ context.Context, nft common.Address, owner *blockchain.Account, md blockchain.MetadataUpdate) (common.Hash, error) {
	return c.record(Call{Method: "setMetaData", Target: nft, From: sender(owner), Meta: &md})
}

func (c *Chain) Mint(_ context.Context, token common.Address, minter *blockchain.Account, to common.Address, amount *big.Int) (common.Hash, error) {
	return c.record(Call{Method: "mint", Target: token, From: sender(minter), To: to, Amount: amount})
}

func (c *Chain) Transfer(_ context.Context, token common.Address, from *blockchain.Account, to common.Address, amount *big.Int) (common.Hash, error) {
	return c.record(Call{Method: "transfer", Target: token, From: sender(from), To: to, Amount: amount})
}

func (c *Chain) ApproveWei(_ context.Context, token common.Address, owner *blockchain.Account, spender common.Address, amount *big.Int) (common.Hash, error) {
	return c.record(Call{Method: "approve", Target: token, From: sender(owner), To: spender, Amount: amount})
}

func (c *Chain) StartOrder(_ context.Context, datatoken common.Address, payer *blockchain.Account, consumer common.Address, serviceIndex *big.Int, fee blockchain.ProviderFee, market blockchain.ConsumeMarketFee) (common.Hash, error) {
	return c.record(Call{Method: "startOrder", Target: datatoken, From: sender(payer), To: consumer, Index: serviceIndex, Fee: fee, Market: market})
}

func (c *Chain) ReuseOrder(_ context.Context, datatoken common.Address, payer *blockchain.Account, orderTxID common.Hash, fee blockchain.ProviderFee) (common.Hash, error) {
	return c.record(Call{Method: "reuseOrder", Target: datatoken, From: sender(payer), Order: orderTxID, Fee: fee})
}

func (c *Chain) BalanceOf(_ context.Context, _, account common.Address) (*big.Int, error) {
	if err := c.read("balanceOf"); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.Balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (c *Chain) Decimals(context.Context, common.Address) (uint8, error) {
	if err := c.read("decimals"); err != nil {
		return 0, err
	}
	return 18, nil
}

func (c *Chain) IsMinter(_ context.Context, _, account common.Address) (bool, error) {
	if err := c.read("isMinter"); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.NotMinter[account], nil
}
