package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrAddressFile is returned when the address file cannot be read or parsed,
	// or when it has no section for the requested network.
	ErrAddressFile = errors.New("address file")
	// ErrMissingAddress is returned when a required contract is absent.
	ErrMissingAddress = errors.New("missing contract address")
)

// Contract names the workflow needs from the address file.
const (
	ContractERC721Factory = "ERC721Factory"
	ContractOcean         = "Ocean"
)

// Addresses is one network section of the contract address file.
type Addresses struct {
	Network       string
	ERC721Factory common.Address
	Ocean         common.Address

	raw map[string]json.RawMessage
}

// LoadAddresses reads path and returns the section named network. The section
// must name the ERC721Factory and Ocean contracts; other entries are kept and
// can be read with Get.
func LoadAddresses(path, network string) (*Addresses, error) {
	b, err := os.ReadFile(expandHome(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAddressFile, err)
	}

	var sections map[string]map[string]json.RawMessage
	if err := json.Unmarshal(b, &sections); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrAddressFile, path, err)
	}

	raw, ok := sections[network]
	if !ok {
		return nil, fmt.Errorf("%w: no %q section in %s", ErrAddressFile, network, path)
	}

	a := &Addresses{Network: network, raw: raw}
	if a.ERC721Factory, err = a.Get(ContractERC721Factory); err != nil {
		return nil, err
	}
	if a.Ocean, err = a.Get(ContractOcean); err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns the address stored under name. Non-address entries (chain id,
// template maps, start block) are reported as missing.
func (a *Addresses) Get(name string) (common.Address, error) {
	v, ok := a.raw[name]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrMissingAddress, name)
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil || !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %s is not an address", ErrMissingAddress, name)
	}
	return common.HexToAddress(s), nil
}

// Names lists the keys of the section in sorted order.
func (a *Addresses) Names() []string {
	names := make([]string, 0, len(a.raw))
	for k := range a.raw {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
