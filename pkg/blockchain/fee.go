package blockchain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/shamank/ocean-c2d-go/pkg/model"
)

// ProviderFeeFromModel converts a Provider fee quote into its on-chain tuple.
// A nil quote yields the zero fee.
func ProviderFeeFromModel(f *model.ProviderFees) (ProviderFee, error) {
	if f == nil {
		return ProviderFee{}.normalized(), nil
	}

	r, err := decodeBytes32(f.R)
	if err != nil {
		return ProviderFee{}, fmt.Errorf("provider fee r: %w", err)
	}
	s, err := decodeBytes32(f.S)
	if err != nil {
		return ProviderFee{}, fmt.Errorf("provider fee s: %w", err)
	}
	data, err := decodeHex(f.ProviderData)
	if err != nil {
		return ProviderFee{}, fmt.Errorf("provider data: %w", err)
	}

	return ProviderFee{
		ProviderFeeAddress: common.HexToAddress(f.ProviderFeeAddress),
		ProviderFeeToken:   common.HexToAddress(f.ProviderFeeToken),
		ProviderFeeAmount:  f.ProviderFeeAmount.Big(),
		V:                  f.V,
		R:                  r,
		S:                  s,
		ValidUntil:         big.NewInt(f.ValidUntil),
		ProviderData:       data,
	}, nil
}

// ConsumeMarketFeeFromModel converts a marketplace fee; nil yields the zero fee.
func ConsumeMarketFeeFromModel(f *model.ConsumeMarketFee) ConsumeMarketFee {
	if f == nil {
		return ConsumeMarketFee{}.normalized()
	}
	return ConsumeMarketFee{
		ConsumeMarketFeeAddress: common.HexToAddress(f.ConsumeMarketFeeAddress),
		ConsumeMarketFeeToken:   common.HexToAddress(f.ConsumeMarketFeeToken),
		ConsumeMarketFeeAmount:  f.ConsumeMarketFeeAmount.Big(),
	}
}

func decodeBytes32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := decodeHex(s)
	if err != nil {
		return out, err
	}
	if len(b) > 32 {
		return out, fmt.Errorf("value longer than 32 bytes")
	}
	copy(out[32-len(b):], b)
	return out, nil
}

func decodeHex(s string) ([]byte, error) {
	if s == "" || s == "0x" {
		return []byte{}, nil
	}
	if !has0xPrefix(s) {
		s = "0x" + s
	}
	if len(s)%2 == 1 {
		s = "0x0" + s[2:]
	}
	return hexutil.Decode(s)
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
