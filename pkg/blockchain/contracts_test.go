package blockchain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/shamank/ocean-c2d-go/pkg/model"
)

func testAddr(n int64) common.Address {
	return common.BigToAddress(big.NewInt(n))
}

func addrTopic(a common.Address) common.Hash {
	return common.BytesToHash(a.Bytes())
}

func nftCreatedLog(t *testing.T, nft, owner common.Address) *types.Log {
	t.Helper()
	ev := FactoryABI.Events["NFTCreated"]
	data, err := ev.Inputs.NonIndexed().Pack(nft, "D1Min", "D1M", "aaa", true)
	if err != nil {
		t.Fatalf("pack NFTCreated: %v", err)
	}
	return &types.Log{
		Topics: []common.Hash{ev.ID, addrTopic(testAddr(99)), addrTopic(owner), addrTopic(owner)},
		Data:   data,
	}
}

func tokenCreatedLog(t *testing.T, token, owner common.Address) *types.Log {
	t.Helper()
	ev := FactoryABI.Events["TokenCreated"]
	data, err := ev.Inputs.NonIndexed().Pack("Datatoken", "DT", MustToWei("100000", 18), owner)
	if err != nil {
		t.Fatalf("pack TokenCreated: %v", err)
	}
	return &types.Log{
		Topics: []common.Hash{ev.ID, addrTopic(token), addrTopic(testAddr(98))},
		Data:   data,
	}
}

func TestEmbeddedABIs(t *testing.T) {
	tests := []struct {
		name    string
		methods map[string]abi.Method
		want    []string
	}{
		{"factory", FactoryABI.Methods, []string{"createNftWithErc20"}},
		{"nft", NFTTemplateABI.Methods, []string{"setMetaData", "getMetaData"}},
		{"datatoken", DatatokenABI.Methods, []string{"mint", "transfer", "approve", "allowance", "balanceOf", "decimals", "isMinter", "startOrder", "reuseOrder"}},
	}
	for _, tt := range tests {
		for _, m := range tt.want {
			if _, ok := tt.methods[m]; !ok {
				t.Fatalf("%s abi lacks %s", tt.name, m)
			}
		}
	}
	for _, ev := range []string{"NFTCreated", "TokenCreated"} {
		if _, ok := FactoryABI.Events[ev]; !ok {
			t.Fatalf("factory abi lacks event %s", ev)
		}
	}
}

func TestPackCreateNftWithErc20(t *testing.T) {
	owner := testAddr(7)
	nft := DefaultNftCreateData("D1Min", "D1M", owner)
	erc := DefaultErcCreateData("Datatoken D1Min", "D1MDT", owner)

	if nft.TemplateIndex.Int64() != 1 || nft.TokenURI != "aaa" || !nft.Transferable || nft.Owner != owner {
		t.Fatalf("unexpected nft params: %+v", nft)
	}
	if len(erc.Addresses) != 4 || erc.Addresses[0] != owner || erc.Addresses[1] != (common.Address{}) {
		t.Fatalf("unexpected datatoken addresses: %v", erc.Addresses)
	}
	if erc.Uints[0].String() != "100000000000000000000000" || erc.Uints[1].Sign() != 0 {
		t.Fatalf("unexpected datatoken uints: %v", erc.Uints)
	}

	input, err := FactoryABI.Pack("createNftWithErc20", nft, erc)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	args, err := FactoryABI.Methods["createNftWithErc20"].Inputs.Unpack(input[4:])
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
}

func TestPackSetMetaData(t *testing.T) {
	input, err := NFTTemplateABI.Pack("setMetaData",
		MetadataActive, "http://provider", "", MetadataFlagEncrypted, []byte("0xencrypted"),
		[32]byte(common.HexToHash("0x01")), []MetadataProof{})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(input) < 4 {
		t.Fatal("empty calldata")
	}
}

func TestPackOrders(t *testing.T) {
	fee := ProviderFee{}.normalized()
	market := ConsumeMarketFee{}.normalized()

	if _, err := DatatokenABI.Pack("startOrder", testAddr(1), big.NewInt(0), fee, market); err != nil {
		t.Fatalf("Pack startOrder: %v", err)
	}
	if _, err := DatatokenABI.Pack("reuseOrder", [32]byte(common.HexToHash("0xabc")), fee); err != nil {
		t.Fatalf("Pack reuseOrder: %v", err)
	}
}

func TestParseCreatedAsset(t *testing.T) {
	evm := &EVMClient{}
	factory := evm.bound(testAddr(1), FactoryABI)
	nft, token, owner := testAddr(10), testAddr(11), testAddr(12)

	receipt := &types.Receipt{
		TxHash: common.HexToHash("0xfeed"),
		Logs: []*types.Log{
			{Topics: []common.Hash{common.HexToHash("0x1234")}},
			nftCreatedLog(t, nft, owner),
			tokenCreatedLog(t, token, owner),
		},
	}

	created, err := ParseCreatedAsset(factory, receipt)
	if err != nil {
		t.Fatalf("ParseCreatedAsset: %v", err)
	}
	if created.NftAddress != nft {
		t.Fatalf("nft address = %s, want %s", created.NftAddress.Hex(), nft.Hex())
	}
	if created.DatatokenAddress != token {
		t.Fatalf("datatoken address = %s, want %s", created.DatatokenAddress.Hex(), token.Hex())
	}
	if created.TxHash != receipt.TxHash {
		t.Fatalf("unexpected tx hash %s", created.TxHash.Hex())
	}
}

func TestParseCreatedAsset_MissingEvents(t *testing.T) {
	evm := &EVMClient{}
	factory := evm.bound(testAddr(1), FactoryABI)

	tests := []struct {
		name string
		logs []*types.Log
	}{
		{"no logs", nil},
		{"no token", []*types.Log{nftCreatedLog(t, testAddr(2), testAddr(3))}},
		{"no nft", []*types.Log{tokenCreatedLog(t, testAddr(2), testAddr(3))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCreatedAsset(factory, &types.Receipt{Logs: tt.logs})
			if !errors.Is(err, ErrEventNotFound) {
				t.Fatalf("expected ErrEventNotFound, got %v", err)
			}
		})
	}
}

func TestProviderFeeFromModel(t *testing.T) {
	fee, err := ProviderFeeFromModel(&model.ProviderFees{
		ProviderFeeAddress: "0x00000000000000000000000000000000000000aa",
		ProviderFeeToken:   "0x00000000000000000000000000000000000000bb",
		ProviderFeeAmount:  model.NewAmount(big.NewInt(5)),
		ProviderData:       "0x7b7d",
		V:                  28,
		R:                  "0x01",
		S:                  "02",
		ValidUntil:         1700000000,
	})
	if err != nil {
		t.Fatalf("ProviderFeeFromModel: %v", err)
	}
	if fee.ProviderFeeAddress != testAddr(0xaa) || fee.ProviderFeeToken != testAddr(0xbb) {
		t.Fatalf("unexpected addresses: %+v", fee)
	}
	if fee.ProviderFeeAmount.Int64() != 5 || fee.ValidUntil.Int64() != 1700000000 || fee.V != 28 {
		t.Fatalf("unexpected numbers: %+v", fee)
	}
	if fee.R[31] != 1 || fee.S[31] != 2 {
		t.Fatalf("r/s not left padded: %x %x", fee.R, fee.S)
	}
	if string(fee.ProviderData) != "{}" {
		t.Fatalf("unexpected provider data %q", fee.ProviderData)
	}
}

func TestProviderFeeFromModel_Nil(t *testing.T) {
	fee, err := ProviderFeeFromModel(nil)
	if err != nil {
		t.Fatalf("ProviderFeeFromModel(nil): %v", err)
	}
	if fee.ProviderFeeAmount.Sign() != 0 || fee.ValidUntil.Sign() != 0 || fee.ProviderData == nil {
		t.Fatalf("unexpected zero fee: %+v", fee)
	}
}

func TestProviderFeeFromModel_Invalid(t *testing.T) {
	_, err := ProviderFeeFromModel(&model.ProviderFees{R: "0xzz"})
	if err == nil {
		t.Fatal("expected error for malformed r")
	}
}

func TestConsumeMarketFeeFromModel(t *testing.T) {
	if fee := ConsumeMarketFeeFromModel(nil); fee.ConsumeMarketFeeAmount == nil || fee.ConsumeMarketFeeAmount.Sign() != 0 {
		t.Fatalf("unexpected zero fee: %+v", fee)
	}
	fee := ConsumeMarketFeeFromModel(&model.ConsumeMarketFee{
		ConsumeMarketFeeAddress: "0x00000000000000000000000000000000000000cc",
		ConsumeMarketFeeAmount:  model.NewAmount(big.NewInt(3)),
	})
	if fee.ConsumeMarketFeeAddress != testAddr(0xcc) || fee.ConsumeMarketFeeAmount.Int64() != 3 {
		t.Fatalf("unexpected fee: %+v", fee)
	}
}
