package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestGenerateDID_Deterministic(t *testing.T) {
	addr := common.HexToAddress("0xa15024b732A8f2146423D14209eFd074e61964F3")
	chainID := big.NewInt(8996)

	first := GenerateDID(addr, chainID)
	second := GenerateDID(addr, chainID)
	if first != second {
		t.Fatalf("GenerateDID not stable: %s != %s", first, second)
	}
	if !IsDID(first) {
		t.Fatalf("GenerateDID returned malformed id %q", first)
	}
}

func TestGenerateDID_UsesChecksummedAddressAndDecimalChainID(t *testing.T) {
	addr := common.HexToAddress("0xa15024b732a8f2146423d14209efd074e61964f3")
	chainID := big.NewInt(5)

	sum := sha256.Sum256([]byte("0xa15024b732A8f2146423D14209eFd074e61964F3" + "5"))
	want := "did:op:" + hex.EncodeToString(sum[:])

	if got := GenerateDID(addr, chainID); got != want {
		t.Fatalf("GenerateDID = %s, want %s", got, want)
	}
}

func TestGenerateDID_DependsOnChain(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	if GenerateDID(addr, big.NewInt(1)) == GenerateDID(addr, big.NewInt(8996)) {
		t.Fatal("expected different ids on different chains")
	}
}

func TestIsDID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"did:op:" + strings.Repeat("a", 64), true},
		{"did:op:" + strings.Repeat("A", 64), false},
		{"did:op:" + strings.Repeat("a", 63), false},
		{"id:op:" + strings.Repeat("a", 64), false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsDID(tt.in); got != tt.want {
			t.Fatalf("IsDID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"string", `"1000000000000000000"`, "1000000000000000000"},
		{"number", `42`, "42"},
		{"exponent", `1e+21`, "1000000000000000000000"},
		{"hex", `"0x10"`, "16"},
		{"null", `null`, "0"},
		{"empty", `""`, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			if err := json.Unmarshal([]byte(tt.in), &a); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.in, err)
			}
			if a.String() != tt.want {
				t.Fatalf("Unmarshal(%s) = %s, want %s", tt.in, a.String(), tt.want)
			}
		})
	}
}

func TestAmount_UnmarshalJSONRejectsFractions(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`"1.5"`), &a); err == nil {
		t.Fatal("expected error for fractional amount")
	}
}

func TestProviderFees_Owed(t *testing.T) {
	var nilFee *ProviderFees
	if nilFee.Owed() {
		t.Fatal("nil fee must not be owed")
	}
	if (&ProviderFees{}).Owed() {
		t.Fatal("fee without amount must not be owed")
	}
	if (&ProviderFees{ProviderFeeAmount: NewAmount(big.NewInt(0))}).Owed() {
		t.Fatal("zero fee must not be owed")
	}
	if !(&ProviderFees{ProviderFeeAmount: NewAmount(big.NewInt(1))}).Owed() {
		t.Fatal("non-zero fee must be owed")
	}
}

func TestProviderComputeInitializeResults_Decode(t *testing.T) {
	raw := `{
		"algorithm": {"datatoken": "0x01", "validOrder": "0xabc"},
		"datasets": [{
			"datatoken": "0x02",
			"providerFee": {
				"providerFeeAddress": "0x03",
				"providerFeeToken": "0x04",
				"providerFeeAmount": "0",
				"providerData": "0x7b7d",
				"v": 27,
				"r": "0x11",
				"s": "0x22",
				"validUntil": 1700000000
			}
		}]
	}`
	var res ProviderComputeInitializeResults
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if res.Algorithm == nil || res.Algorithm.ValidOrder != "0xabc" || res.Algorithm.ProviderFee != nil {
		t.Fatalf("unexpected algorithm entry: %+v", res.Algorithm)
	}
	if len(res.Datasets) != 1 {
		t.Fatalf("expected 1 dataset, got %d", len(res.Datasets))
	}
	fee := res.Datasets[0].ProviderFee
	if fee == nil || fee.V != 27 || fee.ValidUntil != 1700000000 || fee.Owed() {
		t.Fatalf("unexpected provider fee: %+v", fee)
	}
}

func TestJobStatus(t *testing.T) {
	tests := []struct {
		status   JobStatus
		terminal bool
		failed   bool
	}{
		{JobWarmingUp, false, false},
		{JobRunningAlgorithm, false, false},
		{JobDataProvisioningFailed, true, true},
		{JobAlgorithmProvisioningFailed, true, true},
		{JobCompleted, true, false},
		{JobStatus(80), true, false},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Fatalf("%v.IsTerminal() = %v, want %v", tt.status, got, tt.terminal)
		}
		if got := tt.status.IsFailed(); got != tt.failed {
			t.Fatalf("%v.IsFailed() = %v, want %v", tt.status, got, tt.failed)
		}
	}
	if JobCompleted.String() != "Job completed" {
		t.Fatalf("unexpected text %q", JobCompleted.String())
	}
}

func TestFilesValidate(t *testing.T) {
	if err := NewURLFiles("https://example.com/data.csv").Validate(); err != nil {
		t.Fatalf("url files: %v", err)
	}
	if err := NewIPFSFiles("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG").Validate(); err != nil {
		t.Fatalf("ipfs files: %v", err)
	}
	if err := NewIPFSFiles("not-a-cid").Validate(); err == nil {
		t.Fatal("expected error for invalid cid")
	}
	if err := (&Files{}).Validate(); err == nil {
		t.Fatal("expected error for empty descriptor")
	}
	if err := (&Files{Files: []FileObject{{Type: "arweave"}}}).Validate(); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestDDOClone_IsIndependent(t *testing.T) {
	orig := &DDO{
		Context: []string{"https://w3id.org/did/v1"},
		Metadata: Metadata{
			Algorithm: &AlgorithmMetadata{Container: Container{Image: "ubuntu"}},
		},
		Services: []Service{{ID: "s", Compute: &ComputePolicy{AllowRawAlgorithm: true}}},
		Event:    &Event{Tx: "0x1"},
	}
	c := orig.Clone()
	c.Services[0].Files = "0xdead"
	c.Services[0].Compute.AllowRawAlgorithm = false
	c.Metadata.Algorithm.Container.Image = "node"

	if orig.Services[0].Files != "" || !orig.Services[0].Compute.AllowRawAlgorithm {
		t.Fatal("clone shares services with original")
	}
	if orig.Metadata.Algorithm.Container.Image != "ubuntu" {
		t.Fatal("clone shares algorithm metadata with original")
	}
	if c.Event != nil {
		t.Fatal("clone must drop indexer fields")
	}
}
